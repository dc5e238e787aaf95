package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/dmitrijs2005/internportal/internal/client/client"
	"github.com/dmitrijs2005/internportal/internal/client/config"
	"github.com/dmitrijs2005/internportal/internal/client/services"
)

type Mode string

const (
	ModeOnline  Mode = "online"
	ModeOffline Mode = "offline"
)

const onlineCheckInterval = 30 * time.Second

type App struct {
	config       *config.Config
	authService  services.AuthService
	entryService services.EntryService
	db           *sql.DB
	email        string
	Mode         Mode
	reader       *bufio.Reader
	out          io.Writer
}

func NewApp(c *config.Config) (*App, error) {
	apiClient := client.NewHTTPClient(c.ServerBaseURL, c.RequestTimeout)

	sessions, err := client.NewSessionStore(c.SessionDir)
	if err != nil {
		log.Printf("error initializing session store: %s", err.Error())
		return nil, err
	}

	db, err := client.InitDatabase(context.Background(), c.SessionDir)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	as := services.NewAuthService(apiClient, sessions)
	es := services.NewEntryService(apiClient, db, apiClient.HTTP())

	return &App{
		config:       c,
		authService:  as,
		entryService: es,
		db:           db,
		reader:       bufio.NewReader(os.Stdin),
		out:          os.Stdout,
	}, nil
}

func (a *App) setMode(mode Mode) {
	if a.Mode != mode {
		a.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) isLoggedIn() bool {
	return a.email != ""
}

func (a *App) getStatus() string {
	s := string(a.Mode)
	if a.email != "" {
		s = a.email + " " + s
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Run restores a saved session if there is one, starts the connectivity
// watcher and blocks in the REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	if a.db != nil {
		defer a.db.Close()
	}
	fmt.Fprintln(a.out, "Welcome to InternPortal CLI (type 'help' for commands)")

	a.checkOnline(ctx)
	a.restore(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(ctx, onlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) restore(ctx context.Context) {
	email, err := a.authService.Restore(ctx)
	if err != nil {
		if !errors.Is(err, client.ErrNoSession) {
			log.Printf("Session not restored: %s", err.Error())
		}
		return
	}
	a.email = email
	fmt.Fprintf(a.out, "Logged in as %s\n", email)
}

func (a *App) checkOnline(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := a.authService.Ping(ctx); err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}

// StartOnlineStatusWatcher pings the server every interval and flips Mode
// accordingly until ctx is cancelled.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}
