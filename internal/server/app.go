// Package server wires the InternPortal backend together: it opens the
// database, applies migrations, builds the services and runs the HTTP API
// until the process is asked to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/internportal/internal/dbx"
	"github.com/dmitrijs2005/internportal/internal/logging"
	"github.com/dmitrijs2005/internportal/internal/server/auth"
	"github.com/dmitrijs2005/internportal/internal/server/config"
	"github.com/dmitrijs2005/internportal/internal/server/httpapi"
	"github.com/dmitrijs2005/internportal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/internportal/internal/server/services"
)

const defaultPurgeInterval = 10 * time.Minute

var poolConfig = dbx.PoolConfig{
	MaxOpenConns:    25,
	MaxIdleConns:    5,
	ConnMaxLifetime: 30 * time.Minute,
}

var openDB = dbx.Open

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	authService   *services.AuthService
	handler       http.Handler
	purgeInterval time.Duration
}

// NewApp connects to the database, migrates it and builds the application.
func NewApp(ctx context.Context, c *config.Config, l logging.Logger) (*App, error) {
	db, err := openDB(ctx, repomanager.DriverName, c.DatabaseDSN, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	app, err := newApp(db, rm, c, l)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(db *sql.DB, rm repomanager.RepositoryManager, c *config.Config, l logging.Logger) (*App, error) {
	hasher, err := auth.NewPasswordHasher(c.PasswordHashing)
	if err != nil {
		return nil, err
	}

	if c.UsesDefaultSecret() {
		l.Warn(context.Background(), "tokens are signed with the built-in development key; set INTERNPORTAL_SECRET_KEY")
	}
	if c.PasswordHashing == config.HashingPlaintext {
		l.Warn(context.Background(), "passwords are stored in plaintext")
	}

	issuer := newTokenIssuer(c)

	verifier := services.NewCredentialVerifier(db, rm, hasher, l)
	as := services.NewAuthService(db, rm, verifier, issuer, hasher, services.NewLogNotifier(l), c, l)
	es := services.NewEntryService(db, rm, c, l)

	h := httpapi.NewHandler(l, httpapi.NewMetrics(), as, es, issuer)

	return &App{
		config:      c,
		logger:      l,
		db:          db,
		authService: as,
		handler: h.Routes(httpapi.Options{
			CORSOrigins:    c.CORSOrigins,
			RequestTimeout: c.RequestTimeout,
		}),
		purgeInterval: defaultPurgeInterval,
	}, nil
}

// newTokenIssuer builds the issuer, falling back to the built-in secret,
// issuer and audience for empty values.
func newTokenIssuer(c *config.Config) *auth.TokenIssuer {
	secret, iss, aud := c.SecretKey, c.TokenIssuer, c.TokenAudience
	if secret == "" {
		secret = config.DefaultSecretKey
	}
	if iss == "" {
		iss = config.DefaultTokenIssuer
	}
	if aud == "" {
		aud = config.DefaultTokenAudience
	}
	return auth.NewTokenIssuer([]byte(secret), iss, aud, c.AccessTokenValidityDuration)
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.HTTPAddr, app.logger, app.handler)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// purgeExpiredResets drops stale reset tickets every purgeInterval.
func (app *App) purgeExpiredResets(ctx context.Context) {
	ticker := time.NewTicker(app.purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.authService.PurgeExpiredResets(ctx)
			if err != nil {
				app.logger.Error(ctx, "purge expired reset tokens", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "purged expired reset tokens", "count", n)
			}
		}
	}
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// closes the database.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.purgeExpiredResets(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
