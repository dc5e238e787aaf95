// Package httpapi exposes the authentication and data entry services over
// HTTP/JSON using a chi router.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/dmitrijs2005/internportal/internal/logging"
	"github.com/dmitrijs2005/internportal/internal/server/auth"
	"github.com/dmitrijs2005/internportal/internal/server/models"
	"github.com/dmitrijs2005/internportal/internal/server/services"
)

type AuthService interface {
	Register(ctx context.Context, req services.RegisterRequest) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	ResetPassword(ctx context.Context, email, newPassword string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error
}

type EntryService interface {
	Create(ctx context.Context, userID int64, in services.NewEntry) (*models.DataEntry, error)
	List(ctx context.Context, userID int64) ([]models.DataEntry, error)
	Get(ctx context.Context, userID, id int64) (*models.DataEntry, error)
	Delete(ctx context.Context, userID, id int64) error
	AttachmentUploadURL(ctx context.Context, userID, id int64) (*services.Attachment, error)
	AttachmentDownloadURL(ctx context.Context, userID, id int64) (*services.Attachment, error)
}

type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Options tune the router's cross-cutting behaviour.
type Options struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
}

type Handler struct {
	auth    AuthService
	entries EntryService
	tokens  TokenParser
	metrics *Metrics
	logger  logging.Logger
}

func NewHandler(l logging.Logger, m *Metrics, as AuthService, es EntryService, tp TokenParser) *Handler {
	return &Handler{
		auth:    as,
		entries: es,
		tokens:  tp,
		metrics: m,
		logger:  l.With("module", "http_api"),
	}
}

// Routes builds the full route tree.
func (h *Handler) Routes(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	if opts.RequestTimeout > 0 {
		r.Use(middleware.Timeout(opts.RequestTimeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.register)
		r.Post("/login", h.login)
		r.Post("/reset-password", h.resetPassword)
		r.Post("/forgot-password", h.forgotPassword)
		r.Post("/reset-password/confirm", h.confirmReset)

		r.Group(func(r chi.Router) {
			r.Use(h.authenticate)
			r.Get("/test", h.test)
			r.Get("/me", h.me)
		})
	})

	r.Route("/entries", func(r chi.Router) {
		r.Use(h.authenticate)
		r.Get("/", h.listEntries)
		r.Post("/", h.createEntry)
		r.Get("/{id}", h.getEntry)
		r.Delete("/{id}", h.deleteEntry)
		r.Post("/{id}/attachment", h.attachmentUpload)
		r.Get("/{id}/attachment", h.attachmentDownload)
	})

	return r
}
