// Package rest exposes the event API over HTTP/JSON.
package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/eventaura/internal/logging"
	"github.com/dmitrijs2005/eventaura/internal/server/auth"
	"github.com/dmitrijs2005/eventaura/internal/server/models"
	"github.com/dmitrijs2005/eventaura/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*services.Session, error)
	Logout(ctx context.Context, token string) error
	ResolveIdentity(ctx context.Context, token string) (auth.Identity, error)
	CheckAuth(ctx context.Context, token string) (auth.Identity, error)
	Me(ctx context.Context, identity auth.Identity) (*models.User, error)
}

type EventService interface {
	AddEvent(ctx context.Context, identity auth.Identity, in services.EventInput) (*models.Event, error)
	ListEvents(ctx context.Context, identity auth.Identity, search string, window services.DateWindow) ([]services.EventView, error)
	ListMyEvents(ctx context.Context, identity auth.Identity) ([]*models.Event, error)
	ListFeaturedUpcoming(ctx context.Context) ([]*models.Event, error)
	JoinEvent(ctx context.Context, identity auth.Identity, eventID string) error
	UpdateEvent(ctx context.Context, identity auth.Identity, eventID string, in services.EventInput) error
	DeleteEvent(ctx context.Context, identity auth.Identity, eventID string) error
}

type PhotoService interface {
	PresignUpload(ctx context.Context, contentType string) (*services.PhotoUpload, error)
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps bundles what the handlers need.
type Deps struct {
	Users    UserService
	Events   EventService
	Photos   PhotoService
	DB       Pinger
	Logger   logging.Logger
	Registry *prometheus.Registry

	SessionTTL   time.Duration
	CookieSecure bool
}

// Handler is the HTTP adapter over the services.
type Handler struct {
	users   UserService
	events  EventService
	photos  PhotoService
	db      Pinger
	logger  logging.Logger
	metrics *Metrics

	registry     *prometheus.Registry
	sessionTTL   time.Duration
	cookieSecure bool
}

// NewHandler registers HTTP metrics with deps.Registry, creating a fresh
// registry when none is given.
func NewHandler(deps Deps) *Handler {
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	return &Handler{
		users:        deps.Users,
		events:       deps.Events,
		photos:       deps.Photos,
		db:           deps.DB,
		logger:       deps.Logger.With("module", "rest"),
		metrics:      NewMetrics(reg),
		registry:     reg,
		sessionTTL:   deps.SessionTTL,
		cookieSecure: deps.CookieSecure,
	}
}

// NewRouter registers routes and the middleware stack.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(h.loggingMiddleware)
	r.Use(h.metricsMiddleware)
	// Innermost, so a recovered panic still reaches the access log and
	// request metrics as a 500.
	r.Use(h.recoverMiddleware)

	r.Get("/", h.root)
	r.Get("/healthz", h.healthz)
	r.Handle("/metrics", promhttp.HandlerFor(h.registry, promhttp.HandlerOpts{}))

	r.Post("/register", h.register)
	r.Post("/login", h.login)
	r.Post("/logout", h.logout)
	r.Get("/check-auth", h.checkAuth)
	r.Post("/photos/presign", h.presignPhoto)
	r.Get("/featured-upcoming-events", h.featuredUpcomingEvents)

	r.Group(func(r chi.Router) {
		r.Use(h.authMiddleware)
		r.Get("/me", h.me)
		r.Get("/events", h.listEvents)
		r.Get("/my-events", h.myEvents)
		r.Post("/add-events", h.addEvent)
		r.Post("/events/join/{id}", h.joinEvent)
		r.Put("/events/{id}", h.updateEvent)
		r.Delete("/events/{id}", h.deleteEvent)
	})

	return r
}
