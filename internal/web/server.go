// Package web serves the login page, the user listing and the web manifest.
package web

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/samvad-hq/picnic-web/internal/domain"
	"github.com/samvad-hq/picnic-web/internal/logger"
	"github.com/samvad-hq/picnic-web/internal/session"
	"github.com/samvad-hq/picnic-web/internal/site"
	"github.com/samvad-hq/picnic-web/internal/users"
)

// Authenticator is the login surface the pages drive.
type Authenticator interface {
	EnsureRegistered(ctx context.Context) error
	Login(ctx context.Context, sess *session.Session, creds domain.Credentials) error
	IsLoggedIn(sess *session.Session) bool
	Logout(ctx context.Context, sess *session.Session)
}

// Config holds the settings the server needs.
type Config struct {
	Addr         string
	Site         site.Metadata
	ToastDismiss time.Duration
	Logger       logger.Logger
}

// Server is the HTTP surface of the portal.
type Server struct {
	cfg      Config
	router   chi.Router
	auth     Authenticator
	users    users.Lister
	sessions *session.Manager
	pages    map[string]*template.Template
	metrics  *metrics
	log      logger.Logger
	now      func() time.Time
}

// NewServer wires routes over the given services.
func NewServer(cfg Config, authn Authenticator, lister users.Lister, sessions *session.Manager) (*Server, error) {
	if authn == nil || lister == nil || sessions == nil {
		return nil, fmt.Errorf("web server requires auth, users and sessions")
	}
	pages, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NopLogger{}
	}

	s := &Server{
		cfg:      cfg,
		router:   chi.NewRouter(),
		auth:     authn,
		users:    lister,
		sessions: sessions,
		pages:    pages,
		metrics:  newMetrics(),
		log:      log,
		now:      time.Now,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/manifest.webmanifest", s.handleManifest)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(s.sessions.Middleware)

		r.Get("/", s.handleHome)
		r.Get("/auth/login", s.handleLoginPage)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)
		r.Post("/slides/{action}", s.handleSlide)

		r.NotFound(s.handleNotFound)
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
}
