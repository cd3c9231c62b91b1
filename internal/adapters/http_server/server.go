package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger  *zerolog.Logger
	Timeout time.Duration // default 15s
	// CORSOrigins enables go-chi/cors when non-empty.
	CORSOrigins []string
	// RateLimitPerMinute is a per-IP budget; 0 disables limiting.
	RateLimitPerMinute int
}

type Server struct{ mux *chi.Mux }

func New(opts Options) *Server {
	l := log.Logger
	if opts.Logger != nil {
		l = *opts.Logger
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}

	m := chi.NewRouter()

	// All middlewares go here (before any routes are added)
	m.Use(chimw.RealIP)
	m.Use(chimw.RequestID)
	m.Use(chimw.Recoverer)
	m.Use(Timeout(opts.Timeout))
	m.Use(Metrics)
	m.Use(Logger(l))
	if len(opts.CORSOrigins) > 0 {
		m.Use(cors.Handler(cors.Options{
			AllowedOrigins:   opts.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}
	if opts.RateLimitPerMinute > 0 {
		m.Use(httprate.LimitByIP(opts.RateLimitPerMinute, time.Minute))
	}

	return &Server{mux: m}
}

func (s *Server) Mux() http.Handler { return s.mux }

// Router exposes the chi router so other adapters can add their routes.
func (s *Server) Router() chi.Router { return s.mux }

// Mount attaches any extra handler (e.g., /metrics) to the router.
func (s *Server) Mount(path string, h http.Handler) {
	s.mux.Handle(path, h)
}
