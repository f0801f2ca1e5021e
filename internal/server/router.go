package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/cors"

	"finadvise-backend/internal/ai"
	"finadvise-backend/internal/auth"
	"finadvise-backend/internal/tasks"
	"finadvise-backend/pkg/logging"
)

// Config wires handlers into the router.
type Config struct {
	Logger         *logging.Logger
	AIHandler      *ai.Handler
	TaskHandler    *tasks.TaskHandler
	AuthHandler    *auth.Handler
	AuthMiddleware auth.Middleware
	// AuthRequired puts the /ai routes behind a bearer token.
	AuthRequired   bool
	AllowedOrigins []string
	MetricsHandler http.Handler
}

// New builds the HTTP handler. Routes are served both at the root and
// under /api, which is where the web client calls them.
func New(cfg *Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	mountRoutes(r, cfg)
	r.Route("/api", func(api chi.Router) {
		mountRoutes(api, cfg)
	})

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return c.Handler(r)
}

func mountRoutes(r chi.Router, cfg *Config) {
	r.Group(func(r chi.Router) {
		if cfg.AuthRequired {
			r.Use(cfg.AuthMiddleware.Require)
		}
		if cfg.AIHandler != nil {
			r.Post("/ai/analyze", cfg.AIHandler.Analyze)
			r.Post("/ai/chat", cfg.AIHandler.Chat)
		}
		if cfg.TaskHandler != nil {
			r.Post("/ai/tasks/generate", cfg.TaskHandler.Generate)
		}
	})

	if cfg.AuthHandler != nil {
		r.Post("/token", cfg.AuthHandler.Token)
		r.With(cfg.AuthMiddleware.Require).Get("/users/me", cfg.AuthHandler.Me)
	}
}

// RequestLogger emits one structured log line per request.
func RequestLogger(logger *logging.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := middleware.GetReqID(r.Context())
			if reqID == "" {
				reqID = uuid.NewString()
			}

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("request_id", reqID).
				Str("remote_ip", r.RemoteAddr).
				Int("status", status).
				Dur("duration", time.Since(start)).
				Msg("request completed")
		})
	}
}
