// Package httpapi exposes the blocking-debugger pipeline over HTTP: submit
// a run against two table sources, poll for its outcome, and list run
// history. It is a thin wire-protocol adapter kept outside the
// dependency-free algorithmic core.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"blockdebug/internal/config"
	"blockdebug/internal/middleware"
)

// Deps are the dependencies the router wires into handlers.
type Deps struct {
	Cfg    *config.Config
	Runner RunLauncher
	Logger *slog.Logger
}

// NewRouter builds the chi router for the blocking-debugger HTTP API.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := &Handler{runner: deps.Runner, logger: logger}

	var authMW func(http.Handler) http.Handler
	if deps.Cfg.JWTSecret != "" {
		validator, err := middleware.NewHS256Validator(deps.Cfg.JWTSecret)
		if err != nil {
			logger.Error("jwt validator init failed", "error", err)
		} else {
			authMW = middleware.NewAuthenticator(validator).Middleware()
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: deps.Cfg.RateLimitRPS,
		Burst:             deps.Cfg.RateLimitBurst,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]interface{}{"code": 404, "message": "not found"})
	})

	r.Route("/v1/runs", func(r chi.Router) {
		if authMW != nil {
			r.Use(authMW)
		}
		r.Post("/", h.CreateRun)
		r.Get("/", h.ListRuns)
		r.Get("/{id}", h.GetRun)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
