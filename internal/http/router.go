// Package httpapi assembles the chi router: platform middleware, the admin
// and session route groups, health and metrics.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vaxtrack/internal/platform/metrics"
	"vaxtrack/pkg/platform/httputil"
	adminmw "vaxtrack/pkg/platform/middleware/admin"
	authmw "vaxtrack/pkg/platform/middleware/auth"
	"vaxtrack/pkg/platform/middleware/metadata"
	"vaxtrack/pkg/platform/middleware/request"
	"vaxtrack/pkg/platform/middleware/requesttime"
)

const healthTimeout = 2 * time.Second

// Registrar is implemented by every module handler.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

type Config struct {
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
	AdminToken string
	Tokens     authmw.JWTValidator
	Roles      []string

	// Location sets the request clock's zone; nil means UTC.
	Location *time.Location

	// Admin handlers sit behind X-Admin-Token, Session handlers behind a bearer JWT.
	Admin   []Registrar
	Session []Registrar
	Checks  map[string]HealthCheck
}

func NewRouter(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(request.Recovery(logger))
	r.Use(request.Logger(logger))
	r.Use(requesttime.MiddlewareIn(cfg.Location))
	r.Use(metrics.LatencyMiddleware(cfg.Metrics))

	r.Get("/health", healthHandler(cfg.Checks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(adminmw.RequireAdminToken(cfg.AdminToken, logger))
		for _, h := range cfg.Admin {
			h.Register(r)
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(cfg.Tokens, logger))
		if len(cfg.Roles) > 0 {
			r.Use(authmw.RequireRole(logger, cfg.Roles...))
		}
		for _, h := range cfg.Session {
			h.Register(r)
		}
	})

	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// healthHandler runs every check and answers 503 when any of them fails.
func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		if len(names) > 0 {
			resp.Checks = make(map[string]string, len(names))
		}
		status := http.StatusOK
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
