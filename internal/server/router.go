// Package server assembles the HTTP handler serving the splitbill services.
package server

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mmynk/splitbill/internal/auth"
	"github.com/mmynk/splitbill/internal/metrics"
	"github.com/mmynk/splitbill/internal/middleware"
	"github.com/mmynk/splitbill/internal/service"
	"github.com/mmynk/splitbill/internal/storage"
	"github.com/mmynk/splitbill/pkg/api"
)

// Deps are the collaborators the router wires into the services.
type Deps struct {
	Store         storage.Store
	JWT           *auth.JWTManager
	Authenticator auth.Authenticator
	Metrics       *metrics.Metrics
	Logger        *slog.Logger

	// CORSOrigin is sent as Access-Control-Allow-Origin. Empty means "*".
	CORSOrigin string
	// StaticPath is a directory served for every non-RPC path. Empty
	// disables static serving.
	StaticPath string
}

// NewRouter builds the root handler: health and metrics endpoints, the
// three Connect services and optionally the static frontend.
func NewRouter(deps Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(logger))
	r.Use(chimw.Recoverer)
	r.Use(cors(deps.CORSOrigin))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics.Handler())
	}

	// Metrics sees every call, including ones rejected by auth
	protected := connect.WithInterceptors(
		middleware.MetricsInterceptor(deps.Metrics),
		middleware.RequireAuth(deps.JWT),
		middleware.LoggingInterceptor(logger),
	)
	public := connect.WithInterceptors(
		middleware.MetricsInterceptor(deps.Metrics),
		middleware.OptionalAuth(deps.JWT),
		middleware.LoggingInterceptor(logger),
	)

	mount := func(path string, h http.Handler) {
		r.Handle(path+"*", h)
	}
	mount(api.NewSplitBillServiceHandler(service.NewSplitBillService(deps.Store, deps.Metrics), protected))
	mount(api.NewParticipantServiceHandler(service.NewParticipantService(deps.Store), protected))
	mount(api.NewAuthServiceHandler(service.NewAuthService(deps.Authenticator, deps.JWT, deps.Store, logger), public))

	if deps.StaticPath != "" {
		r.NotFound(staticHandler(deps.StaticPath, logger))
	}
	return r
}

// requestLogger logs each HTTP request with its chi request ID.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Debug("Request completed",
				"request_id", chimw.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"remote_addr", r.RemoteAddr,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// cors adds CORS headers for browser Connect clients and answers preflight
// requests.
func cors(origin string) func(http.Handler) http.Handler {
	if origin == "" {
		origin = "*"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms")
			h.Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")
			if origin != "*" {
				h.Add("Vary", "Origin")
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// staticHandler serves files from dir, falling back to index.html for
// unknown paths. Unknown RPC paths stay 404s.
func staticHandler(dir string, logger *slog.Logger) http.HandlerFunc {
	root, err := filepath.Abs(dir)
	if err != nil {
		root = dir
	}
	logger.Info("Serving static files", "path", root)

	return func(w http.ResponseWriter, r *http.Request) {
		if api.IsProcedure(r.URL.Path) {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}
		filePath := filepath.Join(root, filepath.Clean("/"+urlPath))

		if info, err := os.Stat(filePath); err != nil || info.IsDir() {
			http.ServeFile(w, r, filepath.Join(root, "index.html"))
			return
		}
		http.ServeFile(w, r, filePath)
	}
}
