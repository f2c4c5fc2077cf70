package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/kubeshield/audit-service/internal/config"
	"github.com/kubeshield/audit-service/internal/metrics"
)

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs each request and records its latency.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)
		metrics.RequestDuration.WithLabelValues(r.Method, metricPath(r.URL.Path)).Observe(float64(elapsed.Milliseconds()))
		slog.Info("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration_ms", elapsed.Milliseconds())
	})
}

// metricPath collapses per-event paths so the duration histogram keeps a
// bounded label set.
func metricPath(path string) string {
	if strings.HasPrefix(path, "/api/v1/logs/") {
		return "/api/v1/logs/{id}"
	}
	return path
}

// corsMiddleware applies the configured CORS policy so the dashboard can
// call the API cross-origin. Origins are read from the loader on every
// request so hot reloads take effect.
func corsMiddleware(loader *config.Loader, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			if allowed := matchOrigin(loader.Config().CORSOrigins, origin); allowed != "" {
				w.Header().Set("Access-Control-Allow-Origin", allowed)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			}
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func matchOrigin(allowed []string, origin string) string {
	for _, a := range allowed {
		if a == "*" {
			return "*"
		}
		if a == origin {
			return origin
		}
	}
	return ""
}
