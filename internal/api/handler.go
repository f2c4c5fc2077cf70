package api

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kubeshield/audit-service/internal/config"
	"github.com/kubeshield/audit-service/internal/event"
	"github.com/kubeshield/audit-service/internal/store"
)

// Version reported by the health and root endpoints.
const Version = "1.0.0"

const (
	maxLogsLimit      = 100
	legacyLogsLimit   = 50
	defaultVolumeMins = 30
	minVolumeMins     = 5
	maxVolumeMins     = 120
)

// Simulation is the slice of the generator the API needs for health
// reporting.
type Simulation interface {
	IsRunning() bool
}

// Handler holds all HTTP handler dependencies.
type Handler struct {
	store   *store.Store
	sim     Simulation
	loader  *config.Loader
	mux     *http.ServeMux
	started time.Time
}

// New creates an HTTP handler and registers all routes.
func New(st *store.Store, sim Simulation, loader *config.Loader) http.Handler {
	h := &Handler{store: st, sim: sim, loader: loader, mux: http.NewServeMux(), started: time.Now()}

	h.mux.HandleFunc("POST /api/v1/log", h.createLog)
	h.mux.HandleFunc("GET /api/v1/logs", h.getLogs)
	h.mux.HandleFunc("GET /api/v1/logs/{id}", h.getLogByID)
	h.mux.HandleFunc("DELETE /api/v1/logs", h.clearLogs)
	h.mux.HandleFunc("GET /api/v1/metrics", h.getMetrics)
	h.mux.HandleFunc("GET /api/v1/attack-volume", h.getAttackVolume)

	// Legacy routes kept for the original operator wire contract.
	h.mux.HandleFunc("POST /log", h.createLog)
	h.mux.HandleFunc("GET /logs", h.getLegacyLogs)

	h.mux.HandleFunc("GET /health", h.health)
	h.mux.HandleFunc("GET /ready", h.health)
	h.mux.HandleFunc("GET /status", h.status)
	h.mux.HandleFunc("GET /{$}", h.root)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(corsMiddleware(loader, h.mux))
}

// POST /api/v1/log — ingest one validated event from the operator.
func (h *Handler) createLog(w http.ResponseWriter, r *http.Request) {
	var ev event.SecurityEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	if missing := missingFields(&ev); len(missing) > 0 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")))
		return
	}
	stored := h.store.Add(ev, event.SourceOperator)
	writeJSON(w, http.StatusCreated, stored)
}

// GET /api/v1/logs — retained events, newest first.
func (h *Handler) getLogs(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0, 1, maxLogsLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	severity := r.URL.Query().Get("severity")
	writeJSON(w, http.StatusOK, h.store.All(limit, severity))
}

// GET /logs — legacy shape with a default limit.
func (h *Handler) getLegacyLogs(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", legacyLogsLimit, 1, maxLogsLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.store.All(limit, ""))
}

// GET /api/v1/logs/{id}
func (h *Handler) getLogByID(w http.ResponseWriter, r *http.Request) {
	ev, ok := h.store.ByID(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "Event not found")
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// DELETE /api/v1/logs — reset the window and bucket index.
func (h *Handler) clearLogs(w http.ResponseWriter, r *http.Request) {
	h.store.Clear()
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/v1/metrics — aggregate summary for the dashboard.
func (h *Handler) getMetrics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Summary())
}

// GET /api/v1/attack-volume — 5s-bucketed event counts for charting.
func (h *Handler) getAttackVolume(w http.ResponseWriter, r *http.Request) {
	minutes, err := queryInt(r, "minutes", defaultVolumeMins, minVolumeMins, maxVolumeMins)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	volume := h.store.AttackVolume(minutes)
	points := make([]timeSeriesPoint, 0, len(volume))
	for _, p := range volume {
		points = append(points, timeSeriesPoint{
			Timestamp: p.Timestamp.Format(time.RFC3339),
			Value:     p.Count,
		})
	}
	writeJSON(w, http.StatusOK, attackVolumeResponse{Data: points, Interval: "5s"})
}

// GET /health and GET /ready — Kubernetes probes.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:           "healthy",
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
		Version:          Version,
		SimulationActive: h.sim != nil && h.sim.IsRunning(),
	})
}

// GET /status — detailed service status.
func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(h.started).Seconds()
	writeJSON(w, http.StatusOK, statusResponse{
		EnforcementStatus: "ENFORCING",
		UptimeSeconds:     math.Round(uptime*100) / 100,
		TotalLogs:         h.store.Count(),
		SimulationEnabled: h.sim != nil && h.sim.IsRunning(),
	})
}

// GET /
func (h *Handler) root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "Kube-Shield Audit Service",
		"version": Version,
	})
}

// queryInt parses an optional integer query parameter, enforcing bounds
// when the parameter is present. def is returned when absent.
func queryInt(r *http.Request, name string, def, min, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", name)
	}
	if v < min || v > max {
		return 0, fmt.Errorf("%s must be between %d and %d", name, min, max)
	}
	return v, nil
}
