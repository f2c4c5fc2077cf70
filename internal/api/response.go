package api

import (
	"encoding/json"
	"net/http"

	"github.com/kubeshield/audit-service/internal/event"
)

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorResponse is the standard error envelope.
type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

type timeSeriesPoint struct {
	Timestamp string `json:"timestamp"`
	Value     int    `json:"value"`
}

type attackVolumeResponse struct {
	Data     []timeSeriesPoint `json:"data"`
	Interval string            `json:"interval"`
}

type healthResponse struct {
	Status           string `json:"status"`
	Timestamp        string `json:"timestamp"`
	Version          string `json:"version"`
	SimulationActive bool   `json:"simulation_active"`
}

type statusResponse struct {
	EnforcementStatus string  `json:"enforcement_status"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
	TotalLogs         int     `json:"total_logs"`
	SimulationEnabled bool    `json:"simulation_enabled"`
}

// missingFields reports which required event fields are empty. Container,
// image and node name are optional.
func missingFields(ev *event.SecurityEvent) []string {
	var missing []string
	required := []struct {
		name  string
		value string
	}{
		{"timestamp", ev.Timestamp},
		{"eventType", ev.EventType},
		{"severity", ev.Severity},
		{"podName", ev.PodName},
		{"namespace", ev.Namespace},
		{"reason", ev.Reason},
		{"action", ev.Action},
		{"policyName", ev.PolicyName},
		{"description", ev.Description},
	}
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}
