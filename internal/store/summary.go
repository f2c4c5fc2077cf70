package store

import (
	"math"

	"github.com/kubeshield/audit-service/internal/event"
)

// Summary is the aggregate view served to the monitoring dashboard.
type Summary struct {
	ThreatsNeutralized int            `json:"threats_neutralized"`
	ClusterHealthScore float64        `json:"cluster_health_score"`
	ActivePolicies     int            `json:"active_policies"`
	TotalEvents        int            `json:"total_events"`
	EventsBySeverity   map[string]int `json:"events_by_severity"`
	EventsByType       map[string]int `json:"events_by_type"`
}

// Summarize computes the aggregate view of a point-in-time snapshot. It is
// pure: deterministic for a given snapshot and never mutates it. An empty
// snapshot yields zero counts, empty histograms, and a health score of 100.
func Summarize(events []event.StoredEvent) Summary {
	bySeverity := make(map[string]int)
	byType := make(map[string]int)
	policies := make(map[string]struct{})
	terminated := 0

	for _, ev := range events {
		bySeverity[ev.Severity]++
		byType[ev.EventType]++
		policies[ev.PolicyName] = struct{}{}
		if ev.Action == event.ActionTerminated {
			terminated++
		}
	}

	// Base 100, penalized per critical/high event, clamped to [0, 100].
	penalty := float64(5*bySeverity[event.SeverityCritical] + 2*bySeverity[event.SeverityHigh])
	score := math.Max(0, math.Min(100, 100-penalty))
	score = math.Round(score*10) / 10

	return Summary{
		ThreatsNeutralized: terminated,
		ClusterHealthScore: score,
		ActivePolicies:     len(policies),
		TotalEvents:        len(events),
		EventsBySeverity:   bySeverity,
		EventsByType:       byType,
	}
}
