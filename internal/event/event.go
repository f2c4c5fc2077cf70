package event

import "time"

// Severity levels reported by producers.
const (
	SeverityCritical = "CRITICAL"
	SeverityHigh     = "HIGH"
	SeverityMedium   = "MEDIUM"
	SeverityLow      = "LOW"
	SeverityInfo     = "INFO"
)

// Event types reported by the operator and the simulator.
const (
	TypePrivilegedContainer = "PRIVILEGED_CONTAINER"
	TypeDisallowedRegistry  = "DISALLOWED_REGISTRY"
	TypeRootUser            = "ROOT_USER"
	TypeHostNetwork         = "HOST_NETWORK"
	TypeCVEDetected         = "CVE_DETECTED"
	TypeUnauthorizedEgress  = "UNAUTHORIZED_EGRESS"
	TypeSuspiciousProcess   = "SUSPICIOUS_PROCESS"
	TypeConfigDrift         = "CONFIG_DRIFT"
	TypeCryptoMining        = "CRYPTO_MINING"
	TypeLateralMovement     = "LATERAL_MOVEMENT"
	TypePrivilegeEscalation = "PRIVILEGE_ESCALATION"
	TypeDataExfiltration    = "DATA_EXFILTRATION"
)

// Enforcement actions.
const (
	ActionTerminated = "TERMINATED"
	ActionAudit      = "AUDIT"
)

// Event sources.
const (
	SourceOperator   = "operator"
	SourceSimulation = "simulation"
)

// SecurityEvent is the canonical input model for all incoming events.
// JSON keys are camelCase to match what the operator sends.
type SecurityEvent struct {
	Timestamp   string `json:"timestamp"`
	EventType   string `json:"eventType"`
	Severity    string `json:"severity"`
	PodName     string `json:"podName"`
	Namespace   string `json:"namespace"`
	Container   string `json:"container,omitempty"`
	Image       string `json:"image,omitempty"`
	Reason      string `json:"reason"`
	Action      string `json:"action"` // TERMINATED, AUDIT, etc.
	PolicyName  string `json:"policyName"`
	NodeName    string `json:"nodeName,omitempty"`
	Description string `json:"description"`
}

// StoredEvent is a SecurityEvent after acceptance: it carries a unique ID,
// the receipt time assigned by the store, and the source that submitted it.
// Stored events are immutable; the store hands out copies.
type StoredEvent struct {
	ID          string    `json:"id"`
	Timestamp   string    `json:"timestamp"`
	EventType   string    `json:"event_type"`
	Severity    string    `json:"severity"`
	PodName     string    `json:"pod_name"`
	Namespace   string    `json:"namespace"`
	Container   string    `json:"container,omitempty"`
	Image       string    `json:"image,omitempty"`
	Reason      string    `json:"reason"`
	Action      string    `json:"action"`
	PolicyName  string    `json:"policy_name"`
	NodeName    string    `json:"node_name,omitempty"`
	Description string    `json:"description"`
	ReceivedAt  time.Time `json:"received_at"`
	Source      string    `json:"source"`
}
