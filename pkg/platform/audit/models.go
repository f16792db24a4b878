package audit

import "time"

// EventCategory classifies audit events by their primary purpose.
type EventCategory string

const (
	// CategoryDataQuality covers events an operator reviews to improve
	// reference data, such as references that matched no organization.
	CategoryDataQuality EventCategory = "data_quality"

	// CategoryOperations covers routine operational events.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory     `json:"category"`
	Timestamp time.Time         `json:"timestamp"`
	Action    string            `json:"action"`
	Subject   string            `json:"subject"`
	Reason    string            `json:"reason,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

type AuditEvent string

const (
	EventUnmatchedReference AuditEvent = "unmatched_reference"
	EventUnmatchedCleared   AuditEvent = "unmatched_cleared"
	EventCacheRefreshed     AuditEvent = "registry_cache_refreshed"
)
