package models

import "time"

// Audit actions form a closed set; persisted records are only ever compared
// against these exact values.
const (
	ActionCreated        = "CREATED"
	ActionUpdatedName    = "UPDATED_NAME"
	ActionActivated      = "ACTIVATED"
	ActionDeactivated    = "DEACTIVATED"
	ActionUpdatedContent = "UPDATED_CONTENT"
	ActionUpdatedPDF     = "UPDATED_PDF"
	ActionFlagged        = "FLAGGED"
	ActionFlagResolved   = "FLAG_RESOLVED"
	ActionAmended        = "AMENDED"
)

// Entity statuses for roster-type records.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// ChangeLog is one entry in an entity's append-only history. Entries are
// appended in causal order and never mutated, reordered, or truncated.
type ChangeLog struct {
	Timestamp time.Time `json:"timestamp"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	Actor     string    `json:"actor"`
}

// NewChangeLog creates a history entry stamped with the current UTC time.
func NewChangeLog(action, details, actor string) ChangeLog {
	return ChangeLog{
		Timestamp: time.Now().UTC(),
		Action:    action,
		Details:   details,
		Actor:     actor,
	}
}

// AppendHistory returns a new history slice with the entry appended. The
// original slice is never modified in place so cached copies stay stable.
func AppendHistory(history []ChangeLog, entry ChangeLog) []ChangeLog {
	out := make([]ChangeLog, 0, len(history)+1)
	out = append(out, history...)
	out = append(out, entry)
	return out
}
