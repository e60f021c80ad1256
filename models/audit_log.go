package models

import "time"

// AuditLogEntry represents a single HTTP mutation event. This is the
// request-level trail; per-entity change history lives on each record.
type AuditLogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	Method    string    `json:"method"`
	Path      string    `json:"path"`
	FormData  string    `json:"formData"`
	UserAgent string    `json:"userAgent"`
	IPAddress string    `json:"ipAddress"`
}
