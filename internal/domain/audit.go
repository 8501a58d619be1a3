package domain

import "time"

// AuditLogEntry is an append-only trail record. The system never mutates or
// deletes entries.
type AuditLogEntry struct {
	Timestamp time.Time
	Actor     string
	Action    string
	Details   string
}
