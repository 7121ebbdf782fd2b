package domain

import "time"

// AuditLog is an immutable record of an administrative action. Entries
// are written after the permission decision and the mutation succeed,
// never before.
type AuditLog struct {
	ID        string
	ActorID   string
	ActorRole string
	Action    string
	Entity    string
	EntityID  string
	Meta      map[string]any
	CreatedAt time.Time
}
