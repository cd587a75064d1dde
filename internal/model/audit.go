package model

import (
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditActionCreate     AuditAction = "CREATE"
	AuditActionUpdate     AuditAction = "UPDATE"
	AuditActionDeactivate AuditAction = "DEACTIVATE"
	AuditActionDelete     AuditAction = "DELETE"
)

// AuditEntry records who changed what and when. Old/new state are JSON blobs
// of the record before and after the mutation.
type AuditEntry struct {
	ID         uuid.UUID
	EntityType string
	EntityID   uuid.UUID
	Action     AuditAction
	OldValue   string
	NewValue   string
	UserID     uuid.UUID
	CreatedAt  time.Time
}
