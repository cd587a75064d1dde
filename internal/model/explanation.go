package model

import (
	"time"

	"github.com/google/uuid"
)

// Explanation is free-text rationale attached to one snapshot field.
// Explanations are append-only: they are never edited or removed, a newer row
// for the same (snapshot, field) supersedes the older one.
type Explanation struct {
	ID         uuid.UUID
	SnapshotID uuid.UUID
	FieldName  string
	Text       string
	CreatedBy  uuid.UUID
	CreatedAt  time.Time

	// AuthorName is joined from users for display; empty when not loaded.
	AuthorName string
}
