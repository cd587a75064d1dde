package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harwick/wip-reporting/internal/model"
)

// AuditFilter narrows List. Zero values mean "no filter".
type AuditFilter struct {
	EntityType string
	EntityID   *uuid.UUID
	Limit      int
}

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Record(ctx context.Context, entry model.AuditEntry) error {
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO audit_log (entity_type, entity_id, action, old_value, new_value, user_id)
		VALUES (?, ?, ?, NULLIF(?, ''), NULLIF(?, ''), ?)
	`,
		entry.EntityType,
		entry.EntityID,
		string(entry.Action),
		entry.OldValue,
		entry.NewValue,
		entry.UserID,
	).Error
}

func (r *AuditRepository) List(ctx context.Context, filter AuditFilter) ([]model.AuditEntry, error) {
	baseQuery := `
		SELECT id, entity_type, entity_id, action, old_value, new_value, user_id, created_at
		FROM audit_log
	`
	args := []interface{}{}
	var filters []string
	if filter.EntityType != "" {
		filters = append(filters, "entity_type = ?")
		args = append(args, filter.EntityType)
	}
	if filter.EntityID != nil {
		filters = append(filters, "entity_id = ?")
		args = append(args, *filter.EntityID)
	}
	if len(filters) > 0 {
		baseQuery += " WHERE " + strings.Join(filters, " AND ")
	}
	baseQuery += " ORDER BY created_at DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	baseQuery += " LIMIT ?"
	args = append(args, limit)

	var entries []model.AuditEntry
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
