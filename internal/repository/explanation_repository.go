package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harwick/wip-reporting/internal/model"
)

type ExplanationRepository struct {
	db *gorm.DB
}

func NewExplanationRepository(db *gorm.DB) *ExplanationRepository {
	return &ExplanationRepository{db: db}
}

// Create appends a new explanation row. Rows are never updated or deleted, a
// newer row for the same (snapshot, field) supersedes older ones.
func (r *ExplanationRepository) Create(ctx context.Context, expl model.Explanation) (*model.Explanation, error) {
	var row explanationRow
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO cell_explanations (snapshot_id, field_name, explanation, created_by)
		VALUES (?, ?, ?, ?)
		RETURNING id, snapshot_id, field_name, explanation, created_by, created_at
	`,
		expl.SnapshotID,
		expl.FieldName,
		expl.Text,
		expl.CreatedBy,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	saved := row.toModel()
	return &saved, nil
}

// ListBySnapshot returns explanations for a snapshot, newest first.
// fieldName narrows to one field when non-empty.
func (r *ExplanationRepository) ListBySnapshot(ctx context.Context, snapshotID uuid.UUID, fieldName string) ([]model.Explanation, error) {
	baseQuery := `
		SELECT
			e.id,
			e.snapshot_id,
			e.field_name,
			e.explanation,
			e.created_by,
			e.created_at,
			COALESCE(NULLIF(TRIM(u.first_name || ' ' || u.last_name), ''), u.username) AS author_name
		FROM cell_explanations e
		JOIN users u ON u.id = e.created_by
		WHERE e.snapshot_id = ?
	`
	args := []interface{}{snapshotID}
	if fieldName != "" {
		baseQuery += " AND e.field_name = ?"
		args = append(args, fieldName)
	}
	baseQuery += " ORDER BY e.created_at DESC"

	var rows []explanationRow
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	explanations := make([]model.Explanation, 0, len(rows))
	for _, row := range rows {
		explanations = append(explanations, row.toModel())
	}
	return explanations, nil
}

// LatestPerField returns the current explanation of every explained field of
// a snapshot: the newest row per field.
func (r *ExplanationRepository) LatestPerField(ctx context.Context, snapshotID uuid.UUID) ([]model.Explanation, error) {
	var rows []explanationRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT ON (e.field_name)
			e.id,
			e.snapshot_id,
			e.field_name,
			e.explanation,
			e.created_by,
			e.created_at,
			COALESCE(NULLIF(TRIM(u.first_name || ' ' || u.last_name), ''), u.username) AS author_name
		FROM cell_explanations e
		JOIN users u ON u.id = e.created_by
		WHERE e.snapshot_id = ?
		ORDER BY e.field_name, e.created_at DESC
	`, snapshotID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	explanations := make([]model.Explanation, 0, len(rows))
	for _, row := range rows {
		explanations = append(explanations, row.toModel())
	}
	return explanations, nil
}

type explanationRow struct {
	ID          uuid.UUID
	SnapshotID  uuid.UUID
	FieldName   string
	Explanation string
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	AuthorName  string
}

func (row explanationRow) toModel() model.Explanation {
	return model.Explanation{
		ID:         row.ID,
		SnapshotID: row.SnapshotID,
		FieldName:  row.FieldName,
		Text:       row.Explanation,
		CreatedBy:  row.CreatedBy,
		CreatedAt:  row.CreatedAt,
		AuthorName: row.AuthorName,
	}
}
