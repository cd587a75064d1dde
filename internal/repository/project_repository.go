package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/harwick/wip-reporting/internal/model"
)

const uniqueViolationCode = "23505"

// isUniqueViolation reports whether err is a Postgres duplicate-key error, so
// callers can surface conflicts instead of opaque SQL failures.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) Create(ctx context.Context, project model.Project) (*model.Project, error) {
	var saved model.Project
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO projects (job_number, name, original_contract_amount, is_active)
		VALUES (?, ?, ?, ?)
		RETURNING id, job_number, name, original_contract_amount, is_active, created_at, updated_at
	`,
		project.JobNumber,
		project.Name,
		project.OriginalContractAmount,
		project.IsActive,
	).Scan(&saved).Error
	if err != nil {
		if isUniqueViolation(err) {
			return nil, gorm.ErrDuplicatedKey
		}
		return nil, err
	}
	return &saved, nil
}

func (r *ProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, job_number, name, original_contract_amount, is_active, created_at, updated_at
		FROM projects
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&project).Error
	if err != nil {
		return nil, err
	}
	if project.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &project, nil
}

func (r *ProjectRepository) GetByJobNumber(ctx context.Context, jobNumber string) (*model.Project, error) {
	var project model.Project
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, job_number, name, original_contract_amount, is_active, created_at, updated_at
		FROM projects
		WHERE job_number = ?
		LIMIT 1
	`, jobNumber).Scan(&project).Error
	if err != nil {
		return nil, err
	}
	if project.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &project, nil
}

// ProjectFilter narrows List. Zero values mean "no filter".
type ProjectFilter struct {
	Search          string
	IncludeInactive bool
	Limit           int
	Offset          int
}

// List returns projects with snapshot bookkeeping, ordered by job number.
// Search matches job number or name, case-insensitive. Inactive projects
// are included only when the filter says so.
func (r *ProjectRepository) List(ctx context.Context, filter ProjectFilter) ([]model.ProjectSummary, error) {
	baseQuery := `
		SELECT
			p.id,
			p.job_number,
			p.name,
			p.original_contract_amount,
			p.is_active,
			p.created_at,
			p.updated_at,
			COUNT(s.id) AS snapshot_count,
			MAX(s.period) AS latest_period
		FROM projects p
		LEFT JOIN wip_snapshots s ON s.project_id = p.id
	`
	args := []interface{}{}
	var filters []string
	if filter.Search != "" {
		filters = append(filters, "(p.job_number ILIKE ? OR p.name ILIKE ?)")
		args = append(args, "%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	if !filter.IncludeInactive {
		filters = append(filters, "p.is_active")
	}
	if len(filters) > 0 {
		baseQuery += " WHERE " + strings.Join(filters, " AND ")
	}
	baseQuery += " GROUP BY p.id ORDER BY p.job_number ASC"
	if filter.Limit > 0 {
		baseQuery += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		baseQuery += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	var rows []projectSummaryRow
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	summaries := make([]model.ProjectSummary, 0, len(rows))
	for _, row := range rows {
		summaries = append(summaries, row.toModel())
	}
	return summaries, nil
}

func (r *ProjectRepository) Update(ctx context.Context, project model.Project) (*model.Project, error) {
	var saved model.Project
	err := r.db.WithContext(ctx).Raw(`
		UPDATE projects
		SET job_number = ?, name = ?, original_contract_amount = ?, is_active = ?, updated_at = NOW()
		WHERE id = ?
		RETURNING id, job_number, name, original_contract_amount, is_active, created_at, updated_at
	`,
		project.JobNumber,
		project.Name,
		project.OriginalContractAmount,
		project.IsActive,
		project.ID,
	).Scan(&saved).Error
	if err != nil {
		if isUniqueViolation(err) {
			return nil, gorm.ErrDuplicatedKey
		}
		return nil, err
	}
	if saved.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &saved, nil
}

func (r *ProjectRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE projects SET is_active = FALSE, updated_at = NOW() WHERE id = ?
	`, id).Error
}

func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		DELETE FROM projects WHERE id = ?
	`, id).Error
}

func (r *ProjectRepository) HasSnapshots(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.WithContext(ctx).Raw(`
		SELECT EXISTS (SELECT 1 FROM wip_snapshots WHERE project_id = ?)
	`, id).Scan(&exists).Error
	if err != nil {
		return false, err
	}
	return exists, nil
}

type projectSummaryRow struct {
	ID                     uuid.UUID
	JobNumber              string
	Name                   string
	OriginalContractAmount decimal.Decimal
	IsActive               bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
	SnapshotCount          int64
	LatestPeriod           model.Period
}

func (row projectSummaryRow) toModel() model.ProjectSummary {
	summary := model.ProjectSummary{
		Project: model.Project{
			ID:                     row.ID,
			JobNumber:              row.JobNumber,
			Name:                   row.Name,
			OriginalContractAmount: row.OriginalContractAmount,
			IsActive:               row.IsActive,
			CreatedAt:              row.CreatedAt,
			UpdatedAt:              row.UpdatedAt,
		},
		SnapshotCount: row.SnapshotCount,
	}
	if !row.LatestPeriod.IsZero() {
		latest := row.LatestPeriod
		summary.LatestPeriod = &latest
	}
	return summary
}
