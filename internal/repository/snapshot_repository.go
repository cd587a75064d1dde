package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/harwick/wip-reporting/internal/model"
)

// snapshotColumns is the canonical column list for wip_snapshots reads,
// aliased under s.
const snapshotColumns = `
		s.id,
		s.project_id,
		s.period,
		s.original_contract_amount,
		s.change_order_amount,
		s.cost_to_date,
		s.estimated_cost_to_complete,
		s.billed_to_date,
		s.total_contract_amount,
		s.estimated_final_cost,
		s.percent_complete,
		s.revenue_earned,
		s.job_margin,
		s.margin_percent,
		s.wip_adjustment,
		s.job_margin_to_date,
		s.billing_posture,
		s.created_by,
		s.updated_by,
		s.created_at,
		s.updated_at`

const snapshotReturning = `
		id, project_id, period,
		original_contract_amount, change_order_amount, cost_to_date,
		estimated_cost_to_complete, billed_to_date,
		total_contract_amount, estimated_final_cost, percent_complete,
		revenue_earned, job_margin, margin_percent, wip_adjustment,
		job_margin_to_date, billing_posture,
		created_by, updated_by, created_at, updated_at`

// SnapshotFilter narrows List. Zero values mean "no filter".
type SnapshotFilter struct {
	ProjectID  *uuid.UUID
	Period     *model.Period
	JobNumber  string
	ActiveOnly bool
	Limit      int
	Offset     int
}

type SnapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) Create(ctx context.Context, snap model.Snapshot) (*model.Snapshot, error) {
	var row snapshotRow
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO wip_snapshots (
			project_id,
			period,
			original_contract_amount,
			change_order_amount,
			cost_to_date,
			estimated_cost_to_complete,
			billed_to_date,
			total_contract_amount,
			estimated_final_cost,
			percent_complete,
			revenue_earned,
			job_margin,
			margin_percent,
			wip_adjustment,
			job_margin_to_date,
			billing_posture,
			created_by,
			updated_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING`+snapshotReturning,
		snap.ProjectID,
		snap.Period,
		snap.Inputs.OriginalContract,
		snap.Inputs.ChangeOrders,
		snap.Inputs.CostToDate,
		snap.Inputs.EstCostToComplete,
		snap.Inputs.BilledToDate,
		snap.Derived.TotalContract,
		snap.Derived.EstimatedFinalCost,
		snap.Derived.PercentComplete,
		snap.Derived.RevenueEarned,
		snap.Derived.JobMargin,
		snap.Derived.MarginPercent,
		snap.Derived.WIPAdjustment,
		snap.Derived.JobMarginToDate,
		string(snap.Derived.Posture),
		snap.CreatedBy,
		snap.UpdatedBy,
	).Scan(&row).Error
	if err != nil {
		if isUniqueViolation(err) {
			return nil, gorm.ErrDuplicatedKey
		}
		return nil, err
	}
	saved := row.toModel()
	return &saved, nil
}

func (r *SnapshotRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.SnapshotWithProject, error) {
	var row snapshotRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT`+snapshotColumns+`,
		p.job_number,
		p.name AS project_name
		FROM wip_snapshots s
		JOIN projects p ON p.id = s.project_id
		WHERE s.id = ?
		LIMIT 1
	`, id).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	snap := row.toModelWithProject()
	return &snap, nil
}

func (r *SnapshotRepository) GetByProjectPeriod(ctx context.Context, projectID uuid.UUID, period model.Period) (*model.Snapshot, error) {
	var row snapshotRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT`+snapshotColumns+`
		FROM wip_snapshots s
		WHERE s.project_id = ? AND s.period = ?
		LIMIT 1
	`, projectID, period).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	snap := row.toModel()
	return &snap, nil
}

// NearestPrior returns the snapshot of the closest period strictly before the
// given one, or gorm.ErrRecordNotFound when the project has no earlier data.
func (r *SnapshotRepository) NearestPrior(ctx context.Context, projectID uuid.UUID, period model.Period) (*model.Snapshot, error) {
	var row snapshotRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT`+snapshotColumns+`
		FROM wip_snapshots s
		WHERE s.project_id = ? AND s.period < ?
		ORDER BY s.period DESC
		LIMIT 1
	`, projectID, period).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	snap := row.toModel()
	return &snap, nil
}

// HasLaterPeriod reports whether the project holds any snapshot with a period
// after the given one.
func (r *SnapshotRepository) HasLaterPeriod(ctx context.Context, projectID uuid.UUID, period model.Period) (bool, error) {
	var exists bool
	err := r.db.WithContext(ctx).Raw(`
		SELECT EXISTS (
			SELECT 1 FROM wip_snapshots WHERE project_id = ? AND period > ?
		)
	`, projectID, period).Scan(&exists).Error
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *SnapshotRepository) List(ctx context.Context, filter SnapshotFilter) ([]model.SnapshotWithProject, error) {
	baseQuery := `
		SELECT` + snapshotColumns + `,
		p.job_number,
		p.name AS project_name
		FROM wip_snapshots s
		JOIN projects p ON p.id = s.project_id
	`
	args := []interface{}{}
	var filters []string
	if filter.ProjectID != nil {
		filters = append(filters, "s.project_id = ?")
		args = append(args, *filter.ProjectID)
	}
	if filter.Period != nil {
		filters = append(filters, "s.period = ?")
		args = append(args, *filter.Period)
	}
	if filter.JobNumber != "" {
		filters = append(filters, "p.job_number ILIKE ?")
		args = append(args, "%"+filter.JobNumber+"%")
	}
	if filter.ActiveOnly {
		filters = append(filters, "p.is_active")
	}
	if len(filters) > 0 {
		baseQuery += " WHERE " + strings.Join(filters, " AND ")
	}
	baseQuery += " ORDER BY s.period DESC, p.job_number ASC"
	if filter.Limit > 0 {
		baseQuery += " LIMIT ?"
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		baseQuery += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	var rows []snapshotRow
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	snaps := make([]model.SnapshotWithProject, 0, len(rows))
	for _, row := range rows {
		snaps = append(snaps, row.toModelWithProject())
	}
	return snaps, nil
}

// LatestPerProject returns each active project's most recent snapshot,
// ordered by job number.
func (r *SnapshotRepository) LatestPerProject(ctx context.Context) ([]model.SnapshotWithProject, error) {
	var rows []snapshotRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT * FROM (
			SELECT DISTINCT ON (s.project_id)` + snapshotColumns + `,
			p.job_number,
			p.name AS project_name
			FROM wip_snapshots s
			JOIN projects p ON p.id = s.project_id
			WHERE p.is_active
			ORDER BY s.project_id, s.period DESC
		) latest
		ORDER BY latest.job_number ASC
	`).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	snaps := make([]model.SnapshotWithProject, 0, len(rows))
	for _, row := range rows {
		snaps = append(snaps, row.toModelWithProject())
	}
	return snaps, nil
}

func (r *SnapshotRepository) UpdateInputs(ctx context.Context, snap model.Snapshot) (*model.Snapshot, error) {
	var row snapshotRow
	err := r.db.WithContext(ctx).Raw(`
		UPDATE wip_snapshots
		SET
			original_contract_amount = ?,
			change_order_amount = ?,
			cost_to_date = ?,
			estimated_cost_to_complete = ?,
			billed_to_date = ?,
			total_contract_amount = ?,
			estimated_final_cost = ?,
			percent_complete = ?,
			revenue_earned = ?,
			job_margin = ?,
			margin_percent = ?,
			wip_adjustment = ?,
			job_margin_to_date = ?,
			billing_posture = ?,
			updated_by = ?,
			updated_at = NOW()
		WHERE id = ?
		RETURNING`+snapshotReturning,
		snap.Inputs.OriginalContract,
		snap.Inputs.ChangeOrders,
		snap.Inputs.CostToDate,
		snap.Inputs.EstCostToComplete,
		snap.Inputs.BilledToDate,
		snap.Derived.TotalContract,
		snap.Derived.EstimatedFinalCost,
		snap.Derived.PercentComplete,
		snap.Derived.RevenueEarned,
		snap.Derived.JobMargin,
		snap.Derived.MarginPercent,
		snap.Derived.WIPAdjustment,
		snap.Derived.JobMarginToDate,
		string(snap.Derived.Posture),
		snap.UpdatedBy,
		snap.ID,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	saved := row.toModel()
	return &saved, nil
}

func (r *SnapshotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		DELETE FROM wip_snapshots WHERE id = ?
	`, id).Error
}

// Trend returns the key figures of every period for one project, oldest
// first.
func (r *SnapshotRepository) Trend(ctx context.Context, projectID uuid.UUID) ([]model.ProjectTrendPoint, error) {
	var points []model.ProjectTrendPoint
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			period,
			total_contract_amount AS total_contract,
			cost_to_date,
			percent_complete,
			job_margin
		FROM wip_snapshots
		WHERE project_id = ?
		ORDER BY period ASC
	`, projectID).Scan(&points).Error
	if err != nil {
		return nil, err
	}
	return points, nil
}

type snapshotRow struct {
	ID                      uuid.UUID
	ProjectID               uuid.UUID
	Period                  model.Period
	OriginalContractAmount  decimal.Decimal
	ChangeOrderAmount       decimal.Decimal
	CostToDate              decimal.Decimal
	EstimatedCostToComplete decimal.Decimal
	BilledToDate            decimal.Decimal
	TotalContractAmount     decimal.Decimal
	EstimatedFinalCost      decimal.Decimal
	PercentComplete         decimal.Decimal
	RevenueEarned           decimal.Decimal
	JobMargin               decimal.Decimal
	MarginPercent           decimal.Decimal
	WipAdjustment           decimal.Decimal
	JobMarginToDate         decimal.Decimal
	BillingPosture          string
	CreatedBy               uuid.UUID
	UpdatedBy               uuid.UUID
	CreatedAt               time.Time
	UpdatedAt               time.Time
	JobNumber               string
	ProjectName             string
}

func (row snapshotRow) toModel() model.Snapshot {
	return model.Snapshot{
		ID:        row.ID,
		ProjectID: row.ProjectID,
		Period:    row.Period,
		Inputs: model.SnapshotInputs{
			OriginalContract:  row.OriginalContractAmount,
			ChangeOrders:      row.ChangeOrderAmount,
			CostToDate:        row.CostToDate,
			EstCostToComplete: row.EstimatedCostToComplete,
			BilledToDate:      row.BilledToDate,
		},
		Derived: model.SnapshotDerived{
			TotalContract:      row.TotalContractAmount,
			EstimatedFinalCost: row.EstimatedFinalCost,
			PercentComplete:    row.PercentComplete,
			RevenueEarned:      row.RevenueEarned,
			JobMargin:          row.JobMargin,
			MarginPercent:      row.MarginPercent,
			WIPAdjustment:      row.WipAdjustment,
			JobMarginToDate:    row.JobMarginToDate,
			Posture:            model.BillingPosture(row.BillingPosture),
		},
		CreatedBy: row.CreatedBy,
		UpdatedBy: row.UpdatedBy,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func (row snapshotRow) toModelWithProject() model.SnapshotWithProject {
	return model.SnapshotWithProject{
		Snapshot:    row.toModel(),
		JobNumber:   row.JobNumber,
		ProjectName: row.ProjectName,
	}
}
