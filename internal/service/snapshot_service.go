package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/harwick/wip-reporting/internal/config"
	"github.com/harwick/wip-reporting/internal/model"
	"github.com/harwick/wip-reporting/internal/repository"
	"github.com/harwick/wip-reporting/internal/wip"
)

type SnapshotStore interface {
	Create(ctx context.Context, snap model.Snapshot) (*model.Snapshot, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.SnapshotWithProject, error)
	GetByProjectPeriod(ctx context.Context, projectID uuid.UUID, period model.Period) (*model.Snapshot, error)
	NearestPrior(ctx context.Context, projectID uuid.UUID, period model.Period) (*model.Snapshot, error)
	HasLaterPeriod(ctx context.Context, projectID uuid.UUID, period model.Period) (bool, error)
	List(ctx context.Context, filter repository.SnapshotFilter) ([]model.SnapshotWithProject, error)
	LatestPerProject(ctx context.Context) ([]model.SnapshotWithProject, error)
	UpdateInputs(ctx context.Context, snap model.Snapshot) (*model.Snapshot, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProjectGetter is the slice of the project store the snapshot flows need.
type ProjectGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
}

type SnapshotService struct {
	snaps    SnapshotStore
	projects ProjectGetter
	audit    AuditRecorder

	thresholdPct     decimal.Decimal
	allowCorrections bool
}

func NewSnapshotService(snaps SnapshotStore, projects ProjectGetter, audit AuditRecorder, cfg *config.Config) *SnapshotService {
	return &SnapshotService{
		snaps:            snaps,
		projects:         projects,
		audit:            audit,
		thresholdPct:     decimal.NewFromFloat(cfg.WIP.SignificantChangePct),
		allowCorrections: cfg.WIP.AllowCorrections,
	}
}

type CreateSnapshotInput struct {
	ProjectID uuid.UUID
	Period    model.Period
	Inputs    model.SnapshotInputs
	Principal model.Principal
}

// Create validates the five input amounts, derives the computed fields and
// stores the snapshot. One snapshot per (project, period): a second create
// for the same month is a conflict, the stored row stays untouched.
func (s *SnapshotService) Create(ctx context.Context, input CreateSnapshotInput) (*model.Snapshot, error) {
	if !input.Principal.CanMutate() {
		return nil, ErrPermissionDenied
	}
	if input.ProjectID == uuid.Nil {
		return nil, fmt.Errorf("%w: project_id is required", ErrInvalidInput)
	}
	if input.Period.IsZero() {
		return nil, fmt.Errorf("%w: period is required", ErrInvalidInput)
	}
	if err := wip.ValidateInputs(input.Inputs); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	project, err := s.projects.GetByID(ctx, input.ProjectID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: project %s", ErrNotFound, input.ProjectID)
		}
		return nil, err
	}
	if !project.IsActive {
		return nil, fmt.Errorf("%w: project %s is inactive", ErrInvalidInput, project.JobNumber)
	}

	if _, err := s.snaps.GetByProjectPeriod(ctx, input.ProjectID, input.Period); err == nil {
		return nil, fmt.Errorf("%w: snapshot for %s already exists", ErrConflict, input.Period)
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	saved, err := s.snaps.Create(ctx, model.Snapshot{
		ProjectID: input.ProjectID,
		Period:    input.Period,
		Inputs:    input.Inputs,
		Derived:   wip.Compute(input.Inputs),
		CreatedBy: input.Principal.UserID,
		UpdatedBy: input.Principal.UserID,
	})
	if err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, fmt.Errorf("%w: snapshot for %s already exists", ErrConflict, input.Period)
		}
		return nil, err
	}

	err = s.audit.Record(ctx, model.AuditEntry{
		EntityType: "wip_snapshot",
		EntityID:   saved.ID,
		Action:     model.AuditActionCreate,
		NewValue:   auditJSON(saved),
		UserID:     input.Principal.UserID,
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func (s *SnapshotService) Get(ctx context.Context, id uuid.UUID) (*model.SnapshotWithProject, error) {
	snap, err := s.snaps.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: snapshot %s", ErrNotFound, id)
		}
		return nil, err
	}
	return snap, nil
}

func (s *SnapshotService) List(ctx context.Context, filter repository.SnapshotFilter) ([]model.SnapshotWithProject, error) {
	return s.snaps.List(ctx, filter)
}

// Latest returns the most recent snapshot of every active project.
func (s *SnapshotService) Latest(ctx context.Context) ([]model.SnapshotWithProject, error) {
	return s.snaps.LatestPerProject(ctx)
}

type UpdateSnapshotInput struct {
	ID                uuid.UUID
	OriginalContract  *decimal.Decimal
	ChangeOrders      *decimal.Decimal
	CostToDate        *decimal.Decimal
	EstCostToComplete *decimal.Decimal
	BilledToDate      *decimal.Decimal
	Principal         model.Principal
}

// Update rewrites the inputs of a snapshot and recomputes everything derived.
// Only the latest snapshot of a project is normally writable; older periods
// are settled history and take the corrections capability.
func (s *SnapshotService) Update(ctx context.Context, input UpdateSnapshotInput) (*model.Snapshot, error) {
	if !input.Principal.CanMutate() {
		return nil, ErrPermissionDenied
	}

	existing, err := s.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	hasLater, err := s.snaps.HasLaterPeriod(ctx, existing.ProjectID, existing.Period)
	if err != nil {
		return nil, err
	}
	if hasLater && !input.Principal.CanCorrect(s.allowCorrections) {
		return nil, fmt.Errorf("%w: snapshot %s is settled history and corrections are disabled", ErrConflict, existing.Period)
	}

	inputs := existing.Inputs
	if input.OriginalContract != nil {
		inputs.OriginalContract = *input.OriginalContract
	}
	if input.ChangeOrders != nil {
		inputs.ChangeOrders = *input.ChangeOrders
	}
	if input.CostToDate != nil {
		inputs.CostToDate = *input.CostToDate
	}
	if input.EstCostToComplete != nil {
		inputs.EstCostToComplete = *input.EstCostToComplete
	}
	if input.BilledToDate != nil {
		inputs.BilledToDate = *input.BilledToDate
	}
	if err := wip.ValidateInputs(inputs); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	updated := existing.Snapshot
	updated.Inputs = inputs
	updated.Derived = wip.Compute(inputs)
	updated.UpdatedBy = input.Principal.UserID

	saved, err := s.snaps.UpdateInputs(ctx, updated)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: snapshot %s", ErrNotFound, input.ID)
		}
		return nil, err
	}

	err = s.audit.Record(ctx, model.AuditEntry{
		EntityType: "wip_snapshot",
		EntityID:   saved.ID,
		Action:     model.AuditActionUpdate,
		OldValue:   auditJSON(existing.Snapshot),
		NewValue:   auditJSON(saved),
		UserID:     input.Principal.UserID,
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// Delete removes a snapshot. Only the latest period of a project may go:
// deleting mid-history would leave the month-over-month chain lying. The
// corrections capability overrides, like it does for updates.
func (s *SnapshotService) Delete(ctx context.Context, id uuid.UUID, principal model.Principal) error {
	if !principal.CanMutate() {
		return ErrPermissionDenied
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	hasLater, err := s.snaps.HasLaterPeriod(ctx, existing.ProjectID, existing.Period)
	if err != nil {
		return err
	}
	if hasLater && !principal.CanCorrect(s.allowCorrections) {
		return fmt.Errorf("%w: only the latest snapshot of a project can be deleted", ErrConflict)
	}

	if err := s.snaps.Delete(ctx, id); err != nil {
		return err
	}

	return s.audit.Record(ctx, model.AuditEntry{
		EntityType: "wip_snapshot",
		EntityID:   id,
		Action:     model.AuditActionDelete,
		OldValue:   auditJSON(existing.Snapshot),
		UserID:     principal.UserID,
	})
}

type CompareInput struct {
	ProjectID uuid.UUID
	Period    model.Period
	Prior     *model.Period
}

// Compare builds the month-over-month delta report for one project. The
// prior period defaults to the nearest earlier snapshot; a first-period
// snapshot compares against nothing and every delta reports no prior data.
func (s *SnapshotService) Compare(ctx context.Context, input CompareInput) (*wip.ComparisonResult, error) {
	if input.ProjectID == uuid.Nil {
		return nil, fmt.Errorf("%w: project_id is required", ErrInvalidInput)
	}
	if input.Period.IsZero() {
		return nil, fmt.Errorf("%w: period is required", ErrInvalidInput)
	}

	if input.Prior != nil && !input.Prior.Before(input.Period) {
		return nil, fmt.Errorf("%w: prior period %s must precede %s", ErrInvalidInput, *input.Prior, input.Period)
	}

	if _, err := s.projects.GetByID(ctx, input.ProjectID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: project %s", ErrNotFound, input.ProjectID)
		}
		return nil, err
	}

	current, err := s.snaps.GetByProjectPeriod(ctx, input.ProjectID, input.Period)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: no snapshot for %s", ErrNotFound, input.Period)
		}
		return nil, err
	}

	var prior *model.Snapshot
	if input.Prior != nil {
		prior, err = s.snaps.GetByProjectPeriod(ctx, input.ProjectID, *input.Prior)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, fmt.Errorf("%w: no snapshot for %s", ErrNotFound, *input.Prior)
			}
			return nil, err
		}
	} else {
		prior, err = s.snaps.NearestPrior(ctx, input.ProjectID, input.Period)
		if err != nil {
			if err != gorm.ErrRecordNotFound {
				return nil, err
			}
			prior = nil
		}
	}

	result := wip.Compare(*current, prior, s.thresholdPct)
	return &result, nil
}
