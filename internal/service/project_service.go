package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/harwick/wip-reporting/internal/model"
	"github.com/harwick/wip-reporting/internal/repository"
)

type ProjectStore interface {
	Create(ctx context.Context, project model.Project) (*model.Project, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	List(ctx context.Context, filter repository.ProjectFilter) ([]model.ProjectSummary, error)
	Update(ctx context.Context, project model.Project) (*model.Project, error)
	Deactivate(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
	HasSnapshots(ctx context.Context, id uuid.UUID) (bool, error)
}

// SnapshotTrends is the slice of the snapshot store the project views need.
type SnapshotTrends interface {
	Trend(ctx context.Context, projectID uuid.UUID) ([]model.ProjectTrendPoint, error)
}

type ProjectService struct {
	projects ProjectStore
	trends   SnapshotTrends
	audit    AuditRecorder
}

func NewProjectService(projects ProjectStore, trends SnapshotTrends, audit AuditRecorder) *ProjectService {
	return &ProjectService{projects: projects, trends: trends, audit: audit}
}

type CreateProjectInput struct {
	JobNumber              string
	Name                   string
	OriginalContractAmount decimal.Decimal
	Principal              model.Principal
}

func (s *ProjectService) Create(ctx context.Context, input CreateProjectInput) (*model.Project, error) {
	if !input.Principal.CanMutate() {
		return nil, ErrPermissionDenied
	}
	if input.JobNumber == "" {
		return nil, fmt.Errorf("%w: job_number is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.OriginalContractAmount.IsNegative() {
		return nil, fmt.Errorf("%w: original_contract_amount must be non-negative", ErrInvalidInput)
	}

	saved, err := s.projects.Create(ctx, model.Project{
		JobNumber:              input.JobNumber,
		Name:                   input.Name,
		OriginalContractAmount: input.OriginalContractAmount,
		IsActive:               true,
	})
	if err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, fmt.Errorf("%w: job number %q already exists", ErrConflict, input.JobNumber)
		}
		return nil, err
	}

	err = s.audit.Record(ctx, model.AuditEntry{
		EntityType: "project",
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

func (s *ProjectService) Get(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: project %s", ErrNotFound, id)
		}
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) List(ctx context.Context, filter repository.ProjectFilter) ([]model.ProjectSummary, error) {
	return s.projects.List(ctx, filter)
}

type UpdateProjectInput struct {
	ID                     uuid.UUID
	JobNumber              *string
	Name                   *string
	OriginalContractAmount *decimal.Decimal
	IsActive               *bool
	Principal              model.Principal
}

func (s *ProjectService) Update(ctx context.Context, input UpdateProjectInput) (*model.Project, error) {
	if !input.Principal.CanMutate() {
		return nil, ErrPermissionDenied
	}

	existing, err := s.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	updated := *existing
	if input.JobNumber != nil {
		updated.JobNumber = *input.JobNumber
	}
	if input.Name != nil {
		updated.Name = *input.Name
	}
	if input.OriginalContractAmount != nil {
		updated.OriginalContractAmount = *input.OriginalContractAmount
	}
	if input.IsActive != nil {
		updated.IsActive = *input.IsActive
	}

	if updated.JobNumber == "" {
		return nil, fmt.Errorf("%w: job_number must not be empty", ErrInvalidInput)
	}
	if updated.Name == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	}
	if updated.OriginalContractAmount.IsNegative() {
		return nil, fmt.Errorf("%w: original_contract_amount must be non-negative", ErrInvalidInput)
	}

	saved, err := s.projects.Update(ctx, updated)
	if err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, fmt.Errorf("%w: job number %q already exists", ErrConflict, updated.JobNumber)
		}
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: project %s", ErrNotFound, input.ID)
		}
		return nil, err
	}

	err = s.audit.Record(ctx, model.AuditEntry{
		EntityType: "project",
		EntityID:   saved.ID,
		Action:     model.AuditActionUpdate,
		OldValue:   auditJSON(existing),
		NewValue:   auditJSON(saved),
		UserID:     input.Principal.UserID,
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// Delete removes a project. Projects that already carry snapshots are
// deactivated instead, so reported history stays intact. The returned flag
// tells which of the two happened.
func (s *ProjectService) Delete(ctx context.Context, id uuid.UUID, principal model.Principal) (deactivated bool, err error) {
	if !principal.CanMutate() {
		return false, ErrPermissionDenied
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}

	hasSnapshots, err := s.projects.HasSnapshots(ctx, id)
	if err != nil {
		return false, err
	}

	if hasSnapshots {
		if err := s.projects.Deactivate(ctx, id); err != nil {
			return false, err
		}
		err = s.audit.Record(ctx, model.AuditEntry{
			EntityType: "project",
			EntityID:   id,
			Action:     model.AuditActionDeactivate,
			OldValue:   auditJSON(existing),
			UserID:     principal.UserID,
		})
		if err != nil {
			return false, err
		}
		return true, nil
	}

	if err := s.projects.Delete(ctx, id); err != nil {
		return false, err
	}
	err = s.audit.Record(ctx, model.AuditEntry{
		EntityType: "project",
		EntityID:   id,
		Action:     model.AuditActionDelete,
		OldValue:   auditJSON(existing),
		UserID:     principal.UserID,
	})
	if err != nil {
		return false, err
	}
	return false, nil
}

// Trend returns the period-by-period key figures of one project, oldest
// first.
func (s *ProjectService) Trend(ctx context.Context, projectID uuid.UUID) ([]model.ProjectTrendPoint, error) {
	if _, err := s.Get(ctx, projectID); err != nil {
		return nil, err
	}
	return s.trends.Trend(ctx, projectID)
}
