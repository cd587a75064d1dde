package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harwick/wip-reporting/internal/model"
	"github.com/harwick/wip-reporting/internal/wip"
)

type ExplanationStore interface {
	Create(ctx context.Context, expl model.Explanation) (*model.Explanation, error)
	ListBySnapshot(ctx context.Context, snapshotID uuid.UUID, fieldName string) ([]model.Explanation, error)
	LatestPerField(ctx context.Context, snapshotID uuid.UUID) ([]model.Explanation, error)
}

// SnapshotGetter is the slice of the snapshot store the explanation flows
// need.
type SnapshotGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.SnapshotWithProject, error)
}

type ExplanationService struct {
	explanations ExplanationStore
	snaps        SnapshotGetter
	audit        AuditRecorder
}

func NewExplanationService(explanations ExplanationStore, snaps SnapshotGetter, audit AuditRecorder) *ExplanationService {
	return &ExplanationService{explanations: explanations, snaps: snaps, audit: audit}
}

type CreateExplanationInput struct {
	SnapshotID uuid.UUID
	FieldName  string
	Text       string
	Principal  model.Principal
}

// Create appends an explanation for one field of a snapshot. Explanations
// are never edited or removed; posting again for the same field supersedes
// the earlier note.
func (s *ExplanationService) Create(ctx context.Context, input CreateExplanationInput) (*model.Explanation, error) {
	if !input.Principal.CanMutate() {
		return nil, ErrPermissionDenied
	}
	if _, ok := wip.FieldByName(input.FieldName); !ok {
		return nil, fmt.Errorf("%w: %q is not an explainable field", ErrInvalidInput, input.FieldName)
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, fmt.Errorf("%w: explanation text is required", ErrInvalidInput)
	}

	if _, err := s.snaps.GetByID(ctx, input.SnapshotID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: snapshot %s", ErrNotFound, input.SnapshotID)
		}
		return nil, err
	}

	saved, err := s.explanations.Create(ctx, model.Explanation{
		SnapshotID: input.SnapshotID,
		FieldName:  input.FieldName,
		Text:       strings.TrimSpace(input.Text),
		CreatedBy:  input.Principal.UserID,
	})
	if err != nil {
		return nil, err
	}

	err = s.audit.Record(ctx, model.AuditEntry{
		EntityType: "explanation",
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

// List returns the full explanation history of a snapshot, newest first,
// optionally narrowed to one field.
func (s *ExplanationService) List(ctx context.Context, snapshotID uuid.UUID, fieldName string) ([]model.Explanation, error) {
	if fieldName != "" {
		if _, ok := wip.FieldByName(fieldName); !ok {
			return nil, fmt.Errorf("%w: %q is not an explainable field", ErrInvalidInput, fieldName)
		}
	}

	if _, err := s.snaps.GetByID(ctx, snapshotID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: snapshot %s", ErrNotFound, snapshotID)
		}
		return nil, err
	}

	return s.explanations.ListBySnapshot(ctx, snapshotID, fieldName)
}

// Latest returns the current explanation of every explained field of a
// snapshot.
func (s *ExplanationService) Latest(ctx context.Context, snapshotID uuid.UUID) ([]model.Explanation, error) {
	if _, err := s.snaps.GetByID(ctx, snapshotID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("%w: snapshot %s", ErrNotFound, snapshotID)
		}
		return nil, err
	}

	return s.explanations.LatestPerField(ctx, snapshotID)
}
