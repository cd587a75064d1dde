package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/harwick/wip-reporting/internal/model"
)

func snapshotGetterFor(id uuid.UUID) *mockSnapshotStore {
	return &mockSnapshotStore{
		getByIDFunc: func(ctx context.Context, got uuid.UUID) (*model.SnapshotWithProject, error) {
			if got != id {
				return nil, errors.New("unexpected snapshot id")
			}
			return &model.SnapshotWithProject{Snapshot: model.Snapshot{ID: id}}, nil
		},
	}
}

func TestExplanationService_Create(t *testing.T) {
	snapshotID := uuid.New()
	store := &mockExplanationStore{}
	audit := &mockAuditRecorder{}
	svc := NewExplanationService(store, snapshotGetterFor(snapshotID), audit)

	principal := adminPrincipal()
	saved, err := svc.Create(context.Background(), CreateExplanationInput{
		SnapshotID: snapshotID,
		FieldName:  "cost_to_date",
		Text:       "  Steel package rebid came in 8% over budget.  ",
		Principal:  principal,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if saved.Text != "Steel package rebid came in 8% over budget." {
		t.Errorf("text not trimmed: %q", saved.Text)
	}
	if saved.CreatedBy != principal.UserID {
		t.Errorf("author: expected %s, got %s", principal.UserID, saved.CreatedBy)
	}
	if len(audit.entries) != 1 || audit.entries[0].EntityType != "explanation" {
		t.Fatalf("expected one explanation audit entry, got %+v", audit.entries)
	}
}

func TestExplanationService_Create_UnknownField(t *testing.T) {
	snapshotID := uuid.New()
	store := &mockExplanationStore{}
	svc := NewExplanationService(store, snapshotGetterFor(snapshotID), &mockAuditRecorder{})

	_, err := svc.Create(context.Background(), CreateExplanationInput{
		SnapshotID: snapshotID,
		FieldName:  "gut_feeling",
		Text:       "trust me",
		Principal:  adminPrincipal(),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if store.createCalls != 0 {
		t.Errorf("store was written for an unknown field")
	}
}

func TestExplanationService_Create_DerivedFieldAllowed(t *testing.T) {
	// Derived fields move on their own when inputs change; reviewers annotate
	// them as often as the inputs.
	snapshotID := uuid.New()
	svc := NewExplanationService(&mockExplanationStore{}, snapshotGetterFor(snapshotID), &mockAuditRecorder{})

	_, err := svc.Create(context.Background(), CreateExplanationInput{
		SnapshotID: snapshotID,
		FieldName:  "wip_adjustment",
		Text:       "Overbilling by agreement with owner, evens out next draw.",
		Principal:  adminPrincipal(),
	})
	if err != nil {
		t.Fatalf("create on derived field: %v", err)
	}
}

func TestExplanationService_Create_BlankText(t *testing.T) {
	snapshotID := uuid.New()
	svc := NewExplanationService(&mockExplanationStore{}, snapshotGetterFor(snapshotID), &mockAuditRecorder{})

	_, err := svc.Create(context.Background(), CreateExplanationInput{
		SnapshotID: snapshotID,
		FieldName:  "cost_to_date",
		Text:       "   ",
		Principal:  adminPrincipal(),
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestExplanationService_Create_ViewerDenied(t *testing.T) {
	snapshotID := uuid.New()
	svc := NewExplanationService(&mockExplanationStore{}, snapshotGetterFor(snapshotID), &mockAuditRecorder{})

	_, err := svc.Create(context.Background(), CreateExplanationInput{
		SnapshotID: snapshotID,
		FieldName:  "cost_to_date",
		Text:       "note",
		Principal:  viewerPrincipal(),
	})
	if !errors.Is(err, ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}
}

func TestExplanationService_Create_SnapshotMissing(t *testing.T) {
	svc := NewExplanationService(&mockExplanationStore{}, &mockSnapshotStore{}, &mockAuditRecorder{})

	_, err := svc.Create(context.Background(), CreateExplanationInput{
		SnapshotID: uuid.New(),
		FieldName:  "cost_to_date",
		Text:       "note",
		Principal:  adminPrincipal(),
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestExplanationService_List_FieldFilterValidated(t *testing.T) {
	snapshotID := uuid.New()
	svc := NewExplanationService(&mockExplanationStore{}, snapshotGetterFor(snapshotID), &mockAuditRecorder{})

	if _, err := svc.List(context.Background(), snapshotID, "not_a_field"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.List(context.Background(), snapshotID, ""); err != nil {
		t.Fatalf("unfiltered list: %v", err)
	}
	if _, err := svc.List(context.Background(), snapshotID, "estimated_final_cost"); err != nil {
		t.Fatalf("filtered list: %v", err)
	}
}

func TestExplanationService_Latest(t *testing.T) {
	snapshotID := uuid.New()
	store := &mockExplanationStore{
		latestPerFieldFunc: func(ctx context.Context, id uuid.UUID) ([]model.Explanation, error) {
			return []model.Explanation{
				{SnapshotID: id, FieldName: "cost_to_date", Text: "rebid"},
				{SnapshotID: id, FieldName: "estimated_final_cost", Text: "scope growth"},
			}, nil
		},
	}
	svc := NewExplanationService(store, snapshotGetterFor(snapshotID), &mockAuditRecorder{})

	latest, err := svc.Latest(context.Background(), snapshotID)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if len(latest) != 2 {
		t.Errorf("expected 2 fields, got %d", len(latest))
	}
}
