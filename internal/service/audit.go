package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/harwick/wip-reporting/internal/model"
	"github.com/harwick/wip-reporting/internal/repository"
)

// AuditRecorder is the write side of the audit trail. Mutating services
// record every change through it; a failed write fails the whole operation.
type AuditRecorder interface {
	Record(ctx context.Context, entry model.AuditEntry) error
}

// AuditStore is the read side, for the audit listing endpoint.
type AuditStore interface {
	List(ctx context.Context, filter repository.AuditFilter) ([]model.AuditEntry, error)
}

type AuditService struct {
	audits AuditStore
}

func NewAuditService(audits AuditStore) *AuditService {
	return &AuditService{audits: audits}
}

type ListAuditInput struct {
	EntityType string
	EntityID   *uuid.UUID
	Limit      int
	Principal  model.Principal
}

func (s *AuditService) List(ctx context.Context, input ListAuditInput) ([]model.AuditEntry, error) {
	if !input.Principal.IsAdmin() {
		return nil, ErrPermissionDenied
	}
	return s.audits.List(ctx, repository.AuditFilter{
		EntityType: input.EntityType,
		EntityID:   input.EntityID,
		Limit:      input.Limit,
	})
}

// auditJSON renders a record for the old/new columns of the audit trail.
func auditJSON(v interface{}) string {
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
