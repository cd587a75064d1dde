package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harwick/wip-reporting/internal/model"
	"github.com/harwick/wip-reporting/internal/service"
)

type auditEntryResponse struct {
	ID         uuid.UUID       `json:"id"`
	EntityType string          `json:"entity_type"`
	EntityID   uuid.UUID       `json:"entity_id"`
	Action     string          `json:"action"`
	OldValue   json.RawMessage `json:"old_value,omitempty"`
	NewValue   json.RawMessage `json:"new_value,omitempty"`
	UserID     uuid.UUID       `json:"user_id"`
	CreatedAt  time.Time       `json:"created_at"`
}

func toAuditEntryResponse(entry model.AuditEntry) auditEntryResponse {
	out := auditEntryResponse{
		ID:         entry.ID,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Action:     string(entry.Action),
		UserID:     entry.UserID,
		CreatedAt:  entry.CreatedAt,
	}
	// Old/new state is stored as JSON text; pass it through instead of
	// double-encoding it.
	if entry.OldValue != "" {
		out.OldValue = json.RawMessage(entry.OldValue)
	}
	if entry.NewValue != "" {
		out.NewValue = json.RawMessage(entry.NewValue)
	}
	return out
}

func (h *Handler) listAudit(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	input := service.ListAuditInput{
		EntityType: c.Query("entity_type"),
		Principal:  principal,
	}
	if raw := strings.TrimSpace(c.Query("entity_id")); raw != "" {
		entityID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid entity_id"})
			return
		}
		input.EntityID = &entityID
	}
	if input.Limit, ok = parseIntQuery(c, "limit"); !ok {
		return
	}

	entries, err := h.audits.List(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]auditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toAuditEntryResponse(entry))
	}
	c.JSON(http.StatusOK, out)
}
