package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harwick/wip-reporting/internal/model"
	"github.com/harwick/wip-reporting/internal/service"
	"github.com/harwick/wip-reporting/internal/wip"
)

type explanationResponse struct {
	ID         uuid.UUID `json:"id"`
	SnapshotID uuid.UUID `json:"snapshot_id"`
	FieldName  string    `json:"field_name"`
	Text       string    `json:"text"`
	CreatedBy  uuid.UUID `json:"created_by"`
	AuthorName string    `json:"author_name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toExplanationResponse(expl model.Explanation) explanationResponse {
	return explanationResponse{
		ID:         expl.ID,
		SnapshotID: expl.SnapshotID,
		FieldName:  expl.FieldName,
		Text:       expl.Text,
		CreatedBy:  expl.CreatedBy,
		AuthorName: expl.AuthorName,
		CreatedAt:  expl.CreatedAt,
	}
}

type createExplanationRequest struct {
	FieldName string `json:"field_name" binding:"required"`
	Text      string `json:"text" binding:"required"`
}

func (h *Handler) createExplanation(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	snapshotID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req createExplanationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	expl, err := h.explanations.Create(c.Request.Context(), service.CreateExplanationInput{
		SnapshotID: snapshotID,
		FieldName:  req.FieldName,
		Text:       req.Text,
		Principal:  principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toExplanationResponse(*expl))
}

func (h *Handler) listExplanations(c *gin.Context) {
	if _, ok := requirePrincipal(c); !ok {
		return
	}
	snapshotID, ok := parseIDParam(c)
	if !ok {
		return
	}

	explanations, err := h.explanations.List(c.Request.Context(), snapshotID, c.Query("field"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]explanationResponse, 0, len(explanations))
	for _, expl := range explanations {
		out = append(out, toExplanationResponse(expl))
	}
	c.JSON(http.StatusOK, out)
}

// latestExplanations answers the review screen: the current note of every
// explained field, keyed by field name.
func (h *Handler) latestExplanations(c *gin.Context) {
	if _, ok := requirePrincipal(c); !ok {
		return
	}
	snapshotID, ok := parseIDParam(c)
	if !ok {
		return
	}

	explanations, err := h.explanations.Latest(c.Request.Context(), snapshotID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make(map[string]explanationResponse, len(explanations))
	for _, expl := range explanations {
		out[expl.FieldName] = toExplanationResponse(expl)
	}
	c.JSON(http.StatusOK, out)
}

type fieldResponse struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Section     string `json:"section"`
	Kind        string `json:"kind"`
}

// listFields publishes the explainable-field catalog in comparison order.
func (h *Handler) listFields(c *gin.Context) {
	if _, ok := requirePrincipal(c); !ok {
		return
	}

	defs := wip.Fields()
	out := make([]fieldResponse, 0, len(defs))
	for _, def := range defs {
		out = append(out, fieldResponse{
			Name:        def.Name,
			DisplayName: def.DisplayName,
			Section:     def.Section,
			Kind:        string(def.Kind),
		})
	}
	c.JSON(http.StatusOK, out)
}
