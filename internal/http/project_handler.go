package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harwick/wip-reporting/internal/model"
	"github.com/harwick/wip-reporting/internal/repository"
	"github.com/harwick/wip-reporting/internal/service"
	"github.com/harwick/wip-reporting/internal/wip"
)

type projectResponse struct {
	ID                     uuid.UUID       `json:"id"`
	JobNumber              string          `json:"job_number"`
	Name                   string          `json:"name"`
	OriginalContractAmount decimal.Decimal `json:"original_contract_amount"`
	IsActive               bool            `json:"is_active"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}

func toProjectResponse(project model.Project) projectResponse {
	return projectResponse{
		ID:                     project.ID,
		JobNumber:              project.JobNumber,
		Name:                   project.Name,
		OriginalContractAmount: project.OriginalContractAmount,
		IsActive:               project.IsActive,
		CreatedAt:              project.CreatedAt,
		UpdatedAt:              project.UpdatedAt,
	}
}

type projectSummaryResponse struct {
	projectResponse
	SnapshotCount int64         `json:"snapshot_count"`
	LatestPeriod  *model.Period `json:"latest_period"`
}

type createProjectRequest struct {
	JobNumber              string          `json:"job_number" binding:"required"`
	Name                   string          `json:"name" binding:"required"`
	OriginalContractAmount decimal.Decimal `json:"original_contract_amount"`
}

func (h *Handler) createProject(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projects.Create(c.Request.Context(), service.CreateProjectInput{
		JobNumber:              req.JobNumber,
		Name:                   req.Name,
		OriginalContractAmount: req.OriginalContractAmount,
		Principal:              principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toProjectResponse(*project))
}

func (h *Handler) listProjects(c *gin.Context) {
	if _, ok := requirePrincipal(c); !ok {
		return
	}

	activeOnly, err := strconv.ParseBool(c.DefaultQuery("active_only", "true"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid active_only"})
		return
	}
	limit, ok := parseIntQuery(c, "limit")
	if !ok {
		return
	}
	offset, ok := parseIntQuery(c, "offset")
	if !ok {
		return
	}

	summaries, err := h.projects.List(c.Request.Context(), repository.ProjectFilter{
		Search:          c.Query("search"),
		IncludeInactive: !activeOnly,
		Limit:           limit,
		Offset:          offset,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]projectSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		out = append(out, projectSummaryResponse{
			projectResponse: toProjectResponse(summary.Project),
			SnapshotCount:   summary.SnapshotCount,
			LatestPeriod:    summary.LatestPeriod,
		})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) getProject(c *gin.Context) {
	if _, ok := requirePrincipal(c); !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	project, err := h.projects.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProjectResponse(*project))
}

type updateProjectRequest struct {
	JobNumber              *string          `json:"job_number"`
	Name                   *string          `json:"name"`
	OriginalContractAmount *decimal.Decimal `json:"original_contract_amount"`
	IsActive               *bool            `json:"is_active"`
}

func (h *Handler) updateProject(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project, err := h.projects.Update(c.Request.Context(), service.UpdateProjectInput{
		ID:                     id,
		JobNumber:              req.JobNumber,
		Name:                   req.Name,
		OriginalContractAmount: req.OriginalContractAmount,
		IsActive:               req.IsActive,
		Principal:              principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toProjectResponse(*project))
}

func (h *Handler) deleteProject(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	deactivated, err := h.projects.Delete(c.Request.Context(), id, principal)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deactivated": deactivated})
}

type trendPointResponse struct {
	Period          model.Period    `json:"period"`
	TotalContract   decimal.Decimal `json:"total_contract_amount"`
	CostToDate      decimal.Decimal `json:"cost_to_date"`
	PercentComplete decimal.Decimal `json:"percent_complete"`
	JobMargin       decimal.Decimal `json:"job_margin"`
}

func (h *Handler) projectTrend(c *gin.Context) {
	if _, ok := requirePrincipal(c); !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	points, err := h.projects.Trend(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]trendPointResponse, 0, len(points))
	for _, point := range points {
		out = append(out, trendPointResponse{
			Period:          point.Period,
			TotalContract:   point.TotalContract,
			CostToDate:      point.CostToDate,
			PercentComplete: point.PercentComplete,
			JobMargin:       point.JobMargin,
		})
	}
	c.JSON(http.StatusOK, out)
}

type fieldDeltaResponse struct {
	Field         string           `json:"field"`
	Kind          string           `json:"kind"`
	Current       decimal.Decimal  `json:"current"`
	Prior         *decimal.Decimal `json:"prior"`
	Delta         *decimal.Decimal `json:"delta"`
	PercentChange *decimal.Decimal `json:"percent_change"`
	HasPrior      bool             `json:"has_prior"`
}

type comparisonResponse struct {
	ProjectID             uuid.UUID            `json:"project_id"`
	CurrentPeriod         model.Period         `json:"current_period"`
	PriorPeriod           *model.Period        `json:"prior_period"`
	Deltas                []fieldDeltaResponse `json:"deltas"`
	SignificantChanges    []string             `json:"significant_changes"`
	HasSignificantChanges bool                 `json:"has_significant_changes"`
}

func toComparisonResponse(projectID uuid.UUID, result wip.ComparisonResult) comparisonResponse {
	deltas := make([]fieldDeltaResponse, 0, len(result.Deltas))
	for _, delta := range result.Deltas {
		deltas = append(deltas, fieldDeltaResponse{
			Field:         delta.Field,
			Kind:          string(delta.Kind),
			Current:       delta.Current,
			Prior:         delta.Prior,
			Delta:         delta.Delta,
			PercentChange: delta.PercentChange,
			HasPrior:      delta.HasPrior(),
		})
	}
	significant := result.Significant
	if significant == nil {
		significant = []string{}
	}
	return comparisonResponse{
		ProjectID:             projectID,
		CurrentPeriod:         result.CurrentPeriod,
		PriorPeriod:           result.PriorPeriod,
		Deltas:                deltas,
		SignificantChanges:    significant,
		HasSignificantChanges: result.HasSignificantChanges,
	}
}

func (h *Handler) comparison(c *gin.Context) {
	if _, ok := requirePrincipal(c); !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	period, ok := parsePeriodQuery(c, "period")
	if !ok {
		return
	}
	if period == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period is required"})
		return
	}
	prior, ok := parsePeriodQuery(c, "prior")
	if !ok {
		return
	}

	result, err := h.snapshots.Compare(c.Request.Context(), service.CompareInput{
		ProjectID: id,
		Period:    *period,
		Prior:     prior,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toComparisonResponse(id, *result))
}

// parseIntQuery reads an optional non-negative integer query parameter,
// reporting 400 itself when malformed.
func parseIntQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return value, true
}
