package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/harwick/wip-reporting/internal/model"
	"github.com/harwick/wip-reporting/internal/repository"
	"github.com/harwick/wip-reporting/internal/service"
)

// snapshotResponse keys follow the canonical field registry names, the same
// identifiers comparison results and explanations use.
type snapshotResponse struct {
	ID        uuid.UUID    `json:"id"`
	ProjectID uuid.UUID    `json:"project_id"`
	Period    model.Period `json:"period"`

	OriginalContractAmount  decimal.Decimal `json:"original_contract_amount"`
	ChangeOrderAmount       decimal.Decimal `json:"change_order_amount"`
	CostToDate              decimal.Decimal `json:"cost_to_date"`
	EstimatedCostToComplete decimal.Decimal `json:"estimated_cost_to_complete"`
	BilledToDate            decimal.Decimal `json:"billed_to_date"`

	TotalContractAmount decimal.Decimal `json:"total_contract_amount"`
	EstimatedFinalCost  decimal.Decimal `json:"estimated_final_cost"`
	PercentComplete     decimal.Decimal `json:"percent_complete"`
	RevenueEarned       decimal.Decimal `json:"revenue_earned"`
	JobMargin           decimal.Decimal `json:"job_margin"`
	MarginPercent       decimal.Decimal `json:"margin_percent"`
	WIPAdjustment       decimal.Decimal `json:"wip_adjustment"`
	JobMarginToDate     decimal.Decimal `json:"job_margin_to_date"`
	BillingPosture      string          `json:"billing_posture"`

	JobNumber   string `json:"job_number,omitempty"`
	ProjectName string `json:"project_name,omitempty"`

	CreatedBy uuid.UUID `json:"created_by"`
	UpdatedBy uuid.UUID `json:"updated_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toSnapshotResponse(snap model.Snapshot) snapshotResponse {
	return snapshotResponse{
		ID:        snap.ID,
		ProjectID: snap.ProjectID,
		Period:    snap.Period,

		OriginalContractAmount:  snap.Inputs.OriginalContract,
		ChangeOrderAmount:       snap.Inputs.ChangeOrders,
		CostToDate:              snap.Inputs.CostToDate,
		EstimatedCostToComplete: snap.Inputs.EstCostToComplete,
		BilledToDate:            snap.Inputs.BilledToDate,

		TotalContractAmount: snap.Derived.TotalContract,
		EstimatedFinalCost:  snap.Derived.EstimatedFinalCost,
		PercentComplete:     snap.Derived.PercentComplete,
		RevenueEarned:       snap.Derived.RevenueEarned,
		JobMargin:           snap.Derived.JobMargin,
		MarginPercent:       snap.Derived.MarginPercent,
		WIPAdjustment:       snap.Derived.WIPAdjustment,
		JobMarginToDate:     snap.Derived.JobMarginToDate,
		BillingPosture:      string(snap.Derived.Posture),

		CreatedBy: snap.CreatedBy,
		UpdatedBy: snap.UpdatedBy,
		CreatedAt: snap.CreatedAt,
		UpdatedAt: snap.UpdatedAt,
	}
}

func toSnapshotWithProjectResponse(snap model.SnapshotWithProject) snapshotResponse {
	out := toSnapshotResponse(snap.Snapshot)
	out.JobNumber = snap.JobNumber
	out.ProjectName = snap.ProjectName
	return out
}

type createSnapshotRequest struct {
	ProjectID string `json:"project_id" binding:"required"`
	Period    string `json:"period" binding:"required"`

	OriginalContractAmount  decimal.Decimal `json:"original_contract_amount"`
	ChangeOrderAmount       decimal.Decimal `json:"change_order_amount"`
	CostToDate              decimal.Decimal `json:"cost_to_date"`
	EstimatedCostToComplete decimal.Decimal `json:"estimated_cost_to_complete"`
	BilledToDate            decimal.Decimal `json:"billed_to_date"`
}

func (h *Handler) createSnapshot(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}

	var req createSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	projectID, err := uuid.Parse(strings.TrimSpace(req.ProjectID))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project_id"})
		return
	}
	period, err := model.ParsePeriod(req.Period)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid period: expected YYYY-MM"})
		return
	}

	snap, err := h.snapshots.Create(c.Request.Context(), service.CreateSnapshotInput{
		ProjectID: projectID,
		Period:    period,
		Inputs: model.SnapshotInputs{
			OriginalContract:  req.OriginalContractAmount,
			ChangeOrders:      req.ChangeOrderAmount,
			CostToDate:        req.CostToDate,
			EstCostToComplete: req.EstimatedCostToComplete,
			BilledToDate:      req.BilledToDate,
		},
		Principal: principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSnapshotResponse(*snap))
}

func (h *Handler) listSnapshots(c *gin.Context) {
	if _, ok := requirePrincipal(c); !ok {
		return
	}

	filter := repository.SnapshotFilter{
		JobNumber: c.Query("job_number"),
	}
	if raw := strings.TrimSpace(c.Query("project_id")); raw != "" {
		projectID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid project_id"})
			return
		}
		filter.ProjectID = &projectID
	}
	period, ok := parsePeriodQuery(c, "period")
	if !ok {
		return
	}
	filter.Period = period
	if filter.Limit, ok = parseIntQuery(c, "limit"); !ok {
		return
	}
	if filter.Offset, ok = parseIntQuery(c, "offset"); !ok {
		return
	}

	snaps, err := h.snapshots.List(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]snapshotResponse, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, toSnapshotWithProjectResponse(snap))
	}
	c.JSON(http.StatusOK, out)
}

// latestSnapshots serves the reporting baseline: each active project's most
// recent snapshot, or every snapshot of one period when given.
func (h *Handler) latestSnapshots(c *gin.Context) {
	if _, ok := requirePrincipal(c); !ok {
		return
	}

	period, ok := parsePeriodQuery(c, "period")
	if !ok {
		return
	}

	var (
		snaps []model.SnapshotWithProject
		err   error
	)
	if period != nil {
		snaps, err = h.snapshots.List(c.Request.Context(), repository.SnapshotFilter{
			Period:     period,
			ActiveOnly: true,
		})
	} else {
		snaps, err = h.snapshots.Latest(c.Request.Context())
	}
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]snapshotResponse, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, toSnapshotWithProjectResponse(snap))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) getSnapshot(c *gin.Context) {
	if _, ok := requirePrincipal(c); !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	snap, err := h.snapshots.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSnapshotWithProjectResponse(*snap))
}

type updateSnapshotRequest struct {
	OriginalContractAmount  *decimal.Decimal `json:"original_contract_amount"`
	ChangeOrderAmount       *decimal.Decimal `json:"change_order_amount"`
	CostToDate              *decimal.Decimal `json:"cost_to_date"`
	EstimatedCostToComplete *decimal.Decimal `json:"estimated_cost_to_complete"`
	BilledToDate            *decimal.Decimal `json:"billed_to_date"`
}

func (h *Handler) updateSnapshot(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req updateSnapshotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snap, err := h.snapshots.Update(c.Request.Context(), service.UpdateSnapshotInput{
		ID:                id,
		OriginalContract:  req.OriginalContractAmount,
		ChangeOrders:      req.ChangeOrderAmount,
		CostToDate:        req.CostToDate,
		EstCostToComplete: req.EstimatedCostToComplete,
		BilledToDate:      req.BilledToDate,
		Principal:         principal,
	})
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSnapshotResponse(*snap))
}

func (h *Handler) deleteSnapshot(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.snapshots.Delete(c.Request.Context(), id, principal); err != nil {
		h.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
