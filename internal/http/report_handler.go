package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/harwick/wip-reporting/internal/model"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

type dashboardResponse struct {
	Period             *model.Period   `json:"period"`
	ProjectCount       int64           `json:"project_count"`
	TotalContractValue decimal.Decimal `json:"total_contract_value"`
	TotalCostToDate    decimal.Decimal `json:"total_cost_to_date"`
	TotalBilledToDate  decimal.Decimal `json:"total_billed_to_date"`
	TotalEstFinalCost  decimal.Decimal `json:"total_estimated_final_cost"`
	OverallMargin      decimal.Decimal `json:"overall_margin"`
	OverallMarginPct   decimal.Decimal `json:"overall_margin_pct"`
}

func (h *Handler) dashboard(c *gin.Context) {
	if _, ok := requirePrincipal(c); !ok {
		return
	}

	period, ok := parsePeriodQuery(c, "period")
	if !ok {
		return
	}

	summary, err := h.reports.Dashboard(c.Request.Context(), period)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboardResponse{
		Period:             summary.Period,
		ProjectCount:       summary.ProjectCount,
		TotalContractValue: summary.TotalContractValue,
		TotalCostToDate:    summary.TotalCostToDate,
		TotalBilledToDate:  summary.TotalBilledToDate,
		TotalEstFinalCost:  summary.TotalEstFinalCost,
		OverallMargin:      summary.OverallMargin,
		OverallMarginPct:   summary.OverallMarginPct,
	})
}

func (h *Handler) exportExcel(c *gin.Context) {
	if _, ok := requirePrincipal(c); !ok {
		return
	}

	period, ok := parsePeriodQuery(c, "period")
	if !ok {
		return
	}

	result, err := h.reports.ExportExcel(c.Request.Context(), period)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Type", contentTypeXLSX)
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentTypeXLSX, result.Content)
}

func (h *Handler) exportPDF(c *gin.Context) {
	if _, ok := requirePrincipal(c); !ok {
		return
	}

	period, ok := parsePeriodQuery(c, "period")
	if !ok {
		return
	}

	result, err := h.reports.ExportPDF(c.Request.Context(), period)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Type", contentTypePDF)
	c.Header("Content-Disposition", "attachment; filename=\""+result.FileName+"\"")
	c.Data(http.StatusOK, contentTypePDF, result.Content)
}
