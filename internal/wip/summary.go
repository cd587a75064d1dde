package wip

import (
	"github.com/shopspring/decimal"

	"github.com/harwick/wip-reporting/internal/model"
)

// Summarize folds a set of snapshots (one per project) into portfolio
// totals. Sums are exact; only the overall margin ratio is rounded.
func Summarize(snaps []model.Snapshot) model.DashboardSummary {
	summary := model.DashboardSummary{
		ProjectCount: int64(len(snaps)),
	}

	for _, snap := range snaps {
		summary.TotalContractValue = summary.TotalContractValue.Add(snap.Derived.TotalContract)
		summary.TotalCostToDate = summary.TotalCostToDate.Add(snap.Inputs.CostToDate)
		summary.TotalBilledToDate = summary.TotalBilledToDate.Add(snap.Inputs.BilledToDate)
		summary.TotalEstFinalCost = summary.TotalEstFinalCost.Add(snap.Derived.EstimatedFinalCost)
	}

	summary.OverallMargin = summary.TotalContractValue.Sub(summary.TotalEstFinalCost)
	if summary.TotalContractValue.IsPositive() {
		summary.OverallMarginPct = summary.OverallMargin.DivRound(summary.TotalContractValue, ratioPlaces)
	} else {
		summary.OverallMarginPct = decimal.Zero
	}

	return summary
}
