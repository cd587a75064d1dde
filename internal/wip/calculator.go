package wip

import (
	"github.com/shopspring/decimal"

	"github.com/harwick/wip-reporting/internal/model"
)

const (
	// moneyPlaces matches the NUMERIC(15,2) storage of monetary columns.
	moneyPlaces = 2
	// ratioPlaces keeps four decimal digits on percent-style ratios before
	// any display rounding, per US GAAP reporting practice here.
	ratioPlaces = 4
)

// Compute derives every calculated field from the five inputs. It is a total
// function: division by zero is defined as zero (an estimated final cost of
// zero is the valid "not yet started" state), and percent complete is not
// clamped at 1.0, so cost overruns read as values above 100%.
//
// Evaluation order matters; later rules consume earlier results. Sums and
// differences of exact decimals stay exact; only revenue earned, which
// multiplies by the rounded ratio, is rounded to cents.
func Compute(in model.SnapshotInputs) model.SnapshotDerived {
	totalContract := in.OriginalContract.Add(in.ChangeOrders)
	estFinalCost := in.CostToDate.Add(in.EstCostToComplete)

	percentComplete := decimal.Zero
	if estFinalCost.IsPositive() {
		percentComplete = in.CostToDate.DivRound(estFinalCost, ratioPlaces)
	}

	revenueEarned := totalContract.Mul(percentComplete).Round(moneyPlaces)
	jobMargin := totalContract.Sub(estFinalCost)

	marginPercent := decimal.Zero
	if totalContract.IsPositive() {
		marginPercent = jobMargin.DivRound(totalContract, ratioPlaces)
	}

	// Positive: costs and earnings in excess of billings (asset).
	// Negative: billings in excess of costs and earnings (liability).
	wipAdjustment := revenueEarned.Sub(in.BilledToDate)

	return model.SnapshotDerived{
		TotalContract:      totalContract,
		EstimatedFinalCost: estFinalCost,
		PercentComplete:    percentComplete,
		RevenueEarned:      revenueEarned,
		JobMargin:          jobMargin,
		MarginPercent:      marginPercent,
		WIPAdjustment:      wipAdjustment,
		JobMarginToDate:    revenueEarned.Sub(in.CostToDate),
		Posture:            classifyPosture(wipAdjustment),
	}
}

func classifyPosture(wipAdjustment decimal.Decimal) model.BillingPosture {
	switch wipAdjustment.Sign() {
	case 1:
		return model.PostureCostsInExcess
	case -1:
		return model.PostureBillingsInExcess
	default:
		return model.PostureLevel
	}
}
