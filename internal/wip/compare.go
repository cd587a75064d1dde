package wip

import (
	"github.com/shopspring/decimal"

	"github.com/harwick/wip-reporting/internal/model"
)

// FieldDelta is one field's month-to-month movement. Prior, Delta and
// PercentChange are nil when there is no prior snapshot: "no prior data" is
// a distinct state, never reported as a numeric zero. PercentChange is also
// nil when the prior value is zero (undefined), even when a prior exists.
type FieldDelta struct {
	Field         string
	Kind          FieldKind
	Current       decimal.Decimal
	Prior         *decimal.Decimal
	Delta         *decimal.Decimal
	PercentChange *decimal.Decimal
}

// HasPrior reports whether a prior-period value existed for this field.
func (d FieldDelta) HasPrior() bool {
	return d.Prior != nil
}

// ComparisonResult is computed on demand and never persisted.
type ComparisonResult struct {
	CurrentPeriod model.Period
	PriorPeriod   *model.Period
	Deltas        []FieldDelta

	// Significant lists the watched fields whose absolute percent change
	// exceeded the configured threshold, in field order.
	Significant           []string
	HasSignificantChanges bool
}

// significantWatch are the fields screened for month-to-month movement worth
// a reviewer's attention.
var significantWatch = []string{
	FieldTotalContract,
	FieldEstFinalCost,
	FieldJobMargin,
	FieldPercentComplete,
}

// Compare produces per-field deltas between a current snapshot and its prior
// period. prior may be nil (first period for the project): every delta then
// reports no prior data. thresholdPct is the significant-change cutoff in
// percent units (5 means 5%).
//
// Deltas come back in a fixed order (the five inputs first, then the derived
// fields) so consumers can rely on position.
func Compare(current model.Snapshot, prior *model.Snapshot, thresholdPct decimal.Decimal) ComparisonResult {
	result := ComparisonResult{
		CurrentPeriod: current.Period,
		Deltas:        make([]FieldDelta, 0, len(fieldOrder)),
	}
	if prior != nil {
		p := prior.Period
		result.PriorPeriod = &p
	}

	hundred := decimal.NewFromInt(100)
	for _, def := range fieldOrder {
		delta := FieldDelta{
			Field:   def.Name,
			Kind:    def.Kind,
			Current: def.Value(current),
		}
		if prior != nil {
			priorVal := def.Value(*prior)
			diff := delta.Current.Sub(priorVal)
			delta.Prior = &priorVal
			delta.Delta = &diff
			if !priorVal.IsZero() {
				pct := diff.DivRound(priorVal.Abs(), ratioPlaces)
				delta.PercentChange = &pct
			}
		}
		result.Deltas = append(result.Deltas, delta)

		if delta.Delta == nil || delta.PercentChange == nil {
			continue
		}
		for _, watched := range significantWatch {
			if watched != def.Name {
				continue
			}
			movedPct := delta.PercentChange.Abs().Mul(hundred)
			if movedPct.GreaterThan(thresholdPct) {
				result.Significant = append(result.Significant, def.Name)
			}
		}
	}

	result.HasSignificantChanges = len(result.Significant) > 0
	return result
}
