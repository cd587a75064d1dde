package wip

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/harwick/wip-reporting/internal/model"
)

// ValidateInputs rejects negative monetary amounts. Presence of all five
// fields is a transport concern; by the time inputs reach this check they are
// materialized decimals. Returns the first violation in field order.
func ValidateInputs(in model.SnapshotInputs) error {
	checks := []struct {
		name  string
		value decimal.Decimal
	}{
		{FieldOriginalContract, in.OriginalContract},
		{FieldChangeOrders, in.ChangeOrders},
		{FieldCostToDate, in.CostToDate},
		{FieldEstCostToComplete, in.EstCostToComplete},
		{FieldBilledToDate, in.BilledToDate},
	}
	for _, check := range checks {
		if check.value.IsNegative() {
			return fmt.Errorf("%s must be non-negative, got %s", check.name, check.value)
		}
	}
	return nil
}
