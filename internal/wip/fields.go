// Package wip holds the WIP calculation and comparison engines. Everything in
// here is pure: no I/O, no clock, no store. The persistence and HTTP layers
// call into this package; it calls into nothing.
package wip

import (
	"github.com/shopspring/decimal"

	"github.com/harwick/wip-reporting/internal/model"
)

type FieldKind string

const (
	FieldKindInput   FieldKind = "input"
	FieldKindDerived FieldKind = "derived"
)

// Field names are the canonical identifiers used in comparison results,
// explanations and exports. Renaming one is a breaking API change.
const (
	FieldOriginalContract  = "original_contract_amount"
	FieldChangeOrders      = "change_order_amount"
	FieldCostToDate        = "cost_to_date"
	FieldEstCostToComplete = "estimated_cost_to_complete"
	FieldBilledToDate      = "billed_to_date"
	FieldTotalContract     = "total_contract_amount"
	FieldEstFinalCost      = "estimated_final_cost"
	FieldPercentComplete   = "percent_complete"
	FieldRevenueEarned     = "revenue_earned"
	FieldJobMargin         = "job_margin"
	FieldMarginPercent     = "margin_percent"
	FieldWIPAdjustment     = "wip_adjustment"
	FieldJobMarginToDate   = "job_margin_to_date"
)

type FieldDef struct {
	Name        string
	DisplayName string
	Section     string
	Kind        FieldKind
	Value       func(model.Snapshot) decimal.Decimal
}

// fieldOrder is the documented comparison order: the five inputs first, then
// the derived fields, each in data-model listing order. Consumers rely on
// positional stability across calls.
var fieldOrder = []FieldDef{
	{FieldOriginalContract, "Original Contract Amount", "contract", FieldKindInput,
		func(s model.Snapshot) decimal.Decimal { return s.Inputs.OriginalContract }},
	{FieldChangeOrders, "Change Order Amount", "contract", FieldKindInput,
		func(s model.Snapshot) decimal.Decimal { return s.Inputs.ChangeOrders }},
	{FieldCostToDate, "Cost to Date", "cost", FieldKindInput,
		func(s model.Snapshot) decimal.Decimal { return s.Inputs.CostToDate }},
	{FieldEstCostToComplete, "Estimated Cost to Complete", "cost", FieldKindInput,
		func(s model.Snapshot) decimal.Decimal { return s.Inputs.EstCostToComplete }},
	{FieldBilledToDate, "Revenue Billed to Date", "billing", FieldKindInput,
		func(s model.Snapshot) decimal.Decimal { return s.Inputs.BilledToDate }},
	{FieldTotalContract, "Total Contract Amount", "contract", FieldKindDerived,
		func(s model.Snapshot) decimal.Decimal { return s.Derived.TotalContract }},
	{FieldEstFinalCost, "Estimated Final Cost", "cost", FieldKindDerived,
		func(s model.Snapshot) decimal.Decimal { return s.Derived.EstimatedFinalCost }},
	{FieldPercentComplete, "Percent Complete", "completion", FieldKindDerived,
		func(s model.Snapshot) decimal.Decimal { return s.Derived.PercentComplete }},
	{FieldRevenueEarned, "Revenue Earned to Date", "completion", FieldKindDerived,
		func(s model.Snapshot) decimal.Decimal { return s.Derived.RevenueEarned }},
	{FieldJobMargin, "Job Margin at Completion", "margin", FieldKindDerived,
		func(s model.Snapshot) decimal.Decimal { return s.Derived.JobMargin }},
	{FieldMarginPercent, "Job Margin % of Contract", "margin", FieldKindDerived,
		func(s model.Snapshot) decimal.Decimal { return s.Derived.MarginPercent }},
	{FieldWIPAdjustment, "WIP Over/Under Billing", "adjustment", FieldKindDerived,
		func(s model.Snapshot) decimal.Decimal { return s.Derived.WIPAdjustment }},
	{FieldJobMarginToDate, "Job Margin to Date", "margin", FieldKindDerived,
		func(s model.Snapshot) decimal.Decimal { return s.Derived.JobMarginToDate }},
}

var fieldIndex = func() map[string]FieldDef {
	index := make(map[string]FieldDef, len(fieldOrder))
	for _, def := range fieldOrder {
		index[def.Name] = def
	}
	return index
}()

// Fields returns the full registry in comparison order. The returned slice is
// a copy; callers may not mutate the registry.
func Fields() []FieldDef {
	out := make([]FieldDef, len(fieldOrder))
	copy(out, fieldOrder)
	return out
}

// FieldByName resolves a canonical field identifier. Every registered field,
// input or derived, may carry explanations.
func FieldByName(name string) (FieldDef, bool) {
	def, ok := fieldIndex[name]
	return def, ok
}
