package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillingPosture classifies the sign of the WIP adjustment.
type BillingPosture string

const (
	// PostureCostsInExcess: revenue earned exceeds billings (asset).
	PostureCostsInExcess BillingPosture = "COSTS_IN_EXCESS_OF_BILLINGS"
	// PostureBillingsInExcess: billings exceed revenue earned (liability).
	PostureBillingsInExcess BillingPosture = "BILLINGS_IN_EXCESS_OF_COSTS"
	// PostureLevel: billings match revenue earned to the cent.
	PostureLevel BillingPosture = "LEVEL"
)

// SnapshotInputs are the five user-supplied monetary amounts of a WIP
// snapshot. Everything else on the snapshot is derived from these.
type SnapshotInputs struct {
	OriginalContract  decimal.Decimal
	ChangeOrders      decimal.Decimal
	CostToDate        decimal.Decimal
	EstCostToComplete decimal.Decimal
	BilledToDate      decimal.Decimal
}

// SnapshotDerived are the computed percentage-of-completion fields. They are
// recomputed on every write and never accepted from a client.
type SnapshotDerived struct {
	TotalContract      decimal.Decimal
	EstimatedFinalCost decimal.Decimal
	PercentComplete    decimal.Decimal
	RevenueEarned      decimal.Decimal
	JobMargin          decimal.Decimal
	MarginPercent      decimal.Decimal
	WIPAdjustment      decimal.Decimal
	JobMarginToDate    decimal.Decimal
	Posture            BillingPosture
}

// Snapshot is one project's WIP state for one reporting period.
type Snapshot struct {
	ID        uuid.UUID
	ProjectID uuid.UUID
	Period    Period

	Inputs  SnapshotInputs
	Derived SnapshotDerived

	CreatedBy uuid.UUID
	UpdatedBy uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SnapshotWithProject joins display fields for list and report views.
type SnapshotWithProject struct {
	Snapshot
	JobNumber   string
	ProjectName string
}

// DashboardSummary aggregates the latest snapshot of every project into
// portfolio totals.
type DashboardSummary struct {
	Period             *Period
	ProjectCount       int64
	TotalContractValue decimal.Decimal
	TotalCostToDate    decimal.Decimal
	TotalBilledToDate  decimal.Decimal
	TotalEstFinalCost  decimal.Decimal
	OverallMargin      decimal.Decimal
	OverallMarginPct   decimal.Decimal
}
