package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Project struct {
	ID                     uuid.UUID
	JobNumber              string
	Name                   string
	OriginalContractAmount decimal.Decimal
	IsActive               bool
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// ProjectSummary is a project row enriched with snapshot bookkeeping for
// list views.
type ProjectSummary struct {
	Project
	SnapshotCount int64
	LatestPeriod  *Period
}

// ProjectTrendPoint carries the key figures of one period for trend views.
type ProjectTrendPoint struct {
	Period          Period
	TotalContract   decimal.Decimal
	CostToDate      decimal.Decimal
	PercentComplete decimal.Decimal
	JobMargin       decimal.Decimal
}
