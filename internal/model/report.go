package model

import "time"

// WIPReport is the material handed to the Excel and PDF generators: one row
// per project plus the portfolio rollup. Period is nil when the report shows
// each project's latest snapshot rather than one fixed month.
type WIPReport struct {
	GeneratedAt time.Time
	Period      *Period
	Rows        []SnapshotWithProject
	Summary     DashboardSummary
}
