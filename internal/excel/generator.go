package excel

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/harwick/wip-reporting/internal/model"
	"github.com/harwick/wip-reporting/internal/wip"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the WIP schedule workbook: a summary sheet with portfolio
// totals, then one schedule sheet with a row per project in field-registry
// column order.
func (g *Generator) Generate(report model.WIPReport) ([]byte, error) {
	file := excelize.NewFile()

	summarySheet := "Summary"
	file.SetSheetName("Sheet1", summarySheet)
	if err := g.writeSummary(file, summarySheet, report); err != nil {
		return nil, err
	}

	scheduleSheet := "WIP Schedule"
	if _, err := file.NewSheet(scheduleSheet); err != nil {
		return nil, err
	}
	if err := g.writeSchedule(file, scheduleSheet, report); err != nil {
		return nil, err
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *Generator) writeSummary(file *excelize.File, sheet string, report model.WIPReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	set("A1", "Report")
	set("B1", "Work in Progress Schedule")
	set("A2", "Period")
	set("B2", periodLabel(report.Period))
	set("A3", "Generated")
	set("B3", formatDateTime(report.GeneratedAt))
	set("A4", "Projects")
	set("B4", report.Summary.ProjectCount)

	set("A6", "Total Contract Value")
	set("B6", cellNumber(report.Summary.TotalContractValue))
	set("A7", "Total Cost to Date")
	set("B7", cellNumber(report.Summary.TotalCostToDate))
	set("A8", "Total Billed to Date")
	set("B8", cellNumber(report.Summary.TotalBilledToDate))
	set("A9", "Total Estimated Final Cost")
	set("B9", cellNumber(report.Summary.TotalEstFinalCost))
	set("A10", "Overall Margin")
	set("B10", cellNumber(report.Summary.OverallMargin))
	set("A11", "Overall Margin %")
	set("B11", cellNumber(report.Summary.OverallMarginPct))

	_ = file.SetColWidth(sheet, "A", "A", 28)
	_ = file.SetColWidth(sheet, "B", "B", 26)
	return nil
}

func (g *Generator) writeSchedule(file *excelize.File, sheet string, report model.WIPReport) error {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(sheet, cell, value)
	}

	fields := wip.Fields()
	headers := make([]string, 0, len(fields)+3)
	headers = append(headers, "Job Number", "Project")
	for _, def := range fields {
		headers = append(headers, def.DisplayName)
	}
	headers = append(headers, "Billing Posture")

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		set(cell, header)
	}

	for i, row := range report.Rows {
		rowNum := 2 + i
		set(fmt.Sprintf("A%d", rowNum), row.JobNumber)
		set(fmt.Sprintf("B%d", rowNum), row.ProjectName)
		for j, def := range fields {
			cell, _ := excelize.CoordinatesToCellName(j+3, rowNum)
			set(cell, cellNumber(def.Value(row.Snapshot)))
		}
		postureCell, _ := excelize.CoordinatesToCellName(len(fields)+3, rowNum)
		set(postureCell, string(row.Derived.Posture))
	}

	totalRow := 2 + len(report.Rows)
	set(fmt.Sprintf("B%d", totalRow), "Portfolio Total")
	for j, def := range fields {
		total, ok := portfolioTotal(def.Name, report.Summary)
		if !ok {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(j+3, totalRow)
		set(cell, cellNumber(total))
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	_ = file.SetColWidth(sheet, "A", "A", 12)
	_ = file.SetColWidth(sheet, "B", "B", 36)
	_ = file.SetColWidth(sheet, "C", lastCol, 18)
	return nil
}

// portfolioTotal maps a registry field to its portfolio rollup, when one
// exists. Input sums other than cost and billings are not part of the rollup.
func portfolioTotal(name string, summary model.DashboardSummary) (decimal.Decimal, bool) {
	switch name {
	case wip.FieldCostToDate:
		return summary.TotalCostToDate, true
	case wip.FieldBilledToDate:
		return summary.TotalBilledToDate, true
	case wip.FieldTotalContract:
		return summary.TotalContractValue, true
	case wip.FieldEstFinalCost:
		return summary.TotalEstFinalCost, true
	case wip.FieldJobMargin:
		return summary.OverallMargin, true
	case wip.FieldMarginPercent:
		return summary.OverallMarginPct, true
	default:
		return decimal.Decimal{}, false
	}
}

func periodLabel(period *model.Period) string {
	if period == nil {
		return "Latest snapshots"
	}
	return period.String()
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

// cellNumber hands amounts to excelize as float64 so the workbook carries
// real numbers rather than text.
func cellNumber(value decimal.Decimal) float64 {
	return value.InexactFloat64()
}
