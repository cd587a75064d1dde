package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"github.com/harwick/wip-reporting/internal/model"
)

const fontName = "Helvetica"

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Generate renders the condensed WIP schedule: portfolio summary, one line
// per project, and sign-off lines. The Excel export carries the full column
// set; this is the copy that goes in the month-end binder.
func (g *Generator) Generate(report model.WIPReport) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont(fontName, "B", 14)
	pdf.CellFormat(0, 10, "Work in Progress Schedule", "", 1, "C", false, 0, "")

	pdf.SetFont(fontName, "", 11)
	pdf.CellFormat(0, 6, fmt.Sprintf("Period: %s", periodLabel(report.Period)), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s", formatDateTime(report.GeneratedAt)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	addSummaryBlock(pdf, report.Summary)
	pdf.Ln(4)

	pdf.SetFont(fontName, "B", 12)
	pdf.CellFormat(0, 8, "Projects", "", 1, "L", false, 0, "")

	headers := []string{
		"Job #",
		"Project",
		"Total Contract",
		"Cost to Date",
		"Billed to Date",
		"Est. Final Cost",
		"% Compl.",
		"Margin",
		"Billing",
	}
	colWidths := []float64{22, 55, 30, 30, 30, 30, 18, 30, 22}
	drawTableRow(pdf, headers, colWidths, true)

	for _, row := range report.Rows {
		cols := []string{
			row.JobNumber,
			row.ProjectName,
			formatAmount(row.Derived.TotalContract),
			formatAmount(row.Inputs.CostToDate),
			formatAmount(row.Inputs.BilledToDate),
			formatAmount(row.Derived.EstimatedFinalCost),
			formatPercent(row.Derived.PercentComplete),
			formatAmount(row.Derived.JobMargin),
			postureLabel(row.Derived.Posture),
		}
		drawTableRow(pdf, cols, colWidths, false)
	}

	totals := []string{
		"",
		"Portfolio Total",
		formatAmount(report.Summary.TotalContractValue),
		formatAmount(report.Summary.TotalCostToDate),
		formatAmount(report.Summary.TotalBilledToDate),
		formatAmount(report.Summary.TotalEstFinalCost),
		"",
		formatAmount(report.Summary.OverallMargin),
		"",
	}
	drawTableRow(pdf, totals, colWidths, true)

	if report.Summary.OverallMargin.IsNegative() {
		pdf.Ln(2)
		pdf.SetTextColor(200, 0, 0)
		pdf.MultiCell(0, 6, "Note: the portfolio margin is negative for this period.", "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.Ln(8)
	signatureBlock(pdf, "Prepared by")
	signatureBlock(pdf, "Reviewed by")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addSummaryBlock(pdf *gofpdf.Fpdf, summary model.DashboardSummary) {
	pdf.SetFont(fontName, "B", 12)
	pdf.CellFormat(0, 8, "Portfolio Summary", "", 1, "L", false, 0, "")
	pdf.SetFont(fontName, "", 10)
	lines := []string{
		fmt.Sprintf("Projects: %d", summary.ProjectCount),
		fmt.Sprintf("Total Contract Value: %s", formatAmount(summary.TotalContractValue)),
		fmt.Sprintf("Total Cost to Date: %s", formatAmount(summary.TotalCostToDate)),
		fmt.Sprintf("Total Billed to Date: %s", formatAmount(summary.TotalBilledToDate)),
		fmt.Sprintf("Total Estimated Final Cost: %s", formatAmount(summary.TotalEstFinalCost)),
		fmt.Sprintf("Overall Margin: %s (%s)", formatAmount(summary.OverallMargin), formatPercent(summary.OverallMarginPct)),
	}
	for _, line := range lines {
		pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
	}
}

func drawTableRow(pdf *gofpdf.Fpdf, cols []string, widths []float64, header bool) {
	style := ""
	if header {
		style = "B"
	}
	pdf.SetFont(fontName, style, 8)
	for i, col := range cols {
		align := "L"
		if i > 1 {
			align = "R"
		}
		pdf.CellFormat(widths[i], 7, col, "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func signatureBlock(pdf *gofpdf.Fpdf, label string) {
	pdf.SetFont(fontName, "", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("%s: ______________________    Date: ____________", label), "", 1, "L", false, 0, "")
}

// postureLabel translates the stored posture constant into schedule wording.
// Costs in excess of billings means the project is underbilled.
func postureLabel(posture model.BillingPosture) string {
	switch posture {
	case model.PostureCostsInExcess:
		return "Underbilled"
	case model.PostureBillingsInExcess:
		return "Overbilled"
	case model.PostureLevel:
		return "Level"
	default:
		return string(posture)
	}
}

func periodLabel(period *model.Period) string {
	if period == nil {
		return "Latest snapshots"
	}
	return period.String()
}

func formatAmount(value decimal.Decimal) string {
	return value.StringFixed(2)
}

func formatPercent(value decimal.Decimal) string {
	return value.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}

func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
