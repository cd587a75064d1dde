package service

import (
	"context"
	"fmt"
	"time"

	"github.com/harwick/wip-reporting/internal/model"
	"github.com/harwick/wip-reporting/internal/repository"
	"github.com/harwick/wip-reporting/internal/wip"
)

type ExcelGenerator interface {
	Generate(report model.WIPReport) ([]byte, error)
}

type PDFGenerator interface {
	Generate(report model.WIPReport) ([]byte, error)
}

// ReportSnapshotStore is the slice of the snapshot store reporting reads
// from.
type ReportSnapshotStore interface {
	List(ctx context.Context, filter repository.SnapshotFilter) ([]model.SnapshotWithProject, error)
	LatestPerProject(ctx context.Context) ([]model.SnapshotWithProject, error)
}

type ReportService struct {
	snaps ReportSnapshotStore
	excel ExcelGenerator
	pdf   PDFGenerator
}

func NewReportService(snaps ReportSnapshotStore, excel ExcelGenerator, pdf PDFGenerator) *ReportService {
	return &ReportService{snaps: snaps, excel: excel, pdf: pdf}
}

type ExportResult struct {
	FileName string
	Content  []byte
}

// Dashboard aggregates the portfolio. With a period it covers exactly that
// month; without one it takes each active project's latest snapshot.
func (s *ReportService) Dashboard(ctx context.Context, period *model.Period) (*model.DashboardSummary, error) {
	rows, err := s.load(ctx, period)
	if err != nil {
		return nil, err
	}

	snaps := make([]model.Snapshot, 0, len(rows))
	for _, row := range rows {
		snaps = append(snaps, row.Snapshot)
	}

	summary := wip.Summarize(snaps)
	summary.Period = period
	return &summary, nil
}

func (s *ReportService) ExportExcel(ctx context.Context, period *model.Period) (*ExportResult, error) {
	report, err := s.buildReport(ctx, period)
	if err != nil {
		return nil, err
	}

	content, err := s.excel.Generate(*report)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: reportFileName(period, "xlsx"),
		Content:  content,
	}, nil
}

func (s *ReportService) ExportPDF(ctx context.Context, period *model.Period) (*ExportResult, error) {
	report, err := s.buildReport(ctx, period)
	if err != nil {
		return nil, err
	}

	content, err := s.pdf.Generate(*report)
	if err != nil {
		return nil, err
	}
	return &ExportResult{
		FileName: reportFileName(period, "pdf"),
		Content:  content,
	}, nil
}

func (s *ReportService) load(ctx context.Context, period *model.Period) ([]model.SnapshotWithProject, error) {
	if period != nil {
		return s.snaps.List(ctx, repository.SnapshotFilter{
			Period:     period,
			ActiveOnly: true,
		})
	}
	return s.snaps.LatestPerProject(ctx)
}

func (s *ReportService) buildReport(ctx context.Context, period *model.Period) (*model.WIPReport, error) {
	rows, err := s.load(ctx, period)
	if err != nil {
		return nil, err
	}

	snaps := make([]model.Snapshot, 0, len(rows))
	for _, row := range rows {
		snaps = append(snaps, row.Snapshot)
	}
	summary := wip.Summarize(snaps)
	summary.Period = period

	return &model.WIPReport{
		GeneratedAt: time.Now().UTC(),
		Period:      period,
		Rows:        rows,
		Summary:     summary,
	}, nil
}

func reportFileName(period *model.Period, ext string) string {
	if period != nil {
		return fmt.Sprintf("wip-report-%s.%s", period, ext)
	}
	return fmt.Sprintf("wip-report-latest-%s.%s", time.Now().UTC().Format("20060102"), ext)
}
