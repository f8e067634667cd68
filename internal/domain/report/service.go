package report

import "context"

// ReportService defines worked-time aggregation for rendering and export
type ReportService interface {
	// GenerateWorkedTimeReport aggregates punch counts and worked minutes
	// per personnel over an inclusive calendar-day range
	GenerateWorkedTimeReport(ctx context.Context, req WorkedTimeReportRequest) (WorkedTimeReport, error)
}
