package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aydinsahin81/gts-attendance-go/internal/domain/attendance"
	"github.com/aydinsahin81/gts-attendance-go/internal/pkg/sse"
	"github.com/aydinsahin81/gts-attendance-go/internal/pkg/validator"
)

// SweepJobs scans for forgotten punches after each day closes. The sweep is
// read-only: records keep their missing punches until a manager corrects
// them, the job only surfaces the backlog.
type SweepJobs struct {
	recordRepo attendance.RecordRepository
	hub        *sse.Hub
	loc        *time.Location
	now        func() time.Time
}

func NewSweepJobs(recordRepo attendance.RecordRepository, hub *sse.Hub, loc *time.Location, now func() time.Time) *SweepJobs {
	if now == nil {
		now = time.Now
	}
	return &SweepJobs{
		recordRepo: recordRepo,
		hub:        hub,
		loc:        loc,
		now:        now,
	}
}

func (j *SweepJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("sweep_forgotten_punches", 1*time.Hour, j.SweepForgottenPunches)
}

// SweepForgottenPunches counts yesterday's records that are still missing an
// entry or exit and notifies each company's live listings once per night.
func (j *SweepJobs) SweepForgottenPunches(ctx context.Context) error {
	now := j.now().In(j.loc)

	// Only run in the first hour after midnight, company time
	if now.Hour() != 0 {
		return nil
	}

	yesterday := validator.FormatDayKey(now.AddDate(0, 0, -1))

	companyIDs, err := j.recordRepo.ListCompanyIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	for _, companyID := range companyIDs {
		records, err := j.recordRepo.ListByCompany(ctx, companyID)
		if err != nil {
			slog.Error("Cron: sweep skipped company, store read failed", "company_id", companyID, "error", err)
			continue
		}

		var missingEntry, missingExit int
		for _, rec := range records {
			if rec.DateKey != yesterday {
				continue
			}
			if rec.EntryAt == nil {
				missingEntry++
			}
			if rec.ExitAt == nil {
				missingExit++
			}
		}

		if missingEntry == 0 && missingExit == 0 {
			continue
		}

		slog.Info("Cron: forgotten punches found",
			"company_id", companyID,
			"date", yesterday,
			"missing_entry", missingEntry,
			"missing_exit", missingExit,
		)

		j.hub.Publish(companyID, sse.Event{
			Event: "attendance.forgotten",
			Data: map[string]interface{}{
				"date":          yesterday,
				"missing_entry": missingEntry,
				"missing_exit":  missingExit,
			},
		})
	}

	return nil
}
