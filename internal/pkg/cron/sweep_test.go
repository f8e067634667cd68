package cron

import (
	"context"
	"testing"
	"time"

	"github.com/aydinsahin81/gts-attendance-go/internal/domain/attendance"
	"github.com/aydinsahin81/gts-attendance-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sweepRecordRepo struct {
	records []attendance.Record
}

func (r *sweepRecordRepo) Create(_ context.Context, rec attendance.Record) (attendance.Record, error) {
	return rec, nil
}

func (r *sweepRecordRepo) GetByKey(_ context.Context, _, _, _ string) (attendance.Record, error) {
	return attendance.Record{}, attendance.ErrRecordNotFound
}

func (r *sweepRecordRepo) Update(_ context.Context, _ attendance.Record) error { return nil }

func (r *sweepRecordRepo) ListByCompany(_ context.Context, companyID string) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, rec := range r.records {
		if rec.CompanyID == companyID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *sweepRecordRepo) ListCompanyIDs(_ context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range r.records {
		if _, ok := seen[rec.CompanyID]; !ok {
			seen[rec.CompanyID] = struct{}{}
			out = append(out, rec.CompanyID)
		}
	}
	return out, nil
}

func ts(v int64) *int64 { return &v }

func TestSweepForgottenPunches(t *testing.T) {
	// just past midnight on the 29th; yesterday is 28-08-2026
	midnight := time.Date(2026, 8, 29, 0, 30, 0, 0, time.UTC)

	repo := &sweepRecordRepo{records: []attendance.Record{
		{CompanyID: "c1", DateKey: "28-08-2026", PersonnelID: "p1", EntryAt: ts(1)},                // missing exit
		{CompanyID: "c1", DateKey: "28-08-2026", PersonnelID: "p2", EntryAt: ts(1), ExitAt: ts(2)}, // complete
		{CompanyID: "c1", DateKey: "27-08-2026", PersonnelID: "p3"},                                // older day, ignored
		{CompanyID: "c2", DateKey: "28-08-2026", PersonnelID: "p4", ExitAt: ts(2)},                 // missing entry
	}}

	hub := sse.NewHub()
	subC1 := hub.Subscribe("c1")
	defer subC1.Release()
	subC2 := hub.Subscribe("c2")
	defer subC2.Release()

	jobs := NewSweepJobs(repo, hub, time.UTC, func() time.Time { return midnight })
	require.NoError(t, jobs.SweepForgottenPunches(context.Background()))

	select {
	case ev := <-subC1.C:
		assert.Equal(t, "attendance.forgotten", ev.Event)
		data := ev.Data.(map[string]interface{})
		assert.Equal(t, 1, data["missing_exit"])
		assert.Equal(t, 0, data["missing_entry"])
	default:
		t.Fatal("expected a forgotten-punch event for c1")
	}

	select {
	case ev := <-subC2.C:
		data := ev.Data.(map[string]interface{})
		assert.Equal(t, 1, data["missing_entry"])
	default:
		t.Fatal("expected a forgotten-punch event for c2")
	}
}

func TestSweepForgottenPunches_OnlyRunsAfterMidnight(t *testing.T) {
	repo := &sweepRecordRepo{records: []attendance.Record{
		{CompanyID: "c1", DateKey: "28-08-2026", PersonnelID: "p1"},
	}}
	hub := sse.NewHub()
	sub := hub.Subscribe("c1")
	defer sub.Release()

	noon := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	jobs := NewSweepJobs(repo, hub, time.UTC, func() time.Time { return noon })
	require.NoError(t, jobs.SweepForgottenPunches(context.Background()))

	select {
	case <-sub.C:
		t.Fatal("no event expected outside the midnight window")
	default:
	}
}
