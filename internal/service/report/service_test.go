package report

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/aydinsahin81/gts-attendance-go/internal/domain/attendance"
	"github.com/aydinsahin81/gts-attendance-go/internal/domain/personnel"
	"github.com/aydinsahin81/gts-attendance-go/internal/domain/report"
	"github.com/aydinsahin81/gts-attendance-go/internal/pkg/jwt"
	"github.com/aydinsahin81/gts-attendance-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCompanyID = "company-1"

var fixedNow = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

type fakeRecordRepo struct {
	records []attendance.Record
}

func (r *fakeRecordRepo) Create(_ context.Context, record attendance.Record) (attendance.Record, error) {
	r.records = append(r.records, record)
	return record, nil
}

func (r *fakeRecordRepo) GetByKey(_ context.Context, companyID, dateKey, personnelID string) (attendance.Record, error) {
	for _, rec := range r.records {
		if rec.CompanyID == companyID && rec.DateKey == dateKey && rec.PersonnelID == personnelID {
			return rec, nil
		}
	}
	return attendance.Record{}, attendance.ErrRecordNotFound
}

func (r *fakeRecordRepo) Update(_ context.Context, _ attendance.Record) error { return nil }

func (r *fakeRecordRepo) ListByCompany(_ context.Context, companyID string) ([]attendance.Record, error) {
	var out []attendance.Record
	for _, rec := range r.records {
		if rec.CompanyID == companyID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeRecordRepo) ListCompanyIDs(_ context.Context) ([]string, error) {
	return []string{testCompanyID}, nil
}

type fakePersonnelRepo struct {
	people map[string]personnel.Personnel
}

func (r *fakePersonnelRepo) GetByID(_ context.Context, id, companyID string) (personnel.Personnel, error) {
	p, ok := r.people[id]
	if !ok || p.CompanyID != companyID {
		return personnel.Personnel{}, personnel.ErrPersonnelNotFound
	}
	return p, nil
}

func (r *fakePersonnelRepo) ListByCompany(_ context.Context, companyID string) ([]personnel.Personnel, error) {
	var out []personnel.Personnel
	for _, p := range r.people {
		if p.CompanyID == companyID {
			out = append(out, p)
		}
	}
	return out, nil
}

func claimsContext(t *testing.T, role, branchID string) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	claims := map[string]interface{}{"company_id": testCompanyID, "role": role}
	if branchID != "" {
		claims["branch_id"] = branchID
	}
	tok, _, err := ja.Encode(claims)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), tok, nil)
}

func record(t *testing.T, dateKey, personnelID, entry, exit string) attendance.Record {
	t.Helper()
	rec := attendance.Record{
		ID:          dateKey + "-" + personnelID,
		CompanyID:   testCompanyID,
		DateKey:     dateKey,
		PersonnelID: personnelID,
		ShiftName:   "Morning",
	}
	day, ok := validator.ParseDayKey(dateKey)
	require.True(t, ok)
	at := func(clock string) *int64 {
		var h, m int
		_, err := fmt.Sscanf(clock, "%d:%d", &h, &m)
		require.NoError(t, err)
		ms := time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, time.UTC).UnixMilli()
		return &ms
	}
	if entry != "" {
		rec.EntryAt = at(entry)
	}
	if exit != "" {
		rec.ExitAt = at(exit)
	}
	return rec
}

func testService(records *fakeRecordRepo) report.ReportService {
	people := &fakePersonnelRepo{people: map[string]personnel.Personnel{
		"p1": {ID: "p1", CompanyID: testCompanyID, DisplayName: "Ayse Yilmaz", BranchRef: json.RawMessage(`"b1"`)},
		"p2": {ID: "p2", CompanyID: testCompanyID, DisplayName: "Mehmet Demir", BranchRef: json.RawMessage(`{"id":"b2"}`)},
	}}
	return NewReportService(records, people, time.UTC, func() time.Time { return fixedNow })
}

func TestGenerateWorkedTimeReport_Totals(t *testing.T) {
	records := &fakeRecordRepo{records: []attendance.Record{
		record(t, "24-08-2026", "p1", "09:05", "17:10"), // 485 minutes
		record(t, "25-08-2026", "p1", "09:00", "17:00"), // 480 minutes
		record(t, "26-08-2026", "p1", "09:00", ""),      // forgotten exit, 0 minutes
		record(t, "25-08-2026", "p2", "08:00", "16:00"), // 480 minutes
	}}
	svc := testService(records)

	out, err := svc.GenerateWorkedTimeReport(claimsContext(t, jwt.RoleAdmin, ""), report.WorkedTimeReportRequest{
		StartDate: "24-08-2026",
		EndDate:   "26-08-2026",
	})
	require.NoError(t, err)
	require.Len(t, out.Totals, 2)

	// sorted by display name
	p1 := out.Totals[0]
	assert.Equal(t, "p1", p1.PersonnelID)
	assert.Equal(t, 3, p1.EntriesCount)
	assert.Equal(t, 2, p1.ExitsCount)
	assert.Equal(t, int64(965), p1.TotalWorkedMinutes)
	require.Len(t, p1.Records, 3)
	assert.Equal(t, "24-08-2026", p1.Records[0].Date)
	assert.Equal(t, int64(485), p1.Records[0].WorkedMinutes)

	p2 := out.Totals[1]
	assert.Equal(t, int64(480), p2.TotalWorkedMinutes)
}

func TestGenerateWorkedTimeReport_RangeIsAdditive(t *testing.T) {
	records := &fakeRecordRepo{records: []attendance.Record{
		record(t, "24-08-2026", "p1", "09:00", "17:00"),
		record(t, "25-08-2026", "p1", "09:30", "17:00"),
		record(t, "26-08-2026", "p1", "09:00", "16:00"),
	}}
	svc := testService(records)
	ctx := claimsContext(t, jwt.RoleAdmin, "")

	full, err := svc.GenerateWorkedTimeReport(ctx, report.WorkedTimeReportRequest{
		StartDate: "24-08-2026", EndDate: "26-08-2026",
	})
	require.NoError(t, err)

	var sum int64
	for _, day := range []string{"24-08-2026", "25-08-2026", "26-08-2026"} {
		single, err := svc.GenerateWorkedTimeReport(ctx, report.WorkedTimeReportRequest{
			StartDate: day, EndDate: day,
		})
		require.NoError(t, err)
		require.Len(t, single.Totals, 1)
		sum += single.Totals[0].TotalWorkedMinutes
	}

	assert.Equal(t, full.Totals[0].TotalWorkedMinutes, sum)
}

func TestGenerateWorkedTimeReport_FiltersByPersonnelAndRange(t *testing.T) {
	records := &fakeRecordRepo{records: []attendance.Record{
		record(t, "24-08-2026", "p1", "09:00", "17:00"),
		record(t, "25-08-2026", "p2", "09:00", "17:00"),
		record(t, "30-09-2026", "p1", "09:00", "17:00"), // outside range
	}}
	svc := testService(records)

	out, err := svc.GenerateWorkedTimeReport(claimsContext(t, jwt.RoleAdmin, ""), report.WorkedTimeReportRequest{
		PersonnelIDs: []string{"p1"},
		StartDate:    "24-08-2026",
		EndDate:      "26-08-2026",
	})
	require.NoError(t, err)
	require.Len(t, out.Totals, 1)
	assert.Equal(t, "p1", out.Totals[0].PersonnelID)
	require.Len(t, out.Totals[0].Records, 1)
}

func TestGenerateWorkedTimeReport_BranchScope(t *testing.T) {
	records := &fakeRecordRepo{records: []attendance.Record{
		record(t, "24-08-2026", "p1", "09:00", "17:00"),
		record(t, "24-08-2026", "p2", "09:00", "17:00"),
	}}
	svc := testService(records)

	out, err := svc.GenerateWorkedTimeReport(claimsContext(t, jwt.RoleManager, "b2"), report.WorkedTimeReportRequest{
		StartDate: "24-08-2026",
		EndDate:   "24-08-2026",
	})
	require.NoError(t, err)
	require.Len(t, out.Totals, 1)
	assert.Equal(t, "p2", out.Totals[0].PersonnelID)
}

func TestGenerateWorkedTimeReport_SkipsMalformedDayKeys(t *testing.T) {
	records := &fakeRecordRepo{records: []attendance.Record{
		record(t, "24-08-2026", "p1", "09:00", "17:00"),
	}}
	records.records = append(records.records, attendance.Record{
		ID: "bad", CompanyID: testCompanyID, DateKey: "2026-08-24", PersonnelID: "p1",
	})
	svc := testService(records)

	out, err := svc.GenerateWorkedTimeReport(claimsContext(t, jwt.RoleAdmin, ""), report.WorkedTimeReportRequest{
		StartDate: "24-08-2026",
		EndDate:   "24-08-2026",
	})
	require.NoError(t, err)
	require.Len(t, out.Totals, 1)
	assert.Len(t, out.Totals[0].Records, 1)
}

func TestGenerateWorkedTimeReport_Validation(t *testing.T) {
	svc := testService(&fakeRecordRepo{})

	_, err := svc.GenerateWorkedTimeReport(claimsContext(t, jwt.RoleAdmin, ""), report.WorkedTimeReportRequest{
		StartDate: "26-08-2026",
		EndDate:   "24-08-2026",
	})
	require.Error(t, err)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "end_date")
}
