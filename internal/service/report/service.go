package report

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/aydinsahin81/gts-attendance-go/internal/domain/attendance"
	"github.com/aydinsahin81/gts-attendance-go/internal/domain/branch"
	"github.com/aydinsahin81/gts-attendance-go/internal/domain/personnel"
	"github.com/aydinsahin81/gts-attendance-go/internal/domain/report"
	"github.com/aydinsahin81/gts-attendance-go/internal/pkg/jwt"
	"github.com/aydinsahin81/gts-attendance-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
)

type ReportServiceImpl struct {
	attendance.RecordRepository
	personnel.PersonnelRepository
	loc *time.Location
	now func() time.Time
}

func NewReportService(
	recordRepo attendance.RecordRepository,
	personnelRepo personnel.PersonnelRepository,
	loc *time.Location,
	now func() time.Time,
) report.ReportService {
	if now == nil {
		now = time.Now
	}
	return &ReportServiceImpl{
		RecordRepository:    recordRepo,
		PersonnelRepository: personnelRepo,
		loc:                 loc,
		now:                 now,
	}
}

// GenerateWorkedTimeReport implements report.ReportService.
//
// Totals are a pure fold over the day-keyed records: a range report always
// equals the sum of its single-day parts, so partial late punches can only
// shift minutes between days, never create or destroy them.
func (s *ReportServiceImpl) GenerateWorkedTimeReport(ctx context.Context, req report.WorkedTimeReportRequest) (report.WorkedTimeReport, error) {
	if err := req.Validate(); err != nil {
		return report.WorkedTimeReport{}, err
	}

	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return report.WorkedTimeReport{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}
	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return report.WorkedTimeReport{}, fmt.Errorf("company_id claim is missing or invalid")
	}
	role, _ := claims["role"].(string)
	branchID, _ := claims["branch_id"].(string)
	branchScoped := role == jwt.RoleManager

	startDay, _ := validator.ParseDayKey(req.StartDate)
	endDay, _ := validator.ParseDayKey(req.EndDate)

	people, err := s.PersonnelRepository.ListByCompany(ctx, companyID)
	if err != nil {
		return report.WorkedTimeReport{}, fmt.Errorf("failed to list personnel: %w", err)
	}
	peopleByID := make(map[string]personnel.Personnel, len(people))
	for _, p := range people {
		peopleByID[p.ID] = p
	}

	requested := make(map[string]struct{}, len(req.PersonnelIDs))
	for _, id := range req.PersonnelIDs {
		requested[id] = struct{}{}
	}

	records, err := s.RecordRepository.ListByCompany(ctx, companyID)
	if err != nil {
		return report.WorkedTimeReport{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	totalsByID := make(map[string]*report.PersonnelTotals)
	for _, rec := range records {
		day, ok := rec.Day()
		if !ok {
			slog.Warn("skipping attendance record with malformed date key",
				"company_id", rec.CompanyID, "date_key", rec.DateKey, "personnel_id", rec.PersonnelID)
			continue
		}
		if day.Before(startDay) || day.After(endDay) {
			continue
		}
		if len(requested) > 0 {
			if _, ok := requested[rec.PersonnelID]; !ok {
				continue
			}
		}

		p, known := peopleByID[rec.PersonnelID]
		if branchScoped && (!known || !branch.IsMember(p.BranchRefValue(), branchID)) {
			continue
		}

		totals, ok := totalsByID[rec.PersonnelID]
		if !ok {
			name := rec.PersonnelID
			if known {
				name = p.DisplayName
			}
			totals = &report.PersonnelTotals{PersonnelID: rec.PersonnelID, DisplayName: name}
			totalsByID[rec.PersonnelID] = totals
		}

		if rec.EntryAt != nil {
			totals.EntriesCount++
		}
		if rec.ExitAt != nil {
			totals.ExitsCount++
		}
		totals.TotalWorkedMinutes += rec.WorkedMinutes()
		totals.Records = append(totals.Records, report.WorkedTimeRow{
			Date:          rec.DateKey,
			ShiftName:     rec.ShiftName,
			EntryTime:     clockString(rec.EntryTime(s.loc)),
			ExitTime:      clockString(rec.ExitTime(s.loc)),
			WorkedMinutes: rec.WorkedMinutes(),
		})
	}

	out := report.WorkedTimeReport{
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		GeneratedAt: s.now().In(s.loc).Format(time.RFC3339),
		Totals:      make([]report.PersonnelTotals, 0, len(totalsByID)),
	}
	for _, totals := range totalsByID {
		sort.Slice(totals.Records, func(i, j int) bool {
			di, _ := validator.ParseDayKey(totals.Records[i].Date)
			dj, _ := validator.ParseDayKey(totals.Records[j].Date)
			return di.Before(dj)
		})
		out.Totals = append(out.Totals, *totals)
	}
	sort.Slice(out.Totals, func(i, j int) bool {
		if !strings.EqualFold(out.Totals[i].DisplayName, out.Totals[j].DisplayName) {
			return strings.ToLower(out.Totals[i].DisplayName) < strings.ToLower(out.Totals[j].DisplayName)
		}
		return out.Totals[i].PersonnelID < out.Totals[j].PersonnelID
	})

	return out, nil
}

func clockString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("15:04")
	return &s
}
