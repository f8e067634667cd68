package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/aydinsahin81/gts-attendance-go/internal/domain/attendance"
	"github.com/aydinsahin81/gts-attendance-go/internal/domain/branch"
	"github.com/aydinsahin81/gts-attendance-go/internal/domain/personnel"
	"github.com/aydinsahin81/gts-attendance-go/internal/domain/shift"
	"github.com/aydinsahin81/gts-attendance-go/internal/pkg/database"
	"github.com/aydinsahin81/gts-attendance-go/internal/pkg/jwt"
	"github.com/aydinsahin81/gts-attendance-go/internal/pkg/sse"
	"github.com/aydinsahin81/gts-attendance-go/internal/pkg/validator"
	"github.com/aydinsahin81/gts-attendance-go/internal/repository/postgresql"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const EventRecordUpdated = "attendance.updated"

type AttendanceServiceImpl struct {
	db *database.DB
	attendance.RecordRepository
	personnel.PersonnelRepository
	shift.ShiftRepository
	hub *sse.Hub
	loc *time.Location
	now func() time.Time
}

func NewAttendanceService(
	db *database.DB,
	recordRepo attendance.RecordRepository,
	personnelRepo personnel.PersonnelRepository,
	shiftRepo shift.ShiftRepository,
	hub *sse.Hub,
	loc *time.Location,
	now func() time.Time,
) attendance.Service {
	if now == nil {
		now = time.Now
	}
	return &AttendanceServiceImpl{
		db:                  db,
		RecordRepository:    recordRepo,
		PersonnelRepository: personnelRepo,
		ShiftRepository:     shiftRepo,
		hub:                 hub,
		loc:                 loc,
		now:                 now,
	}
}

// inTx runs fn with the repositories bound to one transaction. Unit tests
// wire in-memory repositories and no pool, so a nil db degrades to a plain
// call.
func (s *AttendanceServiceImpl) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.db == nil {
		return fn(ctx)
	}
	return postgresql.WithTransaction(ctx, s.db, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, "tx", tx))
	})
}

// viewScope is the caller's visibility, extracted from the access token.
// Admins see the whole company; managers see one branch through the
// membership resolver.
type viewScope struct {
	companyID string
	role      string
	branchID  string
}

func (v viewScope) branchScoped() bool {
	return v.role == jwt.RoleManager
}

func scopeFromContext(ctx context.Context) (viewScope, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return viewScope{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return viewScope{}, fmt.Errorf("company_id claim is missing or invalid")
	}

	role, ok := claims["role"].(string)
	if !ok || role == "" {
		return viewScope{}, fmt.Errorf("role claim is missing or invalid")
	}

	sc := viewScope{companyID: companyID, role: role}
	if sc.branchScoped() {
		branchID, ok := claims["branch_id"].(string)
		if !ok || branchID == "" {
			return viewScope{}, fmt.Errorf("branch_id claim is missing for branch manager")
		}
		sc.branchID = branchID
	}
	return sc, nil
}

// classifiedRow pairs a record with its derived categories for filtering.
type classifiedRow struct {
	rec  attendance.Record
	day  time.Time
	name string
	ec   attendance.EntryCategory
	xc   attendance.ExitCategory
}

// List implements attendance.Service.
func (s *AttendanceServiceImpl) List(ctx context.Context, filter attendance.ListFilter) (attendance.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListResponse{}, err
	}

	sc, err := scopeFromContext(ctx)
	if err != nil {
		return attendance.ListResponse{}, err
	}

	rows, err := s.collectRows(ctx, sc, filter)
	if err != nil {
		// A store failure must not masquerade as "no data": surface an
		// empty page carrying the load_failed flag so the UI offers a retry.
		slog.Error("attendance listing degraded, store read failed", "company_id", sc.companyID, "error", err)
		return attendance.ListResponse{
			Page:       filter.Page,
			Limit:      filter.Limit,
			Showing:    "0 of 0",
			LoadFailed: true,
			Rows:       []attendance.RecordResponse{},
		}, nil
	}

	total := int64(len(rows))
	start := (filter.Page - 1) * filter.Limit
	if start > len(rows) {
		start = len(rows)
	}
	end := start + filter.Limit
	if end > len(rows) {
		end = len(rows)
	}

	responses := make([]attendance.RecordResponse, 0, end-start)
	for _, row := range rows[start:end] {
		responses = append(responses, s.mapRowToResponse(row))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", start+1, end, total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.ListResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Rows:       responses,
	}, nil
}

// ForEachRow implements attendance.Service. The export collaborator pulls
// the filtered set through this hook; unlike List, a store failure here is a
// hard error because a partial export is worse than a failed one.
func (s *AttendanceServiceImpl) ForEachRow(ctx context.Context, filter attendance.ListFilter, fn func(attendance.RecordResponse) error) error {
	if err := filter.Validate(); err != nil {
		return err
	}

	sc, err := scopeFromContext(ctx)
	if err != nil {
		return err
	}

	rows, err := s.collectRows(ctx, sc, filter)
	if err != nil {
		return fmt.Errorf("failed to collect rows for export: %w", err)
	}

	for _, row := range rows {
		if err := fn(s.mapRowToResponse(row)); err != nil {
			return err
		}
	}
	return nil
}

// collectRows loads, scopes, classifies, filters and sorts the company's
// records. Malformed day keys are skipped with a warning, never fatal.
func (s *AttendanceServiceImpl) collectRows(ctx context.Context, sc viewScope, filter attendance.ListFilter) ([]classifiedRow, error) {
	records, err := s.RecordRepository.ListByCompany(ctx, sc.companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance records: %w", err)
	}

	people, err := s.personnelByID(ctx, sc.companyID)
	if err != nil {
		return nil, err
	}

	shifts, err := s.shiftsByName(ctx, sc.companyID)
	if err != nil {
		return nil, err
	}

	now := s.now().In(s.loc)

	var startDay, endDay *time.Time
	if filter.StartDate != nil {
		if d, ok := dayOf(*filter.StartDate); ok {
			startDay = &d
		}
	}
	if filter.EndDate != nil {
		if d, ok := dayOf(*filter.EndDate); ok {
			endDay = &d
		}
	}

	rows := make([]classifiedRow, 0, len(records))
	for _, rec := range records {
		day, ok := rec.Day()
		if !ok {
			slog.Warn("skipping attendance record with malformed date key",
				"company_id", rec.CompanyID, "date_key", rec.DateKey, "personnel_id", rec.PersonnelID)
			continue
		}

		if startDay != nil && day.Before(*startDay) {
			continue
		}
		if endDay != nil && day.After(*endDay) {
			continue
		}

		p, known := people[rec.PersonnelID]
		if sc.branchScoped() && (!known || !branch.IsMember(p.BranchRefValue(), sc.branchID)) {
			continue
		}

		// Missing directory entries degrade to showing the raw id
		name := rec.PersonnelID
		if known {
			name = p.DisplayName
		} else if rec.PersonnelName != nil && *rec.PersonnelName != "" {
			name = *rec.PersonnelName
		}

		var window *shift.Shift
		if sh, found := shifts[rec.ShiftName]; found {
			window = &sh
		}
		ec, xc := s.classify(rec, window, day, now)

		row := classifiedRow{rec: rec, day: day, name: name, ec: ec, xc: xc}

		if filter.Search != nil && !matchesSearch(row, *filter.Search) {
			continue
		}
		if filter.Status != nil && !matchesStatus(row, *filter.Status, now) {
			continue
		}

		rows = append(rows, row)
	}

	// Newest day first; stable tie-break so pagination never shuffles
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].day.Equal(rows[j].day) {
			return rows[i].day.After(rows[j].day)
		}
		return rows[i].rec.PersonnelID < rows[j].rec.PersonnelID
	})

	return rows, nil
}

// classify derives both categories for a record. The shift window wins
// whenever one resolves; the punch source's raw status codes are only a
// fallback for legacy records whose shift snapshot no longer matches the
// registry.
func (s *AttendanceServiceImpl) classify(rec attendance.Record, window *shift.Shift, day, now time.Time) (attendance.EntryCategory, attendance.ExitCategory) {
	entry := rec.EntryTime(s.loc)
	exit := rec.ExitTime(s.loc)

	if window != nil {
		ec := attendance.ClassifyEntry(entry, window.StartTime, window.LateToleranceMinutes)
		xc := attendance.ClassifyExit(exit, window.EndTime, window.EarlyExitToleranceMinutes, day, now)
		return ec, xc
	}

	var ec attendance.EntryCategory
	switch {
	case entry == nil:
		ec = attendance.EntryMissing
	default:
		if c, ok := attendance.EntryFromRawCode(rec.EntryRawCode); ok {
			ec = c
		} else {
			ec = attendance.EntryOnTime
		}
	}

	var xc attendance.ExitCategory
	switch {
	case exit == nil:
		// Presence/absence of the exit does not need a window
		xc = attendance.ClassifyExit(nil, shift.ClockTime{}, 0, day, now)
	default:
		if c, ok := attendance.ExitFromRawCode(rec.ExitRawCode); ok {
			xc = c
		} else {
			xc = attendance.ExitShiftComplete
		}
	}
	return ec, xc
}

func matchesSearch(row classifiedRow, search string) bool {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(row.name), needle) ||
		strings.Contains(strings.ToLower(row.rec.ShiftName), needle)
}

var canonicalStatuses = []string{
	string(attendance.EntryEarlyArrival),
	string(attendance.EntryOnTime),
	string(attendance.EntryLate),
	string(attendance.EntryMissing),
	string(attendance.ExitEarly),
	string(attendance.ExitShiftComplete),
	string(attendance.ExitMissing),
	string(attendance.ExitInProgress),
}

func matchesStatus(row classifiedRow, status string, now time.Time) bool {
	switch status {
	case "", attendance.FilterAll:
		return true
	case attendance.CompositeOngoing:
		return attendance.IsOngoing(row.rec, now)
	case attendance.CompositeForgotten:
		return attendance.IsForgotten(row.rec, now)
	case attendance.CompositeManuallyEdited:
		return attendance.IsManuallyEdited(row.rec)
	}
	for _, known := range canonicalStatuses {
		if status == known {
			return string(row.ec) == status || string(row.xc) == status
		}
	}
	// Unknown filter values degrade to no filter on this axis
	return true
}

func (s *AttendanceServiceImpl) mapRowToResponse(row classifiedRow) attendance.RecordResponse {
	rec := row.rec

	var tags []string
	now := s.now().In(s.loc)
	if attendance.IsOngoing(rec, now) {
		tags = append(tags, attendance.CompositeOngoing)
	}
	if attendance.IsForgotten(rec, now) {
		tags = append(tags, attendance.CompositeForgotten)
	}
	if attendance.IsManuallyEdited(rec) {
		tags = append(tags, attendance.CompositeManuallyEdited)
	}

	return attendance.RecordResponse{
		ID:            rec.ID,
		Date:          rec.DateKey,
		PersonnelID:   rec.PersonnelID,
		PersonnelName: row.name,
		ShiftName:     rec.ShiftName,
		EntryTime:     clockString(rec.EntryTime(s.loc)),
		ExitTime:      clockString(rec.ExitTime(s.loc)),
		EntryCategory: row.ec,
		ExitCategory:  row.xc,
		WorkedMinutes: rec.WorkedMinutes(),
		EntryEdited:   rec.EntryEdited,
		ExitEdited:    rec.ExitEdited,
		Tags:          tags,
	}
}

// Get implements attendance.Service.
func (s *AttendanceServiceImpl) Get(ctx context.Context, dateKey string, personnelID string) (attendance.RecordResponse, error) {
	sc, err := scopeFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	rec, err := s.RecordRepository.GetByKey(ctx, sc.companyID, dateKey, personnelID)
	if err != nil {
		if errors.Is(err, attendance.ErrRecordNotFound) {
			return attendance.RecordResponse{}, attendance.ErrRecordNotFound
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	row, err := s.classifyOne(ctx, sc, rec)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	return s.mapRowToResponse(row), nil
}

// classifyOne resolves directory and registry context for a single record,
// enforcing branch scope for managers.
func (s *AttendanceServiceImpl) classifyOne(ctx context.Context, sc viewScope, rec attendance.Record) (classifiedRow, error) {
	name := rec.PersonnelID
	p, err := s.PersonnelRepository.GetByID(ctx, rec.PersonnelID, sc.companyID)
	switch {
	case err == nil:
		name = p.DisplayName
		if sc.branchScoped() && !branch.IsMember(p.BranchRefValue(), sc.branchID) {
			return classifiedRow{}, attendance.ErrAccessDenied
		}
	case errors.Is(err, personnel.ErrPersonnelNotFound):
		if sc.branchScoped() {
			// A record whose personnel left the directory cannot be proven
			// inside the manager's branch
			return classifiedRow{}, attendance.ErrAccessDenied
		}
	default:
		return classifiedRow{}, fmt.Errorf("failed to get personnel: %w", err)
	}

	var window *shift.Shift
	if rec.ShiftName != "" {
		sh, err := s.ShiftRepository.GetByName(ctx, rec.ShiftName, sc.companyID)
		switch {
		case err == nil:
			window = &sh
		case errors.Is(err, shift.ErrShiftNotFound):
			// raw-code fallback applies
		default:
			return classifiedRow{}, fmt.Errorf("failed to get shift: %w", err)
		}
	}

	now := s.now().In(s.loc)
	day, ok := rec.Day()
	if !ok {
		day = now
	}
	ec, xc := s.classify(rec, window, day, now)
	return classifiedRow{rec: rec, day: day, name: name, ec: ec, xc: xc}, nil
}

// RecordPunch implements attendance.Service. Entry punches create the
// record with a shift-name snapshot; exit punches complete it. A repeated
// entry punch keeps the first entry (clock clients retry on flaky links), a
// repeated exit punch takes the latest.
func (s *AttendanceServiceImpl) RecordPunch(ctx context.Context, req attendance.PunchRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	sc, err := scopeFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	instant := time.UnixMilli(req.Timestamp).In(s.loc)
	dateKey := validator.FormatDayKey(instant)
	ts := req.Timestamp

	var rec attendance.Record
	err = s.inTx(ctx, func(ctx context.Context) error {
		var err error
		rec, err = s.RecordRepository.GetByKey(ctx, sc.companyID, dateKey, req.PersonnelID)
		if errors.Is(err, attendance.ErrRecordNotFound) {
			rec = attendance.Record{
				ID:          uuid.NewString(),
				CompanyID:   sc.companyID,
				DateKey:     dateKey,
				PersonnelID: req.PersonnelID,
				ShiftName:   s.shiftSnapshot(ctx, sc.companyID, req.PersonnelID),
			}
			s.applyPunch(&rec, req, ts)

			created, err := s.RecordRepository.Create(ctx, rec)
			if err != nil {
				return fmt.Errorf("failed to create attendance record: %w", err)
			}
			rec = created
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get attendance record: %w", err)
		}

		s.applyPunch(&rec, req, ts)
		if err := s.RecordRepository.Update(ctx, rec); err != nil {
			return fmt.Errorf("failed to update attendance record: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	s.hub.Publish(sc.companyID, sse.Event{
		Event: EventRecordUpdated,
		Data:  map[string]string{"date": rec.DateKey, "personnel_id": rec.PersonnelID},
	})

	row, err := s.classifyOne(ctx, sc, rec)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	return s.mapRowToResponse(row), nil
}

func (s *AttendanceServiceImpl) applyPunch(rec *attendance.Record, req attendance.PunchRequest, ts int64) {
	switch req.Kind {
	case attendance.PunchEntry:
		if rec.EntryAt == nil {
			rec.EntryAt = &ts
			rec.EntryRawCode = req.RawCode
		}
	case attendance.PunchExit:
		rec.ExitAt = &ts
		rec.ExitRawCode = req.RawCode
	}
}

// shiftSnapshot captures the personnel's current shift name. Empty when
// unassigned; the resulting record classifies through raw codes only.
func (s *AttendanceServiceImpl) shiftSnapshot(ctx context.Context, companyID, personnelID string) string {
	sh, err := s.ShiftRepository.GetByPersonnel(ctx, personnelID, companyID)
	if err != nil {
		if !errors.Is(err, shift.ErrShiftNotFound) {
			slog.Warn("failed to resolve shift for punch", "personnel_id", personnelID, "error", err)
		}
		return ""
	}
	return sh.Name
}

// ApplyCorrection implements attendance.Service.
//
// The corrected timestamp runs through the same classifier as a fresh
// punch; the category is never force-set. Concurrent corrections to the
// same record are last-write-wins at the field level (no optimistic
// locking), which operators accept as a known limitation.
func (s *AttendanceServiceImpl) ApplyCorrection(ctx context.Context, req attendance.CorrectionRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	sc, err := scopeFromContext(ctx)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	var rec attendance.Record
	err = s.inTx(ctx, func(ctx context.Context) error {
		var err error
		rec, err = s.RecordRepository.GetByKey(ctx, sc.companyID, req.Date, req.PersonnelID)
		if err != nil {
			if errors.Is(err, attendance.ErrRecordNotFound) {
				return attendance.ErrRecordNotFound
			}
			return fmt.Errorf("failed to get attendance record: %w", err)
		}

		if sc.branchScoped() {
			p, err := s.PersonnelRepository.GetByID(ctx, rec.PersonnelID, sc.companyID)
			if err != nil {
				if errors.Is(err, personnel.ErrPersonnelNotFound) {
					return attendance.ErrAccessDenied
				}
				return fmt.Errorf("failed to get personnel: %w", err)
			}
			if !branch.IsMember(p.BranchRefValue(), sc.branchID) {
				return attendance.ErrAccessDenied
			}
		}

		// Corrections land on the override date when given, else the record's
		// own calendar day; the record stays keyed under its original day.
		baseKey := rec.DateKey
		if req.OverrideDate != nil {
			baseKey = *req.OverrideDate
		}
		baseDay, ok := dayOf(baseKey)
		if !ok {
			// The record itself carries a malformed key; corrections need an
			// explicit override date to anchor the new timestamp.
			return validator.ValidationErrors{{
				Field:   "override_date",
				Message: "record has a malformed date, override_date is required",
			}}
		}

		if req.NewEntryTime != nil {
			ts, changed := s.correctedTimestamp(rec.EntryTime(s.loc), *req.NewEntryTime, baseDay)
			rec.EntryAt = &ts
			if changed {
				rec.EntryEdited = true
			}
		}
		if req.NewExitTime != nil {
			ts, changed := s.correctedTimestamp(rec.ExitTime(s.loc), *req.NewExitTime, baseDay)
			rec.ExitAt = &ts
			if changed {
				rec.ExitEdited = true
			}
		}

		if err := s.RecordRepository.Update(ctx, rec); err != nil {
			return fmt.Errorf("failed to update attendance record: %w", err)
		}
		return nil
	})
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	s.hub.Publish(sc.companyID, sse.Event{
		Event: EventRecordUpdated,
		Data:  map[string]string{"date": rec.DateKey, "personnel_id": rec.PersonnelID},
	})

	row, err := s.classifyOne(ctx, sc, rec)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	return s.mapRowToResponse(row), nil
}

// correctedTimestamp combines day and a HH:MM clock into an epoch
// millisecond instant, reporting whether the time of day actually moved.
// Audit flags only flip on a real change so re-applying the same correction
// cannot disturb prior history.
func (s *AttendanceServiceImpl) correctedTimestamp(old *time.Time, clock string, day time.Time) (int64, bool) {
	c, _ := shift.ParseClock(clock) // validated upstream
	t := time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, s.loc)
	changed := old == nil || old.Hour() != c.Hour || old.Minute() != c.Minute
	return t.UnixMilli(), changed
}

func (s *AttendanceServiceImpl) personnelByID(ctx context.Context, companyID string) (map[string]personnel.Personnel, error) {
	people, err := s.PersonnelRepository.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list personnel: %w", err)
	}
	m := make(map[string]personnel.Personnel, len(people))
	for _, p := range people {
		m[p.ID] = p
	}
	return m, nil
}

func (s *AttendanceServiceImpl) shiftsByName(ctx context.Context, companyID string) (map[string]shift.Shift, error) {
	shifts, err := s.ShiftRepository.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	m := make(map[string]shift.Shift, len(shifts))
	for _, sh := range shifts {
		m[sh.Name] = sh
	}
	return m, nil
}

func dayOf(key string) (time.Time, bool) {
	return validator.ParseDayKey(key)
}

func clockString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("15:04")
	return &s
}
