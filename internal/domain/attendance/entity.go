package attendance

import (
	"time"

	"github.com/aydinsahin81/gts-attendance-go/internal/pkg/validator"
)

// Record is one calendar day of punches for one personnel. Created when the
// entry punch arrives, mutated by the exit punch and by manual corrections,
// never deleted by this engine.
type Record struct {
	ID          string
	CompanyID   string
	DateKey     string // day-month-year text key, see validator.DayKeyFormat
	PersonnelID string
	ShiftName   string // snapshot taken at punch time, not a live reference

	EntryAt      *int64 // epoch milliseconds, UTC instant
	ExitAt       *int64
	EntryRawCode *string // opaque status hint from the punch source
	ExitRawCode  *string
	EntryEdited  bool
	ExitEdited   bool

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	PersonnelName *string
}

// Day parses the record's calendar-day key. ok is false for malformed legacy
// keys; callers skip such records with a warning rather than failing.
func (r Record) Day() (time.Time, bool) {
	return validator.ParseDayKey(r.DateKey)
}

// EntryTime returns the entry instant localized to loc, or nil.
func (r Record) EntryTime(loc *time.Location) *time.Time {
	return msToTime(r.EntryAt, loc)
}

// ExitTime returns the exit instant localized to loc, or nil.
func (r Record) ExitTime(loc *time.Location) *time.Time {
	return msToTime(r.ExitAt, loc)
}

// WorkedMinutes is the span between entry and exit in whole minutes, zero
// when either punch is missing. Exit-before-entry data exists in the wild
// and clamps to zero rather than going negative.
func (r Record) WorkedMinutes() int64 {
	if r.EntryAt == nil || r.ExitAt == nil {
		return 0
	}
	d := *r.ExitAt - *r.EntryAt
	if d < 0 {
		return 0
	}
	return d / 60000
}

func msToTime(ms *int64, loc *time.Location) *time.Time {
	if ms == nil {
		return nil
	}
	t := time.UnixMilli(*ms).In(loc)
	return &t
}
