package attendance

import (
	"strings"
	"time"

	"github.com/aydinsahin81/gts-attendance-go/internal/domain/shift"
)

// EntryCategory classifies the morning side of a record.
type EntryCategory string

const (
	EntryEarlyArrival EntryCategory = "early_arrival"
	EntryOnTime       EntryCategory = "on_time"
	EntryLate         EntryCategory = "late"
	EntryMissing      EntryCategory = "entry_missing"
)

// ExitCategory classifies the evening side of a record.
type ExitCategory string

const (
	ExitEarly         ExitCategory = "exit_early"
	ExitShiftComplete ExitCategory = "shift_complete"
	ExitMissing       ExitCategory = "exit_missing"
	ExitInProgress    ExitCategory = "in_progress"
)

// Composite filter tags computed from several fields plus "today", and the
// sentinel accepted by the status filter.
const (
	FilterAll               = "all"
	CompositeOngoing        = "ongoing"
	CompositeForgotten      = "forgotten"
	CompositeManuallyEdited = "manually_edited"
)

// ClassifyEntry derives the entry category from the punch instant (already
// localized to the company zone) and the shift window. Deterministic, no
// clock access.
func ClassifyEntry(entryAt *time.Time, start shift.ClockTime, lateToleranceMinutes int) EntryCategory {
	if entryAt == nil {
		return EntryMissing
	}
	m := entryAt.Hour()*60 + entryAt.Minute()
	switch {
	case m < start.Minutes():
		return EntryEarlyArrival
	case m <= start.Minutes()+lateToleranceMinutes:
		return EntryOnTime
	default:
		return EntryLate
	}
}

// ClassifyExit derives the exit category. An absent exit is still in
// progress on the record's own day and a missed punch on any earlier day.
// today must be the caller's wall clock localized to the company zone.
func ClassifyExit(exitAt *time.Time, end shift.ClockTime, earlyExitToleranceMinutes int, recordDay time.Time, today time.Time) ExitCategory {
	if exitAt == nil {
		if sameDay(recordDay, today) {
			return ExitInProgress
		}
		if beforeDay(recordDay, today) {
			return ExitMissing
		}
		return ExitInProgress
	}
	m := exitAt.Hour()*60 + exitAt.Minute()
	if m < end.Minutes()-earlyExitToleranceMinutes {
		return ExitEarly
	}
	return ExitShiftComplete
}

// Raw punch-source codes predate shift windows in this data set; older
// time-clock clients labeled punches themselves. The mapping below is used
// only when no shift window resolves for a record, the window classification
// always wins otherwise.
var rawEntryCodes = map[string]EntryCategory{
	"early":   EntryEarlyArrival,
	"erken":   EntryEarlyArrival,
	"ontime":  EntryOnTime,
	"on_time": EntryOnTime,
	"normal":  EntryOnTime,
	"late":    EntryLate,
	"gec":     EntryLate,
}

var rawExitCodes = map[string]ExitCategory{
	"early_exit":  ExitEarly,
	"erken_cikis": ExitEarly,
	"complete":    ExitShiftComplete,
	"tamam":       ExitShiftComplete,
	"normal":      ExitShiftComplete,
}

// EntryFromRawCode maps a punch-source status hint to an entry category.
func EntryFromRawCode(code *string) (EntryCategory, bool) {
	if code == nil {
		return "", false
	}
	c, ok := rawEntryCodes[strings.ToLower(strings.TrimSpace(*code))]
	return c, ok
}

// ExitFromRawCode maps a punch-source status hint to an exit category.
func ExitFromRawCode(code *string) (ExitCategory, bool) {
	if code == nil {
		return "", false
	}
	c, ok := rawExitCodes[strings.ToLower(strings.TrimSpace(*code))]
	return c, ok
}

// IsOngoing reports an open record on today's date.
func IsOngoing(r Record, today time.Time) bool {
	day, ok := r.Day()
	if !ok {
		return false
	}
	return r.EntryAt != nil && r.ExitAt == nil && sameDay(day, today)
}

// IsForgotten reports a past-day record with a missing punch. Records dated
// today never count, whatever is missing.
func IsForgotten(r Record, today time.Time) bool {
	day, ok := r.Day()
	if !ok {
		return false
	}
	return beforeDay(day, today) && (r.EntryAt == nil || r.ExitAt == nil)
}

// IsManuallyEdited reports whether either side carries the audit flag.
func IsManuallyEdited(r Record) bool {
	return r.EntryEdited || r.ExitEdited
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func beforeDay(a, b time.Time) bool {
	if a.Year() != b.Year() {
		return a.Year() < b.Year()
	}
	if a.Month() != b.Month() {
		return a.Month() < b.Month()
	}
	return a.Day() < b.Day()
}
