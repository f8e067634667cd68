package attendance

import (
	"testing"
	"time"

	"github.com/aydinsahin81/gts-attendance-go/internal/domain/shift"
)

func at(hour, minute int) *time.Time {
	t := time.Date(2026, 8, 20, hour, minute, 0, 0, time.UTC)
	return &t
}

func TestClassifyEntry(t *testing.T) {
	start := shift.ClockTime{Hour: 9, Minute: 0}

	cases := []struct {
		name  string
		entry *time.Time
		want  EntryCategory
	}{
		{"before start", at(8, 55), EntryEarlyArrival},
		{"exactly at start", at(9, 0), EntryOnTime},
		{"inside tolerance", at(9, 5), EntryOnTime},
		{"at tolerance boundary", at(9, 10), EntryOnTime},
		{"past tolerance", at(9, 12), EntryLate},
		{"absent", nil, EntryMissing},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ClassifyEntry(c.entry, start, 10); got != c.want {
				t.Errorf("ClassifyEntry = %v, want %v", got, c.want)
			}
		})
	}
}

func TestClassifyExit(t *testing.T) {
	end := shift.ClockTime{Hour: 17, Minute: 0}
	day := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	sameDayClock := time.Date(2026, 8, 20, 18, 30, 0, 0, time.UTC)
	nextDayClock := time.Date(2026, 8, 21, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name  string
		exit  *time.Time
		today time.Time
		want  ExitCategory
	}{
		{"left early", at(16, 40), sameDayClock, ExitEarly},
		{"inside tolerance", at(16, 50), sameDayClock, ExitShiftComplete},
		{"at tolerance boundary", at(16, 45), sameDayClock, ExitShiftComplete},
		{"after end", at(17, 10), sameDayClock, ExitShiftComplete},
		{"absent on the same day", nil, sameDayClock, ExitInProgress},
		{"absent on a past day", nil, nextDayClock, ExitMissing},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ClassifyExit(c.exit, end, 15, day, c.today); got != c.want {
				t.Errorf("ClassifyExit = %v, want %v", got, c.want)
			}
		})
	}
}

func TestRawCodeFallback(t *testing.T) {
	late := "Gec"
	if got, ok := EntryFromRawCode(&late); !ok || got != EntryLate {
		t.Errorf("EntryFromRawCode(Gec) = %v %v, want late", got, ok)
	}
	done := "tamam"
	if got, ok := ExitFromRawCode(&done); !ok || got != ExitShiftComplete {
		t.Errorf("ExitFromRawCode(tamam) = %v %v, want shift_complete", got, ok)
	}
	junk := "??"
	if _, ok := EntryFromRawCode(&junk); ok {
		t.Error("unknown raw code should not map")
	}
	if _, ok := EntryFromRawCode(nil); ok {
		t.Error("nil raw code should not map")
	}
}

func TestCompositeTags(t *testing.T) {
	todayKey := "20-08-2026"
	yesterdayKey := "19-08-2026"
	today := time.Date(2026, 8, 20, 14, 0, 0, 0, time.UTC)
	entry := time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC).UnixMilli()

	open := Record{DateKey: todayKey, EntryAt: &entry}
	if !IsOngoing(open, today) {
		t.Error("open record dated today should be ongoing")
	}
	if IsForgotten(open, today) {
		t.Error("a record dated today is never forgotten")
	}

	stale := Record{DateKey: yesterdayKey, EntryAt: &entry}
	if IsOngoing(stale, today) {
		t.Error("a past-day record is not ongoing")
	}
	if !IsForgotten(stale, today) {
		t.Error("past-day record missing its exit should be forgotten")
	}

	noEntry := Record{DateKey: yesterdayKey}
	if !IsForgotten(noEntry, today) {
		t.Error("past-day record missing its entry should be forgotten")
	}

	malformed := Record{DateKey: "19-08", EntryAt: &entry}
	if IsOngoing(malformed, today) || IsForgotten(malformed, today) {
		t.Error("malformed day keys must not match composite tags")
	}

	edited := Record{DateKey: todayKey, ExitEdited: true}
	if !IsManuallyEdited(edited) {
		t.Error("exit audit flag should mark the record manually edited")
	}
	if IsManuallyEdited(Record{DateKey: todayKey}) {
		t.Error("untouched record should not be manually edited")
	}
}

func TestWorkedMinutes(t *testing.T) {
	entry := time.Date(2026, 8, 20, 9, 5, 0, 0, time.UTC).UnixMilli()
	exit := time.Date(2026, 8, 20, 17, 10, 0, 0, time.UTC).UnixMilli()
	rec := Record{EntryAt: &entry, ExitAt: &exit}
	if got := rec.WorkedMinutes(); got != 485 {
		t.Errorf("WorkedMinutes = %d, want 485", got)
	}

	swapped := Record{EntryAt: &exit, ExitAt: &entry}
	if got := swapped.WorkedMinutes(); got != 0 {
		t.Errorf("exit before entry must clamp to 0, got %d", got)
	}

	if got := (Record{EntryAt: &entry}).WorkedMinutes(); got != 0 {
		t.Errorf("missing exit must yield 0, got %d", got)
	}
}
