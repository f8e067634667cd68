package validator

import (
	"testing"
	"time"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestParseDayKey(t *testing.T) {
	valid := map[string]time.Time{
		"29-08-2026": time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
		"01-01-2020": time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	invalid := []string{
		"2026-08-29", // wrong segment order
		"29-08",      // wrong segment count
		"29/08/2026",
		"32-01-2026",
		"",
	}
	for key, want := range valid {
		got, ok := ParseDayKey(key)
		if !ok {
			t.Errorf("ParseDayKey(%q) not ok, want %v", key, want)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("ParseDayKey(%q) = %v, want %v", key, got, want)
		}
	}
	for _, key := range invalid {
		if _, ok := ParseDayKey(key); ok {
			t.Errorf("ParseDayKey(%q) ok, want invalid", key)
		}
	}
}

func TestFormatDayKeyRoundTrip(t *testing.T) {
	day := time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC)
	key := FormatDayKey(day)
	if key != "03-02-2026" {
		t.Errorf("FormatDayKey = %q, want 03-02-2026", key)
	}
	back, ok := ParseDayKey(key)
	if !ok || !back.Equal(day) {
		t.Errorf("round trip = %v (%v), want %v", back, ok, day)
	}
}

func TestIsValidClock(t *testing.T) {
	valid := []string{"00:00", "09:05", "17:10", "23:59"}
	invalid := []string{"24:00", "9:05", "09:60", "09:05:00", "0905", ""}
	for _, s := range valid {
		if !IsValidClock(s) {
			t.Errorf("IsValidClock(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsValidClock(s) {
			t.Errorf("IsValidClock(%q) = true, want false", s)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"late", "on_time"}
	if !IsInSlice("late", slice) {
		t.Error("expected late to be found")
	}
	if IsInSlice("early", slice) {
		t.Error("did not expect early to be found")
	}
}
