package validator

import (
	"regexp"
	"strings"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	var msgs []string
	for _, err := range v {
		msgs = append(msgs, err.Field+": "+err.Message)
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) ToMap() map[string]string {
	result := make(map[string]string)
	for _, err := range v {
		result[err.Field] = err.Message
	}
	return result
}

// IsEmpty checks if a string is empty after trimming whitespace.
func IsEmpty(s string) bool {
	return strings.TrimSpace(s) == ""
}

// DayKeyFormat is the textual calendar-day key agreed with the punch source:
// day-month-year, zero padded.
const DayKeyFormat = "02-01-2006"

// ParseDayKey parses a calendar-day key such as "29-08-2026".
// The returned time carries no clock component.
func ParseDayKey(key string) (time.Time, bool) {
	if strings.Count(key, "-") != 2 {
		return time.Time{}, false
	}
	day, err := time.Parse(DayKeyFormat, key)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// FormatDayKey renders t as a calendar-day key in t's location.
func FormatDayKey(t time.Time) string {
	return t.Format(DayKeyFormat)
}

var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// IsValidClock checks a minute-precision time of day in "HH:MM" form.
func IsValidClock(s string) bool {
	return clockRegex.MatchString(s)
}

// Slice contains check
func IsInSlice(value string, slice []string) bool {
	for _, item := range slice {
		if item == value {
			return true
		}
	}
	return false
}
