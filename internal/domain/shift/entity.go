package shift

import (
	"encoding/json"
	"fmt"
	"time"
)

// Shift is owned by the shift registry collaborator and read-only here. The
// assignment collaborator guarantees a personnel id belongs to at most one
// shift; that is not re-verified by this engine.
type Shift struct {
	ID                        string
	CompanyID                 string
	Name                      string
	StartTime                 ClockTime
	EndTime                   ClockTime
	LateToleranceMinutes      int
	EarlyExitToleranceMinutes int
	BranchRef                 json.RawMessage
	PersonnelIDs              []string
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// BranchRefValue decodes the optional branch reference for the membership
// resolver. Nil when absent or undecodable.
func (s Shift) BranchRefValue() any {
	if len(s.BranchRef) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(s.BranchRef, &v); err != nil {
		return nil
	}
	return v
}

// ClockTime is a minute-precision time of day.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM".
func ParseClock(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// Minutes returns the offset from midnight in minutes.
func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}
