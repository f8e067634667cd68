package report

import (
	"github.com/aydinsahin81/gts-attendance-go/internal/pkg/validator"
)

// ========================================
// WORKED TIME REPORT
// ========================================

type WorkedTimeReportRequest struct {
	PersonnelIDs []string `json:"personnel_ids,omitempty"` // empty means every visible personnel
	StartDate    string   `json:"start_date"`              // DD-MM-YYYY, inclusive
	EndDate      string   `json:"end_date"`                // DD-MM-YYYY, inclusive
}

func (r *WorkedTimeReportRequest) Validate() error {
	var errs validator.ValidationErrors

	start, startOK := validator.ParseDayKey(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in DD-MM-YYYY format",
		})
	}
	end, endOK := validator.ParseDayKey(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in DD-MM-YYYY format",
		})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type WorkedTimeReport struct {
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	GeneratedAt string `json:"generated_at"`

	Totals []PersonnelTotals `json:"totals"`
}

// PersonnelTotals folds one personnel's records over the requested range.
type PersonnelTotals struct {
	PersonnelID        string `json:"personnel_id"`
	DisplayName        string `json:"display_name"`
	EntriesCount       int    `json:"entries_count"`
	ExitsCount         int    `json:"exits_count"`
	TotalWorkedMinutes int64  `json:"total_worked_minutes"`

	// Breakdown rows sorted by calendar date ascending
	Records []WorkedTimeRow `json:"records"`
}

type WorkedTimeRow struct {
	Date          string  `json:"date"`
	ShiftName     string  `json:"shift_name,omitempty"`
	EntryTime     *string `json:"entry_time,omitempty"`
	ExitTime      *string `json:"exit_time,omitempty"`
	WorkedMinutes int64   `json:"worked_minutes"`
}
