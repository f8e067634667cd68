package attendance

import (
	"github.com/aydinsahin81/gts-attendance-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// RecordResponse is one classified listing row.
type RecordResponse struct {
	ID            string        `json:"id"`
	Date          string        `json:"date"`
	PersonnelID   string        `json:"personnel_id"`
	PersonnelName string        `json:"personnel_name"`
	ShiftName     string        `json:"shift_name,omitempty"`
	EntryTime     *string       `json:"entry_time,omitempty"` // HH:MM in the company zone
	ExitTime      *string       `json:"exit_time,omitempty"`
	EntryCategory EntryCategory `json:"entry_category"`
	ExitCategory  ExitCategory  `json:"exit_category"`
	WorkedMinutes int64         `json:"worked_minutes"`
	EntryEdited   bool          `json:"entry_edited"`
	ExitEdited    bool          `json:"exit_edited"`
	Tags          []string      `json:"tags,omitempty"` // composite categories matching this row
}

// ListFilter carries the query axes of the listing endpoint. Filter values
// the engine does not recognize degrade to "no filter on that axis"; UI
// filter state must never break the listing, so Validate normalizes instead
// of rejecting.
type ListFilter struct {
	Search    *string `json:"search,omitempty"`
	Status    *string `json:"status,omitempty"`     // canonical, composite, or "all"
	StartDate *string `json:"start_date,omitempty"` // DD-MM-YYYY
	EndDate   *string `json:"end_date,omitempty"`   // DD-MM-YYYY

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	// Unparseable dates degrade to an unbounded range end
	if f.StartDate != nil {
		if _, ok := validator.ParseDayKey(*f.StartDate); !ok {
			f.StartDate = nil
		}
	}
	if f.EndDate != nil {
		if _, ok := validator.ParseDayKey(*f.EndDate); !ok {
			f.EndDate = nil
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ListResponse is the paginated listing envelope. LoadFailed marks an
// upstream read failure: rows are empty because the store could not be read,
// not because there is no data, and the UI should offer a retry.
type ListResponse struct {
	TotalCount int64            `json:"total_count"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"total_pages"`
	Showing    string           `json:"showing"`
	LoadFailed bool             `json:"load_failed,omitempty"`
	Rows       []RecordResponse `json:"rows"`
}

// CorrectionRequest is a manager/admin overwrite of one or both punch
// times of a record.
type CorrectionRequest struct {
	Date         string  `json:"-"` // from URL
	PersonnelID  string  `json:"-"`
	NewEntryTime *string `json:"new_entry_time,omitempty"` // HH:MM
	NewExitTime  *string `json:"new_exit_time,omitempty"`  // HH:MM
	OverrideDate *string `json:"override_date,omitempty"`  // DD-MM-YYYY, defaults to the record's day
}

func (r *CorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, ok := validator.ParseDayKey(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in DD-MM-YYYY format",
		})
	}

	if validator.IsEmpty(r.PersonnelID) {
		errs = append(errs, validator.ValidationError{
			Field:   "personnel_id",
			Message: "personnel_id is required",
		})
	}

	if r.NewEntryTime == nil && r.NewExitTime == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "new_entry_time",
			Message: "at least one of new_entry_time or new_exit_time is required",
		})
	}

	if r.NewEntryTime != nil && !validator.IsValidClock(*r.NewEntryTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "new_entry_time",
			Message: "new_entry_time must be in HH:MM format",
		})
	}
	if r.NewExitTime != nil && !validator.IsValidClock(*r.NewExitTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "new_exit_time",
			Message: "new_exit_time must be in HH:MM format",
		})
	}

	if r.OverrideDate != nil {
		if _, ok := validator.ParseDayKey(*r.OverrideDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "override_date",
				Message: "override_date must be in DD-MM-YYYY format",
			})
		}
		if r.NewEntryTime == nil && r.NewExitTime == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "override_date",
				Message: "override_date requires a new time of day",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PunchRequest is the write contract of the external time-clock client.
type PunchRequest struct {
	PersonnelID string  `json:"personnel_id"`
	Kind        string  `json:"kind"`      // "entry" or "exit"
	Timestamp   int64   `json:"timestamp"` // epoch milliseconds
	RawCode     *string `json:"raw_code,omitempty"`
}

const (
	PunchEntry = "entry"
	PunchExit  = "exit"
)

func (r *PunchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.PersonnelID) {
		errs = append(errs, validator.ValidationError{
			Field:   "personnel_id",
			Message: "personnel_id is required",
		})
	}

	if !validator.IsInSlice(r.Kind, []string{PunchEntry, PunchExit}) {
		errs = append(errs, validator.ValidationError{
			Field:   "kind",
			Message: "kind must be one of: entry, exit",
		})
	}

	if r.Timestamp <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "timestamp",
			Message: "timestamp must be a positive epoch millisecond value",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
