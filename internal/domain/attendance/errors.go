package attendance

import "errors"

// Attendance domain errors
var (
	ErrRecordNotFound = errors.New("attendance record not found")
	ErrAccessDenied   = errors.New("attendance record is outside your branch")
)
