package response

import (
	"errors"
	"net/http"

	"github.com/aydinsahin81/gts-attendance-go/internal/domain/attendance"
	"github.com/aydinsahin81/gts-attendance-go/internal/domain/branch"
	"github.com/aydinsahin81/gts-attendance-go/internal/domain/personnel"
	"github.com/aydinsahin81/gts-attendance-go/internal/domain/shift"
	"github.com/aydinsahin81/gts-attendance-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAccessDenied):
		Forbidden(w, "Record is outside your branch")
	case errors.Is(err, personnel.ErrPersonnelNotFound):
		NotFound(w, "Personnel not found")
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, branch.ErrBranchNotFound):
		NotFound(w, "Branch not found")

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
