package shift

import "context"

// ShiftRepository defines read access to the shift registry.
type ShiftRepository interface {
	// GetByName retrieves a shift by its display name with company isolation.
	// Attendance records reference shifts through a name snapshot, not an id.
	GetByName(ctx context.Context, name string, companyID string) (Shift, error)

	// GetByPersonnel retrieves the shift a personnel is assigned to, or
	// ErrShiftNotFound when unassigned
	GetByPersonnel(ctx context.Context, personnelID string, companyID string) (Shift, error)

	// ListByCompany retrieves all shifts of a company with their assignments
	ListByCompany(ctx context.Context, companyID string) ([]Shift, error)
}
