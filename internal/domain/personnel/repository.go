package personnel

import "context"

// PersonnelRepository defines read access to the personnel directory.
// All methods include companyID to prevent cross-company data access.
type PersonnelRepository interface {
	// GetByID retrieves one personnel with company isolation
	GetByID(ctx context.Context, id string, companyID string) (Personnel, error)

	// ListByCompany retrieves the full directory of a company
	ListByCompany(ctx context.Context, companyID string) ([]Personnel, error)
}
