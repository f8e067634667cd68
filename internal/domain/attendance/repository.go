package attendance

import "context"

// RecordRepository defines data access for attendance records. All methods
// include companyID to prevent cross-company data access.
type RecordRepository interface {
	// Create creates a new record
	Create(ctx context.Context, record Record) (Record, error)

	// GetByKey retrieves the record of one personnel on one calendar day
	GetByKey(ctx context.Context, companyID string, dateKey string, personnelID string) (Record, error)

	// Update overwrites the mutable punch fields of a record. Last write
	// wins; there is no optimistic locking on records.
	Update(ctx context.Context, record Record) error

	// ListByCompany retrieves every record of a company joined with the
	// personnel display name. Day-range filtering happens in the service
	// because legacy date keys may be malformed.
	ListByCompany(ctx context.Context, companyID string) ([]Record, error)

	// ListCompanyIDs returns the distinct companies holding records
	ListCompanyIDs(ctx context.Context) ([]string, error)
}
