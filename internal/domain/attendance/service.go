package attendance

import "context"

// Service defines the engine operations exposed to the UI, the punch source
// and the export collaborator.
type Service interface {
	// List retrieves classified records with search, status, date-range and
	// branch-scope filters applied
	List(ctx context.Context, filter ListFilter) (ListResponse, error)

	// Get retrieves a single classified record
	Get(ctx context.Context, dateKey string, personnelID string) (RecordResponse, error)

	// RecordPunch applies an entry/exit punch from the time-clock client
	RecordPunch(ctx context.Context, req PunchRequest) (RecordResponse, error)

	// ApplyCorrection overwrites punch times on a record, maintains the
	// audit flags and reclassifies
	ApplyCorrection(ctx context.Context, req CorrectionRequest) (RecordResponse, error)

	// ForEachRow streams the filtered result set, unpaginated, to fn. The
	// spreadsheet-export collaborator consumes listings through this hook so
	// filter semantics live in one place.
	ForEachRow(ctx context.Context, filter ListFilter, fn func(RecordResponse) error) error
}
