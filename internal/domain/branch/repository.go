package branch

import "context"

// BranchRepository defines read access to branches. Branch CRUD is owned by
// the company-administration collaborator; this engine only lists and resolves.
type BranchRepository interface {
	// GetByID retrieves a branch with company isolation
	GetByID(ctx context.Context, id string, companyID string) (Branch, error)

	// ListByCompany retrieves all branches of a company
	ListByCompany(ctx context.Context, companyID string) ([]Branch, error)
}
