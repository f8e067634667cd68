package personnel

import (
	"encoding/json"
	"time"
)

// Personnel is owned by the personnel-directory collaborator and is read-only
// to this engine.
type Personnel struct {
	ID          string
	CompanyID   string
	DisplayName string
	BranchRef   json.RawMessage // polymorphic, resolved via branch.IsMember
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BranchRefValue decodes the stored branch reference into the runtime shape
// the membership resolver dispatches on. Undecodable refs come back nil and
// resolve to non-membership.
func (p Personnel) BranchRefValue() any {
	if len(p.BranchRef) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(p.BranchRef, &v); err != nil {
		return nil
	}
	return v
}
