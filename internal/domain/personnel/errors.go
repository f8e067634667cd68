package personnel

import "errors"

var (
	ErrPersonnelNotFound = errors.New("personnel not found")
)
