package capability

import "errors"

var (
	// ErrInvalidName is returned when a capability name is not valid
	ErrInvalidName = errors.New("capability: invalid capability name")
	// ErrNotAllowed is returned when a capability is not in the allow-list
	ErrNotAllowed = errors.New("capability: capability not in allow-list")
)
