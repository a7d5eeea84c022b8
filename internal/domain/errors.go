package domain

import "errors"

// Error kinds surfaced by the stores. Callers match them with errors.Is;
// the HTTP layer translates them into response statuses.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
