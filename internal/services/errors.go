package services

import "errors"

// Failure kinds shared across the lifecycle services. Handlers map these to
// HTTP statuses: ErrNotFound → 404, ErrNotOwner → 403, ErrStorageFailure → 500.
var (
	ErrNotFound       = errors.New("resource not found")
	ErrNotOwner       = errors.New("caller does not own this resource")
	ErrStorageFailure = errors.New("object storage operation failed")
)
