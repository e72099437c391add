// Package sentinel defines the infrastructure errors stores and adapters
// return. Services translate them into coded domain errors; input
// validation uses pkg/domain-errors directly instead.
package sentinel

import "errors"

var (
	// ErrNotFound means the requested manager or client is not stored.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a write hit an existing ID or unique key.
	ErrConflict = errors.New("conflict")
	// ErrUnavailable means a backing service (broker, lock server) is down.
	ErrUnavailable = errors.New("unavailable")
	// ErrLockHeld means another assignment owns the lock past the wait budget.
	ErrLockHeld = errors.New("lock held")
)
