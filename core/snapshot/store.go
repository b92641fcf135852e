package snapshot

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrStorage marks every failure to create, read, write or clear a baseline.
	ErrStorage = errors.New("snapshot storage failure")

	// ErrIdentityTooLong is returned when an identity exceeds the backend limit.
	ErrIdentityTooLong = errors.New("identity exceeds maximum length")

	// ErrUnknownBackend is returned by New for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown snapshot backend")
)

// Store persists the baseline.
type Store interface {
	// FindAll returns the current baseline ordered by identity.
	FindAll(ctx context.Context) ([]Entry, error)

	// InsertOrUpdate creates the entry or overwrites the timestamp of the entry
	// sharing its identity.
	InsertOrUpdate(ctx context.Context, entry Entry) error

	// ClearAll removes every entry.
	ClearAll(ctx context.Context) error
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
