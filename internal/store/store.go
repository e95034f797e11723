// Package store defines the session storage interface and implementations.
package store

import (
	"context"

	"github.com/patternworks/tess/internal/domain"
)

// Store defines the interface for session persistence. Callers always
// write the complete record; there is no partial-update form.
type Store interface {
	// Put writes the full record, overwriting any existing record with
	// the same id.
	Put(ctx context.Context, id string, session *domain.Session) error

	// Get returns the full record, or (nil, nil) when no record exists
	// for the id.
	Get(ctx context.Context, id string) (*domain.Session, error)

	// Delete removes the record and reports whether one existed.
	Delete(ctx context.Context, id string) (bool, error)

	// List enumerates all stored sessions as summaries. Order is
	// unspecified at this layer. A record that fails to parse is
	// skipped rather than aborting the enumeration.
	List(ctx context.Context) ([]domain.SessionSummary, error)

	// DeleteAll removes every record and returns the number removed.
	DeleteAll(ctx context.Context) (int, error)

	// DeleteOlderThan removes every record whose last-modified time is
	// before cutoff (unix milliseconds) and returns the number removed.
	DeleteOlderThan(ctx context.Context, cutoff int64) (int, error)

	// Close releases storage resources.
	Close() error
}
