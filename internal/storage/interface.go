package storage

import (
	"context"

	"github.com/CuteLittleSky/LimboAuth/internal/model"
)

// RecordStore defines the interface for credential record persistence.
// Identifiers are unique; lookups that find nothing return
// model.ErrRecordNotFound. Callers perform read-then-write sequences
// without a lock across the gap, so concurrent updates to the same
// identifier are last-write-wins.
type RecordStore interface {
	// FindByIdentifier looks up a record by its canonical UUID text
	FindByIdentifier(ctx context.Context, identifier string) (*model.CredentialRecord, error)

	// FindByLowercaseName looks up a record by lowercase nickname
	FindByLowercaseName(ctx context.Context, name string) (*model.CredentialRecord, error)

	// Insert stores a new record; fails with model.ErrRecordExists if the
	// identifier is already taken
	Insert(ctx context.Context, record *model.CredentialRecord) error

	// Update replaces the stored record for record.Identifier
	Update(ctx context.Context, record *model.CredentialRecord) error

	// UpdateHashByLowercaseName replaces the stored password hash for the
	// record with the given lowercase nickname. An empty hash clears the
	// password. Missing records are a no-op, not an error.
	UpdateHashByLowercaseName(ctx context.Context, name, hash string) error
}

// FailureCache is a short-TTL mapping from a connection's network origin
// to the last name that attempted verified mode from it. Entries are
// advisory: absence always means "no prior attempt", never a fault.
type FailureCache interface {
	// GetFailure returns the name last recorded for the origin, if any
	GetFailure(ctx context.Context, origin string) (string, bool, error)

	// PutFailure records that the origin attempted verified mode as name
	// and the attempt did not complete. Overwrites any previous entry.
	PutFailure(ctx context.Context, origin, name string) error

	// InvalidateFailure removes the entry for the origin, if present
	InvalidateFailure(ctx context.Context, origin string) error
}

// Storage combines record persistence with the failure cache so a single
// backend can serve both.
type Storage interface {
	RecordStore
	FailureCache
}
