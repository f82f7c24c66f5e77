package session

import (
	"context"
	"time"
)

// Store defines the persistence contract for session payloads.
//
// A Store instance is owned by exactly one Engine (and therefore one request)
// at a time: implementations track the active transaction as instance state
// and are not safe for concurrent use. Share the underlying connection pool,
// not the Store.
type Store interface {
	// Select returns the payload for id if a non-expired row exists, or a nil
	// payload with a nil error when the row is absent or expired. Absence is
	// not a failure; a non-nil error always means the backend itself failed.
	//
	// When locking is enabled, Select acquires an exclusive lock on the row
	// that is held until Commit, and the caller must have called Begin first.
	Select(ctx context.Context, id string, maxLifetime time.Duration) ([]byte, error)

	// Save inserts or overwrites the row for id and stamps last_activity with
	// the current server time. Save never generates identifiers.
	Save(ctx context.Context, id string, data []byte) error

	// Delete removes the row for id. A missing row is not an error.
	Delete(ctx context.Context, id string) error

	// GC bulk-deletes every row whose last_activity is strictly older than
	// maxLifetime ago.
	GC(ctx context.Context, maxLifetime time.Duration) error

	// Begin starts the transaction that brackets a locking Select.
	Begin(ctx context.Context) error

	// Commit ends the active transaction, releasing any row lock it holds.
	Commit(ctx context.Context) error

	// InTransaction reports whether a transaction is currently open.
	InTransaction() bool

	// LockingEnabled reports whether Select acquires a row lock. This is a
	// construction-time choice trading strict serialization of same-id
	// requests against lock contention.
	LockingEnabled() bool

	// IDLength returns the identifier length this store expects.
	IDLength() int
}
