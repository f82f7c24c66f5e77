package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/dmitrymomot/dbsessions/core/logger"
)

// Engine orchestrates one request's session lifecycle on top of a Store.
//
// An Engine is constructed once per request/store pairing and walks the
// states Idle → Opened → (Locked) → Loaded → Closed. It loads the payload
// from the store at most once per request, holds the row lock between the
// first locking Read and Close, and defers garbage collection until after
// the lock is released. Engines use plain value state and are not safe for
// concurrent use; each request gets its own instance.
type Engine struct {
	store       Store
	maxLifetime time.Duration
	log         *slog.Logger

	cached      []byte
	loaded      bool // payload cached for the rest of the request
	found       bool // a non-expired row existed at load time
	lockHeld    bool
	gcRequested bool
	validated   bool
	closed      bool
}

// New creates a session engine bound to the given store.
func New(store Store, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, ErrNoStore
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &Engine{
		store:       store,
		maxLifetime: cfg.MaxLifetime,
		log:         cfg.Logger,
	}, nil
}

// Open transitions the engine into its operational state. Backends that need
// connection setup do it lazily on the first real operation, so Open always
// succeeds on a live engine.
func (e *Engine) Open() error {
	if e.closed {
		return ErrClosed
	}
	return nil
}

// Read returns the payload stored for id, or an empty payload when no
// non-expired row exists. The store is touched at most once per request:
// repeated calls return the cached payload without another round trip.
//
// When the store has locking enabled, the first Read begins the transaction
// that acquires the exclusive row lock; the lock is held until Close. A
// store failure is returned as an error and is never conflated with an
// absent session.
func (e *Engine) Read(ctx context.Context, id string) ([]byte, error) {
	if e.closed {
		return nil, ErrClosed
	}
	if e.loaded {
		return cloneBytes(e.cached), nil
	}

	if e.store.LockingEnabled() && !e.store.InTransaction() {
		if err := e.store.Begin(ctx); err != nil {
			return nil, errors.Join(ErrBeginTx, err)
		}
		e.lockHeld = true
	}

	data, err := e.store.Select(ctx, id, e.maxLifetime)
	if err != nil {
		return nil, errors.Join(ErrReadSession, err)
	}

	e.found = data != nil
	if data == nil {
		data = []byte{}
	}
	e.cached = data
	e.loaded = true

	return cloneBytes(e.cached), nil
}

// Write upserts the payload for id. It does not require a prior Read.
func (e *Engine) Write(ctx context.Context, id string, data []byte) error {
	if e.closed {
		return ErrClosed
	}
	if err := e.store.Save(ctx, id, data); err != nil {
		return errors.Join(ErrSaveSession, err)
	}

	e.cached = cloneBytes(data)
	e.loaded = true
	e.found = true

	return nil
}

// Destroy removes the row for id. It does not release an active row lock;
// that stays with Close. The in-memory cache is dropped so a later Read
// reflects storage again.
func (e *Engine) Destroy(ctx context.Context, id string) error {
	if e.closed {
		return ErrClosed
	}
	if err := e.store.Delete(ctx, id); err != nil {
		return errors.Join(ErrDeleteSession, err)
	}

	e.cached = nil
	e.loaded = false
	e.found = false

	return nil
}

// RequestGC records that expired rows should be collected when this request
// ends. The actual bulk delete runs in Close, after the lock-releasing
// commit, so it never executes mid-transaction.
func (e *Engine) RequestGC() {
	if e.closed {
		return
	}
	e.gcRequested = true
}

// Validate reports whether a non-expired row exists for id, loading and
// caching the payload as a side effect. It is meant to be called once per
// fresh identifier, before trusting it: a false result tells the caller to
// discard the identifier (e.g. a forged or stale cookie value) and mint a
// new one.
func (e *Engine) Validate(ctx context.Context, id string) (bool, error) {
	if _, err := e.Read(ctx, id); err != nil {
		return false, err
	}
	e.validated = true
	return e.found, nil
}

// Validated reports whether Validate ran during this request.
func (e *Engine) Validated() bool {
	return e.validated
}

// Close ends the request's session lifecycle. It commits the active
// transaction (releasing the row lock), then runs garbage collection if it
// was requested, as an independent best-effort operation whose failure is
// logged and never fails the request. In-memory state is reset on every
// path, including a failed commit, so the instance is always safe to
// discard. Closing an already-closed engine is a no-op.
func (e *Engine) Close(ctx context.Context) error {
	if e.closed {
		return nil
	}

	var commitErr error
	if e.store.InTransaction() {
		if err := e.store.Commit(ctx); err != nil {
			commitErr = errors.Join(ErrCommitTx, err)
		}
	}

	if e.gcRequested && commitErr == nil {
		if err := e.store.GC(ctx, e.maxLifetime); err != nil && e.log != nil {
			e.log.WarnContext(ctx, "session gc failed", logger.Error(err))
		}
	}

	e.cached = nil
	e.loaded = false
	e.found = false
	e.lockHeld = false
	e.gcRequested = false
	e.validated = false
	e.closed = true

	return commitErr
}

// MaxLifetime returns the expiry window this engine operates with.
func (e *Engine) MaxLifetime() time.Duration {
	return e.maxLifetime
}

// cloneBytes copies payloads crossing the engine boundary so callers cannot
// mutate the request cache in place.
func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
