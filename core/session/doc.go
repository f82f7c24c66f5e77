// Package session provides a database-backed key/value session store with
// pessimistic per-row locking.
//
// The package serializes concurrent requests that carry the same session
// identifier while leaving distinct sessions fully concurrent. Its core is a
// per-request Engine driving a pluggable Store: the engine acquires the row
// lock on first read, caches the payload for the rest of the request, and
// releases the lock (and optionally collects expired rows) on close.
//
// # Core Components
//
// The package provides three main types:
//
//   - Engine: per-request lifecycle orchestration (open, read, write,
//     destroy, close, validate)
//   - Store: persistence contract implemented by the SQL, Redis, Mongo and
//     in-memory backends
//   - MemoryStore: in-process Store for tests and single-node use
//
// # Basic Usage
//
// Construct one engine per request over a store handle:
//
//	import "github.com/dmitrymomot/dbsessions/core/session"
//
//	store := postgres.New(pool)
//	engine, err := session.New(store,
//		session.WithMaxLifetime(30*time.Minute),
//	)
//	if err != nil {
//		return err
//	}
//	defer engine.Close(ctx)
//
//	if err := engine.Open(); err != nil {
//		return err
//	}
//
//	payload, err := engine.Read(ctx, sid)
//	if err != nil {
//		return err
//	}
//
//	// ... application mutates the payload ...
//
//	if err := engine.Write(ctx, sid, payload); err != nil {
//		return err
//	}
//
// Close must run on every exit path; defer it right after construction. It
// commits the locking transaction, releasing the row lock for the next
// request on the same identifier.
//
// # Locking Semantics
//
// When the store reports LockingEnabled, the first Read begins a transaction
// and performs a locking select (SELECT ... FOR UPDATE on SQL backends).
// Two requests with the same identifier then serialize on that row: the
// second Read blocks until the first request's Close commits. Requests with
// different identifiers never contend.
//
// Locking can be disabled at store construction for workloads where
// contention or deadlock risk outweighs the lost-update window. Without
// locking, concurrent writers race and the last Save to commit wins; this is
// a documented trade-off, not a bug.
//
// # Expiry and Garbage Collection
//
// A row is expired once now - last_activity exceeds the configured max
// lifetime. Expired rows are logically absent: Read returns an empty
// payload, never an error. Bulk removal is decoupled from the request path;
// call RequestGC to have Close run it after the commit, best-effort:
//
//	engine.RequestGC()
//	_ = engine.Close(ctx) // commit, then gc
//
// # Validation
//
// Identifiers arriving from the outside (cookie values) should be validated
// once before being trusted:
//
//	ok, err := engine.Validate(ctx, sid)
//	if err != nil {
//		return err // backend failure, not a missing session
//	}
//	if !ok {
//		sid, _ = sessionid.New(store.IDLength()) // forged or stale: mint a new id
//	}
//
// # Error Handling
//
// Backend failures are wrapped with package sentinels (ErrReadSession,
// ErrSaveSession, ErrDeleteSession, ErrBeginTx, ErrCommitTx) and propagated
// unchanged; the engine performs no retries. A missing or expired row is
// reported as an empty payload, keeping "no session" distinct from a
// database outage. The only engine-level recovery is the state reset in
// Close, which runs even when the commit fails.
//
// # Thread Safety
//
// An Engine and its Store handle serve exactly one request and are not safe
// for concurrent use. Concurrency happens across requests, each with its own
// engine/store pair over the shared connection pool.
package session
