// Package postgres implements the session store contract on PostgreSQL with
// pessimistic per-row locking.
//
// The store pairs with the session engine's transaction bracketing: the
// engine calls Begin before its first locking read, the read acquires the
// row lock with SELECT ... FOR UPDATE, and Commit at request end releases
// it. Two concurrent requests with the same session id therefore serialize
// on one row, never on the table.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//
//	store, err := postgres.New(pool)
//	if err != nil {
//		return err
//	}
//	engine, err := session.New(store, session.WithMaxLifetime(30*time.Minute))
//
// Create one store per request; the pool underneath is shared. For
// workloads where lock waits hurt more than the occasional lost update,
// construct with postgres.WithoutLock().
//
// The expected schema is created by the pg integration package's embedded
// migration (table "sessions": id, data, last_activity).
package postgres
