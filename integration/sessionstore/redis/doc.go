// Package redis implements the session store contract on Redis as a
// non-locking backend.
//
// There is no row lock: concurrent requests carrying the same session id
// run unserialized and the last write wins. Use the PostgreSQL store when
// lost updates between same-id requests matter.
//
//	client, err := redisdb.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//
//	store, err := redis.New(client)
//	if err != nil {
//		return err
//	}
//	engine, err := session.New(store, session.WithMaxLifetime(30*time.Minute))
//
// Expiry bookkeeping uses a sorted set scored by last activity, so GC is a
// range delete rather than a SCAN over the keyspace.
package redis
