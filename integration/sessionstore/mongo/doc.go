// Package mongo implements the session store contract on MongoDB as a
// non-locking backend.
//
// Sessions are stored one document per id with the identifier as _id.
// Expiry compares the document's last_activity stamp against the max
// lifetime at read time; GC is a DeleteMany over the stale range. An index
// on last_activity keeps GC cheap:
//
//	db.sessions.createIndex({ last_activity: 1 })
//
// There is no row lock: concurrent requests carrying the same session id
// run unserialized and the last write wins. Use the PostgreSQL store when
// that matters.
package mongo
