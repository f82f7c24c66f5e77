// Package sessionid generates opaque session identifiers from a
// cryptographically strong random source.
//
// Identifiers are fixed-length base64url strings. The storage backend
// dictates the length (Store.IDLength); this package enforces a floor of 256
// characters so an identifier always carries enough entropy to be
// unguessable, and rejects shorter configurations outright:
//
//	id, err := sessionid.New(store.IDLength())
//	if err != nil {
//		return err // configuration error, not a transient failure
//	}
//
// Transport layers can screen inbound cookie values with Valid before
// touching storage:
//
//	if !sessionid.Valid(cookie.Value, store.IDLength()) {
//		// forged or truncated value, mint a fresh identifier
//	}
package sessionid
