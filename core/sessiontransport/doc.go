// Package sessiontransport binds the session engine to the HTTP request
// lifecycle through a cookie.
//
// The transport owns everything the engine deliberately does not: reading
// and writing the session cookie, screening and validating inbound
// identifiers, minting replacements for forged or stale ones, sliding the
// cookie TTL forward on each response, and the garbage collection lottery.
//
// # Usage
//
//	transport, err := sessiontransport.NewCookie(
//		func() session.Store { s, _ := postgres.New(pool); return s },
//		sessiontransport.WithCookieName("sid"),
//		sessiontransport.WithMaxLifetime(30*time.Minute),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	func handler(w http.ResponseWriter, r *http.Request) {
//		sess, err := transport.Start(w, r)
//		if err != nil {
//			http.Error(w, "session unavailable", http.StatusInternalServerError)
//			return
//		}
//		defer sess.End(r.Context())
//
//		payload, err := sess.Load(r.Context())
//		if err != nil {
//			// storage failure: do NOT treat as an anonymous session
//			http.Error(w, "session unavailable", http.StatusInternalServerError)
//			return
//		}
//
//		// ... mutate payload ...
//
//		if err := sess.Save(r.Context(), payload); err != nil {
//			http.Error(w, "session unavailable", http.StatusInternalServerError)
//			return
//		}
//	}
//
// End must run on every exit path; it releases the row lock that serializes
// concurrent requests on the same session. The deferred call above is the
// scoped acquire/release the locking design depends on.
//
// # Identifier handling
//
// An inbound cookie value is accepted only if it has the exact configured
// length and alphabet and resolves to a live row. Anything else is
// discarded and replaced with a freshly minted identifier; the replacement
// has no row until the first Save, so unvalidated requests never create
// storage garbage.
//
// # Garbage collection lottery
//
// One request in GCDivisor (default 100) schedules a bulk expiry sweep,
// which the engine runs after its commit. Set WithGCDivisor(0) to disable
// and run collection on an external schedule instead.
package sessiontransport
