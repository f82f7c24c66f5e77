package sessiontransport

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"

	"github.com/dmitrymomot/dbsessions/core/session"
	"github.com/dmitrymomot/dbsessions/pkg/sessionid"
)

// Cookie binds the session engine into the HTTP request lifecycle: it owns
// the session cookie, identifier validation and regeneration, TTL refresh,
// and the garbage collection lottery. One Cookie serves the whole server;
// each request gets its own engine via Start.
type Cookie struct {
	newStore func() session.Store
	cfg      *Config
}

// NewCookie creates a cookie-based transport. newStore must return a fresh
// store handle per call; handles carry per-request transaction state and
// must never be shared between requests.
func NewCookie(newStore func() session.Store, opts ...Option) (*Cookie, error) {
	if newStore == nil {
		return nil, ErrNoStoreFactory
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &Cookie{newStore: newStore, cfg: cfg}, nil
}

// Session is one request's view of its session: the engine, the resolved
// identifier, and the response it writes its cookie to.
type Session struct {
	transport *Cookie
	engine    *session.Engine
	id        string
	fresh     bool
	w         http.ResponseWriter
	ended     bool
}

// Start resolves the request's session identifier and opens an engine for
// it. A missing, malformed, or unresolvable cookie value is discarded and a
// fresh identifier is minted; the stale identifier never reaches the
// application. The session cookie's TTL is refreshed on every call.
//
// Callers must End the returned session on every exit path:
//
//	sess, err := transport.Start(w, r)
//	if err != nil { ... }
//	defer sess.End(r.Context())
func (c *Cookie) Start(w http.ResponseWriter, r *http.Request) (*Session, error) {
	store := c.newStore()
	engine, err := session.New(store,
		session.WithMaxLifetime(c.cfg.MaxLifetime),
		session.WithLogger(c.cfg.Logger),
	)
	if err != nil {
		return nil, err
	}
	if err := engine.Open(); err != nil {
		return nil, err
	}

	ctx := r.Context()
	id, fresh, err := c.resolveID(ctx, engine, store, r)
	if err != nil {
		// Fail-safe: never leak the lock when the request cannot start.
		_ = engine.Close(ctx)
		return nil, err
	}

	// GC lottery: an occasional request pays for expired-row cleanup after
	// its own commit, so no scheduler is needed.
	if c.cfg.GCDivisor > 0 && rand.IntN(c.cfg.GCDivisor) == 0 {
		engine.RequestGC()
	}

	sess := &Session{transport: c, engine: engine, id: id, fresh: fresh, w: w}
	sess.refreshCookie()
	return sess, nil
}

// resolveID screens the cookie value and validates it against storage,
// minting a replacement when either step rejects it.
func (c *Cookie) resolveID(ctx context.Context, engine *session.Engine, store session.Store, r *http.Request) (string, bool, error) {
	if cookie, err := r.Cookie(c.cfg.CookieName); err == nil {
		if sessionid.Valid(cookie.Value, store.IDLength()) {
			ok, err := engine.Validate(ctx, cookie.Value)
			if err != nil {
				return "", false, err
			}
			if ok {
				return cookie.Value, false, nil
			}
			if c.cfg.Logger != nil {
				c.cfg.Logger.DebugContext(ctx, "session id did not resolve, minting a new one",
					slog.String("cookie", c.cfg.CookieName))
			}
		}
	}

	id, err := sessionid.New(store.IDLength())
	if err != nil {
		return "", false, errors.Join(ErrMintID, err)
	}
	return id, true, nil
}

// ID returns the session identifier serving this request.
func (s *Session) ID() string {
	return s.id
}

// IsNew reports whether the identifier was minted during Start rather than
// accepted from the request cookie. A new session has no row until the
// first Save.
func (s *Session) IsNew() bool {
	return s.fresh
}

// Load returns the session payload, empty for a session that has no row
// yet. The underlying store is only consulted once per request.
func (s *Session) Load(ctx context.Context) ([]byte, error) {
	if s.ended {
		return nil, ErrEnded
	}
	return s.engine.Read(ctx, s.id)
}

// Save persists the payload under the session identifier, creating the row
// if this is the session's first write.
func (s *Session) Save(ctx context.Context, data []byte) error {
	if s.ended {
		return ErrEnded
	}
	return s.engine.Write(ctx, s.id, data)
}

// Destroy removes the session row and expires the cookie. The row lock, if
// held, stays until End.
func (s *Session) Destroy(ctx context.Context) error {
	if s.ended {
		return ErrEnded
	}
	if err := s.engine.Destroy(ctx, s.id); err != nil {
		return err
	}

	http.SetCookie(s.w, &http.Cookie{
		Name:     s.transport.cfg.CookieName,
		Value:    "",
		Path:     s.transport.cfg.Path,
		MaxAge:   -1,
		Secure:   s.transport.cfg.Secure,
		HttpOnly: s.transport.cfg.HTTPOnly,
		SameSite: s.transport.cfg.SameSite,
	})
	return nil
}

// End closes the engine, committing the locking transaction and running any
// requested garbage collection. It is safe to call more than once and must
// run on every exit path.
func (s *Session) End(ctx context.Context) error {
	if s.ended {
		return nil
	}
	s.ended = true
	return s.engine.Close(ctx)
}

// refreshCookie (re)issues the session cookie with a full TTL, sliding the
// client-side expiry forward on every request.
func (s *Session) refreshCookie() {
	http.SetCookie(s.w, &http.Cookie{
		Name:     s.transport.cfg.CookieName,
		Value:    s.id,
		Path:     s.transport.cfg.Path,
		MaxAge:   int(s.transport.cfg.MaxLifetime.Seconds()),
		Secure:   s.transport.cfg.Secure,
		HttpOnly: s.transport.cfg.HTTPOnly,
		SameSite: s.transport.cfg.SameSite,
	})
}
