package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is in-process session storage shared across requests. It backs
// tests and single-node setups where durability across restarts is not
// needed. Each request takes its own Store handle via Conn, the same way SQL
// backends share a connection pool under per-request store instances.
//
// With locking enabled (the default) a Select inside a transaction blocks
// while another in-flight transaction holds the same id, using a per-id
// semaphore released on Commit. This mirrors row-lock semantics closely
// enough to exercise the engine's serialization behavior without a database.
type MemoryStore struct {
	mu   sync.Mutex
	rows map[string]memoryRow
	sems map[string]chan struct{}

	locking  bool
	idLength int
	now      func() time.Time
}

type memoryRow struct {
	data         []byte
	lastActivity time.Time
}

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithoutMemoryLocking disables per-id serialization, reproducing the
// last-write-wins behavior of non-locking backends.
func WithoutMemoryLocking() MemoryOption {
	return func(m *MemoryStore) {
		m.locking = false
	}
}

// WithMemoryIDLength overrides the identifier length the store reports.
func WithMemoryIDLength(n int) MemoryOption {
	return func(m *MemoryStore) {
		if n > 0 {
			m.idLength = n
		}
	}
}

// WithMemoryClock overrides the time source, letting tests move sessions
// past the expiry boundary without sleeping.
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(m *MemoryStore) {
		if now != nil {
			m.now = now
		}
	}
}

// NewMemoryStore creates in-process session storage.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{
		rows:     make(map[string]memoryRow),
		sems:     make(map[string]chan struct{}),
		locking:  true,
		idLength: 256,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Conn returns a per-request Store handle over the shared storage. The
// handle carries the transaction state and must not outlive its request.
func (m *MemoryStore) Conn() *MemoryConn {
	return &MemoryConn{store: m, held: make(map[string]struct{})}
}

// Len reports the number of stored rows, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

// lockRow blocks until the per-id semaphore is free or ctx is done.
func (m *MemoryStore) lockRow(ctx context.Context, id string) error {
	m.mu.Lock()
	sem, ok := m.sems[id]
	if !ok {
		sem = make(chan struct{}, 1)
		m.sems[id] = sem
	}
	m.mu.Unlock()

	select {
	case sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *MemoryStore) unlockRow(id string) {
	m.mu.Lock()
	sem := m.sems[id]
	m.mu.Unlock()
	<-sem
}

// MemoryConn is one request's view of a MemoryStore. Like every Store, it is
// owned by a single Engine and is not safe for concurrent use.
type MemoryConn struct {
	store *MemoryStore
	inTx  bool
	held  map[string]struct{}
}

var _ Store = (*MemoryConn)(nil)

func (c *MemoryConn) Select(ctx context.Context, id string, maxLifetime time.Duration) ([]byte, error) {
	if c.store.locking && c.inTx {
		if _, ok := c.held[id]; !ok {
			if err := c.store.lockRow(ctx, id); err != nil {
				return nil, err
			}
			c.held[id] = struct{}{}
		}
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	row, ok := c.store.rows[id]
	if !ok || c.store.now().Sub(row.lastActivity) > maxLifetime {
		return nil, nil
	}

	out := make([]byte, len(row.data))
	copy(out, row.data)
	return out, nil
}

func (c *MemoryConn) Save(ctx context.Context, id string, data []byte) error {
	stored := make([]byte, len(data))
	copy(stored, data)

	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	c.store.rows[id] = memoryRow{data: stored, lastActivity: c.store.now()}
	return nil
}

func (c *MemoryConn) Delete(ctx context.Context, id string) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	delete(c.store.rows, id)
	return nil
}

func (c *MemoryConn) GC(ctx context.Context, maxLifetime time.Duration) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	for id, row := range c.store.rows {
		if c.store.now().Sub(row.lastActivity) > maxLifetime {
			delete(c.store.rows, id)
		}
	}
	return nil
}

func (c *MemoryConn) Begin(ctx context.Context) error {
	c.inTx = true
	return nil
}

// Commit releases every row semaphore acquired during the transaction.
func (c *MemoryConn) Commit(ctx context.Context) error {
	for id := range c.held {
		c.store.unlockRow(id)
		delete(c.held, id)
	}
	c.inTx = false
	return nil
}

func (c *MemoryConn) InTransaction() bool {
	return c.inTx
}

func (c *MemoryConn) LockingEnabled() bool {
	return c.store.locking
}

func (c *MemoryConn) IDLength() int {
	return c.store.idLength
}
