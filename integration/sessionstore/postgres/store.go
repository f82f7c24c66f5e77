package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/dbsessions/core/session"
	"github.com/dmitrymomot/dbsessions/pkg/sessionid"
)

var (
	// ErrNoDB is returned when the store is constructed without a database.
	ErrNoDB = errors.New("no database provided")
	// ErrEmptyTable is returned when the table name option is blank.
	ErrEmptyTable = errors.New("empty session table name")
	// ErrIDLengthTooShort is returned when the configured identifier length
	// is below the entropy floor.
	ErrIDLengthTooShort = errors.New("session id length below minimum")
	// ErrTxInProgress is returned by Begin when a transaction is already open.
	ErrTxInProgress = errors.New("transaction already in progress")
	// ErrNoTx is returned by Commit when no transaction is open.
	ErrNoTx = errors.New("no transaction in progress")
)

// DB is the subset of pgx operations the store needs. Both *pgxpool.Pool
// and pgx.Tx satisfy it, which keeps the store testable without a server.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Store implements session.Store on PostgreSQL.
//
// With locking enabled (the default), Select runs SELECT ... FOR UPDATE
// inside the transaction opened by Begin, so concurrent requests carrying
// the same session id serialize on that row until Commit. Save and Delete
// run on the open transaction when there is one, which keeps the request's
// write under the same lock and makes it visible atomically at Commit.
//
// A Store is owned by one request at a time; create one per request over
// the shared pool.
type Store struct {
	db DB
	tx pgx.Tx

	table    string
	locking  bool
	idLength int
}

var _ session.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithoutLock disables the FOR UPDATE clause on Select. Requests sharing an
// id may then race (last write wins), in exchange for zero lock contention.
func WithoutLock() Option {
	return func(s *Store) {
		s.locking = false
	}
}

// WithTable overrides the session table name (default "sessions").
func WithTable(name string) Option {
	return func(s *Store) {
		s.table = name
	}
}

// WithIDLength overrides the identifier length the store reports (default
// 256, the minimum).
func WithIDLength(n int) Option {
	return func(s *Store) {
		s.idLength = n
	}
}

// New creates a PostgreSQL session store over db, which is usually a
// *pgxpool.Pool. Configuration problems are reported here, not at first use.
func New(db DB, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, ErrNoDB
	}

	s := &Store{
		db:       db,
		table:    "sessions",
		locking:  true,
		idLength: sessionid.MinLength,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.table == "" {
		return nil, ErrEmptyTable
	}
	if s.idLength < sessionid.MinLength {
		return nil, ErrIDLengthTooShort
	}

	return s, nil
}

// querier returns the open transaction when there is one, so reads and
// writes land inside the lock's scope.
func (s *Store) querier() DB {
	if s.tx != nil {
		return s.tx
	}
	return s.db
}

func (s *Store) Select(ctx context.Context, id string, maxLifetime time.Duration) ([]byte, error) {
	query := fmt.Sprintf(
		`SELECT data FROM %s WHERE id = $1 AND last_activity >= now() - make_interval(secs => $2)`,
		pgx.Identifier{s.table}.Sanitize(),
	)
	if s.locking {
		query += ` FOR UPDATE`
	}

	var data []byte
	err := s.querier().QueryRow(ctx, query, id, maxLifetime.Seconds()).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if data == nil {
		data = []byte{}
	}
	return data, nil
}

func (s *Store) Save(ctx context.Context, id string, data []byte) error {
	query := fmt.Sprintf(
		`INSERT INTO %s (id, data, last_activity) VALUES ($1, $2, now())
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, last_activity = now()`,
		pgx.Identifier{s.table}.Sanitize(),
	)
	_, err := s.querier().Exec(ctx, query, id, data)
	return err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, pgx.Identifier{s.table}.Sanitize())
	_, err := s.querier().Exec(ctx, query, id)
	return err
}

func (s *Store) GC(ctx context.Context, maxLifetime time.Duration) error {
	query := fmt.Sprintf(
		`DELETE FROM %s WHERE last_activity < now() - make_interval(secs => $1)`,
		pgx.Identifier{s.table}.Sanitize(),
	)
	_, err := s.querier().Exec(ctx, query, maxLifetime.Seconds())
	return err
}

func (s *Store) Begin(ctx context.Context) error {
	if s.tx != nil {
		return ErrTxInProgress
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	s.tx = tx
	return nil
}

// Commit ends the transaction and releases any row lock it holds. The
// transaction reference is cleared even when the commit fails: the
// connection's lock state is indeterminate at that point and the store must
// not keep routing statements into a dead transaction.
func (s *Store) Commit(ctx context.Context) error {
	if s.tx == nil {
		return ErrNoTx
	}

	err := s.tx.Commit(ctx)
	s.tx = nil
	return err
}

func (s *Store) InTransaction() bool {
	return s.tx != nil
}

func (s *Store) LockingEnabled() bool {
	return s.locking
}

func (s *Store) IDLength() int {
	return s.idLength
}
