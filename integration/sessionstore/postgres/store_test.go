package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/dbsessions/integration/sessionstore/postgres"
)

// fakeDB records statements instead of talking to a server.
type fakeDB struct {
	queries  []string
	args     [][]any
	row      fakeRow
	execErr  error
	beginErr error
	tx       *fakeTx
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.queries = append(f.queries, sql)
	f.args = append(f.args, args)
	return pgconn.NewCommandTag("INSERT 0 1"), f.execErr
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.queries = append(f.queries, sql)
	f.args = append(f.args, args)
	return f.row
}

func (f *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	f.tx = &fakeTx{db: f}
	return f.tx, nil
}

// fakeTx embeds pgx.Tx for interface completeness; only the methods the
// store touches are implemented.
type fakeTx struct {
	pgx.Tx
	db        *fakeDB
	queries   []string
	args      [][]any
	committed bool
	commitErr error
}

func (t *fakeTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	t.queries = append(t.queries, sql)
	t.args = append(t.args, args)
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (t *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	t.queries = append(t.queries, sql)
	t.args = append(t.args, args)
	return t.db.row
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return t.commitErr
}

type fakeRow struct {
	data []byte
	err  error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if p, ok := dest[0].(*[]byte); ok {
		if r.data == nil {
			*p = nil
			return nil
		}
		out := make([]byte, len(r.data))
		copy(out, r.data)
		*p = out
	}
	return nil
}

const testID = "2f7a91c4e8b3d6057a1f92c8e4b7d305"

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("requires a database", func(t *testing.T) {
		t.Parallel()

		_, err := postgres.New(nil)
		require.ErrorIs(t, err, postgres.ErrNoDB)
	})

	t.Run("rejects a blank table name", func(t *testing.T) {
		t.Parallel()

		_, err := postgres.New(&fakeDB{}, postgres.WithTable(""))
		require.ErrorIs(t, err, postgres.ErrEmptyTable)
	})

	t.Run("rejects identifier lengths below the floor", func(t *testing.T) {
		t.Parallel()

		_, err := postgres.New(&fakeDB{}, postgres.WithIDLength(64))
		require.ErrorIs(t, err, postgres.ErrIDLengthTooShort)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		store, err := postgres.New(&fakeDB{})
		require.NoError(t, err)
		assert.True(t, store.LockingEnabled())
		assert.Equal(t, 256, store.IDLength())
		assert.False(t, store.InTransaction())
	})
}

func TestStore_Select(t *testing.T) {
	t.Parallel()

	t.Run("locks the row with FOR UPDATE", func(t *testing.T) {
		t.Parallel()

		db := &fakeDB{row: fakeRow{data: []byte("payload")}}
		store, err := postgres.New(db)
		require.NoError(t, err)

		data, err := store.Select(context.Background(), testID, 30*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), data)

		require.Len(t, db.queries, 1)
		assert.Contains(t, db.queries[0], "FOR UPDATE")
		assert.Contains(t, db.queries[0], `FROM "sessions"`)
		assert.Contains(t, db.queries[0], "make_interval")
		assert.Equal(t, []any{testID, 1800.0}, db.args[0])
	})

	t.Run("omits FOR UPDATE when locking is disabled", func(t *testing.T) {
		t.Parallel()

		db := &fakeDB{row: fakeRow{data: []byte("payload")}}
		store, err := postgres.New(db, postgres.WithoutLock())
		require.NoError(t, err)

		_, err = store.Select(context.Background(), testID, time.Hour)
		require.NoError(t, err)
		assert.NotContains(t, db.queries[0], "FOR UPDATE")
		assert.False(t, store.LockingEnabled())
	})

	t.Run("absent row is nil payload, nil error", func(t *testing.T) {
		t.Parallel()

		db := &fakeDB{row: fakeRow{err: pgx.ErrNoRows}}
		store, err := postgres.New(db)
		require.NoError(t, err)

		data, err := store.Select(context.Background(), testID, time.Hour)
		require.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("empty payload row is found, not absent", func(t *testing.T) {
		t.Parallel()

		db := &fakeDB{row: fakeRow{data: nil}}
		store, err := postgres.New(db)
		require.NoError(t, err)

		data, err := store.Select(context.Background(), testID, time.Hour)
		require.NoError(t, err)
		assert.NotNil(t, data)
		assert.Empty(t, data)
	})

	t.Run("query failure is propagated", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("connection refused")
		db := &fakeDB{row: fakeRow{err: cause}}
		store, err := postgres.New(db)
		require.NoError(t, err)

		_, err = store.Select(context.Background(), testID, time.Hour)
		require.ErrorIs(t, err, cause)
	})

	t.Run("custom table name is quoted into the query", func(t *testing.T) {
		t.Parallel()

		db := &fakeDB{row: fakeRow{data: []byte("x")}}
		store, err := postgres.New(db, postgres.WithTable("app_sessions"))
		require.NoError(t, err)

		_, err = store.Select(context.Background(), testID, time.Hour)
		require.NoError(t, err)
		assert.Contains(t, db.queries[0], `"app_sessions"`)
	})
}

func TestStore_Save(t *testing.T) {
	t.Parallel()

	t.Run("upserts with server-side timestamp", func(t *testing.T) {
		t.Parallel()

		db := &fakeDB{}
		store, err := postgres.New(db)
		require.NoError(t, err)

		require.NoError(t, store.Save(context.Background(), testID, []byte("cart=3")))

		require.Len(t, db.queries, 1)
		assert.Contains(t, db.queries[0], "ON CONFLICT (id) DO UPDATE")
		assert.Contains(t, db.queries[0], "last_activity = now()")
		assert.Equal(t, []any{testID, []byte("cart=3")}, db.args[0])
	})

	t.Run("exec failure is propagated", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("disk full")
		db := &fakeDB{execErr: cause}
		store, err := postgres.New(db)
		require.NoError(t, err)

		require.ErrorIs(t, store.Save(context.Background(), testID, nil), cause)
	})
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()

	db := &fakeDB{}
	store, err := postgres.New(db)
	require.NoError(t, err)

	require.NoError(t, store.Delete(context.Background(), testID))
	require.Len(t, db.queries, 1)
	assert.Contains(t, db.queries[0], "DELETE FROM")
	assert.Equal(t, []any{testID}, db.args[0])
}

func TestStore_GC(t *testing.T) {
	t.Parallel()

	db := &fakeDB{}
	store, err := postgres.New(db)
	require.NoError(t, err)

	require.NoError(t, store.GC(context.Background(), 1800*time.Second))
	require.Len(t, db.queries, 1)
	assert.Contains(t, db.queries[0], "last_activity < now() - make_interval")
	assert.Equal(t, []any{1800.0}, db.args[0])
}

func TestStore_Transactions(t *testing.T) {
	t.Parallel()

	t.Run("statements route through the open transaction", func(t *testing.T) {
		t.Parallel()

		db := &fakeDB{row: fakeRow{data: []byte("v")}}
		store, err := postgres.New(db)
		require.NoError(t, err)
		ctx := context.Background()

		require.NoError(t, store.Begin(ctx))
		require.True(t, store.InTransaction())

		_, err = store.Select(ctx, testID, time.Hour)
		require.NoError(t, err)
		require.NoError(t, store.Save(ctx, testID, []byte("v2")))

		// Everything after Begin lands on the transaction, not the pool.
		assert.Empty(t, db.queries)
		assert.Len(t, db.tx.queries, 2)

		require.NoError(t, store.Commit(ctx))
		assert.True(t, db.tx.committed)
		assert.False(t, store.InTransaction())

		// Post-commit statements go back to the pool.
		require.NoError(t, store.Save(ctx, testID, []byte("v3")))
		assert.Len(t, db.queries, 1)
	})

	t.Run("begin twice fails", func(t *testing.T) {
		t.Parallel()

		store, err := postgres.New(&fakeDB{})
		require.NoError(t, err)
		ctx := context.Background()

		require.NoError(t, store.Begin(ctx))
		require.ErrorIs(t, store.Begin(ctx), postgres.ErrTxInProgress)
	})

	t.Run("commit without a transaction fails", func(t *testing.T) {
		t.Parallel()

		store, err := postgres.New(&fakeDB{})
		require.NoError(t, err)

		require.ErrorIs(t, store.Commit(context.Background()), postgres.ErrNoTx)
	})

	t.Run("failed commit still clears the transaction", func(t *testing.T) {
		t.Parallel()

		db := &fakeDB{}
		store, err := postgres.New(db)
		require.NoError(t, err)
		ctx := context.Background()

		require.NoError(t, store.Begin(ctx))
		db.tx.commitErr = errors.New("deadlock detected")

		require.Error(t, store.Commit(ctx))
		assert.False(t, store.InTransaction())
	})

	t.Run("begin failure is propagated", func(t *testing.T) {
		t.Parallel()

		cause := errors.New("too many clients")
		store, err := postgres.New(&fakeDB{beginErr: cause})
		require.NoError(t, err)

		require.ErrorIs(t, store.Begin(context.Background()), cause)
	})
}
