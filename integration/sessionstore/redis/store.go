package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/dbsessions/core/session"
	"github.com/dmitrymomot/dbsessions/pkg/sessionid"
)

var (
	// ErrNoClient is returned when the store is constructed without a client.
	ErrNoClient = errors.New("no redis client provided")
	// ErrEmptyPrefix is returned when the key prefix option is blank.
	ErrEmptyPrefix = errors.New("empty session key prefix")
	// ErrIDLengthTooShort is returned when the configured identifier length
	// is below the entropy floor.
	ErrIDLengthTooShort = errors.New("session id length below minimum")
)

// Store implements session.Store on Redis. It is a non-locking backend:
// concurrent requests sharing an id race and the last write wins, which is
// the documented trade-off for workloads that prefer zero lock contention.
//
// Layout: payloads live under <prefix>:data:<id>; a sorted set
// <prefix>:index scores each id by its last activity time, giving GC a
// single range delete instead of a keyspace scan.
type Store struct {
	client redis.UniversalClient

	prefix   string
	idLength int
	now      func() time.Time
}

var _ session.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store)

// WithPrefix overrides the key prefix (default "sessions").
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithIDLength overrides the identifier length the store reports (default
// 256, the minimum).
func WithIDLength(n int) Option {
	return func(s *Store) {
		s.idLength = n
	}
}

// WithClock overrides the time source used for activity stamps and expiry,
// letting tests move sessions past the boundary without sleeping.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a Redis session store.
func New(client redis.UniversalClient, opts ...Option) (*Store, error) {
	if client == nil {
		return nil, ErrNoClient
	}

	s := &Store{
		client:   client,
		prefix:   "sessions",
		idLength: sessionid.MinLength,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.prefix == "" {
		return nil, ErrEmptyPrefix
	}
	if s.idLength < sessionid.MinLength {
		return nil, ErrIDLengthTooShort
	}

	return s, nil
}

func (s *Store) dataKey(id string) string {
	return s.prefix + ":data:" + id
}

func (s *Store) indexKey() string {
	return s.prefix + ":index"
}

func (s *Store) Select(ctx context.Context, id string, maxLifetime time.Duration) ([]byte, error) {
	lastActivity, err := s.client.ZScore(ctx, s.indexKey(), id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if unixSeconds(s.now())-lastActivity > maxLifetime.Seconds() {
		return nil, nil
	}

	data, err := s.client.Get(ctx, s.dataKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		// Index entry without a payload key; treat as absent.
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
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.dataKey(id), data, 0)
	pipe.ZAdd(ctx, s.indexKey(), redis.Z{Score: unixSeconds(s.now()), Member: id})
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.dataKey(id))
	pipe.ZRem(ctx, s.indexKey(), id)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) GC(ctx context.Context, maxLifetime time.Duration) error {
	// Strictly-older-than cutoff: rows exactly at the threshold survive.
	cutoff := "(" + strconv.FormatFloat(unixSeconds(s.now())-maxLifetime.Seconds(), 'f', -1, 64)

	expired, err := s.client.ZRangeByScore(ctx, s.indexKey(), &redis.ZRangeBy{
		Min: "-inf",
		Max: cutoff,
	}).Result()
	if err != nil {
		return err
	}
	if len(expired) == 0 {
		return nil
	}

	pipe := s.client.TxPipeline()
	for _, id := range expired {
		pipe.Del(ctx, s.dataKey(id))
	}
	pipe.ZRemRangeByScore(ctx, s.indexKey(), "-inf", cutoff)
	_, err = pipe.Exec(ctx)
	return err
}

// Begin is a no-op: Redis has no lock-bracketing transaction here and the
// engine never calls it for a non-locking store.
func (s *Store) Begin(ctx context.Context) error { return nil }

// Commit is a no-op, matching Begin.
func (s *Store) Commit(ctx context.Context) error { return nil }

func (s *Store) InTransaction() bool { return false }

func (s *Store) LockingEnabled() bool { return false }

func (s *Store) IDLength() int { return s.idLength }

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
