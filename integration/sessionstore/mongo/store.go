package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/dbsessions/core/session"
	"github.com/dmitrymomot/dbsessions/pkg/sessionid"
)

var (
	// ErrNoDatabase is returned when the store is constructed without a database.
	ErrNoDatabase = errors.New("no mongo database provided")
	// ErrEmptyCollection is returned when the collection name option is blank.
	ErrEmptyCollection = errors.New("empty session collection name")
	// ErrIDLengthTooShort is returned when the configured identifier length
	// is below the entropy floor.
	ErrIDLengthTooShort = errors.New("session id length below minimum")
)

// sessionDoc is the persisted shape: the identifier as the natural _id, the
// opaque payload, and the activity stamp expiry compares against.
type sessionDoc struct {
	ID           string    `bson:"_id"`
	Data         []byte    `bson:"data"`
	LastActivity time.Time `bson:"last_activity"`
}

// Store implements session.Store on MongoDB. Like the Redis backend it is
// non-locking: concurrent requests sharing an id race and the last write
// wins. Document-level atomicity covers each individual upsert.
type Store struct {
	coll *mongo.Collection

	idLength int
	now      func() time.Time
}

var _ session.Store = (*Store)(nil)

// Option configures a Store.
type Option func(*Store) error

// WithCollection overrides the collection name (default "sessions").
func WithCollection(name string) Option {
	return func(s *Store) error {
		if name == "" {
			return ErrEmptyCollection
		}
		s.coll = s.coll.Database().Collection(name)
		return nil
	}
}

// WithIDLength overrides the identifier length the store reports (default
// 256, the minimum).
func WithIDLength(n int) Option {
	return func(s *Store) error {
		if n < sessionid.MinLength {
			return ErrIDLengthTooShort
		}
		s.idLength = n
		return nil
	}
}

// WithClock overrides the time source used for activity stamps and expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) error {
		if now != nil {
			s.now = now
		}
		return nil
	}
}

// New creates a MongoDB session store over db.
func New(db *mongo.Database, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, ErrNoDatabase
	}

	s := &Store{
		coll:     db.Collection("sessions"),
		idLength: sessionid.MinLength,
		now:      time.Now,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Store) Select(ctx context.Context, id string, maxLifetime time.Duration) ([]byte, error) {
	filter := bson.M{
		"_id":           id,
		"last_activity": bson.M{"$gte": s.now().Add(-maxLifetime)},
	}

	var doc sessionDoc
	err := s.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if doc.Data == nil {
		doc.Data = []byte{}
	}
	return doc.Data, nil
}

func (s *Store) Save(ctx context.Context, id string, data []byte) error {
	doc := sessionDoc{ID: id, Data: data, LastActivity: s.now()}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	return err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (s *Store) GC(ctx context.Context, maxLifetime time.Duration) error {
	filter := bson.M{"last_activity": bson.M{"$lt": s.now().Add(-maxLifetime)}}
	_, err := s.coll.DeleteMany(ctx, filter)
	return err
}

// Begin is a no-op: this backend does not bracket reads in a locking
// transaction and the engine never calls it for a non-locking store.
func (s *Store) Begin(ctx context.Context) error { return nil }

// Commit is a no-op, matching Begin.
func (s *Store) Commit(ctx context.Context) error { return nil }

func (s *Store) InTransaction() bool { return false }

func (s *Store) LockingEnabled() bool { return false }

func (s *Store) IDLength() int { return s.idLength }
