package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

var (
	ErrFailedToConnect   = errors.New("failed to connect to mongodb")
	ErrHealthcheckFailed = errors.New("mongodb healthcheck failed")
)

// Config controls the MongoDB client backing the non-locking session store.
type Config struct {
	ConnectionURL   string        `env:"MONGODB_URL,required"`                      // ConnectionURL is the mongodb:// connection string.
	Database        string        `env:"MONGODB_DATABASE" envDefault:"sessions"`    // Database holding the session collection.
	ConnectTimeout  time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`  // ConnectTimeout bounds initial server selection.
	MaxPoolSize     uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"100"`    // MaxPoolSize is the connection pool ceiling.
	MinPoolSize     uint64        `env:"MONGODB_MIN_POOL_SIZE" envDefault:"1"`      // MinPoolSize keeps warm connections around.
	MaxConnIdleTime time.Duration `env:"MONGODB_MAX_CONN_IDLE_TIME" envDefault:"5m"` // MaxConnIdleTime recycles idle connections.
	RetryAttempts   int           `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`     // RetryAttempts is the number of connection attempts.
	RetryInterval   time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"5s"`    // RetryInterval is the base interval between attempts.
}

// Connect creates a MongoDB database handle with retry logic tuned for
// managed deployments whose cold starts take a few seconds.
func Connect(ctx context.Context, cfg Config) (*mongo.Database, error) {
	opts := options.Client().
		ApplyURI(cfg.ConnectionURL).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime)

	var lastErr error
	for i := range cfg.RetryAttempts {
		client, err := mongo.Connect(opts)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(i+1) * cfg.RetryInterval)
			continue
		}

		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			lastErr = err
			_ = client.Disconnect(ctx)
			time.Sleep(time.Duration(i+1) * cfg.RetryInterval)
			continue
		}

		return client.Database(cfg.Database), nil
	}

	return nil, errors.Join(ErrFailedToConnect, lastErr)
}

// Healthcheck returns a probe function validating MongoDB connectivity,
// compatible with health endpoints expecting func(context.Context) error.
func Healthcheck(db *mongo.Database) func(context.Context) error {
	return func(ctx context.Context) error {
		if err := db.Client().Ping(ctx, readpref.Primary()); err != nil {
			return errors.Join(ErrHealthcheckFailed, err)
		}
		return nil
	}
}
