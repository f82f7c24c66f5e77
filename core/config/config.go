package config

import (
	"errors"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParseConfig is returned when environment variables cannot be parsed
// into the target struct (missing required values, malformed durations).
var ErrParseConfig = errors.New("failed to parse config from environment")

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type -> parsed struct value
)

// Load populates cfg from environment variables using its env struct tags.
// A .env file in the working directory is loaded once per process before the
// first parse. Each configuration type is parsed only once; later calls for
// the same type return the cached value, so configuration stays consistent
// across the application regardless of call order.
func Load[T any](cfg *T) error {
	dotenvOnce.Do(func() {
		// Missing .env files are fine; real environments set variables directly.
		_ = godotenv.Load()
	})

	key := reflect.TypeOf(*cfg)
	if cached, ok := cache.Load(key); ok {
		*cfg = cached.(T)
		return nil
	}

	if err := env.Parse(cfg); err != nil {
		return errors.Join(ErrParseConfig, err)
	}

	cached, _ := cache.LoadOrStore(key, *cfg)
	*cfg = cached.(T)
	return nil
}

// MustLoad is Load that panics on failure, for use during startup where a
// missing required variable should stop the process.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
