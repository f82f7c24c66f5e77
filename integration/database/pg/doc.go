// Package pg provides PostgreSQL connection management for the session
// store: pooled connections with startup retry, health checking, embedded
// schema migrations, and error classification helpers.
//
// # Usage
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, slog.Default()); err != nil {
//		log.Fatal(err)
//	}
//
// Migrate creates the sessions table the postgres session store operates on:
//
//	CREATE TABLE sessions (
//		id            VARCHAR(512) PRIMARY KEY,
//		data          BYTEA NOT NULL DEFAULT ''::bytea,
//		last_activity TIMESTAMPTZ NOT NULL DEFAULT now()
//	);
//
// The id column is sized above the 256-character identifier minimum so the
// length can be raised by configuration without a schema change.
// last_activity is indexed for the bulk expiry delete.
//
// Configuration comes from environment variables (see Config); load it with
// the core/config package. Connection establishment retries with linear
// backoff and verifies connectivity with a ping before handing the pool out.
package pg
