// Package config provides type-safe environment configuration loading with
// per-type caching.
//
// Configuration structs declare their sources with env struct tags (parsed
// by caarlos0/env); a .env file is auto-loaded once per process via
// godotenv. Each struct type is parsed exactly once and cached, so every
// component that loads the same type sees the same values.
//
//	type PGConfig struct {
//		ConnectionString string `env:"PG_CONN_URL,required"`
//		MaxOpenConns     int32  `env:"PG_MAX_OPEN_CONNS" envDefault:"10"`
//	}
//
//	var cfg PGConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// Use MustLoad during startup when a missing required variable should stop
// the process immediately.
package config
