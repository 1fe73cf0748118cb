package store

import (
	"context"
	"fmt"
	"strings"
)

// Config selects and locates the KV backend.
type Config struct {
	// Driver is one of "sqlite", "postgres", "mysql", "mongo".
	Driver string

	// Path is the SQLite database file.
	Path string

	// URL is the connection string for postgres, mysql and mongo.
	URL string

	// MongoDatabase names the database holding the records collection.
	MongoDatabase string
}

// Open returns the KV described by cfg.
func Open(ctx context.Context, cfg Config) (KV, error) {
	switch strings.ToLower(cfg.Driver) {
	case "mongo", "mongodb":
		if cfg.URL == "" {
			return nil, fmt.Errorf("mongo driver requires a connection URL")
		}
		db := cfg.MongoDatabase
		if db == "" {
			db = "skillora"
		}
		return OpenMongo(ctx, cfg.URL, db)
	}

	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	dsn := cfg.URL
	if dialect.Name() == "sqlite" {
		dsn = cfg.Path
		if dsn == "" {
			if dsn, err = DefaultDBPath(); err != nil {
				return nil, fmt.Errorf("resolve DB path: %w", err)
			}
		} else if err := EnsureDir(dsn); err != nil {
			return nil, fmt.Errorf("create DB directory: %w", err)
		}
	}
	if dsn == "" {
		return nil, fmt.Errorf("%s driver requires a connection URL", dialect.Name())
	}
	return OpenSQL(dialect, dsn)
}
