package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/passcheck/passcheck-go/internal/config"
	"github.com/passcheck/passcheck-go/internal/repository"
	"github.com/passcheck/passcheck-go/internal/service"
)

type stores struct {
	index service.FingerprintIndex
	sink  service.MetadataSink
	close func()
}

// openStores connects the fingerprint index and metadata sink selected by
// INDEX_DRIVER.
func openStores(cfg config.Config, logger *slog.Logger) (*stores, error) {
	switch cfg.IndexDriver {
	case "memory", "":
		return memoryStores(logger), nil

	case "redis":
		rdb, err := repository.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return &stores{
			index: repository.NewRedisFingerprintIndex(rdb),
			sink:  repository.NewSlogMetadataSink(logger),
			close: func() { rdb.Close() },
		}, nil

	default:
		dialect, err := repository.DialectByName(cfg.IndexDriver)
		if err != nil {
			return nil, err
		}
		db, err := repository.NewDB(dialect, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("connecting to %s: %w", dialect.Name(), err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repository.EnsureSchema(ctx, db, dialect); err != nil {
			db.Close()
			return nil, fmt.Errorf("ensuring schema: %w", err)
		}

		return &stores{
			index: repository.NewSQLFingerprintIndex(db, dialect),
			sink:  repository.NewMetadataRepository(db, dialect),
			close: func() { db.Close() },
		}, nil
	}
}

func memoryStores(logger *slog.Logger) *stores {
	return &stores{
		index: repository.NewMemoryFingerprintIndex(),
		sink:  repository.NewSlogMetadataSink(logger),
		close: func() {},
	}
}
