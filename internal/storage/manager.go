package storage

import (
	"context"
	"fmt"

	"mercado-libre-api/internal/config"
	"mercado-libre-api/internal/database"

	"go.uber.org/zap"
)

// New opens the backend selected by cfg.Storage.Driver
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Backend, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverFile:
		backend := NewFileBackend(cfg.Storage.DataFile)
		logger.Info("Using file storage", zap.String("path", backend.Path()))
		return backend, nil

	case config.StorageDriverPostgres:
		db, err := database.Open(ctx, cfg.Database)
		if err != nil {
			return nil, err
		}

		logger.Info("Database health check", zap.Any("health", database.Health(ctx, db)))

		if err := database.RunMigrations(db, logger); err != nil {
			db.Close()
			return nil, err
		}
		return NewPostgresBackend(db), nil

	case config.StorageDriverS3:
		backend, err := NewS3Backend(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		logger.Info("Using s3 storage",
			zap.String("bucket", cfg.S3.Bucket),
			zap.String("key", cfg.S3.Key),
		)
		return backend, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
