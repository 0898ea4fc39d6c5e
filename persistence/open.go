package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Supported storage backends
const (
	TypeJSON     = "json"
	TypePostgres = "postgres"
	TypeMemory   = "memory"
)

// Open creates the storage backend named by storeType
func Open(ctx context.Context, storeType, dsn, file string, logger *zap.Logger) (Storage, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch storeType {
	case TypePostgres:
		logger.Info("Using PostgreSQL persistence")
		return NewPostgresStore(ctx, dsn, logger)
	case TypeMemory:
		logger.Info("Using in-memory persistence")
		return NewMemoryStore(), nil
	case TypeJSON, "":
		logger.Info("Using JSON persistence", zap.String("file", file))
		return NewJSONStore(file, logger)
	default:
		return nil, fmt.Errorf("unknown storage type %q", storeType)
	}
}
