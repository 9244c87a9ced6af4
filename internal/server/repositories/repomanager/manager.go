package repomanager

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/weynak/weynak/internal/server/config"
	"github.com/weynak/weynak/internal/server/repositories/users"
)

// RepositoryManager owns a storage backend connection and vends the
// repositories built on top of it.
type RepositoryManager interface {
	// RunMigrations brings the backend schema (tables or indexes) up to date.
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Close(ctx context.Context) error
}

// New opens the backend selected by cfg.StorageDriver.
func New(ctx context.Context, cfg *config.Config) (RepositoryManager, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		m, err := NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.StorageMongo:
		m, err := NewMongoRepositoryManager(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.StorageMemory:
		return NewMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// connectBackoff is a seam so tests do not sleep between attempts.
var connectBackoff = func() retry.Backoff {
	return retry.WithMaxRetries(5, retry.NewExponential(200*time.Millisecond))
}

// pingWithRetry keeps pinging while the backend is still starting up.
func pingWithRetry(ctx context.Context, ping func(context.Context) error) error {
	return retry.Do(ctx, connectBackoff(), func(ctx context.Context) error {
		if err := ping(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}
