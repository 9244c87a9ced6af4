// Package repomanager opens the configured storage backend, runs its
// migrations and hands out repositories bound to it.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/weynak/weynak/internal/server/migrations"
	"github.com/weynak/weynak/internal/server/repositories/users"
)

// PostgresRepositoryManager vends PostgreSQL-backed repositories and
// applies the embedded goose migrations.
type PostgresRepositoryManager struct {
	db *sql.DB
}

// sqlOpen is a seam for tests.
var sqlOpen = sql.Open

// NewPostgresRepositoryManager opens a pgx pool for dsn and waits until the
// server answers a ping.
func NewPostgresRepositoryManager(ctx context.Context, dsn string) (*PostgresRepositoryManager, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	if err := pingWithRetry(ctx, db.PingContext); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	return &PostgresRepositoryManager{db: db}, nil
}

// Users returns a users.Repository bound to the manager's pool.
func (m *PostgresRepositoryManager) Users() users.Repository {
	return users.NewPostgresRepository(m.db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}

func (m *PostgresRepositoryManager) Close(_ context.Context) error {
	return m.db.Close()
}
