// Package postgres implements the repository ports over PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/seshop/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// Config holds connection settings.
type Config struct {
	URL      string
	MaxConns int32
	Options  repository.Options
}

// Store is a repository.Store backed by a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
	opts repository.Options
}

// Compile-time check that Store implements repository.Store.
var _ repository.Store = (*Store)(nil)

// Open creates the pool and pings the server. Run migrations and
// EnsureIndexes before serving.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*Store, error) {
	if cfg.URL == "" {
		return nil, errors.New("postgres: DATABASE_URL is required")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("postgres connected",
		"max_conns", poolCfg.MaxConns,
		"unique_cart_product", cfg.Options.UniqueCartProduct,
	)
	return &Store{pool: pool, opts: cfg.Options}, nil
}

// SQLDB returns a database/sql handle sharing the pool, for goose.
func (s *Store) SQLDB() *sql.DB {
	return stdlib.OpenDBFromPool(s.pool)
}

// EnsureIndexes creates or drops the unique product_id index on cart_items
// to match the UniqueCartProduct option.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	stmt := `DROP INDEX IF EXISTS cart_items_product_id_unique`
	if s.opts.UniqueCartProduct {
		stmt = `CREATE UNIQUE INDEX IF NOT EXISTS cart_items_product_id_unique ON cart_items (product_id)`
	}
	if _, err := s.pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("failed to apply cart product index: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	s.pool.Close()
	return nil
}

// parseID validates a UUID primary key. A malformed id cannot match a row.
func parseID(id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, repository.ErrNotFound
	}
	return parsed, nil
}

// translate maps pgx errors onto repository errors.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return repository.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrDuplicate
	}
	return fmt.Errorf("postgres %s: %w", op, err)
}
