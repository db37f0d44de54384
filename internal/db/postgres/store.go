// Package postgres manages the PostgreSQL connection pool and the
// pgvector schema for document storage.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvec "github.com/pgvector/pgvector-go/pgx"

	"github.com/kahwa-ai/brewrag/internal/domain"
)

// Config holds connection and index parameters.
type Config struct {
	DSN             string
	HNSWM           int
	HNSWEFConstruct int
}

// Store wraps a pgx pool with pgvector types registered on every connection.
type Store struct {
	pool   *pgxpool.Pool
	hnswM  int
	hnswEF int
}

// New creates a Postgres store. The connection is lazy; call WaitForReady
// before first use.
func New(ctx context.Context, cfg Config) (*Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	return &Store{pool: pool, hnswM: cfg.HNSWM, hnswEF: cfg.HNSWEFConstruct}, nil
}

// Pool exposes the underlying pool to repositories.
func (s *Store) Pool() *pgxpool.Pool { return s.pool }

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close shuts down the pool.
func (s *Store) Close() {
	s.pool.Close()
}

// WaitForReady polls Ping until the database responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for database: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// EnsureSchema creates the vector extension, the collections registry, and
// the documents table with an HNSW cosine index. If the collection already
// exists with a different dimension, domain.ErrDimensionMismatch is
// returned: the store refuses to mix embedding spaces.
func (s *Store) EnsureSchema(ctx context.Context, collection string, dimensions int) error {
	if dimensions <= 0 {
		return fmt.Errorf("dimensions must be positive, got %d", dimensions)
	}

	if _, err := s.pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("create extension: %w", err)
	}

	if _, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS collections (
			name       text PRIMARY KEY,
			dimensions int  NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("create collections table: %w", err)
	}

	var existing int
	err := s.pool.QueryRow(ctx,
		`INSERT INTO collections (name, dimensions) VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING dimensions`,
		collection, dimensions,
	).Scan(&existing)
	if err != nil {
		return fmt.Errorf("register collection: %w", err)
	}
	if existing != dimensions {
		return fmt.Errorf("collection %q has dimension %d, configured model produces %d: %w",
			collection, existing, dimensions, domain.ErrDimensionMismatch)
	}

	// Dimension is part of the column type, so it is interpolated, not bound.
	// dimensions is validated above and comes from config, never from callers.
	if _, err := s.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS documents (
			collection text NOT NULL REFERENCES collections(name) ON DELETE CASCADE,
			id         text NOT NULL,
			content    text NOT NULL,
			metadata   jsonb NOT NULL DEFAULT '{}'::jsonb,
			embedding  vector(%d) NOT NULL,
			updated_at timestamptz NOT NULL DEFAULT now(),
			PRIMARY KEY (collection, id)
		)`, dimensions)); err != nil {
		return fmt.Errorf("create documents table: %w", err)
	}

	if _, err := s.pool.Exec(ctx, fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS documents_embedding_idx
		ON documents USING hnsw (embedding vector_cosine_ops)
		WITH (m = %d, ef_construction = %d)`, s.hnswM, s.hnswEF)); err != nil {
		return fmt.Errorf("create vector index: %w", err)
	}

	if _, err := s.pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS documents_metadata_idx
		ON documents USING gin (metadata jsonb_path_ops)`); err != nil {
		return fmt.Errorf("create metadata index: %w", err)
	}

	return nil
}
