// Package document persists and searches documents in Postgres/pgvector.
package document

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/kahwa-ai/brewrag/internal/db/postgres"
	"github.com/kahwa-ai/brewrag/internal/domain"
)

// Repo stores documents in the shared documents table, one row per
// (collection, id).
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a document repository.
func New(store *postgres.Store) *Repo {
	return &Repo{pool: store.Pool()}
}

// Upsert inserts or replaces a document. Idempotent by document ID:
// re-indexing the same external record overwrites the prior row.
func (r *Repo) Upsert(ctx context.Context, collection string, doc domain.Document) error {
	meta, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO documents (collection, id, content, metadata, embedding, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (collection, id) DO UPDATE SET
			content    = EXCLUDED.content,
			metadata   = EXCLUDED.metadata,
			embedding  = EXCLUDED.embedding,
			updated_at = now()`,
		collection, doc.ID, doc.Text, meta, pgvector.NewVector(doc.Vector),
	)
	if err != nil {
		return fmt.Errorf("upsert document %s: %w", doc.ID, err)
	}
	return nil
}

// SearchKNN returns up to topK documents ordered by descending cosine
// similarity. Ties are broken by ascending document ID so repeated calls
// return the same ordering. filters is an exact-match conjunction on
// metadata (jsonb containment); an empty collection or a filter matching
// nothing yields an empty slice, not an error.
func (r *Repo) SearchKNN(
	ctx context.Context, collection string,
	vector []float32, filters domain.Metadata, topK int,
) ([]domain.ScoredDocument, error) {
	sql, args, err := buildSearchSQL(collection, vector, filters, topK)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}
	defer rows.Close()

	var results []domain.ScoredDocument
	for rows.Next() {
		var (
			doc   domain.ScoredDocument
			meta  []byte
			score float64
		)
		if err := rows.Scan(&doc.ID, &doc.Text, &meta, &score); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		if err := json.Unmarshal(meta, &doc.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata for %s: %w", doc.ID, err)
		}
		doc.Score = score
		results = append(results, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return results, nil
}

// buildSearchSQL assembles the KNN query. Filters go through jsonb
// containment with bound parameters only; filter keys are validated
// against the domain schema before this point, and no caller input is
// interpolated into the SQL text.
func buildSearchSQL(
	collection string, vector []float32, filters domain.Metadata, topK int,
) (string, []any, error) {
	if topK <= 0 {
		return "", nil, fmt.Errorf("topK must be positive, got %d", topK)
	}

	sql := `
		SELECT id, content, metadata, 1 - (embedding <=> $2) AS score
		FROM documents
		WHERE collection = $1`
	args := []any{collection, pgvector.NewVector(vector)}

	if len(filters) > 0 {
		filterJSON, err := json.Marshal(filters)
		if err != nil {
			return "", nil, fmt.Errorf("marshal filters: %w", err)
		}
		sql += ` AND metadata @> $3::jsonb`
		args = append(args, filterJSON)
	}

	sql += fmt.Sprintf(` ORDER BY embedding <=> $2, id LIMIT $%d`, len(args)+1)
	args = append(args, topK)

	return sql, args, nil
}

// Count returns the number of documents in a collection.
func (r *Repo) Count(ctx context.Context, collection string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM documents WHERE collection = $1`, collection,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

// PruneExcept deletes documents whose IDs are not in keep, removing
// records that disappeared upstream since the last index run. Returns the
// number of deleted rows. An empty keep list is rejected to avoid wiping
// a collection after a failed fetch.
func (r *Repo) PruneExcept(ctx context.Context, collection string, keep []string) (int64, error) {
	if len(keep) == 0 {
		return 0, fmt.Errorf("refusing to prune with empty keep list")
	}
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM documents WHERE collection = $1 AND NOT (id = ANY($2))`,
		collection, keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune documents: %w", err)
	}
	return tag.RowsAffected(), nil
}
