package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/askbase/askbase/internal/domain"
)

// ChunkRepository persists indexed document chunks and answers
// nearest-neighbor queries against their embeddings.
type ChunkRepository struct {
	pool *pgxpool.Pool
}

func NewChunkRepository(pool *pgxpool.Pool) *ChunkRepository {
	return &ChunkRepository{pool: pool}
}

// Upsert writes an indexed chunk. A chunk id already present in the store is
// overwritten: re-ingesting a document with the same filename replaces its
// prior records (last writer wins).
func (r *ChunkRepository) Upsert(ctx context.Context, chunk *domain.IndexedChunk) error {
	createdAt := chunk.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO document_chunks
			(id, source, source_name, chunk_index, total_chunks, content, embedding, created_at)
		 VALUES
			($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (id) DO UPDATE SET
			source = EXCLUDED.source,
			source_name = EXCLUDED.source_name,
			chunk_index = EXCLUDED.chunk_index,
			total_chunks = EXCLUDED.total_chunks,
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			created_at = EXCLUDED.created_at`,
		chunk.ID,
		chunk.Source,
		chunk.SourceName,
		chunk.ChunkIndex,
		chunk.TotalChunks,
		chunk.Content,
		pgvector.NewVector(chunk.Embedding),
		createdAt,
	)
	return err
}

// SearchNearest returns up to limit chunks ranked by cosine similarity to
// the query embedding, nearest first. A non-empty sourceName restricts the
// search to that source label.
func (r *ChunkRepository) SearchNearest(ctx context.Context, embedding []float32, limit int, sourceName string) ([]*domain.RetrievedChunk, error) {
	if limit <= 0 {
		limit = 5
	}

	vec := pgvector.NewVector(embedding)

	query := `
		SELECT content, source_name, source,
		       1.0 / (1.0 + (embedding <=> $1)) AS score
		FROM document_chunks
		ORDER BY score DESC
		LIMIT $2`
	args := []interface{}{vec, limit}

	if sourceName != "" {
		query = `
		SELECT content, source_name, source,
		       1.0 / (1.0 + (embedding <=> $1)) AS score
		FROM document_chunks
		WHERE source_name = $2
		ORDER BY score DESC
		LIMIT $3`
		args = []interface{}{vec, sourceName, limit}
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]*domain.RetrievedChunk, 0)
	for rows.Next() {
		var result domain.RetrievedChunk
		if err := rows.Scan(&result.Content, &result.SourceName, &result.Filename, &result.Score); err != nil {
			return nil, err
		}
		results = append(results, &result)
	}

	return results, rows.Err()
}

// ListSources returns the distinct source labels currently indexed.
func (r *ChunkRepository) ListSources(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT source_name FROM document_chunks ORDER BY source_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sources := make([]string, 0)
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}

	return sources, rows.Err()
}

// DeleteAll removes every indexed chunk and reports how many were removed.
// An empty store is not an error.
func (r *ChunkRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM document_chunks`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DeleteBySource removes only chunks whose source label matches sourceName.
func (r *ChunkRepository) DeleteBySource(ctx context.Context, sourceName string) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM document_chunks WHERE source_name = $1`, sourceName)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
