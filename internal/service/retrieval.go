package service

import (
	"context"
	"log"

	"github.com/askbase/askbase/internal/domain"
	"github.com/askbase/askbase/internal/telemetry"
)

// DefaultRetrievalLimit is the number of chunks fetched per query when the
// caller does not specify one.
const DefaultRetrievalLimit = 5

// RetrieveOptions narrows a retrieval query.
type RetrieveOptions struct {
	// Limit caps the number of chunks returned. Zero means DefaultRetrievalLimit.
	Limit int
	// SourceName restricts results to a single source label when non-empty.
	SourceName string
}

// RetrievalService answers similarity queries against the indexed corpus.
type RetrievalService struct {
	client EmbeddingClient
	store  ChunkStore
}

func NewRetrievalService(client EmbeddingClient, store ChunkStore) *RetrievalService {
	return &RetrievalService{
		client: client,
		store:  store,
	}
}

// Retrieve embeds the query and returns the nearest chunks by cosine
// similarity. Retrieval degrades to an empty result set on embedding or
// search failure rather than failing the caller: answering with no context
// beats answering with an error.
func (s *RetrievalService) Retrieve(ctx context.Context, query string, opts RetrieveOptions) []*domain.RetrievedChunk {
	ctx, span := telemetry.StartSpan(ctx, "RetrievalService.Retrieve", telemetry.SpanAttributes{
		Source:    opts.SourceName,
		Operation: "retrieve",
	})
	defer span.End()

	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultRetrievalLimit
	}

	embedding, err := s.client.GenerateEmbedding(ctx, query)
	if err != nil {
		log.Printf("retrieval: query embedding failed: %v", err)
		telemetry.CaptureError(ctx, err)
		return nil
	}

	chunks, err := s.store.SearchNearest(ctx, embedding, limit, opts.SourceName)
	if err != nil {
		log.Printf("retrieval: search failed: %v", err)
		telemetry.CaptureError(ctx, err)
		return nil
	}

	return chunks
}

// ListSources returns the distinct source labels currently indexed.
func (s *RetrievalService) ListSources(ctx context.Context) ([]string, error) {
	sources, err := s.store.ListSources(ctx)
	if err != nil {
		return nil, domain.NewDomainErrorWithCause(domain.ErrCodeStore, "failed to list sources", err)
	}
	if sources == nil {
		sources = []string{}
	}
	return sources, nil
}
