package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/askbase/askbase/internal/domain"
	"github.com/askbase/askbase/internal/extract"
	"github.com/askbase/askbase/internal/telemetry"
)

// EmbeddingClient defines the interface for generating embeddings
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// ChunkStore defines the vector store operations the pipelines depend on
type ChunkStore interface {
	Upsert(ctx context.Context, chunk *domain.IndexedChunk) error
	SearchNearest(ctx context.Context, embedding []float32, limit int, sourceName string) ([]*domain.RetrievedChunk, error)
	ListSources(ctx context.Context) ([]string, error)
	DeleteAll(ctx context.Context) (int64, error)
	DeleteBySource(ctx context.Context, sourceName string) (int64, error)
}

// DocumentArchiver persists raw ingested documents to durable storage.
// Archival is best-effort and never fails an ingestion.
type DocumentArchiver interface {
	ArchiveDocument(ctx context.Context, filename string, content []byte) error
}

// TextExtractor converts a file into plain text.
type TextExtractor func(path string) (string, error)

// IngestResult reports the outcome of one document ingestion.
type IngestResult struct {
	Filename      string
	SourceName    string
	TotalChunks   int
	ChunksIndexed int
}

// IngestService runs the extract, chunk, embed, upsert pipeline for one
// document at a time.
type IngestService struct {
	client    EmbeddingClient
	store     ChunkStore
	archiver  DocumentArchiver
	extract   TextExtractor
	chunkSize int
}

// NewIngestService creates an IngestService with the default file extractor.
func NewIngestService(client EmbeddingClient, store ChunkStore, chunkSize int) *IngestService {
	return NewIngestServiceWithExtractor(client, store, extract.Text, chunkSize)
}

// NewIngestServiceWithExtractor allows substituting the text extractor.
func NewIngestServiceWithExtractor(client EmbeddingClient, store ChunkStore, extractor TextExtractor, chunkSize int) *IngestService {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSizeWords
	}
	return &IngestService{
		client:    client,
		store:     store,
		extract:   extractor,
		chunkSize: chunkSize,
	}
}

// SetArchiver enables raw-document archival for subsequent ingestions.
func (s *IngestService) SetArchiver(archiver DocumentArchiver) {
	s.archiver = archiver
}

// IngestFile extracts, chunks, embeds, and indexes the document at path.
// The whole call fails only when extraction yields no text. Per-chunk
// embedding or store failures are logged and skipped: partial ingestion is
// an accepted outcome, so ChunksIndexed may be less than TotalChunks.
func (s *IngestService) IngestFile(ctx context.Context, path string) (*IngestResult, error) {
	ctx, span := telemetry.StartSpan(ctx, "IngestService.IngestFile", telemetry.SpanAttributes{
		Source:    path,
		Operation: "ingest",
	})
	defer span.End()

	text, err := s.extract(path)
	if err != nil {
		span.SetError(err)
		return nil, err
	}

	doc := domain.NewDocument(path, text)
	chunks := ChunkWords(doc.Text, s.chunkSize)

	result := &IngestResult{
		Filename:    doc.Filename,
		SourceName:  doc.SourceName,
		TotalChunks: len(chunks),
	}

	s.archive(ctx, path, doc.Filename)

	createdAt := time.Now().UTC()
	for i, chunk := range chunks {
		if strings.TrimSpace(chunk) == "" {
			continue
		}

		embedding, err := s.client.GenerateEmbedding(ctx, chunk)
		if err != nil {
			log.Printf("ingest: embedding failed for %s chunk %d: %v", doc.Filename, i, err)
			telemetry.CaptureError(ctx, err)
			continue
		}

		record := &domain.IndexedChunk{
			ID:          domain.ChunkID(doc.Filename, i),
			Source:      doc.Filename,
			SourceName:  doc.SourceName,
			ChunkIndex:  i,
			TotalChunks: len(chunks),
			Content:     chunk,
			Embedding:   embedding,
			CreatedAt:   createdAt,
		}

		if err := s.store.Upsert(ctx, record); err != nil {
			log.Printf("ingest: upsert failed for %s chunk %d: %v", doc.Filename, i, err)
			telemetry.CaptureError(ctx, err)
			continue
		}

		result.ChunksIndexed++
	}

	log.Printf("ingest: indexed %d/%d chunks from %s (%s)",
		result.ChunksIndexed, result.TotalChunks, doc.Filename, doc.SourceName)

	return result, nil
}

// ClearAll removes every indexed chunk. An already-empty store is success.
func (s *IngestService) ClearAll(ctx context.Context) (int64, error) {
	ctx, span := telemetry.StartSpan(ctx, "IngestService.ClearAll", telemetry.SpanAttributes{
		Operation: "clear_all",
	})
	defer span.End()

	deleted, err := s.store.DeleteAll(ctx)
	if err != nil {
		span.SetError(err)
		return 0, domain.NewDomainErrorWithCause(domain.ErrCodeStore, "failed to clear documents", err)
	}

	log.Printf("ingest: cleared %d chunks", deleted)
	return deleted, nil
}

// ClearSource removes only chunks belonging to the given source label.
func (s *IngestService) ClearSource(ctx context.Context, sourceName string) (int64, error) {
	if sourceName == "" {
		return 0, domain.ErrMissingRequiredField
	}

	ctx, span := telemetry.StartSpan(ctx, "IngestService.ClearSource", telemetry.SpanAttributes{
		Source:    sourceName,
		Operation: "clear_source",
	})
	defer span.End()

	deleted, err := s.store.DeleteBySource(ctx, sourceName)
	if err != nil {
		span.SetError(err)
		return 0, domain.NewDomainErrorWithCause(domain.ErrCodeStore,
			fmt.Sprintf("failed to clear documents from %s", sourceName), err)
	}

	log.Printf("ingest: cleared %d chunks from source %q", deleted, sourceName)
	return deleted, nil
}

// archive stores the raw document bytes when an archiver is configured.
func (s *IngestService) archive(ctx context.Context, path, filename string) {
	if s.archiver == nil {
		return
	}

	content, err := os.ReadFile(path)
	if err != nil {
		log.Printf("ingest: archive read failed for %s: %v", filename, err)
		return
	}

	if err := s.archiver.ArchiveDocument(ctx, filename, content); err != nil {
		log.Printf("ingest: archive upload failed for %s: %v", filename, err)
	}
}
