package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/askbase/askbase/internal/domain"
)

func staticExtractor(text string, err error) TextExtractor {
	return func(path string) (string, error) {
		return text, err
	}
}

func TestIngestFile_Success(t *testing.T) {
	client := new(MockEmbeddingClient)
	store := new(MockChunkStore)

	embedding := []float32{0.1, 0.2, 0.3}
	client.On("GenerateEmbedding", mock.Anything, mock.AnythingOfType("string")).Return(embedding, nil)
	store.On("Upsert", mock.Anything, mock.AnythingOfType("*domain.IndexedChunk")).Return(nil)

	svc := NewIngestServiceWithExtractor(client, store, staticExtractor("one two three four", nil), 2)

	result, err := svc.IngestFile(context.Background(), "/tmp/crewai_tools.md")
	require.NoError(t, err)

	assert.Equal(t, "crewai_tools.md", result.Filename)
	assert.Equal(t, "CrewAI Documentation", result.SourceName)
	assert.Equal(t, 2, result.TotalChunks)
	assert.Equal(t, 2, result.ChunksIndexed)

	client.AssertNumberOfCalls(t, "GenerateEmbedding", 2)
	store.AssertNumberOfCalls(t, "Upsert", 2)
}

func TestIngestFile_ChunkIDsAndMetadata(t *testing.T) {
	client := new(MockEmbeddingClient)
	store := new(MockChunkStore)

	client.On("GenerateEmbedding", mock.Anything, mock.Anything).Return([]float32{0.5}, nil)

	var upserted []*domain.IndexedChunk
	store.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		upserted = append(upserted, args.Get(1).(*domain.IndexedChunk))
	}).Return(nil)

	svc := NewIngestServiceWithExtractor(client, store, staticExtractor("a b c d e", nil), 2)

	_, err := svc.IngestFile(context.Background(), "notes.txt")
	require.NoError(t, err)

	require.Len(t, upserted, 3)
	assert.Equal(t, "notes.txt_0", upserted[0].ID)
	assert.Equal(t, "notes.txt_1", upserted[1].ID)
	assert.Equal(t, "notes.txt_2", upserted[2].ID)
	for i, chunk := range upserted {
		assert.Equal(t, "notes.txt", chunk.Source)
		assert.Equal(t, i, chunk.ChunkIndex)
		assert.Equal(t, 3, chunk.TotalChunks)
		assert.Equal(t, []float32{0.5}, chunk.Embedding)
	}
	assert.Equal(t, "a b", upserted[0].Content)
	assert.Equal(t, "c d", upserted[1].Content)
	assert.Equal(t, "e", upserted[2].Content)
}

func TestIngestFile_ExtractionFailureFailsCall(t *testing.T) {
	client := new(MockEmbeddingClient)
	store := new(MockChunkStore)

	svc := NewIngestServiceWithExtractor(client, store, staticExtractor("", domain.ErrNoTextExtracted), 1000)

	result, err := svc.IngestFile(context.Background(), "empty.pdf")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrNoTextExtracted)

	client.AssertNotCalled(t, "GenerateEmbedding")
	store.AssertNotCalled(t, "Upsert")
}

func TestIngestFile_EmbeddingFailureSkipsChunk(t *testing.T) {
	client := new(MockEmbeddingClient)
	store := new(MockChunkStore)

	// First chunk fails to embed, second succeeds.
	client.On("GenerateEmbedding", mock.Anything, "a b").Return(nil, errors.New("rate limited"))
	client.On("GenerateEmbedding", mock.Anything, "c d").Return([]float32{0.5}, nil)
	store.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	svc := NewIngestServiceWithExtractor(client, store, staticExtractor("a b c d", nil), 2)

	result, err := svc.IngestFile(context.Background(), "doc.txt")
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalChunks)
	assert.Equal(t, 1, result.ChunksIndexed)
	store.AssertNumberOfCalls(t, "Upsert", 1)
}

func TestIngestFile_UpsertFailureSkipsChunk(t *testing.T) {
	client := new(MockEmbeddingClient)
	store := new(MockChunkStore)

	client.On("GenerateEmbedding", mock.Anything, mock.Anything).Return([]float32{0.5}, nil)
	store.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once()
	store.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	svc := NewIngestServiceWithExtractor(client, store, staticExtractor("a b c d", nil), 2)

	result, err := svc.IngestFile(context.Background(), "doc.txt")
	require.NoError(t, err)

	assert.Equal(t, 2, result.TotalChunks)
	assert.Equal(t, 1, result.ChunksIndexed)
}

func TestIngestFile_ArchivesRawDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guide.txt")
	require.NoError(t, os.WriteFile(path, []byte("raw bytes"), 0o644))

	client := new(MockEmbeddingClient)
	store := new(MockChunkStore)
	archiver := new(MockDocumentArchiver)

	client.On("GenerateEmbedding", mock.Anything, mock.Anything).Return([]float32{0.5}, nil)
	store.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	archiver.On("ArchiveDocument", mock.Anything, "guide.txt", []byte("raw bytes")).Return(nil)

	svc := NewIngestServiceWithExtractor(client, store, staticExtractor("some text", nil), 1000)
	svc.SetArchiver(archiver)

	_, err := svc.IngestFile(context.Background(), path)
	require.NoError(t, err)

	archiver.AssertExpectations(t)
}

func TestIngestFile_ArchiveFailureDoesNotFailIngestion(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "guide.txt")
	require.NoError(t, os.WriteFile(path, []byte("raw bytes"), 0o644))

	client := new(MockEmbeddingClient)
	store := new(MockChunkStore)
	archiver := new(MockDocumentArchiver)

	client.On("GenerateEmbedding", mock.Anything, mock.Anything).Return([]float32{0.5}, nil)
	store.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	archiver.On("ArchiveDocument", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("bucket unavailable"))

	svc := NewIngestServiceWithExtractor(client, store, staticExtractor("some text", nil), 1000)
	svc.SetArchiver(archiver)

	result, err := svc.IngestFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ChunksIndexed)
}

func TestClearAll(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store := new(MockChunkStore)
		store.On("DeleteAll", mock.Anything).Return(int64(42), nil)

		svc := NewIngestService(new(MockEmbeddingClient), store, 0)

		deleted, err := svc.ClearAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(42), deleted)
	})

	t.Run("empty store succeeds", func(t *testing.T) {
		store := new(MockChunkStore)
		store.On("DeleteAll", mock.Anything).Return(int64(0), nil)

		svc := NewIngestService(new(MockEmbeddingClient), store, 0)

		deleted, err := svc.ClearAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(0), deleted)
	})

	t.Run("store failure wraps error", func(t *testing.T) {
		store := new(MockChunkStore)
		store.On("DeleteAll", mock.Anything).Return(int64(0), errors.New("down"))

		svc := NewIngestService(new(MockEmbeddingClient), store, 0)

		_, err := svc.ClearAll(context.Background())
		require.Error(t, err)
		assert.Equal(t, domain.ErrCodeStore, domain.ErrorCode(err))
	})
}

func TestClearSource(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store := new(MockChunkStore)
		store.On("DeleteBySource", mock.Anything, "CrewAI Documentation").Return(int64(7), nil)

		svc := NewIngestService(new(MockEmbeddingClient), store, 0)

		deleted, err := svc.ClearSource(context.Background(), "CrewAI Documentation")
		require.NoError(t, err)
		assert.Equal(t, int64(7), deleted)
	})

	t.Run("empty source name rejected", func(t *testing.T) {
		store := new(MockChunkStore)

		svc := NewIngestService(new(MockEmbeddingClient), store, 0)

		_, err := svc.ClearSource(context.Background(), "")
		assert.ErrorIs(t, err, domain.ErrMissingRequiredField)
		store.AssertNotCalled(t, "DeleteBySource")
	})
}
