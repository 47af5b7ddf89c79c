package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/askbase/askbase/internal/domain"
)

// MockEmbeddingClient is a mock implementation of EmbeddingClient
type MockEmbeddingClient struct {
	mock.Mock
}

func (m *MockEmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

// MockChunkStore is a mock implementation of ChunkStore
type MockChunkStore struct {
	mock.Mock
}

func (m *MockChunkStore) Upsert(ctx context.Context, chunk *domain.IndexedChunk) error {
	args := m.Called(ctx, chunk)
	return args.Error(0)
}

func (m *MockChunkStore) SearchNearest(ctx context.Context, embedding []float32, limit int, sourceName string) ([]*domain.RetrievedChunk, error) {
	args := m.Called(ctx, embedding, limit, sourceName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RetrievedChunk), args.Error(1)
}

func (m *MockChunkStore) ListSources(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockChunkStore) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChunkStore) DeleteBySource(ctx context.Context, sourceName string) (int64, error) {
	args := m.Called(ctx, sourceName)
	return args.Get(0).(int64), args.Error(1)
}

// MockDocumentArchiver is a mock implementation of DocumentArchiver
type MockDocumentArchiver struct {
	mock.Mock
}

func (m *MockDocumentArchiver) ArchiveDocument(ctx context.Context, filename string, content []byte) error {
	args := m.Called(ctx, filename, content)
	return args.Error(0)
}

// MockContextRetriever is a mock implementation of ContextRetriever
type MockContextRetriever struct {
	mock.Mock
}

func (m *MockContextRetriever) Retrieve(ctx context.Context, query string, opts RetrieveOptions) []*domain.RetrievedChunk {
	args := m.Called(ctx, query, opts)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]*domain.RetrievedChunk)
}

// MockAnswerGenerator is a mock implementation of AnswerGenerator
type MockAnswerGenerator struct {
	mock.Mock
}

func (m *MockAnswerGenerator) GenerateAnswer(ctx context.Context, question, contextText string) (string, error) {
	args := m.Called(ctx, question, contextText)
	return args.String(0), args.Error(1)
}
