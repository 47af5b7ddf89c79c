package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/askbase/askbase/internal/domain"
)

func TestRetrieve_Success(t *testing.T) {
	client := new(MockEmbeddingClient)
	store := new(MockChunkStore)

	embedding := []float32{0.1, 0.2}
	chunks := []*domain.RetrievedChunk{
		{Content: "first", SourceName: "guide", Filename: "guide.md", Score: 0.9},
		{Content: "second", SourceName: "guide", Filename: "guide.md", Score: 0.8},
	}

	client.On("GenerateEmbedding", mock.Anything, "how do tools work").Return(embedding, nil)
	store.On("SearchNearest", mock.Anything, embedding, DefaultRetrievalLimit, "").Return(chunks, nil)

	svc := NewRetrievalService(client, store)

	results := svc.Retrieve(context.Background(), "how do tools work", RetrieveOptions{})
	require.Len(t, results, 2)
	assert.Equal(t, "first", results[0].Content)
}

func TestRetrieve_CustomLimitAndSourceFilter(t *testing.T) {
	client := new(MockEmbeddingClient)
	store := new(MockChunkStore)

	client.On("GenerateEmbedding", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	store.On("SearchNearest", mock.Anything, mock.Anything, 3, "Tech With Tim").
		Return([]*domain.RetrievedChunk{}, nil)

	svc := NewRetrievalService(client, store)

	results := svc.Retrieve(context.Background(), "query", RetrieveOptions{Limit: 3, SourceName: "Tech With Tim"})
	assert.Empty(t, results)
	store.AssertExpectations(t)
}

func TestRetrieve_EmbeddingFailureReturnsEmpty(t *testing.T) {
	client := new(MockEmbeddingClient)
	store := new(MockChunkStore)

	client.On("GenerateEmbedding", mock.Anything, mock.Anything).Return(nil, errors.New("quota exceeded"))

	svc := NewRetrievalService(client, store)

	results := svc.Retrieve(context.Background(), "query", RetrieveOptions{})
	assert.Empty(t, results)
	store.AssertNotCalled(t, "SearchNearest")
}

func TestRetrieve_SearchFailureReturnsEmpty(t *testing.T) {
	client := new(MockEmbeddingClient)
	store := new(MockChunkStore)

	client.On("GenerateEmbedding", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	store.On("SearchNearest", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	svc := NewRetrievalService(client, store)

	results := svc.Retrieve(context.Background(), "query", RetrieveOptions{})
	assert.Empty(t, results)
}

func TestListSources(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store := new(MockChunkStore)
		store.On("ListSources", mock.Anything).Return([]string{"alpha", "beta"}, nil)

		svc := NewRetrievalService(new(MockEmbeddingClient), store)

		sources, err := svc.ListSources(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"alpha", "beta"}, sources)
	})

	t.Run("nil from store becomes empty slice", func(t *testing.T) {
		store := new(MockChunkStore)
		store.On("ListSources", mock.Anything).Return([]string(nil), nil)

		svc := NewRetrievalService(new(MockEmbeddingClient), store)

		sources, err := svc.ListSources(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, sources)
		assert.Empty(t, sources)
	})

	t.Run("store failure wraps error", func(t *testing.T) {
		store := new(MockChunkStore)
		store.On("ListSources", mock.Anything).Return(nil, errors.New("down"))

		svc := NewRetrievalService(new(MockEmbeddingClient), store)

		_, err := svc.ListSources(context.Background())
		require.Error(t, err)
		assert.Equal(t, domain.ErrCodeStore, domain.ErrorCode(err))
	})
}
