package service

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeWords(n int) string {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(words, " ")
}

func TestChunkWords_Empty(t *testing.T) {
	assert.Nil(t, ChunkWords("", 1000))
	assert.Nil(t, ChunkWords("   \n\t  ", 1000))
}

func TestChunkWords_SingleChunk(t *testing.T) {
	chunks := ChunkWords("one two three", 1000)
	require.Len(t, chunks, 1)
	assert.Equal(t, "one two three", chunks[0])
}

func TestChunkWords_ExactMultiple(t *testing.T) {
	chunks := ChunkWords(makeWords(2000), 1000)
	require.Len(t, chunks, 2)
	assert.Len(t, strings.Fields(chunks[0]), 1000)
	assert.Len(t, strings.Fields(chunks[1]), 1000)
}

func TestChunkWords_PartialFinalChunk(t *testing.T) {
	chunks := ChunkWords(makeWords(2500), 1000)
	require.Len(t, chunks, 3)
	assert.Len(t, strings.Fields(chunks[0]), 1000)
	assert.Len(t, strings.Fields(chunks[1]), 1000)
	assert.Len(t, strings.Fields(chunks[2]), 500)
}

func TestChunkWords_LosslessConcatenation(t *testing.T) {
	text := makeWords(2371)
	chunks := ChunkWords(text, 700)

	var rejoined []string
	for _, c := range chunks {
		rejoined = append(rejoined, strings.Fields(c)...)
	}
	assert.Equal(t, strings.Fields(text), rejoined)
}

func TestChunkWords_NormalizesWhitespace(t *testing.T) {
	chunks := ChunkWords("one\t two \n\n three", 2)
	require.Len(t, chunks, 2)
	assert.Equal(t, "one two", chunks[0])
	assert.Equal(t, "three", chunks[1])
}

func TestChunkWords_ChunkCount(t *testing.T) {
	tests := []struct {
		words    int
		size     int
		expected int
	}{
		{1, 1000, 1},
		{999, 1000, 1},
		{1000, 1000, 1},
		{1001, 1000, 2},
		{2500, 1000, 3},
		{10, 3, 4},
	}

	for _, tt := range tests {
		chunks := ChunkWords(makeWords(tt.words), tt.size)
		assert.Len(t, chunks, tt.expected, "words=%d size=%d", tt.words, tt.size)
	}
}

func TestChunkWords_ZeroSizeUsesDefault(t *testing.T) {
	chunks := ChunkWords(makeWords(1500), 0)
	assert.Len(t, chunks, 2)
}
