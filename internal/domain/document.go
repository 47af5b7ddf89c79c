package domain

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Document represents one ingested unit: an uploaded file or a scraped page.
// It exists only long enough to produce chunks and is never persisted itself.
type Document struct {
	Filename   string
	SourceName string
	Text       string
}

// NewDocument builds a Document from a file path and its extracted text.
// The source name is derived from the filename (see SourceNameFromFilename).
func NewDocument(path, text string) *Document {
	filename := filepath.Base(path)
	return &Document{
		Filename:   filename,
		SourceName: SourceNameFromFilename(filename),
		Text:       text,
	}
}

// knownSources maps filename keywords to curated display labels.
var knownSources = map[string]string{
	"crewai":      "CrewAI Documentation",
	"techwithtim": "Tech With Tim",
}

// SourceNameFromFilename derives a human-readable source label from a
// filename. Known keywords map to curated labels; everything else gets a
// normalized form of the filename (underscores to spaces, .md stripped).
func SourceNameFromFilename(filename string) string {
	lower := strings.ToLower(filename)
	for keyword, label := range knownSources {
		if strings.Contains(lower, keyword) {
			return label
		}
	}

	name := strings.TrimSuffix(filename, ".md")
	return strings.ReplaceAll(name, "_", " ")
}

// Chunk is a contiguous word-window slice of a document's text.
type Chunk struct {
	Index       int
	Text        string
	TotalChunks int
}

// IndexedChunk is the persisted unit in the vector store: a chunk, its
// embedding, and the source metadata needed to attribute retrieval results.
type IndexedChunk struct {
	ID          string
	Source      string // original filename
	SourceName  string // display label
	ChunkIndex  int
	TotalChunks int
	Content     string
	Embedding   []float32
	CreatedAt   time.Time
}

// ChunkID derives the deterministic store id for a chunk of a document.
// Re-ingesting a document with the same filename produces the same ids, so
// the store upserts and the last writer wins.
func ChunkID(filename string, index int) string {
	return fmt.Sprintf("%s_%d", filename, index)
}

// RetrievedChunk is one ranked retrieval result for a query.
type RetrievedChunk struct {
	Content    string
	SourceName string
	Filename   string
	Score      float32
}
