package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/askbase/askbase/internal/domain"
	"github.com/askbase/askbase/internal/telemetry"
)

// ContextRetriever fetches relevant chunks for a question.
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string, opts RetrieveOptions) []*domain.RetrievedChunk
}

// AnswerGenerator produces a grounded answer from a question and context.
type AnswerGenerator interface {
	GenerateAnswer(ctx context.Context, question, contextText string) (string, error)
}

// ChatResult is the outcome of answering one question.
type ChatResult struct {
	Answer       string
	SourcesUsed  []string
	NumDocuments int
}

// ChatService answers questions grounded in retrieved document context.
type ChatService struct {
	retriever ContextRetriever
	generator AnswerGenerator
}

func NewChatService(retriever ContextRetriever, generator AnswerGenerator) *ChatService {
	return &ChatService{
		retriever: retriever,
		generator: generator,
	}
}

// Answer retrieves context for the prompt and generates a grounded answer.
// When sourceName is non-empty, retrieval is restricted to that source.
// Generation failures produce an error-marker answer rather than failing the
// call, so the caller always gets a response body.
func (s *ChatService) Answer(ctx context.Context, prompt, sourceName string) (*ChatResult, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, domain.ErrMissingRequiredField
	}

	ctx, span := telemetry.StartSpan(ctx, "ChatService.Answer", telemetry.SpanAttributes{
		Source:    sourceName,
		Operation: "chat",
	})
	defer span.End()

	chunks := s.retriever.Retrieve(ctx, prompt, RetrieveOptions{SourceName: sourceName})

	contextText := buildContext(chunks)
	sourcesUsed := distinctSources(chunks)

	answer, err := s.generator.GenerateAnswer(ctx, prompt, contextText)
	if err != nil {
		log.Printf("chat: answer generation failed: %v", err)
		telemetry.CaptureError(ctx, err)
		answer = fmt.Sprintf("Error generating response: %v", err)
	}

	return &ChatResult{
		Answer:       answer,
		SourcesUsed:  sourcesUsed,
		NumDocuments: len(chunks),
	}, nil
}

// buildContext joins retrieved chunk contents into one prompt context block.
func buildContext(chunks []*domain.RetrievedChunk) string {
	if len(chunks) == 0 {
		return "No relevant documents found."
	}

	parts := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		parts = append(parts, chunk.Content)
	}
	return strings.Join(parts, "\n\n")
}

// distinctSources returns the unique source labels in retrieval order.
func distinctSources(chunks []*domain.RetrievedChunk) []string {
	seen := make(map[string]bool, len(chunks))
	sources := []string{}
	for _, chunk := range chunks {
		if chunk.SourceName == "" || seen[chunk.SourceName] {
			continue
		}
		seen[chunk.SourceName] = true
		sources = append(sources, chunk.SourceName)
	}
	return sources
}
