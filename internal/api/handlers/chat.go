package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/askbase/askbase/internal/api"
	"github.com/askbase/askbase/internal/service"
)

// ChatAnswerer answers questions grounded in the indexed corpus.
type ChatAnswerer interface {
	Answer(ctx context.Context, prompt, sourceName string) (*service.ChatResult, error)
}

type ChatHandler struct {
	svc ChatAnswerer
}

func NewChatHandler(svc ChatAnswerer) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type ChatRequest struct {
	Prompt     string `json:"prompt"`
	SourceName string `json:"source_name"`
}

type ChatResponse struct {
	Answer       string   `json:"answer"`
	SourcesUsed  []string `json:"sources_used"`
	NumDocuments int      `json:"num_documents"`
}

// Chat answers a question using retrieved document context. source_name
// optionally restricts retrieval to one source.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Prompt == "" {
		api.Error(w, http.StatusBadRequest, "prompt is required")
		return
	}

	result, err := h.svc.Answer(r.Context(), req.Prompt, req.SourceName)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, ChatResponse{
		Answer:       result.Answer,
		SourcesUsed:  result.SourcesUsed,
		NumDocuments: result.NumDocuments,
	})
}
