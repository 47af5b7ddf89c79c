package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/askbase/askbase/internal/api"
)

// ArchiveStore manages the raw archived originals of ingested documents.
type ArchiveStore interface {
	GenerateDownloadURL(ctx context.Context, key string) (string, error)
	DeleteObject(ctx context.Context, key string) error
}

// ArchiveHandler serves the archived originals kept in durable storage. It is
// only mounted when archival is configured.
type ArchiveHandler struct {
	store ArchiveStore
}

func NewArchiveHandler(store ArchiveStore) *ArchiveHandler {
	return &ArchiveHandler{store: store}
}

type DownloadResponse struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// Download returns a time-limited URL for fetching the archived original of
// an ingested document.
func (h *ArchiveHandler) Download(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if filename == "" {
		api.Error(w, http.StatusBadRequest, "filename is required")
		return
	}

	url, err := h.store.GenerateDownloadURL(r.Context(), filename)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, DownloadResponse{
		Filename: filename,
		URL:      url,
	})
}

// Delete removes the archived original of a document. The indexed chunks are
// unaffected; use the clear endpoints for those.
func (h *ArchiveHandler) Delete(w http.ResponseWriter, r *http.Request) {
	filename := chi.URLParam(r, "filename")
	if filename == "" {
		api.Error(w, http.StatusBadRequest, "filename is required")
		return
	}

	if err := h.store.DeleteObject(r.Context(), filename); err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, map[string]string{
		"message": "archived document deleted: " + filename,
	})
}
