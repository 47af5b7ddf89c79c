package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/askbase/askbase/internal/api"
	"github.com/askbase/askbase/internal/domain"
	"github.com/askbase/askbase/internal/service"
)

// IngestPipeline covers the ingestion operations the document endpoints need.
type IngestPipeline interface {
	IngestFile(ctx context.Context, path string) (*service.IngestResult, error)
	ClearAll(ctx context.Context) (int64, error)
	ClearSource(ctx context.Context, sourceName string) (int64, error)
}

// SourceLister enumerates indexed source labels.
type SourceLister interface {
	ListSources(ctx context.Context) ([]string, error)
}

type DocumentHandler struct {
	ingest    IngestPipeline
	sources   SourceLister
	uploadDir string
}

func NewDocumentHandler(ingest IngestPipeline, sources SourceLister, uploadDir string) *DocumentHandler {
	return &DocumentHandler{
		ingest:    ingest,
		sources:   sources,
		uploadDir: uploadDir,
	}
}

type UploadResponse struct {
	Filename      string `json:"filename"`
	Status        string `json:"status"`
	ChunksIndexed int    `json:"chunks_indexed"`
	TotalChunks   int    `json:"total_chunks"`
}

type SourcesResponse struct {
	Sources []string `json:"sources"`
}

type ClearResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}

type ClearSourceRequest struct {
	SourceName string `json:"source_name"`
}

// Upload accepts a multipart document, stages it on disk, and runs the
// ingestion pipeline. The staged file is removed afterwards. Extraction
// failures (unsupported format, corrupt file, no text) report a per-file
// "failed" status rather than an error response.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	filename := filepath.Base(header.Filename)

	if err := os.MkdirAll(h.uploadDir, 0o755); err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to stage upload")
		return
	}

	path := filepath.Join(h.uploadDir, filename)
	dst, err := os.Create(path)
	if err != nil {
		api.Error(w, http.StatusInternalServerError, "failed to stage upload")
		return
	}
	defer os.Remove(path)

	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		api.Error(w, http.StatusInternalServerError, "failed to stage upload")
		return
	}
	dst.Close()

	result, err := h.ingest.IngestFile(r.Context(), path)
	if err != nil {
		if domain.ErrorCode(err) == domain.ErrCodeExtraction {
			api.Success(w, http.StatusOK, UploadResponse{
				Filename: filename,
				Status:   "failed",
			})
			return
		}
		api.HandleError(w, err)
		return
	}

	status := "embedded"
	if result.TotalChunks > 0 && result.ChunksIndexed == 0 {
		status = "failed"
	}

	api.Success(w, http.StatusOK, UploadResponse{
		Filename:      result.Filename,
		Status:        status,
		ChunksIndexed: result.ChunksIndexed,
		TotalChunks:   result.TotalChunks,
	})
}

// Sources lists the distinct source labels currently indexed.
func (h *DocumentHandler) Sources(w http.ResponseWriter, r *http.Request) {
	sources, err := h.sources.ListSources(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, SourcesResponse{Sources: sources})
}

// ClearAll deletes every indexed chunk.
func (h *DocumentHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.ingest.ClearAll(r.Context())
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, ClearResponse{
		Message: "all documents cleared",
		Deleted: deleted,
	})
}

// ClearSource deletes the chunks belonging to one source label.
func (h *DocumentHandler) ClearSource(w http.ResponseWriter, r *http.Request) {
	var req ClearSourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.SourceName == "" {
		api.Error(w, http.StatusBadRequest, "source_name is required")
		return
	}

	deleted, err := h.ingest.ClearSource(r.Context(), req.SourceName)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, ClearResponse{
		Message: "source cleared: " + req.SourceName,
		Deleted: deleted,
	})
}
