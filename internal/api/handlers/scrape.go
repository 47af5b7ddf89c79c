package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/askbase/askbase/internal/api"
)

// PageScraper fetches a web page and persists it as an ingestable file.
type PageScraper interface {
	ScrapeToFile(ctx context.Context, url string) (string, error)
}

type ScrapeHandler struct {
	scraper PageScraper
	ingest  IngestPipeline
}

func NewScrapeHandler(scraper PageScraper, ingest IngestPipeline) *ScrapeHandler {
	return &ScrapeHandler{
		scraper: scraper,
		ingest:  ingest,
	}
}

type ScrapeRequest struct {
	URL string `json:"url"`
}

type ScrapeResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Message string `json:"message"`
}

// Scrape replaces the indexed corpus with the content of one web page: the
// store is cleared first, then the page is fetched and ingested.
func (h *ScrapeHandler) Scrape(w http.ResponseWriter, r *http.Request) {
	var req ScrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.URL == "" {
		api.Error(w, http.StatusBadRequest, "url is required")
		return
	}

	parsed, err := url.Parse(req.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		api.Error(w, http.StatusBadRequest, "url must be absolute")
		return
	}

	if _, err := h.ingest.ClearAll(r.Context()); err != nil {
		api.HandleError(w, err)
		return
	}

	path, err := h.scraper.ScrapeToFile(r.Context(), req.URL)
	if err != nil {
		api.HandleError(w, err)
		return
	}
	defer os.Remove(path)

	result, err := h.ingest.IngestFile(r.Context(), path)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, ScrapeResponse{
		Success: true,
		URL:     req.URL,
		Message: fmt.Sprintf("scraped and embedded %d of %d chunks", result.ChunksIndexed, result.TotalChunks),
	})
}
