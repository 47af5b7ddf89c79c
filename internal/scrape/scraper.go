// Package scrape fetches web pages and converts them to ingestable markdown
// files.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/askbase/askbase/internal/domain"
)

const (
	// DefaultTimeout bounds the page fetch; a slow site degrades to a
	// fetch failure instead of holding the request open.
	DefaultTimeout = 30 * time.Second

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

	maxFilenameLen = 30
)

// Scraper fetches pages and persists their text content as markdown files
// under OutputDir for the ingestion pipeline to pick up.
type Scraper struct {
	client    *http.Client
	outputDir string
}

// Config holds scraper configuration.
type Config struct {
	OutputDir string
	Timeout   time.Duration
}

// New creates a Scraper writing markdown files to cfg.OutputDir.
func New(cfg Config) *Scraper {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	outputDir := cfg.OutputDir
	if outputDir == "" {
		outputDir = "scraped_content"
	}
	return &Scraper{
		client:    &http.Client{Timeout: timeout},
		outputDir: outputDir,
	}
}

// Fetch retrieves the page at url and returns its readable text content.
// Network errors, non-2xx statuses, and pages with no text all surface as a
// FETCH_FAILED domain error.
func (s *Scraper) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeFetch, "invalid url", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeFetch, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", domain.NewDomainError(domain.ErrCodeFetch, fmt.Sprintf("unexpected status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeFetch, "failed to read body", err)
	}

	text := stripHTML(string(body))
	if text == "" {
		return "", domain.ErrScrapeFailed
	}

	return text, nil
}

// SaveMarkdown writes scraped content to a timestamped markdown file named
// after the url and returns the file path.
func (s *Scraper) SaveMarkdown(content, url string) (string, error) {
	if content == "" {
		return "", domain.ErrScrapeFailed
	}

	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to create output dir", err)
	}

	now := time.Now()
	name := fmt.Sprintf("%s_%s.md", filenameFromURL(url), now.Format("20060102_150405"))
	path := filepath.Join(s.outputDir, name)

	header := fmt.Sprintf("# %s\n\nScraped on: %s\n\n", url, now.Format("2006-01-02 15:04:05"))
	if err := os.WriteFile(path, []byte(header+content), 0o644); err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeInternalError, "failed to write markdown", err)
	}

	return path, nil
}

// ScrapeToFile fetches a page and persists it as a markdown file, returning
// the file path for ingestion.
func (s *Scraper) ScrapeToFile(ctx context.Context, url string) (string, error) {
	content, err := s.Fetch(ctx, url)
	if err != nil {
		return "", err
	}
	return s.SaveMarkdown(content, url)
}

// filenameFromURL turns a url into a filesystem-safe name, truncated to keep
// paths short.
func filenameFromURL(url string) string {
	name := strings.TrimPrefix(url, "https://")
	name = strings.TrimPrefix(name, "http://")
	name = strings.ReplaceAll(name, "/", "_")

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == '.':
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if len(cleaned) > maxFilenameLen {
		cleaned = cleaned[:maxFilenameLen]
	}
	if cleaned == "" {
		cleaned = "page"
	}
	return cleaned
}
