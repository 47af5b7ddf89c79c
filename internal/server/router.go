package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/askbase/askbase/internal/api"
	"github.com/askbase/askbase/internal/api/handlers"
	"github.com/askbase/askbase/internal/api/middleware"
)

type RouterConfig struct {
	TokenVerifier   middleware.TokenVerifier
	DocumentHandler *handlers.DocumentHandler
	ScrapeHandler   *handlers.ScrapeHandler
	ChatHandler     *handlers.ChatHandler

	// ArchiveHandler is mounted only when document archival is configured.
	ArchiveHandler *handlers.ArchiveHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Uploads carry whole documents; everything else is small JSON.
	const maxBodyBytes int64 = 25 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth(cfg.TokenVerifier))

		r.Post("/upload", cfg.DocumentHandler.Upload)
		r.Post("/scrape", cfg.ScrapeHandler.Scrape)
		r.Post("/chat", cfg.ChatHandler.Chat)
		r.Get("/sources", cfg.DocumentHandler.Sources)
		r.Post("/clear-all", cfg.DocumentHandler.ClearAll)
		r.Post("/clear-source", cfg.DocumentHandler.ClearSource)

		if cfg.ArchiveHandler != nil {
			r.Get("/documents/{filename}/download", cfg.ArchiveHandler.Download)
			r.Delete("/documents/{filename}", cfg.ArchiveHandler.Delete)
		}
	})

	return r
}
