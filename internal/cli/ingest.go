package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/askbase/askbase/internal/config"
	"github.com/askbase/askbase/internal/database"
	"github.com/askbase/askbase/internal/openai"
	"github.com/askbase/askbase/internal/repository"
	"github.com/askbase/askbase/internal/service"
)

// IngestCmd returns the ingest command for one-shot document ingestion.
func IngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Ingest documents from the command line",
		Long:  "Extract, chunk, embed, and index one or more local documents without starting the server",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runIngest,
	}

	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations")

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if !cfg.HasOpenAI() {
		return fmt.Errorf("ASKBASE_OPENAI_API_KEY is required for ingestion")
	}

	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	client := openai.NewClient(cfg.OpenAIAPIKey)
	chunkRepo := repository.NewChunkRepository(pool)
	ingestSvc := service.NewIngestService(client, chunkRepo, cfg.ChunkSizeWords)

	var failed int
	for _, path := range args {
		result, err := ingestSvc.IngestFile(ctx, path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
			failed++
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: indexed %d/%d chunks as %q\n",
			result.Filename, result.ChunksIndexed, result.TotalChunks, result.SourceName)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(args))
	}
	return nil
}
