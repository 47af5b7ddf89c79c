package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/spf13/cobra"

	"github.com/askbase/askbase/internal/api/handlers"
	"github.com/askbase/askbase/internal/api/middleware"
	"github.com/askbase/askbase/internal/config"
	"github.com/askbase/askbase/internal/database"
	"github.com/askbase/askbase/internal/domain"
	"github.com/askbase/askbase/internal/identity"
	"github.com/askbase/askbase/internal/jobs"
	"github.com/askbase/askbase/internal/openai"
	"github.com/askbase/askbase/internal/repository"
	"github.com/askbase/askbase/internal/scrape"
	"github.com/askbase/askbase/internal/server"
	"github.com/askbase/askbase/internal/service"
	"github.com/askbase/askbase/internal/storage"
	"github.com/askbase/askbase/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the askbase API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	pool, err := database.NewPool(ctx, database.Config{URL: cfg.DatabaseURL})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()
	log.Println("connected to database")

	// Run migrations unless --no-migrate flag is set
	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if !noMigrate {
		if err := runMigrations(cfg.DatabaseURL); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	chunkRepo := repository.NewChunkRepository(pool)

	var openaiClient *openai.Client
	if cfg.HasOpenAI() {
		openaiClient = openai.NewClient(cfg.OpenAIAPIKey)
	} else {
		log.Println("no OpenAI key configured: embedding and generation disabled")
	}

	var embeddingClient service.EmbeddingClient = &noOpOpenAI{}
	var generator service.AnswerGenerator = &noOpOpenAI{}
	if openaiClient != nil {
		embeddingClient = openaiClient
		generator = openaiClient
	}

	ingestSvc := service.NewIngestService(embeddingClient, chunkRepo, cfg.ChunkSizeWords)

	var archiveHandler *handlers.ArchiveHandler
	if cfg.HasS3() {
		s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKey,
			SecretAccessKey: cfg.S3SecretKey,
			Bucket:          cfg.S3Bucket,
			UsePathStyle:    true,
		})
		if err != nil {
			return fmt.Errorf("failed to create S3 client: %w", err)
		}
		if err := s3Client.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("failed to ensure S3 bucket: %w", err)
		}
		log.Printf("S3 bucket '%s' ready", cfg.S3Bucket)
		ingestSvc.SetArchiver(s3Client)
		archiveHandler = handlers.NewArchiveHandler(s3Client)
	}

	retrievalSvc := service.NewRetrievalService(embeddingClient, chunkRepo)
	chatSvc := service.NewChatService(retrievalSvc, generator)
	scraper := scrape.New(scrape.Config{OutputDir: cfg.ScrapeDir})

	var verifier middleware.TokenVerifier = identity.NoOpVerifier{}
	if cfg.HasIdentity() {
		verifier = identity.NewClient(cfg.IdentityVerifyURL)
	} else {
		log.Println("no identity provider configured: accepting all bearer tokens")
	}

	sweeper := jobs.NewRetentionSweeper([]string{cfg.UploadDir, cfg.ScrapeDir}, jobs.DefaultRetention)
	retentionWorker := jobs.NewWorker(sweeper, time.Hour)
	go retentionWorker.Start(ctx)
	log.Println("retention worker started")

	router := server.NewRouter(server.RouterConfig{
		TokenVerifier:   verifier,
		DocumentHandler: handlers.NewDocumentHandler(ingestSvc, retrievalSvc, cfg.UploadDir),
		ScrapeHandler:   handlers.NewScrapeHandler(scraper, ingestSvc),
		ChatHandler:     handlers.NewChatHandler(chatSvc),
		ArchiveHandler:  archiveHandler,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	retentionWorker.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}

// noOpOpenAI stands in when no OpenAI key is configured so the server still
// boots for local development.
type noOpOpenAI struct{}

func (noOpOpenAI) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return nil, domain.ErrEmbeddingUnavailable
}

func (noOpOpenAI) GenerateAnswer(ctx context.Context, question, contextText string) (string, error) {
	return "", domain.ErrGenerationUnavailable
}

func runMigrations(databaseURL string) error {
	// Create a sql.DB connection for golang-migrate
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("failed to open database for migrations: %w", err)
	}
	defer db.Close()

	// Create postgres driver instance
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Create migrate instance with file source
	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	// Run migrations
	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	// Get migration version and status
	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	if err == migrate.ErrNilVersion {
		log.Println("migrations: database is up to date (no migrations applied)")
	} else if dirty {
		return fmt.Errorf("migration version %d is dirty - manual intervention required", version)
	} else if err == migrate.ErrNoChange {
		log.Printf("migrations: database is up to date (version %d)", version)
	} else {
		log.Printf("migrations: applied successfully (version %d)", version)
	}

	return nil
}
