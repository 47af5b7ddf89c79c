package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	OpenAIAPIKey string `envconfig:"OPENAI_API_KEY"`

	// Identity provider token verification endpoint. Auth is disabled
	// when empty.
	IdentityVerifyURL string `envconfig:"IDENTITY_VERIFY_URL"`

	// S3-compatible archival of raw ingested documents (optional)
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"askbase-documents"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`

	ChunkSizeWords int    `envconfig:"CHUNK_SIZE_WORDS" default:"1000"`
	UploadDir      string `envconfig:"UPLOAD_DIR" default:"temp_files"`
	ScrapeDir      string `envconfig:"SCRAPE_DIR" default:"scraped_content"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("ASKBASE", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	// envconfig treats a set-but-empty variable as present, so the
	// required tag alone does not catch ASKBASE_DATABASE_URL="".
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("ASKBASE_DATABASE_URL is required")
	}

	return &cfg, nil
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasIdentity() bool {
	return c.IdentityVerifyURL != ""
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}
