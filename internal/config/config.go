// Package config handles pipeline configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for a single pipeline run. It is built
// once at startup and passed explicitly into each component.
type Config struct {
	// Storage
	StorePath string `envconfig:"LW_STORE_PATH" default:"storage/processed"`

	// Extraction parameters
	CitationContextWindow int `envconfig:"LW_CITATION_CONTEXT_WINDOW" default:"100"`
	EquationContextLines  int `envconfig:"LW_EQUATION_CONTEXT_LINES" default:"2"`
	MinInlineEquationLen  int `envconfig:"LW_MIN_INLINE_EQUATION_LEN" default:"5"`

	// External services
	CrossrefBaseURL   string `envconfig:"LW_CROSSREF_BASE_URL" default:"https://api.crossref.org/works"`
	CrossrefMailto    string `envconfig:"LW_CROSSREF_MAILTO"`
	APITimeoutSeconds int    `envconfig:"LW_API_TIMEOUT_SECONDS" default:"10"`
	AnystyleBinary    string `envconfig:"LW_ANYSTYLE_BINARY" default:"anystyle"`

	// Semantic index
	OllamaURL      string `envconfig:"LW_OLLAMA_URL" default:"http://localhost:11434"`
	EmbeddingModel string `envconfig:"LW_EMBEDDING_MODEL" default:"all-minilm:l6-v2"`
	EmbeddingDims  int    `envconfig:"LW_EMBEDDING_DIMS" default:"384"`

	// Batch processing
	Concurrency int    `envconfig:"LW_CONCURRENCY" default:"4"`
	LogLevel    string `envconfig:"LW_LOG_LEVEL" default:"info"`
}

// Load builds the configuration from the environment. A .env file in the
// working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("lw", &cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that configured values are usable.
func (c *Config) Validate() error {
	if c.StorePath == "" {
		return fmt.Errorf("store path cannot be empty")
	}
	if c.CitationContextWindow < 0 {
		return fmt.Errorf("citation context window must be non-negative, got %d", c.CitationContextWindow)
	}
	if c.EquationContextLines < 0 {
		return fmt.Errorf("equation context lines must be non-negative, got %d", c.EquationContextLines)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.APITimeoutSeconds < 1 {
		return fmt.Errorf("API timeout must be at least 1 second, got %d", c.APITimeoutSeconds)
	}
	return nil
}

const (
	MetadataFile = "metadata.json"
	CacheDir     = "cache"
	IndexFile    = "semantic.gob"
	SearchDBFile = "search.db"
)

// MetadataPath returns the path to the metadata store file.
func (c *Config) MetadataPath() string {
	return filepath.Join(c.StorePath, MetadataFile)
}

// CachePath returns the path to the ephemeral cache directory.
func (c *Config) CachePath() string {
	return filepath.Join(c.StorePath, CacheDir)
}

// IndexPath returns the path to the semantic index file.
func (c *Config) IndexPath() string {
	return filepath.Join(c.CachePath(), IndexFile)
}

// SearchDBPath returns the path to the SQLite search cache.
func (c *Config) SearchDBPath() string {
	return filepath.Join(c.CachePath(), SearchDBFile)
}

// EnsureStoreDir creates the store directory tree when missing.
func (c *Config) EnsureStoreDir() error {
	if err := os.MkdirAll(c.CachePath(), 0755); err != nil {
		return fmt.Errorf("creating store directory: %w", err)
	}
	return nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}

	return filepath.Join(home, path[1:])
}
