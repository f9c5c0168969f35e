package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/lightwriter/lightwriter/internal/config"
	"github.com/lightwriter/lightwriter/internal/document"
	"github.com/lightwriter/lightwriter/internal/logging"
	"github.com/lightwriter/lightwriter/internal/store"
)

const (
	// DefaultSearchLimit is the default limit for search commands.
	DefaultSearchLimit = 20

	// ListTitleMaxLen truncates titles in list output.
	ListTitleMaxLen = 60
)

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that return status.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// exitWithError outputs an error in the appropriate format and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// mustLoadConfig loads configuration or exits.
func mustLoadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		exitWithError(ExitConfigError, "loading configuration: %v", err)
	}
	return cfg
}

// mustLogger builds the process logger or exits.
func mustLogger(cfg *config.Config) *zap.Logger {
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		exitWithError(ExitConfigError, "configuring logging: %v", err)
	}
	return log
}

// mustOpenStore opens the metadata store or exits.
func mustOpenStore(cfg *config.Config, log *zap.Logger) *store.Store {
	st, err := store.Open(cfg.MetadataPath(), log)
	if err != nil {
		exitWithError(ExitError, "opening store: %v", err)
	}
	return st
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// formatAuthorsShort formats authors with "et al." past maxCount.
func formatAuthorsShort(authors []document.Author, maxCount int) string {
	if len(authors) == 0 {
		return ""
	}

	var names []string
	for i, a := range authors {
		if i >= maxCount {
			names = append(names, "et al.")
			break
		}
		names = append(names, a.FamilyName())
	}
	return strings.Join(names, ", ")
}
