// Package anystyle wraps the anystyle-cli reference parser as a subprocess.
// The tool receives a plain-text references section via a temporary file and
// returns structured JSON with loosely-typed, possibly list-wrapped fields.
package anystyle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"go.uber.org/zap"
)

// DefaultBinary is the anystyle-cli executable name.
const DefaultBinary = "anystyle"

// Runner invokes the anystyle subprocess.
type Runner struct {
	bin string
	log *zap.Logger
}

// NewRunner creates a Runner for the given binary name or path. An empty
// bin falls back to DefaultBinary.
func NewRunner(bin string, log *zap.Logger) *Runner {
	if bin == "" {
		bin = DefaultBinary
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{bin: bin, log: log}
}

// Available reports whether the anystyle binary can be invoked.
func (r *Runner) Available() bool {
	if _, err := exec.LookPath(r.bin); err != nil {
		r.log.Warn("anystyle not found on PATH; text-based reference parsing disabled",
			zap.String("binary", r.bin))
		return false
	}
	return true
}

// Parse runs anystyle over the given references section and returns its
// structured entries. The temporary input file is removed regardless of
// success or failure.
func (r *Runner) Parse(ctx context.Context, section string) ([]Entry, error) {
	tmp, err := os.CreateTemp("", "references-*.txt")
	if err != nil {
		return nil, fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.WriteString(section); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("closing temp file: %w", err)
	}

	cmd := exec.CommandContext(ctx, r.bin, "--format", "json", "parse", tmpPath)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("running anystyle: %w (stderr: %s)",
			err, strings.TrimSpace(stderr.String()))
	}

	var entries []Entry
	if err := json.Unmarshal(stdout.Bytes(), &entries); err != nil {
		return nil, fmt.Errorf("parsing anystyle output: %w", err)
	}

	r.log.Debug("anystyle parse complete", zap.Int("entries", len(entries)))
	return entries, nil
}
