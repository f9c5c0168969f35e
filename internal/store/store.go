// Package store persists consolidated document metadata. The durable
// format is a single JSON file keyed by document path; a SQLite cache
// derived from it serves full-text search and is rebuilt whenever the
// JSON content changes.
package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/lightwriter/lightwriter/internal/document"
)

// ErrNotFound is returned when no record exists for a document path.
var ErrNotFound = errors.New("document not found in store")

// fileFormat is the on-disk shape of the metadata file.
type fileFormat struct {
	SchemaVersion string                        `json:"schema_version"`
	Documents     map[string]document.Metadata `json:"documents"`
}

// Store is the durable metadata store. All mutations are whole-file
// read-modify-write cycles under a lock, written atomically.
type Store struct {
	path string
	mu   sync.Mutex
	log  *zap.Logger
}

// Open prepares a store at path, creating an empty metadata file when
// none exists. A metadata file that cannot be parsed is replaced with a
// fresh one rather than failing every later call.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{path: path, log: log}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.write(emptyFile()); err != nil {
			return nil, err
		}
		return s, nil
	}

	if _, err := s.read(); err != nil {
		log.Warn("metadata file unreadable, reinitializing", zap.String("path", path), zap.Error(err))
		if err := s.write(emptyFile()); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Path returns the metadata file path.
func (s *Store) Path() string {
	return s.path
}

// Save upserts the record for meta.FilePath.
func (s *Store) Save(meta *document.Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	data.Documents[meta.FilePath] = *meta
	data.SchemaVersion = document.SchemaVersion

	if err := s.write(data); err != nil {
		return err
	}
	s.log.Debug("metadata saved", zap.String("file", meta.FilePath))
	return nil
}

// Get returns the record for a document path.
func (s *Store) Get(filePath string) (*document.Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}
	meta, ok := data.Documents[filePath]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, filePath)
	}
	return &meta, nil
}

// Remove deletes the record for a document path. Removing an absent
// path reports ErrNotFound.
func (s *Store) Remove(filePath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}
	if _, ok := data.Documents[filePath]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, filePath)
	}
	delete(data.Documents, filePath)

	if err := s.write(data); err != nil {
		return err
	}
	s.log.Debug("metadata removed", zap.String("file", filePath))
	return nil
}

// All returns every record, ordered by document path.
func (s *Store) All() ([]document.Metadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.read()
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(data.Documents))
	for p := range data.Documents {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	out := make([]document.Metadata, 0, len(paths))
	for _, p := range paths {
		out = append(out, data.Documents[p])
	}
	return out, nil
}

// ContentHash returns the SHA-256 digest of the metadata file, used
// for cache staleness checks.
func (s *Store) ContentHash() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("reading metadata file: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}

// read loads and parses the metadata file. Callers hold the lock.
func (s *Store) read() (*fileFormat, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("reading metadata file: %w", err)
	}

	var data fileFormat
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parsing metadata file: %w", err)
	}
	if data.Documents == nil {
		data.Documents = make(map[string]document.Metadata)
	}
	return &data, nil
}

// write serializes data to a temp file and renames it into place, so
// readers never observe a partial file.
func (s *Store) write(data *fileFormat) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".metadata-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing metadata: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing metadata file: %w", err)
	}
	return nil
}

func emptyFile() *fileFormat {
	return &fileFormat{
		SchemaVersion: document.SchemaVersion,
		Documents:     make(map[string]document.Metadata),
	}
}
