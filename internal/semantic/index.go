package semantic

import (
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Errors returned by semantic index operations.
var (
	ErrIndexNotFound      = errors.New("semantic index not found")
	ErrUnsupportedVersion = errors.New("unsupported index version")
)

// CurrentIndexVersion is the format version for compatibility checking.
// Increment when making breaking changes to the index format.
const CurrentIndexVersion = 1

// Entry is one indexed document.
type Entry struct {
	FileHash string
	Vector   []float32
}

// Index holds embeddings for all indexed documents, keyed by document
// path. Each entry carries the file hash it was built from, so an
// incremental rebuild can skip unchanged documents.
type Index struct {
	Version    int
	ModelName  string
	Dimensions int
	CreatedAt  time.Time

	Entries map[string]Entry
}

// NewIndex creates a new empty index for the given model.
func NewIndex(modelName string, dimensions int) *Index {
	return &Index{
		Version:    CurrentIndexVersion,
		ModelName:  modelName,
		Dimensions: dimensions,
		CreatedAt:  time.Now(),
		Entries:    make(map[string]Entry),
	}
}

// Add inserts or replaces the entry for a document.
func (idx *Index) Add(filePath, fileHash string, vector []float32) error {
	if len(vector) != idx.Dimensions {
		return fmt.Errorf("embedding dimension mismatch: got %d, want %d", len(vector), idx.Dimensions)
	}
	idx.Entries[filePath] = Entry{FileHash: fileHash, Vector: vector}
	return nil
}

// Current reports whether the document at filePath is already indexed
// with the given content hash.
func (idx *Index) Current(filePath, fileHash string) bool {
	entry, ok := idx.Entries[filePath]
	return ok && entry.FileHash == fileHash
}

// Remove drops a document from the index.
func (idx *Index) Remove(filePath string) {
	delete(idx.Entries, filePath)
}

// Save persists the index to path using gob encoding, writing through a
// temp file so a crash never leaves a truncated index.
func (idx *Index) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}

	tempPath := path + ".tmp"
	f, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	if err := gob.NewEncoder(f).Encode(idx); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("encoding index: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("closing file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Load reads an index from path. A missing file reports
// ErrIndexNotFound; an index from an incompatible format version
// reports ErrUnsupportedVersion.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrIndexNotFound
		}
		return nil, fmt.Errorf("opening index file: %w", err)
	}
	defer f.Close()

	var idx Index
	if err := gob.NewDecoder(f).Decode(&idx); err != nil {
		return nil, fmt.Errorf("decoding index: %w", err)
	}

	if idx.Version != CurrentIndexVersion {
		return nil, fmt.Errorf("%w: got %d, want %d (rebuild the index)",
			ErrUnsupportedVersion, idx.Version, CurrentIndexVersion)
	}
	if idx.Entries == nil {
		idx.Entries = make(map[string]Entry)
	}
	return &idx, nil
}

// LoadOrNew loads the index at path, falling back to a fresh index when
// none exists or the on-disk format is incompatible with the requested
// model.
func LoadOrNew(path, modelName string, dimensions int) *Index {
	idx, err := Load(path)
	if err != nil {
		return NewIndex(modelName, dimensions)
	}
	if idx.ModelName != modelName || idx.Dimensions != dimensions {
		return NewIndex(modelName, dimensions)
	}
	return idx
}
