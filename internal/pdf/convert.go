// Package pdf converts PDF documents to plain text and recognizes
// document identifiers in the extracted content.
package pdf

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Conversion is the result of converting a PDF to text.
type Conversion struct {
	Text     string
	FileHash string
	Pages    int
}

// Convert extracts plain text from every page of the PDF at path and
// computes the SHA-256 hash of the file contents. The hash identifies
// the exact bytes processed, so cached derivations can be invalidated
// when the file changes.
func Convert(path string) (*Conversion, error) {
	hash, err := hashFile(path)
	if err != nil {
		return nil, fmt.Errorf("hashing %s: %w", path, err)
	}

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	text, err := extractPages(r, 0)
	if err != nil {
		return nil, fmt.Errorf("extracting text from %s: %w", path, err)
	}

	return &Conversion{
		Text:     text,
		FileHash: hash,
		Pages:    r.NumPage(),
	}, nil
}

// ExtractText extracts text from the first maxPages pages of a PDF.
// A maxPages of zero or less means all pages.
func ExtractText(path string, maxPages int) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	return extractPages(r, maxPages)
}

func extractPages(r *pdf.Reader, maxPages int) (string, error) {
	if maxPages <= 0 || maxPages > r.NumPage() {
		maxPages = r.NumPage()
	}

	var builder strings.Builder
	for i := 1; i <= maxPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Pages with unsupported encodings are skipped rather than
			// failing the whole document.
			continue
		}
		builder.WriteString(text)
		builder.WriteString("\n")
	}

	return builder.String(), nil
}

// hashFile computes the SHA-256 hex digest of a file.
func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// HashBytes computes the SHA-256 hex digest of in-memory content.
func HashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
