package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/lightwriter/lightwriter/internal/document"
)

// SearchDB is the ephemeral SQLite cache over the metadata store. It
// can be deleted at any time and rebuilt from the JSON file; the stored
// content hash detects when a rebuild is due.
type SearchDB struct {
	db *sql.DB
}

// SearchResult is one full-text search hit.
type SearchResult struct {
	FilePath   string `json:"file_path"`
	Title      string `json:"title"`
	Year       int    `json:"year,omitempty"`
	Status     string `json:"status"`
	Identifier string `json:"identifier,omitempty"`
}

const searchSchema = `
	CREATE TABLE IF NOT EXISTS docs (
		file_path TEXT PRIMARY KEY,
		file_hash TEXT NOT NULL,
		title TEXT,
		year INTEGER,
		status TEXT NOT NULL,
		identifier TEXT
	);

	CREATE VIRTUAL TABLE IF NOT EXISTS docs_fts USING fts5(
		file_path,
		title,
		abstract,
		authors_text,
		refs_text,
		year
	);

	CREATE TABLE IF NOT EXISTS _meta (
		key TEXT PRIMARY KEY,
		value TEXT
	);
`

// OpenSearchDB opens or creates the search cache at path.
func OpenSearchDB(path string) (*SearchDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening search cache: %w", err)
	}

	// SQLite doesn't support concurrent writes
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(searchSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating search schema: %w", err)
	}
	return &SearchDB{db: db}, nil
}

// Close closes the underlying database.
func (d *SearchDB) Close() error {
	return d.db.Close()
}

// Sync rebuilds the cache from the store when the metadata file has
// changed since the last rebuild. Returns the number of records
// indexed, or -1 when the cache was already current.
func (d *SearchDB) Sync(s *Store) (int, error) {
	hash, err := s.ContentHash()
	if err != nil {
		return 0, err
	}

	stored, err := d.storedHash()
	if err != nil {
		return 0, err
	}
	if stored == hash {
		return -1, nil
	}

	docs, err := s.All()
	if err != nil {
		return 0, err
	}
	if err := d.rebuild(docs); err != nil {
		return 0, err
	}
	if err := d.setStoredHash(hash); err != nil {
		return 0, err
	}
	return len(docs), nil
}

// rebuild clears and repopulates both tables.
func (d *SearchDB) rebuild(docs []document.Metadata) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning rebuild: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM docs"); err != nil {
		return fmt.Errorf("clearing docs: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM docs_fts"); err != nil {
		return fmt.Errorf("clearing docs_fts: %w", err)
	}

	docStmt, err := tx.Prepare(`
		INSERT INTO docs (file_path, file_hash, title, year, status, identifier)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing docs insert: %w", err)
	}
	defer docStmt.Close()

	ftsStmt, err := tx.Prepare(`
		INSERT INTO docs_fts (file_path, title, abstract, authors_text, refs_text, year)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for _, doc := range docs {
		_, err := docStmt.Exec(doc.FilePath, doc.FileHash, doc.Title, doc.Year,
			string(doc.ProcessingStatus), doc.Identifier)
		if err != nil {
			return fmt.Errorf("inserting doc %s: %w", doc.FilePath, err)
		}

		_, err = ftsStmt.Exec(doc.FilePath, doc.Title, doc.Abstract,
			authorsText(doc.Authors), refsText(doc.References), strconv.Itoa(doc.Year))
		if err != nil {
			return fmt.Errorf("inserting fts for %s: %w", doc.FilePath, err)
		}
	}

	return tx.Commit()
}

// Search performs a full-text search over titles, abstracts, authors
// and reference titles.
func (d *SearchDB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := d.db.Query(`
		SELECT file_path, title, year, status, identifier
		FROM docs
		WHERE file_path IN (SELECT file_path FROM docs_fts WHERE docs_fts MATCH ?)
		LIMIT ?`, prepareFTSQuery(query), limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var year sql.NullInt64
		var identifier sql.NullString
		if err := rows.Scan(&r.FilePath, &r.Title, &year, &r.Status, &identifier); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		r.Year = int(year.Int64)
		r.Identifier = identifier.String
		results = append(results, r)
	}
	return results, rows.Err()
}

func (d *SearchDB) storedHash() (string, error) {
	var hash sql.NullString
	err := d.db.QueryRow("SELECT value FROM _meta WHERE key = 'store_hash'").Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return hash.String, nil
}

func (d *SearchDB) setStoredHash(hash string) error {
	_, err := d.db.Exec(`INSERT OR REPLACE INTO _meta (key, value) VALUES ('store_hash', ?)`, hash)
	return err
}

// prepareFTSQuery escapes special characters for FTS5 queries.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	if strings.ContainsAny(query, "\"*+-:(){}[]^~") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}
	return query
}

func authorsText(authors []document.Author) string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		if a.FullName != "" {
			names = append(names, a.FullName)
		}
	}
	return strings.Join(names, ", ")
}

func refsText(refs []document.Reference) string {
	titles := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref.Title != "" {
			titles = append(titles, ref.Title)
		}
	}
	return strings.Join(titles, " ")
}
