package calibre

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mrlokans/h2o/internal/entities"
)

const metadataDBName = "metadata.db"

// DefaultLibraryPath returns calibre's default library location,
// ~/Calibre Library.
func DefaultLibraryPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, "Calibre Library"), nil
}

// Library reads a calibre library's metadata.db. The database is only ever
// opened read-only, so calibre can keep running.
type Library struct {
	path   string
	dbPath string
}

// NewLibrary opens the library at path. An empty path selects
// DefaultLibraryPath.
func NewLibrary(path string) (*Library, error) {
	if path == "" {
		var err error
		path, err = DefaultLibraryPath()
		if err != nil {
			return nil, err
		}
	}

	dbPath := filepath.Join(path, metadataDBName)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("calibre database not found: %s", dbPath)
	}

	return &Library{path: path, dbPath: dbPath}, nil
}

func (l *Library) Path() string {
	return l.path
}

func (l *Library) open() (*sql.DB, error) {
	db, err := sql.Open("sqlite3", "file:"+l.dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("failed to open calibre database: %w", err)
	}
	return db, nil
}

// Load reads every highlight annotation and the metadata of every book.
func (l *Library) Load() (*Snapshot, error) {
	db, err := l.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	records, err := readAnnotations(db)
	if err != nil {
		return nil, err
	}
	books, err := readBooks(db)
	if err != nil {
		return nil, err
	}
	return &Snapshot{Records: records, Books: books}, nil
}

func readAnnotations(db *sql.DB) ([]entities.HighlightRecord, error) {
	rows, err := db.Query(`
		SELECT id, book, format, annot_data
		FROM annotations
		WHERE annot_type = ?
		ORDER BY id
	`, string(entities.AnnotationTypeHighlight))
	if err != nil {
		return nil, fmt.Errorf("failed to query annotations: %w", err)
	}
	defer rows.Close()

	var records []entities.HighlightRecord
	for rows.Next() {
		var rec entities.HighlightRecord
		var data string
		if err := rows.Scan(&rec.ID, &rec.BookID, &rec.Format, &data); err != nil {
			return nil, fmt.Errorf("failed to scan annotation: %w", err)
		}
		if err := json.Unmarshal([]byte(data), &rec.Annotation); err != nil {
			return nil, fmt.Errorf("failed to decode annotation %d: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating annotations: %w", err)
	}

	return records, nil
}

func readBooks(db *sql.DB) (entities.BookLookup, error) {
	// calibre keeps author order as link insertion order
	rows, err := db.Query(`
		SELECT books.id, books.title, authors.name
		FROM books
		LEFT JOIN books_authors_link ON books_authors_link.book = books.id
		LEFT JOIN authors ON authors.id = books_authors_link.author
		ORDER BY books.id, books_authors_link.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	titles := make(map[int64]string)
	authors := make(map[int64][]string)
	for rows.Next() {
		var id int64
		var title string
		var author sql.NullString
		if err := rows.Scan(&id, &title, &author); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		titles[id] = title
		if author.Valid {
			authors[id] = append(authors[id], author.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating books: %w", err)
	}

	books := make(entities.BookLookup, len(titles))
	for id, title := range titles {
		info := entities.BookInfo{Title: title, Authors: FormatAuthors(authors[id])}
		if info.Authors == "" {
			info.Authors = entities.UnknownBookAuthor
		}
		books[id] = info
	}
	return books, nil
}
