package calibre

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mrlokans/h2o/internal/entities"
)

const collectionType = "calibre_annotation_collection"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type collectionFile struct {
	Type        string                `json:"type"`
	Annotations []entities.Annotation `json:"annotations"`
}

// Collection is an annotation collection exported from the calibre viewer
// (a .calibre_annotation_collection file). Exported entries carry no book
// id or format, so the caller supplies them.
type Collection struct {
	Path   string
	BookID int64
	Format string
	Book   entities.BookInfo // optional; unknown-book placeholders when empty
}

// Load reads the collection file.
func (c *Collection) Load() (*Snapshot, error) {
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read annotation collection: %w", err)
	}

	annotations, err := ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", c.Path, err)
	}

	records := make([]entities.HighlightRecord, 0, len(annotations))
	for i, annot := range annotations {
		records = append(records, entities.HighlightRecord{
			ID:         int64(i + 1),
			BookID:     c.BookID,
			Format:     c.Format,
			Annotation: annot,
		})
	}

	books := entities.BookLookup{}
	if c.Book.Title != "" {
		book := c.Book
		if book.Authors == "" {
			book.Authors = entities.UnknownBookAuthor
		}
		books[c.BookID] = book
	}
	return &Snapshot{Records: records, Books: books}, nil
}

// ParseCollection decodes an exported annotation collection. A leading
// UTF-8 byte order mark is allowed.
func ParseCollection(data []byte) ([]entities.Annotation, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	var file collectionFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if file.Type != "" && file.Type != collectionType {
		return nil, fmt.Errorf("unexpected collection type %q", file.Type)
	}
	return file.Annotations, nil
}
