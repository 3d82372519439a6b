// Package calibre reads highlights out of calibre: either straight from a
// library's metadata.db or from an annotation collection exported by the
// calibre viewer.
package calibre

import (
	"strings"

	"github.com/mrlokans/h2o/internal/entities"
)

// Snapshot is everything a send needs from calibre at one point in time.
type Snapshot struct {
	Records []entities.HighlightRecord
	Books   entities.BookLookup
}

// Source loads a snapshot of highlights and book metadata.
type Source interface {
	Load() (*Snapshot, error)
}

// FormatAuthors joins author names the way they read in a sentence:
// "A", "A and B", "A, B, and C".
func FormatAuthors(authors []string) string {
	switch len(authors) {
	case 0:
		return ""
	case 1:
		return authors[0]
	case 2:
		return authors[0] + " and " + authors[1]
	}
	last := len(authors) - 1
	return strings.Join(authors[:last], ", ") + ", and " + authors[last]
}
