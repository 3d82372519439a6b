package entities

type AnnotationType string

const (
	AnnotationTypeHighlight AnnotationType = "highlight"
	AnnotationTypeBookmark  AnnotationType = "bookmark"
)

// Annotation is the payload calibre stores for a single annotation
// (the annot_data column, or one entry of an exported annotation collection).
type Annotation struct {
	Type            AnnotationType `json:"type"`
	UUID            string         `json:"uuid"`
	HighlightedText string         `json:"highlighted_text"`
	Notes           *string        `json:"notes,omitempty"`
	Timestamp       string         `json:"timestamp"` // e.g. "2022-09-10T20:32:08.820Z"
	SpineIndex      int            `json:"spine_index"`
	StartCFI        string         `json:"start_cfi"`
	EndCFI          string         `json:"end_cfi,omitempty"`
	Removed         bool           `json:"removed,omitempty"`
	TocFamilyTitles []string       `json:"toc_family_titles,omitempty"`
}

// HighlightRecord is one annotation together with the book it belongs to.
// Records are read-only input for the formatter.
type HighlightRecord struct {
	ID         int64      `json:"id"`
	BookID     int64      `json:"book_id"`
	Format     string     `json:"format"`
	Annotation Annotation `json:"annotation"`
}

// IsHighlight reports whether the record is a live highlight. Removed
// highlights and other annotation kinds never reach a note.
func (r HighlightRecord) IsHighlight() bool {
	return r.Annotation.Type == AnnotationTypeHighlight && !r.Annotation.Removed
}

// NoteText returns the user's note, or "" when there is none.
func (r HighlightRecord) NoteText() string {
	if r.Annotation.Notes == nil {
		return ""
	}
	return *r.Annotation.Notes
}

// Chapter returns the innermost table-of-contents title of the highlight.
func (r HighlightRecord) Chapter() string {
	titles := r.Annotation.TocFamilyTitles
	if len(titles) == 0 {
		return ""
	}
	return titles[len(titles)-1]
}

const (
	UnknownBookTitle  = "Untitled"
	UnknownBookAuthor = "Unknown"
)

// BookInfo is the per-book metadata used by note templates. Authors is
// already formatted for display ("A, B, and C").
type BookInfo struct {
	Title   string `json:"title"`
	Authors string `json:"authors"`
}

// BookLookup resolves book ids to metadata.
type BookLookup map[int64]BookInfo

// Get returns the metadata for a book, substituting placeholders for
// unknown ids.
func (l BookLookup) Get(bookID int64) BookInfo {
	info, ok := l[bookID]
	if !ok {
		return BookInfo{Title: UnknownBookTitle, Authors: UnknownBookAuthor}
	}
	return info
}
