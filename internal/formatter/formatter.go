package formatter

import (
	"time"

	"github.com/mrlokans/h2o/internal/entities"
)

// Options configure a Formatter.
type Options struct {
	LibraryName string
	Templates   Templates
	SortKey     string
	MaxNoteSize int  // in characters; Unbounded for no limit
	CopyHeader  bool // repeat the header in every chunk of a long note
}

// Note is a finished note: the vault-relative file title and its content.
type Note struct {
	Title   string
	Content string
}

// Batch is the result of one Format call.
type Batch struct {
	Notes      []Note
	Highlights int
}

// Formatter renders highlight records into notes.
type Formatter struct {
	opts Options
	now  func() time.Time
}

// New creates a Formatter.
func New(opts Options) *Formatter {
	if opts.SortKey == "" {
		opts.SortKey = FieldLocation
	}
	if opts.MaxNoteSize == 0 {
		opts.MaxNoteSize = Unbounded
	}
	return &Formatter{opts: opts, now: time.Now}
}

// WithClock replaces the clock used for "now" and local-time fields.
func (f *Formatter) WithClock(now func() time.Time) *Formatter {
	f.now = now
	return f
}

// Options returns the effective options.
func (f *Formatter) Options() Options {
	return f.opts
}

// Format turns records into notes. Records that are not live highlights are
// skipped. Notes come out grouped by title, in the order each title was first
// seen, with every note's highlights ordered by the configured sort key.
func (f *Formatter) Format(records []entities.HighlightRecord, books entities.BookLookup) (*Batch, error) {
	builder := &ContextBuilder{LibraryName: f.opts.LibraryName, Books: books, Now: f.now}
	agg := NewAggregator()

	for _, rec := range records {
		if !rec.IsHighlight() {
			continue
		}

		ctx, err := builder.Build(rec)
		if err != nil {
			return nil, err
		}

		rendered := Render(ctx, f.opts.Templates)
		key, err := ExtractSortKey(ctx, f.opts.SortKey)
		if err != nil {
			return nil, err
		}

		header := ""
		if !agg.Has(rendered.Title) {
			header = rendered.Header
		}
		agg.Add(RenderedHighlight{Title: rendered.Title, Body: rendered.Body, Key: key}, header)
	}

	chunks, err := agg.Chunks(f.opts.MaxNoteSize, f.opts.CopyHeader)
	if err != nil {
		return nil, err
	}

	if HasCounters(f.opts.Templates) {
		chunks = ApplyCounters(chunks, agg.Len())
	}

	batch := &Batch{Highlights: agg.Len(), Notes: make([]Note, 0, len(chunks))}
	for _, c := range chunks {
		batch.Notes = append(batch.Notes, Note{Title: c.Title, Content: c.Content()})
	}
	return batch, nil
}
