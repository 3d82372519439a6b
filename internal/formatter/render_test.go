package formatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender_Title(t *testing.T) {
	tests := []struct {
		name      string
		bookTitle string
		template  string
		expected  string
	}{
		{
			name:      "folder from template is kept",
			bookTitle: "Dune",
			template:  "Books/{title} by {authors}",
			expected:  "Books/Dune by Frank Herbert",
		},
		{
			name:      "slashes in book title become dashes",
			bookTitle: `Either/Or \ Part`,
			template:  "Books/{title}",
			expected:  "Books/Either-Or - Part",
		},
		{
			name:      "illegal characters are removed",
			bookTitle: `What? "Why": <a|b> *c* #d ^e [f]`,
			template:  "{title}",
			expected:  "What Why ab c d e f",
		},
		{
			name:      "unknown placeholder survives",
			bookTitle: "Dune",
			template:  "{title} {nope}",
			expected:  "Dune {nope}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := Context{FieldTitle: tt.bookTitle, FieldAuthors: "Frank Herbert", FieldNotes: ""}
			r := Render(ctx, Templates{Title: tt.template})
			assert.Equal(t, tt.expected, r.Title)
		})
	}
}

func TestRender_BodySelection(t *testing.T) {
	templates := Templates{
		Title:   "{title}",
		Body:    "with notes: {notes}",
		NoNotes: "without notes: {highlight}",
	}

	t.Run("notes use the body template", func(t *testing.T) {
		ctx := Context{FieldTitle: "T", FieldHighlight: "h", FieldNotes: "n"}
		assert.Equal(t, "with notes: n", Render(ctx, templates).Body)
	})

	t.Run("no notes use the no-notes template", func(t *testing.T) {
		ctx := Context{FieldTitle: "T", FieldHighlight: "h", FieldNotes: ""}
		assert.Equal(t, "without notes: h", Render(ctx, templates).Body)
	})

	t.Run("empty no-notes template falls back to body", func(t *testing.T) {
		ctx := Context{FieldTitle: "T", FieldHighlight: "h", FieldNotes: ""}
		fallback := templates
		fallback.NoNotes = ""
		assert.Equal(t, "with notes: ", Render(ctx, fallback).Body)
	})
}

func TestRender_Header(t *testing.T) {
	ctx := Context{FieldTitle: "Dune", FieldAuthors: "Frank Herbert"}

	r := Render(ctx, Templates{Title: "{title}", Header: "# {title}\nby {authors}\n"})

	assert.Equal(t, "# Dune\nby Frank Herbert\n", r.Header)
	assert.Empty(t, Render(ctx, Templates{Title: "{title}"}).Header)
}
