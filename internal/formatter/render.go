package formatter

import "strings"

// Templates are the user-defined note templates.
type Templates struct {
	Title   string
	Body    string
	NoNotes string // used for highlights without notes; falls back to Body when empty
	Header  string
}

// Rendered is the output of Render for one highlight.
type Rendered struct {
	Title  string
	Body   string
	Header string
}

// Characters removed from titles. Slashes stay: a slash in the title
// template puts the note in a folder. "#^[]" are legal in file names but
// break markdown links to the note.
const illegalTitleChars = `*"<>:|?#^[]`

var titleCharStripper = newStripper(illegalTitleChars)

// slashReplacer keeps the book title from adding folders of its own.
var slashReplacer = strings.NewReplacer("/", "-", `\`, "-")

// Render applies the templates to a context.
func Render(ctx Context, t Templates) Rendered {
	title := strings.ReplaceAll(t.Title, placeholder(FieldTitle), slashReplacer.Replace(ctx[FieldTitle]))
	title = titleCharStripper.Replace(Substitute(title, ctx))

	body := t.Body
	if ctx[FieldNotes] == "" && t.NoNotes != "" {
		body = t.NoNotes
	}

	return Rendered{
		Title:  title,
		Body:   Substitute(body, ctx),
		Header: Substitute(t.Header, ctx),
	}
}

func newStripper(chars string) *strings.Replacer {
	pairs := make([]string, 0, len(chars)*2)
	for _, c := range chars {
		pairs = append(pairs, string(c), "")
	}
	return strings.NewReplacer(pairs...)
}
