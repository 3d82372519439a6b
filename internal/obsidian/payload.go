// Package obsidian delivers finished notes to an Obsidian vault, either
// through obsidian://new URIs opened by the system or by appending to the
// vault's markdown files directly.
package obsidian

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/mrlokans/h2o/internal/formatter"
)

const (
	// MaxTitleLength leaves room for a vault path of about 80 characters
	// inside the 260 character Windows path limit.
	MaxTitleLength = 180

	// DefaultMaxURILength is the longest URI the system opener is known to
	// hand to Obsidian.
	DefaultMaxURILength = 32699

	uriPrefix = "obsidian://new?"
)

// Payload is one note ready for delivery.
type Payload struct {
	Vault   string
	File    string
	Content string
	Append  bool
}

// NewPayload builds the payload for a note, truncating long titles.
func NewPayload(vault string, note formatter.Note) Payload {
	return Payload{
		Vault:   vault,
		File:    TruncateTitle(note.Title),
		Content: note.Content,
		Append:  true,
	}
}

// TruncateTitle shortens titles of MaxTitleLength characters or more to
// their first 172 characters, "... " and their last 4 characters. The tail
// keeps chunk suffixes like " (2)" visible.
func TruncateTitle(title string) string {
	if utf8.RuneCountInString(title) < MaxTitleLength {
		return title
	}
	runes := []rune(title)
	return string(runes[:172]) + "... " + string(runes[len(runes)-4:])
}

// URI encodes the payload as an obsidian://new URI. Spaces become %20 and
// every character outside A-Z a-z 0-9 - _ . ~ is percent-encoded.
func (p Payload) URI() string {
	params := []struct{ key, value string }{
		{"vault", p.Vault},
		{"file", p.File},
		{"content", p.Content},
	}
	if p.Append {
		params = append(params, struct{ key, value string }{"append", "true"})
	}

	var sb strings.Builder
	sb.WriteString(uriPrefix)
	for i, param := range params {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(param.key)
		sb.WriteByte('=')
		sb.WriteString(escape(param.value))
	}
	return sb.String()
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
