package formatter

import "strings"

// Context is the flat set of template fields for a single highlight.
type Context map[string]string

// Lookup returns the value of a field. Unknown fields are reported as
// missing rather than empty so callers can pass them through untouched.
func (c Context) Lookup(name string) (string, bool) {
	v, ok := c[name]
	return v, ok
}

// Substitute replaces {name} placeholders in tmpl with values from ctx.
// Placeholders that are not in ctx are kept verbatim, so highlighted text
// containing braces and the deferred counter fields survive rendering.
// "{{" and "}}" produce literal braces. Values are inserted as-is and are
// never scanned for placeholders themselves.
func Substitute(tmpl string, ctx Context) string {
	if !strings.ContainsAny(tmpl, "{}") {
		return tmpl
	}

	var sb strings.Builder
	sb.Grow(len(tmpl))

	for i := 0; i < len(tmpl); {
		c := tmpl[i]
		switch {
		case c == '{' && i+1 < len(tmpl) && tmpl[i+1] == '{':
			sb.WriteByte('{')
			i += 2
		case c == '}' && i+1 < len(tmpl) && tmpl[i+1] == '}':
			sb.WriteByte('}')
			i += 2
		case c == '{':
			end := strings.IndexAny(tmpl[i+1:], "{}")
			if end < 0 || tmpl[i+1+end] == '{' {
				sb.WriteByte('{')
				i++
				continue
			}
			name := tmpl[i+1 : i+1+end]
			if v, ok := ctx.Lookup(name); ok {
				sb.WriteString(v)
			} else {
				sb.WriteString(tmpl[i : i+end+2])
			}
			i += end + 2
		default:
			sb.WriteByte(c)
			i++
		}
	}

	return sb.String()
}

// placeholder returns the literal "{name}" form of a field.
func placeholder(name string) string {
	return "{" + name + "}"
}
