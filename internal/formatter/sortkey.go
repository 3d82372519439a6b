package formatter

import (
	"strconv"
	"strings"
)

// locationSlots is the number of path steps a location sort key keeps.
// Deeper paths are truncated, which can misorder highlights in books
// nested more than eight levels deep.
const locationSlots = 8

// SortKey orders highlights inside a note.
type SortKey struct {
	text    string
	parts   []int
	numeric bool
}

// TextKey returns a key compared as a plain string.
func TextKey(s string) SortKey {
	return SortKey{text: s}
}

// Compare returns -1, 0 or +1. Numeric keys compare element-wise, with a
// shorter key ordering before a longer one it prefixes.
func (k SortKey) Compare(o SortKey) int {
	if k.numeric && o.numeric {
		for i := 0; i < len(k.parts) && i < len(o.parts); i++ {
			switch {
			case k.parts[i] < o.parts[i]:
				return -1
			case k.parts[i] > o.parts[i]:
				return 1
			}
		}
		switch {
		case len(k.parts) < len(o.parts):
			return -1
		case len(k.parts) > len(o.parts):
			return 1
		}
		return 0
	}
	return strings.Compare(k.text, o.text)
}

// Less reports whether k orders before o.
func (k SortKey) Less(o SortKey) bool {
	return k.Compare(o) < 0
}

// ExtractSortKey derives the sort key of a highlight from one of its fields.
// Locations are compared structurally, so "/9/..." orders before "/10/...".
// Other fields are compared as strings; a missing field sorts as "".
func ExtractSortKey(ctx Context, field string) (SortKey, error) {
	value := ctx[field]
	if field != FieldLocation {
		return TextKey(value), nil
	}

	parts, err := parseLocation(value)
	if err != nil {
		return SortKey{}, &LocationError{Location: value, Err: err}
	}
	return SortKey{text: value, parts: parts, numeric: true}, nil
}

// parseLocation turns "/n1/n2/.../nk:end" into locationSlots path numbers
// (zero padded) followed by the numbers of the final step.
func parseLocation(loc string) ([]int, error) {
	steps := strings.Split(loc, "/")
	if len(steps) < 2 {
		return nil, strconv.ErrSyntax
	}
	path, end := steps[1:len(steps)-1], steps[len(steps)-1]

	key := make([]int, locationSlots)
	for i, step := range path {
		n, err := locationNumber(step)
		if err != nil {
			return nil, err
		}
		if i < locationSlots {
			key[i] = n
		}
	}

	for _, step := range strings.Split(end, ":") {
		n, err := locationNumber(step)
		if err != nil {
			return nil, err
		}
		key = append(key, n)
	}

	return key, nil
}

// locationNumber parses a location step, dropping a bracketed suffix such
// as the page marker in "12[p34]".
func locationNumber(step string) (int, error) {
	if i := strings.IndexByte(step, '['); i >= 0 {
		step = step[:i]
	}
	return strconv.Atoi(step)
}
