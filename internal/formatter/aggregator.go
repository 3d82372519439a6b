package formatter

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Unbounded disables splitting of long notes.
const Unbounded = -1

const excerptLength = 50

// RenderedHighlight is one highlight after rendering, before grouping.
type RenderedHighlight struct {
	Title string
	Body  string
	Key   SortKey
}

type groupEntry struct {
	body string
	key  SortKey
}

// bookGroup collects the highlights that render to the same base title.
type bookGroup struct {
	title   string
	header  string
	entries []groupEntry
}

// Chunk is one output note of a group. Index 0 carries the base title,
// later chunks are numbered "<base> (1)", "<base> (2)", ...
type Chunk struct {
	Title     string
	BaseTitle string
	Index     int
	Header    string // empty when the chunk does not repeat the header
	Bodies    []string
}

// Content joins the chunk's header and bodies.
func (c Chunk) Content() string {
	var sb strings.Builder
	sb.WriteString(c.Header)
	for _, body := range c.Bodies {
		sb.WriteString(body)
	}
	return sb.String()
}

// Aggregator groups rendered highlights by title. It is owned by a single
// Format call.
type Aggregator struct {
	groups map[string]*bookGroup
	order  []string
	count  int
}

// NewAggregator creates an empty aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{groups: make(map[string]*bookGroup)}
}

// Add appends a highlight to its group. The header is kept only for the
// first highlight of a group.
func (a *Aggregator) Add(h RenderedHighlight, header string) {
	g, ok := a.groups[h.Title]
	if !ok {
		g = &bookGroup{title: h.Title, header: header}
		a.groups[h.Title] = g
		a.order = append(a.order, h.Title)
	}
	g.entries = append(g.entries, groupEntry{body: h.Body, key: h.Key})
	a.count++
}

// Has reports whether a group with the given base title exists.
func (a *Aggregator) Has(title string) bool {
	_, ok := a.groups[title]
	return ok
}

// Len returns the number of highlights added.
func (a *Aggregator) Len() int {
	return a.count
}

// Chunks sorts every group by sort key and splits it into notes of at most
// maxSize characters (Unbounded for no limit). Groups come out in the order
// their first highlight was added. The header goes into the first chunk of a
// group, and into every chunk when copyHeader is set.
func (a *Aggregator) Chunks(maxSize int, copyHeader bool) ([]Chunk, error) {
	var chunks []Chunk
	for _, title := range a.order {
		g := a.groups[title]
		sort.SliceStable(g.entries, func(i, j int) bool {
			return g.entries[i].key.Less(g.entries[j].key)
		})

		split, err := g.split(maxSize, copyHeader)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, split...)
	}
	return chunks, nil
}

func (g *bookGroup) split(maxSize int, copyHeader bool) ([]Chunk, error) {
	if maxSize == Unbounded {
		chunk := Chunk{Title: g.title, BaseTitle: g.title, Header: g.header}
		for _, e := range g.entries {
			chunk.Bodies = append(chunk.Bodies, e.body)
		}
		return []Chunk{chunk}, nil
	}

	newChunk := func(index int) Chunk {
		c := Chunk{Title: ChunkTitle(g.title, index), BaseTitle: g.title, Index: index}
		if index == 0 || copyHeader {
			c.Header = g.header
		}
		return c
	}

	var chunks []Chunk
	current := newChunk(0)
	currentSize := 0

	for _, e := range g.entries {
		bodySize := utf8.RuneCountInString(e.body)

		if len(current.Bodies) > 0 && utf8.RuneCountInString(current.Header)+currentSize+bodySize > maxSize {
			chunks = append(chunks, current)
			current = newChunk(current.Index + 1)
			currentSize = 0
		}

		if size := utf8.RuneCountInString(current.Header) + bodySize; size > maxSize {
			return nil, &NoteTooLargeError{
				Title:   g.title,
				Excerpt: excerpt(e.body),
				Size:    size,
				MaxSize: maxSize,
			}
		}

		current.Bodies = append(current.Bodies, e.body)
		currentSize += bodySize
	}

	return append(chunks, current), nil
}

// ChunkTitle returns the title of chunk index of a group.
func ChunkTitle(base string, index int) string {
	if index == 0 {
		return base
	}
	return base + " (" + strconv.Itoa(index) + ")"
}

var chunkSuffix = regexp.MustCompile(`^(.*) \((\d+)\)$`)

// ParseChunkTitle recovers the base title and chunk index from a finished
// title. isBase reports whether a string is a known base title; an exact
// match wins over a numbered suffix.
func ParseChunkTitle(title string, isBase func(string) bool) (string, int, bool) {
	if isBase(title) {
		return title, 0, true
	}
	m := chunkSuffix.FindStringSubmatch(title)
	if m == nil || !isBase(m[1]) {
		return "", 0, false
	}
	index, err := strconv.Atoi(m[2])
	if err != nil || index == 0 {
		return "", 0, false
	}
	return m[1], index, true
}

func excerpt(body string) string {
	body = strings.TrimSpace(body)
	if utf8.RuneCountInString(body) <= excerptLength {
		return body
	}
	return string([]rune(body)[:excerptLength]) + "..."
}
