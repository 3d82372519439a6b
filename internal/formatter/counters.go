package formatter

import (
	"strconv"
	"strings"
)

var counterPlaceholders = []string{
	placeholder(FieldTotalSent),
	placeholder(FieldBookSent),
	placeholder(FieldHighlightSent),
}

// HasCounters reports whether any template uses a counter field.
func HasCounters(t Templates) bool {
	for _, tmpl := range []string{t.Title, t.Body, t.NoNotes, t.Header} {
		for _, p := range counterPlaceholders {
			if strings.Contains(tmpl, p) {
				return true
			}
		}
	}
	return false
}

// ApplyCounters fills in the counter fields of finished chunks:
//   - {totalsent}: highlights in the whole batch
//   - {booksent}: highlights under the chunk's base title, over all its chunks
//   - {highlightsent}: 1-based position of a highlight under its base title,
//     continuing across chunk boundaries
//
// Chunks are returned in the same order with new titles, headers and bodies.
// Chunk boundaries are never changed.
func ApplyCounters(chunks []Chunk, totalSent int) []Chunk {
	bases := baseTitles(chunks)
	isBase := func(title string) bool { return bases[title] }

	// highlights per chunk index, per base title
	perChunk := make(map[string]map[int]int)
	bookTotals := make(map[string]int)
	for _, c := range chunks {
		base, index := chunkPosition(c, isBase)
		if perChunk[base] == nil {
			perChunk[base] = make(map[int]int)
		}
		perChunk[base][index] += len(c.Bodies)
		bookTotals[base] += len(c.Bodies)
	}

	total := strconv.Itoa(totalSent)
	out := make([]Chunk, len(chunks))

	for i, c := range chunks {
		base, index := chunkPosition(c, isBase)
		book := strconv.Itoa(bookTotals[base])
		totals := strings.NewReplacer(
			placeholder(FieldTotalSent), total,
			placeholder(FieldBookSent), book,
		)

		before := 0
		for idx, n := range perChunk[base] {
			if idx < index {
				before += n
			}
		}

		bodies := make([]string, len(c.Bodies))
		for j, body := range c.Bodies {
			position := strconv.Itoa(before + j + 1)
			bodies[j] = strings.ReplaceAll(totals.Replace(body), placeholder(FieldHighlightSent), position)
		}

		out[i] = Chunk{
			Title:     totals.Replace(c.Title),
			BaseTitle: c.BaseTitle,
			Index:     c.Index,
			Header:    totals.Replace(c.Header),
			Bodies:    bodies,
		}
	}

	return out
}

// chunkPosition returns the base title and chunk index of a chunk. Chunks
// built from bare titles are resolved by parsing the "(n)" suffix. Recorded
// positions win because a base title may itself end in "(n)".
func chunkPosition(c Chunk, isBase func(string) bool) (string, int) {
	if c.BaseTitle != "" {
		return c.BaseTitle, c.Index
	}
	if base, index, ok := ParseChunkTitle(c.Title, isBase); ok {
		return base, index
	}
	return c.Title, 0
}

// baseTitles collects the base titles of a chunk list. A bare title counts
// as a base unless it is "<other title> (n)".
func baseTitles(chunks []Chunk) map[string]bool {
	titles := make(map[string]bool, len(chunks))
	for _, c := range chunks {
		titles[c.Title] = true
	}

	bases := make(map[string]bool)
	for _, c := range chunks {
		if c.BaseTitle != "" {
			bases[c.BaseTitle] = true
			continue
		}
		if m := chunkSuffix.FindStringSubmatch(c.Title); m != nil && titles[m[1]] {
			continue
		}
		bases[c.Title] = true
	}
	return bases
}
