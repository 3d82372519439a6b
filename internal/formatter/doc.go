// Package formatter turns calibre highlight records into Obsidian notes.
//
// # Pipeline
//
//	HighlightRecord → Context → Render → Aggregator → Chunks → Counters → Note
//
// Each record is expanded into a flat Context of template fields, rendered
// through the title/body/header templates and handed to an Aggregator that
// groups the results by rendered title. Once every highlight has been added,
// the aggregator sorts each group by sort key and splits groups that exceed
// the configured note size into numbered chunks ("Title", "Title (1)", ...).
//
// Counter fields ({totalsent}, {booksent}, {highlightsent}) cannot be known
// while rendering, so they render as their own literal placeholder and are
// substituted in a second pass over the finished chunks. The second pass
// never changes chunk boundaries.
//
// A Formatter holds no state between calls to Format.
package formatter
