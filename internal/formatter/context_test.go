package formatter

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/h2o/internal/entities"
)

func strPtr(s string) *string {
	return &s
}

func testRecord() entities.HighlightRecord {
	return entities.HighlightRecord{
		ID:     1,
		BookID: 39,
		Format: "EPUB",
		Annotation: entities.Annotation{
			Type:            entities.AnnotationTypeHighlight,
			UUID:            "abc-123",
			HighlightedText: "first line\nsecond line",
			Notes:           strPtr("my note"),
			Timestamp:       "2022-09-10T20:32:08.820Z",
			SpineIndex:      3,
			StartCFI:        "/2/4/84/1:184",
			TocFamilyTitles: []string{"Part One", "Chapter 2"},
		},
	}
}

func fixedClock(zone *time.Location) func() time.Time {
	return func() time.Time {
		return time.Date(2024, 1, 2, 3, 4, 5, 0, zone)
	}
}

func TestContextBuilder_Build(t *testing.T) {
	books := entities.BookLookup{39: {Title: "Dune", Authors: "Frank Herbert"}}
	builder := &ContextBuilder{
		LibraryName: "Calibre Library",
		Books:       books,
		Now:         fixedClock(time.FixedZone("EST", -5*3600)),
	}

	ctx, err := builder.Build(testRecord())
	require.NoError(t, err)

	expected := map[string]string{
		FieldTitle:      "Dune",
		FieldAuthors:    "Frank Herbert",
		FieldBookID:     "39",
		FieldHighlight:  "first line\nsecond line",
		FieldBlockquote: "> first line\n> second line",
		FieldNotes:      "my note",
		FieldChapter:    "Chapter 2",
		FieldLocation:   "/8/2/4/84/1:184",
		FieldURL:        "calibre://view-book/Calibre_Library/39/EPUB?open_at=epubcfi(/8/2/4/84/1:184)",
		FieldUUID:       "abc-123",
		FieldTimestamp:  strconv.FormatInt(time.Date(2022, 9, 10, 20, 32, 8, 0, time.UTC).Unix(), 10),

		FieldDate:     "2022-09-10",
		FieldTime:     "20:32:08",
		FieldDatetime: "2022-09-10 20:32:08",
		FieldDay:      "10",
		FieldMonth:    "09",
		FieldYear:     "2022",
		FieldHour:     "20",
		FieldMinute:   "32",
		FieldSecond:   "08",

		FieldLocalDate:     "2022-09-10",
		FieldLocalTime:     "15:32:08",
		FieldLocalDatetime: "2022-09-10 15:32:08",
		FieldLocalHour:     "15",

		FieldTimezone:   "EST",
		FieldUTCOffset:  "-5:00",
		FieldTimeOffset: "-5:00",

		FieldDateNow:          "2024-01-02",
		FieldTimeNow:          "08:04:05",
		FieldDatetimeNow:      "2024-01-02 08:04:05",
		FieldLocalDateNow:     "2024-01-02",
		FieldLocalTimeNow:     "03:04:05",
		FieldLocalDatetimeNow: "2024-01-02 03:04:05",

		FieldTotalSent:     "{totalsent}",
		FieldBookSent:      "{booksent}",
		FieldHighlightSent: "{highlightsent}",
	}

	for field, value := range expected {
		assert.Equal(t, value, ctx[field], "field %s", field)
	}
}

func TestContextBuilder_EveryFieldIsPresent(t *testing.T) {
	builder := NewContextBuilder("Library", nil)

	ctx, err := builder.Build(testRecord())
	require.NoError(t, err)

	for _, field := range Fields {
		_, ok := ctx.Lookup(field)
		assert.True(t, ok, "missing field %s", field)
	}
	assert.Len(t, ctx, len(Fields))
}

func TestContextBuilder_LocalTimeUsesCurrentOffset(t *testing.T) {
	builder := &ContextBuilder{
		LibraryName: "Library",
		Now:         fixedClock(time.FixedZone("IST", 5*3600+1800)),
	}

	ctx, err := builder.Build(testRecord())
	require.NoError(t, err)

	// 20:32:08 UTC + 5:30 rolls over into the next day
	assert.Equal(t, "2022-09-11", ctx[FieldLocalDate])
	assert.Equal(t, "02:02:08", ctx[FieldLocalTime])
	assert.Equal(t, "11", ctx[FieldLocalDay])
	assert.Equal(t, "+5:00", ctx[FieldUTCOffset])
	// UTC fields are unaffected
	assert.Equal(t, "2022-09-10", ctx[FieldDate])
}

func TestContextBuilder_MissingBookAndNotes(t *testing.T) {
	builder := NewContextBuilder("Library", entities.BookLookup{})
	rec := testRecord()
	rec.Annotation.Notes = nil
	rec.Annotation.TocFamilyTitles = nil

	ctx, err := builder.Build(rec)
	require.NoError(t, err)

	assert.Equal(t, "Untitled", ctx[FieldTitle])
	assert.Equal(t, "Unknown", ctx[FieldAuthors])
	assert.Equal(t, "", ctx[FieldNotes])
	assert.Equal(t, "", ctx[FieldChapter])
}

func TestContextBuilder_ZeroPadding(t *testing.T) {
	builder := &ContextBuilder{Now: fixedClock(time.UTC)}
	rec := testRecord()
	rec.Annotation.Timestamp = "0999-01-05T04:03:02.000Z"

	ctx, err := builder.Build(rec)
	require.NoError(t, err)

	assert.Equal(t, "05", ctx[FieldDay])
	assert.Equal(t, "01", ctx[FieldMonth])
	assert.Equal(t, "0999", ctx[FieldYear])
	assert.Equal(t, "04", ctx[FieldHour])
	assert.Equal(t, "03", ctx[FieldMinute])
	assert.Equal(t, "02", ctx[FieldSecond])
	assert.Equal(t, "+0:00", ctx[FieldUTCOffset])
}

func TestContextBuilder_MalformedTimestamp(t *testing.T) {
	builder := NewContextBuilder("Library", nil)

	for _, ts := range []string{"", "2022-09-10", "not a timestamp at all", "2022-13-10T20:32:08Z"} {
		rec := testRecord()
		rec.Annotation.Timestamp = ts

		_, err := builder.Build(rec)

		var tsErr *TimestampError
		require.ErrorAs(t, err, &tsErr, "timestamp %q", ts)
		assert.Equal(t, "abc-123", tsErr.UUID)
	}
}

func TestFormatUTCOffset(t *testing.T) {
	tests := []struct {
		offset   int
		expected string
	}{
		{0, "+0:00"},
		{3600, "+1:00"},
		{5*3600 + 1800, "+5:00"},
		{-5 * 3600, "-5:00"},
		{-3*3600 - 1800, "-4:00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatUTCOffset(tt.offset), "offset %d", tt.offset)
	}
}

func TestIsField(t *testing.T) {
	assert.True(t, IsField("location"))
	assert.True(t, IsField("highlightsent"))
	assert.False(t, IsField("bogus"))
}
