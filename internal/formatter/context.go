package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/h2o/internal/entities"
)

// Template fields available to title, body and header templates.
const (
	FieldTitle      = "title"
	FieldAuthors    = "authors"
	FieldBookID     = "bookid"
	FieldHighlight  = "highlight"
	FieldBlockquote = "blockquote"
	FieldNotes      = "notes"
	FieldChapter    = "chapter"
	FieldURL        = "url"
	FieldLocation   = "location"
	FieldUUID       = "uuid"
	FieldTimestamp  = "timestamp"

	FieldDate     = "date"
	FieldTime     = "time"
	FieldDatetime = "datetime"
	FieldDay      = "day"
	FieldMonth    = "month"
	FieldYear     = "year"
	FieldHour     = "hour"
	FieldMinute   = "minute"
	FieldSecond   = "second"

	FieldLocalDate     = "localdate"
	FieldLocalTime     = "localtime"
	FieldLocalDatetime = "localdatetime"
	FieldLocalDay      = "localday"
	FieldLocalMonth    = "localmonth"
	FieldLocalYear     = "localyear"
	FieldLocalHour     = "localhour"
	FieldLocalMinute   = "localminute"
	FieldLocalSecond   = "localsecond"

	FieldTimezone   = "timezone"
	FieldUTCOffset  = "utcoffset"
	FieldTimeOffset = "timeoffset" // older name for utcoffset

	FieldDateNow          = "datenow"
	FieldTimeNow          = "timenow"
	FieldDatetimeNow      = "datetimenow"
	FieldLocalDateNow     = "localdatenow"
	FieldLocalTimeNow     = "localtimenow"
	FieldLocalDatetimeNow = "localdatetimenow"

	// Counters, resolved after grouping. See ApplyCounters.
	FieldTotalSent     = "totalsent"
	FieldBookSent      = "booksent"
	FieldHighlightSent = "highlightsent"
)

// Fields lists every template field in display order.
var Fields = []string{
	FieldTitle, FieldAuthors, FieldBookID,
	FieldHighlight, FieldBlockquote, FieldNotes, FieldChapter,
	FieldURL, FieldLocation, FieldUUID, FieldTimestamp,
	FieldDate, FieldTime, FieldDatetime, FieldDay, FieldMonth, FieldYear,
	FieldHour, FieldMinute, FieldSecond,
	FieldLocalDate, FieldLocalTime, FieldLocalDatetime, FieldLocalDay, FieldLocalMonth, FieldLocalYear,
	FieldLocalHour, FieldLocalMinute, FieldLocalSecond,
	FieldTimezone, FieldUTCOffset, FieldTimeOffset,
	FieldDateNow, FieldTimeNow, FieldDatetimeNow,
	FieldLocalDateNow, FieldLocalTimeNow, FieldLocalDatetimeNow,
	FieldTotalSent, FieldBookSent, FieldHighlightSent,
}

// IsField reports whether name is a known template field.
func IsField(name string) bool {
	for _, f := range Fields {
		if f == name {
			return true
		}
	}
	return false
}

const (
	// calibre writes e.g. "2022-09-10T20:32:08.820Z"; the sub-second part is ignored.
	timestampLayout = "2006-01-02T15:04:05"

	dateLayout     = "2006-01-02"
	timeLayout     = "15:04:05"
	datetimeLayout = "2006-01-02 15:04:05"

	urlFormat = "calibre://view-book/%s/%d/%s?open_at=epubcfi(%s)"
)

// ParseTimestamp parses a calibre annotation timestamp as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	if len(value) < len(timestampLayout) {
		return time.Time{}, fmt.Errorf("timestamp %q is too short", value)
	}
	return time.ParseInLocation(timestampLayout, value[:len(timestampLayout)], time.UTC)
}

// ContextBuilder expands highlight records into template contexts.
type ContextBuilder struct {
	LibraryName string
	Books       entities.BookLookup

	// Now supplies the current time. Its zone is the "local" zone: local
	// fields are the UTC highlight time shifted by the zone's current
	// offset, not by the offset in effect when the highlight was made.
	Now func() time.Time
}

// NewContextBuilder creates a builder that uses the process's local clock.
func NewContextBuilder(libraryName string, books entities.BookLookup) *ContextBuilder {
	return &ContextBuilder{
		LibraryName: libraryName,
		Books:       books,
		Now:         time.Now,
	}
}

// Build creates the template context for one highlight.
func (b *ContextBuilder) Build(rec entities.HighlightRecord) (Context, error) {
	annot := rec.Annotation

	hTime, err := ParseTimestamp(annot.Timestamp)
	if err != nil {
		return nil, &TimestampError{UUID: annot.UUID, Value: annot.Timestamp, Err: err}
	}

	now := b.Now()
	zoneName, offset := now.Zone()
	hLocal := hTime.Add(time.Duration(offset) * time.Second)
	utcOffset := formatUTCOffset(offset)

	book := b.Books.Get(rec.BookID)
	location := cfiLocation(annot.SpineIndex, annot.StartCFI)
	notes := rec.NoteText()

	ctx := Context{
		FieldTitle:      book.Title,
		FieldAuthors:    book.Authors,
		FieldBookID:     strconv.FormatInt(rec.BookID, 10),
		FieldHighlight:  annot.HighlightedText,
		FieldBlockquote: blockquote(annot.HighlightedText),
		FieldNotes:      notes,
		FieldChapter:    rec.Chapter(),
		FieldURL:        b.viewerURL(rec, location),
		FieldLocation:   location,
		FieldUUID:       annot.UUID,
		FieldTimestamp:  strconv.FormatInt(hTime.Unix(), 10),

		FieldTimezone:   zoneName,
		FieldUTCOffset:  utcOffset,
		FieldTimeOffset: utcOffset,

		FieldDateNow:          now.UTC().Format(dateLayout),
		FieldTimeNow:          now.UTC().Format(timeLayout),
		FieldDatetimeNow:      now.UTC().Format(datetimeLayout),
		FieldLocalDateNow:     now.Format(dateLayout),
		FieldLocalTimeNow:     now.Format(timeLayout),
		FieldLocalDatetimeNow: now.Format(datetimeLayout),

		FieldTotalSent:     placeholder(FieldTotalSent),
		FieldBookSent:      placeholder(FieldBookSent),
		FieldHighlightSent: placeholder(FieldHighlightSent),
	}

	addTimeFields(ctx, "", hTime)
	addTimeFields(ctx, "local", hLocal)

	return ctx, nil
}

func addTimeFields(ctx Context, prefix string, t time.Time) {
	ctx[prefix+FieldDate] = t.Format(dateLayout)
	ctx[prefix+FieldTime] = t.Format(timeLayout)
	ctx[prefix+FieldDatetime] = t.Format(datetimeLayout)
	ctx[prefix+FieldDay] = fmt.Sprintf("%02d", t.Day())
	ctx[prefix+FieldMonth] = fmt.Sprintf("%02d", int(t.Month()))
	ctx[prefix+FieldYear] = fmt.Sprintf("%04d", t.Year())
	ctx[prefix+FieldHour] = fmt.Sprintf("%02d", t.Hour())
	ctx[prefix+FieldMinute] = fmt.Sprintf("%02d", t.Minute())
	ctx[prefix+FieldSecond] = fmt.Sprintf("%02d", t.Second())
}

// viewerURL builds a calibre:// link that opens the viewer at the highlight.
func (b *ContextBuilder) viewerURL(rec entities.HighlightRecord, location string) string {
	library := strings.ReplaceAll(b.LibraryName, " ", "_")
	return fmt.Sprintf(urlFormat, library, rec.BookID, rec.Format, location)
}

// cfiLocation restores the leading spine step that calibre leaves out of
// start_cfi. calibre's viewer addresses spine item i as /2*(i+1).
func cfiLocation(spineIndex int, startCFI string) string {
	return "/" + strconv.Itoa(2*(spineIndex+1)) + startCFI
}

func blockquote(text string) string {
	return "> " + strings.ReplaceAll(text, "\n", "\n> ")
}

// formatUTCOffset renders an offset in seconds as "+H:00" or "-H:00".
// Hours are floored, so -3:30 renders as "-4:00".
func formatUTCOffset(offset int) string {
	hours := offset / 3600
	if offset%3600 != 0 && offset < 0 {
		hours--
	}
	if offset < 0 {
		return fmt.Sprintf("%d:00", hours)
	}
	return fmt.Sprintf("+%d:00", hours)
}
