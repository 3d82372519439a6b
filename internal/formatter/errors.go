package formatter

import "fmt"

// TimestampError is returned when a highlight's timestamp cannot be parsed.
// The whole batch is abandoned.
type TimestampError struct {
	UUID  string
	Value string
	Err   error
}

func (e *TimestampError) Error() string {
	return fmt.Sprintf("highlight %s has malformed timestamp %q: %v", e.UUID, e.Value, e.Err)
}

func (e *TimestampError) Unwrap() error {
	return e.Err
}

// LocationError is returned when a location cannot be turned into a sort key.
type LocationError struct {
	Location string
	Err      error
}

func (e *LocationError) Error() string {
	return fmt.Sprintf("cannot sort by location %q: %v", e.Location, e.Err)
}

func (e *LocationError) Unwrap() error {
	return e.Err
}

// NoteTooLargeError is returned when a single highlight (plus the header,
// when it goes into the same note) does not fit into the maximum note size.
// Raising the size limit or shortening the templates fixes it.
type NoteTooLargeError struct {
	Title   string
	Excerpt string
	Size    int
	MaxSize int
}

func (e *NoteTooLargeError) Error() string {
	return fmt.Sprintf("highlight in %q needs %d characters but the maximum note size is %d; "+
		"increase the maximum note size or shorten the templates (highlight starts with %q)",
		e.Title, e.Size, e.MaxSize, e.Excerpt)
}
