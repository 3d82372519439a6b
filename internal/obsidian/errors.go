package obsidian

import (
	"errors"
	"fmt"
)

// ErrVaultNotFound is returned when the vault directory for file delivery
// does not exist.
var ErrVaultNotFound = errors.New("vault directory not found")

// URITooLongError is returned when a note's URI is longer than the system
// opener accepts. Nothing is launched.
type URITooLongError struct {
	Title  string
	Length int
	Max    int
}

func (e *URITooLongError) Error() string {
	return fmt.Sprintf("note %q encodes to a %d character URI, the limit is %d; lower the max note size and send again",
		e.Title, e.Length, e.Max)
}
