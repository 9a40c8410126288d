package core

import "errors"

// Common errors.
var (
	// ErrInvalidID is returned when a record carries an identifier that cannot be used,
	// most notably an explicit null.
	ErrInvalidID = errors.New("invalid id")

	// ErrUnsupportedItem is returned when a collection is built for an item type
	// that has no reference identity.
	ErrUnsupportedItem = errors.New("item type must be a pointer or a map")
)

// InvalidIDError reports a malformed identifier found while reconciling a record.
type InvalidIDError struct {
	ID any
}

func (e *InvalidIDError) Error() string {
	return describe(e.ID) + " is not a valid ID"
}

// Is lets errors.Is(err, ErrInvalidID) match.
func (e *InvalidIDError) Is(target error) bool {
	return target == ErrInvalidID
}
