package feature

import (
	"errors"
	"fmt"
)

// InvalidInputError reports a selector that is malformed on its face (wrong
// length, non-digit FIPS characters) before any dataset is consulted.
type InvalidInputError struct {
	Input  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input %q: %s", e.Input, e.Reason)
}

// UnresolvedIdentifierError reports a well-formed selector that matched no
// record in the reference dataset. Input is the user's original text.
type UnresolvedIdentifierError struct {
	Kind  string // "state", "county", "place"
	Input string
}

func (e *UnresolvedIdentifierError) Error() string {
	return fmt.Sprintf("could not resolve %s %q", e.Kind, e.Input)
}

// NotFoundError reports an identifier that resolved but selected no geometry
// when building a boundary.
type NotFoundError struct {
	Kind  string
	Value string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s boundary found for %q", e.Kind, e.Value)
}

// MissingCRSError reports a collection with no declared coordinate reference
// system. Clipping cannot proceed without one; guessing a CRS silently
// produces wrong geometry.
type MissingCRSError struct {
	Subject string // "layer" or "boundary", plus a name when known
}

func (e *MissingCRSError) Error() string {
	return fmt.Sprintf("%s has no coordinate reference system", e.Subject)
}

// IsInvalidInput reports whether any error in the chain is an InvalidInputError.
func IsInvalidInput(err error) bool {
	var e *InvalidInputError
	return errors.As(err, &e)
}

// IsUnresolved reports whether any error in the chain is an UnresolvedIdentifierError.
func IsUnresolved(err error) bool {
	var e *UnresolvedIdentifierError
	return errors.As(err, &e)
}

// IsNotFound reports whether any error in the chain is a NotFoundError.
func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// IsMissingCRS reports whether any error in the chain is a MissingCRSError.
func IsMissingCRS(err error) bool {
	var e *MissingCRSError
	return errors.As(err, &e)
}
