package detail

import (
	"errors"
	"fmt"
)

// ErrEmptyScope is returned when a caller supplies an empty scope. Keys
// generated without a scope would be ambiguous across documents sharing a
// store, so this is the one input the codec refuses outright.
var ErrEmptyScope = errors.New("scope must be non-empty")

// ReservedAttrError reports a source attribute whose name collides with the
// codec's reserved underscore prefix. Only produced when encoding with
// RejectReservedAttrs; the default behavior passes such attributes through
// unchanged.
type ReservedAttrError struct {
	// RecordName is the element whose attribute collided.
	RecordName string

	// AttrName is the offending attribute name.
	AttrName string
}

// Error implements the error interface.
func (e *ReservedAttrError) Error() string {
	return fmt.Sprintf("record %q: attribute %q collides with reserved metadata prefix", e.RecordName, e.AttrName)
}

// IsReservedAttrError reports whether err is a reserved-attribute rejection.
// Uses errors.As to handle wrapped errors.
func IsReservedAttrError(err error) bool {
	var re *ReservedAttrError
	return errors.As(err, &re)
}
