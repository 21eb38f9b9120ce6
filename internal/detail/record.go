package detail

import (
	"github.com/getditto-shared/ditto-cot-sub001/internal/flatval"
)

// Record is one named entry of a detail payload: an attribute bag, optional
// text content, and optionally nested child records. Produced by an external
// markup parser that preserves document order and raw attribute strings.
type Record struct {
	// Name is the element name. Names may repeat across siblings.
	Name string

	// Attrs holds the attributes verbatim as raw strings.
	Attrs map[string]string

	// Text is the element's text content, empty if absent.
	Text string

	// Children holds nested child records in document order. Nesting is
	// preserved on encode as nested objects, but duplicate child names are
	// NOT disambiguated the way top-level siblings are: the last duplicate
	// wins. Deeper duplication support is an explicit non-goal.
	Children []Record
}

// SiblingGroup is the ordered sequence of records under one detail payload.
// Order is the only positional information available; there is no sequence
// number on the wire.
type SiblingGroup []Record

// FlatMap is the flat, field-granular representation of a SiblingGroup:
// bare names for unique records, {scope}_{name}_{index} for repeats.
type FlatMap map[string]flatval.Value

// Tally counts occurrences of each sibling name in one linear scan.
// Absent names have an implicit count of zero.
func Tally(group SiblingGroup) map[string]int {
	counts := make(map[string]int, len(group))
	for _, rec := range group {
		counts[rec.Name]++
	}
	return counts
}
