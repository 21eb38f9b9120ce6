package detail

import (
	"fmt"
	"strconv"
	"strings"
)

// Reserved keys injected into stable-keyed objects. All reserved keys are
// underscore-prefixed; source attributes sharing that prefix pass through
// unchanged and can corrupt reconstruction (see Encode's reserved-attribute
// hook).
const (
	// TagKey holds the record's original element name.
	TagKey = "_tag"

	// DocIDKey holds the owning document's scope (verbose policy only).
	DocIDKey = "_docId"

	// ElementIndexKey holds the per-name index (verbose policy only).
	ElementIndexKey = "_elementIndex"

	// TextKey holds the record's text content.
	TextKey = "_text"

	// SeqKey holds the global document-order sequence number, present only
	// when encoding with WithSequenceTags.
	SeqKey = "_seq"
)

// StableKey identifies one occurrence of a repeated sibling name within a
// document. Its string form is "{scope}_{name}_{index}".
type StableKey struct {
	Scope string
	Name  string
	Index int
}

// String renders the key in its wire form.
func (k StableKey) String() string {
	return fmt.Sprintf("%s_%s_%d", k.Scope, k.Name, k.Index)
}

// ParseStableKey splits a flat map key back into its components. A key is
// stable iff it has at least three underscore-separated components and the
// last one parses as a non-negative integer. Malformed look-alikes report
// ok=false and are treated as direct keys by the decoder, never as errors.
//
// The scope may itself contain underscores (everything before the last two
// separators belongs to it). A NAME containing underscores cannot be
// recovered from the key string alone; the decoder prefers the _tag
// metadata for exactly that reason.
func ParseStableKey(key string) (StableKey, bool) {
	parts := strings.Split(key, "_")
	if len(parts) < 3 {
		return StableKey{}, false
	}

	last := parts[len(parts)-1]
	idx, err := strconv.Atoi(last)
	if err != nil || idx < 0 {
		return StableKey{}, false
	}
	// Reject forms like "-0" or "+1" that Atoi accepts but the wire format
	// never produces.
	if last != strconv.Itoa(idx) {
		return StableKey{}, false
	}

	name := parts[len(parts)-2]
	if name == "" {
		return StableKey{}, false
	}

	scope := strings.Join(parts[:len(parts)-2], "_")
	if scope == "" {
		return StableKey{}, false
	}

	return StableKey{Scope: scope, Name: name, Index: idx}, true
}

// isReservedKey reports whether a key inside a record object is one of the
// codec's own metadata keys (TextKey excluded - text is payload, not
// provenance).
func isReservedKey(k string) bool {
	switch k {
	case TagKey, DocIDKey, ElementIndexKey, SeqKey:
		return true
	}
	return false
}
