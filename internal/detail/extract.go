package detail

import (
	"strings"

	"github.com/getditto-shared/ditto-cot-sub001/internal/flatval"
)

// ReservedAttrHook is called for every source attribute whose name starts
// with the reserved underscore prefix. Returning an error aborts the encode;
// returning nil admits the attribute verbatim.
type ReservedAttrHook func(recordName, attrName string) error

// PassReservedAttrs admits underscore-prefixed attribute names unchanged.
// This matches the reference behavior and is the default. It is a documented
// limitation: an attribute literally named "_tag" or "_text" is
// indistinguishable from codec metadata on decode and will corrupt
// reconstruction of that record.
func PassReservedAttrs(recordName, attrName string) error {
	return nil
}

// RejectReservedAttrs refuses underscore-prefixed attribute names with a
// ReservedAttrError, for callers that prefer a hard failure over silent
// corruption.
func RejectReservedAttrs(recordName, attrName string) error {
	return &ReservedAttrError{RecordName: recordName, AttrName: attrName}
}

// extractValue converts one record into its object value: every attribute
// verbatim as a string entry, the text content under TextKey if non-empty,
// and each child record as a nested object under the child's name. Duplicate
// child names are not disambiguated; the last one wins.
func extractValue(rec Record, hook ReservedAttrHook) (flatval.Object, error) {
	obj := make(flatval.Object, len(rec.Attrs)+len(rec.Children)+1)

	for name, val := range rec.Attrs {
		if strings.HasPrefix(name, "_") {
			if err := hook(rec.Name, name); err != nil {
				return nil, err
			}
		}
		obj[name] = flatval.String(val)
	}

	if rec.Text != "" {
		obj[TextKey] = flatval.String(rec.Text)
	}

	for _, child := range rec.Children {
		childObj, err := extractValue(child, hook)
		if err != nil {
			return nil, err
		}
		obj[child.Name] = childObj
	}

	return obj, nil
}
