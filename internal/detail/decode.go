package detail

import (
	"sort"
	"strconv"

	"github.com/getditto-shared/ditto-cot-sub001/internal/flatval"
)

// Decode reconstructs a sibling group from a flat map. It is the inverse of
// Encode up to ordering: per-name relative order among repeats is restored
// from the stable indices, but the original interleaving of singleton and
// repeated names is lost unless the map was encoded with WithSequenceTags.
// Without sequence tags the output is all direct records first (sorted by
// name), then each stable group in index order (groups sorted by name).
//
// Decode never fails. Malformed stable-looking keys are treated as direct
// keys; values that are not objects are preserved as best-effort records
// with their string representation as text; missing metadata falls back to
// the key string. Data preservation takes priority over structural fidelity.
func Decode(m FlatMap) SiblingGroup {
	type entry struct {
		rec    Record
		key    string
		index  int
		seq    int64
		hasSeq bool
	}

	var direct []entry
	groups := make(map[string][]entry)

	for key, val := range m {
		obj, isObj := val.(flatval.Object)
		sk, stable := ParseStableKey(key)

		seq := int64(-1)
		hasSeq := false
		if isObj {
			if s, ok := obj[SeqKey].(flatval.Int); ok {
				seq, hasSeq = int64(s), true
			}
		}

		if !stable {
			e := entry{key: key, seq: seq, hasSeq: hasSeq}
			if isObj {
				e.rec = objectToRecord(key, obj)
			} else {
				e.rec = Record{Name: key, Text: coerceString(val)}
			}
			direct = append(direct, e)
			continue
		}

		// Stable entry: prefer metadata for name and index, fall back to
		// the parsed key string (compact policy carries only the name).
		name := sk.Name
		index := sk.Index
		var rec Record
		if isObj {
			if tag, ok := obj[TagKey].(flatval.String); ok && tag != "" {
				name = string(tag)
			}
			if idx, ok := obj[ElementIndexKey].(flatval.Int); ok && idx >= 0 {
				index = int(idx)
			}
			rec = objectToRecord(name, obj)
		} else {
			rec = Record{Name: name, Text: coerceString(val)}
		}
		groups[name] = append(groups[name], entry{rec: rec, key: key, index: index, seq: seq, hasSeq: hasSeq})
	}

	// Assemble: direct first, then stable groups, deterministically ordered.
	sort.Slice(direct, func(i, j int) bool { return direct[i].key < direct[j].key })

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	all := make([]entry, 0, len(m))
	all = append(all, direct...)
	for _, name := range names {
		g := groups[name]
		sort.Slice(g, func(i, j int) bool {
			if g[i].index != g[j].index {
				return g[i].index < g[j].index
			}
			return g[i].key < g[j].key
		})
		all = append(all, g...)
	}

	// When every entry carries a sequence tag the original interleaving is
	// recoverable; honor it. A single untagged entry disables this so that
	// maps mixing tagged and untagged writes stay deterministic.
	allTagged := len(all) > 0
	for _, e := range all {
		if !e.hasSeq {
			allTagged = false
			break
		}
	}
	if allTagged {
		sort.SliceStable(all, func(i, j int) bool { return all[i].seq < all[j].seq })
	}

	out := make(SiblingGroup, 0, len(all))
	for _, e := range all {
		out = append(out, e.rec)
	}
	return out
}

// objectToRecord rebuilds a record from its object value: TextKey becomes
// the text content, reserved metadata keys are stripped, nested objects
// become child records, and remaining entries land in the attribute bag with
// post-merge non-string scalars coerced back to strings.
func objectToRecord(name string, obj flatval.Object) Record {
	rec := Record{Name: name}

	for _, k := range obj.SortedKeys() {
		v := obj[k]

		if k == TextKey {
			rec.Text = coerceString(v)
			continue
		}
		if isReservedKey(k) {
			continue
		}

		if child, ok := v.(flatval.Object); ok {
			rec.Children = append(rec.Children, objectToRecord(k, child))
			continue
		}

		if rec.Attrs == nil {
			rec.Attrs = make(map[string]string)
		}
		rec.Attrs[k] = coerceString(v)
	}

	return rec
}

// coerceString renders any Value as an attribute string. Attributes are
// strings on the wire; anything richer only appears after a merge round and
// is flattened rather than rejected.
func coerceString(v flatval.Value) string {
	switch val := v.(type) {
	case flatval.String:
		return string(val)
	case flatval.Bool:
		if val {
			return "true"
		}
		return "false"
	case flatval.Int:
		return strconv.FormatInt(int64(val), 10)
	case flatval.Float:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case flatval.Null:
		return ""
	default:
		data, err := flatval.MarshalCanonical(v)
		if err != nil {
			return ""
		}
		return string(data)
	}
}
