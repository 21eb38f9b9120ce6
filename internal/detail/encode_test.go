package detail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getditto-shared/ditto-cot-sub001/internal/flatval"
)

const testScope = "doc-abc"

// duplicateRuleGroup is the 13-record fixture: 3x sensor, 2x contact,
// 3x track, 3x remarks, 1x status, 1x acquisition.
func duplicateRuleGroup() SiblingGroup {
	return SiblingGroup{
		{Name: "sensor", Attrs: map[string]string{"id": "sensor-0", "type": "optical"}},
		{Name: "sensor", Attrs: map[string]string{"id": "sensor-1", "type": "radar"}},
		{Name: "sensor", Attrs: map[string]string{"id": "sensor-2", "type": "thermal", "resolution": "1080p"}},
		{Name: "contact", Attrs: map[string]string{"callsign": "RAVEN-1"}},
		{Name: "contact", Attrs: map[string]string{"callsign": "RAVEN-2"}},
		{Name: "track", Attrs: map[string]string{"course": "090", "speed": "12.5"}},
		{Name: "track", Attrs: map[string]string{"course": "095", "speed": "13.1"}},
		{Name: "track", Attrs: map[string]string{"course": "100", "speed": "12.9"}},
		{Name: "remarks", Text: "first remark"},
		{Name: "remarks", Text: "second remark"},
		{Name: "remarks", Text: "third remark"},
		{Name: "status", Attrs: map[string]string{"battery": "81"}},
		{Name: "acquisition", Attrs: map[string]string{"state": "locked"}},
	}
}

func TestEncodeSingletonRule(t *testing.T) {
	group := SiblingGroup{
		{Name: "status", Attrs: map[string]string{"battery": "81"}},
	}

	m, err := Encode(group, testScope)
	require.NoError(t, err)

	require.Len(t, m, 1)
	assert.Contains(t, m, "status")
	for key := range m {
		_, stable := ParseStableKey(key)
		assert.False(t, stable, "singleton must not produce a stable key, got %q", key)
	}
}

func TestEncodeDuplicateRule(t *testing.T) {
	m, err := Encode(duplicateRuleGroup(), testScope)
	require.NoError(t, err)

	require.Len(t, m, 13)

	assert.Contains(t, m, "status")
	assert.Contains(t, m, "acquisition")
	for i := 0; i < 3; i++ {
		assert.Contains(t, m, StableKey{testScope, "sensor", i}.String())
		assert.Contains(t, m, StableKey{testScope, "track", i}.String())
		assert.Contains(t, m, StableKey{testScope, "remarks", i}.String())
	}
	for i := 0; i < 2; i++ {
		assert.Contains(t, m, StableKey{testScope, "contact", i}.String())
	}

	// No direct key for any repeated name.
	assert.NotContains(t, m, "sensor")
	assert.NotContains(t, m, "contact")
	assert.NotContains(t, m, "track")
	assert.NotContains(t, m, "remarks")
}

func TestEncodeIndicesFollowDocumentOrder(t *testing.T) {
	m, err := Encode(duplicateRuleGroup(), testScope)
	require.NoError(t, err)

	first := m[StableKey{testScope, "sensor", 0}.String()].(flatval.Object)
	assert.Equal(t, flatval.String("sensor-0"), first["id"])

	last := m[StableKey{testScope, "sensor", 2}.String()].(flatval.Object)
	assert.Equal(t, flatval.String("sensor-2"), last["id"])
}

func TestEncodeDeterministic(t *testing.T) {
	group := duplicateRuleGroup()

	first, err := Encode(group, testScope)
	require.NoError(t, err)
	firstBytes, err := flatval.MarshalCanonical(flatval.Object(first))
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := Encode(group, testScope)
		require.NoError(t, err)
		againBytes, err := flatval.MarshalCanonical(flatval.Object(again))
		require.NoError(t, err)
		assert.Equal(t, firstBytes, againBytes)
	}
}

func TestEncodeEmptyGroup(t *testing.T) {
	m, err := Encode(SiblingGroup{}, testScope)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestEncodeEmptyScope(t *testing.T) {
	_, err := Encode(duplicateRuleGroup(), "")
	assert.ErrorIs(t, err, ErrEmptyScope)
}

func TestEncodeCompactMetadata(t *testing.T) {
	m, err := Encode(duplicateRuleGroup(), testScope)
	require.NoError(t, err)

	obj := m[StableKey{testScope, "sensor", 1}.String()].(flatval.Object)
	assert.Equal(t, flatval.String("sensor"), obj[TagKey])
	assert.NotContains(t, obj, DocIDKey)
	assert.NotContains(t, obj, ElementIndexKey)
}

func TestEncodeVerboseMetadata(t *testing.T) {
	m, err := Encode(duplicateRuleGroup(), testScope, WithMetadataPolicy(PolicyVerbose))
	require.NoError(t, err)

	obj := m[StableKey{testScope, "sensor", 1}.String()].(flatval.Object)
	assert.Equal(t, flatval.String("sensor"), obj[TagKey])
	assert.Equal(t, flatval.String(testScope), obj[DocIDKey])
	assert.Equal(t, flatval.Int(1), obj[ElementIndexKey])
}

func TestEncodeDirectValuesCarryNoMetadata(t *testing.T) {
	m, err := Encode(duplicateRuleGroup(), testScope, WithMetadataPolicy(PolicyVerbose))
	require.NoError(t, err)

	obj := m["status"].(flatval.Object)
	assert.NotContains(t, obj, TagKey)
	assert.NotContains(t, obj, DocIDKey)
	assert.NotContains(t, obj, ElementIndexKey)
}

func TestEncodeTextContent(t *testing.T) {
	group := SiblingGroup{
		{Name: "remarks", Text: "on station"},
		{Name: "status", Attrs: map[string]string{"battery": "81"}, Text: ""},
	}

	m, err := Encode(group, testScope)
	require.NoError(t, err)

	remarks := m["remarks"].(flatval.Object)
	assert.Equal(t, flatval.String("on station"), remarks[TextKey])

	// Empty text does not materialize a _text entry.
	status := m["status"].(flatval.Object)
	assert.NotContains(t, status, TextKey)
}

func TestEncodeNestedChildren(t *testing.T) {
	group := SiblingGroup{
		{
			Name:  "takv",
			Attrs: map[string]string{"platform": "handheld"},
			Children: []Record{
				{Name: "version", Attrs: map[string]string{"value": "4.8"}, Text: "stable"},
			},
		},
	}

	m, err := Encode(group, testScope)
	require.NoError(t, err)

	takv := m["takv"].(flatval.Object)
	version, ok := takv["version"].(flatval.Object)
	require.True(t, ok)
	assert.Equal(t, flatval.String("4.8"), version["value"])
	assert.Equal(t, flatval.String("stable"), version[TextKey])
}

func TestEncodeDuplicateNestedChildrenLastWins(t *testing.T) {
	// Nested duplication is not disambiguated: the last child wins.
	group := SiblingGroup{
		{
			Name: "wrapper",
			Children: []Record{
				{Name: "item", Attrs: map[string]string{"n": "1"}},
				{Name: "item", Attrs: map[string]string{"n": "2"}},
			},
		},
	}

	m, err := Encode(group, testScope)
	require.NoError(t, err)

	wrapper := m["wrapper"].(flatval.Object)
	item := wrapper["item"].(flatval.Object)
	assert.Equal(t, flatval.String("2"), item["n"])
}

func TestEncodeReservedAttrPassThroughByDefault(t *testing.T) {
	group := SiblingGroup{
		{Name: "sensor", Attrs: map[string]string{"_custom": "x"}},
	}

	m, err := Encode(group, testScope)
	require.NoError(t, err)

	obj := m["sensor"].(flatval.Object)
	assert.Equal(t, flatval.String("x"), obj["_custom"])
}

func TestEncodeRejectReservedAttrs(t *testing.T) {
	group := SiblingGroup{
		{Name: "sensor", Attrs: map[string]string{"_tag": "spoofed"}},
	}

	_, err := Encode(group, testScope, WithReservedAttrHook(RejectReservedAttrs))
	require.Error(t, err)
	assert.True(t, IsReservedAttrError(err))

	var re *ReservedAttrError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "sensor", re.RecordName)
	assert.Equal(t, "_tag", re.AttrName)
}

func TestEncodeSequenceTags(t *testing.T) {
	group := SiblingGroup{
		{Name: "sensor", Attrs: map[string]string{"id": "a"}},
		{Name: "status", Attrs: map[string]string{"battery": "81"}},
		{Name: "sensor", Attrs: map[string]string{"id": "b"}},
	}

	m, err := Encode(group, testScope, WithSequenceTags())
	require.NoError(t, err)

	s0 := m[StableKey{testScope, "sensor", 0}.String()].(flatval.Object)
	status := m["status"].(flatval.Object)
	s1 := m[StableKey{testScope, "sensor", 1}.String()].(flatval.Object)

	assert.Equal(t, flatval.Int(0), s0[SeqKey])
	assert.Equal(t, flatval.Int(1), status[SeqKey])
	assert.Equal(t, flatval.Int(2), s1[SeqKey])
}
