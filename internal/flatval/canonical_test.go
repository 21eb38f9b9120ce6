package flatval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalSortedKeys(t *testing.T) {
	obj := Object{
		"b": Int(2),
		"a": Int(1),
		"A": Int(0),
	}

	data, err := MarshalCanonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"A":0,"a":1,"b":2}`, string(data))
}

func TestMarshalCanonicalNoHTMLEscaping(t *testing.T) {
	data, err := MarshalCanonical(String("<remarks> & more"))
	require.NoError(t, err)
	assert.Equal(t, `"<remarks> & more"`, string(data))
}

func TestMarshalCanonicalNFC(t *testing.T) {
	// "e" + combining acute (NFD) normalizes to precomposed U+00E9
	data, err := MarshalCanonical(String("cafe\u0301"))
	require.NoError(t, err)
	assert.Equal(t, "\"caf\u00e9\"", string(data))
}

func TestMarshalCanonicalLineSeparatorsLiteral(t *testing.T) {
	data, err := MarshalCanonical(String("a\u2028b\u2029c"))
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\u2029c\"", string(data))
}

func TestMarshalCanonicalBackslashU2028Text(t *testing.T) {
	// A literal backslash followed by the text "u2028" must stay escaped.
	data, err := MarshalCanonical(String(`\u2028`))
	require.NoError(t, err)
	assert.Equal(t, `"\\u2028"`, string(data))
}

func TestMarshalCanonicalDeterministic(t *testing.T) {
	obj := Object{
		"track_0":  Object{"course": String("270"), "_tag": String("track")},
		"status":   Object{"battery": String("81")},
		"track_1":  Object{"course": String("90"), "_tag": String("track")},
		"contacts": Object{"callsign": String("RAVEN")},
	}

	first, err := MarshalCanonical(obj)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := MarshalCanonical(obj)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestMarshalCanonicalNumbers(t *testing.T) {
	data, err := MarshalCanonical(Array{Int(0), Int(-17), Float(0.5)})
	require.NoError(t, err)
	assert.Equal(t, `[0,-17,0.5]`, string(data))
}
