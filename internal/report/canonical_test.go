package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_SortedKeys(t *testing.T) {
	b, err := marshalCanonical(map[string]any{
		"zeta":  int64(1),
		"alpha": "x",
		"mid":   true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":"x","mid":true,"zeta":1}`, string(b))
}

func TestMarshalCanonical_NoHTMLEscaping(t *testing.T) {
	b, err := marshalCanonical(map[string]any{"k": "<a> & </a>"})
	require.NoError(t, err)
	assert.Equal(t, `{"k":"<a> & </a>"}`, string(b))
}

func TestMarshalCanonical_ControlCharsEscaped(t *testing.T) {
	b, err := marshalCanonical("line1\nline2\ttab")
	require.NoError(t, err)
	assert.Equal(t, `"line1\nline2\ttab"`, string(b))
}

func TestMarshalCanonical_NFCNormalization(t *testing.T) {
	// "é" as combining sequence (U+0065 U+0301) normalizes to the
	// precomposed form (U+00E9), so both spellings hash identically.
	decomposed, err := marshalCanonical("é")
	require.NoError(t, err)
	precomposed, err := marshalCanonical("é")
	require.NoError(t, err)
	assert.Equal(t, precomposed, decomposed)
}

func TestMarshalCanonical_RejectsNull(t *testing.T) {
	_, err := marshalCanonical(nil)
	assert.Error(t, err)
}

func TestMarshalCanonical_Array(t *testing.T) {
	b, err := marshalCanonical([]any{"a", int64(2), false})
	require.NoError(t, err)
	assert.Equal(t, `["a",2,false]`, string(b))
}

func TestCompareUTF16_SupplementaryPlane(t *testing.T) {
	// U+1D11E (musical G clef) encodes as a surrogate pair starting at
	// 0xD834, which sorts after U+FB01 in UTF-16 but before it in UTF-8.
	assert.Positive(t, compareUTF16("\U0001D11E", "ﬁ"))
	assert.Negative(t, compareUTF16("a", "b"))
	assert.Zero(t, compareUTF16("same", "same"))
}

func TestFingerprint_StableAcrossCalls(t *testing.T) {
	doc := map[string]any{"b": 2, "a": "one", "nested": map[string]any{"x": true}}

	first, err := Fingerprint(doc)
	require.NoError(t, err)
	second, err := Fingerprint(doc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64) // hex-encoded SHA-256
}

func TestFingerprint_SensitiveToContent(t *testing.T) {
	a, err := Fingerprint(map[string]any{"k": 1})
	require.NoError(t, err)
	b, err := Fingerprint(map[string]any{"k": 2})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
