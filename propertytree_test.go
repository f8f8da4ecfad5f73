package factoriodat

import (
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roundTripTree(t *testing.T, pt PropertyTree) PropertyTree {
	t.Helper()
	w := NewWriter()
	w.WritePropertyTree(pt)
	got, err := NewCursor(w.Bytes()).NextPropertyTree()
	require.NoError(t, err)
	return got
}

func TestTreeScalarRoundTrips(t *testing.T) {
	assert.Equal(t, TypeNone, roundTripTree(t, NewNone()).Type())

	v, ok := roundTripTree(t, NewBool(true)).AsBool()
	assert.True(t, ok)
	assert.True(t, v)

	n, ok := roundTripTree(t, NewNumber(-12.75)).AsNumber()
	assert.True(t, ok)
	assert.Equal(t, -12.75, n)

	s, ok := roundTripTree(t, NewString("iron-plate")).AsString()
	assert.True(t, ok)
	assert.Equal(t, "iron-plate", s)
}

func TestTreeDecodeFixture(t *testing.T) {
	// bool node: discriminator, reserved flag, value
	pt, err := NewCursor([]byte{0x01, 0x00, 0x01}).NextPropertyTree()
	require.NoError(t, err)
	v, ok := pt.AsBool()
	assert.True(t, ok)
	assert.True(t, v)

	// dictionary with one string entry:
	//   05 00 | count=1 | key "a" | string node "b"
	buf := []byte{
		0x05, 0x00,
		0x01, 0x00, 0x00, 0x00,
		0x00, 0x01, 'a',
		0x03, 0x00, 0x00, 0x01, 'b',
	}
	pt, err = NewCursor(buf).NextPropertyTree()
	require.NoError(t, err)
	require.Equal(t, TypeDictionary, pt.Type())
	val, ok := pt.Get("a")
	require.True(t, ok)
	s, _ := val.AsString()
	assert.Equal(t, "b", s)
}

func TestTreeEncodeWritesReservedFalseAndEmptyLabels(t *testing.T) {
	w := NewWriter()
	w.WritePropertyTree(NewList(NewBool(true)))
	assert.Equal(t, []byte{
		0x04, 0x00, // list, reserved flag false
		0x01, 0x00, 0x00, 0x00, // one element
		0x01,             // empty unused label
		0x01, 0x00, 0x01, // bool node true
	}, w.Bytes())
}

func TestTreeDiscriminatorOutOfRange(t *testing.T) {
	for _, b := range []byte{6, 7, 0x80, 0xFF} {
		_, err := NewCursor([]byte{b, 0x00}).NextPropertyTree()
		assert.ErrorIs(t, err, ErrOutOfRange)
	}
}

func TestTreeDepthCeiling(t *testing.T) {
	// nest lists one deeper than the ceiling
	var buf []byte
	for i := 0; i <= MaxTreeDepth; i++ {
		buf = append(buf, 0x04, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01)
	}
	buf = append(buf, 0x00, 0x00) // innermost none node
	_, err := NewCursor(buf).NextPropertyTree()
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestTreeTruncatedFails(t *testing.T) {
	w := NewWriter()
	dict, err := NewDictionary(
		DictEntry{Key: "alpha", Value: NewNumber(1)},
		DictEntry{Key: "beta", Value: NewString("value")},
	)
	require.NoError(t, err)
	w.WritePropertyTree(dict)
	full := w.Bytes()

	for n := 0; n < len(full); n++ {
		_, err := NewCursor(full[:n]).NextPropertyTree()
		require.Error(t, err, "prefix of %d bytes", n)
	}
}

func TestDictionaryOrderPreserved(t *testing.T) {
	// keys deliberately not in sorted order
	keys := []string{"zeta", "alpha", "mu", "beta"}
	entries := make([]DictEntry, len(keys))
	for i, k := range keys {
		entries[i] = DictEntry{Key: k, Value: NewNumber(float64(i))}
	}
	dict, err := NewDictionary(entries...)
	require.NoError(t, err)

	got := roundTripTree(t, dict)
	require.Len(t, got.Entries(), len(keys))
	for i, e := range got.Entries() {
		assert.Equal(t, keys[i], e.Key)
	}
}

func TestDictionaryDuplicateKeyRejected(t *testing.T) {
	_, err := NewDictionary(
		DictEntry{Key: "dup", Value: NewNone()},
		DictEntry{Key: "dup", Value: NewBool(true)},
	)
	assert.ErrorIs(t, err, ErrSyntax)

	// same check on the decode path
	buf := []byte{
		0x05, 0x00,
		0x02, 0x00, 0x00, 0x00,
		0x00, 0x01, 'k', 0x00, 0x00,
		0x00, 0x01, 'k', 0x00, 0x00,
	}
	_, err = NewCursor(buf).NextPropertyTree()
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestTreeQuickNumberStringRoundTrip(t *testing.T) {
	condition := func(n float64, s string) bool {
		dict, err := NewDictionary(
			DictEntry{Key: "n", Value: NewNumber(n)},
			DictEntry{Key: "s", Value: NewString(s)},
		)
		if err != nil {
			return false
		}
		w := NewWriter()
		w.WritePropertyTree(dict)
		got, err := NewCursor(w.Bytes()).NextPropertyTree()
		if err != nil {
			return false
		}
		gn, _ := got.Entries()[0].Value.AsNumber()
		gs, _ := got.Entries()[1].Value.AsString()
		return gn == n && gs == s
	}
	if err := quick.Check(condition, nil); err != nil {
		t.Errorf("Error: %v", err)
	}
}

func TestTreeMarshalJSON(t *testing.T) {
	dict, err := NewDictionary(
		DictEntry{Key: "z", Value: NewBool(true)},
		DictEntry{Key: "a", Value: NewList(NewNumber(1), NewString("x"))},
		DictEntry{Key: "m", Value: NewNone()},
	)
	require.NoError(t, err)

	data, err := dict.MarshalJSON()
	require.NoError(t, err)
	// key order must survive, not be sorted
	assert.Equal(t, `{"z":true,"a":[1,"x"],"m":null}`, string(data))
}
