package hash

import (
	"bytes"
	"crypto/rand"
	"io"
	"testing"

	"github.com/cronokirby/saferith"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashWritingSucceeds(t *testing.T) {
	h := New()

	buf := make([]byte, 64)
	_, err := rand.Read(buf)
	require.NoError(t, err)

	n := new(saferith.Nat).SetBytes(buf)
	assert.NoError(t, h.WriteAny(n, []byte{1, 4, 6}, saferith.ModulusFromBytes(buf)))
	assert.NoError(t, h.WriteAny(BytesWithDomain{TheDomain: "test", Bytes: buf}))
}

func TestHashWriteInt(t *testing.T) {
	value := []byte{1, 2, 3}

	h1 := New()
	require.NoError(t, h1.WriteAny(new(saferith.Int).SetBytes(value)))
	h2 := New()
	require.NoError(t, h2.WriteAny(new(saferith.Int).SetBytes(value)))
	assert.Equal(t, h1.Sum(), h2.Sum())

	h3 := New()
	require.NoError(t, h3.WriteAny(new(saferith.Int).SetBytes([]byte{1, 2, 4})))
	assert.NotEqual(t, h1.Sum(), h3.Sum())
}

func TestHashDeterministic(t *testing.T) {
	data := []byte("input")
	first := New()
	require.NoError(t, first.WriteAny(data))
	second := New()
	require.NoError(t, second.WriteAny(data))
	assert.Equal(t, first.Sum(), second.Sum())
	assert.Len(t, first.Sum(), DigestLengthBytes)
}

// TestHashDomainSeparation checks that the same bytes written under
// different domains produce different digests, and that values cannot be
// re-split across a boundary.
func TestHashDomainSeparation(t *testing.T) {
	payload := []byte("payload")

	h1 := New(BytesWithDomain{TheDomain: "A", Bytes: payload})
	h2 := New(BytesWithDomain{TheDomain: "B", Bytes: payload})
	assert.False(t, bytes.Equal(h1.Sum(), h2.Sum()), "different domains should separate")

	// ("ab", "c") vs ("a", "bc")
	h3 := New()
	require.NoError(t, h3.WriteAny([]byte("ab"), []byte("c")))
	h4 := New()
	require.NoError(t, h4.WriteAny([]byte("a"), []byte("bc")))
	assert.False(t, bytes.Equal(h3.Sum(), h4.Sum()), "length prefixes should prevent resplitting")
}

func TestHashClone(t *testing.T) {
	h := New(BytesWithDomain{TheDomain: "base", Bytes: []byte("state")})

	clone := h.Clone()
	require.NoError(t, clone.WriteAny([]byte("extra")))

	assert.False(t, bytes.Equal(h.Sum(), clone.Sum()), "writing to a clone should not affect the original")
	assert.Equal(t, h.Sum(), h.Clone().Sum())
}

func TestHashDigestStream(t *testing.T) {
	h := New(BytesWithDomain{TheDomain: "stream", Bytes: []byte("data")})

	long := make([]byte, 3*DigestLengthBytes)
	_, err := io.ReadFull(h.Digest(), long)
	require.NoError(t, err)
	assert.Equal(t, h.Sum(), long[:DigestLengthBytes], "the digest stream should extend Sum")
}
