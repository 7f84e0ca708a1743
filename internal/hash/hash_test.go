package hash

import (
	"hash/fnv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSum64(t *testing.T) {
	// Must agree with the stdlib FNV-1a so keys are portable.
	for _, s := range []string{"", "dog", "Cat", "the quick brown fox"} {
		h := fnv.New64a()
		_, err := h.Write([]byte(s))
		require.NoError(t, err)
		assert.Equal(t, h.Sum64(), Sum64(s), s)
	}
}

func TestSum64_Distinct(t *testing.T) {
	assert.NotEqual(t, Sum64("dog"), Sum64("cat"))
	assert.NotEqual(t, Sum64("dog"), Sum64("Dog"))
}

func TestCRC32C(t *testing.T) {
	data := []byte("snapshot payload")

	sum := CRC32C(data)
	assert.Equal(t, sum, CRC32C(data), "deterministic")

	h := NewCRC32C()
	_, err := h.Write(data)
	require.NoError(t, err)
	assert.Equal(t, sum, h.Sum32())

	data[0] ^= 0xFF
	assert.NotEqual(t, sum, CRC32C(data))
}
