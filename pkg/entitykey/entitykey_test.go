package entitykey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	t.Parallel()

	// Keccak-256 of the empty input.
	assert.Equal(t, "0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470", Derive(nil, nil))
	assert.Equal(t, Derive([]byte("a"), []byte("n")), Derive([]byte("a"), []byte("n")))
	assert.NotEqual(t, Derive([]byte("a"), []byte("n1")), Derive([]byte("a"), []byte("n2")))
}

func TestNewIsUnique(t *testing.T) {
	t.Parallel()

	first := New([]byte("same bytes"))
	second := New([]byte("same bytes"))

	assert.True(t, Valid(first))
	assert.True(t, Valid(second))
	assert.NotEqual(t, first, second)
}

func TestValid(t *testing.T) {
	t.Parallel()

	assert.False(t, Valid("0x1234"))
	assert.False(t, Valid("c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470"))
	assert.False(t, Valid("0xC5D2460186F7233C927E7DB2DCC703C0E500B653CA82273B7BFAD8045D85A470"))
}
