package hipc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecialHeaderBuilder_empty(t *testing.T) {
	var b SpecialHeaderBuilder
	assert.Equal(t, 4, b.byteLen())
	assert.Len(t, b.Build(), 4)
}

func TestSpecialHeaderBuilder_withProgramID(t *testing.T) {
	b, err := SpecialHeaderBuilder{}.WithProgramID(0xdeadbeefcafe)
	require.NoError(t, err)
	assert.Equal(t, 12, b.byteLen())

	_, err = b.WithProgramID(1)
	assert.ErrorIs(t, err, ErrTooManyProcessIDs)
}

func TestSpecialHeaderBuilder_handleLimits(t *testing.T) {
	b := SpecialHeaderBuilder{}
	var err error
	for i := 0; i < maxCopyHandles; i++ {
		b, err = b.WithCopyHandle(uint32(i))
		require.NoError(t, err)
	}
	_, err = b.WithCopyHandle(99)
	assert.True(t, errors.Is(err, ErrTooManyCopyHandles))

	m := SpecialHeaderBuilder{}
	for i := 0; i < maxMoveHandles; i++ {
		m, err = m.WithMoveHandle(uint32(i))
		require.NoError(t, err)
	}
	_, err = m.WithMoveHandle(99)
	assert.True(t, errors.Is(err, ErrTooManyMoveHandles))
}

func TestSpecialHeaderBuilder_buildOrder(t *testing.T) {
	b, err := SpecialHeaderBuilder{}.WithProgramID(1)
	require.NoError(t, err)
	b, err = b.WithCopyHandle(0xaa)
	require.NoError(t, err)
	b, err = b.WithMoveHandle(0xbb)
	require.NoError(t, err)

	out := b.Build()
	require.Len(t, out, 4+8+4+4)

	word := SpecialHeaderWord(uint32(out[0]) | uint32(out[1])<<8 | uint32(out[2])<<16 | uint32(out[3])<<24)
	assert.True(t, word.SendPID())
	assert.Equal(t, 1, word.NumCopyHandles())
	assert.Equal(t, 1, word.NumMoveHandles())

	// PID occupies bytes 4..12, copy handle 12..16, move handle 16..20.
	assert.Equal(t, byte(1), out[4])
	assert.Equal(t, byte(0xaa), out[12])
	assert.Equal(t, byte(0xbb), out[16])
}

func TestSpecialHeaderBuilder_valueSemantics(t *testing.T) {
	base := SpecialHeaderBuilder{}
	extended, err := base.WithCopyHandle(1)
	require.NoError(t, err)

	assert.Equal(t, 4, base.byteLen())
	assert.Equal(t, 8, extended.byteLen())
}
