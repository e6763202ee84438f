package hipc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func Test_bitmask(t *testing.T) {
	assert.Equal(t, uint32(0), bitmask[uint32](0, 0))
	assert.Equal(t, uint32(0b1), bitmask[uint32](0, 1))
	assert.Equal(t, uint32(0b1110), bitmask[uint32](1, 4))
	assert.Equal(t, uint64(0xffffffff), bitmask[uint64](0, 32))
}

func Test_extractBits(t *testing.T) {
	var v uint32 = 0b1011_0000
	assert.Equal(t, uint32(0b1011), extractBits(v, 4, 8))
	assert.Equal(t, uint32(0), extractBits(v, 0, 4))
}

func Test_setBits(t *testing.T) {
	var dst uint32 = 0xffffffff
	// clear bits 4..8 of dst, then write 0b0101 from bit 0 of src into them
	var src uint32 = 0b0101
	got := setBits(src, dst, 0, 4, 4)
	assert.Equal(t, uint32(0b0101), extractBits(got, 4, 8))
	// bits outside the target range are untouched
	assert.Equal(t, uint32(0xf), extractBits(got, 0, 4))
}

func Test_setBits_roundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		value := rapid.Uint32().Draw(t, "value")
		lsb := rapid.IntRange(0, 28).Draw(t, "lsb")
		length := rapid.IntRange(1, 32-lsb).Draw(t, "length")

		masked := value & bitmask[uint32](0, length)
		var dst uint32
		dst = setBits(masked, dst, 0, lsb, length)

		assert.Equal(t, masked, extractBits(dst, lsb, lsb+length))
	})
}
