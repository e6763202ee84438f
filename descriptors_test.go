package hipc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestHeader_roundTrip(t *testing.T) {
	h := NewHeader(Request, 1, 2, 3, 4, 10, 5, 0, true)

	assert.Equal(t, Request, h.Kind())
	assert.Equal(t, 1, h.NumSendStatics())
	assert.Equal(t, 2, h.NumSendBuffers())
	assert.Equal(t, 3, h.NumRecvBuffers())
	assert.Equal(t, 4, h.NumExchBuffers())
	assert.Equal(t, 10, h.RawDataLen())
	assert.Equal(t, uint8(5), h.RecvStaticMode())
	assert.Equal(t, 0, h.RecvListOffset())
	assert.True(t, h.HasSpecialHeader())

	bytes := h.Bytes()
	assert.Len(t, bytes, 8)
}

func TestHeader_littleEndian(t *testing.T) {
	h := NewHeader(Close, 0, 0, 0, 0, 0, 0, 0, false)
	bytes := h.Bytes()
	// Close = 0x2, stored in the low 16 bits of the first word.
	assert.Equal(t, byte(0x02), bytes[0])
	assert.Equal(t, byte(0x00), bytes[1])
}

func TestStaticDescriptor_roundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		index := rapid.IntRange(0, 63).Draw(t, "index")
		size := rapid.IntRange(0, 0xffff).Draw(t, "size")
		address := rapid.Uint64Range(0, (1<<42)-1).Draw(t, "address")

		d := NewStaticDescriptor(index, size, address)

		assert.Equal(t, index, d.Index())
		assert.Equal(t, size, d.Size())
		assert.Equal(t, address, d.Address())
	})
}

func TestBufferDescriptor_roundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		address := rapid.Uint64Range(0, (1<<58)-1).Draw(t, "address")
		size := rapid.IntRange(0, (1<<36)-1).Draw(t, "size")
		mode := uint8(rapid.IntRange(0, 3).Draw(t, "mode"))

		d := NewBufferDescriptor(address, size, mode)

		assert.Equal(t, size, d.Size())
		assert.Equal(t, address, d.Address())
		assert.Equal(t, mode, d.Mode())
	})
}

func TestReceiveListEntry_roundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		address := rapid.Uint64Range(0, (1<<48)-1).Draw(t, "address")
		size := rapid.IntRange(0, 0xffff).Draw(t, "size")

		e := NewReceiveListEntry(address, size)

		assert.Equal(t, size, e.Size())
		assert.Equal(t, address, e.Address())
	})
}

func TestSpecialHeaderWord_roundTrip(t *testing.T) {
	w := NewSpecialHeaderWord(true, 3, 5)

	assert.True(t, w.SendPID())
	assert.Equal(t, 3, w.NumCopyHandles())
	assert.Equal(t, 5, w.NumMoveHandles())
}

func TestBufferDescriptor_Bytes_length(t *testing.T) {
	d := NewBufferDescriptor(0, 0, 0)
	assert.Len(t, d.Bytes(), 12)
}
