package hipc

import "encoding/binary"

/*
Packed descriptors.

Each type below is a fixed-width value that packs several logical fields into a
small number of 32-bit words with bit-exact placement. None of these types has an
error condition: constructors silently truncate fields wider than their encoded
width (the caller is responsible for supplying in-range values), and accessors
always succeed. See SPEC_FULL.md §3 and §6 for the bit layout this file encodes.
*/

// Header is the two-word command header: kind, descriptor counts, raw-data
// length, receive-static mode, receive-list offset, and the special-header flag.
type Header [2]uint32

// NewHeader packs the logical header fields into their bit positions.
func NewHeader(kind CommandType, sendStatics, sendBuffers, recvBuffers, exchBuffers, rawDataLen int, recvMode uint8, recvListOffset int, hasSpecialHeader bool) Header {
	var first, second uint32

	first = setBits(uint32(kind), first, 0, 0, 16)
	first = setBits(uint32(sendStatics), first, 0, 16, 4)
	first = setBits(uint32(sendBuffers), first, 0, 20, 4)
	first = setBits(uint32(recvBuffers), first, 0, 24, 4)
	first = setBits(uint32(exchBuffers), first, 0, 28, 4)

	second = setBits(uint32(rawDataLen), second, 0, 0, 10)
	second = setBits(uint32(recvMode), second, 0, 10, 4)
	second = setBits(uint32(recvListOffset), second, 0, 20, 11)
	second = setBits(boolToWord(hasSpecialHeader), second, 0, 31, 1)

	return Header{first, second}
}

func (h Header) Kind() CommandType      { return CommandType(extractBits(h[0], 0, 16)) }
func (h Header) NumSendStatics() int    { return int(extractBits(h[0], 16, 20)) }
func (h Header) NumSendBuffers() int    { return int(extractBits(h[0], 20, 24)) }
func (h Header) NumRecvBuffers() int    { return int(extractBits(h[0], 24, 28)) }
func (h Header) NumExchBuffers() int    { return int(extractBits(h[0], 28, 32)) }
func (h Header) RawDataLen() int        { return int(extractBits(h[1], 0, 10)) }
func (h Header) RecvStaticMode() uint8  { return uint8(extractBits(h[1], 10, 14)) }
func (h Header) RecvListOffset() int    { return int(extractBits(h[1], 20, 31)) }
func (h Header) HasSpecialHeader() bool { return extractBits(h[1], 31, 32) != 0 }

// Bytes little-endian encodes the header into its 8-byte wire form.
func (h Header) Bytes() [8]byte {
	var out [8]byte
	binary.LittleEndian.PutUint32(out[0:4], h[0])
	binary.LittleEndian.PutUint32(out[4:8], h[1])
	return out
}

// StaticDescriptor ("send static" / in-pointer) points to kernel-copied input
// memory: an index, a size, and a 36-bit address split across both words.
type StaticDescriptor [2]uint32

// NewStaticDescriptor packs an index, size, and address into a StaticDescriptor.
func NewStaticDescriptor(index int, size int, address uint64) StaticDescriptor {
	first := setBits(uint32(index), 0, 0, 0, 6)
	first = uint32(setBits(address, uint64(first), 36, 6, 6))
	first = uint32(setBits(address, uint64(first), 32, 12, 4))
	first = setBits(uint32(size), first, 0, 16, 16)

	second := uint32(setBits(address, 0, 0, 0, 32))

	return StaticDescriptor{first, second}
}

func (d StaticDescriptor) Index() int { return int(extractBits(d[0], 0, 6)) }
func (d StaticDescriptor) Size() int  { return int(extractBits(d[0], 16, 32)) }

func (d StaticDescriptor) Address() uint64 {
	addr := setBits(uint64(d[1]), 0, 0, 0, 32)
	addr = setBits(uint64(d[0]), addr, 12, 32, 4)
	addr = setBits(uint64(d[0]), addr, 6, 36, 6)
	return addr
}

// Bytes little-endian encodes the descriptor into its 8-byte wire form.
func (d StaticDescriptor) Bytes() [8]byte {
	var out [8]byte
	binary.LittleEndian.PutUint32(out[0:4], d[0])
	binary.LittleEndian.PutUint32(out[4:8], d[1])
	return out
}

// BufferDescriptor describes a memory region aliased into the receiver — used
// for send, receive, and exchange buffers alike, distinguished only by which
// slot of the command they're placed in.
type BufferDescriptor [3]uint32

// NewBufferDescriptor packs an address, size, and mode into a BufferDescriptor.
func NewBufferDescriptor(address uint64, size int, mode uint8) BufferDescriptor {
	sizeLow := uint32(extractBits(uint64(size), 0, 32))
	addressLow := uint32(extractBits(address, 0, 32))

	var inner uint32
	inner = setBits(uint32(mode), inner, 0, 0, 2)
	inner = uint32(setBits(address, uint64(inner), 32, 28, 4))
	inner = uint32(setBits(uint64(size), uint64(inner), 32, 24, 4))
	inner = uint32(setBits(address, uint64(inner), 36, 2, 22))

	return BufferDescriptor{sizeLow, addressLow, inner}
}

func (d BufferDescriptor) Size() int {
	size := setBits(uint64(d[0]), 0, 0, 0, 32)
	size = setBits(uint64(d[2]), size, 24, 32, 4)
	return int(size)
}

func (d BufferDescriptor) Address() uint64 {
	address := setBits(uint64(d[1]), 0, 0, 0, 32)
	address = setBits(uint64(d[2]), address, 28, 32, 4)
	address = setBits(uint64(d[2]), address, 2, 36, 22)
	return address
}

func (d BufferDescriptor) Mode() uint8 { return uint8(extractBits(d[2], 0, 2)) }

// Bytes little-endian encodes the descriptor into its 12-byte wire form.
func (d BufferDescriptor) Bytes() [12]byte {
	var out [12]byte
	binary.LittleEndian.PutUint32(out[0:4], d[0])
	binary.LittleEndian.PutUint32(out[4:8], d[1])
	binary.LittleEndian.PutUint32(out[8:12], d[2])
	return out
}

// ReceiveListEntry ("receive static" / out-pointer) reserves space for
// kernel-copied output memory; the same shape is reused for the single
// pointer-buffer entry.
type ReceiveListEntry [2]uint32

// NewReceiveListEntry packs an address and size into a ReceiveListEntry.
func NewReceiveListEntry(address uint64, size int) ReceiveListEntry {
	first := uint32(extractBits(address, 0, 32))
	second := uint32(setBits(address, 0, 32, 0, 16))
	second = setBits(uint32(size), second, 0, 16, 16)

	return ReceiveListEntry{first, second}
}

func (e ReceiveListEntry) Size() int { return int(extractBits(e[1], 16, 32)) }

func (e ReceiveListEntry) Address() uint64 {
	addr := setBits(uint64(e[0]), 0, 0, 0, 32)
	addr = setBits(uint64(e[1]), addr, 0, 32, 16)
	return addr
}

// Bytes little-endian encodes the entry into its 8-byte wire form.
func (e ReceiveListEntry) Bytes() [8]byte {
	var out [8]byte
	binary.LittleEndian.PutUint32(out[0:4], e[0])
	binary.LittleEndian.PutUint32(out[4:8], e[1])
	return out
}

// SpecialHeaderWord is the single 32-bit word that precedes a special header's
// PID and handle lists: whether a PID follows, and how many copy/move handles do.
type SpecialHeaderWord uint32

// NewSpecialHeaderWord packs the send-PID flag and handle counts into a word.
func NewSpecialHeaderWord(sendPID bool, numCopyHandles, numMoveHandles int) SpecialHeaderWord {
	var inner uint32
	inner = setBits(boolToWord(sendPID), inner, 0, 0, 1)
	inner = setBits(uint32(numCopyHandles), inner, 0, 1, 4)
	inner = setBits(uint32(numMoveHandles), inner, 0, 5, 4)
	return SpecialHeaderWord(inner)
}

func (w SpecialHeaderWord) SendPID() bool       { return extractBits(uint32(w), 0, 1) != 0 }
func (w SpecialHeaderWord) NumCopyHandles() int { return int(extractBits(uint32(w), 1, 5)) }
func (w SpecialHeaderWord) NumMoveHandles() int { return int(extractBits(uint32(w), 5, 9)) }

// Bytes little-endian encodes the word into its 4-byte wire form.
func (w SpecialHeaderWord) Bytes() [4]byte {
	var out [4]byte
	binary.LittleEndian.PutUint32(out[:], uint32(w))
	return out
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
