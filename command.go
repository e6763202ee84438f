package hipc

import (
	"encoding/binary"
	"fmt"
)

/*
CommandBuilder composes a complete HIPC command.

Purpose: enforce the cardinality and mutual-exclusion rules a HIPC command must
satisfy, track the running serialized size against the 256-byte TLS cap, and emit
the final byte slice in the exact order the kernel expects.

Each With* method takes a CommandBuilder by value and returns a new one — the
receiver's slices are never mutated in place, so a value that failed to extend,
whether on cardinality overflow, mutual exclusion, or the 256-byte TLS cap, is
left exactly as it was. See SPEC_FULL.md §4.4.
*/

const (
	maxSendStatics  = 15
	maxSendBuffers  = 15
	maxRecvBuffers  = 15
	maxExchBuffers  = 15
	maxRecvStatics  = 13
	maxSpecialHdrs  = 1
	maxPointerBufs  = 1
	maxCommandBytes = 256

	commandHeaderBytes = 8
	staticDescBytes    = 8
	bufferDescBytes    = 12
	recvListBytes      = 8
)

// CommandBuilder is an immutable-by-extension HIPC command composition. The
// zero value is not useful on its own; start from NewCommandBuilder.
type CommandBuilder struct {
	kind CommandType

	sendStatics []StaticDescriptor
	sendBuffers []BufferDescriptor
	recvBuffers []BufferDescriptor
	exchBuffers []BufferDescriptor
	recvStatics []ReceiveListEntry

	hasSpecialHeader bool
	specialHeader    SpecialHeaderBuilder

	hasPointerBuffer bool
	pointerBuffer    ReceiveListEntry

	rawData      []uint32
	inlineBuffer []byte

	total int
}

// NewCommandBuilder starts a new, empty command of the given kind.
func NewCommandBuilder(kind CommandType) CommandBuilder {
	return CommandBuilder{kind: kind, total: commandHeaderBytes}
}

// WithSendStatic appends an in-pointer ("send static") descriptor. Fails past 15.
func (b CommandBuilder) WithSendStatic(desc StaticDescriptor) (CommandBuilder, error) {
	if len(b.sendStatics) >= maxSendStatics {
		return b, fmt.Errorf("%w: have %d", ErrTooManySendStatics, len(b.sendStatics))
	}
	next := b
	next.sendStatics = append(append([]StaticDescriptor(nil), b.sendStatics...), desc)
	return next.withSize(b, b.total+staticDescBytes)
}

// WithSendBuffer appends a send ("in map alias") buffer descriptor. Fails past 15.
func (b CommandBuilder) WithSendBuffer(desc BufferDescriptor) (CommandBuilder, error) {
	if len(b.sendBuffers) >= maxSendBuffers {
		return b, fmt.Errorf("%w: have %d", ErrTooManySendBuffers, len(b.sendBuffers))
	}
	next := b
	next.sendBuffers = append(append([]BufferDescriptor(nil), b.sendBuffers...), desc)
	return next.withSize(b, b.total+bufferDescBytes)
}

// WithRecvBuffer appends a receive ("out map alias") buffer descriptor. Fails
// past 15.
func (b CommandBuilder) WithRecvBuffer(desc BufferDescriptor) (CommandBuilder, error) {
	if len(b.recvBuffers) >= maxRecvBuffers {
		return b, fmt.Errorf("%w: have %d", ErrTooManyRecvBuffers, len(b.recvBuffers))
	}
	next := b
	next.recvBuffers = append(append([]BufferDescriptor(nil), b.recvBuffers...), desc)
	return next.withSize(b, b.total+bufferDescBytes)
}

// WithExchBuffer appends an exchange ("in-out map alias") buffer descriptor.
// Fails past 15.
func (b CommandBuilder) WithExchBuffer(desc BufferDescriptor) (CommandBuilder, error) {
	if len(b.exchBuffers) >= maxExchBuffers {
		return b, fmt.Errorf("%w: have %d", ErrTooManyExchBuffers, len(b.exchBuffers))
	}
	next := b
	next.exchBuffers = append(append([]BufferDescriptor(nil), b.exchBuffers...), desc)
	return next.withSize(b, b.total+bufferDescBytes)
}

// WithRecvStatic appends an out-pointer ("receive static") receive-list entry.
// Fails past 13, and fails if an inline buffer or pointer buffer is already set.
func (b CommandBuilder) WithRecvStatic(entry ReceiveListEntry) (CommandBuilder, error) {
	if len(b.inlineBuffer) > 0 || b.hasPointerBuffer {
		return b, fmt.Errorf("%w", ErrMutualExclusion)
	}
	if len(b.recvStatics) >= maxRecvStatics {
		return b, fmt.Errorf("%w: have %d", ErrTooManyRecvStatics, len(b.recvStatics))
	}
	next := b
	next.recvStatics = append(append([]ReceiveListEntry(nil), b.recvStatics...), entry)
	return next.withSize(b, b.total+recvListBytes)
}

// WithSpecialHeader attaches a special header built via SpecialHeaderBuilder.
// Fails if the command already has one.
func (b CommandBuilder) WithSpecialHeader(header SpecialHeaderBuilder) (CommandBuilder, error) {
	if b.hasSpecialHeader {
		return b, fmt.Errorf("%w", ErrTooManySpecialHdrs)
	}
	next := b
	next.hasSpecialHeader = true
	next.specialHeader = header
	return next.withSize(b, b.total+header.byteLen())
}

// WithPointerBuffer sets the single pointer-buffer receive-list entry. Fails if
// the command already has one, or if receive-statics or an inline buffer are
// already set.
func (b CommandBuilder) WithPointerBuffer(entry ReceiveListEntry) (CommandBuilder, error) {
	if len(b.recvStatics) > 0 || len(b.inlineBuffer) > 0 {
		return b, fmt.Errorf("%w", ErrMutualExclusion)
	}
	if b.hasPointerBuffer {
		return b, fmt.Errorf("%w", ErrTooManyPointerBufs)
	}
	next := b
	next.hasPointerBuffer = true
	next.pointerBuffer = entry
	return next.withSize(b, b.total+recvListBytes)
}

// WithRawData sets the raw-data payload, replacing any previous one.
func (b CommandBuilder) WithRawData(words []uint32) (CommandBuilder, error) {
	next := b
	next.rawData = append([]uint32(nil), words...)
	base := b.total - 4*len(b.rawData)
	return next.withSize(b, base+4*len(next.rawData))
}

// WithInlineBuffer sets the inline buffer, replacing any previous one. Fails if
// receive-statics or a pointer buffer are already set.
func (b CommandBuilder) WithInlineBuffer(data []byte) (CommandBuilder, error) {
	if len(data) > 0 && (len(b.recvStatics) > 0 || b.hasPointerBuffer) {
		return b, fmt.Errorf("%w", ErrMutualExclusion)
	}
	next := b
	next.inlineBuffer = append([]byte(nil), data...)
	base := b.total - len(b.inlineBuffer)
	return next.withSize(b, base+len(next.inlineBuffer))
}

// withSize validates newTotal against the TLS cap, storing it on b on success.
// On failure it returns orig unchanged, so a caller that ignores the error and
// keeps using the returned value gets back exactly the command it started with.
func (b CommandBuilder) withSize(orig CommandBuilder, newTotal int) (CommandBuilder, error) {
	size := newTotal
	if n := len(b.inlineBuffer); n > 0 {
		// The inline buffer starts on a 16-byte boundary, so the zero padding in
		// front of it counts against the cap too.
		size = align16(newTotal-n) + n
	}
	if size > maxCommandBytes {
		return orig, fmt.Errorf("%w: would be %d bytes", ErrCommandTooLarge, size)
	}
	b.total = newTotal
	return b, nil
}

// receiveMode computes the 4-bit receive-static mode field per SPEC_FULL.md §4.4.
func (b CommandBuilder) receiveMode() uint8 {
	switch {
	case len(b.recvStatics) > 0:
		return uint8(len(b.recvStatics) + 2)
	case len(b.inlineBuffer) > 0:
		return 1
	case b.hasPointerBuffer:
		return 2
	default:
		return 0
	}
}

// align16 rounds offset up to the next multiple of 16.
func align16(offset int) int {
	return (offset + 15) &^ 15
}

// Build serializes the composed command into a byte slice whose length is the
// precomputed total plus, when an inline buffer is present, the zero padding
// that aligns it to 16 bytes. A CommandBuilder reached only through successful
// With* calls cannot fail to serialize.
func (b CommandBuilder) Build() []byte {
	out := make([]byte, 0, b.total)

	header := NewHeader(
		b.kind,
		len(b.sendStatics),
		len(b.sendBuffers),
		len(b.recvBuffers),
		len(b.exchBuffers),
		len(b.rawData),
		b.receiveMode(),
		0, // receive-list offset: always zero, see SPEC_FULL.md §9.
		b.hasSpecialHeader,
	)
	headerWire := header.Bytes()
	out = append(out, headerWire[:]...)

	if b.hasSpecialHeader {
		out = append(out, b.specialHeader.Build()...)
	}

	for _, d := range b.sendStatics {
		bs := d.Bytes()
		out = append(out, bs[:]...)
	}
	for _, d := range b.sendBuffers {
		bs := d.Bytes()
		out = append(out, bs[:]...)
	}
	for _, d := range b.recvBuffers {
		bs := d.Bytes()
		out = append(out, bs[:]...)
	}
	for _, d := range b.exchBuffers {
		bs := d.Bytes()
		out = append(out, bs[:]...)
	}

	for _, word := range b.rawData {
		var wb [4]byte
		binary.LittleEndian.PutUint32(wb[:], word)
		out = append(out, wb[:]...)
	}

	if len(b.inlineBuffer) > 0 {
		padded := align16(len(out))
		for len(out) < padded {
			out = append(out, 0)
		}
		out = append(out, b.inlineBuffer...)
	}

	if b.hasPointerBuffer {
		bs := b.pointerBuffer.Bytes()
		out = append(out, bs[:]...)
	}

	for _, e := range b.recvStatics {
		bs := e.Bytes()
		out = append(out, bs[:]...)
	}

	return out
}
