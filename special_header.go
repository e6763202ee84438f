package hipc

import (
	"encoding/binary"
	"fmt"
)

const (
	maxProcessIDs  = 1
	maxCopyHandles = 15
	maxMoveHandles = 15
)

// SpecialHeaderBuilder accumulates the optional process-ID request and the
// copy/move handle lists that make up a HIPC special header. The zero value is
// an empty builder, ready to use.
type SpecialHeaderBuilder struct {
	processID   *uint64
	hasPID      bool
	copyHandles []uint32
	moveHandles []uint32
}

// WithProgramID appends a 64-bit process-ID request. Fails if one is already
// present.
func (b SpecialHeaderBuilder) WithProgramID(pid uint64) (SpecialHeaderBuilder, error) {
	if b.hasPID {
		return b, fmt.Errorf("%w", ErrTooManyProcessIDs)
	}
	b.processID = &pid
	b.hasPID = true
	return b, nil
}

// WithCopyHandle appends a handle to the copy-handle list. Fails once the list
// already holds 15 entries.
func (b SpecialHeaderBuilder) WithCopyHandle(handle uint32) (SpecialHeaderBuilder, error) {
	if len(b.copyHandles) >= maxCopyHandles {
		return b, fmt.Errorf("%w: have %d", ErrTooManyCopyHandles, len(b.copyHandles))
	}
	b.copyHandles = append(append([]uint32(nil), b.copyHandles...), handle)
	return b, nil
}

// WithMoveHandle appends a handle to the move-handle list. Fails once the list
// already holds 15 entries.
func (b SpecialHeaderBuilder) WithMoveHandle(handle uint32) (SpecialHeaderBuilder, error) {
	if len(b.moveHandles) >= maxMoveHandles {
		return b, fmt.Errorf("%w: have %d", ErrTooManyMoveHandles, len(b.moveHandles))
	}
	b.moveHandles = append(append([]uint32(nil), b.moveHandles...), handle)
	return b, nil
}

// byteLen returns the number of bytes this special header will consume once
// serialized: the 4-byte header word, plus 8 for the PID if present, plus 4 per
// copy handle and 4 per move handle.
func (b SpecialHeaderBuilder) byteLen() int {
	total := 4
	if b.hasPID {
		total += 8
	}
	total += 4 * len(b.copyHandles)
	total += 4 * len(b.moveHandles)
	return total
}

// Build serializes the special header: header word, then PID (if present), then
// copy handles, then move handles, all little-endian. Cannot fail.
func (b SpecialHeaderBuilder) Build() []byte {
	out := make([]byte, 0, b.byteLen())

	word := NewSpecialHeaderWord(b.hasPID, len(b.copyHandles), len(b.moveHandles))
	wordBytes := word.Bytes()
	out = append(out, wordBytes[:]...)

	if b.hasPID {
		var pidBytes [8]byte
		binary.LittleEndian.PutUint64(pidBytes[:], *b.processID)
		out = append(out, pidBytes[:]...)
	}

	for _, h := range b.copyHandles {
		var hb [4]byte
		binary.LittleEndian.PutUint32(hb[:], h)
		out = append(out, hb[:]...)
	}

	for _, h := range b.moveHandles {
		var hb [4]byte
		binary.LittleEndian.PutUint32(hb[:], h)
		out = append(out, hb[:]...)
	}

	return out
}
