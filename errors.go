package hipc

import "errors"

// Composition-time errors. A With* call that fails returns one of these, wrapped
// with fmt.Errorf to name the offending value. Compare with errors.Is.
var (
	ErrTooManySendStatics = errors.New("hipc: too many send statics (max 15)")
	ErrTooManySendBuffers = errors.New("hipc: too many send buffers (max 15)")
	ErrTooManyRecvBuffers = errors.New("hipc: too many recv buffers (max 15)")
	ErrTooManyExchBuffers = errors.New("hipc: too many exch buffers (max 15)")
	ErrTooManyRecvStatics = errors.New("hipc: too many recv statics (max 13)")
	ErrTooManySpecialHdrs = errors.New("hipc: command already has a special header")
	ErrTooManyPointerBufs = errors.New("hipc: command already has a pointer buffer")
	ErrTooManyProcessIDs  = errors.New("hipc: special header already has a process ID")
	ErrTooManyCopyHandles = errors.New("hipc: too many copy handles (max 15)")
	ErrTooManyMoveHandles = errors.New("hipc: too many move handles (max 15)")

	// ErrMutualExclusion is returned when a step would give a command more than
	// one of {receive-statics, inline buffer, pointer buffer} at once.
	ErrMutualExclusion = errors.New("hipc: receive-statics, inline buffer, and pointer buffer are mutually exclusive")

	// ErrCommandTooLarge is returned when a step would push the serialized
	// command past the 256-byte TLS command-region cap.
	ErrCommandTooLarge = errors.New("hipc: command exceeds 256-byte TLS limit")
)
