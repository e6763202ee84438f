// Package hipc builds and serializes Horizon IPC (HIPC) command buffers — the
// byte-exact layout the Nintendo Switch kernel expects in a thread's TLS command
// region before a message-send syscall.
//
// The package performs no I/O and knows nothing about sessions, handle tables, or
// the send syscall itself; it only composes a command value and turns it into
// bytes. See CommandBuilder for the entry point.
package hipc
