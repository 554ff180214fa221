// Package transport implements the framed, gzip-compressed message stream
// Wesnoth's multiplayer protocol runs on top of TCP, plus the four-byte
// handshake that distinguishes a client from a server at the start of a
// connection.
package transport

import "errors"

// Sentinel errors, one per kind in the error-handling table. Wrapping call
// sites add context with github.com/pkg/errors.Wrap/Wrapf; errors.Is still
// resolves through the wrap chain.
var (
	// ErrTransport reports a failure from the underlying byte pipe itself.
	ErrTransport = errors.New("transport: underlying i/o failure")

	// ErrEndOfStream reports that the peer closed the connection while a
	// frame was only partially received.
	ErrEndOfStream = errors.New("transport: end of stream mid-frame")

	// ErrFrameTooLarge reports a frame length prefix exceeding the
	// configured per-frame maximum, checked as soon as the prefix is staged
	// and before any further bytes are read from the source.
	ErrFrameTooLarge = errors.New("transport: frame length exceeds configured maximum")

	// ErrBufferOverflow reports the staging buffer growing past its
	// configured ceiling without completing a frame.
	ErrBufferOverflow = errors.New("transport: staging buffer exceeded configured ceiling")

	// ErrDecode reports a gzip decompression failure on an otherwise
	// well-framed payload.
	ErrDecode = errors.New("transport: gzip decode failed")

	// ErrBadHandshake reports a handshake whose opening bytes did not match
	// the expected constant. No Reader/Writer is returned in this case.
	ErrBadHandshake = errors.New("transport: handshake rejected")

	// ErrInvalidArgument is the sentinel for a nil pipe or otherwise unusable
	// configuration. No function in this package checks for either, so none
	// returns it.
	ErrInvalidArgument = errors.New("transport: invalid argument")
)
