package wire

import "errors"

// Sentinel errors surfaced by the stream layer. The codec and RPC layers
// above propagate these unchanged.
var (
	// ErrTruncated is returned when fewer bytes remain in the stream than
	// a read requires.
	ErrTruncated = errors.New("wire: truncated stream")

	// ErrInvalidUTF8 is returned when a length-prefixed text field does not
	// decode as valid UTF-8.
	ErrInvalidUTF8 = errors.New("wire: invalid utf-8")

	// ErrLengthExceedsFrame is returned when a length prefix would read
	// past the current frame boundary.
	ErrLengthExceedsFrame = errors.New("wire: length prefix exceeds frame")
)
