package codec

import "errors"

// Sentinel errors raised by the message codec itself, as distinct from the
// stream-layer errors (wire.ErrTruncated and friends) that propagate
// through it unchanged.
var (
	// ErrUnknownField is returned when a decoded mask has a bit set for a
	// field id at or beyond the message type's field count — the codec
	// does not support forward compatibility.
	ErrUnknownField = errors.New("codec: mask bit set for unknown field")

	// ErrSchemaMismatch is returned by Codec.Write when the Message belongs
	// to a different message type than the Codec. Read does not return it:
	// a peer that assumes a different mask word count is not detected as
	// such and may surface as ErrUnknownField, a stream-layer error, or
	// misread field values.
	ErrSchemaMismatch = errors.New("codec: schema mismatch")
)
