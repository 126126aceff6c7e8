// Package rpc implements the framing and dispatch layer: length-prefixed
// request/response frames over a stream transport, method routing by a
// service registry, and correlation of concurrent in-flight calls
// so a slow handler never blocks reading the next request off the wire.
package rpc

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bitrpc/bitrpc/pkg/wire"
)

// Kind distinguishes a request frame from a response frame.
type Kind uint8

const (
	// KindRequest marks a frame carrying a method call.
	KindRequest Kind = 0
	// KindResponse marks a frame carrying a method's result.
	KindResponse Kind = 1
)

// Status codes carried in response frames; meaningless on requests.
const (
	StatusOK             uint16 = 0
	StatusUnknownMethod  uint16 = 1
	StatusHandlerError   uint16 = 2
	StatusOverload       uint16 = 3
)

// headerSize is the byte length of everything in a frame after the
// total_length field itself: kind(1) + method_id(4) + correlation_id(8) +
// status(2).
const headerSize = 1 + 4 + 8 + 2

// Frame is one RPC message on the wire: request or response, length
// prefixed, carrying a serialized message payload whose schema is
// determined by (method_id, kind) via the service registry.
type Frame struct {
	Kind          Kind
	MethodID      uint32
	CorrelationID uint64
	Status        uint16
	Payload       []byte
}

// Encode renders f in the normative wire layout:
//
//	[ u32 total_length ][ u8 kind ][ u32 method_id ][ u64 correlation_id ][ u16 status ][ bytes payload ]
//
// total_length counts everything following the length field itself, up to
// and including payload. All multi-byte fields are little-endian.
func (f Frame) Encode() []byte {
	return f.EncodeInto(nil)
}

// EncodedLen returns the number of bytes Encode/EncodeInto will produce for
// f, including the leading length prefix.
func (f Frame) EncodedLen() int {
	return 4 + headerSize + len(f.Payload)
}

// EncodeInto renders f the same way Encode does, but writes into buf when it
// has enough capacity instead of allocating a fresh backing array — the
// write side of the connection (see writeResponse and Client.Call) sizes buf
// from a buffer pool so a steady stream of frames does not churn the
// allocator. A nil or undersized buf falls back to a freshly allocated one.
func (f Frame) EncodeInto(buf []byte) []byte {
	totalLength := uint32(headerSize + len(f.Payload))

	if cap(buf) < f.EncodedLen() {
		buf = make([]byte, 0, f.EncodedLen())
	}

	w := wire.NewStreamWriterFromBuf(buf)
	w.WriteU32(totalLength)
	w.WriteByte(byte(f.Kind))
	w.WriteU32(f.MethodID)
	w.WriteU64(f.CorrelationID)
	w.WriteU16(f.Status)
	w.WriteRaw(f.Payload)
	return w.Bytes()
}

// ReadFrame reads one frame from r. maxFrameBytes bounds total_length (the
// server's max_frame_bytes / the client's analogous guard); zero disables
// the bound. EOF on the length-prefix read is returned unwrapped so callers
// can distinguish a clean peer disconnect from a mid-frame failure.
func ReadFrame(r io.Reader, maxFrameBytes uint32) (Frame, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return Frame{}, err
	}
	totalLength := binary.LittleEndian.Uint32(lenBuf[:])

	if totalLength < headerSize {
		return Frame{}, fmt.Errorf("rpc: frame length %d shorter than header", totalLength)
	}
	if maxFrameBytes > 0 && totalLength > maxFrameBytes {
		return Frame{}, fmt.Errorf("%w: frame length %d exceeds max %d", wire.ErrLengthExceedsFrame, totalLength, maxFrameBytes)
	}

	body := make([]byte, totalLength)
	if _, err := io.ReadFull(r, body); err != nil {
		return Frame{}, fmt.Errorf("rpc: read frame body: %w", err)
	}

	br := wire.NewStreamReader(body)
	kindByte, err := br.ReadByte()
	if err != nil {
		return Frame{}, err
	}
	methodID, err := br.ReadU32()
	if err != nil {
		return Frame{}, err
	}
	correlationID, err := br.ReadU64()
	if err != nil {
		return Frame{}, err
	}
	status, err := br.ReadU16()
	if err != nil {
		return Frame{}, err
	}

	return Frame{
		Kind:          Kind(kindByte),
		MethodID:      methodID,
		CorrelationID: correlationID,
		Status:        status,
		Payload:       br.Remaining(),
	}, nil
}
