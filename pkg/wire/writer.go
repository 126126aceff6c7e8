// Package wire implements the primitive stream encoding used by every layer
// above it: fixed-width little-endian integers and floats, and
// length-prefixed blobs of bytes or UTF-8 text.
//
// Per the wire protocol, all multi-byte scalars are little-endian and length
// prefixes are unencoded u32 values. This is a deliberate divergence from
// big-endian wire formats: BitRPC is not XDR-compatible.
package wire

import (
	"encoding/binary"
	"math"
	"strings"
	"unicode/utf8"
)

// StreamWriter owns a growable byte buffer and exposes primitive writes for
// every scalar the codec layer needs. It never returns an error: writes to
// an in-memory growable buffer cannot fail short of an allocation panic.
type StreamWriter struct {
	buf []byte
}

// NewStreamWriter returns an empty StreamWriter. sizeHint pre-allocates the
// backing buffer to reduce reallocation for callers that know the
// approximate output size.
func NewStreamWriter(sizeHint int) *StreamWriter {
	return &StreamWriter{buf: make([]byte, 0, sizeHint)}
}

// NewStreamWriterFromBuf returns a StreamWriter backed by buf, truncated to
// zero length but keeping buf's capacity. Writes append in place as long as
// they fit within that capacity, so callers that size buf up front (e.g.
// from a buffer pool) pay no further allocation.
func NewStreamWriterFromBuf(buf []byte) *StreamWriter {
	return &StreamWriter{buf: buf[:0]}
}

// Bytes returns the accumulated buffer. The returned slice aliases the
// writer's internal storage and must not be retained across further writes.
func (w *StreamWriter) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *StreamWriter) Len() int {
	return len(w.buf)
}

// Reset discards the accumulated buffer, retaining the underlying storage.
func (w *StreamWriter) Reset() {
	w.buf = w.buf[:0]
}

// WriteByte writes a single raw byte.
func (w *StreamWriter) WriteByte(v byte) {
	w.buf = append(w.buf, v)
}

// WriteBool writes a bool as a full byte: 1 for true, 0 for false.
//
// Bool fields are always written as a full byte even
// though presence is carried in the mask — a mask bit means "present and
// non-default", not the bool's value itself.
func (w *StreamWriter) WriteBool(v bool) {
	if v {
		w.WriteByte(1)
	} else {
		w.WriteByte(0)
	}
}

// WriteU16 writes a little-endian uint16.
func (w *StreamWriter) WriteU16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteU32 writes a little-endian uint32.
func (w *StreamWriter) WriteU32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteU64 writes a little-endian uint64.
func (w *StreamWriter) WriteU64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	w.buf = append(w.buf, tmp[:]...)
}

// WriteI32 writes a little-endian int32, two's-complement.
func (w *StreamWriter) WriteI32(v int32) {
	w.WriteU32(uint32(v))
}

// WriteI64 writes a little-endian int64, two's-complement.
func (w *StreamWriter) WriteI64(v int64) {
	w.WriteU64(uint64(v))
}

// WriteF32 writes an IEEE-754 single-precision float, little-endian.
func (w *StreamWriter) WriteF32(v float32) {
	w.WriteU32(math.Float32bits(v))
}

// WriteF64 writes an IEEE-754 double-precision float, little-endian.
func (w *StreamWriter) WriteF64(v float64) {
	w.WriteU64(math.Float64bits(v))
}

// WriteRaw appends p with no length prefix. It exists for framing layers
// (see pkg/rpc) that already know the receiver's exact byte count from an
// outer length field and would otherwise pay for a redundant prefix.
func (w *StreamWriter) WriteRaw(p []byte) {
	w.buf = append(w.buf, p...)
}

// WriteBytes writes a length-prefixed blob: a u32 byte-length followed by
// the raw bytes. The maximum representable length is 2^32 - 1.
func (w *StreamWriter) WriteBytes(v []byte) {
	w.WriteU32(uint32(len(v)))
	w.buf = append(w.buf, v...)
}

// WriteString writes a length-prefixed UTF-8 string using the same framing
// as WriteBytes.
func (w *StreamWriter) WriteString(v string) {
	// The writer never fails; a caller that hands us invalid UTF-8 gets it
	// sanitized rather than propagated, since the reader enforces validity
	// on the way back in.
	if !utf8.ValidString(v) {
		v = strings.ToValidUTF8(v, string(utf8.RuneError))
	}
	w.WriteBytes([]byte(v))
}
