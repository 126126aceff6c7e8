package wire

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"
)

// MaxBlobLength caps the byte-length a single length-prefixed blob may
// declare. It exists only to fail fast on a clearly malformed length prefix
// before attempting an allocation; LengthExceedsFrame covers the case where
// the declared length is internally consistent but would read past the
// enclosing frame.
const MaxBlobLength = 1 << 30

// StreamReader consumes a borrowed byte slice with a cursor, mirroring
// StreamWriter's primitive writes. It never mutates or retains the slice
// beyond the cursor it advances.
type StreamReader struct {
	buf []byte
	pos int
}

// NewStreamReader wraps buf for sequential reads starting at offset 0.
func NewStreamReader(buf []byte) *StreamReader {
	return &StreamReader{buf: buf}
}

// Len returns the number of unread bytes remaining.
func (r *StreamReader) Len() int {
	return len(r.buf) - r.pos
}

// Pos returns the current cursor offset into the wrapped slice.
func (r *StreamReader) Pos() int {
	return r.pos
}

func (r *StreamReader) require(n int) error {
	if r.Len() < n {
		return fmt.Errorf("%w: need %d bytes, have %d", ErrTruncated, n, r.Len())
	}
	return nil
}

// ReadByte reads a single raw byte.
func (r *StreamReader) ReadByte() (byte, error) {
	if err := r.require(1); err != nil {
		return 0, err
	}
	b := r.buf[r.pos]
	r.pos++
	return b, nil
}

// ReadBool reads a full byte and interprets any non-zero value as true.
func (r *StreamReader) ReadBool() (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// ReadU16 reads a little-endian uint16.
func (r *StreamReader) ReadU16() (uint16, error) {
	if err := r.require(2); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint16(r.buf[r.pos:])
	r.pos += 2
	return v, nil
}

// ReadU32 reads a little-endian uint32.
func (r *StreamReader) ReadU32() (uint32, error) {
	if err := r.require(4); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadU64 reads a little-endian uint64.
func (r *StreamReader) ReadU64() (uint64, error) {
	if err := r.require(8); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint64(r.buf[r.pos:])
	r.pos += 8
	return v, nil
}

// ReadI32 reads a little-endian int32, two's-complement.
func (r *StreamReader) ReadI32() (int32, error) {
	v, err := r.ReadU32()
	return int32(v), err
}

// ReadI64 reads a little-endian int64, two's-complement.
func (r *StreamReader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

// ReadF32 reads an IEEE-754 single-precision float, little-endian.
func (r *StreamReader) ReadF32() (float32, error) {
	v, err := r.ReadU32()
	return math.Float32frombits(v), err
}

// ReadF64 reads an IEEE-754 double-precision float, little-endian.
func (r *StreamReader) ReadF64() (float64, error) {
	v, err := r.ReadU64()
	return math.Float64frombits(v), err
}

// Remaining returns the unread tail of the wrapped slice without advancing
// the cursor. Framing layers that already know the exact remaining payload
// length from an outer length field use this instead of a redundant
// length-prefixed read.
func (r *StreamReader) Remaining() []byte {
	return r.buf[r.pos:]
}

// ReadBytes reads a length-prefixed blob and returns a freshly allocated
// copy of its contents. Fails with LengthExceedsFrame if the declared
// length would read past the remaining buffer, and with Truncated if the
// length prefix itself cannot be read.
func (r *StreamReader) ReadBytes() ([]byte, error) {
	length, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if length > MaxBlobLength {
		return nil, fmt.Errorf("%w: declared length %d exceeds %d", ErrLengthExceedsFrame, length, MaxBlobLength)
	}
	if int(length) > r.Len() {
		return nil, fmt.Errorf("%w: declared length %d, %d remain", ErrLengthExceedsFrame, length, r.Len())
	}
	out := make([]byte, length)
	copy(out, r.buf[r.pos:r.pos+int(length)])
	r.pos += int(length)
	return out, nil
}

// ReadString reads a length-prefixed blob and validates it as UTF-8.
func (r *StreamReader) ReadString() (string, error) {
	data, err := r.ReadBytes()
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", ErrInvalidUTF8
	}
	return string(data), nil
}
