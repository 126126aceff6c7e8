package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Scalar Round-Trip Tests
// ============================================================================

func TestScalarRoundTrip(t *testing.T) {
	t.Run("Bool", func(t *testing.T) {
		w := NewStreamWriter(0)
		w.WriteBool(true)
		w.WriteBool(false)

		r := NewStreamReader(w.Bytes())
		v1, err := r.ReadBool()
		require.NoError(t, err)
		assert.True(t, v1)

		v2, err := r.ReadBool()
		require.NoError(t, err)
		assert.False(t, v2)
	})

	t.Run("U32", func(t *testing.T) {
		w := NewStreamWriter(0)
		w.WriteU32(0xdeadbeef)

		assert.Equal(t, []byte{0xef, 0xbe, 0xad, 0xde}, w.Bytes())

		r := NewStreamReader(w.Bytes())
		v, err := r.ReadU32()
		require.NoError(t, err)
		assert.Equal(t, uint32(0xdeadbeef), v)
	})

	t.Run("I64Negative", func(t *testing.T) {
		w := NewStreamWriter(0)
		w.WriteI64(-42)

		r := NewStreamReader(w.Bytes())
		v, err := r.ReadI64()
		require.NoError(t, err)
		assert.Equal(t, int64(-42), v)
	})

	t.Run("F64", func(t *testing.T) {
		w := NewStreamWriter(0)
		w.WriteF64(3.14159)

		r := NewStreamReader(w.Bytes())
		v, err := r.ReadF64()
		require.NoError(t, err)
		assert.InDelta(t, 3.14159, v, 1e-12)
	})

	t.Run("String", func(t *testing.T) {
		w := NewStreamWriter(0)
		w.WriteString("hello, bitrpc")

		r := NewStreamReader(w.Bytes())
		v, err := r.ReadString()
		require.NoError(t, err)
		assert.Equal(t, "hello, bitrpc", v)
	})

	t.Run("EmptyString", func(t *testing.T) {
		w := NewStreamWriter(0)
		w.WriteString("")

		assert.Equal(t, []byte{0, 0, 0, 0}, w.Bytes())
	})

	t.Run("Bytes", func(t *testing.T) {
		w := NewStreamWriter(0)
		w.WriteBytes([]byte{1, 2, 3, 4, 5})

		r := NewStreamReader(w.Bytes())
		v, err := r.ReadBytes()
		require.NoError(t, err)
		assert.Equal(t, []byte{1, 2, 3, 4, 5}, v)
	})
}

func TestMultipleFieldsSequential(t *testing.T) {
	w := NewStreamWriter(0)
	w.WriteI32(1)
	w.WriteString("Second")
	w.WriteBool(true)

	r := NewStreamReader(w.Bytes())

	a, err := r.ReadI32()
	require.NoError(t, err)
	assert.Equal(t, int32(1), a)

	b, err := r.ReadString()
	require.NoError(t, err)
	assert.Equal(t, "Second", b)

	c, err := r.ReadBool()
	require.NoError(t, err)
	assert.True(t, c)

	assert.Equal(t, 0, r.Len())
}

// ============================================================================
// Failure Mode Tests
// ============================================================================

func TestReaderFailureModes(t *testing.T) {
	t.Run("TruncatedScalar", func(t *testing.T) {
		r := NewStreamReader([]byte{0x01, 0x02})
		_, err := r.ReadU32()
		assert.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("TruncatedLengthPrefix", func(t *testing.T) {
		r := NewStreamReader([]byte{0x01})
		_, err := r.ReadBytes()
		assert.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("LengthExceedsFrame", func(t *testing.T) {
		w := NewStreamWriter(0)
		w.WriteU32(1000)

		r := NewStreamReader(w.Bytes())
		_, err := r.ReadBytes()
		assert.ErrorIs(t, err, ErrLengthExceedsFrame)
	})

	t.Run("InvalidUtf8", func(t *testing.T) {
		w := NewStreamWriter(0)
		w.WriteBytes([]byte{0xff, 0xfe, 0xfd})

		r := NewStreamReader(w.Bytes())
		_, err := r.ReadString()
		assert.ErrorIs(t, err, ErrInvalidUTF8)
	})
}

func TestWriterSanitizesInvalidUTF8(t *testing.T) {
	w := NewStreamWriter(0)
	w.WriteString(string([]byte{0xff, 0xfe}))

	r := NewStreamReader(w.Bytes())
	v, err := r.ReadString()
	require.NoError(t, err)
	assert.NotEmpty(t, v)
}

func TestWriterResetReusesBuffer(t *testing.T) {
	w := NewStreamWriter(16)
	w.WriteU64(1)
	assert.Equal(t, 8, w.Len())

	w.Reset()
	assert.Equal(t, 0, w.Len())

	w.WriteU32(1)
	assert.Equal(t, 4, w.Len())
}
