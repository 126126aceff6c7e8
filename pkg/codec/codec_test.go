package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitrpc/bitrpc/pkg/bitmask"
	"github.com/bitrpc/bitrpc/pkg/schema"
	"github.com/bitrpc/bitrpc/pkg/typehandler"
	"github.com/bitrpc/bitrpc/pkg/wire"
)

func newTestEnv(t *testing.T) (*typehandler.Registry, *bitmask.Pool) {
	t.Helper()
	return typehandler.NewRegistry(), bitmask.NewPool()
}

// TestScalarAllDefault mirrors the all-default scalar scenario: a message
// with (i32 a=1, string b=2, bool c=3), values all at default, encodes to
// exactly one zero mask word.
func TestScalarAllDefault(t *testing.T) {
	hreg, pool := newTestEnv(t)

	mt, err := schema.NewMessageType("Scalars", []schema.Field{
		{ID: 1, Name: "a", Type: schema.Scalar(schema.KindI32)},
		{ID: 2, Name: "b", Type: schema.Scalar(schema.KindString)},
		{ID: 3, Name: "c", Type: schema.Scalar(schema.KindBool)},
	})
	require.NoError(t, err)

	c, err := Build(hreg, mt, pool)
	require.NoError(t, err)

	m := NewMessage(mt)
	w := wire.NewStreamWriter(0)
	require.NoError(t, c.Write(m, w))

	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00}, w.Bytes())

	got, err := c.Read(wire.NewStreamReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, int32(0), got.Get(1))
	assert.Equal(t, "", got.Get(2))
	assert.Equal(t, false, got.Get(3))
}

// TestSparseStrings mirrors the 40-string-field scenario: set field1 and
// field10, expect mask words [0x00000201, 0x00000000].
func TestSparseStrings(t *testing.T) {
	hreg, pool := newTestEnv(t)

	fields := make([]schema.Field, 40)
	for i := range fields {
		fields[i] = schema.Field{ID: i + 1, Name: "field", Type: schema.Scalar(schema.KindString)}
	}
	mt, err := schema.NewMessageType("ComplexMessage", fields)
	require.NoError(t, err)

	c, err := Build(hreg, mt, pool)
	require.NoError(t, err)

	m := NewMessage(mt)
	m.Set(1, "First")
	m.Set(10, "Tenth")

	w := wire.NewStreamWriter(0)
	require.NoError(t, c.Write(m, w))

	r := wire.NewStreamReader(w.Bytes())
	word0, err := r.ReadU32()
	require.NoError(t, err)
	word1, err := r.ReadU32()
	require.NoError(t, err)
	assert.Equal(t, uint32(0x00000201), word0)
	assert.Equal(t, uint32(0x00000000), word1)

	got, err := c.Read(wire.NewStreamReader(w.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, "First", got.Get(1))
	assert.Equal(t, "Tenth", got.Get(10))
	assert.Equal(t, "", got.Get(2))
	assert.Equal(t, "", got.Get(40))
}

// TestBooleanPresenceVsValue mirrors the single-bool-field scenario: true
// writes mask 0x1 plus a value byte; false writes an all-zero mask with no
// payload at all.
func TestBooleanPresenceVsValue(t *testing.T) {
	hreg, pool := newTestEnv(t)

	mt, err := schema.NewMessageType("Flag", []schema.Field{
		{ID: 1, Name: "flag", Type: schema.Scalar(schema.KindBool)},
	})
	require.NoError(t, err)
	c, err := Build(hreg, mt, pool)
	require.NoError(t, err)

	t.Run("True", func(t *testing.T) {
		m := NewMessage(mt)
		m.Set(1, true)
		w := wire.NewStreamWriter(0)
		require.NoError(t, c.Write(m, w))
		assert.Equal(t, []byte{0x01, 0x00, 0x00, 0x00, 0x01}, w.Bytes())

		got, err := c.Read(wire.NewStreamReader(w.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, true, got.Get(1))
	})

	t.Run("False", func(t *testing.T) {
		m := NewMessage(mt)
		m.Set(1, false)
		w := wire.NewStreamWriter(0)
		require.NoError(t, c.Write(m, w))
		assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00}, w.Bytes())

		got, err := c.Read(wire.NewStreamReader(w.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, false, got.Get(1))
	})
}

// TestNestedAndList mirrors the Organization/Group/User scenario: nested
// messages and lists round-trip element-by-element, and unset sub-fields
// inside set nested messages remain defaults.
func TestNestedAndList(t *testing.T) {
	hreg, pool := newTestEnv(t)

	userType, err := schema.NewMessageType("User", []schema.Field{
		{ID: 1, Name: "name", Type: schema.Scalar(schema.KindString)},
		{ID: 2, Name: "age", Type: schema.Scalar(schema.KindI32)},
	})
	require.NoError(t, err)
	userCodec, err := Build(hreg, userType, pool)
	require.NoError(t, err)

	groupType, err := schema.NewMessageType("Group", []schema.Field{
		{ID: 1, Name: "name", Type: schema.Scalar(schema.KindString)},
		{ID: 2, Name: "members", Type: schema.List(schema.Message("User"))},
	})
	require.NoError(t, err)
	groupCodec, err := Build(hreg, groupType, pool)
	require.NoError(t, err)

	orgType, err := schema.NewMessageType("Organization", []schema.Field{
		{ID: 1, Name: "name", Type: schema.Scalar(schema.KindString)},
		{ID: 2, Name: "departments", Type: schema.List(schema.Scalar(schema.KindString))},
		{ID: 3, Name: "groups", Type: schema.List(schema.Message("Group"))},
		{ID: 4, Name: "leader", Type: schema.Message("User")},
	})
	require.NoError(t, err)
	orgCodec, err := Build(hreg, orgType, pool)
	require.NoError(t, err)

	alice := NewMessage(userType)
	alice.Set(1, "Alice")
	alice.Set(2, int32(30))

	bob := NewMessage(userType)
	bob.Set(1, "Bob")
	bob.Set(2, int32(25))

	developers := NewMessage(groupType)
	developers.Set(1, "Developers")
	developers.Set(2, []any{alice, bob})

	charlie := NewMessage(userType)
	charlie.Set(1, "Charlie")
	charlie.Set(2, int32(35))

	org := NewMessage(orgType)
	org.Set(1, "Tech Corp")
	org.Set(2, []any{"Engineering", "Marketing", "Sales"})
	org.Set(3, []any{developers})
	org.Set(4, charlie)

	w := wire.NewStreamWriter(0)
	require.NoError(t, orgCodec.Write(org, w))

	got, err := orgCodec.Read(wire.NewStreamReader(w.Bytes()))
	require.NoError(t, err)

	assert.Equal(t, "Tech Corp", got.Get(1))
	assert.Equal(t, []any{"Engineering", "Marketing", "Sales"}, got.Get(2))

	groups := got.Get(3).([]any)
	require.Len(t, groups, 1)
	gotGroup := groups[0].(*Message)
	assert.Equal(t, "Developers", gotGroup.Get(1))

	members := gotGroup.Get(2).([]any)
	require.Len(t, members, 2)
	assert.Equal(t, "Alice", members[0].(*Message).Get(1))
	assert.Equal(t, int32(30), members[0].(*Message).Get(2))
	assert.Equal(t, "Bob", members[1].(*Message).Get(1))

	leader := got.Get(4).(*Message)
	assert.Equal(t, "Charlie", leader.Get(1))
	assert.Equal(t, int32(35), leader.Get(2))

	_ = userCodec
	_ = groupCodec
}

func TestUnknownFieldBitRejected(t *testing.T) {
	hreg, pool := newTestEnv(t)
	mt, err := schema.NewMessageType("Tiny", []schema.Field{
		{ID: 1, Name: "a", Type: schema.Scalar(schema.KindI32)},
	})
	require.NoError(t, err)
	c, err := Build(hreg, mt, pool)
	require.NoError(t, err)

	// Hand-craft a mask word with a bit set beyond field count 1.
	w := wire.NewStreamWriter(0)
	w.WriteU32(0x00000002) // bit 1 set, but Tiny only has field id 1 (bit 0)

	_, err = c.Read(wire.NewStreamReader(w.Bytes()))
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestByteStabilityAcrossRepeatedWrites(t *testing.T) {
	hreg, pool := newTestEnv(t)
	mt, err := schema.NewMessageType("Repeatable", []schema.Field{
		{ID: 1, Name: "a", Type: schema.Scalar(schema.KindI32)},
		{ID: 2, Name: "b", Type: schema.Scalar(schema.KindString)},
	})
	require.NoError(t, err)
	c, err := Build(hreg, mt, pool)
	require.NoError(t, err)

	m := NewMessage(mt)
	m.Set(1, int32(7))
	m.Set(2, "seven")

	w1 := wire.NewStreamWriter(0)
	require.NoError(t, c.Write(m, w1))
	w2 := wire.NewStreamWriter(0)
	require.NoError(t, c.Write(m, w2))

	assert.Equal(t, w1.Bytes(), w2.Bytes())
}

func TestMaskLocalityFlippingOneFieldChangesOneBit(t *testing.T) {
	hreg, pool := newTestEnv(t)
	mt, err := schema.NewMessageType("Two", []schema.Field{
		{ID: 1, Name: "a", Type: schema.Scalar(schema.KindI32)},
		{ID: 2, Name: "b", Type: schema.Scalar(schema.KindI32)},
	})
	require.NoError(t, err)
	c, err := Build(hreg, mt, pool)
	require.NoError(t, err)

	m := NewMessage(mt)
	m.Set(1, int32(1))
	w1 := wire.NewStreamWriter(0)
	require.NoError(t, c.Write(m, w1))
	mask1, err := wire.NewStreamReader(w1.Bytes()).ReadU32()
	require.NoError(t, err)

	m.Set(2, int32(2))
	w2 := wire.NewStreamWriter(0)
	require.NoError(t, c.Write(m, w2))
	mask2, err := wire.NewStreamReader(w2.Bytes()).ReadU32()
	require.NoError(t, err)

	// Setting field id 2 flips only bit 1.
	assert.Equal(t, uint32(2), mask2^mask1)
}

func TestSchemaMismatchRejected(t *testing.T) {
	hreg, pool := newTestEnv(t)
	mtA, err := schema.NewMessageType("A", []schema.Field{{ID: 1, Name: "a", Type: schema.Scalar(schema.KindI32)}})
	require.NoError(t, err)
	mtB, err := schema.NewMessageType("B", []schema.Field{{ID: 1, Name: "b", Type: schema.Scalar(schema.KindI32)}})
	require.NoError(t, err)

	codecA, err := Build(hreg, mtA, pool)
	require.NoError(t, err)
	_, err = Build(hreg, mtB, pool)
	require.NoError(t, err)

	wrongTyped := NewMessage(mtB)
	err = codecA.Write(wrongTyped, wire.NewStreamWriter(0))
	assert.ErrorIs(t, err, ErrSchemaMismatch)
}
