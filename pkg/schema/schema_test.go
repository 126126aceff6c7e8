package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessageTypeSortsAndValidates(t *testing.T) {
	mt, err := NewMessageType("Point", []Field{
		{ID: 2, Name: "y", Type: Scalar(KindI32)},
		{ID: 1, Name: "x", Type: Scalar(KindI32)},
	})
	require.NoError(t, err)
	require.Len(t, mt.Fields, 2)
	assert.Equal(t, "x", mt.Fields[0].Name)
	assert.Equal(t, "y", mt.Fields[1].Name)
	assert.Equal(t, 1, mt.MaskWords)
}

func TestNewMessageTypeRejectsSparseIds(t *testing.T) {
	_, err := NewMessageType("Bad", []Field{
		{ID: 1, Name: "a", Type: Scalar(KindI32)},
		{ID: 3, Name: "b", Type: Scalar(KindI32)},
	})
	assert.ErrorIs(t, err, ErrSparseFieldIDs)
}

func TestNewMessageTypeRejectsDuplicateIds(t *testing.T) {
	_, err := NewMessageType("Bad", []Field{
		{ID: 1, Name: "a", Type: Scalar(KindI32)},
		{ID: 1, Name: "b", Type: Scalar(KindI32)},
	})
	assert.ErrorIs(t, err, ErrSparseFieldIDs)
}

func TestMaskWordsForLargeMessage(t *testing.T) {
	fields := make([]Field, 40)
	for i := range fields {
		fields[i] = Field{ID: i + 1, Name: "f", Type: Scalar(KindString)}
	}
	mt, err := NewMessageType("Wide", fields)
	require.NoError(t, err)
	assert.Equal(t, 2, mt.MaskWords)
}

func TestRegistryRegisterAndLookup(t *testing.T) {
	reg := NewRegistry()
	mt, err := NewMessageType("User", []Field{
		{ID: 1, Name: "name", Type: Scalar(KindString)},
		{ID: 2, Name: "age", Type: Scalar(KindI32)},
	})
	require.NoError(t, err)

	require.NoError(t, reg.Register(mt))

	got, ok := reg.Lookup("User")
	require.True(t, ok)
	assert.Same(t, mt, got)

	_, ok = reg.Lookup("Missing")
	assert.False(t, ok)
}

func TestRegistryRejectsDuplicateTag(t *testing.T) {
	reg := NewRegistry()
	mt, err := NewMessageType("User", []Field{{ID: 1, Name: "name", Type: Scalar(KindString)}})
	require.NoError(t, err)

	require.NoError(t, reg.Register(mt))
	assert.ErrorIs(t, reg.Register(mt), ErrDuplicateTypeTag)
}

func TestRegistryAcceptsDAGOfNestedMessages(t *testing.T) {
	reg := NewRegistry()

	user, err := NewMessageType("User", []Field{
		{ID: 1, Name: "name", Type: Scalar(KindString)},
	})
	require.NoError(t, err)
	require.NoError(t, reg.Register(user))

	group, err := NewMessageType("Group", []Field{
		{ID: 1, Name: "name", Type: Scalar(KindString)},
		{ID: 2, Name: "members", Type: List(Message("User"))},
	})
	require.NoError(t, err)
	require.NoError(t, reg.Register(group))

	org, err := NewMessageType("Organization", []Field{
		{ID: 1, Name: "name", Type: Scalar(KindString)},
		{ID: 2, Name: "groups", Type: List(Message("Group"))},
		{ID: 3, Name: "leader", Type: Message("User")},
	})
	require.NoError(t, err)
	assert.NoError(t, reg.Register(org))
}

func TestRegistryRejectsDirectCycle(t *testing.T) {
	reg := NewRegistry()

	// Node references itself directly through a nested message field.
	node, err := NewMessageType("Node", []Field{
		{ID: 1, Name: "name", Type: Scalar(KindString)},
		{ID: 2, Name: "next", Type: Message("Node")},
	})
	require.NoError(t, err)
	assert.ErrorIs(t, reg.Register(node), ErrCyclicMessage)
}

func TestRegistryRejectsIndirectCycle(t *testing.T) {
	reg := NewRegistry()

	a, err := NewMessageType("A", []Field{
		{ID: 1, Name: "b", Type: Message("B")},
	})
	require.NoError(t, err)
	require.NoError(t, reg.Register(a))

	b, err := NewMessageType("B", []Field{
		{ID: 1, Name: "a", Type: Message("A")},
	})
	require.NoError(t, err)
	assert.ErrorIs(t, reg.Register(b), ErrCyclicMessage)
}
