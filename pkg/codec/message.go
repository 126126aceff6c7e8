// Package codec implements the per-message-type serializer: writing a
// presence mask followed by each set field's payload in ascending id
// order, and the inverse for reading.
//
// Generated code is expected to supply concrete, named struct types per
// message. Lacking a generator, Message is the runtime's own generic
// message representation: a schema-described value bag indexed by field
// id, sufficient for the codec, the RPC layer, and tests to operate on
// without per-type generated glue.
package codec

import (
	"time"

	"github.com/bitrpc/bitrpc/pkg/schema"
	"github.com/bitrpc/bitrpc/pkg/typehandler"
)

// Message is one instance of a schema.MessageType: a slice of field values
// indexed 0-based (field id - 1), each holding the Go representation the
// corresponding typehandler.Handler expects.
type Message struct {
	Type   *schema.MessageType
	Values []any
}

// NewMessage returns an instance of mt with every field set to its type's
// default value.
func NewMessage(mt *schema.MessageType) *Message {
	values := make([]any, len(mt.Fields))
	for i, f := range mt.Fields {
		values[i] = zeroValue(f.Type)
	}
	return &Message{Type: mt, Values: values}
}

// Get returns the value of the 1-based field id.
func (m *Message) Get(id int) any {
	return m.Values[id-1]
}

// Set assigns the value of the 1-based field id.
func (m *Message) Set(id int, v any) {
	m.Values[id-1] = v
}

func zeroValue(t schema.FieldType) any {
	switch t.Kind {
	case schema.KindBool:
		return false
	case schema.KindI32:
		return int32(0)
	case schema.KindI64:
		return int64(0)
	case schema.KindF32:
		return float32(0)
	case schema.KindF64:
		return float64(0)
	case schema.KindString:
		return ""
	case schema.KindBytes:
		return []byte{}
	case schema.KindTimestamp:
		return time.Unix(0, 0).UTC()
	case schema.KindList:
		return []any{}
	case schema.KindMap:
		return typehandler.NewMapValue()
	case schema.KindMessage:
		// A null reference: the zero value for message<M> fields.
		return (*Message)(nil)
	default:
		panic("codec: unhandled field kind")
	}
}
