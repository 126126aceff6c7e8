// Package schema describes the message schema model: field descriptors
// with stable numeric ids, and message types assembled from them.
//
// A message type is an ordered collection of field descriptors. Field ids
// are 1-based and must be dense (1..N) within a message: the codec uses
// id-1 directly as a bit index into the presence mask, so sparse ids are
// rejected at construction rather than tolerated with gaps.
package schema

import "fmt"

// Kind identifies a field's logical type category.
type Kind int

const (
	// KindBool through KindTimestamp are the built-in scalar kinds.
	KindBool Kind = iota
	KindI32
	KindI64
	KindF32
	KindF64
	KindString
	KindBytes
	KindTimestamp

	// KindList is a parameterized list<T>; Elem describes T.
	KindList
	// KindMap is a parameterized map<K,V>; Key and Elem describe K and V.
	KindMap
	// KindMessage is a reference to another message type, named by TypeTag.
	KindMessage
)

// String renders a Kind for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	case KindTimestamp:
		return "timestamp"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindMessage:
		return "message"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// FieldType fully describes a field's logical type. Scalars only set Kind.
// list<T> sets Kind=KindList and Elem; map<K,V> sets Kind=KindMap, Key and
// Elem; message<M> sets Kind=KindMessage and TypeTag to M's type tag.
type FieldType struct {
	Kind     Kind
	Key      *FieldType
	Elem     *FieldType
	TypeTag  string
}

// Scalar builds a FieldType for one of the built-in scalar kinds.
func Scalar(k Kind) FieldType {
	return FieldType{Kind: k}
}

// List builds a FieldType for list<elem>.
func List(elem FieldType) FieldType {
	return FieldType{Kind: KindList, Elem: &elem}
}

// Map builds a FieldType for map<key,elem>.
func Map(key, elem FieldType) FieldType {
	return FieldType{Kind: KindMap, Key: &key, Elem: &elem}
}

// Message builds a FieldType referencing the message type registered under tag.
func Message(tag string) FieldType {
	return FieldType{Kind: KindMessage, TypeTag: tag}
}

// Field describes one field of a message type.
type Field struct {
	// ID is the 1-based, dense, stable position of the field.
	ID int
	// Name is opaque to the codec; it exists for diagnostics and generated
	// accessor naming only.
	Name string
	Type FieldType
}

// MessageType describes the ordered field set of one message, plus enough
// bookkeeping for the codec to size its presence mask.
type MessageType struct {
	// Tag is the language-neutral type tag this message is registered
	// under (see Registry).
	Tag    string
	Fields []Field
	// MaskWords is ceil(len(Fields)/32), precomputed at construction.
	MaskWords int
}

// NewMessageType validates field ids (dense, 1-based, unique) and returns a
// MessageType. Fields need not be supplied in id order; NewMessageType sorts
// them into ascending id order since that is the codec's normative
// traversal order.
func NewMessageType(tag string, fields []Field) (*MessageType, error) {
	n := len(fields)
	seen := make([]bool, n)
	ordered := make([]Field, n)

	for _, f := range fields {
		if f.ID < 1 || f.ID > n {
			return nil, fmt.Errorf("%w: field %q has id %d, want 1..%d", ErrSparseFieldIDs, f.Name, f.ID, n)
		}
		if seen[f.ID-1] {
			return nil, fmt.Errorf("%w: duplicate field id %d", ErrSparseFieldIDs, f.ID)
		}
		seen[f.ID-1] = true
		ordered[f.ID-1] = f
	}

	return &MessageType{
		Tag:       tag,
		Fields:    ordered,
		MaskWords: (n + 31) / 32,
	}, nil
}
