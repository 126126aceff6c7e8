package typehandler

import (
	"fmt"

	"github.com/bitrpc/bitrpc/pkg/wire"
)

// listHandler implements list<T>: a u32 count followed by count elements
// using elem's handler. Its Go representation is []any so it can wrap any
// element handler uniformly; generated code narrows this to a concrete
// slice type.
type listHandler struct {
	elem    Handler
	canonName string
}

// NewList returns the handler for list<elem>.
func NewList(elem Handler, elemCanonicalName string) Handler {
	return listHandler{elem: elem, canonName: "list<" + elemCanonicalName + ">"}
}

func (h listHandler) IsDefault(v any) bool {
	return len(v.([]any)) == 0
}

func (h listHandler) Write(v any, w *wire.StreamWriter) {
	items := v.([]any)
	w.WriteU32(uint32(len(items)))
	for _, item := range items {
		h.elem.Write(item, w)
	}
}

func (h listHandler) Read(r *wire.StreamReader) (any, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	items := make([]any, 0, count)
	for i := uint32(0); i < count; i++ {
		item, err := h.elem.Read(r)
		if err != nil {
			return nil, fmt.Errorf("list element %d: %w", i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func (h listHandler) TypeHash() uint32 { return TypeHash(h.canonName) }

// mapEntry is one key/value pair of a decoded map<K,V>, preserving the order
// entries were read off the wire.
type mapEntry struct {
	Key   any
	Value any
}

// MapValue is the Go representation of a map<K,V> value: entries in
// insertion order. Ordinary Go maps do not preserve iteration order, and
// Map entry order observed on read must be preserved, so
// callers build and consume MapValue rather than a native map.
type MapValue []mapEntry

// NewMapValue returns an empty MapValue ready for appending.
func NewMapValue() MapValue { return MapValue{} }

// Append adds a key/value pair, preserving insertion order.
func (m MapValue) Append(key, value any) MapValue {
	return append(m, mapEntry{Key: key, Value: value})
}

// mapHandler implements map<K,V>: a u32 count followed by count alternating
// key/value pairs, in insertion order on write and preserved order on read.
type mapHandler struct {
	key       Handler
	value     Handler
	canonName string
}

// NewMap returns the handler for map<key,value>.
func NewMap(key, value Handler, keyCanonicalName, valueCanonicalName string) Handler {
	return mapHandler{
		key:       key,
		value:     value,
		canonName: "map<" + keyCanonicalName + "," + valueCanonicalName + ">",
	}
}

func (h mapHandler) IsDefault(v any) bool {
	return len(v.(MapValue)) == 0
}

func (h mapHandler) Write(v any, w *wire.StreamWriter) {
	entries := v.(MapValue)
	w.WriteU32(uint32(len(entries)))
	for _, e := range entries {
		h.key.Write(e.Key, w)
		h.value.Write(e.Value, w)
	}
}

func (h mapHandler) Read(r *wire.StreamReader) (any, error) {
	count, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	out := make(MapValue, 0, count)
	for i := uint32(0); i < count; i++ {
		k, err := h.key.Read(r)
		if err != nil {
			return nil, fmt.Errorf("map entry %d key: %w", i, err)
		}
		val, err := h.value.Read(r)
		if err != nil {
			return nil, fmt.Errorf("map entry %d value: %w", i, err)
		}
		out = append(out, mapEntry{Key: k, Value: val})
	}
	return out, nil
}

func (h mapHandler) TypeHash() uint32 { return TypeHash(h.canonName) }
