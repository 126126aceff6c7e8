package codec

import (
	"fmt"

	"github.com/bitrpc/bitrpc/pkg/bitmask"
	"github.com/bitrpc/bitrpc/pkg/schema"
	"github.com/bitrpc/bitrpc/pkg/typehandler"
	"github.com/bitrpc/bitrpc/pkg/wire"
)

// Codec serializes and deserializes instances of one schema.MessageType.
// It is built once (typically at process init, alongside schema and
// type-handler registration) and is safe for concurrent use thereafter: the
// only mutable state it touches per call is a pooled bitmask.Mask.
type Codec struct {
	mt       *schema.MessageType
	handlers []typehandler.Handler
	pool     *bitmask.Pool
}

// Build resolves a Handler for every field of mt by consulting handlerReg,
// constructs a Codec, and registers the Codec itself into handlerReg as the
// message<mt.Tag> handler so other message types can nest it.
//
// Message types must be built in dependency order (referenced types
// before referencing ones) since a message<M> field resolves M's handler
// by looking it up in handlerReg at Build time. schema.Registry's
// cycle rejection at registration time guarantees such an order exists.
func Build(handlerReg *typehandler.Registry, mt *schema.MessageType, pool *bitmask.Pool) (*Codec, error) {
	handlers := make([]typehandler.Handler, len(mt.Fields))
	for i, f := range mt.Fields {
		h, err := resolveHandler(handlerReg, f.Type)
		if err != nil {
			return nil, fmt.Errorf("codec: field %q (id %d) of %q: %w", f.Name, f.ID, mt.Tag, err)
		}
		handlers[i] = h
	}

	c := &Codec{mt: mt, handlers: handlers, pool: pool}

	if err := handlerReg.Register(mt.Tag, typehandler.NewMessage(mt.Tag, c)); err != nil {
		return nil, err
	}
	return c, nil
}

func resolveHandler(reg *typehandler.Registry, t schema.FieldType) (typehandler.Handler, error) {
	switch t.Kind {
	case schema.KindMessage:
		h, ok := reg.Lookup(t.TypeTag)
		if !ok {
			return nil, fmt.Errorf("no codec registered for message type %q; build it first", t.TypeTag)
		}
		return h, nil
	case schema.KindList:
		elem, err := resolveHandler(reg, *t.Elem)
		if err != nil {
			return nil, err
		}
		return typehandler.NewList(elem, canonicalName(*t.Elem)), nil
	case schema.KindMap:
		key, err := resolveHandler(reg, *t.Key)
		if err != nil {
			return nil, err
		}
		val, err := resolveHandler(reg, *t.Elem)
		if err != nil {
			return nil, err
		}
		return typehandler.NewMap(key, val, canonicalName(*t.Key), canonicalName(*t.Elem)), nil
	default:
		tag := t.Kind.String()
		h, ok := reg.Lookup(tag)
		if !ok {
			return nil, fmt.Errorf("no handler registered for scalar %q", tag)
		}
		return h, nil
	}
}

func canonicalName(t schema.FieldType) string {
	switch t.Kind {
	case schema.KindMessage:
		return "message<" + t.TypeTag + ">"
	case schema.KindList:
		return "list<" + canonicalName(*t.Elem) + ">"
	case schema.KindMap:
		return "map<" + canonicalName(*t.Key) + "," + canonicalName(*t.Elem) + ">"
	default:
		return t.Kind.String()
	}
}

// Write serializes m: a presence mask over non-default fields followed by
// each set field's payload in ascending id order.
func (c *Codec) Write(m *Message, w *wire.StreamWriter) error {
	if m.Type != c.mt {
		return fmt.Errorf("%w: writing %q with codec for %q", ErrSchemaMismatch, m.Type.Tag, c.mt.Tag)
	}

	mask := c.pool.Acquire(c.mt.MaskWords)
	defer c.pool.Release(mask)

	for i, h := range c.handlers {
		if !h.IsDefault(m.Values[i]) {
			mask.Set(i, true)
		}
	}
	mask.Write(w)

	for i, h := range c.handlers {
		if mask.Get(i) {
			h.Write(m.Values[i], w)
		}
	}
	return nil
}

// Read deserializes one instance of mt: a presence mask, then each set
// field's payload in ascending id order. Fields whose bit is clear are
// left at their type default and consume no bytes.
func (c *Codec) Read(r *wire.StreamReader) (*Message, error) {
	mask := c.pool.Acquire(c.mt.MaskWords)
	defer c.pool.Release(mask)

	if err := mask.Read(r); err != nil {
		return nil, err
	}

	n := len(c.mt.Fields)
	for i := n; i < c.mt.MaskWords*32; i++ {
		if mask.Get(i) {
			return nil, fmt.Errorf("%w: bit %d, %q has %d fields", ErrUnknownField, i, c.mt.Tag, n)
		}
	}

	m := NewMessage(c.mt)
	for i, h := range c.handlers {
		if mask.Get(i) {
			v, err := h.Read(r)
			if err != nil {
				return nil, fmt.Errorf("field %q (id %d) of %q: %w", c.mt.Fields[i].Name, c.mt.Fields[i].ID, c.mt.Tag, err)
			}
			m.Values[i] = v
		}
	}
	return m, nil
}

// WriteMessage implements typehandler.MessageCodec so Codec can back a
// nested message<M> handler directly.
func (c *Codec) WriteMessage(v any, w *wire.StreamWriter) error {
	m, ok := v.(*Message)
	if !ok || m == nil {
		m = NewMessage(c.mt)
	}
	return c.Write(m, w)
}

// ReadMessage implements typehandler.MessageCodec.
func (c *Codec) ReadMessage(r *wire.StreamReader) (any, error) {
	return c.Read(r)
}

// IsDefaultMessage implements typehandler.MessageCodec: a nested message is
// default iff it is a null reference or every sub-field is at its default.
func (c *Codec) IsDefaultMessage(v any) bool {
	m, ok := v.(*Message)
	if !ok || m == nil {
		return true
	}
	for i, h := range c.handlers {
		if !h.IsDefault(m.Values[i]) {
			return false
		}
	}
	return true
}
