package typehandler

import "github.com/bitrpc/bitrpc/pkg/wire"

// MessageCodec is the contract a nested message<M> handler delegates to.
// The codec package implements this for every registered message type;
// typehandler only depends on the narrow interface to avoid an import
// cycle between typehandler and codec.
type MessageCodec interface {
	WriteMessage(v any, w *wire.StreamWriter) error
	ReadMessage(r *wire.StreamReader) (any, error)
	IsDefaultMessage(v any) bool
}

// messageHandler implements message<M>: encode/decode is delegated entirely
// to M's own message codec.
type messageHandler struct {
	codec MessageCodec
	tag   string
}

// NewMessage returns the handler for message<tag>, delegating to codec.
func NewMessage(tag string, codec MessageCodec) Handler {
	return messageHandler{codec: codec, tag: tag}
}

func (h messageHandler) IsDefault(v any) bool {
	return h.codec.IsDefaultMessage(v)
}

func (h messageHandler) Write(v any, w *wire.StreamWriter) {
	// Nested message writes cannot fail independently of the stream layer,
	// which itself never returns an error (see wire.StreamWriter); any
	// error here would only originate from a schema mismatch baked in at
	// registration time, which is a programming error.
	if err := h.codec.WriteMessage(v, w); err != nil {
		panic("typehandler: nested message write failed: " + err.Error())
	}
}

func (h messageHandler) Read(r *wire.StreamReader) (any, error) {
	return h.codec.ReadMessage(r)
}

func (h messageHandler) TypeHash() uint32 { return TypeHash("message<" + h.tag + ">") }
