// Package typehandler implements the per-type codec registry: for every
// logical type the schema can name, a Handler knows how to detect a default
// value, write a non-default value, and read one back.
//
// Built-in handlers cover every scalar kind. list<T> and map<K,V> handlers
// are parameterized over another Handler; message<M> handlers delegate to
// a MessageCodec supplied by the codec package, avoiding an import cycle
// between typehandler and codec.
package typehandler

import (
	"hash/fnv"

	"github.com/bitrpc/bitrpc/pkg/wire"
)

// Handler is the runtime contract every logical type must satisfy: presence
// detection plus symmetrical write/read over the stream layer. Values flow
// through it as `any`; generated code is expected to supply concrete,
// type-asserted wrappers where a language allows it, but the registry itself
// stays uniform so list<T>/map<K,V> can parameterize over it.
type Handler interface {
	// IsDefault reports whether v equals the type's zero value.
	IsDefault(v any) bool
	// Write serializes v. Callers only invoke Write for non-default values;
	// handlers may assume v is never the type's default.
	Write(v any, w *wire.StreamWriter)
	// Read deserializes one value from r.
	Read(r *wire.StreamReader) (any, error)
	// TypeHash is a stable FNV-1a (32-bit) hash of the type's canonical
	// name, used only for registry indexing and cross-language schema
	// fingerprint checks — never written to the wire as a value header.
	TypeHash() uint32
}

// TypeHash computes the FNV-1a 32-bit hash of a canonical type name. It is
// exported so parameterized handlers (list<T>, map<K,V>) can derive a
// composite hash from their element handlers' names.
func TypeHash(canonicalName string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(canonicalName))
	return h.Sum32()
}
