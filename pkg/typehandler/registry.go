package typehandler

import (
	"fmt"
	"sync"
)

// Registry maps language-neutral type tags to Handlers. Registration is
// expected to happen once at process init from generated registration
// calls; re-registering the same tag with a different handler is an error.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

// NewRegistry returns a registry pre-seeded with every built-in scalar
// handler, keyed by its canonical type name.
func NewRegistry() *Registry {
	r := &Registry{handlers: make(map[string]Handler)}
	for tag, h := range map[string]Handler{
		"bool":      Bool,
		"i32":       I32,
		"i64":       I64,
		"f32":       F32,
		"f64":       F64,
		"string":    String,
		"bytes":     Bytes,
		"timestamp": Timestamp,
	} {
		r.handlers[tag] = h
	}
	return r
}

// Register adds h under tag. Re-registering an existing tag is an error
// even with an identical handler, since silent shadowing would hide a
// generator bug that emits the same tag twice.
func (r *Registry) Register(tag string, h Handler) error {
	if tag == "" {
		return fmt.Errorf("typehandler: cannot register handler with empty tag")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[tag]; exists {
		return fmt.Errorf("typehandler: tag %q already registered", tag)
	}
	r.handlers[tag] = h
	return nil
}

// Lookup returns the handler registered for tag, if any.
func (r *Registry) Lookup(tag string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[tag]
	return h, ok
}

// MustLookup returns the handler registered for tag, panicking if it is
// absent. Intended for generated code paths where an unregistered tag
// indicates a build-time inconsistency between schema and registry, not a
// recoverable runtime condition.
func (r *Registry) MustLookup(tag string) Handler {
	h, ok := r.Lookup(tag)
	if !ok {
		panic(fmt.Sprintf("typehandler: no handler registered for tag %q", tag))
	}
	return h
}
