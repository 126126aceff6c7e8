package schema

import (
	"fmt"
	"sync"
)

// Registry holds every message type known to the process, keyed by its
// language-neutral type tag. It is built once at process init from
// generated registration calls and is immutable thereafter; readers need no
// synchronization once registration has finished, but Register itself is
// safe for concurrent use during startup.
//
// Example usage:
//
//	reg := schema.NewRegistry()
//	reg.Register(userType)
//	reg.Register(orgType) // may reference userType by tag
//	mt, _ := reg.Lookup("User")
type Registry struct {
	mu    sync.RWMutex
	types map[string]*MessageType
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*MessageType)}
}

// Register adds mt under its Tag. Returns an error if the tag is empty,
// already registered, or if registering mt would introduce a cycle through
// nested message<M> fields.
//
// Nested message references form a DAG in practice; cycles
// are rejected at registration rather than handled at encode/decode time.
func (r *Registry) Register(mt *MessageType) error {
	if mt == nil {
		return fmt.Errorf("schema: cannot register nil message type")
	}
	if mt.Tag == "" {
		return fmt.Errorf("schema: cannot register message type with empty tag")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.types[mt.Tag]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateTypeTag, mt.Tag)
	}

	r.types[mt.Tag] = mt
	if cyclePath, ok := r.findCycle(mt.Tag); ok {
		delete(r.types, mt.Tag)
		return fmt.Errorf("%w: registering %q would introduce a cycle: %v", ErrCyclicMessage, mt.Tag, cyclePath)
	}

	return nil
}

// Lookup returns the message type registered under tag, if any.
func (r *Registry) Lookup(tag string) (*MessageType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	mt, ok := r.types[tag]
	return mt, ok
}

// findCycle walks the reference graph reachable from start (including
// through list<message<M>> and map<_,message<M>> fields) looking for a path
// back to a type already on the current walk. Must be called with r.mu held.
func (r *Registry) findCycle(start string) ([]string, bool) {
	visiting := make(map[string]bool)
	path := make([]string, 0, 8)

	var walk func(tag string) bool
	walk = func(tag string) bool {
		if visiting[tag] {
			return true
		}
		mt, ok := r.types[tag]
		if !ok {
			// Referenced type not yet registered: cannot be part of a
			// cycle through the already-registered graph.
			return false
		}

		visiting[tag] = true
		path = append(path, tag)
		defer func() {
			visiting[tag] = false
			path = path[:len(path)-1]
		}()

		for _, f := range mt.Fields {
			if refTag, ok := referencedTag(f.Type); ok {
				if walk(refTag) {
					return true
				}
			}
		}
		return false
	}

	if walk(start) {
		return append([]string(nil), path...), true
	}
	return nil, false
}

// referencedTag extracts the message type tag a field type points at,
// unwrapping list<> and map<> parameterization to find a nested message<M>.
func referencedTag(t FieldType) (string, bool) {
	switch t.Kind {
	case KindMessage:
		return t.TypeTag, true
	case KindList:
		return referencedTag(*t.Elem)
	case KindMap:
		return referencedTag(*t.Elem)
	default:
		return "", false
	}
}
