package schema

import "errors"

// Sentinel errors raised at schema construction and registration time, so
// generated registration calls can distinguish failure classes instead of
// matching on error text.
var (
	// ErrSparseFieldIDs is returned when a message type's field ids are not
	// dense 1..N: the codec uses id-1 directly as a presence-mask bit
	// index, so a gap would leave a bit permanently unaddressable.
	ErrSparseFieldIDs = errors.New("schema: field ids are not dense 1..N")

	// ErrDuplicateTypeTag is returned when registering a message type
	// under a tag already present in the registry.
	ErrDuplicateTypeTag = errors.New("schema: type tag already registered")

	// ErrCyclicMessage is returned when registering a message type would
	// introduce a cycle through nested message<M> references.
	ErrCyclicMessage = errors.New("schema: cyclic message reference")
)
