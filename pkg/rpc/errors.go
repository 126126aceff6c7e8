package rpc

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced to callers of Client.Call and to server-side log
// lines, covering the error kinds specific to the framing/dispatch layer
// (codec-layer errors are wire.Err* / codec.Err*).
var (
	// ErrUnknownMethod corresponds to wire status StatusUnknownMethod: the
	// server has no handler registered for the request's method_id.
	ErrUnknownMethod = errors.New("rpc: unknown method")

	// ErrTimeout is returned to a client call whose deadline expired
	// before a matching response arrived.
	ErrTimeout = errors.New("rpc: call timed out")

	// ErrConnectionLost is returned to every pending call when the
	// transport closes, and to calls made after the client has detected
	// the connection is gone.
	ErrConnectionLost = errors.New("rpc: connection lost")

	// ErrOverload corresponds to wire status StatusOverload: the server's
	// in-flight cap for the connection was exceeded. The client may retry.
	ErrOverload = errors.New("rpc: server overloaded")

	// ErrClientClosed is returned by a call on a client marked closed with
	// no recorded connection error. Client.Close does not mark the client
	// itself: calls made after Close fail with ErrConnectionLost, recorded
	// by the reader goroutine when it observes the closed connection or by
	// the failed request write.
	ErrClientClosed = errors.New("rpc: client closed")
)

// HandlerError wraps a server handler's error message as delivered in a
// StatusHandlerError response payload ("payload = error message
// string"). It is reconstructed client-side from the raw bytes, so it only
// carries a message, not the original error's type or chain.
type HandlerError struct {
	Message string
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("rpc: handler error: %s", e.Message)
}
