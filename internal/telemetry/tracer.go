package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Common attribute keys for RPC call and codec spans, following
// OpenTelemetry semantic conventions where applicable.
const (
	AttrRemoteAddr    = "net.peer.address"
	AttrConnectionID  = "rpc.connection_id"
	AttrMethod        = "rpc.method"
	AttrMethodID      = "rpc.method_id"
	AttrCorrelationID = "rpc.correlation_id"
	AttrKind          = "rpc.kind"
	AttrStatus        = "rpc.status"
	AttrFrameBytes    = "rpc.frame_bytes"
	AttrTypeTag       = "codec.type_tag"
	AttrMaskWords     = "codec.mask_words"
	AttrInFlight      = "rpc.in_flight"
)

// Span names for the client and server sides of a call.
const (
	SpanClientCall    = "rpc.client.call"
	SpanServerDispatch = "rpc.server.dispatch"
	SpanCodecWrite    = "codec.write"
	SpanCodecRead     = "codec.read"
)

// RemoteAddr returns an attribute for the peer address.
func RemoteAddr(addr string) attribute.KeyValue {
	return attribute.String(AttrRemoteAddr, addr)
}

// ConnectionID returns an attribute for the server-assigned connection id.
func ConnectionID(id string) attribute.KeyValue {
	return attribute.String(AttrConnectionID, id)
}

// Method returns an attribute for the registered method name.
func Method(name string) attribute.KeyValue {
	return attribute.String(AttrMethod, name)
}

// MethodID returns an attribute for the numeric method id.
func MethodID(id uint32) attribute.KeyValue {
	return attribute.Int64(AttrMethodID, int64(id))
}

// CorrelationID returns an attribute for the frame correlation id.
func CorrelationID(id uint64) attribute.KeyValue {
	return attribute.Int64(AttrCorrelationID, int64(id))
}

// Kind returns an attribute for the frame kind (request/response).
func Kind(kind string) attribute.KeyValue {
	return attribute.String(AttrKind, kind)
}

// Status returns an attribute for the frame status code.
func Status(status uint16) attribute.KeyValue {
	return attribute.Int64(AttrStatus, int64(status))
}

// FrameBytes returns an attribute for the total frame length.
func FrameBytes(n uint32) attribute.KeyValue {
	return attribute.Int64(AttrFrameBytes, int64(n))
}

// TypeTag returns an attribute for a registered schema type tag.
func TypeTag(tag string) attribute.KeyValue {
	return attribute.String(AttrTypeTag, tag)
}

// MaskWords returns an attribute for the bit-mask word count.
func MaskWords(w int) attribute.KeyValue {
	return attribute.Int(AttrMaskWords, w)
}

// InFlight returns an attribute for the current in-flight call count.
func InFlight(n int) attribute.KeyValue {
	return attribute.Int(AttrInFlight, n)
}

// StartClientCallSpan starts a span around a client call.
func StartClientCallSpan(ctx context.Context, method string, correlationID uint64, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{Method(method), CorrelationID(correlationID)}
	allAttrs = append(allAttrs, attrs...)
	return StartSpan(ctx, SpanClientCall, trace.WithAttributes(allAttrs...))
}

// StartServerDispatchSpan starts a span around server-side dispatch of a request frame.
func StartServerDispatchSpan(ctx context.Context, method string, correlationID uint64, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	allAttrs := []attribute.KeyValue{Method(method), CorrelationID(correlationID)}
	allAttrs = append(allAttrs, attrs...)
	return StartSpan(ctx, SpanServerDispatch, trace.WithAttributes(allAttrs...))
}
