package logger

import "log/slog"

// Standard field keys for structured logging across the codec and RPC
// layers. Use these keys consistently so log lines stay greppable.
const (
	KeyTraceID = "trace_id" // OpenTelemetry trace ID for request correlation
	KeySpanID  = "span_id"  // OpenTelemetry span ID for operation tracking

	KeyMethod        = "method"         // Registered method name
	KeyMethodID      = "method_id"      // Numeric method id from the frame
	KeyCorrelationID = "correlation_id" // Frame correlation id
	KeyKind          = "kind"           // Frame kind: request, response
	KeyStatus        = "status"         // Frame status code

	KeyRemoteAddr    = "remote_addr"    // Peer address
	KeyConnectionID  = "connection_id"  // Server-assigned connection identifier
	KeyFrameBytes    = "frame_bytes"    // Total frame length on the wire
	KeyInFlight      = "in_flight"      // Current in-flight call count
	KeyTypeTag       = "type_tag"       // Registered schema type tag
	KeyFieldID       = "field_id"       // Message field id
	KeyMaskWords     = "mask_words"     // Bit-mask word count
	KeyDurationMs    = "duration_ms"    // Operation duration in milliseconds
	KeyError         = "error"          // Error message
	KeyErrorKind     = "error_kind"     // Classified wire/codec error kind
	KeyPoolHit       = "pool_hit"       // Whether a pooled mask was reused
)

// TraceID returns a slog.Attr for OpenTelemetry trace ID
func TraceID(id string) slog.Attr { return slog.String(KeyTraceID, id) }

// SpanID returns a slog.Attr for OpenTelemetry span ID
func SpanID(id string) slog.Attr { return slog.String(KeySpanID, id) }

// Method returns a slog.Attr for the registered method name
func Method(name string) slog.Attr { return slog.String(KeyMethod, name) }

// MethodID returns a slog.Attr for the numeric method id
func MethodID(id uint32) slog.Attr { return slog.Any(KeyMethodID, id) }

// CorrelationID returns a slog.Attr for the frame correlation id
func CorrelationID(id uint64) slog.Attr { return slog.Uint64(KeyCorrelationID, id) }

// Kind returns a slog.Attr for the frame kind
func Kind(k string) slog.Attr { return slog.String(KeyKind, k) }

// Status returns a slog.Attr for the frame status code
func Status(code uint16) slog.Attr { return slog.Any(KeyStatus, code) }

// RemoteAddr returns a slog.Attr for the peer address
func RemoteAddr(addr string) slog.Attr { return slog.String(KeyRemoteAddr, addr) }

// ConnectionID returns a slog.Attr for the connection identifier
func ConnectionID(id string) slog.Attr { return slog.String(KeyConnectionID, id) }

// FrameBytes returns a slog.Attr for the total frame length
func FrameBytes(n uint32) slog.Attr { return slog.Any(KeyFrameBytes, n) }

// InFlight returns a slog.Attr for the current in-flight call count
func InFlight(n int) slog.Attr { return slog.Int(KeyInFlight, n) }

// TypeTag returns a slog.Attr for a registered schema type tag
func TypeTag(tag string) slog.Attr { return slog.String(KeyTypeTag, tag) }

// FieldID returns a slog.Attr for a message field id
func FieldID(id int) slog.Attr { return slog.Int(KeyFieldID, id) }

// MaskWords returns a slog.Attr for a bit-mask word count
func MaskWords(w int) slog.Attr { return slog.Int(KeyMaskWords, w) }

// DurationMs returns a slog.Attr for duration in milliseconds
func DurationMs(ms float64) slog.Attr { return slog.Float64(KeyDurationMs, ms) }

// Err returns a slog.Attr for an error
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String(KeyError, err.Error())
}

// ErrorKind returns a slog.Attr for a classified error kind
func ErrorKind(kind string) slog.Attr { return slog.String(KeyErrorKind, kind) }

// PoolHit returns a slog.Attr for whether a pooled mask was reused
func PoolHit(hit bool) slog.Attr { return slog.Bool(KeyPoolHit, hit) }
