package typehandler

import (
	"time"

	"github.com/bitrpc/bitrpc/pkg/wire"
)

type boolHandler struct{}

func (boolHandler) IsDefault(v any) bool { return !v.(bool) }
func (boolHandler) Write(v any, w *wire.StreamWriter) {
	// bool is always written as a full byte even though presence is
	// carried in the mask: the mask bit means "present and
	// non-default", not the value itself.
	w.WriteBool(v.(bool))
}
func (boolHandler) Read(r *wire.StreamReader) (any, error) { return r.ReadBool() }
func (boolHandler) TypeHash() uint32                       { return TypeHash("bool") }

type i32Handler struct{}

func (i32Handler) IsDefault(v any) bool               { return v.(int32) == 0 }
func (i32Handler) Write(v any, w *wire.StreamWriter)  { w.WriteI32(v.(int32)) }
func (i32Handler) Read(r *wire.StreamReader) (any, error) { return r.ReadI32() }
func (i32Handler) TypeHash() uint32                   { return TypeHash("i32") }

type i64Handler struct{}

func (i64Handler) IsDefault(v any) bool               { return v.(int64) == 0 }
func (i64Handler) Write(v any, w *wire.StreamWriter)  { w.WriteI64(v.(int64)) }
func (i64Handler) Read(r *wire.StreamReader) (any, error) { return r.ReadI64() }
func (i64Handler) TypeHash() uint32                   { return TypeHash("i64") }

type f32Handler struct{}

func (f32Handler) IsDefault(v any) bool               { return v.(float32) == 0 }
func (f32Handler) Write(v any, w *wire.StreamWriter)  { w.WriteF32(v.(float32)) }
func (f32Handler) Read(r *wire.StreamReader) (any, error) { return r.ReadF32() }
func (f32Handler) TypeHash() uint32                   { return TypeHash("f32") }

type f64Handler struct{}

func (f64Handler) IsDefault(v any) bool               { return v.(float64) == 0 }
func (f64Handler) Write(v any, w *wire.StreamWriter)  { w.WriteF64(v.(float64)) }
func (f64Handler) Read(r *wire.StreamReader) (any, error) { return r.ReadF64() }
func (f64Handler) TypeHash() uint32                   { return TypeHash("f64") }

type stringHandler struct{}

func (stringHandler) IsDefault(v any) bool               { return v.(string) == "" }
func (stringHandler) Write(v any, w *wire.StreamWriter)  { w.WriteString(v.(string)) }
func (stringHandler) Read(r *wire.StreamReader) (any, error) { return r.ReadString() }
func (stringHandler) TypeHash() uint32                   { return TypeHash("string") }

type bytesHandler struct{}

func (bytesHandler) IsDefault(v any) bool               { return len(v.([]byte)) == 0 }
func (bytesHandler) Write(v any, w *wire.StreamWriter)  { w.WriteBytes(v.([]byte)) }
func (bytesHandler) Read(r *wire.StreamReader) (any, error) { return r.ReadBytes() }
func (bytesHandler) TypeHash() uint32                   { return TypeHash("bytes") }

// timestampHandler encodes a time.Time as i64 nanoseconds since the Unix
// epoch, UTC. The default is the zero-nanosecond instant, i.e. 1970-01-01.
type timestampHandler struct{}

func (timestampHandler) IsDefault(v any) bool { return v.(time.Time).UnixNano() == 0 }
func (timestampHandler) Write(v any, w *wire.StreamWriter) {
	w.WriteI64(v.(time.Time).UnixNano())
}
func (timestampHandler) Read(r *wire.StreamReader) (any, error) {
	nanos, err := r.ReadI64()
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, nanos).UTC(), nil
}
func (timestampHandler) TypeHash() uint32 { return TypeHash("timestamp") }

// Bool is the built-in handler for scalar bool fields.
var Bool Handler = boolHandler{}

// I32 is the built-in handler for scalar i32 fields.
var I32 Handler = i32Handler{}

// I64 is the built-in handler for scalar i64 fields.
var I64 Handler = i64Handler{}

// F32 is the built-in handler for scalar f32 fields.
var F32 Handler = f32Handler{}

// F64 is the built-in handler for scalar f64 fields.
var F64 Handler = f64Handler{}

// String is the built-in handler for scalar string fields.
var String Handler = stringHandler{}

// Bytes is the built-in handler for scalar bytes fields.
var Bytes Handler = bytesHandler{}

// Timestamp is the built-in handler for scalar timestamp fields.
var Timestamp Handler = timestampHandler{}
