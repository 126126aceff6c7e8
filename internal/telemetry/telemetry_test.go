package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.False(t, cfg.Enabled)
	assert.Equal(t, "bitrpc", cfg.ServiceName)
	assert.Equal(t, "dev", cfg.ServiceVersion)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, 1.0, cfg.SampleRate)
}

func TestInitDisabled(t *testing.T) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.Enabled = false

	shutdown, err := Init(ctx, cfg)
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	err = shutdown(ctx)
	assert.NoError(t, err)

	assert.False(t, IsEnabled())
}

func TestTracerReturnsNoOp(t *testing.T) {
	tracer = nil
	enabled = false

	tr := Tracer()
	require.NotNil(t, tr)
}

func TestStartSpan(t *testing.T) {
	ctx := context.Background()

	newCtx, span := StartSpan(ctx, "test.operation")
	require.NotNil(t, newCtx)
	require.NotNil(t, span)

	span.End()
}

func TestSpanFromContext(t *testing.T) {
	ctx := context.Background()

	span := SpanFromContext(ctx)
	require.NotNil(t, span)
}

func TestAddEvent(t *testing.T) {
	ctx := context.Background()

	require.NotPanics(t, func() {
		AddEvent(ctx, "test.event")
	})
}

func TestRecordError(t *testing.T) {
	ctx := context.Background()

	require.NotPanics(t, func() {
		RecordError(ctx, nil)
	})

	require.NotPanics(t, func() {
		RecordError(ctx, errors.New("test error"))
	})
}

func TestSetStatus(t *testing.T) {
	ctx := context.Background()

	require.NotPanics(t, func() {
		SetStatus(ctx, codes.Ok, "success")
	})

	require.NotPanics(t, func() {
		SetStatus(ctx, codes.Error, "failed")
	})
}

func TestSetAttributes(t *testing.T) {
	ctx := context.Background()

	require.NotPanics(t, func() {
		SetAttributes(ctx, RemoteAddr("192.168.1.1:12345"))
	})
}

func TestTraceID(t *testing.T) {
	ctx := context.Background()

	traceID := TraceID(ctx)
	assert.Equal(t, "", traceID)
}

func TestSpanID(t *testing.T) {
	ctx := context.Background()

	spanID := SpanID(ctx)
	assert.Equal(t, "", spanID)
}

func TestAttributeHelpers(t *testing.T) {
	t.Run("RemoteAddr", func(t *testing.T) {
		attr := RemoteAddr("192.168.1.100:12345")
		assert.Equal(t, AttrRemoteAddr, string(attr.Key))
		assert.Equal(t, "192.168.1.100:12345", attr.Value.AsString())
	})

	t.Run("ConnectionID", func(t *testing.T) {
		attr := ConnectionID("conn-7")
		assert.Equal(t, AttrConnectionID, string(attr.Key))
		assert.Equal(t, "conn-7", attr.Value.AsString())
	})

	t.Run("Method", func(t *testing.T) {
		attr := Method("Echo.Call")
		assert.Equal(t, AttrMethod, string(attr.Key))
		assert.Equal(t, "Echo.Call", attr.Value.AsString())
	})

	t.Run("MethodID", func(t *testing.T) {
		attr := MethodID(7)
		assert.Equal(t, AttrMethodID, string(attr.Key))
		assert.Equal(t, int64(7), attr.Value.AsInt64())
	})

	t.Run("CorrelationID", func(t *testing.T) {
		attr := CorrelationID(42)
		assert.Equal(t, AttrCorrelationID, string(attr.Key))
		assert.Equal(t, int64(42), attr.Value.AsInt64())
	})

	t.Run("Kind", func(t *testing.T) {
		attr := Kind("request")
		assert.Equal(t, AttrKind, string(attr.Key))
		assert.Equal(t, "request", attr.Value.AsString())
	})

	t.Run("Status", func(t *testing.T) {
		attr := Status(0)
		assert.Equal(t, AttrStatus, string(attr.Key))
		assert.Equal(t, int64(0), attr.Value.AsInt64())
	})

	t.Run("FrameBytes", func(t *testing.T) {
		attr := FrameBytes(1024)
		assert.Equal(t, AttrFrameBytes, string(attr.Key))
		assert.Equal(t, int64(1024), attr.Value.AsInt64())
	})

	t.Run("TypeTag", func(t *testing.T) {
		attr := TypeTag("User")
		assert.Equal(t, AttrTypeTag, string(attr.Key))
		assert.Equal(t, "User", attr.Value.AsString())
	})

	t.Run("MaskWords", func(t *testing.T) {
		attr := MaskWords(2)
		assert.Equal(t, AttrMaskWords, string(attr.Key))
		assert.Equal(t, int64(2), attr.Value.AsInt64())
	})

	t.Run("InFlight", func(t *testing.T) {
		attr := InFlight(5)
		assert.Equal(t, AttrInFlight, string(attr.Key))
		assert.Equal(t, int64(5), attr.Value.AsInt64())
	})
}

func TestStartClientCallSpan(t *testing.T) {
	ctx := context.Background()

	newCtx, span := StartClientCallSpan(ctx, "Echo.Call", 1)
	require.NotNil(t, newCtx)
	require.NotNil(t, span)
	span.End()

	newCtx2, span2 := StartClientCallSpan(ctx, "Echo.Call", 2, FrameBytes(64))
	require.NotNil(t, newCtx2)
	require.NotNil(t, span2)
	span2.End()
}

func TestStartServerDispatchSpan(t *testing.T) {
	ctx := context.Background()

	newCtx, span := StartServerDispatchSpan(ctx, "Echo.Call", 1)
	require.NotNil(t, newCtx)
	require.NotNil(t, span)
	span.End()

	newCtx2, span2 := StartServerDispatchSpan(ctx, "Echo.Call", 2, InFlight(3))
	require.NotNil(t, newCtx2)
	require.NotNil(t, span2)
	span2.End()
}
