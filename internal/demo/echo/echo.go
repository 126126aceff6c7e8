// Package echo is a minimal demonstration service built directly on
// pkg/schema, pkg/codec and pkg/rpc: the kind of code a generator would
// normally emit from a method definition, hand-written here since no PDL
// front end exists yet. It exists so cmd/bitrpcd has a real method to serve
// and call, exercising the full schema → codec → wire path end to end.
package echo

import (
	"context"
	"fmt"
	"time"

	"github.com/bitrpc/bitrpc/pkg/bitmask"
	"github.com/bitrpc/bitrpc/pkg/codec"
	"github.com/bitrpc/bitrpc/pkg/rpc"
	"github.com/bitrpc/bitrpc/pkg/schema"
	"github.com/bitrpc/bitrpc/pkg/typehandler"
	"github.com/bitrpc/bitrpc/pkg/wire"
)

// MethodID and MethodName identify the Echo call in a ServiceRegistry.
const (
	MethodID   uint32 = 1
	MethodName        = "Echo.Call"
)

// Field ids for EchoRequest.
const (
	requestFieldMessage = 1
)

// Field ids for EchoResponse.
const (
	responseFieldMessage    = 1
	responseFieldReceivedAt = 2
)

// Service holds the compiled codecs for EchoRequest/EchoResponse and serves
// as both the server-side handler and the client-side call helper.
type Service struct {
	requestType   *schema.MessageType
	responseType  *schema.MessageType
	requestCodec  *codec.Codec
	responseCodec *codec.Codec
	pool          *bitmask.Pool
}

// NewService builds the EchoRequest/EchoResponse schema and compiles their
// codecs. It is the runtime analogue of what a PDL compiler would generate
// from a .bitpdl method declaration.
func NewService() (*Service, error) {
	requestType, err := schema.NewMessageType("EchoRequest", []schema.Field{
		{ID: requestFieldMessage, Name: "message", Type: schema.Scalar(schema.KindString)},
	})
	if err != nil {
		return nil, fmt.Errorf("echo: building EchoRequest schema: %w", err)
	}

	responseType, err := schema.NewMessageType("EchoResponse", []schema.Field{
		{ID: responseFieldMessage, Name: "message", Type: schema.Scalar(schema.KindString)},
		{ID: responseFieldReceivedAt, Name: "received_at", Type: schema.Scalar(schema.KindTimestamp)},
	})
	if err != nil {
		return nil, fmt.Errorf("echo: building EchoResponse schema: %w", err)
	}

	schemaReg := schema.NewRegistry()
	if err := schemaReg.Register(requestType); err != nil {
		return nil, err
	}
	if err := schemaReg.Register(responseType); err != nil {
		return nil, err
	}

	handlerReg := typehandler.NewRegistry()
	pool := bitmask.NewPool()

	requestCodec, err := codec.Build(handlerReg, requestType, pool)
	if err != nil {
		return nil, fmt.Errorf("echo: building EchoRequest codec: %w", err)
	}
	responseCodec, err := codec.Build(handlerReg, responseType, pool)
	if err != nil {
		return nil, fmt.Errorf("echo: building EchoResponse codec: %w", err)
	}

	return &Service{
		requestType:   requestType,
		responseType:  responseType,
		requestCodec:  requestCodec,
		responseCodec: responseCodec,
		pool:          pool,
	}, nil
}

// Pool returns the bitmask.Pool backing this service's codecs, for
// reporting its occupancy as a metric.
func (s *Service) Pool() *bitmask.Pool {
	return s.pool
}

// Register adds the Echo.Call method to registry, wired to s.handle.
func (s *Service) Register(registry *rpc.ServiceRegistry) error {
	return registry.Register(rpc.Method{
		ID:      MethodID,
		Name:    MethodName,
		Handler: s.handle,
	})
}

// handle decodes an EchoRequest payload, builds the matching EchoResponse,
// and encodes it back. This is the runtime's only caller-supplied logic;
// everything else is the codec doing its job.
func (s *Service) handle(ctx context.Context, payload []byte) ([]byte, error) {
	r := wire.NewStreamReader(payload)
	req, err := s.requestCodec.Read(r)
	if err != nil {
		return nil, fmt.Errorf("echo: decoding request: %w", err)
	}

	message, _ := req.Get(requestFieldMessage).(string)

	resp := codec.NewMessage(s.responseType)
	resp.Set(responseFieldMessage, message)
	resp.Set(responseFieldReceivedAt, time.Now().UTC())

	w := wire.NewStreamWriter(64)
	if err := s.responseCodec.Write(resp, w); err != nil {
		return nil, fmt.Errorf("echo: encoding response: %w", err)
	}
	return w.Bytes(), nil
}

// Call invokes Echo.Call on client with message, returning the echoed
// message and the server's receipt timestamp.
func (s *Service) Call(ctx context.Context, client *rpc.Client, message string) (string, time.Time, error) {
	req := codec.NewMessage(s.requestType)
	req.Set(requestFieldMessage, message)

	w := wire.NewStreamWriter(64)
	if err := s.requestCodec.Write(req, w); err != nil {
		return "", time.Time{}, fmt.Errorf("echo: encoding request: %w", err)
	}

	respPayload, err := client.Call(ctx, MethodID, MethodName, w.Bytes())
	if err != nil {
		return "", time.Time{}, err
	}

	r := wire.NewStreamReader(respPayload)
	resp, err := s.responseCodec.Read(r)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("echo: decoding response: %w", err)
	}

	echoed, _ := resp.Get(responseFieldMessage).(string)
	receivedAt, _ := resp.Get(responseFieldReceivedAt).(time.Time)
	return echoed, receivedAt, nil
}
