package rpc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/bitrpc/bitrpc/internal/logger"
	"github.com/bitrpc/bitrpc/internal/telemetry"
	"github.com/bitrpc/bitrpc/pkg/bufpool"
	"github.com/bitrpc/bitrpc/pkg/metrics"
)

// pendingCall is the handle for one in-flight client call: created at
// dispatch, destroyed when the matching response arrives, the call times
// out, or the connection closes.
type pendingCall struct {
	resultCh chan callResult
}

type callResult struct {
	frame Frame
	err   error
}

// Client maintains one connection and a table of in-flight calls keyed by
// correlation id. A single reader goroutine owns the connection's read half
// and completes pending calls as responses arrive; Call itself only takes
// the write lock for the duration of writing its request frame.
type Client struct {
	conn          net.Conn
	maxFrameBytes uint32

	writeMu sync.Mutex

	mu                sync.Mutex
	pending           map[uint64]*pendingCall
	nextCorrelationID uint64
	closed            bool
	closeErr          error

	metrics  *metrics.RPCMetrics
	inFlight chan struct{}
}

// SetMetrics attaches m so subsequent Call invocations report their outcome
// and latency through it. Passing nil (the default) disables reporting.
func (c *Client) SetMetrics(m *metrics.RPCMetrics) {
	c.metrics = m
}

// SetMaxInFlight bounds the number of concurrently outstanding Call
// invocations on this client to n: once n calls are awaiting a response,
// further Call invocations block until one completes or ctx is done.
// Passing n <= 0 (the default) leaves calls unbounded.
func (c *Client) SetMaxInFlight(n int) {
	if n <= 0 {
		c.inFlight = nil
		return
	}
	c.inFlight = make(chan struct{}, n)
}

// NewClient wraps conn and starts its reader goroutine. maxFrameBytes
// bounds incoming response frames; zero disables the bound.
func NewClient(conn net.Conn, maxFrameBytes uint32) *Client {
	c := &Client{
		conn:          conn,
		maxFrameBytes: maxFrameBytes,
		pending:       make(map[uint64]*pendingCall),
	}
	go c.readLoop()
	return c
}

// Call assigns the next correlation id, writes a request frame under the
// connection's write lock, and blocks until the matching response arrives,
// ctx is done, or the connection is lost.
//
// On ctx cancellation the call returns ErrTimeout; the correlation id
// remains in the pending table so a late response is still recognized and
// silently discarded by readLoop rather than mistaken for an unmatched id.
func (c *Client) Call(ctx context.Context, methodID uint32, methodName string, payload []byte) ([]byte, error) {
	start := time.Now()
	resp, err := c.call(ctx, methodID, methodName, payload)
	c.metrics.RecordClientCall(methodName, callStatusLabel(err), time.Since(start).Seconds())
	return resp, err
}

func (c *Client) call(ctx context.Context, methodID uint32, methodName string, payload []byte) ([]byte, error) {
	if c.inFlight != nil {
		select {
		case c.inFlight <- struct{}{}:
			defer func() { <-c.inFlight }()
		case <-ctx.Done():
			return nil, ErrTimeout
		}
	}

	c.mu.Lock()
	if c.closed {
		err := c.closeErr
		c.mu.Unlock()
		if err == nil {
			err = ErrClientClosed
		}
		return nil, err
	}
	correlationID := c.nextCorrelationID
	c.nextCorrelationID++
	call := &pendingCall{resultCh: make(chan callResult, 1)}
	c.pending[correlationID] = call
	c.mu.Unlock()

	ctx, span := telemetry.StartClientCallSpan(ctx, methodName, correlationID)
	defer span.End()

	frame := Frame{
		Kind:          KindRequest,
		MethodID:      methodID,
		CorrelationID: correlationID,
		Payload:       payload,
	}

	pooled := bufpool.Get(frame.EncodedLen())
	buf := frame.EncodeInto(pooled[:0])

	c.writeMu.Lock()
	_, writeErr := c.conn.Write(buf)
	c.writeMu.Unlock()

	bufpool.Put(pooled)

	if writeErr != nil {
		c.mu.Lock()
		delete(c.pending, correlationID)
		c.mu.Unlock()
		err := fmt.Errorf("%w: %v", ErrConnectionLost, writeErr)
		telemetry.RecordError(ctx, err)
		return nil, err
	}

	select {
	case res := <-call.resultCh:
		if res.err != nil {
			telemetry.RecordError(ctx, res.err)
			return nil, res.err
		}
		return statusToResult(res.frame)
	case <-ctx.Done():
		telemetry.RecordError(ctx, ErrTimeout)
		return nil, ErrTimeout
	}
}

// callStatusLabel reduces a Call error to a low-cardinality metric label.
func callStatusLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnknownMethod):
		return "unknown_method"
	case errors.Is(err, ErrOverload):
		return "overload"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrConnectionLost), errors.Is(err, ErrClientClosed):
		return "connection_lost"
	default:
		var he *HandlerError
		if errors.As(err, &he) {
			return "handler_error"
		}
		return "error"
	}
}

func statusToResult(f Frame) ([]byte, error) {
	switch f.Status {
	case StatusOK:
		return f.Payload, nil
	case StatusUnknownMethod:
		return nil, ErrUnknownMethod
	case StatusHandlerError:
		return nil, &HandlerError{Message: string(f.Payload)}
	case StatusOverload:
		return nil, ErrOverload
	default:
		return nil, fmt.Errorf("rpc: unexpected response status %d", f.Status)
	}
}

// readLoop is the client's single reader goroutine. It reads frames
// sequentially off the connection and completes the matching pending call.
// A call that timed out is still in the pending table, so its late response
// is matched and left in the call's buffered channel unread; a correlation
// id with no pending entry is logged and dropped.
func (c *Client) readLoop() {
	ctx := context.Background()
	for {
		frame, err := ReadFrame(c.conn, c.maxFrameBytes)
		if err != nil {
			c.failAllPending(err)
			return
		}
		if frame.Kind != KindResponse {
			logger.WarnCtx(ctx, "client received non-response frame", logger.Kind("request"))
			continue
		}

		c.mu.Lock()
		call, ok := c.pending[frame.CorrelationID]
		if ok {
			delete(c.pending, frame.CorrelationID)
		}
		c.mu.Unlock()

		if !ok {
			logger.DebugCtx(ctx, "dropping response for unmatched correlation id",
				logger.CorrelationID(frame.CorrelationID))
			continue
		}
		call.resultCh <- callResult{frame: frame}
	}
}

// failAllPending completes every currently pending call with err and marks
// the client closed, so subsequent Call invocations fail fast instead of
// hanging on a dead connection: when the connection closes, every pending
// call fails with ErrConnectionLost.
func (c *Client) failAllPending(err error) {
	if !errors.Is(err, io.EOF) {
		err = fmt.Errorf("%w: %v", ErrConnectionLost, err)
	} else {
		err = ErrConnectionLost
	}

	c.mu.Lock()
	c.closed = true
	c.closeErr = err
	pending := c.pending
	c.pending = make(map[uint64]*pendingCall)
	c.mu.Unlock()

	for _, call := range pending {
		call.resultCh <- callResult{err: err}
	}
}

// Close closes the underlying connection. Pending calls are failed by the
// reader goroutine observing the resulting read error.
func (c *Client) Close() error {
	return c.conn.Close()
}
