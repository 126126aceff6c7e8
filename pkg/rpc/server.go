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

// ServerConfig carries the configuration the RPC server receives, not owns:
// the per-connection guards that bound resource use against a misbehaving
// or overloaded peer. It holds no listen address; Serve takes a listener.
type ServerConfig struct {
	MaxFrameBytes      uint32
	MaxInFlightPerConn int
	HandlerTimeout     time.Duration
}

// Server accepts stream connections and dispatches request frames to a
// ServiceRegistry. Each connection is handled by its own goroutine that
// owns the read half; each request within a connection is handled
// concurrently so a slow handler does not head-of-line block the rest of
// the connection's in-flight requests.
//
// Shutdown follows the sync.WaitGroup + shutdownOnce pattern used
// elsewhere in this codebase's connection-oriented servers: stop accepting,
// cancel in-flight handler contexts, then wait for outstanding work bounded
// by the caller's context.
type Server struct {
	registry *ServiceRegistry
	cfg      ServerConfig
	metrics  *metrics.RPCMetrics

	mu           sync.Mutex
	ln           net.Listener
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	shutdownOnce sync.Once
	shutdown     chan struct{}
}

// NewServer returns a Server dispatching to registry under cfg.
func NewServer(registry *ServiceRegistry, cfg ServerConfig) *Server {
	if cfg.MaxInFlightPerConn <= 0 {
		cfg.MaxInFlightPerConn = 1024
	}
	return &Server{registry: registry, cfg: cfg, shutdown: make(chan struct{})}
}

// SetMetrics attaches m so subsequent dispatches report their outcome and
// latency through it. Passing nil (the default) disables reporting.
func (s *Server) SetMetrics(m *metrics.RPCMetrics) {
	s.metrics = m
}

// Serve accepts connections from ln until ctx is cancelled, Shutdown is
// called, or Accept returns a non-transient error. Each accepted connection
// is handled in its own goroutine; Serve waits for them to finish before
// returning.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.ln = ln
	s.cancel = cancel
	s.mu.Unlock()

	defer s.wg.Wait()

	go func() {
		select {
		case <-ctx.Done():
		case <-s.shutdown:
		}
		_ = ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-s.shutdown:
				return nil
			default:
			}
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("rpc: accept: %w", err)
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(ctx, conn)
		}()
	}
}

// Shutdown stops accepting new connections and cancels every in-flight
// handler's context, then waits for in-flight handlers and their responses
// to finish. It returns ctx's error if that wait is not done before ctx is
// itself done. Calling Shutdown more than once is safe; only the first call
// has effect.
func (s *Server) Shutdown(ctx context.Context) error {
	s.shutdownOnce.Do(func() {
		close(s.shutdown)

		s.mu.Lock()
		if s.ln != nil {
			_ = s.ln.Close()
		}
		if s.cancel != nil {
			s.cancel()
		}
		s.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// handleConn owns conn's read half for its lifetime: it reads frames
// sequentially and dispatches each to its own goroutine, so handler latency
// on one request never blocks reading the next.
func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer func() { _ = conn.Close() }()

	remoteAddr := conn.RemoteAddr().String()
	lc := logger.NewLogContext(remoteAddr)
	connCtx := logger.WithContext(ctx, lc)
	connCtx, cancel := context.WithCancel(connCtx)

	// Once connCtx is cancelled (Shutdown, Serve's ctx, or this function
	// returning), expire the read deadline so a blocked ReadFrame returns;
	// writes stay open so in-flight handlers can still send responses.
	go func() {
		<-connCtx.Done()
		_ = conn.SetReadDeadline(time.Now())
	}()

	logger.InfoCtx(connCtx, "connection accepted")
	defer logger.InfoCtx(connCtx, "connection closed")

	var writeMu sync.Mutex
	inFlight := make(chan struct{}, s.cfg.MaxInFlightPerConn)

	var wg sync.WaitGroup
	// cancel must run before wg.Wait(): in-flight handlers watching
	// connCtx.Done() need the cancellation signal before this goroutine
	// blocks waiting for them to finish.
	defer wg.Wait()
	defer cancel()

	for {
		frame, err := ReadFrame(conn, s.cfg.MaxFrameBytes)
		if err != nil {
			if !errors.Is(err, io.EOF) && connCtx.Err() == nil {
				logger.WarnCtx(connCtx, "frame read failed", logger.Err(err))
				s.metrics.RecordFrameError("read")
			}
			return
		}
		if frame.Kind != KindRequest {
			logger.WarnCtx(connCtx, "dropping non-request frame from client", logger.Kind("response"))
			continue
		}

		select {
		case inFlight <- struct{}{}:
		default:
			s.metrics.RecordServerDispatch("unknown", "overload", 0)
			s.writeResponse(&writeMu, conn, frame.CorrelationID, StatusOverload, nil)
			continue
		}

		wg.Add(1)
		go func(f Frame) {
			defer wg.Done()
			defer func() { <-inFlight }()
			s.dispatch(connCtx, &writeMu, conn, f)
		}(frame)
	}
}

// dispatch routes one decoded request frame to its registered handler and
// writes the response frame, applying HandlerTimeout if configured.
func (s *Server) dispatch(ctx context.Context, writeMu *sync.Mutex, conn net.Conn, f Frame) {
	method, ok := s.registry.Lookup(f.MethodID)
	if !ok {
		logger.WarnCtx(ctx, "unknown method", logger.MethodID(f.MethodID))
		s.metrics.RecordServerDispatch("unknown", "unknown_method", 0)
		s.writeResponse(writeMu, conn, f.CorrelationID, StatusUnknownMethod, nil)
		return
	}

	if lc := logger.FromContext(ctx); lc != nil {
		ctx = logger.WithContext(ctx, lc.WithMethod(method.Name).WithCorrelationID(f.CorrelationID))
	}

	handlerCtx, span := telemetry.StartServerDispatchSpan(ctx, method.Name, f.CorrelationID)
	defer span.End()

	if s.cfg.HandlerTimeout > 0 {
		var cancel context.CancelFunc
		handlerCtx, cancel = context.WithTimeout(handlerCtx, s.cfg.HandlerTimeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := method.Handler(handlerCtx, f.Payload)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		telemetry.RecordError(handlerCtx, err)
		logger.WarnCtx(handlerCtx, "handler returned error", logger.Method(method.Name), logger.Err(err))
		s.metrics.RecordServerDispatch(method.Name, "handler_error", elapsed)
		s.writeResponse(writeMu, conn, f.CorrelationID, StatusHandlerError, []byte(err.Error()))
		return
	}

	s.metrics.RecordServerDispatch(method.Name, "ok", elapsed)
	s.writeResponse(writeMu, conn, f.CorrelationID, StatusOK, resp)
}

// writeResponse serializes and writes a response frame under the
// connection's write lock, so one frame's bytes are never interleaved with
// another's. The encode buffer comes from bufpool: it is only ever read by
// conn.Write before being returned, so pooling it costs nothing in
// correctness.
func (s *Server) writeResponse(writeMu *sync.Mutex, conn net.Conn, correlationID uint64, status uint16, payload []byte) {
	frame := Frame{
		Kind:          KindResponse,
		CorrelationID: correlationID,
		Status:        status,
		Payload:       payload,
	}

	pooled := bufpool.Get(frame.EncodedLen())
	buf := frame.EncodeInto(pooled[:0])
	defer bufpool.Put(pooled)

	writeMu.Lock()
	defer writeMu.Unlock()
	_, _ = conn.Write(buf)
}
