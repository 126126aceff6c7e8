package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RPCMetrics collects call-volume, latency, frame-error, and mask-pool
// occupancy metrics for the RPC runtime. A nil *RPCMetrics is valid: every
// method is a no-op, so the rpc package can hold one unconditionally and
// only pay for what InitRegistry + NewRPCMetrics actually enable.
type RPCMetrics struct {
	clientCalls       *prometheus.CounterVec
	clientDuration    *prometheus.HistogramVec
	serverDispatches  *prometheus.CounterVec
	serverDuration    *prometheus.HistogramVec
	frameErrors       *prometheus.CounterVec
	maskPoolOccupancy *prometheus.GaugeVec
}

// NewRPCMetrics registers the RPC collectors against the process-wide
// registry. Returns nil if metrics are not enabled.
func NewRPCMetrics() *RPCMetrics {
	if !IsEnabled() {
		return nil
	}
	reg := GetRegistry()

	return &RPCMetrics{
		clientCalls: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "bitrpc_client_calls_total",
				Help: "Total client Call invocations by method and status.",
			},
			[]string{"method", "status"},
		),
		clientDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bitrpc_client_call_duration_seconds",
				Help:    "Client Call round-trip latency by method.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		serverDispatches: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "bitrpc_server_dispatches_total",
				Help: "Total server-side request dispatches by method and status.",
			},
			[]string{"method", "status"},
		),
		serverDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bitrpc_server_dispatch_duration_seconds",
				Help:    "Server-side handler latency by method.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		frameErrors: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "bitrpc_frame_errors_total",
				Help: "Total fatal frame/codec errors by kind.",
			},
			[]string{"kind"},
		),
		maskPoolOccupancy: promauto.With(reg).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "bitrpc_mask_pool_occupancy",
				Help: "Free bitmask.Mask instances held by the pool, by word count.",
			},
			[]string{"words"},
		),
	}
}

// RecordClientCall records one completed client Call: its outcome status
// and round-trip duration in seconds.
func (m *RPCMetrics) RecordClientCall(method, status string, seconds float64) {
	if m == nil {
		return
	}
	m.clientCalls.WithLabelValues(method, status).Inc()
	m.clientDuration.WithLabelValues(method).Observe(seconds)
}

// RecordServerDispatch records one completed server-side dispatch: its
// outcome status and handler duration in seconds.
func (m *RPCMetrics) RecordServerDispatch(method, status string, seconds float64) {
	if m == nil {
		return
	}
	m.serverDispatches.WithLabelValues(method, status).Inc()
	m.serverDuration.WithLabelValues(method).Observe(seconds)
}

// RecordFrameError increments the fatal frame/codec error counter for kind.
func (m *RPCMetrics) RecordFrameError(kind string) {
	if m == nil {
		return
	}
	m.frameErrors.WithLabelValues(kind).Inc()
}

// SetMaskPoolOccupancy reports the number of free masks a bitmask.Pool holds
// for a given word count.
func (m *RPCMetrics) SetMaskPoolOccupancy(words string, n float64) {
	if m == nil {
		return
	}
	m.maskPoolOccupancy.WithLabelValues(words).Set(n)
}
