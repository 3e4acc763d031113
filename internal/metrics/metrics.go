package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the coordinator's Prometheus collectors. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	Connections         prometheus.Gauge
	Participants        prometheus.Gauge
	BlockedAddresses    prometheus.Gauge
	Events              *prometheus.CounterVec
	RejectedConnections prometheus.Counter
	DroppedFrames       prometheus.Counter

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in
// tests to avoid clashes on the default registry.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		Connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "webinar",
			Name:      "connections",
			Help:      "Open signaling connections.",
		}),
		Participants: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "webinar",
			Name:      "participants",
			Help:      "Participants currently in the room.",
		}),
		BlockedAddresses: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "webinar",
			Name:      "blocked_addresses",
			Help:      "Origin addresses on the block list.",
		}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "webinar",
			Name:      "events_total",
			Help:      "Inbound events handled, by type.",
		}, []string{"type"}),
		RejectedConnections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "webinar",
			Name:      "rejected_connections_total",
			Help:      "Connections refused because their origin is blocked.",
		}),
		DroppedFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "webinar",
			Name:      "dropped_frames_total",
			Help:      "Outbound frames that did not fit a connection's send queue.",
		}),
		gatherer: reg,
	}
	reg.MustRegister(
		m.Connections,
		m.Participants,
		m.BlockedAddresses,
		m.Events,
		m.RejectedConnections,
		m.DroppedFrames,
	)
	return m
}

// Handler exposes the registry at /metrics
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) Event(t string) {
	if m == nil {
		return
	}
	m.Events.WithLabelValues(t).Inc()
}

func (m *Metrics) Rejected() {
	if m == nil {
		return
	}
	m.RejectedConnections.Inc()
}

func (m *Metrics) Dropped(n int) {
	if m == nil || n == 0 {
		return
	}
	m.DroppedFrames.Add(float64(n))
}

// Occupancy sets the three gauges in one call.
func (m *Metrics) Occupancy(conns, participants, blocked int) {
	if m == nil {
		return
	}
	m.Connections.Set(float64(conns))
	m.Participants.Set(float64(participants))
	m.BlockedAddresses.Set(float64(blocked))
}
