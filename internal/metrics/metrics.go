// Package metrics holds the Prometheus collectors exported by the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "course_relay"

// Relay counts relay activity. A nil *Relay is a valid no-op.
type Relay struct {
	Connections prometheus.Gauge
	Rooms       prometheus.Gauge
	Frames      *prometheus.CounterVec
	Delivered   prometheus.Counter
	Dropped     prometheus.Counter
}

func NewRelay(reg prometheus.Registerer) *Relay {
	m := &Relay{
		Connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "connections",
			Help:      "Open relay connections.",
		}),
		Rooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "rooms",
			Help:      "Rooms with at least one member.",
		}),
		Frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "frames_total",
			Help:      "Inbound frames by decoded type.",
		}, []string{"type"}),
		Delivered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "delivered_total",
			Help:      "Chat envelopes handed to peers.",
		}),
		Dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relay",
			Name:      "dropped_total",
			Help:      "Outbound envelopes dropped because the peer was not open or its queue was full.",
		}),
	}
	reg.MustRegister(m.Connections, m.Rooms, m.Frames, m.Delivered, m.Dropped)
	return m
}

func (m *Relay) ConnOpened() {
	if m != nil {
		m.Connections.Inc()
	}
}

func (m *Relay) ConnClosed() {
	if m != nil {
		m.Connections.Dec()
	}
}

func (m *Relay) SetRooms(n int) {
	if m != nil {
		m.Rooms.Set(float64(n))
	}
}

func (m *Relay) Frame(kind string) {
	if m != nil {
		m.Frames.WithLabelValues(kind).Inc()
	}
}

func (m *Relay) Deliver(n int) {
	if m != nil && n > 0 {
		m.Delivered.Add(float64(n))
	}
}

func (m *Relay) Drop(n int) {
	if m != nil && n > 0 {
		m.Dropped.Add(float64(n))
	}
}

// HTTP records request latency per route pattern.
type HTTP struct {
	Duration *prometheus.HistogramVec
}

func NewHTTP(reg prometheus.Registerer) *HTTP {
	m := &HTTP{
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.Duration)
	return m
}

func (m *HTTP) Observe(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.Duration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// NewRegistry returns a registry preloaded with the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
