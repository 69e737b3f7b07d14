// Package metrics exports Watcher activity as Prometheus metrics.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/fantao963/flshm"
)

// Metrics is a flshm.Observer backed by Prometheus collectors.
type Metrics struct {
	MessagesTotal *prometheus.CounterVec
	ReadErrors    *prometheus.CounterVec
	MessageBytes  prometheus.Histogram
	LockWait      prometheus.Histogram
	Connections   prometheus.Gauge
	LastTick      prometheus.Gauge
}

var _ flshm.Observer = (*Metrics)(nil)

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		MessagesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flshm_messages_total",
				Help: "Messages read from the shared segment",
			},
			[]string{"version", "amf"},
		),
		ReadErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "flshm_read_errors_total",
				Help: "Pending messages that could not be read",
			},
			[]string{"reason"},
		),
		MessageBytes: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "flshm_message_data_bytes",
				Help:    "Size of the AMF payload of each message",
				Buckets: prometheus.ExponentialBuckets(16, 4, 7),
			},
		),
		LockWait: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "flshm_lock_wait_seconds",
				Help:    "Time spent waiting for the segment lock",
				Buckets: []float64{.00001, .0001, .001, .01, .1, 1},
			},
		),
		Connections: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "flshm_connections",
				Help: "Registered LocalConnection listeners",
			},
		),
		LastTick: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "flshm_last_tick",
				Help: "Tick of the last message read",
			},
		),
	}
}

func (m *Metrics) LockAcquired(wait time.Duration) {
	m.LockWait.Observe(wait.Seconds())
}

func (m *Metrics) MessageReceived(msg *flshm.Message) {
	m.MessagesTotal.WithLabelValues(msg.Version.String(), msg.AMFVersion.String()).Inc()
	m.MessageBytes.Observe(float64(len(msg.Data)))
	m.LastTick.Set(float64(msg.Tick))
}

func (m *Metrics) ReadFailed(err error) {
	m.ReadErrors.WithLabelValues(reason(err)).Inc()
}

func (m *Metrics) ConnectionsSeen(n int) {
	m.Connections.Set(float64(n))
}

func reason(err error) string {
	switch {
	case errors.Is(err, flshm.ErrMalformedMessage):
		return "malformed"
	case errors.Is(err, flshm.ErrClosed):
		return "closed"
	default:
		return "other"
	}
}
