package observability

import (
	"github.com/prometheus/client_golang/prometheus"

	"remitpool/core/events"
)

// MetricsEmitter is an events.Emitter that counts ledger events by type. It
// can be fanned in next to other emitters via events.MultiEmitter.
type MetricsEmitter struct {
	emitted *prometheus.CounterVec
}

// NewMetricsEmitter registers the event counter with the provided registerer
// and returns the emitter. Passing nil uses the default registerer.
func NewMetricsEmitter(reg prometheus.Registerer) *MetricsEmitter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	emitted := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "remitpool",
		Name:      "events_emitted_total",
		Help:      "Ledger events emitted, labelled by event type.",
	}, []string{"type"})
	reg.MustRegister(emitted)
	return &MetricsEmitter{emitted: emitted}
}

// Emit implements events.Emitter.
func (m *MetricsEmitter) Emit(evt events.Event) {
	if m == nil || evt == nil {
		return
	}
	m.emitted.WithLabelValues(evt.EventType()).Inc()
}
