// Package metrics exposes Prometheus collectors for message routing,
// completion calls and admin commands.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "aichannel"

// Metrics holds the bot's collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	messagesRouted     *prometheus.CounterVec
	completions        *prometheus.CounterVec
	completionDuration prometheus.Histogram
	adminCommands      *prometheus.CounterVec
}

// New constructs and registers the collectors with reg. Collectors that are
// already registered (e.g. by a previous instance) are reused.
func New(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		messagesRouted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_routed_total",
			Help:      "Inbound messages by routing decision.",
		}, []string{"decision"}),
		completions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completions_total",
			Help:      "Completion API calls by outcome.",
		}, []string{"outcome"}),
		completionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_duration_seconds",
			Help:      "Latency of completion API calls.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
		}),
		adminCommands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "admin_commands_total",
			Help:      "Admin slash commands by command and outcome.",
		}, []string{"command", "outcome"}),
	}

	var err error
	if m.messagesRouted, err = registerCounterVec(reg, m.messagesRouted); err != nil {
		return nil, err
	}
	if m.completions, err = registerCounterVec(reg, m.completions); err != nil {
		return nil, err
	}
	if m.adminCommands, err = registerCounterVec(reg, m.adminCommands); err != nil {
		return nil, err
	}
	if err := reg.Register(m.completionDuration); err != nil {
		already, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, err
		}
		m.completionDuration = already.ExistingCollector.(prometheus.Histogram)
	}

	return m, nil
}

func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return already.ExistingCollector.(*prometheus.CounterVec), nil
		}
		return nil, err
	}
	return c, nil
}

// ObserveRoute counts a routing decision.
func (m *Metrics) ObserveRoute(decision string) {
	if m == nil {
		return
	}
	m.messagesRouted.WithLabelValues(decision).Inc()
}

// ObserveCompletion counts a completion call and records its latency.
func (m *Metrics) ObserveCompletion(outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.completions.WithLabelValues(outcome).Inc()
	m.completionDuration.Observe(took.Seconds())
}

// ObserveAdminCommand counts an admin command outcome.
func (m *Metrics) ObserveAdminCommand(command, outcome string) {
	if m == nil {
		return
	}
	m.adminCommands.WithLabelValues(command, outcome).Inc()
}
