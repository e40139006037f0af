package provisioning

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Command kinds, used as the "kind" label and in log fields.
const (
	KindPrimary      = "primary"
	KindAuxiliary    = "auxiliary"
	KindPrerequisite = "prerequisite"
)

// Metrics counts what a run did. It uses its own registry so a run can be
// written out as a node_exporter textfile.
type Metrics struct {
	registry     *prometheus.Registry
	commands     *prometheus.CounterVec
	declarations *prometheus.CounterVec
}

// NewMetrics creates and registers the run counters.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		commands: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "vmprov",
				Name:      "commands_total",
				Help:      "Provider CLI commands run, by provider, kind and result",
			},
			[]string{"provider", "kind", "result"},
		),
		declarations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "vmprov",
				Name:      "declarations_total",
				Help:      "Declarations that reached the creation command",
			},
			[]string{"provider"},
		),
	}
	m.registry.MustRegister(m.commands, m.declarations)
	return m
}

// RecordCommand counts a command. A nil receiver is a no-op.
func (m *Metrics) RecordCommand(provider, kind string, ok bool) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.commands.WithLabelValues(provider, kind, result).Inc()
}

// RecordDeclaration counts a declaration that reached creation.
func (m *Metrics) RecordDeclaration(provider string) {
	if m == nil {
		return
	}
	m.declarations.WithLabelValues(provider).Inc()
}

// WriteTextfile writes the counters in the Prometheus text format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
