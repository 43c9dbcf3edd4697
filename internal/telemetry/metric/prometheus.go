package metric

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "clikit"

// Command results.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec
	UpdateChecks    *prometheus.CounterVec
}

// NewRegistry creates a registry with all metrics registered.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "commands_total",
			Help:      "Commands executed, by command and result.",
		}, []string{"command", "result"}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "command_duration_seconds",
			Help:      "Command execution time.",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"command"}),
		UpdateChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "update_checks_total",
			Help:      "Update checks, by result (ok, error, cached).",
		}, []string{"result"}),
	}
	r.reg.MustRegister(r.CommandsTotal, r.CommandDuration, r.UpdateChecks)
	return r
}

// ObserveCommand records one command run.
func (r *Registry) ObserveCommand(command string, elapsed time.Duration, err error) {
	result := ResultSuccess
	if err != nil {
		result = ResultError
	}
	r.CommandsTotal.WithLabelValues(command, result).Inc()
	r.CommandDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}

// ObserveUpdateCheck records one update check.
func (r *Registry) ObserveUpdateCheck(result string) {
	r.UpdateChecks.WithLabelValues(result).Inc()
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// WriteTextfile writes all metrics to path atomically.
func (r *Registry) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
