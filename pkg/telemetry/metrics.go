package telemetry

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts pipeline runs and steps. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	Runs         *prometheus.CounterVec
	Steps        *prometheus.CounterVec
	StepDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		Runs: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inferctl_pipeline_runs_total",
				Help: "Pipeline runs by pipeline name and outcome",
			},
			[]string{"pipeline", "outcome"},
		),
		Steps: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "inferctl_command_steps_total",
				Help: "Executed command steps by program and exit code",
			},
			[]string{"program", "exit_code"},
		),
		StepDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "inferctl_command_step_duration_seconds",
				Help:    "Command step duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
			},
			[]string{"program"},
		),
	}
}

func (m *Metrics) ObserveRun(pipeline string, outcome string) {
	if m == nil {
		return
	}
	if pipeline == "" {
		pipeline = "silent"
	}
	m.Runs.WithLabelValues(pipeline, outcome).Inc()
}

func (m *Metrics) ObserveStep(program string, exitCode int, d time.Duration) {
	if m == nil {
		return
	}
	m.Steps.WithLabelValues(program, strconv.Itoa(exitCode)).Inc()
	m.StepDuration.WithLabelValues(program).Observe(d.Seconds())
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return errors.Wrap(err, "write metrics textfile")
	}
	return nil
}
