package simulate

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the simulator metrics. A nil *Metrics records nothing.
type Metrics struct {
	Steps        prometheus.Counter
	WiringErrors *prometheus.CounterVec
	StepDuration prometheus.Histogram
}

// NewMetrics creates the simulator metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "systems",
			Subsystem: "simulator",
			Name:      "steps_total",
			Help:      "Total number of simulation steps",
		}),
		WiringErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "systems",
			Subsystem: "simulator",
			Name:      "wiring_errors_total",
			Help:      "Observations that could not be propagated to a connected signal vector",
		}, []string{"sink"}),
		StepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "systems",
			Subsystem: "simulator",
			Name:      "step_duration_seconds",
			Help:      "Duration of a simulation step",
			Buckets:   []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01, 0.1},
		}),
	}
	for _, c := range []prometheus.Collector{m.Steps, m.WiringErrors, m.StepDuration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observe(d time.Duration) {
	if m == nil {
		return
	}
	m.Steps.Inc()
	m.StepDuration.Observe(d.Seconds())
}

func (m *Metrics) wiringError(sink string) {
	if m == nil {
		return
	}
	m.WiringErrors.WithLabelValues(sink).Inc()
}
