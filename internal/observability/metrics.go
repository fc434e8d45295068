package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SimulationCollector bundles Prometheus metrics for the orbital simulation
// core: propagation throughput, per-state system counts, and fidelity
// transitions.
type SimulationCollector struct {
	gatherer prometheus.Gatherer

	PropagationsTotal   prometheus.Counter
	PropagationDuration prometheus.Histogram
	BodiesMoved         prometheus.Counter
	SystemsByState      *prometheus.GaugeVec
	FidelityTransitions *prometheus.CounterVec
}

// NewSimulationCollector registers simulation metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewSimulationCollector(reg prometheus.Registerer) (*SimulationCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	propagations, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_propagation_passes_total",
		Help: "Total number of per-tick orbit propagation passes.",
	}), "sim_propagation_passes_total")
	if err != nil {
		return nil, err
	}

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "sim_propagation_duration_seconds",
		Help:    "Duration of the orbit propagation phase of a tick.",
		Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
	})
	duration, err = registerHistogram(reg, duration, "sim_propagation_duration_seconds")
	if err != nil {
		return nil, err
	}

	bodiesMoved, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sim_bodies_propagated_total",
		Help: "Cumulative number of body positions recomputed.",
	}), "sim_bodies_propagated_total")
	if err != nil {
		return nil, err
	}

	systemsByState := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sim_systems",
		Help: "Current number of star systems per fidelity state.",
	}, []string{"state"})
	systemsByState, err = registerGaugeVec(reg, systemsByState, "sim_systems")
	if err != nil {
		return nil, err
	}

	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sim_fidelity_transitions_total",
		Help: "Total number of fidelity state transitions, labeled by old and new state.",
	}, []string{"from", "to"})
	transitions, err = registerCounterVec(reg, transitions, "sim_fidelity_transitions_total")
	if err != nil {
		return nil, err
	}

	return &SimulationCollector{
		gatherer:            gatherer,
		PropagationsTotal:   propagations,
		PropagationDuration: duration,
		BodiesMoved:         bodiesMoved,
		SystemsByState:      systemsByState,
		FidelityTransitions: transitions,
	}, nil
}

// ObservePropagation satisfies core.MetricsRecorder: it records one
// propagation pass and how many bodies it moved.
func (c *SimulationCollector) ObservePropagation(d time.Duration, bodiesMoved int) {
	if c == nil {
		return
	}
	if c.PropagationsTotal != nil {
		c.PropagationsTotal.Inc()
	}
	if c.PropagationDuration != nil {
		c.PropagationDuration.Observe(d.Seconds())
	}
	if c.BodiesMoved != nil {
		c.BodiesMoved.Add(float64(bodiesMoved))
	}
}

// SetSystemStates updates the per-state system gauges.
func (c *SimulationCollector) SetSystemStates(active, background, dormant int) {
	if c == nil || c.SystemsByState == nil {
		return
	}
	c.SystemsByState.WithLabelValues("active").Set(float64(active))
	c.SystemsByState.WithLabelValues("background").Set(float64(background))
	c.SystemsByState.WithLabelValues("dormant").Set(float64(dormant))
}

// RecordTransition counts one fidelity state change.
func (c *SimulationCollector) RecordTransition(from, to string) {
	if c == nil || c.FidelityTransitions == nil {
		return
	}
	c.FidelityTransitions.WithLabelValues(from, to).Inc()
}

// GenerationCollector tracks procedural system generation.
type GenerationCollector struct {
	ArchitecturesTotal prometheus.Counter
	PlanetsTotal       *prometheus.CounterVec
	GenerationDuration prometheus.Histogram
}

// NewGenerationCollector registers generation metrics.
func NewGenerationCollector(reg prometheus.Registerer) (*GenerationCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	architectures, err := registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "procgen_architectures_total",
		Help: "Total number of procedurally generated system architectures.",
	}), "procgen_architectures_total")
	if err != nil {
		return nil, err
	}

	planets := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "procgen_planets_total",
		Help: "Total number of procedurally generated planets, labeled by type.",
	}, []string{"type"})
	planets, err = registerCounterVec(reg, planets, "procgen_planets_total")
	if err != nil {
		return nil, err
	}

	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "procgen_generation_duration_seconds",
		Help:    "Duration of one architecture generation.",
		Buckets: []float64{0.00005, 0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01},
	})
	duration, err = registerHistogram(reg, duration, "procgen_generation_duration_seconds")
	if err != nil {
		return nil, err
	}

	return &GenerationCollector{
		ArchitecturesTotal: architectures,
		PlanetsTotal:       planets,
		GenerationDuration: duration,
	}, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *SimulationCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}
