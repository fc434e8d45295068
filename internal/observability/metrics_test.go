package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSimulationCollectorObservePropagation(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewSimulationCollector(reg)
	if err != nil {
		t.Fatalf("NewSimulationCollector: %v", err)
	}

	c.ObservePropagation(2*time.Millisecond, 7)
	c.ObservePropagation(1*time.Millisecond, 3)

	if got := testutil.ToFloat64(c.PropagationsTotal); got != 2 {
		t.Fatalf("propagation passes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.BodiesMoved); got != 10 {
		t.Fatalf("bodies moved = %v, want 10", got)
	}
}

func TestSimulationCollectorSystemStates(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewSimulationCollector(reg)
	if err != nil {
		t.Fatalf("NewSimulationCollector: %v", err)
	}

	c.SetSystemStates(1, 4, 12)

	tests := []struct {
		state string
		want  float64
	}{
		{"active", 1},
		{"background", 4},
		{"dormant", 12},
	}
	for _, tt := range tests {
		got := testutil.ToFloat64(c.SystemsByState.WithLabelValues(tt.state))
		if got != tt.want {
			t.Fatalf("systems in %s = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestSimulationCollectorTransitions(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewSimulationCollector(reg)
	if err != nil {
		t.Fatalf("NewSimulationCollector: %v", err)
	}

	c.RecordTransition("dormant", "background")
	c.RecordTransition("dormant", "background")
	c.RecordTransition("background", "active")

	got := testutil.ToFloat64(c.FidelityTransitions.WithLabelValues("dormant", "background"))
	if got != 2 {
		t.Fatalf("dormant->background = %v, want 2", got)
	}
}

func TestCollectorsTolerateDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewSimulationCollector(reg); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := NewSimulationCollector(reg); err != nil {
		t.Fatalf("second registration: %v", err)
	}
	if _, err := NewGenerationCollector(reg); err != nil {
		t.Fatalf("generation first: %v", err)
	}
	if _, err := NewGenerationCollector(reg); err != nil {
		t.Fatalf("generation second: %v", err)
	}
}

func TestGenerationCollectorCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := NewGenerationCollector(reg)
	if err != nil {
		t.Fatalf("NewGenerationCollector: %v", err)
	}

	c.ArchitecturesTotal.Inc()
	c.PlanetsTotal.WithLabelValues("rocky").Add(3)
	c.PlanetsTotal.WithLabelValues("gas_giant").Inc()

	if got := testutil.ToFloat64(c.ArchitecturesTotal); got != 1 {
		t.Fatalf("architectures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.PlanetsTotal.WithLabelValues("rocky")); got != 3 {
		t.Fatalf("rocky planets = %v, want 3", got)
	}
}
