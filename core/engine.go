package core

import (
	"context"
	"time"

	"github.com/heliosworks/orrery-simulator/internal/logging"
	"github.com/heliosworks/orrery-simulator/kb"
	"github.com/heliosworks/orrery-simulator/model"
)

// MetricsRecorder receives per-tick simulation measurements. The
// observability package provides the Prometheus-backed implementation;
// tests can substitute their own.
type MetricsRecorder interface {
	ObservePropagation(d time.Duration, bodiesMoved int)
	SetSystemStates(active, background, dormant int)
}

// SimulationEngine drives the per-tick phases in order: fidelity
// evaluation, then orbit propagation for systems that are due, then
// listeners. All shared state (fidelity states, floating origin) is written
// in its own phase and read-only in the others.
type SimulationEngine struct {
	store      *kb.KnowledgeBase
	propagator *Propagator
	scheduler  *FidelityScheduler
	origin     *FloatingOrigin
	log        logging.Logger
	metrics    MetricsRecorder

	epoch         time.Time
	frame         uint64
	focusSystemID string

	tickListeners []func(frame uint64, simTime time.Time)
}

// NewSimulationEngine wires the engine over a knowledge base. epoch is the
// simulated instant at which every orbit sits at its mean anomaly M₀.
func NewSimulationEngine(store *kb.KnowledgeBase, cfg model.MultiSystemConfig, epoch time.Time, log logging.Logger) *SimulationEngine {
	if log == nil {
		log = logging.Noop()
	}
	return &SimulationEngine{
		store:      store,
		propagator: NewPropagator(store),
		scheduler:  NewFidelityScheduler(cfg, store, log),
		origin:     NewFloatingOrigin(model.Vec3{}),
		log:        log,
		epoch:      epoch,
	}
}

// SetMetrics attaches an optional metrics recorder.
func (se *SimulationEngine) SetMetrics(m MetricsRecorder) { se.metrics = m }

// Propagator exposes the engine's propagator for single-body queries.
func (se *SimulationEngine) Propagator() *Propagator { return se.propagator }

// Scheduler exposes the fidelity scheduler (state queries, cadence gate).
func (se *SimulationEngine) Scheduler() *FidelityScheduler { return se.scheduler }

// Origin exposes the shared floating origin for the render bridge.
func (se *SimulationEngine) Origin() *FloatingOrigin { return se.origin }

// RegisterTickListener adds a callback invoked at the end of every tick.
func (se *SimulationEngine) RegisterTickListener(fn func(frame uint64, simTime time.Time)) {
	se.tickListeners = append(se.tickListeners, fn)
}

// SetFocusSystem declares which system the player/camera is focused on.
// The render frame is re-based to that system's local origin; calling this
// mid-tick is not supported (rebase must land on a tick boundary).
func (se *SimulationEngine) SetFocusSystem(ctx context.Context, systemID string) {
	se.focusSystemID = systemID
	se.origin.Rebase(model.Vec3{})
	se.log.Info(ctx, "focus system changed", logging.String("system", systemID))
}

// FocusSystem returns the current focus system ID.
func (se *SimulationEngine) FocusSystem() string { return se.focusSystemID }

// Tick advances the simulation to the given simulated time. Elapsed
// simulated seconds since the epoch is the sole time input to propagation;
// wall-clock time never reaches the position formulas.
func (se *SimulationEngine) Tick(ctx context.Context, simTime time.Time) {
	elapsedSeconds := simTime.Sub(se.epoch).Seconds()

	// Phase 1: fidelity states (single writer; read-only afterwards).
	focus := model.Vec3{}
	if sys := se.store.GetSystem(se.focusSystemID); sys != nil {
		focus = sys.GalacticPosition
	}
	se.scheduler.Evaluate(ctx, focus, se.focusSystemID)

	// Phase 2: propagation for systems that are due this frame.
	start := time.Now()
	moved := 0
	for _, sys := range se.store.ListSystems() {
		if !se.scheduler.ShouldPropagate(sys.State, se.frame) {
			continue
		}
		moved += se.propagator.PropagateSystem(sys.ID, elapsedSeconds)
	}

	if se.metrics != nil {
		se.metrics.ObservePropagation(time.Since(start), moved)
		se.metrics.SetSystemStates(se.scheduler.StateCounts())
	}

	for _, fn := range se.tickListeners {
		fn(se.frame, simTime)
	}
	se.frame++
}

// Frame returns the number of completed ticks.
func (se *SimulationEngine) Frame() uint64 { return se.frame }
