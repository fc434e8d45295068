package core

import (
	"context"
	"sort"

	"github.com/heliosworks/orrery-simulator/internal/logging"
	"github.com/heliosworks/orrery-simulator/kb"
	"github.com/heliosworks/orrery-simulator/model"
)

// FidelityScheduler assigns Active/Background/Dormant simulation states to
// star systems from their distance to the current focus, and gates how
// often non-active systems are propagated.
//
// States are re-evaluated once per tick by the tick driver; everything else
// in that tick treats them as read-only.
type FidelityScheduler struct {
	cfg   model.MultiSystemConfig
	store *kb.KnowledgeBase
	log   logging.Logger
}

// NewFidelityScheduler constructs a scheduler over the given KB.
func NewFidelityScheduler(cfg model.MultiSystemConfig, store *kb.KnowledgeBase, log logging.Logger) *FidelityScheduler {
	if log == nil {
		log = logging.Noop()
	}
	return &FidelityScheduler{cfg: cfg, store: store, log: log}
}

// Evaluate re-derives every system's state from its distance to the focus
// position (light-years). The focus system itself is always Active; the
// remaining systems are ranked by distance, with the Background tier capped
// at MaxBackgroundSystems. Promotion into the Background tier requires
// coming within BackgroundDistanceLY, but demotion to Dormant requires
// crossing DormantDistanceLY, so systems drifting near one threshold do not
// flap between tiers. State changes are applied through the KB, which
// reports each transition to subscribers.
func (fs *FidelityScheduler) Evaluate(ctx context.Context, focus model.Vec3, focusSystemID string) {
	if !fs.cfg.AutoTransition {
		return
	}

	systems := fs.store.ListSystems()

	type candidate struct {
		sys      *model.StarSystem
		distance float64
	}
	var background []candidate

	for _, sys := range systems {
		if sys.ID == focusSystemID {
			fs.transition(ctx, sys, model.StateActive, 0)
			continue
		}

		distance := sys.GalacticPosition.DistanceTo(focus)
		switch {
		case distance <= fs.cfg.ActivationDistanceLY && fs.cfg.MaxActiveSystems > 1:
			// Co-active systems are allowed only when configured; the
			// reference configuration keeps a single active system.
			fs.transition(ctx, sys, model.StateActive, distance)
		case distance <= fs.cfg.BackgroundDistanceLY:
			background = append(background, candidate{sys: sys, distance: distance})
		case distance <= fs.cfg.DormantDistanceLY && sys.State != model.StateDormant:
			// Hysteresis band: already-running systems keep competing for
			// Background slots until they cross the dormant threshold.
			background = append(background, candidate{sys: sys, distance: distance})
		default:
			fs.transition(ctx, sys, model.StateDormant, distance)
		}
	}

	// Nearest systems win the capped Background slots; overflow goes
	// Dormant.
	sort.Slice(background, func(i, j int) bool { return background[i].distance < background[j].distance })
	for i, c := range background {
		if i < fs.cfg.MaxBackgroundSystems {
			fs.transition(ctx, c.sys, model.StateBackground, c.distance)
		} else {
			fs.transition(ctx, c.sys, model.StateDormant, c.distance)
		}
	}
}

func (fs *FidelityScheduler) transition(ctx context.Context, sys *model.StarSystem, state model.SimulationState, distance float64) {
	if sys.State == state {
		return
	}
	old := sys.State
	if err := fs.store.SetSystemState(sys.ID, state); err != nil {
		fs.log.Error(ctx, "fidelity transition failed",
			logging.String("system", sys.ID),
			logging.Any("error", err),
		)
		return
	}
	fs.log.Info(ctx, "system fidelity transition",
		logging.String("system", sys.Name),
		logging.String("from", old.String()),
		logging.String("to", state.String()),
		logging.Float64("distance_ly", distance),
	)
}

// ShouldPropagate reports whether a system in the given state is due for
// propagation on this frame. Active systems run every frame; background
// systems run every BackgroundUpdateInterval frames; dormant systems are
// frozen until reactivated, at which point the stateless propagator derives
// their positions purely from elapsed time.
func (fs *FidelityScheduler) ShouldPropagate(state model.SimulationState, frame uint64) bool {
	switch state {
	case model.StateActive:
		return true
	case model.StateBackground:
		interval := uint64(fs.cfg.BackgroundUpdateInterval)
		if interval <= 1 {
			return true
		}
		return frame%interval == 0
	default:
		return false
	}
}

// StateCounts tallies systems per state for observability gauges.
func (fs *FidelityScheduler) StateCounts() (active, background, dormant int) {
	for _, sys := range fs.store.ListSystems() {
		switch sys.State {
		case model.StateActive:
			active++
		case model.StateBackground:
			background++
		default:
			dormant++
		}
	}
	return active, background, dormant
}
