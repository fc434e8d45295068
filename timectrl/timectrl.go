package timectrl

import (
	"sync"
	"time"
)

// SimClock is an interface for accessing simulation time. Components that
// only read the clock (propagator, engine, status reporting) depend on this
// abstraction rather than the concrete controller, enabling testability.
type SimClock interface {
	// Now returns the current simulation time.
	Now() time.Time
	// ElapsedSeconds returns simulated seconds since the controller's
	// start time. This is the sole time input to orbit propagation.
	ElapsedSeconds() float64
}

// Time-scale bounds. Scale 0 pauses the simulation; non-zero values are
// clamped into [MinScale, MaxScale].
const (
	MinScale = 0.1
	MaxScale = 1000.0
)

// TimeController drives virtual simulation time and notifies registered
// listeners. Simulation time is fully decoupled from wall time: each wall
// tick advances it by Tick × scale, so pausing, fast-forwarding, and
// slow-motion never leak wall-clock time into the position formulas.
type TimeController struct {
	mu        sync.RWMutex
	StartTime time.Time
	Tick      time.Duration

	scale       float64
	currentTime time.Time

	listeners []func(time.Time)
}

// NewTimeController constructs a controller running at the given scale.
func NewTimeController(start time.Time, tick time.Duration, scale float64) *TimeController {
	return &TimeController{
		StartTime:   start,
		Tick:        tick,
		scale:       clampScale(scale),
		currentTime: start,
	}
}

// Now returns the current simulation time. Implements SimClock.
func (tc *TimeController) Now() time.Time {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.currentTime
}

// ElapsedSeconds returns simulated seconds since StartTime. Implements
// SimClock.
func (tc *TimeController) ElapsedSeconds() float64 {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.currentTime.Sub(tc.StartTime).Seconds()
}

// SetTime jumps simulation time to the given instant (time scrubbing).
// Because propagation is stateless, positions re-derive exactly from the
// new elapsed time on the next tick.
func (tc *TimeController) SetTime(t time.Time) {
	tc.mu.Lock()
	tc.currentTime = t
	tc.mu.Unlock()
}

// SetScale changes the time-scale factor. Zero pauses; other values are
// clamped into [MinScale, MaxScale].
func (tc *TimeController) SetScale(scale float64) {
	tc.mu.Lock()
	tc.scale = clampScale(scale)
	tc.mu.Unlock()
}

// Scale returns the current time-scale factor (0 while paused).
func (tc *TimeController) Scale() float64 {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return tc.scale
}

// Pause stops simulation time without stopping the tick loop.
func (tc *TimeController) Pause() { tc.SetScale(0) }

// AddListener registers a callback invoked on every tick with the new
// simulation time. Listeners must be registered before Start.
func (tc *TimeController) AddListener(fn func(time.Time)) {
	tc.listeners = append(tc.listeners, fn)
}

// Step advances simulation time by one tick at the current scale and
// notifies listeners. Useful for deterministic single-stepping in tests
// and by the Start loop.
func (tc *TimeController) Step() time.Time {
	tc.mu.Lock()
	tc.currentTime = tc.currentTime.Add(time.Duration(float64(tc.Tick) * tc.scale))
	simTime := tc.currentTime
	tc.mu.Unlock()

	for _, fn := range tc.listeners {
		fn(simTime)
	}
	return simTime
}

// Start runs the controller for the specified wall-clock duration in a
// separate goroutine. It returns a channel that is closed when the
// controller finishes. A non-positive duration runs until the process
// exits.
func (tc *TimeController) Start(duration time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		elapsed := time.Duration(0)

		ticker := time.NewTicker(tc.Tick)
		defer ticker.Stop()

		for {
			if duration > 0 && elapsed >= duration {
				return
			}

			<-ticker.C
			elapsed += tc.Tick
			tc.Step()
		}
	}()
	return done
}

func clampScale(scale float64) float64 {
	if scale <= 0 {
		return 0
	}
	if scale < MinScale {
		return MinScale
	}
	if scale > MaxScale {
		return MaxScale
	}
	return scale
}
