package model

// SimulationState is the fidelity level assigned to a star system.
type SimulationState int

const (
	// StateDormant systems receive no per-tick propagation. Because
	// propagation is a pure function of elapsed time, a dormant system is
	// caught up exactly on reactivation with no interpolation.
	StateDormant SimulationState = iota

	// StateBackground systems propagate at a reduced cadence (every Nth
	// frame) and are not rendered.
	StateBackground

	// StateActive systems propagate every tick and render fully. The
	// reference configuration allows one active system at a time.
	StateActive
)

// String returns a lowercase label, also used as a metric label value.
func (s SimulationState) String() string {
	switch s {
	case StateActive:
		return "active"
	case StateBackground:
		return "background"
	case StateDormant:
		return "dormant"
	default:
		return "unknown"
	}
}

// StarSystem is a named container for the bodies of one star system.
// Created once when a system is loaded; the fidelity scheduler mutates
// State and population code mutates BodyCount. Never destroyed in-session.
type StarSystem struct {
	ID   string
	Name string

	// GalacticPosition in light-years, used for fidelity distance checks.
	GalacticPosition Vec3

	// BoundingRadiusAU is the largest orbit radius plus margin, used for
	// view-distance thresholds by the render layer.
	BoundingRadiusAU float64

	State     SimulationState
	BodyCount int

	// StarType is the spectral classification of the primary, e.g. "G2V".
	StarType string
}
