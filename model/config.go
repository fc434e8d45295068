package model

// MultiSystemConfig parameterizes the fidelity scheduler. Loaded once at
// startup and treated as read-only afterwards.
type MultiSystemConfig struct {
	// MaxActiveSystems caps how many systems run at full fidelity
	// (usually 1: the focus system).
	MaxActiveSystems int

	// MaxBackgroundSystems caps the reduced-cadence tier.
	MaxBackgroundSystems int

	// BackgroundUpdateInterval is the number of frames between propagation
	// passes for background systems.
	BackgroundUpdateInterval int

	// AutoTransition enables distance-driven state changes. When false the
	// scheduler leaves states alone and only the caller mutates them.
	AutoTransition bool

	// Distance thresholds from the focus position, in light-years.
	// Systems are promoted to Background within BackgroundDistanceLY and
	// demoted to Dormant past DormantDistanceLY; the gap between the two
	// is a hysteresis band where the current tier is kept.
	ActivationDistanceLY float64
	BackgroundDistanceLY float64
	DormantDistanceLY    float64
}

// DefaultMultiSystemConfig mirrors the reference tuning: a single active
// system, up to ten background systems updated every tenth frame, and
// background/dormant cutoffs at 50 and 100 light-years.
func DefaultMultiSystemConfig() MultiSystemConfig {
	return MultiSystemConfig{
		MaxActiveSystems:         1,
		MaxBackgroundSystems:     10,
		BackgroundUpdateInterval: 10,
		AutoTransition:           true,
		ActivationDistanceLY:     0.0,
		BackgroundDistanceLY:     50.0,
		DormantDistanceLY:        100.0,
	}
}
