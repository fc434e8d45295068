package model

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrOrbitEccentricity indicates an eccentricity outside the supported
	// elliptical regime [0, 1). Hyperbolic and parabolic trajectories are
	// not propagated.
	ErrOrbitEccentricity = errors.New("eccentricity outside [0, 1)")
	// ErrOrbitSemiMajorAxis indicates a non-positive semi-major axis.
	ErrOrbitSemiMajorAxis = errors.New("semi-major axis must be positive")
	// ErrOrbitMeanMotion indicates a negative mean motion.
	ErrOrbitMeanMotion = errors.New("mean motion must be non-negative")
)

// KeplerOrbit holds classical orbital elements for an elliptical orbit.
// Angles are in radians, distances in AU. Elements are fixed once created:
// only the body's phase along the ellipse changes with elapsed time.
type KeplerOrbit struct {
	// Eccentricity (e), shape of the ellipse. 0 is circular; values must
	// stay below 1 for the closed-form propagator.
	Eccentricity float64

	// SemiMajorAxisAU (a), size of the orbit in AU.
	SemiMajorAxisAU float64

	// InclinationRad (i), tilt of the orbital plane.
	InclinationRad float64

	// LongitudeAscendingNodeRad (Ω), where the orbit crosses the
	// reference plane.
	LongitudeAscendingNodeRad float64

	// ArgumentOfPeriapsisRad (ω), orientation of the ellipse within the
	// orbital plane.
	ArgumentOfPeriapsisRad float64

	// MeanAnomalyEpochRad (M₀), phase along the orbit at t=0.
	MeanAnomalyEpochRad float64

	// MeanMotionRadPerSec (n), derived from the period as 2π/T.
	// Zero freezes the body at its epoch position.
	MeanMotionRadPerSec float64
}

// CircularOrbit returns a flat circular orbit at the given radius.
func CircularOrbit(semiMajorAxisAU, meanMotionRadPerSec float64) KeplerOrbit {
	return KeplerOrbit{
		SemiMajorAxisAU:     semiMajorAxisAU,
		MeanMotionRadPerSec: meanMotionRadPerSec,
	}
}

// MeanMotionFromPeriod converts an orbital period in seconds to a mean
// motion in radians per second. Non-positive periods yield zero, which the
// propagator treats as a frozen body.
func MeanMotionFromPeriod(periodSeconds float64) float64 {
	if periodSeconds <= 0 {
		return 0
	}
	return 2 * math.Pi / periodSeconds
}

// PeriodFromMeanMotion is the inverse of MeanMotionFromPeriod.
func PeriodFromMeanMotion(meanMotionRadPerSec float64) float64 {
	if meanMotionRadPerSec <= 0 {
		return 0
	}
	return 2 * math.Pi / meanMotionRadPerSec
}

// Validate rejects orbital regimes the propagator does not support.
// Validation happens once, at construction/insertion time; the propagation
// formulas themselves are total and unchecked.
func (o KeplerOrbit) Validate() error {
	if o.Eccentricity < 0 || o.Eccentricity >= 1 {
		return fmt.Errorf("%w: e=%g", ErrOrbitEccentricity, o.Eccentricity)
	}
	if o.SemiMajorAxisAU <= 0 {
		return fmt.Errorf("%w: a=%g", ErrOrbitSemiMajorAxis, o.SemiMajorAxisAU)
	}
	if o.MeanMotionRadPerSec < 0 {
		return fmt.Errorf("%w: n=%g", ErrOrbitMeanMotion, o.MeanMotionRadPerSec)
	}
	return nil
}
