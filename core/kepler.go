package core

import "math"

// Kepler solver tuning. Newton-Raphson converges in a handful of steps for
// planetary eccentricities; the iteration cap guarantees termination near
// e → 1 at the cost of reduced accuracy.
const (
	maxKeplerIterations = 50
	keplerTolerance     = 1e-10

	// circularEpsilon short-circuits the solver: below this eccentricity
	// the anomalies coincide exactly.
	circularEpsilon = 1e-10
)

// SolveKepler solves Kepler's equation M = E - e·sin(E) for the eccentric
// anomaly E using Newton-Raphson iteration. Supported domain is 0 ≤ e < 1;
// the function is total over it and never fails.
func SolveKepler(meanAnomaly, eccentricity float64) float64 {
	if eccentricity < circularEpsilon {
		return meanAnomaly
	}

	// The mean anomaly is a good initial guess for planetary
	// eccentricities; for highly eccentric orbits π keeps Newton-Raphson
	// out of the flat region near periapsis.
	e := meanAnomaly
	if eccentricity > 0.8 {
		e = math.Pi
	}
	for i := 0; i < maxKeplerIterations; i++ {
		// f(E) = E - e·sin(E) - M, f'(E) = 1 - e·cos(E)
		f := e - eccentricity*math.Sin(e) - meanAnomaly
		fPrime := 1 - eccentricity*math.Cos(e)

		delta := f / fPrime
		e -= delta

		if math.Abs(delta) < keplerTolerance {
			break
		}
	}
	return e
}

// TrueAnomaly converts an eccentric anomaly to the true anomaly via the
// half-angle identity tan(ν/2) = √((1+e)/(1-e))·tan(E/2).
func TrueAnomaly(eccentricAnomaly, eccentricity float64) float64 {
	if eccentricity < circularEpsilon {
		return eccentricAnomaly
	}
	sqrtTerm := math.Sqrt((1 + eccentricity) / (1 - eccentricity))
	return 2 * math.Atan(sqrtTerm*math.Tan(eccentricAnomaly/2))
}

// OrbitalRadius returns the focus-to-body distance at a given true anomaly:
// r = a(1-e²) / (1 + e·cos ν).
func OrbitalRadius(semiMajorAxis, eccentricity, trueAnomaly float64) float64 {
	numerator := semiMajorAxis * (1 - eccentricity*eccentricity)
	denominator := 1 + eccentricity*math.Cos(trueAnomaly)
	return numerator / denominator
}
