package core

import (
	"math"
	"sync"

	"github.com/heliosworks/orrery-simulator/model"
)

// RenderUnitsPerAU converts true positions (AU) into render-engine units.
// 1 AU = 100 render units keeps a full planetary system within a
// numerically comfortable f32 range.
const RenderUnitsPerAU = 100.0

// RenderPosition converts a true position to single-precision render space:
// the origin is subtracted before the f32 cast so render coordinates stay
// small no matter how far the simulation has drifted from the universe's
// nominal origin.
func RenderPosition(truePos, origin model.Vec3, scale float64) model.RenderVec3 {
	rel := truePos.Sub(origin).Scale(scale)
	return model.RenderVec3{
		X: float32(rel.X),
		Y: float32(rel.Y),
		Z: float32(rel.Z),
	}
}

// FloatingOrigin holds the shared reference point that render-space
// conversion subtracts from every true position.
//
// Rebase is a single atomic update that must happen between ticks, never
// mid-propagation; under the single-threaded tick model no two phases ever
// race on it, and the mutex covers multi-threaded readers (render threads).
type FloatingOrigin struct {
	mu     sync.RWMutex
	origin model.Vec3
}

// NewFloatingOrigin starts the origin at the given point.
func NewFloatingOrigin(origin model.Vec3) *FloatingOrigin {
	return &FloatingOrigin{origin: origin}
}

// Rebase re-centers the reference frame, e.g. when focus moves to another
// star system.
func (f *FloatingOrigin) Rebase(origin model.Vec3) {
	f.mu.Lock()
	f.origin = origin
	f.mu.Unlock()
}

// Origin returns the current reference point.
func (f *FloatingOrigin) Origin() model.Vec3 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.origin
}

// RenderPosition converts a true position relative to the current origin.
func (f *FloatingOrigin) RenderPosition(truePos model.Vec3) model.RenderVec3 {
	return RenderPosition(truePos, f.Origin(), RenderUnitsPerAU)
}

// OrbitPathPoints samples an orbit into a connected render-space line strip
// of segments+1 points (first and last coincide for a full revolution).
//
// Mean anomaly is sampled uniformly, not true anomaly: time-uniform samples
// cluster near periapsis on eccentric orbits, which is faithful to how the
// body actually spends its time.
func OrbitPathPoints(orbit model.KeplerOrbit, segments int, parent, origin model.Vec3) []model.RenderVec3 {
	if segments < 2 {
		segments = 2
	}
	points := make([]model.RenderVec3, 0, segments+1)

	for i := 0; i <= segments; i++ {
		meanAnomaly := float64(i) * 2 * math.Pi / float64(segments)

		eccentricAnomaly := SolveKepler(meanAnomaly, orbit.Eccentricity)
		trueAnomaly := TrueAnomaly(eccentricAnomaly, orbit.Eccentricity)
		radius := OrbitalRadius(orbit.SemiMajorAxisAU, orbit.Eccentricity, trueAnomaly)

		pos := rotateToParentFrame(orbit, radius*math.Cos(trueAnomaly), radius*math.Sin(trueAnomaly))
		pos = pos.Add(parent)

		points = append(points, RenderPosition(pos, origin, RenderUnitsPerAU))
	}
	return points
}
