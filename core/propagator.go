package core

import (
	"fmt"
	"math"

	"github.com/heliosworks/orrery-simulator/kb"
	"github.com/heliosworks/orrery-simulator/model"
)

// OrbitalPosition computes a body's parent-relative position in AU after
// elapsedSeconds of simulated time. It is a pure function: identical inputs
// always yield the identical vector, with no accumulated drift, so time can
// be scrubbed forwards or backwards freely.
//
// A zero mean motion freezes the body at its epoch position.
func OrbitalPosition(orbit model.KeplerOrbit, elapsedSeconds float64) model.Vec3 {
	// M = M₀ + n·t
	meanAnomaly := orbit.MeanAnomalyEpochRad + orbit.MeanMotionRadPerSec*elapsedSeconds

	eccentricAnomaly := SolveKepler(meanAnomaly, orbit.Eccentricity)
	trueAnomaly := TrueAnomaly(eccentricAnomaly, orbit.Eccentricity)
	radius := OrbitalRadius(orbit.SemiMajorAxisAU, orbit.Eccentricity, trueAnomaly)

	// Position in the orbital plane, x-axis towards periapsis.
	xOrbital := radius * math.Cos(trueAnomaly)
	yOrbital := radius * math.Sin(trueAnomaly)

	return rotateToParentFrame(orbit, xOrbital, yOrbital)
}

// rotateToParentFrame rotates an orbital-plane position by argument of
// periapsis, inclination, and longitude of ascending node (the 3-1-3 Euler
// sequence standard to orbital mechanics) into the parent-local frame.
func rotateToParentFrame(orbit model.KeplerOrbit, xOrbital, yOrbital float64) model.Vec3 {
	cosW := math.Cos(orbit.ArgumentOfPeriapsisRad)
	sinW := math.Sin(orbit.ArgumentOfPeriapsisRad)
	xPerifocal := xOrbital*cosW - yOrbital*sinW
	yPerifocal := xOrbital*sinW + yOrbital*cosW

	cosI := math.Cos(orbit.InclinationRad)
	sinI := math.Sin(orbit.InclinationRad)
	cosNode := math.Cos(orbit.LongitudeAscendingNodeRad)
	sinNode := math.Sin(orbit.LongitudeAscendingNodeRad)

	return model.Vec3{
		X: xPerifocal*cosNode - yPerifocal*cosI*sinNode,
		Y: xPerifocal*sinNode + yPerifocal*cosI*cosNode,
		Z: yPerifocal * sinI,
	}
}

// Propagator recomputes true positions for the bodies of a star system as a
// pure function of elapsed simulated time. It holds no per-tick state of
// its own; all mutation happens on the bodies stored in the knowledge base.
type Propagator struct {
	store *kb.KnowledgeBase
}

// NewPropagator constructs a propagator over the given knowledge base.
func NewPropagator(store *kb.KnowledgeBase) *Propagator {
	return &Propagator{store: store}
}

// PropagateSystem recomputes the position of every orbit-bearing body in
// the system for the given elapsed simulated seconds, resolving OrbitCenter
// parents before their children. It returns the number of bodies moved.
func (p *Propagator) PropagateSystem(systemID string, elapsedSeconds float64) int {
	bodies := p.store.BodiesInSystem(systemID)
	byID := make(map[string]*model.CelestialBody, len(bodies))
	for _, b := range bodies {
		byID[b.ID] = b
	}

	resolved := make(map[string]bool, len(bodies))
	moved := 0

	// resolve returns the body's position for this tick, computing it (and
	// its parent chain) on first visit. Chains are acyclic by KB invariant.
	var resolve func(b *model.CelestialBody) model.Vec3
	resolve = func(b *model.CelestialBody) model.Vec3 {
		if resolved[b.ID] {
			return b.Position
		}
		if b.Orbit != nil {
			pos := OrbitalPosition(*b.Orbit, elapsedSeconds)
			if b.OrbitCenterID != "" {
				if parent, ok := byID[b.OrbitCenterID]; ok {
					pos = pos.Add(resolve(parent))
				}
			}
			b.Position = pos
			moved++
		}
		resolved[b.ID] = true
		return b.Position
	}

	for _, b := range bodies {
		resolve(b)
	}
	return moved
}

// PropagateBody recomputes a single body's position for the given elapsed
// simulated seconds, resolving its parent chain first, and returns the new
// position. Bodies without orbital elements keep their spawn position.
func (p *Propagator) PropagateBody(bodyID string, elapsedSeconds float64) (model.Vec3, error) {
	b := p.store.GetBody(bodyID)
	if b == nil {
		return model.Vec3{}, fmt.Errorf("%w: %q", kb.ErrBodyNotFound, bodyID)
	}
	if b.Orbit == nil {
		return b.Position, nil
	}

	pos := OrbitalPosition(*b.Orbit, elapsedSeconds)
	if b.OrbitCenterID != "" {
		parentPos, err := p.PropagateBody(b.OrbitCenterID, elapsedSeconds)
		if err != nil {
			return model.Vec3{}, err
		}
		pos = pos.Add(parentPos)
	}
	b.Position = pos
	return pos, nil
}
