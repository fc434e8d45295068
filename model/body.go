package model

// BodyType classifies a celestial body.
type BodyType int

const (
	BodyTypeUnknown BodyType = iota
	BodyTypeStar
	BodyTypeBarycenter // massless reference point two stars orbit
	BodyTypePlanet
	BodyTypeGasGiant
	BodyTypeIceGiant
	BodyTypeMoon
	BodyTypeAsteroid
	BodyTypeComet
)

// String returns a lowercase label, also used as a metric label value.
func (t BodyType) String() string {
	switch t {
	case BodyTypeStar:
		return "star"
	case BodyTypeBarycenter:
		return "barycenter"
	case BodyTypePlanet:
		return "planet"
	case BodyTypeGasGiant:
		return "gas_giant"
	case BodyTypeIceGiant:
		return "ice_giant"
	case BodyTypeMoon:
		return "moon"
	case BodyTypeAsteroid:
		return "asteroid"
	case BodyTypeComet:
		return "comet"
	default:
		return "unknown"
	}
}

// CelestialBody represents a physical object in a star system: a star,
// planet, moon, asteroid, comet, or a massless barycenter.
//
// Position is the body's true position in AU, relative to the owning
// system's local frame. The propagator rewrites it in place every tick for
// bodies that carry orbital elements; bodies without an orbit keep whatever
// position they were spawned with (e.g. a lone star at its barycenter).
type CelestialBody struct {
	ID       string
	Name     string
	Type     BodyType
	SystemID string

	MassKg   float64
	RadiusKm float64

	// Position in AU within the system-local frame.
	Position Vec3

	// Orbit is nil for bodies that do not move.
	Orbit *KeplerOrbit

	// OrbitCenterID names the body whose current Position is the origin of
	// this body's ellipse (star for planets, planet for moons, barycenter
	// for binary stars). Empty means the ellipse is centred on the system
	// origin. Chains must not form a cycle; the knowledge base rejects
	// cyclic references at insertion time.
	OrbitCenterID string

	// Path describes how the orbit is visualised. Purely presentational;
	// nil when the body has no drawable orbit.
	Path *OrbitPath
}
