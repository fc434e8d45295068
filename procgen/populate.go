package procgen

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/heliosworks/orrery-simulator/internal/logging"
	"github.com/heliosworks/orrery-simulator/kb"
	"github.com/heliosworks/orrery-simulator/model"
)

// Orbit path colors for generated body classes.
var (
	rockyPathColor    = model.Color{R: 0.5, G: 0.8, B: 0.5, A: 0.5}
	giantPathColor    = model.Color{R: 0.8, G: 0.7, B: 0.4, A: 0.5}
	asteroidPathColor = model.Color{R: 0.6, G: 0.6, B: 0.5, A: 0.2}
	cometPathColor    = model.Color{R: 0.4, G: 0.6, B: 0.8, A: 0.3}
)

// PopulateSystem expands an architecture into celestial bodies orbiting the
// given star and inserts them into the knowledge base. It returns the
// number of bodies added. Minor-body expansion draws from its own
// sub-seeded streams, so belt and cloud contents are as reproducible as
// the architecture itself.
func PopulateSystem(ctx context.Context, store *kb.KnowledgeBase, systemID, starBodyID, starName string, arch *SystemArchitecture, seed uint64, log logging.Logger) (int, error) {
	if log == nil {
		log = logging.Noop()
	}

	added := 0

	for i := range arch.RockyPlanets {
		if err := addPlanet(store, systemID, starBodyID, &arch.RockyPlanets[i], rockyPathColor); err != nil {
			return added, fmt.Errorf("adding rocky planet %q: %w", arch.RockyPlanets[i].Name, err)
		}
		added++
	}
	for i := range arch.GasGiants {
		if err := addPlanet(store, systemID, starBodyID, &arch.GasGiants[i], giantPathColor); err != nil {
			return added, fmt.Errorf("adding giant %q: %w", arch.GasGiants[i].Name, err)
		}
		added++
	}

	if belt := arch.AsteroidBelt; belt != nil {
		n, err := populateBelt(store, systemID, starBodyID, starName, belt, featureRand(seed, starName, "belt-bodies"))
		added += n
		if err != nil {
			return added, err
		}
		log.Info(ctx, "asteroid belt populated",
			logging.String("system", systemID),
			logging.Float64("inner_au", belt.InnerAU),
			logging.Float64("outer_au", belt.OuterAU),
			logging.Int("asteroids", n))
	}

	if cloud := arch.CometaryCloud; cloud != nil {
		n, err := populateCloud(store, systemID, starBodyID, starName, cloud, featureRand(seed, starName, "cloud-bodies"))
		added += n
		if err != nil {
			return added, err
		}
		log.Info(ctx, "cometary cloud populated",
			logging.String("system", systemID),
			logging.Float64("inner_au", cloud.InnerAU),
			logging.Float64("outer_au", cloud.OuterAU),
			logging.Int("comets", n))
	}

	log.Info(ctx, "system populated",
		logging.String("system", systemID),
		logging.Float64("frost_line_au", arch.FrostLineAU),
		logging.Int("rocky_planets", len(arch.RockyPlanets)),
		logging.Int("giants", len(arch.GasGiants)),
		logging.Int("bodies_added", added))

	return added, nil
}

func addPlanet(store *kb.KnowledgeBase, systemID, starBodyID string, p *ProceduralPlanet, color model.Color) error {
	orbit := p.ToKeplerOrbit()
	return store.AddBody(&model.CelestialBody{
		ID:            bodyID(systemID, p.Name),
		Name:          p.Name,
		Type:          p.BodyType(),
		SystemID:      systemID,
		MassKg:        p.MassKg(),
		RadiusKm:      p.RadiusKm(),
		Orbit:         &orbit,
		OrbitCenterID: starBodyID,
		Path:          model.NewOrbitPath(color),
	})
}

// populateBelt spawns individual asteroids on low-eccentricity orbits
// inside the belt annulus.
func populateBelt(store *kb.KnowledgeBase, systemID, starBodyID, starName string, belt *AsteroidBelt, rng *rand.Rand) (int, error) {
	added := 0
	for i := 0; i < belt.Count; i++ {
		semiMajorAxis := randRange(rng, belt.InnerAU, belt.OuterAU)
		orbit := model.KeplerOrbit{
			Eccentricity:              randRange(rng, 0.0, 0.2),
			SemiMajorAxisAU:           semiMajorAxis,
			InclinationRad:            belt.InclinationRad + randRange(rng, -0.05, 0.05),
			LongitudeAscendingNodeRad: randRange(rng, 0.0, 2*math.Pi),
			ArgumentOfPeriapsisRad:    randRange(rng, 0.0, 2*math.Pi),
			MeanAnomalyEpochRad:       randRange(rng, 0.0, 2*math.Pi),
			MeanMotionRadPerSec:       meanMotionFromAU(semiMajorAxis),
		}

		radiusKm := randRange(rng, 0.1, 50.0)
		name := fmt.Sprintf("%s Belt Asteroid %d", starName, i+1)

		err := store.AddBody(&model.CelestialBody{
			ID:            bodyID(systemID, name),
			Name:          name,
			Type:          model.BodyTypeAsteroid,
			SystemID:      systemID,
			MassKg:        sphereMassKg(radiusKm, 2500.0),
			RadiusKm:      radiusKm,
			Orbit:         &orbit,
			OrbitCenterID: starBodyID,
			Path:          model.NewOrbitPath(asteroidPathColor),
		})
		if err != nil {
			return added, fmt.Errorf("adding asteroid %d: %w", i+1, err)
		}
		added++
	}
	return added, nil
}

// populateCloud spawns long-period comets on highly eccentric, arbitrarily
// inclined orbits.
func populateCloud(store *kb.KnowledgeBase, systemID, starBodyID, starName string, cloud *CometaryCloud, rng *rand.Rand) (int, error) {
	added := 0
	for i := 0; i < cloud.Count; i++ {
		semiMajorAxis := randRange(rng, cloud.InnerAU, cloud.OuterAU)
		orbit := model.KeplerOrbit{
			Eccentricity:              randRange(rng, 0.3, 0.9),
			SemiMajorAxisAU:           semiMajorAxis,
			InclinationRad:            randRange(rng, 0.0, math.Pi),
			LongitudeAscendingNodeRad: randRange(rng, 0.0, 2*math.Pi),
			ArgumentOfPeriapsisRad:    randRange(rng, 0.0, 2*math.Pi),
			MeanAnomalyEpochRad:       randRange(rng, 0.0, 2*math.Pi),
			MeanMotionRadPerSec:       meanMotionFromAU(semiMajorAxis),
		}

		radiusKm := randRange(rng, 0.5, 10.0)
		name := fmt.Sprintf("%s Cloud Comet %d", starName, i+1)

		err := store.AddBody(&model.CelestialBody{
			ID:            bodyID(systemID, name),
			Name:          name,
			Type:          model.BodyTypeComet,
			SystemID:      systemID,
			MassKg:        sphereMassKg(radiusKm, 500.0),
			RadiusKm:      radiusKm,
			Orbit:         &orbit,
			OrbitCenterID: starBodyID,
			Path:          model.NewOrbitPath(cometPathColor),
		})
		if err != nil {
			return added, fmt.Errorf("adding comet %d: %w", i+1, err)
		}
		added++
	}
	return added, nil
}

// meanMotionFromAU derives mean motion from Kepler's third law for a body
// orbiting a roughly solar-mass star, T[yr] = a[AU]^1.5.
func meanMotionFromAU(semiMajorAxisAU float64) float64 {
	periodSeconds := math.Pow(semiMajorAxisAU, 1.5) * 365.25 * 86400.0
	return model.MeanMotionFromPeriod(periodSeconds)
}

// sphereMassKg estimates mass from radius assuming uniform density in
// kg/m³.
func sphereMassKg(radiusKm, density float64) float64 {
	r := radiusKm * 1000.0
	return (4.0 / 3.0) * math.Pi * r * r * r * density
}

func bodyID(systemID, name string) string {
	s := strings.ToLower(name)
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '-' || r == '_':
			return '-'
		default:
			return -1
		}
	}, s)
	return systemID + "/" + strings.Trim(s, "-")
}
