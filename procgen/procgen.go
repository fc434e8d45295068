// Package procgen fills star systems with procedurally generated planets,
// asteroid belts, and cometary clouds where survey data is incomplete. All
// generation is deterministic: the same seed, star name, and existing-orbit
// list always produce an identical architecture.
package procgen

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/rand"

	"github.com/cespare/xxhash/v2"

	"github.com/heliosworks/orrery-simulator/model"
)

// PlanetType classifies a generated planet by composition.
type PlanetType int

const (
	Rocky PlanetType = iota
	IceGiant
	GasGiant
)

func (t PlanetType) String() string {
	switch t {
	case Rocky:
		return "rocky"
	case IceGiant:
		return "ice_giant"
	case GasGiant:
		return "gas_giant"
	default:
		return "unknown"
	}
}

// SystemArchitecture describes everything generated for one star: inner
// rocky planets, outer giants, and optional belt and cloud populations.
type SystemArchitecture struct {
	FrostLineAU   float64
	RockyPlanets  []ProceduralPlanet
	GasGiants     []ProceduralPlanet
	AsteroidBelt  *AsteroidBelt
	CometaryCloud *CometaryCloud
}

// PlanetCount returns the number of generated planets, excluding belt and
// cloud minor bodies.
func (a *SystemArchitecture) PlanetCount() int {
	return len(a.RockyPlanets) + len(a.GasGiants)
}

// ProceduralPlanet holds the orbital elements and physical parameters of a
// generated planet.
type ProceduralPlanet struct {
	Name                   string
	SemiMajorAxisAU        float64
	Eccentricity           float64
	InclinationRad         float64
	LongitudeAscendingNode float64
	ArgumentOfPeriapsis    float64
	MeanAnomalyEpoch       float64
	PeriodDays             float64
	MassEarth              float64
	RadiusEarth            float64
	Type                   PlanetType
}

// ToKeplerOrbit converts the planet's elements into an orbit usable by the
// propagator.
func (p *ProceduralPlanet) ToKeplerOrbit() model.KeplerOrbit {
	periodSeconds := p.PeriodDays * 86400.0
	return model.KeplerOrbit{
		Eccentricity:              p.Eccentricity,
		SemiMajorAxisAU:           p.SemiMajorAxisAU,
		InclinationRad:            p.InclinationRad,
		LongitudeAscendingNodeRad: p.LongitudeAscendingNode,
		ArgumentOfPeriapsisRad:    p.ArgumentOfPeriapsis,
		MeanAnomalyEpochRad:       p.MeanAnomalyEpoch,
		MeanMotionRadPerSec:       model.MeanMotionFromPeriod(periodSeconds),
	}
}

// BodyType maps the composition class onto the celestial body taxonomy.
func (p *ProceduralPlanet) BodyType() model.BodyType {
	switch p.Type {
	case IceGiant:
		return model.BodyTypeIceGiant
	case GasGiant:
		return model.BodyTypeGasGiant
	default:
		return model.BodyTypePlanet
	}
}

// MassKg returns the planet mass in kilograms.
func (p *ProceduralPlanet) MassKg() float64 {
	const earthMassKg = 5.972e24
	return p.MassEarth * earthMassKg
}

// RadiusKm returns the planet radius in kilometers.
func (p *ProceduralPlanet) RadiusKm() float64 {
	const earthRadiusKm = 6371.0
	return p.RadiusEarth * earthRadiusKm
}

// AsteroidBelt describes a belt of minor bodies between two orbital radii.
type AsteroidBelt struct {
	InnerAU        float64
	OuterAU        float64
	Count          int
	InclinationRad float64
}

// CometaryCloud describes a population of long-period comets in the far
// outer system.
type CometaryCloud struct {
	InnerAU        float64
	OuterAU        float64
	Count          int
	InclinationRad float64
}

// FrostLine returns the water-ice sublimation boundary in AU for a star of
// the given luminosity in solar units, d ≈ 4.85·√(L/L☉).
func FrostLine(luminositySolar float64) float64 {
	return 4.85 * math.Sqrt(luminositySolar)
}

// targetPlanetCount is the total planet count generation aims for,
// confirmed planets included.
const targetPlanetCount = 5

// GenerateArchitecture maps a star onto a system architecture. Confirmed
// planets reduce how many are generated, and their orbits are kept clear
// of generated ones. Each feature derives its random stream from its own
// sub-seed, so regenerating one feature never perturbs the others.
func GenerateArchitecture(starName string, luminositySolar float64, existingCount int, existingOrbitsAU []float64, seed uint64) *SystemArchitecture {
	frostLineAU := FrostLine(luminositySolar)

	planetsNeeded := 0
	if existingCount < targetPlanetCount {
		planetsNeeded = targetPlanetCount - existingCount
	}

	arch := &SystemArchitecture{FrostLineAU: frostLineAU}

	if planetsNeeded > 0 {
		countRNG := featureRand(seed, starName, "planet-split")
		innerCount := planetsNeeded
		if planetsNeeded > 2 {
			maxInner := planetsNeeded
			if maxInner > 4 {
				maxInner = 4
			}
			innerCount = 2 + countRNG.Intn(maxInner-1)
		}
		outerCount := planetsNeeded - innerCount
		if outerCount > 3 {
			outerCount = 3
		}

		// Separation checks run against both confirmed orbits and planets
		// placed earlier in this pass, so synthesized orbits never overlap
		// each other.
		occupied := append([]float64(nil), existingOrbitsAU...)

		arch.RockyPlanets = generateRockyPlanets(
			starName, innerCount, existingCount,
			frostLineAU, occupied,
			featureRand(seed, starName, "rocky"),
		)
		for _, p := range arch.RockyPlanets {
			occupied = append(occupied, p.SemiMajorAxisAU)
		}
		arch.GasGiants = generateGasGiants(
			starName, outerCount, existingCount+innerCount,
			frostLineAU, occupied,
			featureRand(seed, starName, "giants"),
		)
	}

	beltRNG := featureRand(seed, starName, "belt")
	if beltRNG.Float64() < 0.8 {
		arch.AsteroidBelt = generateAsteroidBelt(frostLineAU, existingOrbitsAU, beltRNG)
	}

	cloudRNG := featureRand(seed, starName, "cloud")
	if cloudRNG.Float64() < 0.7 {
		arch.CometaryCloud = generateCometaryCloud(frostLineAU, cloudRNG)
	}

	return arch
}

// generateRockyPlanets spaces planets roughly evenly between 0.3 AU and
// just inside the frost line, nudging outward until each keeps at least
// 0.1 AU of separation from every occupied orbit, earlier siblings
// included.
func generateRockyPlanets(starName string, count, letterOffset int, frostLineAU float64, occupiedOrbitsAU []float64, rng *rand.Rand) []ProceduralPlanet {
	planets := make([]ProceduralPlanet, 0, count)
	occupied := append([]float64(nil), occupiedOrbitsAU...)

	innerMin := 0.3
	innerMax := frostLineAU * 0.95

	for i := 0; i < count; i++ {
		baseOrbit := innerMin + (innerMax-innerMin)*(float64(i)+0.5)/float64(count)
		semiMajorAxis := baseOrbit * (1.0 + randRange(rng, -0.15, 0.15))

		for tooCloseToExisting(semiMajorAxis, occupied, 0.1) {
			semiMajorAxis += randRange(rng, 0.05, 0.15)
		}
		occupied = append(occupied, semiMajorAxis)

		periodYears := math.Pow(semiMajorAxis, 1.5)

		planets = append(planets, ProceduralPlanet{
			Name:                   planetName(starName, letterOffset+i),
			SemiMajorAxisAU:        semiMajorAxis,
			Eccentricity:           randRange(rng, 0.0, 0.15),
			InclinationRad:         randRange(rng, -0.05, 0.05),
			LongitudeAscendingNode: randRange(rng, 0.0, 2*math.Pi),
			ArgumentOfPeriapsis:    randRange(rng, 0.0, 2*math.Pi),
			MeanAnomalyEpoch:       randRange(rng, 0.0, 2*math.Pi),
			PeriodDays:             periodYears * 365.25,
			MassEarth:              randRange(rng, 0.3, 3.5),
			RadiusEarth:            randRange(rng, 0.7, 1.8),
			Type:                   Rocky,
		})
	}

	return planets
}

// generateGasGiants places giants on a logarithmic ladder from just beyond
// the frost line out to 30 AU, with at least 0.5 AU separation from every
// occupied orbit, earlier siblings included. Moderate-distance giants lean
// ice-rich.
func generateGasGiants(starName string, count, letterOffset int, frostLineAU float64, occupiedOrbitsAU []float64, rng *rand.Rand) []ProceduralPlanet {
	planets := make([]ProceduralPlanet, 0, count)
	occupied := append([]float64(nil), occupiedOrbitsAU...)

	outerMin := frostLineAU * 1.2
	outerMax := 30.0

	for i := 0; i < count; i++ {
		t := (float64(i) + 0.5) / float64(count)
		baseOrbit := outerMin * math.Pow(outerMax/outerMin, t)
		semiMajorAxis := baseOrbit * (1.0 + randRange(rng, -0.15, 0.15))

		for tooCloseToExisting(semiMajorAxis, occupied, 0.5) {
			semiMajorAxis += randRange(rng, 0.3, 0.8)
		}
		occupied = append(occupied, semiMajorAxis)

		periodYears := math.Pow(semiMajorAxis, 1.5)

		planetType := GasGiant
		if semiMajorAxis < frostLineAU*3.0 && rng.Float64() < 0.6 {
			planetType = IceGiant
		}

		var massEarth, radiusEarth float64
		if planetType == IceGiant {
			massEarth = randRange(rng, 10.0, 25.0)
			radiusEarth = randRange(rng, 3.5, 4.5)
		} else {
			massEarth = randRange(rng, 50.0, 400.0)
			radiusEarth = randRange(rng, 8.0, 12.0)
		}

		planets = append(planets, ProceduralPlanet{
			Name:                   planetName(starName, letterOffset+i),
			SemiMajorAxisAU:        semiMajorAxis,
			Eccentricity:           randRange(rng, 0.0, 0.25),
			InclinationRad:         randRange(rng, -0.08, 0.08),
			LongitudeAscendingNode: randRange(rng, 0.0, 2*math.Pi),
			ArgumentOfPeriapsis:    randRange(rng, 0.0, 2*math.Pi),
			MeanAnomalyEpoch:       randRange(rng, 0.0, 2*math.Pi),
			PeriodDays:             periodYears * 365.25,
			MassEarth:              massEarth,
			RadiusEarth:            radiusEarth,
			Type:                   planetType,
		})
	}

	return planets
}

// generateAsteroidBelt places a belt near twice the frost line, shifting it
// when a confirmed planet sits within 1 AU of the belt center.
func generateAsteroidBelt(frostLineAU float64, existingOrbitsAU []float64, rng *rand.Rand) *AsteroidBelt {
	baseCenter := frostLineAU * 2.0

	inner := baseCenter * 0.7
	outer := baseCenter * 1.3

	for _, orbit := range existingOrbitsAU {
		if math.Abs(orbit-baseCenter) < 1.0 {
			if orbit < baseCenter {
				inner = orbit + 0.3
				outer = inner + baseCenter*0.6
			} else {
				outer = orbit - 0.3
				inner = outer - baseCenter*0.6
			}
		}
	}

	return &AsteroidBelt{
		InnerAU:        inner,
		OuterAU:        outer,
		Count:          50 + rng.Intn(150),
		InclinationRad: randRange(rng, 0.0, 0.1),
	}
}

// generateCometaryCloud places a highly inclined comet population in the
// far outer system, 20 to 50 AU or further for luminous stars.
func generateCometaryCloud(frostLineAU float64, rng *rand.Rand) *CometaryCloud {
	inner := math.Max(20.0, frostLineAU*4.0)
	outer := 50.0

	return &CometaryCloud{
		InnerAU:        inner,
		OuterAU:        outer,
		Count:          20 + rng.Intn(60),
		InclinationRad: randRange(rng, 0.0, math.Pi/3.0),
	}
}

func tooCloseToExisting(proposedAU float64, existingOrbitsAU []float64, minSeparation float64) bool {
	for _, existing := range existingOrbitsAU {
		if math.Abs(proposedAU-existing) < minSeparation {
			return true
		}
	}
	return false
}

// planetName assigns exoplanet-style designations starting at "b", offset
// past any confirmed planets.
func planetName(starName string, index int) string {
	letter := rune('b' + index)
	if letter > 'z' {
		return fmt.Sprintf("%s p%d", starName, index)
	}
	return fmt.Sprintf("%s %c", starName, letter)
}

// featureRand derives an independent deterministic random stream for one
// generation feature of one star.
func featureRand(seed uint64, starName, feature string) *rand.Rand {
	return rand.New(rand.NewSource(int64(subSeed(seed, starName, feature))))
}

func subSeed(seed uint64, starName, feature string) uint64 {
	h := xxhash.New()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], seed)
	_, _ = h.Write(buf[:])
	_, _ = h.WriteString(starName)
	_, _ = h.WriteString("/")
	_, _ = h.WriteString(feature)
	return h.Sum64()
}

func randRange(rng *rand.Rand, min, max float64) float64 {
	return min + rng.Float64()*(max-min)
}
