// core/catalog_loader.go
package core

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/heliosworks/orrery-simulator/internal/logging"
	"github.com/heliosworks/orrery-simulator/kb"
	"github.com/heliosworks/orrery-simulator/model"
)

// Unit conversions for catalog records.
const (
	SolarMassKg   = 1.989e30
	SolarRadiusKm = 695700.0
	EarthMassKg   = 5.972e24
	EarthRadiusKm = 6371.0

	secondsPerDay  = 86400.0
	secondsPerYear = 365.25 * secondsPerDay
)

// CatalogSummary reports what a catalog load produced, and carries the
// per-star inputs the procedural generator needs to fill the gaps.
type CatalogSummary struct {
	SystemIDs []string
	BodyIDs   []string
	Stars     []StarSeed
}

// StarSeed is one star's generation input: its luminosity plus the orbits
// already occupied by confirmed planets around it.
type StarSeed struct {
	SystemID         string
	StarBodyID       string
	Name             string
	LuminositySol    float64
	ExistingOrbitsAU []float64
}

// LoadStarCatalog decodes a nearby-stars catalog from r.
func LoadStarCatalog(r io.Reader) ([]model.StarSystemRecord, error) {
	var records []model.StarSystemRecord
	dec := json.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("decode star catalog: %w", err)
	}
	return records, nil
}

// PopulateFromCatalog spawns star systems and their bodies into the KB.
//
// Single stars sit motionless at the system origin. Star pairs named in
// binary_orbits are split onto opposing ellipses around a shared barycenter
// body, semi-major axes divided by mass ratio — the orbit-center chain the
// propagator composes each tick. Confirmed planets orbit their host star;
// bodies the ephemeris knows are phased to epochUnix, everything else
// starts at mean anomaly zero.
//
// Catalog data is external, so a planet with an unsupported orbital regime
// (e ≥ 1) is skipped with a warning rather than aborting the whole load.
// The catalog carries only a scalar distance per system, so galactic
// positions are laid out along the +X axis at that distance.
func PopulateFromCatalog(ctx context.Context, store *kb.KnowledgeBase, records []model.StarSystemRecord, epochUnix int64, log logging.Logger) (*CatalogSummary, error) {
	if store == nil {
		return nil, fmt.Errorf("nil knowledge base")
	}
	if log == nil {
		log = logging.Noop()
	}

	summary := &CatalogSummary{}

	for _, rec := range records {
		systemID := slug(rec.SystemName)
		starType := ""
		if len(rec.Stars) > 0 {
			starType = rec.Stars[0].SpectralType
		}

		sys := &model.StarSystem{
			ID:               systemID,
			Name:             rec.SystemName,
			GalacticPosition: model.Vec3{X: rec.DistanceLY},
			State:            model.StateDormant,
			StarType:         starType,
		}
		if err := store.AddSystem(sys); err != nil {
			return nil, err
		}
		summary.SystemIDs = append(summary.SystemIDs, systemID)

		// Which stars belong to a binary pair, and around what center.
		starOrbits := binaryStarOrbits(systemID, rec)

		starIDs := make([]string, len(rec.Stars))
		for i, star := range rec.Stars {
			starID := systemID + "/" + slug(star.Name)
			starIDs[i] = starID

			body := &model.CelestialBody{
				ID:       starID,
				Name:     star.Name,
				Type:     model.BodyTypeStar,
				SystemID: systemID,
				MassKg:   star.MassSol * SolarMassKg,
				RadiusKm: star.RadiusSol * SolarRadiusKm,
			}
			if so, ok := starOrbits[i]; ok {
				// Barycenter body must exist before its dependents.
				if bc := store.GetBody(so.centerID); bc == nil {
					if err := store.AddBody(&model.CelestialBody{
						ID:       so.centerID,
						Name:     so.centerName,
						Type:     model.BodyTypeBarycenter,
						SystemID: systemID,
					}); err != nil {
						return nil, err
					}
					summary.BodyIDs = append(summary.BodyIDs, so.centerID)
				}
				body.Orbit = so.orbit
				body.OrbitCenterID = so.centerID
			}
			if err := store.AddBody(body); err != nil {
				return nil, err
			}
			summary.BodyIDs = append(summary.BodyIDs, starID)
		}

		// Confirmed planets around their host stars.
		existingByStar := make(map[int][]float64)
		for i, star := range rec.Stars {
			for _, planet := range star.Planets {
				orbit := planetOrbit(planet, epochUnix)
				radiusEarth := 1.0
				if planet.RadiusEarth != nil {
					radiusEarth = *planet.RadiusEarth
				}
				body := &model.CelestialBody{
					ID:            systemID + "/" + slug(planet.Name),
					Name:          planet.Name,
					Type:          planetBodyType(planet.PlanetType),
					SystemID:      systemID,
					MassKg:        planet.MassEarth * EarthMassKg,
					RadiusKm:      radiusEarth * EarthRadiusKm,
					Orbit:         &orbit,
					OrbitCenterID: starIDs[i],
					Path:          model.NewOrbitPath(model.Color{R: 0.5, G: 0.5, B: 0.5, A: 0.3}),
				}
				if err := store.AddBody(body); err != nil {
					log.Warn(ctx, "skipping catalog planet",
						logging.String("planet", planet.Name),
						logging.Any("error", err),
					)
					continue
				}
				summary.BodyIDs = append(summary.BodyIDs, body.ID)
				existingByStar[i] = append(existingByStar[i], planet.SemiMajorAxisAU)
			}
		}

		// Bounding radius: widest known orbit plus margin; the populator
		// widens it again if procedural bodies reach further out.
		var maxOrbit float64
		for _, orbits := range existingByStar {
			for _, a := range orbits {
				maxOrbit = math.Max(maxOrbit, a)
			}
		}
		sys.BoundingRadiusAU = math.Max(50, maxOrbit*1.5)

		for i, star := range rec.Stars {
			summary.Stars = append(summary.Stars, StarSeed{
				SystemID:         systemID,
				StarBodyID:       starIDs[i],
				Name:             star.Name,
				LuminositySol:    star.LuminositySol,
				ExistingOrbitsAU: existingByStar[i],
			})
		}

		log.Info(ctx, "loaded star system",
			logging.String("system", rec.SystemName),
			logging.Int("stars", len(rec.Stars)),
			logging.Int("bodies", sys.BodyCount),
		)
	}

	return summary, nil
}

type starOrbit struct {
	centerID   string
	centerName string
	orbit      *model.KeplerOrbit
}

// binaryStarOrbits converts binary_orbits records into per-star Kepler
// elements around a shared barycenter: a₁ = a·m₂/(m₁+m₂) for the primary,
// a₂ = a·m₁/(m₁+m₂) for the secondary, with the secondary's periapsis
// argument rotated half a turn so the pair stays on opposite sides.
func binaryStarOrbits(systemID string, rec model.StarSystemRecord) map[int]starOrbit {
	orbits := make(map[int]starOrbit)
	for _, bin := range rec.BinaryOrbits {
		if bin.PrimaryIdx < 0 || bin.PrimaryIdx >= len(rec.Stars) ||
			bin.SecondaryIdx < 0 || bin.SecondaryIdx >= len(rec.Stars) {
			continue
		}
		primary := rec.Stars[bin.PrimaryIdx]
		secondary := rec.Stars[bin.SecondaryIdx]
		totalMass := primary.MassSol + secondary.MassSol
		if totalMass <= 0 {
			continue
		}

		meanMotion := model.MeanMotionFromPeriod(bin.PeriodYears * secondsPerYear)
		inclination := bin.InclinationDeg * math.Pi / 180
		argPeriapsis := bin.ArgPeriastronDeg * math.Pi / 180

		centerID := systemID + "/" + slug(bin.Label) + "-barycenter"
		orbits[bin.PrimaryIdx] = starOrbit{
			centerID:   centerID,
			centerName: bin.Label + " barycenter",
			orbit: &model.KeplerOrbit{
				Eccentricity:           bin.Eccentricity,
				SemiMajorAxisAU:        bin.SemiMajorAxisAU * secondary.MassSol / totalMass,
				InclinationRad:         inclination,
				ArgumentOfPeriapsisRad: argPeriapsis,
				MeanMotionRadPerSec:    meanMotion,
			},
		}
		orbits[bin.SecondaryIdx] = starOrbit{
			centerID:   centerID,
			centerName: bin.Label + " barycenter",
			orbit: &model.KeplerOrbit{
				Eccentricity:           bin.Eccentricity,
				SemiMajorAxisAU:        bin.SemiMajorAxisAU * primary.MassSol / totalMass,
				InclinationRad:         inclination,
				ArgumentOfPeriapsisRad: argPeriapsis + math.Pi,
				MeanMotionRadPerSec:    meanMotion,
			},
		}
	}
	return orbits
}

func planetOrbit(planet model.PlanetRecord, epochUnix int64) model.KeplerOrbit {
	meanAnomaly := 0.0
	if deg, ok := MeanAnomalyForBody(planet.Name, epochUnix); ok {
		meanAnomaly = deg * math.Pi / 180
	}
	return model.KeplerOrbit{
		Eccentricity:        planet.Eccentricity,
		SemiMajorAxisAU:     planet.SemiMajorAxisAU,
		MeanAnomalyEpochRad: meanAnomaly,
		MeanMotionRadPerSec: model.MeanMotionFromPeriod(planet.PeriodDays * secondsPerDay),
	}
}

func planetBodyType(catalogType string) model.BodyType {
	switch strings.ToLower(catalogType) {
	case "gas giant":
		return model.BodyTypeGasGiant
	case "ice giant":
		return model.BodyTypeIceGiant
	default:
		return model.BodyTypePlanet
	}
}

// slug turns a display name into a stable lowercase ID segment.
func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}
