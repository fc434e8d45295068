package core

import "math"

// J2000 ephemeris: mean-anomaly-at-date for the real solar-system bodies,
// used to phase catalog bodies at a chosen simulation start date.
// J2000.0 is January 1, 2000, 12:00 TT; the Unix epoch is 10957.5 days
// earlier.
const daysUnixEpochToJ2000 = 10957.5

// J2000Elements holds the minimal element set needed to recover a planet's
// mean anomaly at an arbitrary date. Angles in degrees, period in days.
// Source: NASA JPL approximations for J2000.
type J2000Elements struct {
	PeriodDays             float64
	MeanLongitudeJ2000Deg  float64
	LongitudePerihelionDeg float64
}

// MeanAnomalyAtDays returns the mean anomaly in degrees, normalized to
// [0, 360), for a date the given number of days after J2000.
func (e J2000Elements) MeanAnomalyAtDays(daysFromJ2000 float64) float64 {
	n := 360.0 / e.PeriodDays
	meanLongitude := e.MeanLongitudeJ2000Deg + n*daysFromJ2000
	return normalizeDegrees(meanLongitude - e.LongitudePerihelionDeg)
}

// SimpleElements approximates moons and dwarf planets: a period plus a
// fixed phase offset, good enough for consistent visual distribution.
type SimpleElements struct {
	PeriodDays    float64
	BaseOffsetDeg float64
}

// MeanAnomalyAtDays returns the mean anomaly in degrees in [0, 360).
func (e SimpleElements) MeanAnomalyAtDays(daysFromReference float64) float64 {
	n := 360.0 / e.PeriodDays
	return normalizeDegrees(e.BaseOffsetDeg + n*daysFromReference)
}

func normalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

var planetElements = map[string]J2000Elements{
	"Mercury": {PeriodDays: 87.969, MeanLongitudeJ2000Deg: 252.25084, LongitudePerihelionDeg: 77.45645},
	"Venus":   {PeriodDays: 224.701, MeanLongitudeJ2000Deg: 181.97973, LongitudePerihelionDeg: 131.53298},
	"Earth":   {PeriodDays: 365.256363, MeanLongitudeJ2000Deg: 100.46435, LongitudePerihelionDeg: 102.94719},
	"Mars":    {PeriodDays: 686.980, MeanLongitudeJ2000Deg: 355.45332, LongitudePerihelionDeg: 336.04084},
	"Jupiter": {PeriodDays: 4332.589, MeanLongitudeJ2000Deg: 34.40438, LongitudePerihelionDeg: 14.75385},
	"Saturn":  {PeriodDays: 10759.22, MeanLongitudeJ2000Deg: 49.94432, LongitudePerihelionDeg: 92.43194},
	"Uranus":  {PeriodDays: 30685.4, MeanLongitudeJ2000Deg: 313.23218, LongitudePerihelionDeg: 170.96424},
	"Neptune": {PeriodDays: 60189.0, MeanLongitudeJ2000Deg: 304.88003, LongitudePerihelionDeg: 44.97135},
}

var moonElements = map[string]SimpleElements{
	"Moon":     {PeriodDays: 27.321661, BaseOffsetDeg: 135},
	"Phobos":   {PeriodDays: 0.31891023, BaseOffsetDeg: 30},
	"Deimos":   {PeriodDays: 1.263, BaseOffsetDeg: 150},
	"Io":       {PeriodDays: 1.769138, BaseOffsetDeg: 45},
	"Europa":   {PeriodDays: 3.551181, BaseOffsetDeg: 135},
	"Ganymede": {PeriodDays: 7.154553, BaseOffsetDeg: 225},
	"Callisto": {PeriodDays: 16.689018, BaseOffsetDeg: 315},
	"Titan":    {PeriodDays: 15.945, BaseOffsetDeg: 90},
	"Rhea":     {PeriodDays: 4.518212, BaseOffsetDeg: 180},
	"Iapetus":  {PeriodDays: 79.3215, BaseOffsetDeg: 270},
	"Titania":  {PeriodDays: 8.706234, BaseOffsetDeg: 60},
	"Oberon":   {PeriodDays: 13.463234, BaseOffsetDeg: 210},
	"Triton":   {PeriodDays: 5.876854, BaseOffsetDeg: 120},
}

var dwarfPlanetElements = map[string]SimpleElements{
	"Pluto":    {PeriodDays: 90560, BaseOffsetDeg: 180},
	"Ceres":    {PeriodDays: 1682, BaseOffsetDeg: 45},
	"Eris":     {PeriodDays: 203670, BaseOffsetDeg: 270},
	"Makemake": {PeriodDays: 111845, BaseOffsetDeg: 90},
	"Haumea":   {PeriodDays: 103468, BaseOffsetDeg: 135},
}

// MeanAnomaliesAtTimestamp returns the mean anomaly in degrees for every
// known solar-system body at the given Unix timestamp.
func MeanAnomaliesAtTimestamp(unixTimestamp int64) map[string]float64 {
	days := float64(unixTimestamp)/86400.0 - daysUnixEpochToJ2000

	positions := make(map[string]float64, len(planetElements)+len(moonElements)+len(dwarfPlanetElements))
	for name, e := range planetElements {
		positions[name] = e.MeanAnomalyAtDays(days)
	}
	for name, e := range moonElements {
		positions[name] = e.MeanAnomalyAtDays(days)
	}
	for name, e := range dwarfPlanetElements {
		positions[name] = e.MeanAnomalyAtDays(days)
	}
	return positions
}

// MeanAnomalyForBody returns the mean anomaly in degrees for a single named
// body, with ok=false for bodies the ephemeris does not know.
func MeanAnomalyForBody(name string, unixTimestamp int64) (float64, bool) {
	days := float64(unixTimestamp)/86400.0 - daysUnixEpochToJ2000

	if e, ok := planetElements[name]; ok {
		return e.MeanAnomalyAtDays(days), true
	}
	if e, ok := moonElements[name]; ok {
		return e.MeanAnomalyAtDays(days), true
	}
	if e, ok := dwarfPlanetElements[name]; ok {
		return e.MeanAnomalyAtDays(days), true
	}
	return 0, false
}
