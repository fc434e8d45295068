package model

// Catalog record shapes for nearby-star data. These mirror the JSON layout
// of the bundled catalog files; parsing lives in core.LoadStarCatalog.

// StarSystemRecord is one star system as it appears in the catalog.
type StarSystemRecord struct {
	SystemName string       `json:"system_name"`
	DistanceLY float64      `json:"distance_ly"`
	Stars      []StarRecord `json:"stars"`
	// BinaryOrbits describes the orbital relationship between star pairs
	// in multiple-star systems.
	BinaryOrbits []BinaryOrbitRecord `json:"binary_orbits,omitempty"`
}

// StarRecord is one star within a system.
type StarRecord struct {
	Name          string         `json:"name"`
	SpectralType  string         `json:"spectral_type"`
	MassSol       float64        `json:"mass_sol"`
	RadiusSol     float64        `json:"radius_sol"`
	TempK         float64        `json:"temp_k"`
	LuminositySol float64        `json:"luminosity_sol"`
	Planets       []PlanetRecord `json:"planets,omitempty"`
}

// PlanetRecord is a confirmed planet from catalog data. Missing elements
// (inclination, node, periapsis) default to zero; the populator fills in
// mean anomaly from the ephemeris or leaves it at epoch zero.
type PlanetRecord struct {
	Name            string   `json:"name"`
	MassEarth       float64  `json:"mass_earth"`
	RadiusEarth     *float64 `json:"radius_earth,omitempty"`
	PeriodDays      float64  `json:"period_days"`
	SemiMajorAxisAU float64  `json:"semi_major_axis_au"`
	Eccentricity    float64  `json:"eccentricity"`
	PlanetType      string   `json:"type"`
	// OrbitsStar is the index of the host star in the Stars slice.
	OrbitsStar int `json:"orbits_star,omitempty"`
}

// BinaryOrbitRecord describes two stars orbiting their shared barycenter.
type BinaryOrbitRecord struct {
	Label            string  `json:"label"`
	PrimaryIdx       int     `json:"primary_idx"`
	SecondaryIdx     int     `json:"secondary_idx"`
	SemiMajorAxisAU  float64 `json:"semi_major_axis_au"`
	PeriodYears      float64 `json:"period_years"`
	Eccentricity     float64 `json:"eccentricity"`
	InclinationDeg   float64 `json:"inclination_deg,omitempty"`
	ArgPeriastronDeg float64 `json:"arg_periastron_deg,omitempty"`
}
