package model

// Color is an RGBA color in [0, 1] channels, consumed by the render layer.
type Color struct {
	R, G, B, A float32
}

// OrbitPath describes how an orbit ellipse should be drawn. It is derived
// from a KeplerOrbit on demand and never feeds back into physics.
type OrbitPath struct {
	Color    Color
	Visible  bool
	Segments int
}

// NewOrbitPath returns a visible path with the default segment count.
func NewOrbitPath(color Color) *OrbitPath {
	return &OrbitPath{
		Color:    color,
		Visible:  true,
		Segments: 64,
	}
}
