package model

import (
	"errors"
	"math"
	"testing"
)

func TestValidate(t *testing.T) {
	valid := CircularOrbit(1.0, 1e-7)

	tests := []struct {
		name    string
		mutate  func(*KeplerOrbit)
		wantErr error
	}{
		{"valid circular", func(*KeplerOrbit) {}, nil},
		{"elliptical", func(o *KeplerOrbit) { o.Eccentricity = 0.9 }, nil},
		{"parabolic", func(o *KeplerOrbit) { o.Eccentricity = 1.0 }, ErrOrbitEccentricity},
		{"hyperbolic", func(o *KeplerOrbit) { o.Eccentricity = 1.4 }, ErrOrbitEccentricity},
		{"negative eccentricity", func(o *KeplerOrbit) { o.Eccentricity = -0.1 }, ErrOrbitEccentricity},
		{"zero semi-major axis", func(o *KeplerOrbit) { o.SemiMajorAxisAU = 0 }, ErrOrbitSemiMajorAxis},
		{"negative semi-major axis", func(o *KeplerOrbit) { o.SemiMajorAxisAU = -1 }, ErrOrbitSemiMajorAxis},
		{"negative mean motion", func(o *KeplerOrbit) { o.MeanMotionRadPerSec = -1 }, ErrOrbitMeanMotion},
		{"zero mean motion ok", func(o *KeplerOrbit) { o.MeanMotionRadPerSec = 0 }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := valid
			tt.mutate(&o)
			err := o.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMeanMotionPeriodRoundTrip(t *testing.T) {
	period := 365.25 * 86400.0
	n := MeanMotionFromPeriod(period)
	if got := PeriodFromMeanMotion(n); math.Abs(got-period) > 1e-6 {
		t.Fatalf("round trip = %v, want %v", got, period)
	}
}

func TestMeanMotionFromPeriodNonPositive(t *testing.T) {
	if got := MeanMotionFromPeriod(0); got != 0 {
		t.Fatalf("MeanMotionFromPeriod(0) = %v, want 0", got)
	}
	if got := MeanMotionFromPeriod(-5); got != 0 {
		t.Fatalf("MeanMotionFromPeriod(-5) = %v, want 0", got)
	}
}

func TestVec3Arithmetic(t *testing.T) {
	a := Vec3{X: 1, Y: 2, Z: 3}
	b := Vec3{X: 4, Y: -2, Z: 1}

	if got := a.Add(b); got != (Vec3{X: 5, Y: 0, Z: 4}) {
		t.Fatalf("Add = %+v", got)
	}
	if got := a.Sub(b); got != (Vec3{X: -3, Y: 4, Z: 2}) {
		t.Fatalf("Sub = %+v", got)
	}
	if got := a.Scale(2); got != (Vec3{X: 2, Y: 4, Z: 6}) {
		t.Fatalf("Scale = %+v", got)
	}
	if got := (Vec3{X: 3, Y: 4}).Norm(); got != 5 {
		t.Fatalf("Norm = %v, want 5", got)
	}
	if got := a.DistanceTo(a); got != 0 {
		t.Fatalf("DistanceTo(self) = %v, want 0", got)
	}
}
