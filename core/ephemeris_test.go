package core

import (
	"math"
	"testing"
)

// 2026-01-01T00:00:00Z.
const testEpochUnix int64 = 1_767_225_600

func TestMeanAnomalyForBodyKnownPlanets(t *testing.T) {
	tests := []struct {
		name string
		want float64
	}{
		{"Earth", 356.86},
		{"Jupiter", 88.68},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MeanAnomalyForBody(tt.name, testEpochUnix)
			if !ok {
				t.Fatalf("MeanAnomalyForBody(%q) not found", tt.name)
			}
			if math.Abs(got-tt.want) > 1.0 {
				t.Fatalf("mean anomaly = %v deg, want %v +/- 1", got, tt.want)
			}
		})
	}
}

func TestMeanAnomaliesNormalized(t *testing.T) {
	anomalies := MeanAnomaliesAtTimestamp(testEpochUnix)
	if len(anomalies) == 0 {
		t.Fatal("no anomalies returned")
	}
	for name, deg := range anomalies {
		if deg < 0 || deg >= 360 {
			t.Fatalf("%s anomaly = %v, want in [0, 360)", name, deg)
		}
	}
}

func TestMeanAnomaliesIncludeMoonsAndDwarfs(t *testing.T) {
	anomalies := MeanAnomaliesAtTimestamp(testEpochUnix)
	for _, name := range []string{"Moon", "Io", "Pluto"} {
		if _, ok := anomalies[name]; !ok {
			t.Fatalf("anomaly table missing %q", name)
		}
	}
}

func TestMeanAnomalyForBodyUnknown(t *testing.T) {
	if _, ok := MeanAnomalyForBody("Rupert", testEpochUnix); ok {
		t.Fatal("unknown body reported as known")
	}
}

func TestMeanAnomalyAdvancesWithTime(t *testing.T) {
	// Mercury moves ~4.09 deg/day; a one-day step must change its anomaly.
	day1, _ := MeanAnomalyForBody("Mercury", testEpochUnix)
	day2, _ := MeanAnomalyForBody("Mercury", testEpochUnix+86400)

	delta := math.Mod(day2-day1+360, 360)
	if math.Abs(delta-4.09) > 0.1 {
		t.Fatalf("Mercury daily advance = %v deg, want ~4.09", delta)
	}
}

func TestNormalizeDegrees(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{361, 1},
		{-1, 359},
		{720.5, 0.5},
		{-725, 355},
	}
	for _, tt := range tests {
		if got := normalizeDegrees(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("normalizeDegrees(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
