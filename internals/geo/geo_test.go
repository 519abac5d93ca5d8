package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLerp(t *testing.T) {
	assert.Equal(t, 5.0, Lerp(0, 10, 0.5))
	assert.Equal(t, 0.0, Lerp(0, 10, 0))
	assert.Equal(t, 10.0, Lerp(0, 10, 1))
	// t is deliberately unclamped
	assert.Equal(t, 20.0, Lerp(0, 10, 2))
	assert.Equal(t, -10.0, Lerp(0, 10, -1))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, Clamp(5, 0, 10))
	assert.Equal(t, 0.0, Clamp(-3, 0, 10))
	assert.Equal(t, 10.0, Clamp(42, 0, 10))
}

func TestInterpolateLatLng(t *testing.T) {
	from := Point{Latitude: 40.0, Longitude: -120.0}
	to := Point{Latitude: 41.0, Longitude: -121.0}

	mid := InterpolateLatLng(from, to, 0.5)
	assert.InDelta(t, 40.5, mid.Latitude, 1e-9)
	assert.InDelta(t, -120.5, mid.Longitude, 1e-9)

	assert.Equal(t, from, InterpolateLatLng(from, to, 0))
	assert.Equal(t, to, InterpolateLatLng(from, to, 1))
}

func TestCalculateBearing(t *testing.T) {
	tests := []struct {
		name     string
		from, to Point
		want     float64
	}{
		{"due north", Point{0, 0}, Point{1, 0}, 0},
		{"due east", Point{0, 0}, Point{0, 1}, 90},
		{"due south", Point{1, 0}, Point{0, 0}, 180},
		{"due west", Point{0, 1}, Point{0, 0}, 270},
		{"identical points", Point{51.5, -0.1}, Point{51.5, -0.1}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculateBearing(tc.from, tc.to)
			assert.InDelta(t, tc.want, got, 1e-6)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.Less(t, got, 360.0)
		})
	}
}

func TestNormalizeBearing(t *testing.T) {
	assert.InDelta(t, 10.0, NormalizeBearing(370), 1e-9)
	assert.InDelta(t, 350.0, NormalizeBearing(-10), 1e-9)
	assert.InDelta(t, 0.0, NormalizeBearing(720), 1e-9)
	assert.InDelta(t, 0.0, NormalizeBearing(0), 1e-9)
}

func TestHaversineDistance(t *testing.T) {
	// One degree of latitude at the equator is ~111.19 km on a 6371 km sphere.
	d := HaversineDistance(Point{0, 0}, Point{1, 0})
	assert.InDelta(t, 111195, d, 10)

	assert.Zero(t, HaversineDistance(Point{51.5, -0.1}, Point{51.5, -0.1}))

	// Symmetric.
	a := Point{38.5, -120.2}
	b := Point{40.7, -120.95}
	assert.InDelta(t, HaversineDistance(a, b), HaversineDistance(b, a), 1e-9)
}

func TestApproxSqDist(t *testing.T) {
	a := Point{Latitude: 1, Longitude: 2}
	b := Point{Latitude: 4, Longitude: 6}
	assert.InDelta(t, 25.0, ApproxSqDist(a, b), 1e-9) // 3^2 + 4^2

	// Ranking agrees with haversine for nearby candidates at the same latitude.
	p := Point{0, 0}
	near := Point{0, 0.001}
	far := Point{0, 0.002}
	assert.Less(t, ApproxSqDist(p, near), ApproxSqDist(p, far))
	assert.Less(t, HaversineDistance(p, near), HaversineDistance(p, far))
}
