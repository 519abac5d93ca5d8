// Package geo implements the pure geometry underneath live trip tracking:
// polyline decoding, nearest-point projection, route-distance walking,
// deviation checks and short-horizon dead-reckoning. Every function is a
// deterministic mapping from inputs to outputs with no shared state, so the
// package is safe to call from any goroutine.
package geo

import "math"

const earthRadiusMeters = 6371000

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Lerp linearly interpolates between a and b. t is not clamped; callers
// clamp where it matters.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp limits v to [min, max]. min <= max is the caller's responsibility.
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// InterpolateLatLng interpolates component-wise between two points. This is
// a planar approximation, fine at the tens-to-hundreds-of-meters scale of
// marker animation; it is not geodesically exact over long distances.
func InterpolateLatLng(from, to Point, t float64) Point {
	return Point{
		Latitude:  Lerp(from.Latitude, to.Latitude, t),
		Longitude: Lerp(from.Longitude, to.Longitude, t),
	}
}

// CalculateBearing returns the initial great-circle bearing from one point
// to another, in degrees clockwise from north, normalized to [0, 360).
// Identical points yield 0.
func CalculateBearing(from, to Point) float64 {
	if from == to {
		return 0
	}

	lat1 := from.Latitude * math.Pi / 180
	lat2 := to.Latitude * math.Pi / 180
	dLng := (to.Longitude - from.Longitude) * math.Pi / 180

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)

	return NormalizeBearing(math.Atan2(y, x) * 180 / math.Pi)
}

// NormalizeBearing wraps a bearing into [0, 360).
func NormalizeBearing(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// HaversineDistance returns the great-circle distance between two points in
// meters, assuming a spherical earth of radius 6,371,000 m.
func HaversineDistance(p1, p2 Point) float64 {
	lat1 := p1.Latitude * math.Pi / 180
	lat2 := p2.Latitude * math.Pi / 180
	dLat := (p2.Latitude - p1.Latitude) * math.Pi / 180
	dLng := (p2.Longitude - p1.Longitude) * math.Pi / 180

	sinDLat := math.Sin(dLat / 2)
	sinDLng := math.Sin(dLng / 2)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLng*sinDLng
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}

// ApproxSqDist is the squared coordinate difference in raw degrees. It is
// only meaningful for ranking candidates against each other ("which of
// these is nearer"); longitude degrees shrink with latitude so this must
// never be presented as a real-world distance.
func ApproxSqDist(a, b Point) float64 {
	dLat := a.Latitude - b.Latitude
	dLng := a.Longitude - b.Longitude
	return dLat*dLat + dLng*dLng
}
