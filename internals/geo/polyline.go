package geo

// Polyline is a decoded route: an ordered point sequence plus the cumulative
// haversine distance (meters) from the first point to each vertex. Both
// slices are the same length and the distances are non-decreasing. Built
// once per route and treated as immutable afterwards.
type Polyline struct {
	Points       []Point
	CumDistances []float64
}

// NewPolyline derives the cumulative distance index for a point sequence.
func NewPolyline(points []Point) *Polyline {
	return &Polyline{
		Points:       points,
		CumDistances: CumulativeDistances(points),
	}
}

// DecodeRoute decodes an encoded polyline string straight into a Polyline.
func DecodeRoute(encoded string) *Polyline {
	return NewPolyline(DecodePolyline(encoded))
}

// TotalLength returns the route length in meters; 0 for fewer than 2 points.
func (p *Polyline) TotalLength() float64 {
	if len(p.CumDistances) == 0 {
		return 0
	}
	return p.CumDistances[len(p.CumDistances)-1]
}

// DecodePolyline decodes Google's encoded polyline format: deltas scaled by
// 1e5, zig-zag sign in the low bit, var-int encoded 5 bits at a time with a
// continuation bit at 0x20, each chunk offset by 63 into printable ASCII.
// An empty string decodes to an empty slice. Input is not validated; a
// corrupted string decodes best-effort into whatever points its varints
// describe (the format carries no checksum), matching what upstream
// consumers of provider polylines do.
func DecodePolyline(encoded string) []Point {
	var points []Point
	index, lat, lng := 0, 0, 0

	for index < len(encoded) {
		latDelta, next := decodeVarint(encoded, index)
		index = next
		lat += latDelta

		lngDelta, next := decodeVarint(encoded, index)
		index = next
		lng += lngDelta

		points = append(points, Point{
			Latitude:  float64(lat) * 1e-5,
			Longitude: float64(lng) * 1e-5,
		})
	}

	return points
}

// decodeVarint reads one zig-zag encoded delta starting at index and returns
// the delta plus the index of the next unread byte.
func decodeVarint(encoded string, index int) (int, int) {
	shift, result := 0, 0

	for index < len(encoded) {
		b := int(encoded[index]) - 63
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), index
	}
	return result >> 1, index
}

// CumulativeDistances prefix-sums the haversine distance between consecutive
// points, starting at 0 for the first point. A single point yields [0], an
// empty slice yields an empty result.
func CumulativeDistances(points []Point) []float64 {
	if len(points) == 0 {
		return nil
	}

	distances := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		distances[i] = distances[i-1] + HaversineDistance(points[i-1], points[i])
	}
	return distances
}
