package geo

import "sort"

// RoutePosition is a renderable spot on a route: where the marker goes and
// which way it points.
type RoutePosition struct {
	Position     Point
	SegmentIndex int
	Bearing      float64
}

// PositionAtDistance converts "meters traveled along the route" into the
// interpolated position and the bearing of the segment that contains it.
// Distances are clamped to [0, total length]; an empty polyline yields the
// origin with bearing 0, and a single-point polyline yields that point.
func PositionAtDistance(polyline *Polyline, distanceMeters float64) RoutePosition {
	points := polyline.Points
	cum := polyline.CumDistances

	if len(points) == 0 {
		return RoutePosition{}
	}
	if len(points) == 1 || distanceMeters <= 0 {
		bearing := 0.0
		if len(points) > 1 {
			bearing = CalculateBearing(points[0], points[1])
		}
		return RoutePosition{Position: points[0], Bearing: bearing}
	}

	total := cum[len(cum)-1]
	if distanceMeters >= total {
		last := len(points) - 1
		return RoutePosition{
			Position:     points[last],
			SegmentIndex: last - 1,
			Bearing:      CalculateBearing(points[last-1], points[last]),
		}
	}

	// cum is monotonic, so the containing segment is found in O(log n).
	seg := sort.SearchFloat64s(cum, distanceMeters)
	if seg > 0 && cum[seg-1] <= distanceMeters {
		seg--
	}
	if seg >= len(points)-1 {
		seg = len(points) - 2
	}

	segLen := cum[seg+1] - cum[seg]
	t := 0.0
	if segLen > 0 {
		t = (distanceMeters - cum[seg]) / segLen
	}

	return RoutePosition{
		Position:     InterpolateLatLng(points[seg], points[seg+1], t),
		SegmentIndex: seg,
		Bearing:      CalculateBearing(points[seg], points[seg+1]),
	}
}

// DistanceAtSegment is the inverse of PositionAtDistance: it converts a
// (segment index, t) pair — as produced by NearestPointOnPolyline — back
// into meters along the route. An out-of-range segment index clamps to the
// total route length.
func DistanceAtSegment(polyline *Polyline, segmentIndex int, t float64) float64 {
	cum := polyline.CumDistances
	if len(cum) == 0 {
		return 0
	}
	if segmentIndex < 0 {
		return 0
	}
	if segmentIndex >= len(cum)-1 {
		return cum[len(cum)-1]
	}

	t = Clamp(t, 0, 1)
	return Lerp(cum[segmentIndex], cum[segmentIndex+1], t)
}
