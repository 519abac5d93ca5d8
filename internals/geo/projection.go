package geo

import "math"

// minSegmentSqLength is the degree-space squared length below which a
// segment is treated as a single point during projection.
const minSegmentSqLength = 1e-12

// SegmentProjection is the result of projecting a point onto one segment.
// DistanceSq is in squared degrees (ranking only, see ApproxSqDist).
type SegmentProjection struct {
	Projected  Point
	DistanceSq float64
	T          float64
}

// RouteProjection is the globally nearest point on a whole polyline.
type RouteProjection struct {
	SegmentIndex   int
	Projected      Point
	DistanceMeters float64
	T              float64
}

// ProjectPointOnSegment orthogonally projects point onto the segment from
// segStart to segEnd, clamping to the segment so T stays in [0,1]. A
// near-zero-length segment snaps to segStart with T=0 rather than dividing
// by zero.
func ProjectPointOnSegment(point, segStart, segEnd Point) SegmentProjection {
	dLat := segEnd.Latitude - segStart.Latitude
	dLng := segEnd.Longitude - segStart.Longitude

	sqLen := dLat*dLat + dLng*dLng
	if sqLen < minSegmentSqLength {
		return SegmentProjection{
			Projected:  segStart,
			DistanceSq: ApproxSqDist(point, segStart),
			T:          0,
		}
	}

	t := ((point.Latitude-segStart.Latitude)*dLat + (point.Longitude-segStart.Longitude)*dLng) / sqLen
	t = Clamp(t, 0, 1)

	projected := Point{
		Latitude:  segStart.Latitude + t*dLat,
		Longitude: segStart.Longitude + t*dLng,
	}

	return SegmentProjection{
		Projected:  projected,
		DistanceSq: ApproxSqDist(point, projected),
		T:          t,
	}
}

// NearestPointOnPolyline scans every segment and keeps the projection with
// the smallest squared degree-space distance, then reports the true
// haversine distance to that winner. The first segment achieving the
// minimum wins, so results are deterministic for a fixed polyline. O(n) in
// the vertex count, which is fine for the tens-to-hundreds of points a
// directions provider returns per trip.
//
// An empty polyline returns the input point with an infinite distance; a
// single-point polyline returns that point directly.
func NearestPointOnPolyline(point Point, polyline *Polyline) RouteProjection {
	points := polyline.Points

	if len(points) == 0 {
		return RouteProjection{
			Projected:      point,
			DistanceMeters: math.Inf(1),
		}
	}
	if len(points) == 1 {
		return RouteProjection{
			Projected:      points[0],
			DistanceMeters: HaversineDistance(point, points[0]),
		}
	}

	best := SegmentProjection{DistanceSq: math.Inf(1)}
	bestIndex := 0

	for i := 0; i < len(points)-1; i++ {
		proj := ProjectPointOnSegment(point, points[i], points[i+1])
		if proj.DistanceSq < best.DistanceSq {
			best = proj
			bestIndex = i
		}
	}

	return RouteProjection{
		SegmentIndex:   bestIndex,
		Projected:      best.Projected,
		DistanceMeters: HaversineDistance(point, best.Projected),
		T:              best.T,
	}
}
