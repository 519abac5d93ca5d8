package geo

// DefaultRouteToleranceMeters is how far a fix may sit from the route
// before it counts as a deviation.
const DefaultRouteToleranceMeters = 50.0

// IsOnRoute reports whether point lies within toleranceMeters of the route.
// A polyline with fewer than 2 points has nothing to deviate from and is
// always "on route". This is a stateless per-sample check; debouncing
// ("N consecutive off-route fixes before alerting") is the caller's job.
func IsOnRoute(point Point, polyline *Polyline, toleranceMeters float64) bool {
	if len(polyline.Points) < 2 {
		return true
	}
	return NearestPointOnPolyline(point, polyline).DistanceMeters <= toleranceMeters
}
