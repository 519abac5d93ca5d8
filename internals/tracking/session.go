// Package tracking turns a raw driver GPS stream into route-constrained
// render updates for the map, one session per live trip.
package tracking

import (
	"sync"

	"github.com/Yahia89/meditrans-sub003/internals/geo"
)

// Update is what the map consumes for one tick: where to draw the marker,
// which way to rotate it, and whether the driver is still on the planned
// route. When the fix is on-route the position is snapped onto the
// polyline; otherwise it is the raw (or predicted) fix.
type Update struct {
	Position       geo.Point `json:"position"`
	Bearing        float64   `json:"bearing"`
	OnRoute        bool      `json:"on_route"`
	Predicted      bool      `json:"predicted"`
	RouteDistanceM float64   `json:"route_distance_m"`
	RouteProgress  float64   `json:"route_progress"`
	TimestampMs    int64     `json:"at_ms"`
}

// Session holds the per-trip tracking state: the decoded route and the
// dead-reckoning state built from the driver's fixes. Hub goroutines call
// it concurrently, so it guards itself; the geometry underneath stays pure.
type Session struct {
	mu              sync.Mutex
	route           *geo.Polyline
	velocity        *geo.VelocityState
	toleranceMeters float64
	smoothing       float64
	maxPredictionMs int64

	lastBearing float64
	hasBearing  bool
}

// bearingLerpT eases the rendered marker rotation toward each new target
// bearing instead of snapping it.
const bearingLerpT = 0.5

type Config struct {
	ToleranceMeters float64
	Smoothing       float64
	MaxPredictionMs int64
}

// NewSession decodes the trip's encoded route polyline once up front. An
// empty encoded string is allowed: the session then tracks raw fixes with
// no route snapping or deviation detection.
func NewSession(encodedRoute string, cfg Config) *Session {
	if cfg.ToleranceMeters <= 0 {
		cfg.ToleranceMeters = geo.DefaultRouteToleranceMeters
	}
	if cfg.Smoothing <= 0 {
		cfg.Smoothing = geo.DefaultSmoothingFactor
	}
	if cfg.MaxPredictionMs <= 0 {
		cfg.MaxPredictionMs = geo.DefaultMaxPredictionMs
	}

	return &Session{
		route:           geo.DecodeRoute(encodedRoute),
		toleranceMeters: cfg.ToleranceMeters,
		smoothing:       cfg.Smoothing,
		maxPredictionMs: cfg.MaxPredictionMs,
	}
}

// Route exposes the decoded polyline (immutable after construction).
func (s *Session) Route() *geo.Polyline { return s.route }

// Apply folds a driver fix into the session and returns the render update
// for it. On-route fixes are projected onto the polyline and re-emitted at
// the equivalent route distance, which keeps the marker gliding along the
// drawn route instead of jumping to noisy raw points.
func (s *Session) Apply(lat, lng float64, timestampMs int64) Update {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := geo.UpdateVelocity(s.velocity, lat, lng, timestampMs, s.smoothing)
	s.velocity = &next

	return s.render(geo.Point{Latitude: lat, Longitude: lng}, next.Bearing, timestampMs, false)
}

// Predict returns a dead-reckoned update for render ticks that arrive
// during a GPS gap, or nil before the first fix.
func (s *Session) Predict(nowMs int64) *Update {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.velocity == nil {
		return nil
	}

	predicted := geo.PredictPosition(*s.velocity, nowMs, s.maxPredictionMs)
	u := s.render(predicted, s.velocity.Bearing, nowMs, true)
	return &u
}

// LastFixMs returns the timestamp of the newest real fix, or 0 if none.
func (s *Session) LastFixMs() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.velocity == nil {
		return 0
	}
	return s.velocity.TimestampMs
}

func (s *Session) render(raw geo.Point, fallbackBearing float64, timestampMs int64, predicted bool) Update {
	u := Update{
		Position:    raw,
		Bearing:     fallbackBearing,
		OnRoute:     true,
		Predicted:   predicted,
		TimestampMs: timestampMs,
	}

	if len(s.route.Points) < 2 {
		u.Bearing = s.easeBearing(u.Bearing)
		return u
	}

	proj := geo.NearestPointOnPolyline(raw, s.route)
	u.OnRoute = proj.DistanceMeters <= s.toleranceMeters
	if !u.OnRoute {
		u.Bearing = s.easeBearing(u.Bearing)
		return u
	}

	u.RouteDistanceM = geo.DistanceAtSegment(s.route, proj.SegmentIndex, proj.T)
	if total := s.route.TotalLength(); total > 0 {
		u.RouteProgress = geo.Clamp(u.RouteDistanceM/total, 0, 1)
	}

	walked := geo.PositionAtDistance(s.route, u.RouteDistanceM)
	u.Position = walked.Position
	u.Bearing = s.easeBearing(walked.Bearing)
	return u
}

// easeBearing rotates the marker toward target along the shorter angular
// path, remembering where it ended up for the next tick.
func (s *Session) easeBearing(target float64) float64 {
	if !s.hasBearing {
		s.lastBearing = geo.NormalizeBearing(target)
		s.hasBearing = true
		return s.lastBearing
	}
	s.lastBearing = geo.LerpBearing(s.lastBearing, target, bearingLerpT)
	return s.lastBearing
}
