package tracking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Yahia89/meditrans-sub003/internals/geo"
)

// Equatorial test route heading east: (0,0) -> (0,0.002), ~222 m.
func eastboundSession() *Session {
	s := NewSession("", Config{ToleranceMeters: 50, Smoothing: 0.3, MaxPredictionMs: 5000})
	s.route = geo.NewPolyline([]geo.Point{{Latitude: 0, Longitude: 0}, {Latitude: 0, Longitude: 0.002}})
	return s
}

func TestSessionApplySnapsOnRouteFixes(t *testing.T) {
	s := eastboundSession()

	// Fix slightly north of the route midpoint (~11 m off).
	u := s.Apply(0.0001, 0.001, 1000)

	assert.True(t, u.OnRoute)
	assert.False(t, u.Predicted)
	assert.InDelta(t, 0.0, u.Position.Latitude, 1e-9) // snapped onto the line
	assert.InDelta(t, 0.001, u.Position.Longitude, 1e-7)
	assert.InDelta(t, 90.0, u.Bearing, 1e-6) // segment bearing, east
	assert.InDelta(t, 0.5, u.RouteProgress, 0.01)
	assert.Greater(t, u.RouteDistanceM, 100.0)
}

func TestSessionApplyOffRouteFallsBackToRaw(t *testing.T) {
	s := eastboundSession()

	// ~111 m north of the route: beyond the 50 m tolerance.
	u := s.Apply(0.001, 0.001, 1000)

	assert.False(t, u.OnRoute)
	assert.InDelta(t, 0.001, u.Position.Latitude, 1e-9)
	assert.InDelta(t, 0.001, u.Position.Longitude, 1e-9)
	assert.Zero(t, u.RouteDistanceM)
}

func TestSessionWithoutRouteTracksRawFixes(t *testing.T) {
	s := NewSession("", Config{})

	u := s.Apply(40.0, -120.0, 1000)
	assert.True(t, u.OnRoute) // nothing to deviate from
	assert.Equal(t, geo.Point{Latitude: 40.0, Longitude: -120.0}, u.Position)
}

func TestSessionPredict(t *testing.T) {
	t.Run("nil before any fix", func(t *testing.T) {
		s := eastboundSession()
		assert.Nil(t, s.Predict(1000))
	})

	t.Run("dead-reckons along the route during a gap", func(t *testing.T) {
		s := eastboundSession()
		s.Apply(0, 0, 0)
		s.Apply(0, 0.0005, 10_000) // moving east

		u := s.Predict(12_000)
		require.NotNil(t, u)
		assert.True(t, u.Predicted)
		// Velocity carries the marker past the last fix.
		assert.Greater(t, u.RouteDistanceM, geo.HaversineDistance(geo.Point{Latitude: 0, Longitude: 0}, geo.Point{Latitude: 0, Longitude: 0.0005})-1)
		assert.Equal(t, int64(12_000), u.TimestampMs)
	})

	t.Run("gap beyond the horizon stops advancing", func(t *testing.T) {
		s := eastboundSession()
		s.Apply(0, 0, 0)
		s.Apply(0, 0.0005, 10_000)

		atCap := s.Predict(15_000)
		wayPast := s.Predict(60_000)
		require.NotNil(t, atCap)
		require.NotNil(t, wayPast)
		assert.InDelta(t, atCap.Position.Longitude, wayPast.Position.Longitude, 1e-9)
	})
}

func TestSessionEasesBearingAroundCorners(t *testing.T) {
	s := NewSession("", Config{ToleranceMeters: 50})
	// L-shaped route: east along segment 0, then north along segment 1.
	s.route = geo.NewPolyline([]geo.Point{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 0.001},
		{Latitude: 0.001, Longitude: 0.001},
	})

	first := s.Apply(0, 0.0005, 1000)
	assert.InDelta(t, 90.0, first.Bearing, 1e-6)

	// Past the corner the segment bearing snaps to 0; the rendered bearing
	// only turns halfway per tick.
	second := s.Apply(0.0005, 0.001, 3000)
	assert.InDelta(t, 45.0, second.Bearing, 1e-6)

	third := s.Apply(0.0007, 0.001, 5000)
	assert.InDelta(t, 22.5, third.Bearing, 1e-6)
}

func TestNewSessionDecodesRoute(t *testing.T) {
	s := NewSession("_p~iF~ps|U_ulLnnqC_mqNvxq`@", Config{})
	require.Len(t, s.Route().Points, 3)
	assert.Greater(t, s.Route().TotalLength(), 0.0)

	t.Run("config defaults applied", func(t *testing.T) {
		assert.Equal(t, geo.DefaultRouteToleranceMeters, s.toleranceMeters)
		assert.Equal(t, geo.DefaultSmoothingFactor, s.smoothing)
		assert.Equal(t, int64(geo.DefaultMaxPredictionMs), s.maxPredictionMs)
	})
}

func TestSessionLastFixMs(t *testing.T) {
	s := eastboundSession()
	assert.Zero(t, s.LastFixMs())
	s.Apply(0, 0.0001, 4242)
	assert.Equal(t, int64(4242), s.LastFixMs())
}
