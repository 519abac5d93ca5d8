package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodePolyline(t *testing.T) {
	t.Run("google reference fixture", func(t *testing.T) {
		// Canonical example from the encoded polyline format docs.
		points := DecodePolyline("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
		require.Len(t, points, 3)

		want := []Point{
			{Latitude: 38.5, Longitude: -120.2},
			{Latitude: 40.7, Longitude: -120.95},
			{Latitude: 43.252, Longitude: -126.453},
		}
		for i, w := range want {
			assert.InDelta(t, w.Latitude, points[i].Latitude, 1e-5)
			assert.InDelta(t, w.Longitude, points[i].Longitude, 1e-5)
		}
	})

	t.Run("empty string", func(t *testing.T) {
		assert.Empty(t, DecodePolyline(""))
	})

	t.Run("single point", func(t *testing.T) {
		// "_p~iF~ps|U" is just the first vertex of the fixture.
		points := DecodePolyline("_p~iF~ps|U")
		require.Len(t, points, 1)
		assert.InDelta(t, 38.5, points[0].Latitude, 1e-5)
		assert.InDelta(t, -120.2, points[0].Longitude, 1e-5)
	})

	t.Run("negative deltas accumulate through zig-zag", func(t *testing.T) {
		// Second pair reuses the fixture chunks, so the deltas are known:
		// lat -120.2, lng +38.5 relative to the first vertex.
		points := DecodePolyline("_p~iF~ps|U~ps|U_p~iF")
		require.Len(t, points, 2)
		assert.InDelta(t, 38.5-120.2, points[1].Latitude, 1e-5)
		assert.InDelta(t, -120.2+38.5, points[1].Longitude, 1e-5)
	})
}

func TestCumulativeDistances(t *testing.T) {
	t.Run("degenerate inputs", func(t *testing.T) {
		assert.Empty(t, CumulativeDistances(nil))
		assert.Equal(t, []float64{0}, CumulativeDistances([]Point{{1, 2}}))
	})

	t.Run("monotonic and matches pairwise sums", func(t *testing.T) {
		points := DecodePolyline("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
		cum := CumulativeDistances(points)
		require.Len(t, cum, len(points))

		assert.Zero(t, cum[0])
		var total float64
		for i := 1; i < len(points); i++ {
			total += HaversineDistance(points[i-1], points[i])
			assert.GreaterOrEqual(t, cum[i], cum[i-1])
			assert.InDelta(t, total, cum[i], 1e-6)
		}
	})

	t.Run("repeated vertex keeps sequence non-decreasing", func(t *testing.T) {
		p := Point{10, 20}
		cum := CumulativeDistances([]Point{p, p, {10.001, 20}})
		assert.Equal(t, cum[0], cum[1])
		assert.Greater(t, cum[2], cum[1])
	})
}

func TestPolylineTotalLength(t *testing.T) {
	assert.Zero(t, NewPolyline(nil).TotalLength())
	assert.Zero(t, NewPolyline([]Point{{0, 0}}).TotalLength())

	route := DecodeRoute("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	assert.Equal(t, route.CumDistances[len(route.CumDistances)-1], route.TotalLength())
	assert.Greater(t, route.TotalLength(), 0.0)
}
