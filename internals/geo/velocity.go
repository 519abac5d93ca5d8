package geo

import "math"

const (
	// DefaultSmoothingFactor weights a new velocity sample against the
	// running estimate when updating a VelocityState.
	DefaultSmoothingFactor = 0.3

	// DefaultMaxPredictionMs caps how long dead-reckoning will extrapolate
	// through a GPS gap before the last fix is considered stale.
	DefaultMaxPredictionMs = 5000

	// minVelocityDeltaSeconds is the smallest fix interval worth
	// re-estimating velocity from; anything shorter only moves the position.
	minVelocityDeltaSeconds = 0.1
)

// VelocityState is the dead-reckoning state for one tracked vehicle: the
// last known position, a smoothed velocity in degrees per second on each
// axis, the derived travel bearing and the fix timestamp. Updates return a
// new value instead of mutating, so ownership and locking stay with the
// caller.
type VelocityState struct {
	Position     Point
	VelLatPerSec float64
	VelLngPerSec float64
	Bearing      float64
	TimestampMs  int64
}

// LerpBearing interpolates between two bearings along the shorter angular
// path, so 350°→10° passes through 0° rather than 180°. Inputs are
// normalized first and the result is in [0, 360).
func LerpBearing(from, to, t float64) float64 {
	from = NormalizeBearing(from)
	to = NormalizeBearing(to)

	diff := to - from
	if diff > 180 {
		diff -= 360
	} else if diff <= -180 {
		diff += 360
	}

	return NormalizeBearing(from + diff*t)
}

// UpdateVelocity folds a new GPS fix into the previous state. With no
// previous state, or a timestamp that has not advanced, it returns a fresh
// zero-velocity state at the new position (out-of-order samples are
// rejected rather than producing negative-time artifacts). A fix interval
// under 0.1 s keeps the previous velocity estimate and only moves the
// position. smoothingFactor is the weight of the new sample; pass
// DefaultSmoothingFactor unless tuning.
func UpdateVelocity(prev *VelocityState, lat, lng float64, timestampMs int64, smoothingFactor float64) VelocityState {
	position := Point{Latitude: lat, Longitude: lng}

	if prev == nil || timestampMs <= prev.TimestampMs {
		return VelocityState{Position: position, TimestampMs: timestampMs}
	}

	dt := float64(timestampMs-prev.TimestampMs) / 1000
	if dt < minVelocityDeltaSeconds {
		next := *prev
		next.Position = position
		next.TimestampMs = timestampMs
		return next
	}

	rawVelLat := (lat - prev.Position.Latitude) / dt
	rawVelLng := (lng - prev.Position.Longitude) / dt

	velLat := Lerp(prev.VelLatPerSec, rawVelLat, smoothingFactor)
	velLng := Lerp(prev.VelLngPerSec, rawVelLng, smoothingFactor)

	bearing := prev.Bearing
	if velLat != 0 || velLng != 0 {
		bearing = NormalizeBearing(math.Atan2(velLng, velLat) * 180 / math.Pi)
	}

	return VelocityState{
		Position:     position,
		VelLatPerSec: velLat,
		VelLngPerSec: velLng,
		Bearing:      bearing,
		TimestampMs:  timestampMs,
	}
}

// PredictPosition linearly extrapolates from the state's position using its
// smoothed velocity. The extrapolation horizon is capped at maxPredictionMs
// so a long GPS outage cannot walk the marker arbitrarily far from the last
// real fix.
func PredictPosition(state VelocityState, currentTimeMs int64, maxPredictionMs int64) Point {
	elapsedMs := currentTimeMs - state.TimestampMs
	if elapsedMs <= 0 {
		return state.Position
	}
	if elapsedMs > maxPredictionMs {
		elapsedMs = maxPredictionMs
	}

	seconds := float64(elapsedMs) / 1000
	return Point{
		Latitude:  state.Position.Latitude + state.VelLatPerSec*seconds,
		Longitude: state.Position.Longitude + state.VelLngPerSec*seconds,
	}
}
