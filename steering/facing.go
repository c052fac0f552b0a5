package steering

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// FacingUpdate computes a new facing by turning away from velocity toward the heading
// delta, by no more than maxDegrees. The turn always starts from velocity, so the result
// does not depend on the previous facing.
func FacingUpdate(velocity r3.Vec, headingDelta, maxDegrees float64) r3.Vec {
	desiredFacing := RotateAroundUp(velocity, headingDelta)
	return RotateTowardsFlat(velocity, desiredFacing, maxDegrees)
}

// AccumulateFacing advances the previous facing by the heading delta clamped to
// ±maxSpeed degrees per second.
func AccumulateFacing(facing r3.Vec, headingDelta, maxSpeed, dt float64) r3.Vec {
	rate := clamp(headingDelta, -maxSpeed, maxSpeed)
	return RotateAroundUp(facing, rate*dt)
}

// turnLimit returns the facing turn rate available this tick in degrees per second.
// With acceleration limiting enabled the rate may only grow by accel*dt per tick.
func turnLimit(prevRate float64, t Tunables, dt float64) float64 {
	if t.HeadingSteerAccel <= 0 {
		return t.MaxHeadingSteerSpeed
	}
	return math.Min(t.MaxHeadingSteerSpeed, prevRate+t.HeadingSteerAccel*dt)
}
