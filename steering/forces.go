package steering

import "gonum.org/v1/gonum/spatial/r3"

// HeadingAoA returns the unsigned horizontal angle between facing and velocity in degrees.
func HeadingAoA(facing, velocity r3.Vec) float64 {
	return Angle(Flatten(facing), Flatten(velocity))
}

// VelocityUpdate turns velocity toward facing at a rate of AoA / headingSteerConstant
// degrees per second. The turn is never more than the AoA itself, and the speed is kept.
//
// There is no separate rate cap: a large dt produces a large turn.
func VelocityUpdate(velocity, facing r3.Vec, headingSteerConstant, dt float64) r3.Vec {
	rotateAmount := HeadingAoA(facing, velocity) / headingSteerConstant
	return RotateTowardsFlat(velocity, facing, rotateAmount*dt)
}
