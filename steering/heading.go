package steering

import "gonum.org/v1/gonum/spatial/r3"

// HeadingDelta returns the signed correction, in degrees, that the facing should lead the
// velocity by to pull onto desiredVelocity. The raw bearing error is scaled by the steer
// constant so one tunable sets how hard the nose leads the turn.
func HeadingDelta(velocity, desiredVelocity r3.Vec, headingSteerConstant float64) float64 {
	return SignedAngleAroundUp(velocity, desiredVelocity) * headingSteerConstant
}
