package systems

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/airship/steering"
)

// horizontalDistance returns the distance between two points projected onto the
// horizontal plane.
func horizontalDistance(a, b r3.Vec) float64 {
	return r3.Norm(steering.Flatten(r3.Sub(b, a)))
}
