package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/airship/components"
	"github.com/pthm-cable/airship/steering"
)

// SteeringSystem runs one step of the heading model for every craft, aiming at the
// active waypoint of its route.
type SteeringSystem struct {
	filter ecs.Filter4[components.Position, components.Flight, components.Pilot, components.Route]
}

// NewSteeringSystem creates a new steering system.
func NewSteeringSystem(w *ecs.World) *SteeringSystem {
	return &SteeringSystem{
		filter: *ecs.NewFilter4[components.Position, components.Flight, components.Pilot, components.Route](w),
	}
}

// Update steps every craft by dt seconds. A craft without an active waypoint holds its
// current course.
func (s *SteeringSystem) Update(dt float64) {
	query := s.filter.Query()
	for query.Next() {
		pos, flight, pilot, route := query.Get()

		p := pos.Vec()
		target, ok := route.Target()
		if !ok {
			target = r3.Add(p, flight.State.Velocity)
		}
		flight.Last = steering.Step(&flight.State, pilot.Tunables, p, target, dt)
	}
}
