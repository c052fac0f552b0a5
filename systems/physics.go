// Package systems contains ECS systems for the flight simulation.
package systems

import (
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/airship/components"
)

// MovementSystem integrates craft positions along their steered velocity.
type MovementSystem struct {
	filter ecs.Filter3[components.Position, components.Flight, components.Pilot]
}

// NewMovementSystem creates a new movement system.
func NewMovementSystem(w *ecs.World) *MovementSystem {
	return &MovementSystem{
		filter: *ecs.NewFilter3[components.Position, components.Flight, components.Pilot](w),
	}
}

// Update advances every craft by velocity * speed * dt.
func (s *MovementSystem) Update(dt float64) {
	if !(dt > 0) {
		return
	}
	query := s.filter.Query()
	for query.Next() {
		pos, flight, pilot := query.Get()
		step := r3.Scale(pilot.Speed*dt, flight.State.Velocity)
		pos.Set(r3.Add(pos.Vec(), step))
	}
}
