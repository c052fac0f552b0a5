package systems

import (
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/airship/components"
)

// Arrival records a craft reaching a waypoint.
type Arrival struct {
	CraftID  uint32
	Craft    string
	Waypoint int
	Lap      int
	Finished bool // the route has no further waypoints
}

// NavigationSystem advances routes when a craft comes within the arrival radius of its
// active waypoint. Only horizontal distance counts since the model steers heading alone.
type NavigationSystem struct {
	filter ecs.Filter3[components.Craft, components.Position, components.Route]
}

// NewNavigationSystem creates a new navigation system.
func NewNavigationSystem(w *ecs.World) *NavigationSystem {
	return &NavigationSystem{
		filter: *ecs.NewFilter3[components.Craft, components.Position, components.Route](w),
	}
}

// Update advances at most one waypoint per craft and returns the arrivals of this tick.
func (s *NavigationSystem) Update() []Arrival {
	var arrivals []Arrival

	query := s.filter.Query()
	for query.Next() {
		craft, pos, route := query.Get()

		target, ok := route.Target()
		if !ok {
			continue
		}
		if horizontalDistance(pos.Vec(), target) > route.ArriveRadius {
			continue
		}

		reached := route.Index
		lap := route.Laps
		route.Advance()
		arrivals = append(arrivals, Arrival{
			CraftID:  craft.ID,
			Craft:    craft.Name,
			Waypoint: reached,
			Lap:      lap,
			Finished: route.Done,
		})
	}
	return arrivals
}
