// Package components defines ECS components for the flight simulation.
package components

import (
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/airship/steering"
)

// Craft identifies an airship.
type Craft struct {
	ID   uint32
	Name string
}

// Flight holds the steering state carried between ticks and the outputs of the last step.
type Flight struct {
	State steering.State
	Last  steering.Result
}

// Pilot holds the per-craft steering constants and cruise airspeed.
type Pilot struct {
	Tunables steering.Tunables
	Speed    float64 // world units per second along velocity
}

// Route is an ordered list of waypoints the craft steers toward.
type Route struct {
	Waypoints    []r3.Vec
	Index        int
	Loop         bool
	ArriveRadius float64
	Done         bool
	Laps         int
}

// Target returns the active waypoint. ok is false when the route is finished or empty.
func (r *Route) Target() (target r3.Vec, ok bool) {
	if r.Done || r.Index < 0 || r.Index >= len(r.Waypoints) {
		return r3.Vec{}, false
	}
	return r.Waypoints[r.Index], true
}

// Advance moves to the next waypoint. A looping route wraps to the first waypoint and
// counts a lap; otherwise the route is marked done after the last waypoint.
func (r *Route) Advance() {
	if r.Done {
		return
	}
	r.Index++
	if r.Index < len(r.Waypoints) {
		return
	}
	if r.Loop && len(r.Waypoints) > 0 {
		r.Index = 0
		r.Laps++
		return
	}
	r.Index = len(r.Waypoints)
	r.Done = true
}
