// Package telemetry provides flight statistics, CSV output, bookmarks and snapshots.
package telemetry

import "log/slog"

// ArrivalEvent records a craft reaching a waypoint.
type ArrivalEvent struct {
	Tick     int32   `csv:"tick"`
	SimTime  float64 `csv:"sim_time"`
	CraftID  uint32  `csv:"craft_id"`
	Craft    string  `csv:"craft"`
	Waypoint int     `csv:"waypoint"`
	Lap      int     `csv:"lap"`
	Finished bool    `csv:"finished"`
}

// LogEvent logs the arrival using slog.
func (e ArrivalEvent) LogEvent() {
	slog.Info("arrival",
		"tick", e.Tick,
		"craft", e.Craft,
		"waypoint", e.Waypoint,
		"lap", e.Lap,
		"finished", e.Finished,
	)
}

// FlightSample is one row of flight.csv: the state of a craft after a tick.
type FlightSample struct {
	Tick    int32   `csv:"tick"`
	SimTime float64 `csv:"sim_time"`
	Craft   string  `csv:"craft"`

	X float64 `csv:"x"`
	Y float64 `csv:"y"`
	Z float64 `csv:"z"`

	// Horizontal bearings in degrees, 0 = +Z, 90 = +X
	VelocityYaw float64 `csv:"velocity_yaw"`
	FacingYaw   float64 `csv:"facing_yaw"`

	HeadingDelta float64 `csv:"heading_delta"`
	HeadingAoA   float64 `csv:"heading_aoa"`
	HeadingError float64 `csv:"heading_error"`
	TurnRate     float64 `csv:"turn_rate"`

	Waypoint int  `csv:"waypoint"`
	Done     bool `csv:"done"`
}
