package telemetry

import "math"

// FlightLog tracks per-craft statistics over the whole run.
type FlightLog struct {
	CraftID          uint32  `csv:"craft_id"`
	Craft            string  `csv:"craft"`
	StartTick        int32   `csv:"start_tick"`
	FlightTimeSec    float64 `csv:"flight_time"`
	Distance         float64 `csv:"distance"`
	Arrivals         int     `csv:"arrivals"`
	Laps             int     `csv:"laps"`
	FinishTick       int32   `csv:"finish_tick"` // -1 while the route is unfinished
	PeakHeadingError float64 `csv:"peak_heading_error"`
	PeakAoA          float64 `csv:"peak_aoa"`
	PeakTurnRate     float64 `csv:"peak_turn_rate"`
}

// LifetimeTracker manages per-craft flight logs.
type LifetimeTracker struct {
	logs  map[uint32]*FlightLog
	order []uint32
}

// NewLifetimeTracker creates a new lifetime tracker.
func NewLifetimeTracker() *LifetimeTracker {
	return &LifetimeTracker{
		logs: make(map[uint32]*FlightLog),
	}
}

// Register creates a flight log for a craft.
func (lt *LifetimeTracker) Register(craftID uint32, name string, startTick int32) {
	if _, ok := lt.logs[craftID]; !ok {
		lt.order = append(lt.order, craftID)
	}
	lt.logs[craftID] = &FlightLog{
		CraftID:    craftID,
		Craft:      name,
		StartTick:  startTick,
		FinishTick: -1,
	}
}

// Get returns the flight log for a craft, or nil if not found.
func (lt *LifetimeTracker) Get(craftID uint32) *FlightLog {
	return lt.logs[craftID]
}

// RecordStep accumulates one tick of flight.
func (lt *LifetimeTracker) RecordStep(craftID uint32, distance, headingErr, aoa, turnRate float64) {
	s := lt.logs[craftID]
	if s == nil {
		return
	}
	s.Distance += distance
	s.PeakHeadingError = math.Max(s.PeakHeadingError, headingErr)
	s.PeakAoA = math.Max(s.PeakAoA, aoa)
	s.PeakTurnRate = math.Max(s.PeakTurnRate, turnRate)
}

// RecordArrival counts an arrival and notes when the route finished.
func (lt *LifetimeTracker) RecordArrival(e ArrivalEvent) {
	s := lt.logs[e.CraftID]
	if s == nil {
		return
	}
	s.Arrivals++
	if e.Finished && s.FinishTick < 0 {
		s.FinishTick = e.Tick
	}
}

// SetLaps records the number of completed laps of a looping route.
func (lt *LifetimeTracker) SetLaps(craftID uint32, laps int) {
	if s := lt.logs[craftID]; s != nil {
		s.Laps = laps
	}
}

// UpdateFlightTime updates the flight time based on current tick.
func (lt *LifetimeTracker) UpdateFlightTime(currentTick int32, dt float64) {
	for _, s := range lt.logs {
		s.FlightTimeSec = float64(currentTick-s.StartTick) * dt
	}
}

// All returns the flight logs in registration order.
func (lt *LifetimeTracker) All() []FlightLog {
	out := make([]FlightLog, 0, len(lt.order))
	for _, id := range lt.order {
		out = append(out, *lt.logs[id])
	}
	return out
}

// Count returns the number of tracked crafts.
func (lt *LifetimeTracker) Count() int {
	return len(lt.logs)
}
