package telemetry

import "testing"

func TestLifetimeTracker(t *testing.T) {
	lt := NewLifetimeTracker()
	lt.Register(2, "hauler", 10)
	lt.Register(1, "scout", 0)

	lt.RecordStep(1, 1.5, 30, 5, 20)
	lt.RecordStep(1, 1.5, 10, 8, 45)
	lt.RecordStep(99, 1, 1, 1, 1) // unknown craft is ignored

	lt.RecordArrival(ArrivalEvent{Tick: 50, CraftID: 1, Waypoint: 0})
	lt.RecordArrival(ArrivalEvent{Tick: 90, CraftID: 1, Waypoint: 1, Finished: true})
	lt.SetLaps(2, 3)
	lt.UpdateFlightTime(110, 0.1)

	scout := lt.Get(1)
	if scout.Distance != 3 || scout.PeakHeadingError != 30 || scout.PeakAoA != 8 || scout.PeakTurnRate != 45 {
		t.Errorf("scout log = %+v", scout)
	}
	if scout.Arrivals != 2 || scout.FinishTick != 90 {
		t.Errorf("scout arrivals/finish = %d/%d, want 2/90", scout.Arrivals, scout.FinishTick)
	}

	hauler := lt.Get(2)
	if hauler.FinishTick != -1 || hauler.Laps != 3 {
		t.Errorf("hauler log = %+v", hauler)
	}
	if hauler.FlightTimeSec < 9.99 || hauler.FlightTimeSec > 10.01 {
		t.Errorf("hauler flight time = %v, want 10", hauler.FlightTimeSec)
	}

	all := lt.All()
	if len(all) != 2 || all[0].Craft != "hauler" || all[1].Craft != "scout" {
		t.Errorf("All() order = %+v", all)
	}
	if lt.Count() != 2 {
		t.Errorf("Count() = %d, want 2", lt.Count())
	}
}
