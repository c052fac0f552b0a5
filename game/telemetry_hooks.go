package game

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/airship/systems"
	"github.com/pthm-cable/airship/telemetry"
)

// recordArrivals forwards this tick's waypoint arrivals to telemetry.
func (g *Game) recordArrivals(arrivals []systems.Arrival) {
	for _, a := range arrivals {
		e := telemetry.ArrivalEvent{
			Tick:     g.tick,
			SimTime:  g.SimTime(),
			CraftID:  a.CraftID,
			Craft:    a.Craft,
			Waypoint: a.Waypoint,
			Lap:      a.Lap,
			Finished: a.Finished,
		}

		g.collector.RecordArrival()
		g.lifetimeTracker.RecordArrival(e)
		if g.logStats {
			e.LogEvent()
		}
		if err := g.outputManager.WriteArrival(e); err != nil {
			slog.Error("failed to write arrival", "error", err)
		}
	}
}

// recordFlight samples every craft after the tick and writes flight.csv rows on the
// configured interval.
func (g *Game) recordFlight() {
	sample := g.outputManager != nil && int(g.tick)%g.cfg.Telemetry.SampleEvery == 0
	g.flightBuf = g.flightBuf[:0]

	query := g.craftFilter.Query()
	for query.Next() {
		craft, pos, flight, pilot, route := query.Get()

		last := flight.Last
		turnRate := flight.State.TurnRate
		distance := pilot.Speed * r3.Norm(flight.State.Velocity) * g.dt

		g.collector.RecordStep(last, turnRate)
		g.lifetimeTracker.RecordStep(craft.ID, distance, last.HeadingError, last.HeadingAoA, turnRate)
		g.lifetimeTracker.SetLaps(craft.ID, route.Laps)

		if !sample {
			continue
		}
		g.flightBuf = append(g.flightBuf, telemetry.FlightSample{
			Tick:         g.tick,
			SimTime:      g.SimTime(),
			Craft:        craft.Name,
			X:            pos.X,
			Y:            pos.Y,
			Z:            pos.Z,
			VelocityYaw:  yawDegrees(flight.State.Velocity),
			FacingYaw:    yawDegrees(flight.State.Facing),
			HeadingDelta: last.HeadingDelta,
			HeadingAoA:   last.HeadingAoA,
			HeadingError: last.HeadingError,
			TurnRate:     turnRate,
			Waypoint:     route.Index,
			Done:         route.Done,
		})
	}

	if err := g.outputManager.WriteFlight(g.flightBuf); err != nil {
		slog.Error("failed to write flight samples", "error", err)
	}
}

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	done, total := g.RoutesDone()
	stats := g.collector.Flush(g.tick, total, done)
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if err := g.outputManager.WriteStats(stats); err != nil {
		slog.Error("failed to write stats", "error", err)
	}
	if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
		slog.Error("failed to write perf", "error", err)
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if err := g.outputManager.WriteBookmark(bm); err != nil {
			slog.Error("failed to write bookmark", "error", err)
		}
		if g.snapshotDir != "" {
			g.saveSnapshot(&bm)
		}
	}
}

// saveSnapshot creates and saves a snapshot to disk.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	path, err := telemetry.SaveSnapshot(g.Snapshot(bookmark), g.snapshotDir)
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}
	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}

// Snapshot captures the current fleet state, optionally tagged with a bookmark.
func (g *Game) Snapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snapshot := &telemetry.Snapshot{
		Version:  telemetry.SnapshotVersion,
		Tick:     g.tick,
		DT:       g.dt,
		Bookmark: bookmark,
	}

	g.lifetimeTracker.UpdateFlightTime(g.tick, g.dt)

	query := g.craftFilter.Query()
	for query.Next() {
		craft, pos, flight, _, route := query.Get()

		var fl *telemetry.FlightLog
		if l := g.lifetimeTracker.Get(craft.ID); l != nil {
			c := *l
			fl = &c
		}

		snapshot.Crafts = append(snapshot.Crafts, telemetry.CraftState{
			ID:         craft.ID,
			Name:       craft.Name,
			Position:   [3]float64{pos.X, pos.Y, pos.Z},
			Steering:   flight.State,
			RouteIndex: route.Index,
			Laps:       route.Laps,
			Done:       route.Done,
			Log:        fl,
		})
	}

	return snapshot
}

// yawDegrees returns the horizontal bearing of v: 0 along +Z, 90 along +X.
func yawDegrees(v r3.Vec) float64 {
	return math.Atan2(v.X, v.Z) * 180 / math.Pi
}
