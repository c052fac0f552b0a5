// Package game runs the headless flight simulation: an ark world of airships, the
// steering, movement and navigation systems, and the telemetry around them.
package game

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/airship/components"
	"github.com/pthm-cable/airship/config"
	"github.com/pthm-cable/airship/systems"
	"github.com/pthm-cable/airship/telemetry"
)

// ErrSnapshotMismatch is returned when a resumed snapshot does not fit the configured fleet.
var ErrSnapshotMismatch = errors.New("snapshot does not match fleet")

// Options configures a Game.
type Options struct {
	Config         *config.Config // nil = config.Cfg()
	LogStats       bool           // log window stats, arrivals and bookmarks via slog
	OutputDir      string         // CSV output directory ("" = disabled)
	SnapshotDir    string         // bookmark and final snapshots ("" = disabled)
	Resume         string         // snapshot file to resume from ("" = fresh start)
	StepsPerUpdate int            // ticks per UpdateHeadless call (min 1)
	MaxTicks       int32          // UpdateHeadless never steps past this tick (0 = unlimited)

	// StatsCallback receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds the complete simulation state.
type Game struct {
	world *ecs.World
	cfg   *config.Config

	craftMapper *ecs.Map5[
		components.Craft,
		components.Position,
		components.Flight,
		components.Pilot,
		components.Route,
	]
	craftFilter *ecs.Filter5[
		components.Craft,
		components.Position,
		components.Flight,
		components.Pilot,
		components.Route,
	]
	byName map[string]ecs.Entity

	steering   *systems.SteeringSystem
	movement   *systems.MovementSystem
	navigation *systems.NavigationSystem

	// Telemetry
	collector        *telemetry.Collector
	perfCollector    *telemetry.PerfCollector
	bookmarkDetector *telemetry.BookmarkDetector
	lifetimeTracker  *telemetry.LifetimeTracker
	outputManager    *telemetry.OutputManager
	statsCallback    func(telemetry.WindowStats)
	flightBuf        []telemetry.FlightSample

	// State
	tick           int32
	dt             float64
	nextID         uint32
	logStats       bool
	snapshotDir    string
	stepsPerUpdate int
	maxTicks       int32
}

// NewGameWithOptions builds the fleet from configuration, optionally resuming from a
// snapshot.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	}

	world := ecs.NewWorld()
	g := &Game{
		world: world,
		cfg:   cfg,
		craftMapper: ecs.NewMap5[
			components.Craft,
			components.Position,
			components.Flight,
			components.Pilot,
			components.Route,
		](world),
		craftFilter: ecs.NewFilter5[
			components.Craft,
			components.Position,
			components.Flight,
			components.Pilot,
			components.Route,
		](world),
		byName: make(map[string]ecs.Entity),

		steering:   systems.NewSteeringSystem(world),
		movement:   systems.NewMovementSystem(world),
		navigation: systems.NewNavigationSystem(world),

		collector:        telemetry.NewCollector(cfg.Derived.TicksPerWindow, cfg.Simulation.DT),
		perfCollector:    telemetry.NewPerfCollector(cfg.Derived.TicksPerWindow),
		bookmarkDetector: telemetry.NewBookmarkDetector(10),
		lifetimeTracker:  telemetry.NewLifetimeTracker(),
		statsCallback:    opts.StatsCallback,

		dt:             cfg.Simulation.DT,
		logStats:       opts.LogStats,
		snapshotDir:    opts.SnapshotDir,
		stepsPerUpdate: max(opts.StepsPerUpdate, 1),
		maxTicks:       max(opts.MaxTicks, 0),
	}

	g.spawnFleet()

	if opts.Resume != "" {
		snapshot, err := telemetry.LoadSnapshot(opts.Resume)
		if err != nil {
			return nil, fmt.Errorf("resuming: %w", err)
		}
		if err := g.restoreSnapshot(snapshot); err != nil {
			return nil, fmt.Errorf("resuming from %s: %w", opts.Resume, err)
		}
		slog.Info("resumed from snapshot", "path", opts.Resume, "tick", g.tick)
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	return g, nil
}

// UpdateHeadless runs StepsPerUpdate simulation ticks, cut short at MaxTicks.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate && !g.Finished(); i++ {
		g.Step()
	}
}

// Finished reports whether the tick limit has been reached.
func (g *Game) Finished() bool {
	return g.maxTicks > 0 && g.tick >= g.maxTicks
}

// Step runs a single tick of the simulation.
func (g *Game) Step() {
	g.simulationStep()
}

// Tick returns the number of ticks simulated so far.
func (g *Game) Tick() int32 {
	return g.tick
}

// SimTime returns the simulated time in seconds.
func (g *Game) SimTime() float64 {
	return float64(g.tick) * g.dt
}

// World exposes the ECS world, e.g. for tests and tools that inspect crafts.
func (g *Game) World() *ecs.World {
	return g.world
}

// Craft returns the entity of the named craft.
func (g *Game) Craft(name string) (ecs.Entity, bool) {
	e, ok := g.byName[name]
	return e, ok
}

// RoutesDone reports how many crafts have finished their route, out of the whole fleet.
func (g *Game) RoutesDone() (done, total int) {
	query := g.craftFilter.Query()
	for query.Next() {
		_, _, _, _, route := query.Get()
		total++
		if route.Done {
			done++
		}
	}
	return done, total
}

// FlightLogs returns the per-craft flight summaries.
func (g *Game) FlightLogs() []telemetry.FlightLog {
	g.lifetimeTracker.UpdateFlightTime(g.tick, g.dt)
	return g.lifetimeTracker.All()
}

// Unload writes final outputs and closes files.
func (g *Game) Unload() {
	logs := g.FlightLogs()
	if err := g.outputManager.WriteFlightLogs(logs); err != nil {
		slog.Error("failed to write flight logs", "error", err)
	}
	if g.snapshotDir != "" {
		g.saveSnapshot(nil)
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	slog.Info("simulation finished", "tick", g.tick, "sim_time", g.SimTime(), "crafts", len(logs))
}
