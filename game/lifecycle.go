package game

import (
	"fmt"
	"log/slog"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/airship/components"
	"github.com/pthm-cable/airship/config"
	"github.com/pthm-cable/airship/steering"
	"github.com/pthm-cable/airship/telemetry"
)

// spawnFleet creates one craft per fleet entry.
func (g *Game) spawnFleet() {
	for i := range g.cfg.Fleet {
		g.spawnCraft(&g.cfg.Fleet[i], g.cfg.Derived.CraftTunables[i])
	}
}

// spawnCraft creates a craft at its configured position with the initial steering state.
func (g *Game) spawnCraft(cc *config.CraftConfig, tunables steering.Tunables) ecs.Entity {
	id := g.nextID
	g.nextID++

	craft := components.Craft{ID: id, Name: cc.Name}
	var pos components.Position
	pos.Set(cc.Position.R3())
	flight := components.Flight{State: steering.NewState()}
	pilot := components.Pilot{Tunables: tunables, Speed: cc.Speed}

	waypoints := make([]r3.Vec, len(cc.Waypoints))
	for i, wp := range cc.Waypoints {
		waypoints[i] = wp.R3()
	}
	route := components.Route{
		Waypoints:    waypoints,
		Loop:         cc.Loop,
		ArriveRadius: cc.ArriveRadius,
		Done:         len(waypoints) == 0,
	}

	entity := g.craftMapper.NewEntity(&craft, &pos, &flight, &pilot, &route)
	g.byName[cc.Name] = entity
	g.lifetimeTracker.Register(id, cc.Name, g.tick)

	slog.Debug("craft spawned",
		"craft", cc.Name,
		"position", cc.Position,
		"waypoints", len(waypoints),
		"heading_steer_constant", tunables.HeadingSteerConstant,
		"max_heading_steer_speed", tunables.MaxHeadingSteerSpeed,
	)
	return entity
}

// restoreSnapshot overwrites the state of the configured fleet with a saved one.
// Crafts are matched by name; every craft in the snapshot must exist in the fleet.
func (g *Game) restoreSnapshot(s *telemetry.Snapshot) error {
	if s.DT != 0 && s.DT != g.dt {
		slog.Warn("snapshot dt differs from config", "snapshot_dt", s.DT, "config_dt", g.dt)
	}

	posMap := ecs.NewMap[components.Position](g.world)
	flightMap := ecs.NewMap[components.Flight](g.world)
	routeMap := ecs.NewMap[components.Route](g.world)
	craftMap := ecs.NewMap[components.Craft](g.world)

	for _, cs := range s.Crafts {
		entity, ok := g.byName[cs.Name]
		if !ok {
			return fmt.Errorf("%w: unknown craft %q", ErrSnapshotMismatch, cs.Name)
		}

		route := routeMap.Get(entity)
		if cs.RouteIndex < 0 || cs.RouteIndex > len(route.Waypoints) {
			return fmt.Errorf("%w: craft %q route index %d out of range", ErrSnapshotMismatch, cs.Name, cs.RouteIndex)
		}
		route.Index = cs.RouteIndex
		route.Laps = cs.Laps
		route.Done = cs.Done

		posMap.Get(entity).Set(config.Vec3(cs.Position).R3())
		flightMap.Get(entity).State = cs.Steering

		if cs.Log != nil {
			fl := g.lifetimeTracker.Get(craftMap.Get(entity).ID)
			id := fl.CraftID
			*fl = *cs.Log
			fl.CraftID = id
		}
	}

	g.tick = s.Tick
	g.collector.Resume(s.Tick)
	return nil
}
