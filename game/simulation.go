package game

import "github.com/pthm-cable/airship/telemetry"

// simulationStep runs a single tick of the simulation.
func (g *Game) simulationStep() {
	g.perfCollector.StartTick()

	// 1. Heading, facing and velocity for every craft
	g.perfCollector.StartPhase(telemetry.PhaseSteering)
	g.steering.Update(g.dt)

	// 2. Integrate positions along the new velocity
	g.perfCollector.StartPhase(telemetry.PhaseMovement)
	g.movement.Update(g.dt)

	// 3. Advance routes on arrival
	g.perfCollector.StartPhase(telemetry.PhaseNavigation)
	arrivals := g.navigation.Update()

	g.tick++

	// 4. Telemetry
	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.recordArrivals(arrivals)
	g.recordFlight()
	g.perfCollector.EndTick()

	g.flushTelemetry()
}
