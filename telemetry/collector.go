package telemetry

import "github.com/pthm-cable/airship/steering"

// Collector accumulates per-step samples within time windows and produces WindowStats.
type Collector struct {
	windowDurationTicks int32
	dt                  float64

	// Current window tracking
	windowStartTick int32

	headingErrors []float64
	aoas          []float64
	turnRates     []float64
	arrivals      int
}

// NewCollector creates a new stats collector.
// ticksPerWindow: how many ticks each stats window spans
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(ticksPerWindow int, dt float64) *Collector {
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationTicks: int32(ticksPerWindow),
		dt:                  dt,
	}
}

// RecordStep records the outcome of one craft's steering step.
func (c *Collector) RecordStep(r steering.Result, turnRate float64) {
	c.headingErrors = append(c.headingErrors, r.HeadingError)
	c.aoas = append(c.aoas, r.HeadingAoA)
	c.turnRates = append(c.turnRates, turnRate)
}

// RecordArrival records a waypoint arrival.
func (c *Collector) RecordArrival() {
	c.arrivals++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces a WindowStats and resets the samples for the next window.
// crafts and routesDone describe the fleet at currentTick.
func (c *Collector) Flush(currentTick int32, crafts, routesDone int) WindowStats {
	errMean, errP50, errP90, errMax := ComputeStats(c.headingErrors)
	aoaMean, _, aoaP90, aoaMax := ComputeStats(c.aoas)
	rateMean, _, _, rateMax := ComputeStats(c.turnRates)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Crafts:     crafts,
		RoutesDone: routesDone,

		Samples:  len(c.headingErrors),
		Arrivals: c.arrivals,

		HeadingErrorMean: errMean,
		HeadingErrorP50:  errP50,
		HeadingErrorP90:  errP90,
		HeadingErrorMax:  errMax,

		AoAMean: aoaMean,
		AoAP90:  aoaP90,
		AoAMax:  aoaMax,

		TurnRateMean: rateMean,
		TurnRateMax:  rateMax,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.headingErrors = c.headingErrors[:0]
	c.aoas = c.aoas[:0]
	c.turnRates = c.turnRates[:0]
	c.arrivals = 0

	return stats
}

// Resume starts the next window at tick, e.g. after restoring a snapshot.
func (c *Collector) Resume(tick int32) {
	c.windowStartTick = tick
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
