package telemetry

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Phase is one stage of a simulation tick.
type Phase int

// Phases in execution order.
const (
	PhaseSteering Phase = iota
	PhaseMovement
	PhaseNavigation
	PhaseTelemetry
	numPhases
)

var phaseNames = [numPhases]string{"steering", "movement", "navigation", "telemetry"}

func (p Phase) String() string {
	if p < 0 || p >= numPhases {
		return "unknown"
	}
	return phaseNames[p]
}

// tickTiming is the wall time of one tick, split by phase.
type tickTiming struct {
	total  time.Duration
	phases [numPhases]time.Duration
}

// PerfCollector keeps the last windowSize tick timings in a ring.
type PerfCollector struct {
	ring  []tickTiming
	next  int
	count int

	current    tickTiming
	tickStart  time.Time
	phaseStart time.Time
	phase      Phase
	inPhase    bool
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 50
	}
	return &PerfCollector{ring: make([]tickTiming, windowSize)}
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = tickTiming{}
	p.inPhase = false
}

// StartPhase closes the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase Phase) {
	now := time.Now()
	p.closePhase(now)
	p.phaseStart = now
	p.phase = phase
	p.inPhase = phase >= 0 && phase < numPhases
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.inPhase {
		p.current.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick finishes the current tick and stores it in the ring.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.inPhase = false
	p.current.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.current
	p.next = (p.next + 1) % len(p.ring)
	p.count = min(p.count+1, len(p.ring))
}

// PerfStats summarizes tick timing over the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	TicksPerSecond  float64

	// PhasePct is each phase's share of the average tick, in percent.
	PhasePct [numPhases]float64
}

// Stats aggregates the ticks currently held in the window.
func (p *PerfCollector) Stats() PerfStats {
	if p.count == 0 {
		return PerfStats{}
	}

	totals := make([]float64, p.count)
	var phaseSums [numPhases]float64
	for i, tt := range p.ring[:p.count] {
		totals[i] = float64(tt.total)
		for ph, d := range tt.phases {
			phaseSums[ph] += float64(d)
		}
	}

	sum := floats.Sum(totals)
	s := PerfStats{
		AvgTickDuration: time.Duration(sum / float64(p.count)),
		MinTickDuration: time.Duration(floats.Min(totals)),
		MaxTickDuration: time.Duration(floats.Max(totals)),
	}
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	if sum > 0 {
		for ph := range phaseSums {
			s.PhasePct[ph] = phaseSums[ph] / sum * 100
		}
	}
	return s
}

// LogStats logs the window at info level, skipping phases under 0.1%.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	for ph, pct := range s.PhasePct {
		if pct > 0.1 {
			attrs = append(attrs, Phase(ph).String()+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer for structured logging.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	for ph, pct := range s.PhasePct {
		attrs = append(attrs, slog.Float64(Phase(ph).String()+"_pct", pct))
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd     int32   `csv:"window_end"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MinTickUS     int64   `csv:"min_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	SteeringPct   float64 `csv:"steering_pct"`
	MovementPct   float64 `csv:"movement_pct"`
	NavigationPct float64 `csv:"navigation_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV flattens s for the window ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		MinTickUS:     s.MinTickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		SteeringPct:   s.PhasePct[PhaseSteering],
		MovementPct:   s.PhasePct[PhaseMovement],
		NavigationPct: s.PhasePct[PhaseNavigation],
		TelemetryPct:  s.PhasePct[PhaseTelemetry],
	}
}
