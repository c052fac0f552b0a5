package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseSteering)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseMovement)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}
	if stats.MinTickDuration > stats.AvgTickDuration || stats.AvgTickDuration > stats.MaxTickDuration {
		t.Errorf("min/avg/max out of order: %v %v %v", stats.MinTickDuration, stats.AvgTickDuration, stats.MaxTickDuration)
	}
	if stats.PhasePct[PhaseSteering] <= 0 || stats.PhasePct[PhaseMovement] <= 0 {
		t.Errorf("expected steering and movement to be tracked, got %v", stats.PhasePct)
	}
	if stats.PhasePct[PhaseNavigation] != 0 {
		t.Errorf("navigation pct = %v, want 0 for an unused phase", stats.PhasePct[PhaseNavigation])
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)

	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseSteering)
		time.Sleep(10 * time.Microsecond)
		pc.EndTick()
	}

	if pc.count != 5 {
		t.Errorf("window holds %d ticks, want 5", pc.count)
	}
	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}
	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseNavigation)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(PhaseSteering)
		time.Sleep(500 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()
	fast, slow := stats.PhasePct[PhaseNavigation], stats.PhasePct[PhaseSteering]
	if slow <= fast {
		t.Errorf("expected steering (%v%%) > navigation (%v%%)", slow, fast)
	}
	if total := fast + slow; total > 100+1e-9 {
		t.Errorf("phase shares sum to %v%%, want at most 100", total)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	stats := NewPerfCollector(10).Stats()
	if stats != (PerfStats{}) {
		t.Errorf("empty collector stats = %+v, want zero", stats)
	}
}

func TestPhaseString(t *testing.T) {
	tests := []struct {
		phase Phase
		want  string
	}{
		{PhaseSteering, "steering"},
		{PhaseTelemetry, "telemetry"},
		{Phase(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.phase.String(); got != tt.want {
			t.Errorf("Phase(%d).String() = %q, want %q", int(tt.phase), got, tt.want)
		}
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	stats := PerfStats{
		AvgTickDuration: 150 * time.Microsecond,
		MinTickDuration: 100 * time.Microsecond,
		MaxTickDuration: 300 * time.Microsecond,
		TicksPerSecond:  6666,
	}
	stats.PhasePct[PhaseSteering] = 60
	stats.PhasePct[PhaseNavigation] = 10

	row := stats.ToCSV(500)

	if row.WindowEnd != 500 || row.AvgTickUS != 150 || row.MaxTickUS != 300 {
		t.Errorf("timing columns = %+v", row)
	}
	if row.SteeringPct != 60 || row.NavigationPct != 10 || row.MovementPct != 0 {
		t.Errorf("phase columns = %+v", row)
	}
}
