package game

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/airship/config"
	"github.com/pthm-cable/airship/telemetry"
)

const testFleet = `
simulation:
  dt: 0.1
steering:
  heading_steer_constant: 1.0
  max_heading_steer_speed: 90
telemetry:
  stats_window: 1
  sample_every: 5
fleet:
  - name: alpha
    position: [0, 100, 0]
    speed: 10
    arrive_radius: 10
    waypoints:
      - [0, 100, 100]
      - [300, 100, 300]
  - name: beta
    position: [50, 80, 0]
    speed: 6
    loop: true
    arrive_radius: 10
    steering:
      heading_steer_constant: 1.5
      max_heading_steer_speed: 30
    waypoints:
      - [50, 80, 150]
      - [250, 80, 150]
`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fleet.yaml")
	if err := os.WriteFile(path, []byte(testFleet), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return cfg
}

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()
	if opts.Config == nil {
		opts.Config = testConfig(t)
	}
	g, err := NewGameWithOptions(opts)
	if err != nil {
		t.Fatalf("NewGameWithOptions: %v", err)
	}
	return g
}

func TestGameFliesRoute(t *testing.T) {
	var windows []telemetry.WindowStats
	g := newTestGame(t, Options{
		StatsCallback: func(s telemetry.WindowStats) { windows = append(windows, s) },
	})
	defer g.Unload()

	for g.Tick() < 5000 {
		g.Step()
		if done, _ := g.RoutesDone(); done == 1 {
			break
		}
	}

	done, total := g.RoutesDone()
	if total != 2 {
		t.Fatalf("fleet size = %d, want 2", total)
	}
	if done != 1 {
		t.Fatalf("routes done = %d at tick %d, want alpha finished and looping beta not", done, g.Tick())
	}

	logs := g.FlightLogs()
	if logs[0].Craft != "alpha" || logs[0].FinishTick <= 0 || logs[0].Arrivals != 2 {
		t.Errorf("alpha log = %+v", logs[0])
	}
	if logs[0].Distance <= 0 {
		t.Errorf("alpha distance = %v, want > 0", logs[0].Distance)
	}

	wantWindows := int(g.Tick()) / 10
	if len(windows) != wantWindows {
		t.Errorf("stats windows = %d, want %d", len(windows), wantWindows)
	}
	for _, w := range windows {
		if w.Samples != 20 || w.Crafts != 2 {
			t.Fatalf("window %+v, want 20 samples from 2 crafts", w)
		}
	}
}

func TestUpdateHeadlessStepsPerUpdate(t *testing.T) {
	g := newTestGame(t, Options{StepsPerUpdate: 4})
	defer g.Unload()

	g.UpdateHeadless()
	g.UpdateHeadless()
	if g.Tick() != 8 {
		t.Errorf("Tick() = %d, want 8", g.Tick())
	}
}

func TestUpdateHeadlessStopsAtMaxTicks(t *testing.T) {
	g := newTestGame(t, Options{StepsPerUpdate: 4, MaxTicks: 10})
	defer g.Unload()

	for i := 0; i < 5; i++ {
		g.UpdateHeadless()
	}
	if g.Tick() != 10 {
		t.Errorf("Tick() = %d, want 10", g.Tick())
	}
	if !g.Finished() {
		t.Error("Finished() = false at the tick limit")
	}
}

func TestGameWritesOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	snapDir := filepath.Join(t.TempDir(), "snaps")
	g := newTestGame(t, Options{OutputDir: dir, SnapshotDir: snapDir})

	for i := 0; i < 25; i++ {
		g.Step()
	}
	g.Unload()

	for _, name := range []string{"config.yaml", "flight.csv", "stats.csv", "perf.csv", "crafts.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if _, err := telemetry.LoadSnapshot(filepath.Join(snapDir, "snapshot_25.json")); err != nil {
		t.Errorf("final snapshot: %v", err)
	}
}

func TestResumeMatchesUninterruptedRun(t *testing.T) {
	cfg := testConfig(t)

	full := newTestGame(t, Options{Config: cfg})
	defer full.Unload()
	for i := 0; i < 150; i++ {
		full.Step()
	}
	path, err := telemetry.SaveSnapshot(full.Snapshot(nil), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 150; i++ {
		full.Step()
	}

	resumed := newTestGame(t, Options{Config: cfg, Resume: path})
	defer resumed.Unload()
	if resumed.Tick() != 150 {
		t.Fatalf("resumed tick = %d, want 150", resumed.Tick())
	}
	for i := 0; i < 150; i++ {
		resumed.Step()
	}

	want := full.Snapshot(nil)
	got := resumed.Snapshot(nil)
	if len(got.Crafts) != len(want.Crafts) {
		t.Fatalf("crafts = %d, want %d", len(got.Crafts), len(want.Crafts))
	}
	for i := range want.Crafts {
		w, g := want.Crafts[i], got.Crafts[i]
		if g.Position != w.Position || g.Steering != w.Steering || g.RouteIndex != w.RouteIndex || g.Laps != w.Laps {
			t.Errorf("craft %s diverged after resume:\n got %+v\nwant %+v", w.Name, g, w)
		}
	}
}

func TestResumeRejectsUnknownCraft(t *testing.T) {
	path, err := telemetry.SaveSnapshot(&telemetry.Snapshot{
		Version: telemetry.SnapshotVersion,
		Tick:    10,
		Crafts:  []telemetry.CraftState{{Name: "ghost"}},
	}, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	_, err = NewGameWithOptions(Options{Config: testConfig(t), Resume: path})
	if !errors.Is(err, ErrSnapshotMismatch) {
		t.Errorf("error = %v, want ErrSnapshotMismatch", err)
	}
}
