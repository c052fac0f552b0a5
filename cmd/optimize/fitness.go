package main

import (
	"errors"
	"math"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/airship/config"
	"github.com/pthm-cable/airship/steering"
)

// errNoScenario is returned for a tick budget that cannot measure settling.
var errNoScenario = errors.New("optimize scenario needs at least one tick")

// targetDistance places scenario targets far enough that the bearing never changes.
const targetDistance = 1000.0

// BearingResult is the outcome of one turn-to-bearing scenario.
type BearingResult struct {
	Bearing     float64
	SettleTicks int     // ticks until the heading error stayed below tolerance
	Settled     bool    // false if the error was still above tolerance at the end
	PeakError   float64 // largest heading error after the first tick (deg)
}

// RunBearing turns a craft starting on the canonical forward heading toward a fixed target
// at the given bearing (degrees, positive to the right) and measures how long the heading
// error takes to stay below tolerance.
func RunBearing(t steering.Tunables, bearing, tolerance, dt float64, maxTicks int) (BearingResult, error) {
	if maxTicks < 1 {
		return BearingResult{}, errNoScenario
	}
	model, err := steering.New(t)
	if err != nil {
		return BearingResult{}, err
	}

	rad := bearing * math.Pi / 180
	target := r3.Scale(targetDistance, r3.Vec{X: math.Sin(rad), Z: math.Cos(rad)})

	res := BearingResult{Bearing: bearing}
	lastUnsettled := 0
	for tick := 1; tick <= maxTicks; tick++ {
		step := model.Step(r3.Vec{}, target, dt)
		res.PeakError = math.Max(res.PeakError, step.HeadingError)
		if step.HeadingError >= tolerance {
			lastUnsettled = tick
		}
	}

	res.Settled = lastUnsettled < maxTicks
	res.SettleTicks = lastUnsettled
	return res, nil
}

// FitnessEvaluator scores steering tunables by how quickly they settle on each scenario
// bearing.
type FitnessEvaluator struct {
	params    *ParamVector
	base      *config.Config
	bearings  []float64
	tolerance float64
	maxTicks  int
	dt        float64

	mu          sync.Mutex
	lastResults []BearingResult
}

// NewFitnessEvaluator creates a new evaluator for the optimize scenario of cfg.
func NewFitnessEvaluator(params *ParamVector, cfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:    params,
		base:      cfg,
		bearings:  cfg.Optimize.Bearings,
		tolerance: cfg.Optimize.Tolerance,
		maxTicks:  cfg.Optimize.MaxTicks,
		dt:        cfg.Simulation.DT,
	}
}

// LastResults returns the per-bearing results of the most recent evaluation.
func (fe *FitnessEvaluator) LastResults() []BearingResult {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastResults
}

// Tunables returns the fleet-wide tunables with raw parameter values applied.
func (fe *FitnessEvaluator) Tunables(x []float64) steering.Tunables {
	cfg := *fe.base
	fe.params.ApplyToConfig(&cfg, x)
	return cfg.Steering
}

// Evaluate computes fitness for a raw parameter vector (lower = better): the mean settle
// time in seconds over all bearings, where an unsettled bearing costs twice the budget.
// An empty scenario scores +Inf.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	t := fe.Tunables(x)
	results := make([]BearingResult, len(fe.bearings))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, b := range fe.bearings {
		g.Go(func() error {
			r, err := RunBearing(t, b, fe.tolerance, fe.dt, fe.maxTicks)
			results[i] = r
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return math.Inf(1)
	}

	fe.mu.Lock()
	fe.lastResults = results
	fe.mu.Unlock()

	if len(results) == 0 {
		return math.Inf(1)
	}
	var total float64
	for _, r := range results {
		if r.Settled {
			total += float64(r.SettleTicks) * fe.dt
		} else {
			total += 2 * float64(fe.maxTicks) * fe.dt
		}
	}
	return total / float64(len(results))
}
