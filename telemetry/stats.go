package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated flight statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Fleet at window end
	Crafts     int `csv:"crafts"`
	RoutesDone int `csv:"routes_done"`

	// Events during window
	Samples  int `csv:"samples"`
	Arrivals int `csv:"arrivals"`

	// Angle between velocity and target bearing (deg)
	HeadingErrorMean float64 `csv:"heading_error_mean"`
	HeadingErrorP50  float64 `csv:"heading_error_p50"`
	HeadingErrorP90  float64 `csv:"heading_error_p90"`
	HeadingErrorMax  float64 `csv:"heading_error_max"`

	// Angle of attack between facing and velocity (deg)
	AoAMean float64 `csv:"aoa_mean"`
	AoAP90  float64 `csv:"aoa_p90"`
	AoAMax  float64 `csv:"aoa_max"`

	// Facing turn rate (deg/s)
	TurnRateMean float64 `csv:"turn_rate_mean"`
	TurnRateMax  float64 `csv:"turn_rate_max"`
}

// Percentile returns the empirical p-quantile of a sorted slice: the smallest value whose
// cumulative share reaches p. p is clamped to [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// ComputeStats calculates mean, median, 90th percentile and maximum of values.
func ComputeStats(values []float64) (mean, p50, p90, maxVal float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean = stat.Mean(sorted, nil)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)
	maxVal = floats.Max(sorted)
	return mean, p50, p90, maxVal
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("crafts", s.Crafts),
		slog.Int("routes_done", s.RoutesDone),
		slog.Int("samples", s.Samples),
		slog.Int("arrivals", s.Arrivals),
		slog.Float64("heading_error_mean", s.HeadingErrorMean),
		slog.Float64("heading_error_p50", s.HeadingErrorP50),
		slog.Float64("heading_error_p90", s.HeadingErrorP90),
		slog.Float64("heading_error_max", s.HeadingErrorMax),
		slog.Float64("aoa_mean", s.AoAMean),
		slog.Float64("aoa_p90", s.AoAP90),
		slog.Float64("aoa_max", s.AoAMax),
		slog.Float64("turn_rate_mean", s.TurnRateMean),
		slog.Float64("turn_rate_max", s.TurnRateMax),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
