package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Klod state at window end
	Mass   float64 `csv:"mass"`
	Limbs  int     `csv:"limbs"`
	Powers string  `csv:"powers"`

	// Events during window
	Absorptions    int     `csv:"absorptions"`
	Rejections     int     `csv:"rejections"`
	AcceptRate     float64 `csv:"accept_rate"`
	MassGained     float64 `csv:"mass_gained"`
	PowersGained   string  `csv:"powers_gained"`
	Shatters       int     `csv:"shatters"`
	ObstaclesBroke int     `csv:"obstacles_broken"`
	LimbsConsumed  int     `csv:"limbs_consumed"`
	FallingFrac    float64 `csv:"falling_frac"`

	// Mass distribution over the window's ticks
	MassMean float64 `csv:"mass_mean"`
	MassStd  float64 `csv:"mass_std"`
	MassP10  float64 `csv:"mass_p10"`
	MassP50  float64 `csv:"mass_p50"`
	MassP90  float64 `csv:"mass_p90"`

	// Speed distribution
	SpeedMean float64 `csv:"speed_mean"`
	SpeedP50  float64 `csv:"speed_p50"`
	SpeedP90  float64 `csv:"speed_p90"`
}

// Percentile calculates the p-th percentile of a sorted slice.
// p should be in [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	// Linear interpolation
	idx := p * float64(n-1)
	lo := int(idx)
	hi := lo + 1
	if hi >= n {
		return sorted[n-1]
	}

	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// ComputeDistribution calculates mean, sample standard deviation and
// percentiles of values.
func ComputeDistribution(values []float64) (mean, std, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0, 0
	}
	if n == 1 {
		return values[0], 0, values[0], values[0], values[0]
	}

	mean, std = stat.MeanStdDev(values, nil)

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Float64("mass", s.Mass),
		slog.Int("limbs", s.Limbs),
		slog.String("powers", s.Powers),
		slog.Int("absorptions", s.Absorptions),
		slog.Int("rejections", s.Rejections),
		slog.Float64("accept_rate", s.AcceptRate),
		slog.Float64("mass_gained", s.MassGained),
		slog.Int("shatters", s.Shatters),
		slog.Int("obstacles_broken", s.ObstaclesBroke),
		slog.Float64("falling_frac", s.FallingFrac),
		slog.Float64("mass_p50", s.MassP50),
		slog.Float64("speed_p50", s.SpeedP50),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats",
		"window_end", s.WindowEndTick,
		"sim_time", s.SimTimeSec,
		"mass", s.Mass,
		"limbs", s.Limbs,
		"powers", s.Powers,
		"absorptions", s.Absorptions,
		"rejections", s.Rejections,
		"accept_rate", s.AcceptRate,
		"mass_gained", s.MassGained,
		"powers_gained", s.PowersGained,
		"shatters", s.Shatters,
		"obstacles_broken", s.ObstaclesBroke,
		"limbs_consumed", s.LimbsConsumed,
		"falling_frac", s.FallingFrac,
		"mass_mean", s.MassMean,
		"mass_std", s.MassStd,
		"mass_p10", s.MassP10,
		"mass_p50", s.MassP50,
		"mass_p90", s.MassP90,
		"speed_mean", s.SpeedMean,
		"speed_p50", s.SpeedP50,
		"speed_p90", s.SpeedP90,
	)
}
