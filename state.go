package envsim

import (
	"math"
	"time"
)

// Drift and clamp parameters. The baseline clamps are deliberately wide;
// they only prevent runaway divergence over long process lifetimes.
const (
	dayDriftPct   = 0.07
	nightDriftPct = 0.05
	baselineMin   = -1000
	baselineMax   = 10000
)

// SimState holds the evolving simulation state of a single device. Baseline
// drifts at most once per wall-clock hour; Current is rewritten every tick
// from Baseline plus a bounded perturbation. A SimState is exclusively owned
// by its device loop and must not be shared.
type SimState struct {
	Baseline map[Metric]float64
	Current  map[Metric]float64

	lastDriftHour int
}

// NewSimState creates a state seeded from the given baseline values.
func NewSimState(baseline map[Metric]float64) *SimState {
	s := &SimState{
		Baseline:      make(map[Metric]float64, len(Metrics)),
		Current:       make(map[Metric]float64, len(Metrics)),
		lastDriftHour: -1,
	}
	for _, m := range Metrics {
		s.Baseline[m] = baseline[m]
		s.Current[m] = baseline[m]
	}
	return s
}

// ApplyDriftIfDue applies the hourly baseline drift when the wall-clock hour
// differs from the hour of the previous application. Returns true when the
// drift fired. Day mode drifts each baseline by a symmetric ±7% step; night
// mode only ever decreases it, by up to 5%.
func (s *SimState) ApplyDriftIfDue(now time.Time, effectiveDay bool, rng Rand) bool {
	hour := now.Hour()
	if s.lastDriftHour == hour {
		return false
	}
	s.drift(effectiveDay, rng)
	s.lastDriftHour = hour
	return true
}

func (s *SimState) drift(effectiveDay bool, rng Rand) {
	for _, m := range Metrics {
		b := s.Baseline[m]
		if effectiveDay {
			change := b * dayDriftPct
			b += rng.Uniform(-change, change)
		} else {
			change := b * nightDriftPct
			b -= rng.Uniform(0, change)
		}
		s.Baseline[m] = clamp(b, baselineMin, baselineMax)
	}
}

// Synthesize derives a fresh set of readings from the post-drift baseline
// and the regime flags, clamps them to their physical bounds, rounds to two
// decimals and stores them into Current. Baseline is never touched here.
func (s *SimState) Synthesize(reg Regime, rng Rand) {
	var tempAdj, humAdj float64
	if reg.Night {
		tempAdj = rng.Uniform(-3.5, -0.5)
		humAdj = rng.Uniform(0.5, 4.0)
	} else {
		tempAdj = rng.Uniform(0.5, 2.5)
		humAdj = rng.Uniform(-3.0, -0.5)
	}

	var multiplier, no2Adj float64
	if reg.Quiet() {
		multiplier = rng.Uniform(0.75, 0.9)
		no2Adj = rng.Uniform(-6.0, -1.0)
	} else {
		multiplier = rng.Uniform(0.98, 1.08)
		if reg.EffectiveDay {
			no2Adj = rng.Uniform(2.0, 10.0)
		} else {
			no2Adj = rng.Uniform(-1.0, 2.0)
		}
	}

	b := s.Baseline
	s.Current[MetricTemperature] = round2(clamp(b[MetricTemperature]+tempAdj+rng.Gauss(0, 0.5), -50, 70))
	s.Current[MetricHumidity] = round2(clamp(b[MetricHumidity]+humAdj+rng.Gauss(0, 1.5), 0, 100))
	s.Current[MetricCO2] = round2(clamp(b[MetricCO2]*multiplier+rng.Gauss(0, 5.0), 150, 5000))
	s.Current[MetricNO2] = round2(clamp((b[MetricNO2]+no2Adj)*multiplier+rng.Gauss(0, 1.5), 0, 2000))
	s.Current[MetricPM25] = round2(clamp(b[MetricPM25]*multiplier+rng.Gauss(0, 1.5), 0, 2000))
	s.Current[MetricPM10] = round2(clamp(b[MetricPM10]*multiplier+rng.Gauss(0, 3.0), 0, 5000))
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
