package envsim

import "math/rand"

// Rand is the source of random draws used by drift and synthesis. Each call
// is an independent draw; the production source is unseeded.
type Rand interface {
	// Uniform returns a draw from the uniform distribution on [lo, hi).
	Uniform(lo, hi float64) float64
	// Gauss returns a draw from the normal distribution with the given
	// mean and standard deviation.
	Gauss(mean, stdev float64) float64
}

type systemRand struct{}

func (systemRand) Uniform(lo, hi float64) float64 {
	return lo + rand.Float64()*(hi-lo)
}

func (systemRand) Gauss(mean, stdev float64) float64 {
	return mean + rand.NormFloat64()*stdev
}

// NewRand returns the production random source.
func NewRand() Rand {
	return systemRand{}
}
