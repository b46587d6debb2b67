// Package latency provides message delay samplers for the lockstep simulator.
// The LatencyModel interface is defined in sim/ (parent package); this package
// has no dependency on sim/ and its models satisfy that interface structurally.
//
// Every model returns whole non-negative milliseconds. Samples are truncated
// toward zero and clamped at zero, so a draw of -3.7 becomes 0 and 12.9 becomes 12.
package latency

import (
	"fmt"
	"math"
	"math/rand"
)

// Model produces one independent delay sample per call.
type Model interface {
	// SampleDelay returns a delay in milliseconds (>= 0).
	SampleDelay() int64
}

// NormalModel draws delays from a Gaussian(mean, stdDev).
type NormalModel struct {
	mean, stdDev float64
	rng          *rand.Rand
}

func (m *NormalModel) SampleDelay() int64 {
	return clampDelay(m.rng.NormFloat64()*m.stdDev + m.mean)
}

// ExponentialModel draws delays from an exponential distribution with the given mean.
type ExponentialModel struct {
	mean float64
	rng  *rand.Rand
}

func (m *ExponentialModel) SampleDelay() int64 {
	return clampDelay(m.rng.ExpFloat64() * m.mean)
}

// ConstantModel always returns the same delay. Draws no randomness.
type ConstantModel struct {
	delay int64
}

func (m *ConstantModel) SampleDelay() int64 {
	return m.delay
}

// NewLatencyModel builds the model named by cfg.Distribution.
// rng must be non-nil for the stochastic distributions.
func NewLatencyModel(cfg Config, rng *rand.Rand) (Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Distribution {
	case DistributionNormal, "":
		if rng == nil {
			return nil, fmt.Errorf("latency: %s distribution requires an RNG", DistributionNormal)
		}
		return &NormalModel{mean: cfg.Mean, stdDev: cfg.StdDev, rng: rng}, nil
	case DistributionExponential:
		if rng == nil {
			return nil, fmt.Errorf("latency: %s distribution requires an RNG", DistributionExponential)
		}
		return &ExponentialModel{mean: cfg.Mean, rng: rng}, nil
	case DistributionConstant:
		return &ConstantModel{delay: clampDelay(cfg.Mean)}, nil
	}
	// unreachable after Validate
	return nil, fmt.Errorf("latency: unknown distribution %q", cfg.Distribution)
}

// clampDelay truncates toward zero and maps negative, NaN and -Inf to 0.
func clampDelay(v float64) int64 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}
