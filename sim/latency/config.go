package latency

import (
	"fmt"
	"math"
)

// Distribution names accepted by Config.Distribution.
const (
	DistributionNormal      = "normal"
	DistributionExponential = "exponential"
	DistributionConstant    = "constant"
)

// ValidDistributions is the set of recognized distribution names.
// Empty string defaults to normal.
var ValidDistributions = map[string]bool{
	"":                      true,
	DistributionNormal:      true,
	DistributionExponential: true,
	DistributionConstant:    true,
}

// MaxParam is the upper bound for Mean and StdDev in ms (about 11.5 simulated days).
const MaxParam = 1e9

// Config selects and parameterizes a latency model. Units are milliseconds.
type Config struct {
	Distribution string  `yaml:"distribution"`
	Mean         float64 `yaml:"mean"`
	StdDev       float64 `yaml:"std_dev"` // ignored by exponential and constant
}

// Validate checks the distribution name and that parameters lie in [0, MaxParam].
func (c Config) Validate() error {
	if !ValidDistributions[c.Distribution] {
		return fmt.Errorf("latency: unknown distribution %q", c.Distribution)
	}
	if math.IsNaN(c.Mean) || c.Mean < 0 || c.Mean > MaxParam {
		return fmt.Errorf("latency: mean must be within [0, %g], got %g", MaxParam, c.Mean)
	}
	if math.IsNaN(c.StdDev) || c.StdDev < 0 || c.StdDev > MaxParam {
		return fmt.Errorf("latency: std_dev must be within [0, %g], got %g", MaxParam, c.StdDev)
	}
	return nil
}
