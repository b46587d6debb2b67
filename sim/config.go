package sim

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lockstep-sim/lockstep-sim/sim/latency"
)

// DefaultUpdatePeriod is the fixed local tick period in simulated ms (60 updates/s).
const DefaultUpdatePeriod int64 = 1000 / 60

// SimConfig holds everything a run needs. Loadable from a YAML scenario file.
type SimConfig struct {
	NumClients   int            `yaml:"num_clients"`      // participants (>= 2)
	BufferDepth  int            `yaml:"buffer_depth"`     // lockstep look-ahead in cycles (> 0)
	UpdatePeriod int64          `yaml:"update_period_ms"` // fixed tick period (> 0)
	Latency      latency.Config `yaml:"latency"`
	NumEvents    int            `yaml:"num_events"` // events to process before stopping (> 0)
	Seed         int64          `yaml:"seed"`
}

// DefaultSimConfig mirrors the CLI defaults.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		NumClients:   2,
		BufferDepth:  3,
		UpdatePeriod: DefaultUpdatePeriod,
		Latency: latency.Config{
			Distribution: latency.DistributionNormal,
			Mean:         50,
			StdDev:       5,
		},
		NumEvents: 100,
		Seed:      42,
	}
}

// Validate checks ranges. Every error wraps ErrInvalidConfig.
func (c SimConfig) Validate() error {
	if c.NumClients < 2 {
		return fmt.Errorf("%w: num_clients must be at least 2, got %d", ErrInvalidConfig, c.NumClients)
	}
	if c.BufferDepth <= 0 {
		return fmt.Errorf("%w: buffer_depth must be positive, got %d", ErrInvalidConfig, c.BufferDepth)
	}
	if c.UpdatePeriod <= 0 {
		return fmt.Errorf("%w: update_period_ms must be positive, got %d", ErrInvalidConfig, c.UpdatePeriod)
	}
	if c.NumEvents <= 0 {
		return fmt.Errorf("%w: num_events must be positive, got %d", ErrInvalidConfig, c.NumEvents)
	}
	if err := c.Latency.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// LoadSimConfig reads a YAML scenario file on top of DefaultSimConfig.
// Unknown keys are rejected so typos surface as errors. An empty file yields the defaults.
func LoadSimConfig(path string) (*SimConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario config: %w", err)
	}
	cfg := DefaultSimConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing scenario config: %w", err)
	}
	return &cfg, nil
}
