package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/lockstep-sim/lockstep-sim/sim"
	"github.com/lockstep-sim/lockstep-sim/sim/latency"
)

// parseSimFlags registers fresh flags (resetting the package vars to defaults) and parses args.
func parseSimFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	registerSimFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeScenario(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestResolveConfig_NoFlags_MatchesDefaults(t *testing.T) {
	// GIVEN no flags at all
	fs := parseSimFlags(t)

	// WHEN the configuration is resolved
	cfg, err := resolveConfig(fs)

	// THEN it equals the library defaults
	require.NoError(t, err)
	assert.Equal(t, sim.DefaultSimConfig(), cfg)
}

func TestResolveConfig_ShortFlags(t *testing.T) {
	// GIVEN the short flag forms
	fs := parseSimFlags(t, "-b", "1", "-m", "1000", "-d", "0", "-n", "8")

	// WHEN the configuration is resolved
	cfg, err := resolveConfig(fs)

	// THEN every value is applied
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.BufferDepth)
	assert.Equal(t, 1000.0, cfg.Latency.Mean)
	assert.Equal(t, 0.0, cfg.Latency.StdDev)
	assert.Equal(t, 8, cfg.NumEvents)
}

func TestResolveConfig_ScenarioFile_ExplicitFlagsOverride(t *testing.T) {
	// GIVEN a scenario with buffer 4 and 3 clients, and an explicit --buffer flag
	path := writeScenario(t, `
buffer_depth: 4
num_clients: 3
latency:
  distribution: constant
  mean: 20
`)
	fs := parseSimFlags(t, "--config", path, "--buffer", "2")

	// WHEN the configuration is resolved
	cfg, err := resolveConfig(fs)

	// THEN the flag wins for buffer, the file wins for everything it sets
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.BufferDepth)
	assert.Equal(t, 3, cfg.NumClients)
	assert.Equal(t, latency.DistributionConstant, cfg.Latency.Distribution)
	assert.Equal(t, 20.0, cfg.Latency.Mean)
	// AND unset keys fall back to defaults rather than flag defaults overwriting the file
	assert.Equal(t, sim.DefaultSimConfig().NumEvents, cfg.NumEvents)
}

func TestResolveConfig_UnknownScenarioKey_Errors(t *testing.T) {
	path := writeScenario(t, "bufer_depth: 4\n")
	fs := parseSimFlags(t, "--config", path)

	_, err := resolveConfig(fs)

	assert.Error(t, err)
}

func TestResolveConfig_InvalidValues_WrapErrInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"zero buffer", []string{"--buffer", "0"}},
		{"single client", []string{"--clients", "1"}},
		{"negative mean", []string{"--lat-mean=-5"}},
		{"unknown distribution", []string{"--latency-dist", "pareto"}},
		{"zero tick", []string{"--tick", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := parseSimFlags(t, tt.args...)
			_, err := resolveConfig(fs)
			assert.ErrorIs(t, err, sim.ErrInvalidConfig)
		})
	}
}
