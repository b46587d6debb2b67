package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	sim "github.com/lockstep-sim/lockstep-sim/sim"
)

// resolveConfig builds the run configuration. Without --config every flag value is used.
// With --config the scenario file is loaded and only flags set on the command line override it.
func resolveConfig(fs *pflag.FlagSet) (sim.SimConfig, error) {
	cfg := sim.DefaultSimConfig()
	fromFile := configPath != ""
	if fromFile {
		loaded, err := sim.LoadSimConfig(configPath)
		if err != nil {
			return sim.SimConfig{}, err
		}
		cfg = *loaded
		logrus.Debugf("Loaded scenario from %s", configPath)
	}

	use := func(name string) bool {
		return !fromFile || fs.Changed(name)
	}
	if use("buffer") {
		cfg.BufferDepth = bufferDepth
	}
	if use("lat-mean") {
		cfg.Latency.Mean = latencyMean
	}
	if use("lat-std") {
		cfg.Latency.StdDev = latencyStd
	}
	if use("latency-dist") {
		cfg.Latency.Distribution = latencyDist
	}
	if use("num-events") {
		cfg.NumEvents = numEvents
	}
	if use("clients") {
		cfg.NumClients = numClients
	}
	if use("tick") {
		cfg.UpdatePeriod = updatePeriod
	}
	if use("seed") {
		cfg.Seed = seed
	}

	if err := cfg.Validate(); err != nil {
		return sim.SimConfig{}, err
	}
	return cfg, nil
}
