package sim

import (
	"testing"

	"github.com/lockstep-sim/lockstep-sim/sim/latency"
	"github.com/lockstep-sim/lockstep-sim/sim/trace"
)

// fixedLatency returns the same delay for every message.
type fixedLatency int64

func (f fixedLatency) SampleDelay() int64 { return int64(f) }

// scriptedLatency replays delays in order and repeats the last one once exhausted.
type scriptedLatency struct {
	delays []int64
	next   int
}

func (l *scriptedLatency) SampleDelay() int64 {
	if l.next >= len(l.delays) {
		return l.delays[len(l.delays)-1]
	}
	d := l.delays[l.next]
	l.next++
	return d
}

// testConfig returns a small valid config with normal latency.
func testConfig(numClients, bufferDepth int, mean, std float64) SimConfig {
	cfg := DefaultSimConfig()
	cfg.NumClients = numClients
	cfg.BufferDepth = bufferDepth
	cfg.Latency = latency.Config{Distribution: latency.DistributionNormal, Mean: mean, StdDev: std}
	return cfg
}

// mustTracedSimulator builds a seeded simulator with a trace attached.
func mustTracedSimulator(t *testing.T, cfg SimConfig) *Simulator {
	t.Helper()
	s, err := NewSimulator(cfg)
	if err != nil {
		t.Fatalf("NewSimulator: %v", err)
	}
	s.Trace = trace.NewSimulationTrace()
	return s
}
