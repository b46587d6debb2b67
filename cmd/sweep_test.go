package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sim "github.com/lockstep-sim/lockstep-sim/sim"
	"github.com/lockstep-sim/lockstep-sim/sim/latency"
)

func TestRunSweep_DeeperBufferNeverStallsMore(t *testing.T) {
	// GIVEN constant 100ms latency and a 16ms tick
	base := sim.DefaultSimConfig()
	base.Latency = latency.Config{Distribution: latency.DistributionConstant, Mean: 100}
	base.NumEvents = 400

	// WHEN sweeping a shallow and a deep buffer
	results, err := runSweep(base, []int{1, 8}, true)

	// THEN one row per depth
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 1, results[0].BufferDepth)
	assert.Equal(t, 8, results[1].BufferDepth)
	// AND the deep buffer only stalls once per client while the seeded cycles are in flight
	assert.Equal(t, []int{1, 1}, results[1].Stalls)
	// AND the shallow buffer keeps stalling after startup
	shallow := 0
	for _, n := range results[0].Stalls {
		shallow += n
	}
	assert.Greater(t, shallow, 2, "latency far above one tick must keep stalling a depth-1 buffer")
	assert.Greater(t, results[1].MaxCycle, results[0].MaxCycle)
}

func TestRunSweep_EmptyBuffers_Errors(t *testing.T) {
	_, err := runSweep(sim.DefaultSimConfig(), nil, false)
	assert.ErrorIs(t, err, sim.ErrInvalidConfig)
}

func TestRunSweep_InvalidDepth_Errors(t *testing.T) {
	_, err := runSweep(sim.DefaultSimConfig(), []int{2, 0}, false)
	assert.ErrorIs(t, err, sim.ErrInvalidConfig)
}

func TestWriteSweepTable_OneRowPerDepth(t *testing.T) {
	var buf bytes.Buffer
	err := writeSweepTable(&buf, []sweepResult{
		{BufferDepth: 1, Stalls: []int{3, 2}, Resumes: 5, MaxCycle: 10, StalledTime: 400, SimEnded: 900},
		{BufferDepth: 2, Stalls: []int{0, 0}, MaxCycle: 40, SimEnded: 900},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "BUFFER")
	assert.Equal(t, []string{"1", "5", "3/2", "5", "10", "400", "900"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"2", "0", "0/0", "0", "40", "0", "900"}, strings.Fields(lines[2]))
}

func TestRunSweep_CheckInvariants_AbortsOnViolation(t *testing.T) {
	// GIVEN a sweep whose simulators start with client 0 awaiting a cycle far past its wait entries
	orig := newSweepSimulator
	defer func() { newSweepSimulator = orig }()
	newSweepSimulator = func(cfg sim.SimConfig) (*sim.Simulator, error) {
		s, err := sim.NewSimulator(cfg)
		if err != nil {
			return nil, err
		}
		s.Clients[0].NextCycleAwaited = 100
		return s, nil
	}

	// WHEN sweeping with invariant checks on
	_, err := runSweep(sim.DefaultSimConfig(), []int{2}, true)

	// THEN the first event's check aborts the sweep and names the depth
	require.Error(t, err)
	assert.Contains(t, err.Error(), "buffer depth 2")
	assert.Contains(t, err.Error(), "below next awaited cycle")
}
