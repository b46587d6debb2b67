package sim

import (
	"hash/fnv"
	"math/rand"
)

// SimulationKey is the master seed of a run. Equal keys and equal SimConfigs
// replay the same sequence of delays, and therefore the same events.
type SimulationKey int64

// NewSimulationKey wraps a --seed value.
func NewSimulationKey(seed int64) SimulationKey { return SimulationKey(seed) }

// SubsystemLatency names the stream that feeds message delays. It is seeded with
// the master seed itself so --seed selects the delay sequence directly.
const SubsystemLatency = "latency"

// PartitionedRNG hands out one *rand.Rand per named stream, so adding a new
// consumer of randomness never shifts the draws of an existing one.
// Any stream other than SubsystemLatency is seeded with key XOR fnv1a64(name).
// Not safe for concurrent use; the simulator is single-threaded.
type PartitionedRNG struct {
	key     SimulationKey
	streams map[string]*rand.Rand
}

// NewPartitionedRNG returns an empty set of streams derived from key.
func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{key: key, streams: map[string]*rand.Rand{}}
}

// ForSubsystem returns the stream for name, creating it on first use.
// Repeated calls return the same instance.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	r, ok := p.streams[name]
	if !ok {
		r = rand.New(rand.NewSource(p.seedFor(name)))
		p.streams[name] = r
	}
	return r
}

// Key returns the master seed.
func (p *PartitionedRNG) Key() SimulationKey { return p.key }

func (p *PartitionedRNG) seedFor(name string) int64 {
	if name == SubsystemLatency {
		return int64(p.key)
	}
	return int64(p.key) ^ fnv1a64(name)
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return int64(h.Sum64())
}
