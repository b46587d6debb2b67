// Package sim provides the discrete-event engine for the lockstep simulator.
//
// # Reading Guide
//
// Start with these three files to understand the simulation kernel:
//   - client.go: per-client lockstep state (current cycle, wait set, Running/Stalled)
//   - event.go: the two event types that drive the simulation (UpdateCycleDue, MessageArrived)
//   - simulator.go: initialization, the pull-process loop, and the event handlers
//
// # Architecture
//
// The kernel is single-threaded and owns all of its state: the event queue,
// every Client and the latency model hang off one Simulator value that is passed
// explicitly to each handler. Randomness only enters through the latency model,
// which draws from a PartitionedRNG seeded by SimConfig.Seed.
//
// Sub-packages:
//   - sim/latency/: delay samplers (normal, exponential, constant)
//   - sim/trace/: pure-data record of processed events and stall/resume transitions
//   - sim/telemetry/: Prometheus collector implementing Observer
//
// # Key Interfaces
//   - LatencyModel: one non-negative delay sample per call
//   - Event: timestamped occurrence executed against the Simulator
//   - Observer: optional hook notified of sends, stalls, resumes and cycle progress
package sim
