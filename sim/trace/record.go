// Package trace provides an in-memory record of a lockstep simulation run.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// EventRecord captures one processed event.
type EventRecord struct {
	Seq    int    // 1-based position in processing order
	Clock  int64  // trigger time in simulated ms
	Kind   string // "update_cycle" or "message_arrival"
	Client int    // ticking client, or message destination
	From   int    // message sender; -1 for ticks
	Cycle  int    // message target cycle; client's current cycle for ticks
}

// TransitionKind distinguishes stall and resume records.
type TransitionKind string

const (
	TransitionStall  TransitionKind = "stall"
	TransitionResume TransitionKind = "resume"
)

// TransitionRecord captures a Running <-> Stalled change of one client.
type TransitionRecord struct {
	EventSeq int // Seq of the event whose processing caused the transition
	Clock    int64
	Client   int
	Cycle    int // client's current cycle at the transition
	Kind     TransitionKind
}
