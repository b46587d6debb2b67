package trace

// SimulationTrace collects event and transition records during a run.
type SimulationTrace struct {
	Events      []EventRecord
	Transitions []TransitionRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace() *SimulationTrace {
	return &SimulationTrace{
		Events:      make([]EventRecord, 0),
		Transitions: make([]TransitionRecord, 0),
	}
}

// RecordEvent appends an event record.
func (st *SimulationTrace) RecordEvent(record EventRecord) {
	st.Events = append(st.Events, record)
}

// RecordTransition appends a stall or resume record.
func (st *SimulationTrace) RecordTransition(record TransitionRecord) {
	st.Transitions = append(st.Transitions, record)
}

// StallsWithin returns the stall records caused by the first n processed events.
func (st *SimulationTrace) StallsWithin(n int) []TransitionRecord {
	if st == nil {
		return nil
	}
	var out []TransitionRecord
	for _, tr := range st.Transitions {
		if tr.Kind == TransitionStall && tr.EventSeq <= n {
			out = append(out, tr)
		}
	}
	return out
}
