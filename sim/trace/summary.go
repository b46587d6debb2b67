package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalEvents     int
	UpdateCycles    int
	MessageArrivals int
	StallCount      int
	ResumeCount     int
	StallsByClient  map[int]int // client ID -> stalls
	ResumesByClient map[int]int // client ID -> resumes
	FirstClock      int64
	LastClock       int64
	MonotonicTime   bool // every event's clock >= the previous one
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields, MonotonicTime true).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		StallsByClient:  make(map[int]int),
		ResumesByClient: make(map[int]int),
		MonotonicTime:   true,
	}
	if st == nil {
		return summary
	}

	summary.TotalEvents = len(st.Events)
	for i, e := range st.Events {
		switch e.Kind {
		case "update_cycle":
			summary.UpdateCycles++
		case "message_arrival":
			summary.MessageArrivals++
		}
		if i > 0 && e.Clock < st.Events[i-1].Clock {
			summary.MonotonicTime = false
		}
	}
	if len(st.Events) > 0 {
		summary.FirstClock = st.Events[0].Clock
		summary.LastClock = st.Events[len(st.Events)-1].Clock
	}

	for _, tr := range st.Transitions {
		switch tr.Kind {
		case TransitionStall:
			summary.StallCount++
			summary.StallsByClient[tr.Client]++
		case TransitionResume:
			summary.ResumeCount++
			summary.ResumesByClient[tr.Client]++
		}
	}
	return summary
}
