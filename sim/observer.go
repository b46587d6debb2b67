package sim

// Observer is notified as the simulation progresses. Every method is called
// synchronously from the event loop; implementations must not mutate the Simulator.
type Observer interface {
	EventProcessed(kind EventKind, clock int64)
	MessageSent(msg Message, delay int64)
	ClientStalled(client ClientID, cycle int, clock int64)
	ClientResumed(client ClientID, cycle int, clock int64, stalledFor int64)
	CycleAdvanced(client ClientID, cycle int)
}
