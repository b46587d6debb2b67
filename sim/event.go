package sim

import "fmt"

// EventKind tags the two event variants.
type EventKind string

const (
	EventKindUpdateCycle    EventKind = "update_cycle"
	EventKindMessageArrival EventKind = "message_arrival"
)

// Event defines the interface for all simulation events.
// Each event has a trigger time (simulated milliseconds) and an Execute method
// that advances simulation state when invoked.
type Event interface {
	Timestamp() int64
	Kind() EventKind
	Execute(*Simulator) error
	String() string
}

// UpdateCycleDueEvent signals that a client's periodic local update tick has arrived.
type UpdateCycleDueEvent struct {
	time   int64
	Client ClientID
}

// NewUpdateCycleDueEvent creates a tick for client at time.
func NewUpdateCycleDueEvent(time int64, client ClientID) *UpdateCycleDueEvent {
	return &UpdateCycleDueEvent{time: time, Client: client}
}

func (e *UpdateCycleDueEvent) Timestamp() int64 { return e.time }
func (e *UpdateCycleDueEvent) Kind() EventKind  { return EventKindUpdateCycle }

// Execute advances the client one cycle or stalls it.
func (e *UpdateCycleDueEvent) Execute(sim *Simulator) error {
	return sim.handleUpdateCycle(e.Client)
}

func (e *UpdateCycleDueEvent) String() string {
	return fmt.Sprintf("Update cycle for client %d", e.Client)
}

// MessageArrivedEvent signals that a peer's cycle-completion notice reached its destination.
type MessageArrivedEvent struct {
	time    int64
	Message Message
}

// NewMessageArrivedEvent creates an arrival of msg at time.
func NewMessageArrivedEvent(time int64, msg Message) *MessageArrivedEvent {
	return &MessageArrivedEvent{time: time, Message: msg}
}

func (e *MessageArrivedEvent) Timestamp() int64 { return e.time }
func (e *MessageArrivedEvent) Kind() EventKind  { return EventKindMessageArrival }

// Execute clears the matching wait entry at the destination and drains satisfied cycles.
func (e *MessageArrivedEvent) Execute(sim *Simulator) error {
	return sim.handleMessageArrival(e.Message)
}

func (e *MessageArrivedEvent) String() string {
	return fmt.Sprintf("Message arrived for client %d from client %d for update cycle %d",
		e.Message.Dest, e.Message.Sender, e.Message.TargetCycle)
}
