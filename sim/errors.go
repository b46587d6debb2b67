package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyEventQueue means the queue ran dry while at least one client was
	// still running. A well-formed simulation never reaches this.
	ErrEmptyEventQueue = errors.New("event queue is empty")

	// ErrDeadlock means every client is stalled and no event is pending that
	// could resume any of them.
	ErrDeadlock = errors.New("deadlock: all clients stalled with no pending events")

	// ErrInvalidConfig wraps every SimConfig validation failure.
	ErrInvalidConfig = errors.New("invalid simulation config")
)

// WaitSetViolationError reports a message arrival with no matching entry in the
// destination's wait set for a cycle the destination has already registered.
// Continuing would corrupt the wait-set invariant, so the run stops.
type WaitSetViolationError struct {
	Client ClientID
	From   ClientID
	Cycle  int
}

func (e *WaitSetViolationError) Error() string {
	return fmt.Sprintf("client %d has no pending wait for cycle %d from client %d", e.Client, e.Cycle, e.From)
}

// ClockRegressionError reports an event whose trigger time precedes the clock.
type ClockRegressionError struct {
	Clock     int64
	EventTime int64
}

func (e *ClockRegressionError) Error() string {
	return fmt.Sprintf("event at %dms popped after clock reached %dms", e.EventTime, e.Clock)
}
