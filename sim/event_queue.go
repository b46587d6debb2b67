package sim

import "container/heap"

// queuedEvent pairs an event with its insertion sequence number.
type queuedEvent struct {
	ev  Event
	seq uint64
}

// eventHeap implements heap.Interface.
// See canonical Golang example here: https://pkg.go.dev/container/heap#example-package-IntHeap
type eventHeap []queuedEvent

func (h eventHeap) Len() int { return len(h) }

// Less orders by trigger time, then insertion order. Events sharing a trigger
// time are therefore processed in the order they were pushed.
func (h eventHeap) Less(i, j int) bool {
	if h[i].ev.Timestamp() != h[j].ev.Timestamp() {
		return h[i].ev.Timestamp() < h[j].ev.Timestamp()
	}
	return h[i].seq < h[j].seq
}

func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *eventHeap) Push(x any) {
	*h = append(*h, x.(queuedEvent))
}

func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = queuedEvent{} // drop reference
	*h = old[:n-1]
	return item
}

// EventQueue is a min-heap of pending events keyed by (trigger time, insertion sequence).
// Sequence numbers are per queue, so two queues fed the same pushes pop identically.
type EventQueue struct {
	events  eventHeap
	nextSeq uint64
}

// NewEventQueue creates an empty queue.
func NewEventQueue() *EventQueue {
	q := &EventQueue{events: make(eventHeap, 0)}
	heap.Init(&q.events)
	return q
}

// Push adds an event to the queue.
func (q *EventQueue) Push(ev Event) {
	heap.Push(&q.events, queuedEvent{ev: ev, seq: q.nextSeq})
	q.nextSeq++
}

// PopEarliest removes and returns the earliest event.
// Returns ErrEmptyEventQueue when nothing is pending.
func (q *EventQueue) PopEarliest() (Event, error) {
	if q.events.Len() == 0 {
		return nil, ErrEmptyEventQueue
	}
	return heap.Pop(&q.events).(queuedEvent).ev, nil
}

// Peek returns the earliest event without removing it, or nil if empty.
func (q *EventQueue) Peek() Event {
	if q.events.Len() == 0 {
		return nil
	}
	return q.events[0].ev
}

// Len returns the number of pending events.
func (q *EventQueue) Len() int {
	return q.events.Len()
}
