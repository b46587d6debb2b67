package sim

import (
	"errors"
	"testing"
)

func TestEventQueue_TimestampOrdering(t *testing.T) {
	q := NewEventQueue()

	q.Push(NewUpdateCycleDueEvent(100, 0))
	q.Push(NewUpdateCycleDueEvent(50, 1))
	q.Push(NewMessageArrivedEvent(150, Message{TargetCycle: 2, Sender: 0, Dest: 1}))

	for _, want := range []int64{50, 100, 150} {
		ev, err := q.PopEarliest()
		if err != nil {
			t.Fatalf("PopEarliest: %v", err)
		}
		if ev.Timestamp() != want {
			t.Errorf("timestamp = %d, want %d", ev.Timestamp(), want)
		}
	}
	if q.Len() != 0 {
		t.Errorf("queue should be empty, len = %d", q.Len())
	}
}

func TestEventQueue_TiesBreakByInsertionOrder(t *testing.T) {
	// GIVEN several events at the same trigger time pushed in a known order
	q := NewEventQueue()
	q.Push(NewUpdateCycleDueEvent(10, 2))
	q.Push(NewMessageArrivedEvent(10, Message{TargetCycle: 1, Sender: 0, Dest: 1}))
	q.Push(NewUpdateCycleDueEvent(10, 0))
	q.Push(NewUpdateCycleDueEvent(5, 1))

	// WHEN popped
	// THEN the earlier time comes first, then same-time events in push order
	wantKinds := []EventKind{EventKindUpdateCycle, EventKindUpdateCycle, EventKindMessageArrival, EventKindUpdateCycle}
	wantTimes := []int64{5, 10, 10, 10}
	for i := range wantKinds {
		ev, err := q.PopEarliest()
		if err != nil {
			t.Fatalf("PopEarliest: %v", err)
		}
		if ev.Kind() != wantKinds[i] || ev.Timestamp() != wantTimes[i] {
			t.Errorf("pop %d = %s@%d, want %s@%d", i, ev.Kind(), ev.Timestamp(), wantKinds[i], wantTimes[i])
		}
	}
}

func TestEventQueue_TieOrderIsDeterministicAcrossQueues(t *testing.T) {
	build := func() *EventQueue {
		q := NewEventQueue()
		for i := 0; i < 20; i++ {
			q.Push(NewUpdateCycleDueEvent(int64(i%3), ClientID(i)))
		}
		return q
	}
	q1, q2 := build(), build()
	for q1.Len() > 0 {
		e1, _ := q1.PopEarliest()
		e2, _ := q2.PopEarliest()
		if e1.String() != e2.String() || e1.Timestamp() != e2.Timestamp() {
			t.Fatalf("queues diverged: %s@%d vs %s@%d", e1, e1.Timestamp(), e2, e2.Timestamp())
		}
	}
}

func TestEventQueue_PopEmpty(t *testing.T) {
	q := NewEventQueue()
	ev, err := q.PopEarliest()
	if ev != nil {
		t.Errorf("expected nil event, got %v", ev)
	}
	if !errors.Is(err, ErrEmptyEventQueue) {
		t.Errorf("expected ErrEmptyEventQueue, got %v", err)
	}
}

func TestEventQueue_Peek(t *testing.T) {
	q := NewEventQueue()
	if q.Peek() != nil {
		t.Error("Peek on empty queue should return nil")
	}
	q.Push(NewUpdateCycleDueEvent(30, 0))
	q.Push(NewUpdateCycleDueEvent(20, 1))
	if got := q.Peek().Timestamp(); got != 20 {
		t.Errorf("Peek timestamp = %d, want 20", got)
	}
	if q.Len() != 2 {
		t.Errorf("Peek must not remove, len = %d", q.Len())
	}
}
