package sim

import "fmt"

// ClientState is the lockstep state of a client.
type ClientState int

const (
	StateRunning ClientState = iota
	StateStalled
)

func (s ClientState) String() string {
	switch s {
	case StateRunning:
		return "Running"
	case StateStalled:
		return "Stalled"
	}
	return fmt.Sprintf("ClientState(%d)", int(s))
}

// Client tracks one participant's lockstep progress.
//
// Invariants:
//   - every entry in the wait set has Cycle >= NextCycleAwaited
//   - NextCycleAwaited <= registeredThrough
//   - the client is caught up through cycle c iff no wait entry has Cycle == c
type Client struct {
	ID          ClientID
	BufferDepth int

	// CurrentCycle is the highest cycle this client has completed locally.
	CurrentCycle int
	// NextCycleAwaited is the lowest cycle whose peer input is not yet complete.
	NextCycleAwaited int

	// pendingWaits is kept in registration order; removal preserves the order of the rest.
	pendingWaits []WaitEntry
	// registeredThrough is one past the highest cycle ever added to pendingWaits.
	registeredThrough int
	// early holds arrivals for cycles this client has not registered yet.
	early map[WaitEntry]int

	stalled      bool
	stalledSince int64
}

// NewClient creates a Running client at cycle 0 with an empty wait set.
func NewClient(id ClientID, bufferDepth int) *Client {
	return &Client{
		ID:           id,
		BufferDepth:  bufferDepth,
		pendingWaits: make([]WaitEntry, 0),
		early:        make(map[WaitEntry]int),
	}
}

// State returns Running or Stalled.
func (c *Client) State() ClientState {
	if c.stalled {
		return StateStalled
	}
	return StateRunning
}

// IsStalled reports whether the client has exhausted its lockstep buffer.
func (c *Client) IsStalled() bool { return c.stalled }

// PendingWaits returns a copy of the wait set in registration order.
func (c *Client) PendingWaits() []WaitEntry {
	out := make([]WaitEntry, len(c.pendingWaits))
	copy(out, c.pendingWaits)
	return out
}

// PendingCount returns the number of outstanding wait entries.
func (c *Client) PendingCount() int { return len(c.pendingWaits) }

// EarlyCount returns the number of buffered arrivals not yet matched by a registration.
func (c *Client) EarlyCount() int {
	n := 0
	for _, v := range c.early {
		n += v
	}
	return n
}

// waitingOn reports whether any entry for cycle remains.
func (c *Client) waitingOn(cycle int) bool {
	for _, w := range c.pendingWaits {
		if w.Cycle == cycle {
			return true
		}
	}
	return false
}

// registerCycle records that this client needs to hear about cycle from every peer.
// An early arrival already buffered for (peer, cycle) consumes the entry instead.
func (c *Client) registerCycle(cycle int, peers []ClientID) {
	for _, p := range peers {
		w := WaitEntry{From: p, Cycle: cycle}
		if c.early[w] > 0 {
			c.early[w]--
			if c.early[w] == 0 {
				delete(c.early, w)
			}
			continue
		}
		c.pendingWaits = append(c.pendingWaits, w)
	}
	if cycle+1 > c.registeredThrough {
		c.registeredThrough = cycle + 1
	}
}

// acknowledge removes the (from, cycle) wait entry. An arrival for a cycle past
// everything registered so far is buffered and reported as early. An arrival for
// a registered cycle without a matching entry is a WaitSetViolationError.
func (c *Client) acknowledge(from ClientID, cycle int) (early bool, err error) {
	for i, w := range c.pendingWaits {
		if w.From == from && w.Cycle == cycle {
			c.pendingWaits = append(c.pendingWaits[:i], c.pendingWaits[i+1:]...)
			return false, nil
		}
	}
	if cycle >= c.registeredThrough {
		c.early[WaitEntry{From: from, Cycle: cycle}]++
		return true, nil
	}
	return false, &WaitSetViolationError{Client: c.ID, From: from, Cycle: cycle}
}

// settle advances NextCycleAwaited past every registered cycle with no outstanding
// entry and returns those cycles in order. An empty wait set advances it to
// registeredThrough and no further. If the client was stalled and at least one
// cycle completed, it is marked running and resumed is true.
func (c *Client) settle() (completed []int, resumed bool) {
	for c.NextCycleAwaited < c.registeredThrough && !c.waitingOn(c.NextCycleAwaited) {
		completed = append(completed, c.NextCycleAwaited)
		if c.stalled {
			c.stalled = false
			resumed = true
		}
		c.NextCycleAwaited++
	}
	return completed, resumed
}

// canAdvance reports whether the client may run another cycle.
func (c *Client) canAdvance() bool {
	return c.CurrentCycle != c.NextCycleAwaited
}

func (c *Client) stall(now int64) {
	c.stalled = true
	c.stalledSince = now
}

// CheckInvariants verifies the wait-set invariants. Used by tests and by Simulator.VerifyInvariants.
func (c *Client) CheckInvariants() error {
	for _, w := range c.pendingWaits {
		if w.Cycle < c.NextCycleAwaited {
			return fmt.Errorf("client %d: wait entry (from=%d, cycle=%d) below next awaited cycle %d",
				c.ID, w.From, w.Cycle, c.NextCycleAwaited)
		}
	}
	if c.NextCycleAwaited > c.registeredThrough {
		return fmt.Errorf("client %d: next awaited cycle %d past registered cycles (%d)",
			c.ID, c.NextCycleAwaited, c.registeredThrough)
	}
	if c.stalled && c.canAdvance() {
		return fmt.Errorf("client %d: stalled at cycle %d although cycle %d is awaited",
			c.ID, c.CurrentCycle, c.NextCycleAwaited)
	}
	return nil
}
