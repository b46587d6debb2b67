package sim

import "fmt"

// ClientID identifies a participant. IDs are dense: 0..NumClients-1.
type ClientID int

// Message declares that Sender has completed (or seeded) TargetCycle and Dest
// should learn of it. Messages are immutable values.
type Message struct {
	TargetCycle int
	Sender      ClientID
	Dest        ClientID
}

func (m Message) String() string {
	return fmt.Sprintf("client %d -> client %d for update cycle %d", m.Sender, m.Dest, m.TargetCycle)
}

// WaitEntry is one (peer, cycle) pair a client still needs to hear about.
type WaitEntry struct {
	From  ClientID
	Cycle int
}
