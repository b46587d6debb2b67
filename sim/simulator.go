// sim/simulator.go
package sim

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/lockstep-sim/lockstep-sim/sim/latency"
	"github.com/lockstep-sim/lockstep-sim/sim/trace"
)

// LatencyModel produces one non-negative message delay (ms) per call.
// Implementations live in sim/latency.
type LatencyModel interface {
	SampleDelay() int64
}

// Simulator is the core object that holds simulation time, client state, and the event loop.
// It is the single owner of all mutable simulation state.
type Simulator struct {
	Clock  int64
	Config SimConfig
	// Clients indexed by ClientID
	Clients []*Client
	Metrics *Metrics
	// Trace records every processed event when non-nil
	Trace *trace.SimulationTrace
	// Observer is notified of progress when non-nil
	Observer Observer
	// VerifyInvariants checks every client's wait-set invariants after each event
	VerifyInvariants bool

	queue       *EventQueue
	latency     LatencyModel
	rng         *PartitionedRNG
	peers       [][]ClientID
	initialized bool
}

// NewSimulator validates cfg and builds a simulator whose latency model draws
// from the seeded latency RNG subsystem.
func NewSimulator(cfg SimConfig) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	model, err := latency.NewLatencyModel(cfg.Latency, rng.ForSubsystem(SubsystemLatency))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	s, err := NewSimulatorWithLatency(cfg, model)
	if err != nil {
		return nil, err
	}
	s.rng = rng
	return s, nil
}

// NewSimulatorWithLatency builds a simulator around a caller-supplied latency model.
// cfg.Latency is validated but otherwise ignored.
func NewSimulatorWithLatency(cfg SimConfig, model LatencyModel) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if model == nil {
		return nil, fmt.Errorf("%w: latency model must not be nil", ErrInvalidConfig)
	}
	s := &Simulator{
		Config:  cfg,
		Clients: make([]*Client, cfg.NumClients),
		Metrics: NewMetrics(cfg.NumClients),
		queue:   NewEventQueue(),
		latency: model,
		peers:   make([][]ClientID, cfg.NumClients),
	}
	for i := 0; i < cfg.NumClients; i++ {
		s.Clients[i] = NewClient(ClientID(i), cfg.BufferDepth)
		for j := 0; j < cfg.NumClients; j++ {
			if j != i {
				s.peers[i] = append(s.peers[i], ClientID(j))
			}
		}
	}
	return s, nil
}

// RNG returns the simulator's partitioned RNG, or nil when the latency model was injected.
func (s *Simulator) RNG() *PartitionedRNG {
	return s.rng
}

// PendingEvents returns the number of events waiting in the queue.
func (s *Simulator) PendingEvents() int {
	return s.queue.Len()
}

// Initialize seeds BufferDepth synthetic cycles (0..BufferDepth-1) between every
// ordered pair of clients, then schedules each client's first tick at t=0.
// Calling it again is a no-op; Step calls it lazily.
func (s *Simulator) Initialize() {
	if s.initialized {
		return
	}
	s.initialized = true

	logrus.Infof("Seeding %d initial input cycles across %d clients...", s.Config.BufferDepth, len(s.Clients))
	for cycle := 0; cycle < s.Config.BufferDepth; cycle++ {
		for _, c := range s.Clients {
			for _, peer := range s.peers[c.ID] {
				s.send(Message{TargetCycle: cycle, Sender: c.ID, Dest: peer})
			}
			c.registerCycle(cycle, s.peers[c.ID])
		}
	}
	for _, c := range s.Clients {
		s.scheduleUpdateCycle(c.ID, 0)
	}
}

// Step pops the earliest event, advances the clock to its trigger time and executes it.
func (s *Simulator) Step() error {
	s.Initialize()

	if s.queue.Len() == 0 {
		if s.allStalled() {
			return fmt.Errorf("%w (t=%dms)", ErrDeadlock, s.Clock)
		}
		return fmt.Errorf("%w (t=%dms)", ErrEmptyEventQueue, s.Clock)
	}
	ev, err := s.queue.PopEarliest()
	if err != nil {
		return err
	}
	if ev.Timestamp() < s.Clock {
		return &ClockRegressionError{Clock: s.Clock, EventTime: ev.Timestamp()}
	}
	s.Clock = ev.Timestamp()
	s.Metrics.EventsProcessed++
	s.Metrics.SimEndedTime = s.Clock

	logrus.Infof("[t=%07dms] Event: %s", s.Clock, ev)
	s.recordEvent(ev)
	if s.Observer != nil {
		s.Observer.EventProcessed(ev.Kind(), s.Clock)
	}

	if err := ev.Execute(s); err != nil {
		return err
	}
	if s.VerifyInvariants {
		for _, c := range s.Clients {
			if err := c.CheckInvariants(); err != nil {
				return err
			}
		}
	}
	if next := s.queue.Peek(); next != nil {
		logrus.Debugf("Next pending event at %dms: %s", next.Timestamp(), next)
	}
	return nil
}

// RunEvents processes exactly n events, stopping early only on error.
func (s *Simulator) RunEvents(n int) error {
	for i := 0; i < n; i++ {
		if err := s.Step(); err != nil {
			return fmt.Errorf("processing event %d: %w", i+1, err)
		}
	}
	logrus.Infof("[t=%07dms] Simulation ended after %d events", s.Clock, s.Metrics.EventsProcessed)
	return nil
}

// Run processes Config.NumEvents events.
func (s *Simulator) Run() error {
	return s.RunEvents(s.Config.NumEvents)
}

// handleUpdateCycle either stalls the client (buffer exhausted) or advances it
// one cycle, announces the new target cycle to every peer and schedules the next tick.
func (s *Simulator) handleUpdateCycle(id ClientID) error {
	c := s.Clients[id]
	s.Metrics.UpdateCycles++

	if !c.canAdvance() {
		c.stall(s.Clock)
		s.Metrics.Stalls[id]++
		logrus.Infof("Client %d has stalled at cycle %d!", id, c.CurrentCycle)
		s.recordTransition(c, trace.TransitionStall)
		if s.Observer != nil {
			s.Observer.ClientStalled(id, c.CurrentCycle, s.Clock)
		}
		return nil
	}

	c.CurrentCycle++
	if c.CurrentCycle > s.Metrics.MaxCycle[id] {
		s.Metrics.MaxCycle[id] = c.CurrentCycle
	}
	logrus.Infof("Update cycle %d just completed for client %d", c.CurrentCycle, id)
	if s.Observer != nil {
		s.Observer.CycleAdvanced(id, c.CurrentCycle)
	}

	target := c.CurrentCycle + c.BufferDepth
	for _, peer := range s.peers[id] {
		s.send(Message{TargetCycle: target, Sender: id, Dest: peer})
	}
	c.registerCycle(target, s.peers[id])
	s.settle(c)

	s.scheduleUpdateCycle(id, s.Clock+min(s.Config.UpdatePeriod, math.MaxInt64-s.Clock))
	return nil
}

// handleMessageArrival clears the matching wait entry at the destination and
// drains every cycle that is now fully acknowledged.
func (s *Simulator) handleMessageArrival(msg Message) error {
	c := s.Clients[msg.Dest]
	s.Metrics.MessageArrivals++

	early, err := c.acknowledge(msg.Sender, msg.TargetCycle)
	if err != nil {
		return err
	}
	if early {
		s.Metrics.EarlyArrivals++
		logrus.Debugf("Client %d buffered early input from client %d for cycle %d", c.ID, msg.Sender, msg.TargetCycle)
	}
	s.settle(c)
	return nil
}

// settle drains fully acknowledged cycles and resumes a stalled client immediately
// (at the current clock rather than the next tick boundary).
func (s *Simulator) settle(c *Client) {
	completed, resumed := c.settle()
	for _, cycle := range completed {
		logrus.Infof("Client %d just received all other pending client info for cycle %d.", c.ID, cycle)
	}
	if !resumed {
		return
	}
	stalledFor := s.Clock - c.stalledSince
	s.Metrics.Resumes[c.ID]++
	s.Metrics.StalledTime[c.ID] += stalledFor
	logrus.Infof("Client %d resumed after %dms stalled", c.ID, stalledFor)
	s.recordTransition(c, trace.TransitionResume)
	if s.Observer != nil {
		s.Observer.ClientResumed(c.ID, c.CurrentCycle, s.Clock, stalledFor)
	}
	s.scheduleUpdateCycle(c.ID, s.Clock)
}

// send samples a delay and schedules the message's arrival.
func (s *Simulator) send(msg Message) {
	delay := s.latency.SampleDelay()
	if delay < 0 {
		delay = 0
	}
	delay = min(delay, math.MaxInt64-s.Clock)
	logrus.Debugf("Sending update to client %d from client %d for cycle %d with a delay of %dms...",
		msg.Dest, msg.Sender, msg.TargetCycle, delay)

	s.Metrics.MessagesSent++
	s.Metrics.TotalDelay += delay
	if delay > s.Metrics.MaxDelay {
		s.Metrics.MaxDelay = delay
	}
	if s.Observer != nil {
		s.Observer.MessageSent(msg, delay)
	}
	s.queue.Push(NewMessageArrivedEvent(s.Clock+delay, msg))
}

func (s *Simulator) scheduleUpdateCycle(id ClientID, at int64) {
	logrus.Debugf("Scheduling next update cycle for client %d at %dms...", id, at)
	s.queue.Push(NewUpdateCycleDueEvent(at, id))
}

func (s *Simulator) allStalled() bool {
	for _, c := range s.Clients {
		if !c.IsStalled() {
			return false
		}
	}
	return true
}

func (s *Simulator) recordEvent(ev Event) {
	if s.Trace == nil {
		return
	}
	rec := trace.EventRecord{
		Seq:   s.Metrics.EventsProcessed,
		Clock: s.Clock,
		Kind:  string(ev.Kind()),
		From:  -1,
	}
	switch e := ev.(type) {
	case *UpdateCycleDueEvent:
		rec.Client = int(e.Client)
		rec.Cycle = s.Clients[e.Client].CurrentCycle
	case *MessageArrivedEvent:
		rec.Client = int(e.Message.Dest)
		rec.From = int(e.Message.Sender)
		rec.Cycle = e.Message.TargetCycle
	}
	s.Trace.RecordEvent(rec)
}

func (s *Simulator) recordTransition(c *Client, kind trace.TransitionKind) {
	if s.Trace == nil {
		return
	}
	s.Trace.RecordTransition(trace.TransitionRecord{
		EventSeq: s.Metrics.EventsProcessed,
		Clock:    s.Clock,
		Client:   int(c.ID),
		Cycle:    c.CurrentCycle,
		Kind:     kind,
	})
}
