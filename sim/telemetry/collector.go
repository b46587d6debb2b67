// Package telemetry exposes lockstep simulation progress as Prometheus metrics.
// Collector implements sim.Observer; attach it with Simulator.Observer.
package telemetry

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lockstep-sim/lockstep-sim/sim"
)

// Collector holds the Prometheus instruments fed by the simulator.
type Collector struct {
	gatherer prometheus.Gatherer

	EventsProcessed *prometheus.CounterVec
	MessagesSent    prometheus.Counter
	MessageDelay    prometheus.Histogram
	Stalls          *prometheus.CounterVec
	Resumes         *prometheus.CounterVec
	StalledTime     *prometheus.CounterVec
	ClientCycle     *prometheus.GaugeVec
	SimClock        prometheus.Gauge
}

// NewCollector registers lockstep metrics against the provided registerer.
// A nil registerer means a fresh private registry, so parallel runs never collide.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{gatherer: gatherer}
	var err error

	if c.EventsProcessed, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lockstep_events_processed_total",
		Help: "Events popped from the queue and executed, by kind.",
	}, []string{"kind"}), "lockstep_events_processed_total"); err != nil {
		return nil, err
	}

	if c.MessagesSent, err = registerCounter(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lockstep_messages_sent_total",
		Help: "Cycle-completion messages sent, including initialization seeds.",
	}), "lockstep_messages_sent_total"); err != nil {
		return nil, err
	}

	if c.MessageDelay, err = registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "lockstep_message_delay_ms",
		Help:    "Sampled message delay in simulated milliseconds.",
		Buckets: []float64{0, 1, 5, 10, 16, 25, 50, 75, 100, 150, 250, 500, 1000},
	}), "lockstep_message_delay_ms"); err != nil {
		return nil, err
	}

	if c.Stalls, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lockstep_stalls_total",
		Help: "Running to Stalled transitions, by client.",
	}, []string{"client"}), "lockstep_stalls_total"); err != nil {
		return nil, err
	}

	if c.Resumes, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lockstep_resumes_total",
		Help: "Stalled to Running transitions, by client.",
	}, []string{"client"}), "lockstep_resumes_total"); err != nil {
		return nil, err
	}

	if c.StalledTime, err = registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "lockstep_stalled_ms_total",
		Help: "Simulated milliseconds spent stalled, by client (closed stalls only).",
	}, []string{"client"}), "lockstep_stalled_ms_total"); err != nil {
		return nil, err
	}

	if c.ClientCycle, err = registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "lockstep_client_cycle",
		Help: "Highest cycle completed, by client.",
	}, []string{"client"}), "lockstep_client_cycle"); err != nil {
		return nil, err
	}

	if c.SimClock, err = registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lockstep_sim_clock_ms",
		Help: "Simulated clock after the last processed event.",
	}), "lockstep_sim_clock_ms"); err != nil {
		return nil, err
	}

	return c, nil
}

// Gatherer returns the Prometheus gatherer associated with the collector.
func (c *Collector) Gatherer() prometheus.Gatherer {
	if c == nil {
		return nil
	}
	return c.gatherer
}

// WriteTextfile writes the current metric values in text exposition format.
func (c *Collector) WriteTextfile(path string) error {
	if c == nil {
		return fmt.Errorf("telemetry: nil collector")
	}
	return prometheus.WriteToTextfile(path, c.gatherer)
}

func (c *Collector) EventProcessed(kind sim.EventKind, clock int64) {
	if c == nil {
		return
	}
	c.EventsProcessed.WithLabelValues(string(kind)).Inc()
	c.SimClock.Set(float64(clock))
}

func (c *Collector) MessageSent(_ sim.Message, delay int64) {
	if c == nil {
		return
	}
	c.MessagesSent.Inc()
	c.MessageDelay.Observe(float64(delay))
}

func (c *Collector) ClientStalled(client sim.ClientID, _ int, _ int64) {
	if c == nil {
		return
	}
	c.Stalls.WithLabelValues(clientLabel(client)).Inc()
}

func (c *Collector) ClientResumed(client sim.ClientID, _ int, _ int64, stalledFor int64) {
	if c == nil {
		return
	}
	label := clientLabel(client)
	c.Resumes.WithLabelValues(label).Inc()
	if stalledFor > 0 {
		c.StalledTime.WithLabelValues(label).Add(float64(stalledFor))
	}
}

func (c *Collector) CycleAdvanced(client sim.ClientID, cycle int) {
	if c == nil {
		return
	}
	c.ClientCycle.WithLabelValues(clientLabel(client)).Set(float64(cycle))
}

func clientLabel(id sim.ClientID) string {
	return strconv.Itoa(int(id))
}

func registerCounter(reg prometheus.Registerer, counter prometheus.Counter, name string) (prometheus.Counter, error) {
	if err := reg.Register(counter); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Counter); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return counter, nil
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, hist prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(hist); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return hist, nil
}

var _ sim.Observer = (*Collector)(nil)
