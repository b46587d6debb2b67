// Tracks simulation-wide and per-client lockstep statistics such as:
// stalls, resumes, time spent stalled, cycles reached, and message delays.

package sim

import (
	"fmt"
	"io"
)

// Metrics aggregates statistics about the simulation
// for final reporting. Per-client slices are indexed by ClientID.
type Metrics struct {
	EventsProcessed int   // Number of events popped and executed
	UpdateCycles    int   // UpdateCycleDue events processed (advances + stalls)
	MessageArrivals int   // MessageArrived events processed
	MessagesSent    int   // Messages pushed, including initialization seeds
	EarlyArrivals   int   // Arrivals buffered before the destination registered the cycle
	TotalDelay      int64 // Sum of sampled message delays (ms)
	MaxDelay        int64 // Largest sampled message delay (ms)

	Stalls      []int   // client -> number of Running -> Stalled transitions
	Resumes     []int   // client -> number of Stalled -> Running transitions
	StalledTime []int64 // client -> total ms spent stalled (closed intervals only)
	MaxCycle    []int   // client -> highest cycle completed

	SimEndedTime int64 // clock after the last processed event
}

// NewMetrics creates zeroed metrics for numClients clients.
func NewMetrics(numClients int) *Metrics {
	return &Metrics{
		Stalls:      make([]int, numClients),
		Resumes:     make([]int, numClients),
		StalledTime: make([]int64, numClients),
		MaxCycle:    make([]int, numClients),
	}
}

// TotalStalls sums stalls across clients.
func (m *Metrics) TotalStalls() int {
	total := 0
	for _, s := range m.Stalls {
		total += s
	}
	return total
}

// TotalResumes sums resumes across clients.
func (m *Metrics) TotalResumes() int {
	total := 0
	for _, r := range m.Resumes {
		total += r
	}
	return total
}

// AverageDelay returns the mean sampled message delay, or 0 if nothing was sent.
func (m *Metrics) AverageDelay() float64 {
	if m.MessagesSent == 0 {
		return 0
	}
	return float64(m.TotalDelay) / float64(m.MessagesSent)
}

// Print writes aggregated metrics at the end of the simulation.
func (m *Metrics) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Simulated Time       : %d ms\n", m.SimEndedTime)
	fmt.Fprintf(w, "Events Processed     : %d (update cycles=%d, arrivals=%d)\n",
		m.EventsProcessed, m.UpdateCycles, m.MessageArrivals)
	fmt.Fprintf(w, "Messages Sent        : %d (early arrivals=%d)\n", m.MessagesSent, m.EarlyArrivals)
	fmt.Fprintf(w, "Average Delay        : %.2f ms (max %d ms)\n", m.AverageDelay(), m.MaxDelay)
	fmt.Fprintf(w, "Total Stalls         : %d\n", m.TotalStalls())
	for id := range m.Stalls {
		fmt.Fprintf(w, "  client %-3d : cycle=%d stalls=%d resumes=%d stalled=%dms\n",
			id, m.MaxCycle[id], m.Stalls[id], m.Resumes[id], m.StalledTime[id])
	}
}
