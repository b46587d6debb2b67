package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/lockstep-sim/lockstep-sim/sim/trace"
)

// printTraceSummary writes the --summary block after the metrics.
func printTraceSummary(w io.Writer, summary *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Trace Summary ===")
	fmt.Fprintf(w, "Events Traced        : %d (update cycles=%d, arrivals=%d)\n",
		summary.TotalEvents, summary.UpdateCycles, summary.MessageArrivals)
	fmt.Fprintf(w, "Clock Range          : %d..%d ms (monotonic=%t)\n",
		summary.FirstClock, summary.LastClock, summary.MonotonicTime)
	fmt.Fprintf(w, "Stalls / Resumes     : %d / %d\n", summary.StallCount, summary.ResumeCount)

	ids := make([]int, 0, len(summary.StallsByClient))
	for id := range summary.StallsByClient {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		fmt.Fprintf(w, "  client %-3d : stalls=%d resumes=%d\n",
			id, summary.StallsByClient[id], summary.ResumesByClient[id])
	}
}
