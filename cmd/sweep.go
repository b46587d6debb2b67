package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/lockstep-sim/lockstep-sim/sim"
)

var (
	sweepBuffers  []int  // Buffer depths to compare
	sweepLogLevel string // Log verbosity level for sweep runs

	// newSweepSimulator builds each run of the sweep
	newSweepSimulator = sim.NewSimulator
)

// sweepResult is one row of the sweep table.
type sweepResult struct {
	BufferDepth int
	Stalls      []int
	Resumes     int
	MaxCycle    int
	StalledTime int64
	SimEnded    int64
}

// sweepCmd compares stall behaviour across buffer depths with otherwise equal settings
var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one simulation per buffer depth and compare stalls",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging(sweepLogLevel)

		base, err := resolveConfig(cmd.Flags())
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}
		results, err := runSweep(base, sweepBuffers, checkInvariants)
		if err != nil {
			logrus.Fatalf("Sweep aborted: %v", err)
		}
		if err := writeSweepTable(os.Stdout, results); err != nil {
			logrus.Fatalf("Failed to write sweep table: %v", err)
		}
	},
}

// runSweep runs base once per buffer depth. Every run uses the same seed.
// With verify set, client invariants are checked after every event.
func runSweep(base sim.SimConfig, buffers []int, verify bool) ([]sweepResult, error) {
	if len(buffers) == 0 {
		return nil, fmt.Errorf("%w: no buffer depths to sweep", sim.ErrInvalidConfig)
	}
	results := make([]sweepResult, 0, len(buffers))
	for _, depth := range buffers {
		cfg := base
		cfg.BufferDepth = depth
		s, err := newSweepSimulator(cfg)
		if err != nil {
			return nil, fmt.Errorf("buffer depth %d: %w", depth, err)
		}
		s.VerifyInvariants = verify
		if err := s.Run(); err != nil {
			return nil, fmt.Errorf("buffer depth %d: %w", depth, err)
		}
		m := s.Metrics
		row := sweepResult{
			BufferDepth: depth,
			Stalls:      append([]int(nil), m.Stalls...),
			Resumes:     m.TotalResumes(),
			SimEnded:    m.SimEndedTime,
		}
		for id := range m.MaxCycle {
			row.MaxCycle = max(row.MaxCycle, m.MaxCycle[id])
			row.StalledTime += m.StalledTime[id]
		}
		logrus.Infof("Buffer depth %d: stalls=%v resumes=%d", depth, row.Stalls, row.Resumes)
		results = append(results, row)
	}
	return results, nil
}

// writeSweepTable prints one aligned row per buffer depth.
func writeSweepTable(w io.Writer, results []sweepResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BUFFER\tSTALLS\tPER CLIENT\tRESUMES\tMAX CYCLE\tSTALLED MS\tSIM END MS")
	for _, r := range results {
		total := 0
		perClient := make([]string, len(r.Stalls))
		for i, n := range r.Stalls {
			total += n
			perClient[i] = fmt.Sprintf("%d", n)
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%d\t%d\t%d\t%d\n",
			r.BufferDepth, total, strings.Join(perClient, "/"), r.Resumes, r.MaxCycle, r.StalledTime, r.SimEnded)
	}
	return tw.Flush()
}
