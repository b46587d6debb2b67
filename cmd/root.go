package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	sim "github.com/lockstep-sim/lockstep-sim/sim"
	"github.com/lockstep-sim/lockstep-sim/sim/telemetry"
	"github.com/lockstep-sim/lockstep-sim/sim/trace"
)

var (
	// CLI flags shared by run and sweep
	bufferDepth     int     // Lockstep look-ahead in update cycles
	latencyMean     float64 // Mean network latency (ms)
	latencyStd      float64 // Latency standard deviation (ms)
	latencyDist     string  // Latency distribution name
	numEvents       int     // Events to process before stopping
	numClients      int     // Number of lockstep participants
	updatePeriod    int64   // Local tick period (ms)
	seed            int64   // Master seed
	configPath      string  // Optional YAML scenario file
	checkInvariants bool    // Verify client invariants after every event

	// run-only flags
	logLevel     string // Log verbosity level
	metricsFile  string // Prometheus textfile output path
	printSummary bool   // Print the event trace summary
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "lockstep-sim",
	Short: "Discrete-event simulator for lockstep synchronization",
}

// runCmd executes one simulation using parameters from CLI flags and an optional scenario file
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the lockstep simulation",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging(logLevel)

		cfg, err := resolveConfig(cmd.Flags())
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		logrus.Infof("Starting simulation: clients=%d buffer=%d latency=%s(mean=%.1fms, std=%.1fms) tick=%dms events=%d seed=%d",
			cfg.NumClients, cfg.BufferDepth, cfg.Latency.Distribution, cfg.Latency.Mean, cfg.Latency.StdDev,
			cfg.UpdatePeriod, cfg.NumEvents, cfg.Seed)

		s, err := sim.NewSimulator(cfg)
		if err != nil {
			logrus.Fatalf("Failed to create simulator: %v", err)
		}
		s.VerifyInvariants = checkInvariants

		var collector *telemetry.Collector
		if metricsFile != "" {
			collector, err = telemetry.NewCollector(nil)
			if err != nil {
				logrus.Fatalf("Failed to register metrics: %v", err)
			}
			s.Observer = collector
		}
		if printSummary {
			s.Trace = trace.NewSimulationTrace()
		}

		startTime := time.Now()
		runErr := s.Run()

		s.Metrics.Print(os.Stdout)
		if s.Trace != nil {
			printTraceSummary(os.Stdout, trace.Summarize(s.Trace))
		}
		if collector != nil {
			if err := collector.WriteTextfile(metricsFile); err != nil {
				logrus.Errorf("Failed to write metrics file %s: %v", metricsFile, err)
			} else {
				logrus.Infof("Metrics written to %s", metricsFile)
			}
		}
		if runErr != nil {
			logrus.Fatalf("Simulation aborted: %v", runErr)
		}

		logrus.Infof("Simulation complete in %s.", time.Since(startTime))
	},
}

// setupLogging applies the --log level. Narration carries simulated time, so wall-clock stamps are dropped.
func setupLogging(levelName string) {
	level, err := logrus.ParseLevel(levelName)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", levelName)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// registerSimFlags binds the simulation parameters to fs.
func registerSimFlags(fs *pflag.FlagSet) {
	defaults := sim.DefaultSimConfig()
	fs.IntVarP(&bufferDepth, "buffer", "b", defaults.BufferDepth, "Buffer depth in update cycles")
	fs.Float64VarP(&latencyMean, "lat-mean", "m", defaults.Latency.Mean, "Mean network latency in ms")
	fs.Float64VarP(&latencyStd, "lat-std", "d", defaults.Latency.StdDev, "Network latency standard deviation in ms")
	fs.IntVarP(&numEvents, "num-events", "n", defaults.NumEvents, "Number of events to process")
	fs.IntVar(&numClients, "clients", defaults.NumClients, "Number of lockstep clients")
	fs.Int64Var(&updatePeriod, "tick", defaults.UpdatePeriod, "Update cycle period in ms")
	fs.Int64Var(&seed, "seed", defaults.Seed, "Seed for latency sampling")
	fs.StringVar(&latencyDist, "latency-dist", defaults.Latency.Distribution, "Latency distribution (normal, exponential, constant)")
	fs.StringVar(&configPath, "config", "", "Path to a YAML scenario file; explicit flags override its values")
	fs.BoolVar(&checkInvariants, "check-invariants", false, "Verify client invariants after every event")
}

// init sets up CLI flags and subcommands
func init() {
	registerSimFlags(runCmd.Flags())
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&metricsFile, "metrics-file", "", "Write Prometheus metrics in text format to this path")
	runCmd.Flags().BoolVar(&printSummary, "summary", false, "Print a summary of the event trace")

	registerSimFlags(sweepCmd.Flags())
	sweepCmd.Flags().StringVar(&sweepLogLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	sweepCmd.Flags().IntSliceVar(&sweepBuffers, "buffers", []int{1, 2, 3, 4, 5}, "Comma-separated buffer depths to compare")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
}
