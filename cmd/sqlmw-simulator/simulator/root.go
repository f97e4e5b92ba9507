// Package simulator implements the sqlmw-simulator CLI: a deterministic,
// seeded model of pool/transaction/query traffic that exercises the pool and
// transaction state machine's invariants without touching a real database,
// the Go encoding of original_source/simulator/src/main.rs.
package simulator

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	flagSeed          uint64
	flagIterations    uint64
	flagDuration      time.Duration
	flagPoolSize      int
	flagTasks         int
	flagDDLRate       float64
	flagBusyRate      float64
	flagPanicRate     float64
	flagSleepRate     float64
	flagMaxInFlightTx int
	flagLog           string
	flagQuick         bool
	flagStress        bool
)

// rootCmd is the sqlmw-simulator entry point, grounded on
// argon-it-seedfast-cli/cmd/root.go's cobra.Command shape (Use/Short/Long,
// SilenceUsage/SilenceErrors, flags bound in init()).
var rootCmd = &cobra.Command{
	Use:           "sqlmw-simulator",
	Short:         "Deterministic sql middleware pool/transaction simulator",
	Long:          "sqlmw-simulator drives a seeded model of pool checkout, transaction and query traffic and reports the first invariant violation it finds.",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := defaultConfig()
		cfg.Seed = flagSeed
		if cfg.Seed == 0 {
			cfg.Seed = uint64(rand.New(rand.NewSource(time.Now().UnixNano())).Int63())
		}
		cfg.Iterations = flagIterations
		cfg.Duration = flagDuration
		cfg.PoolSize = flagPoolSize
		cfg.Tasks = flagTasks
		cfg.DDLRate = clampRate(flagDDLRate)
		cfg.BusyRate = clampRate(flagBusyRate)
		cfg.PanicRate = clampRate(flagPanicRate)
		cfg.SleepRate = clampRate(flagSleepRate)
		cfg.MaxInFlightTx = max(flagMaxInFlightTx, 1)
		cfg.LogPath = flagLog

		if flagQuick {
			cfg.applyQuick()
		}
		if flagStress {
			cfg.applyStress()
		}

		return Run(cfg)
	},
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Execute runs the CLI application.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Uint64Var(&flagSeed, "seed", 0, "deterministic RNG seed (random if unset)")
	rootCmd.Flags().Uint64Var(&flagIterations, "iterations", 100_000, "number of steps to run (0 = unlimited, bounded by --duration)")
	rootCmd.Flags().DurationVar(&flagDuration, "duration", 0, "wall-clock model time to run (0 = unlimited, bounded by --iterations)")
	rootCmd.Flags().IntVar(&flagPoolSize, "pool-size", 8, "number of simulated pooled connections")
	rootCmd.Flags().IntVar(&flagTasks, "tasks", 16, "number of concurrent simulated callers")
	rootCmd.Flags().Float64Var(&flagDDLRate, "ddl-rate", 0.02, "fraction of ops that are DDL statements")
	rootCmd.Flags().Float64Var(&flagBusyRate, "busy-rate", 0.01, "fraction of ops that simulate a busy/locked backend")
	rootCmd.Flags().Float64Var(&flagPanicRate, "panic-rate", 0.001, "fraction of ops that simulate a broken connection")
	rootCmd.Flags().Float64Var(&flagSleepRate, "sleep-rate", 0.05, "fraction of turns a task spends sleeping instead of acting")
	rootCmd.Flags().IntVar(&flagMaxInFlightTx, "max-in-flight-tx", 4, "cap on concurrently open transactions across all tasks")
	rootCmd.Flags().StringVar(&flagLog, "log", "", "also write the JSON trace to this file")
	rootCmd.Flags().BoolVar(&flagQuick, "quick", false, "apply the quick preset (10k iterations, small pool)")
	rootCmd.Flags().BoolVar(&flagStress, "stress", false, "apply the stress preset (250k iterations, large pool)")
}
