// Package cli implements the lernpfad command-line interface using Cobra.
// Every subcommand except serve works directly against the configured
// state store, so it can be used with or without a running daemon.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lernpfad/lernpfad/internal/daemon"
	"github.com/lernpfad/lernpfad/internal/domain"
	"github.com/lernpfad/lernpfad/internal/infra/clock"
)

var (
	flagDate    string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "lernpfad",
	Short: "lernpfad: XP, levels, streaks and VUCA learning progress",
	Long: `lernpfad tracks learner engagement (XP, levels, daily streaks with a
streak freeze, a weekly XP window) and progress through a VUCA curriculum
(Volatility, Uncertainty, Complexity, Ambiguity).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDate, "date", "", "Act as if today were this date (YYYY-MM-DD)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log at info level to stderr")
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// openDaemon builds the services from the on-disk config. One-shot
// commands log warnings only unless --verbose is set.
func openDaemon() (*daemon.Daemon, error) {
	cfg, err := daemon.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if !flagVerbose {
		cfg.Logging.Level = "warn"
	}

	var opts []daemon.Option
	if flagDate != "" {
		t, err := domain.ParseDate(flagDate)
		if err != nil {
			return nil, err
		}
		opts = append(opts, daemon.WithClock(clock.Fixed(t)))
	}
	return daemon.NewWithConfig(cfg, opts...)
}
