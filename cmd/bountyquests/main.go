// Package main is the entry point for the bounty quests tool
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/digital-apple/bounty-quests-ng/internal/config"
)

var (
	dataDir  string
	logLevel string

	// settings is loaded before any command runs
	settings *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "bountyquests",
	Short: "Bounty Quests data and session tool",
	Long: `bountyquests checks Bounty Quests data directories and replays play sessions
against a simulated host, with save slots kept in memory or in redis.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadSettings,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "data directory (overrides BOUNTY_DATA_DIR)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (overrides BOUNTY_LOG_LEVEL)")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(cosaveCmd)
}

func loadSettings(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()})))
	settings = cfg
	return nil
}
