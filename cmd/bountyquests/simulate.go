package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/simulate"
)

var realtime bool

var simulateCmd = &cobra.Command{
	Use:   "simulate [scenario.json]",
	Short: "Replay a play session against a simulated host",
	Long: `Seed a simulated world from the data directory, load the plugin on it and
replay the scenario's steps.

  Example: simulate sessions/whiterun.json
  Steps:   {"Steps": [{"Op": "start_every", "Region": {"FormID": "0x16770", "ModName": "Skyrim.esm"}, "Category": "Bandit"}]}`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().BoolVar(&realtime, "realtime", false, "wait the configured bind intervals instead of skipping them")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	doc, err := os.ReadFile(args[0])
	if err != nil {
		return errors.WrapWithCodef(err, errors.CodeNotFound, "failed to read scenario %s", args[0])
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	slots, cleanup, err := openSlots(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	s, err := openSession(realtime)
	if err != nil {
		return err
	}
	defer s.close()

	runner, err := simulate.NewRunner(&simulate.RunnerConfig{
		Seeded: s.seeded,
		Plugin: s.plugin,
		Slots:  slots,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Loaded %d bounties, %d reward rules, %d trackers\n",
		s.summary.Definitions, s.summary.Rewards, s.summary.Trackers)

	results, runErr := runner.Run(ctx, doc)
	for i, res := range results {
		fmt.Printf("%3d  %-12s %s\n", i+1, res.Op, res.Detail)
	}

	snapshot := runner.Snapshot()
	fmt.Printf("\nReserved locations: %d\n", len(snapshot.Reserved))
	for _, loc := range snapshot.Reserved {
		fmt.Printf("  %s\n", loc)
	}
	fmt.Printf("Trackers:\n")
	for _, t := range snapshot.Trackers {
		fmt.Printf("  %s (global %s):", t.Region, t.Global)
		for _, d := range sortedTiers(t.Rewards) {
			fmt.Printf(" %s=%d", d, t.Rewards[d])
		}
		fmt.Println()
	}
	fmt.Printf("Player inventory:\n")
	for item, count := range snapshot.Inventory {
		fmt.Printf("  %s x%d\n", item, count)
	}

	return runErr
}
