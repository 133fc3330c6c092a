package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/host"
	"github.com/digital-apple/bounty-quests-ng/internal/host/sim"
	"github.com/digital-apple/bounty-quests-ng/internal/repositories/cosave"
	"github.com/digital-apple/bounty-quests-ng/internal/serialization"
)

var cosaveCmd = &cobra.Command{
	Use:   "cosave",
	Short: "Inspect stored save slots",
}

var cosaveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored save slots",
	Args:  cobra.NoArgs,
	RunE:  runCosaveList,
}

var cosaveInspectCmd = &cobra.Command{
	Use:   "inspect [slot]",
	Short: "Decode the records of a save slot",
	Long: `Decode every record of a stored save slot without loading it.

  Example: cosave inspect quicksave`,
	Args: cobra.ExactArgs(1),
	RunE: runCosaveInspect,
}

func init() {
	cosaveCmd.AddCommand(cosaveListCmd)
	cosaveCmd.AddCommand(cosaveInspectCmd)
}

func runCosaveList(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	slots, cleanup, err := openSlots(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	out, err := slots.List(ctx, &cosave.ListInput{})
	if err != nil {
		return err
	}
	if len(out.Slots) == 0 {
		fmt.Println("No save slots")
		return nil
	}
	for _, slot := range out.Slots {
		fmt.Printf("%-24s %8d bytes  %s\n", slot.Name, slot.Size, slot.SavedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runCosaveInspect(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	slots, cleanup, err := openSlots(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	out, err := slots.Get(ctx, &cosave.GetInput{Name: args[0]})
	if err != nil {
		return err
	}
	container, err := sim.Unmarshal(out.Slot.Blob)
	if err != nil {
		return err
	}

	fmt.Printf("Slot %s, saved %s\n", out.Slot.Name, out.Slot.SavedAt.Format("2006-01-02 15:04:05"))
	for _, rec := range container.Records() {
		info := host.RecordInfo{Type: rec.Type, Version: rec.Version, Length: uint32(len(rec.Data))}
		decoded, err := serialization.DecodeRecord(info, rec.Data)
		fmt.Printf("\n[%s] version %d, %d bytes\n", decoded.Tag, decoded.Version, info.Length)
		if err != nil {
			fmt.Printf("  error: %v\n", err)
		}
		for _, loc := range decoded.Reservations {
			fmt.Printf("  reserved %s\n", loc)
		}
		for _, text := range decoded.Objectives {
			fmt.Printf("  quest %s objective %d at %s: %q\n", text.Quest, text.Index, text.Location, text.Text)
		}
		for _, t := range decoded.Trackers {
			fmt.Printf("  tracker %s region %s:", t.Global, t.Region)
			for _, d := range sortedTiers(t.Rewards) {
				fmt.Printf(" %s=%d", d, t.Rewards[d])
			}
			fmt.Println()
		}
	}
	return nil
}

func sortedTiers(rewards map[entities.Difficulty]uint32) []entities.Difficulty {
	tiers := make([]entities.Difficulty, 0, len(rewards))
	for d := range rewards {
		tiers = append(tiers, d)
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i] < tiers[j] })
	return tiers
}
