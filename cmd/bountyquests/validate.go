package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
	"github.com/digital-apple/bounty-quests-ng/internal/errors"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a data directory",
	Long: `Load the data directory the way the plugin does and report what it contains.
Entries that do not resolve are logged and left out of the counts.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func runValidate(_ *cobra.Command, _ []string) error {
	s, err := openSession(false)
	if err != nil {
		return err
	}
	defer s.close()

	fmt.Printf("Data directory: %s\n", settings.DataDir)
	fmt.Printf("Load order:     %v\n", s.seeded.LoadOrder)
	fmt.Printf("Bounties:       %d\n", s.summary.Definitions)
	fmt.Printf("Reward rules:   %d\n", s.summary.Rewards)
	fmt.Printf("Trackers:       %d\n", s.summary.Trackers)
	fmt.Printf("Texts:          %d\n", s.summary.Texts)

	type key struct {
		region   entities.FormID
		category entities.Category
	}
	counts := make(map[key]int)
	for _, def := range s.plugin.Definitions() {
		counts[key{def.Region, def.Category}]++
	}
	keys := make([]key, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].region != keys[j].region {
			return keys[i].region < keys[j].region
		}
		return keys[i].category < keys[j].category
	})

	fmt.Printf("\nBounties by region:\n")
	untracked := 0
	for _, k := range keys {
		mark := ""
		if !s.plugin.Store().IsTracked(k.region) {
			mark = "  (no tracker)"
			untracked++
		}
		fmt.Printf("  %s %-10s %d%s\n", k.region, k.category, counts[k], mark)
	}

	if s.summary.Definitions == 0 {
		return errors.FailedPreconditionf("no bounty in %s resolved", settings.DataDir)
	}
	if untracked > 0 {
		fmt.Printf("\n%d region/category groups have no tracker; their bounties pay no reward\n", untracked)
	}
	return nil
}
