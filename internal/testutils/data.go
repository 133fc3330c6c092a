package testutils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
)

// ObjectiveTemplate is the objective text written by WriteBountyData
const ObjectiveTemplate = "[%d] %i: Clear %l"

// WriteBountyData writes the data files describing the fixture world into
// a temporary directory and returns it. Whiterun bounties go to
// Quests/Whiterun.json, Falkreath ones to Quests/Falkreath.json.
func WriteBountyData(t testing.TB) string {
	t.Helper()

	dir := t.TempDir()
	plugin := entities.DefaultPluginFile
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Quests"), 0o755))

	files := map[entities.FormID]string{Whiterun: "Whiterun.json", Falkreath: "Falkreath.json"}
	for region, name := range files {
		var entries []string
		for _, b := range BountyLocations {
			if b.Region != region {
				continue
			}
			entries = append(entries, fmt.Sprintf(`{
      "LocationName": %q,
      "Difficulty": %q,
      "Type": %q,
      "Location": {"FormID": "0x%X", "ModName": %q},
      "Region": {"FormID": %d, "ModName": %q},
      "Quest": {"FormID": "0x%X", "ModName": %q}
    }`, b.Name, b.Difficulty.String(), b.Category.String(),
				uint32(b.ID), BaseGameFile,
				uint32(b.Region), BaseGameFile,
				uint32(LocalBountyQuest), plugin))
		}
		writeFile(t, filepath.Join(dir, "Quests", name), `{"Quests": [`+strings.Join(entries, ",")+`]}`)
	}

	writeFile(t, filepath.Join(dir, "Rewards.json"), fmt.Sprintf(`{"Rewards": [{
    "FormID": %d,
    "ModName": %q,
    "Quantity": {"Novice": 5, "Apprentice": 10, "Adept": 20, "Expert": 40, "Master": 80, "Legendary": 160}
  }]}`, uint32(Gold), BaseGameFile))

	writeFile(t, filepath.Join(dir, "Trackers.json"), fmt.Sprintf(`{"Trackers": [
    {"GlobalVariable": {"FormID": "0x%X", "ModName": %q}, "Region": {"FormID": %d, "ModName": %q}},
    {"GlobalVariable": {"FormID": "0x%X", "ModName": %q}, "Region": {"FormID": %d, "ModName": %q}}
  ]}`,
		uint32(LocalWhiterunTracker), plugin, uint32(Whiterun), BaseGameFile,
		uint32(LocalFalkreathTracker), plugin, uint32(Falkreath), BaseGameFile))

	writeFile(t, filepath.Join(dir, "Texts.json"), fmt.Sprintf(`{"Texts": [{
    "Objective": %q,
    "Novice": "Novice",
    "Apprentice": "Apprentice",
    "Adept": "Adept",
    "Expert": "Expert",
    "Master": "Master",
    "Legendary": "Legendary"
  }]}`, ObjectiveTemplate))

	return dir
}

func writeFile(t testing.TB, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
