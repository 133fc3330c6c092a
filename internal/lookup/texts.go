package lookup

import (
	"fmt"
	"strings"
	"sync"

	"github.com/digital-apple/bounty-quests-ng/internal/entities"
)

// Placeholders recognized in the objective template
const (
	PlaceholderDifficulty = "%d"
	PlaceholderIndex      = "%i"
	PlaceholderLocation   = "%l"
)

// Texts is the display-text table loaded from Texts.json
type Texts struct {
	mu    sync.RWMutex
	slots map[entities.TextSlot]string
}

// NewTexts returns an empty table
func NewTexts() *Texts {
	return &Texts{slots: make(map[entities.TextSlot]string)}
}

// Set stores the text of a slot, replacing any previous value
func (t *Texts) Set(slot entities.TextSlot, text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.slots[slot] = text
}

// Text returns the text of a slot
func (t *Texts) Text(slot entities.TextSlot) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	text, ok := t.slots[slot]
	return text, ok
}

// Len returns the number of populated slots
func (t *Texts) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.slots)
}

// FormatDifficulty returns the display label of a tier, falling back to the
// tier's canonical name when the table has none
func (t *Texts) FormatDifficulty(d entities.Difficulty) string {
	slot, ok := entities.TextSlotFor(d)
	if !ok {
		return d.String()
	}
	if text, ok := t.Text(slot); ok && text != "" {
		return text
	}
	return d.String()
}

// FormatObjective fills the objective template. Only the first occurrence
// of each placeholder is replaced; missing placeholders are left out.
func (t *Texts) FormatObjective(d entities.Difficulty, index uint16, locationName string) string {
	text, _ := t.Text(entities.TextObjective)

	text = strings.Replace(text, PlaceholderDifficulty, t.FormatDifficulty(d), 1)
	text = strings.Replace(text, PlaceholderIndex, fmt.Sprintf("%02d", index), 1)
	text = strings.Replace(text, PlaceholderLocation, locationName, 1)

	return text
}
