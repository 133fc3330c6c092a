// Package builders provides test data builders for creating test fixtures
package builders

import (
	"github.com/digital-apple/bounty-quests-ng/internal/entities"
)

// QuestDefinitionBuilder provides a fluent interface for building test QuestDefinition instances
type QuestDefinitionBuilder struct {
	def *entities.QuestDefinition
}

// NewQuestDefinitionBuilder creates a new builder with minimal defaults
func NewQuestDefinitionBuilder() *QuestDefinitionBuilder {
	return &QuestDefinitionBuilder{
		def: &entities.QuestDefinition{
			Name:       "Embershard Mine",
			Difficulty: entities.DifficultyNovice,
			Category:   entities.CategoryBandit,
			Quest:      0xFE001200,
			Location:   0x00018C90,
			Region:     0x00016770,
			Note:       0xFF000800,
			Source:     "builder",
		},
	}
}

// WithName sets the location display name
func (b *QuestDefinitionBuilder) WithName(name string) *QuestDefinitionBuilder {
	b.def.Name = name
	return b
}

// WithDifficulty sets the tier
func (b *QuestDefinitionBuilder) WithDifficulty(d entities.Difficulty) *QuestDefinitionBuilder {
	b.def.Difficulty = d
	return b
}

// WithCategory sets the category
func (b *QuestDefinitionBuilder) WithCategory(c entities.Category) *QuestDefinitionBuilder {
	b.def.Category = c
	return b
}

// WithQuest sets the owning host quest
func (b *QuestDefinitionBuilder) WithQuest(id entities.FormID) *QuestDefinitionBuilder {
	b.def.Quest = id
	return b
}

// InLocation sets the target location and its region
func (b *QuestDefinitionBuilder) InLocation(location, region entities.FormID) *QuestDefinitionBuilder {
	b.def.Location = location
	b.def.Region = region
	return b
}

// WithNote sets the reward note item
func (b *QuestDefinitionBuilder) WithNote(id entities.FormID) *QuestDefinitionBuilder {
	b.def.Note = id
	return b
}

// BoundTo sets the objective index
func (b *QuestDefinitionBuilder) BoundTo(index uint16) *QuestDefinitionBuilder {
	b.def.ObjectiveIndex = index
	return b
}

// Build returns the definition
func (b *QuestDefinitionBuilder) Build() *entities.QuestDefinition {
	return b.def
}
