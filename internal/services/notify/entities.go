package notify

import (
	"github.com/KirkDiggler/rpg-toolkit/core"

	"github.com/KirkDiggler/charforge/internal/entities"
)

// CharacterEntity lets a character be the source of a bus event
type CharacterEntity struct {
	*entities.Character
}

// GetID returns the character's ID
func (c *CharacterEntity) GetID() string {
	return c.ID
}

// GetType returns the entity type for rpg-toolkit
func (c *CharacterEntity) GetType() string {
	return "character"
}

// WrapCharacter converts a character to a core.Entity
func WrapCharacter(character *entities.Character) *CharacterEntity {
	return &CharacterEntity{Character: character}
}

var _ core.Entity = (*CharacterEntity)(nil)
