package character

import (
	"github.com/questforge/questforge-api/internal/entities"
)

// CreateInput defines the input for creating a character. Zero-valued stats
// fall back to the default of 10; explicit values must be within the
// allowed creation range.
type CreateInput struct {
	Name     string
	Class    string
	Strength int
	Magic    int
	Agility  int
	Defense  int
}

// CreateOutput defines the output for creating a character
type CreateOutput struct {
	Character *entities.Character
}

// GetInput defines the input for getting a character
type GetInput struct {
	ID string
}

// GetOutput defines the output for getting a character
type GetOutput struct {
	Character *entities.Character
}

// UpdateInput defines a partial character update. Nil fields are left
// untouched.
type UpdateInput struct {
	ID            string
	Name          *string
	Health        *int
	Strength      *int
	Magic         *int
	Agility       *int
	Defense       *int
	Gold          *int
	Experience    *int
	UnspentPoints *int
}

// UpdateOutput defines the output for updating a character
type UpdateOutput struct {
	Character *entities.Character
}

// MoveInput defines the input for moving a character
type MoveInput struct {
	CharacterID string
	LocationID  string
}

// MoveOutput defines the output for moving a character
type MoveOutput struct {
	Character *entities.Character
}

// AllocateStatPointInput defines the input for spending one unspent point
type AllocateStatPointInput struct {
	CharacterID string
	Stat        Stat
}

// AllocateStatPointOutput defines the output for spending one unspent point
type AllocateStatPointOutput struct {
	Character *entities.Character
}

// Stat names a stat that unspent points can be allocated to.
type Stat string

// Allocatable stats
const (
	StatStrength Stat = "strength"
	StatMagic    Stat = "magic"
	StatAgility  Stat = "agility"
	StatDefense  Stat = "defense"
)

// Valid reports whether the stat accepts allocation.
func (s Stat) Valid() bool {
	switch s {
	case StatStrength, StatMagic, StatAgility, StatDefense:
		return true
	}
	return false
}
