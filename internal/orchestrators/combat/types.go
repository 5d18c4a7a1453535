package combat

import (
	"github.com/questforge/questforge-api/internal/entities"
)

// StartInput defines the input for starting a fight
type StartInput struct {
	CharacterID string
	EnemyID     string
}

// StartOutput defines the output for starting a fight
type StartOutput struct {
	Session *entities.CombatSession
}

// PollInput defines the input for polling an active fight
type PollInput struct {
	CharacterID string
}

// PollOutput defines the output for polling an active fight. Session is nil
// when the character has no active fight. Defeated is set when a pending
// auto-attack finished the character off; the session is already gone.
type PollOutput struct {
	Session  *entities.CombatSession
	Defeated bool
	Message  string
}

// ActInput defines the input for a combat action
type ActInput struct {
	CharacterID string
	Action      entities.CombatAction
}

// ActOutput defines the outcome of a combat action. Exactly one of Victory,
// Defeated, Fled is set for a terminal outcome; all three false means the
// fight continues. Character is populated on victory with the reconciled
// snapshot.
type ActOutput struct {
	Message               string
	Victory               bool
	Defeated              bool
	Fled                  bool
	EnemyDamage           int
	EnemyMessage          string
	LastEnemyAttackAt     int64
	LastEnemyAttackDamage int
	Character             *entities.Character
}

// ExploreInput defines the input for exploring the current location
type ExploreInput struct {
	CharacterID string
}

// ExploreOutput defines the output for a successful exploration
type ExploreOutput struct {
	Enemies     []*entities.Enemy
	CooldownMs  int64
	NextAllowed int64
}
