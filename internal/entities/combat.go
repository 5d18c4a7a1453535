package entities

// CombatAction is a player-chosen combat move.
type CombatAction string

// Combat actions
const (
	ActionAttack CombatAction = "attack"
	ActionDefend CombatAction = "defend"
	ActionMagic  CombatAction = "magic"
	ActionFlee   CombatAction = "flee"
)

// Valid reports whether the action is one of the four known moves.
func (a CombatAction) Valid() bool {
	switch a {
	case ActionAttack, ActionDefend, ActionMagic, ActionFlee:
		return true
	}
	return false
}

// CombatSession is the ephemeral record of an in-progress fight. At most one
// active session exists per character. The enemy attack timestamps are epoch
// milliseconds driving the lazy auto-attack simulation.
type CombatSession struct {
	ID                    string `json:"id"`
	CharacterID           string `json:"characterId"`
	EnemyID               string `json:"enemyId"`
	EnemyHealth           int    `json:"enemyHealth"`
	Turn                  string `json:"turn"`
	Active                bool   `json:"active"`
	NextEnemyAttackAt     int64  `json:"nextEnemyAttackAt"`
	LastEnemyAttackAt     int64  `json:"lastEnemyAttackAt"`
	LastEnemyAttackDamage int    `json:"lastEnemyAttackDamage"`
}
