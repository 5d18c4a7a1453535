// Package combat implements the fight lifecycle: starting fights, resolving
// player actions, the lazy enemy auto-attack simulation, and the victory
// reconciliation that folds rewards back into the character.
package combat

//go:generate mockgen -destination=mock/mock_service.go -package=combatmock github.com/questforge/questforge-api/internal/orchestrators/combat Service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/questforge/questforge-api/internal/entities"
	"github.com/questforge/questforge-api/internal/errors"
	"github.com/questforge/questforge-api/internal/pkg/clock"
	"github.com/questforge/questforge-api/internal/pkg/idgen"
	"github.com/questforge/questforge-api/internal/pkg/lock"
	"github.com/questforge/questforge-api/internal/pkg/rng"
	"github.com/questforge/questforge-api/internal/repositories/character"
	"github.com/questforge/questforge-api/internal/repositories/characterquest"
	"github.com/questforge/questforge-api/internal/repositories/combatsession"
	"github.com/questforge/questforge-api/internal/repositories/cooldown"
	"github.com/questforge/questforge-api/internal/repositories/gamedata"
)

const (
	// Enemy auto-attacks fire no sooner than 2.5s apart, with up to 1.5s
	// of jitter on the reschedule.
	firstEnemyAttackDelayMs = 2500
	enemyAttackBaseDelayMs  = 2500
	enemyAttackJitterMs     = 1500

	// Training dummy health scales with the character but stops growing
	// at the level-21 value.
	dummyBaseHealth     = 30
	dummyHealthPerLevel = 10
	dummyHealthCap      = dummyBaseHealth + 20*dummyHealthPerLevel

	maxCharacterHealth = 250
	levelBonusGold     = 5
	levelBonusHealth   = 5
	fullHealMaxLevel   = 5

	exploreCooldown    = 5 * time.Second
	exploreMinEnemies  = 2
	exploreEnemySpread = 6
)

// Service orchestrates combat operations
type Service interface {
	// Start begins a fight against an enemy.
	// Returns errors.AlreadyExists if the character is already fighting.
	Start(ctx context.Context, input *StartInput) (*StartOutput, error)

	// Poll reads the active fight and applies any due enemy auto-attack.
	Poll(ctx context.Context, input *PollInput) (*PollOutput, error)

	// Act resolves one player combat action and the enemy's response.
	Act(ctx context.Context, input *ActInput) (*ActOutput, error)

	// Explore rolls a random encounter list for the character's location.
	// Returns errors.ResourceExhausted while the explore cooldown is live.
	Explore(ctx context.Context, input *ExploreInput) (*ExploreOutput, error)
}

// Config holds the dependencies for the combat orchestrator
type Config struct {
	CharacterRepo      character.Repository
	SessionRepo        combatsession.Repository
	CharacterQuestRepo characterquest.Repository
	CooldownRepo       cooldown.Repository
	GameData           gamedata.Repository
	Locks              *lock.Keyed
	IDGenerator        idgen.Generator
	Clock              clock.Clock
	Roller             rng.Roller
}

// Validate ensures all required dependencies are present
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.SessionRepo == nil {
		vb.RequiredField("SessionRepo")
	}
	if c.CharacterQuestRepo == nil {
		vb.RequiredField("CharacterQuestRepo")
	}
	if c.CooldownRepo == nil {
		vb.RequiredField("CooldownRepo")
	}
	if c.GameData == nil {
		vb.RequiredField("GameData")
	}
	if c.Locks == nil {
		vb.RequiredField("Locks")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}

	return vb.Build()
}

type orchestrator struct {
	characterRepo      character.Repository
	sessionRepo        combatsession.Repository
	characterQuestRepo characterquest.Repository
	cooldownRepo       cooldown.Repository
	gameData           gamedata.Repository
	locks              *lock.Keyed
	idGenerator        idgen.Generator
	clock              clock.Clock
	roller             rng.Roller
}

// NewOrchestrator creates a new combat orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &orchestrator{
		characterRepo:      cfg.CharacterRepo,
		sessionRepo:        cfg.SessionRepo,
		characterQuestRepo: cfg.CharacterQuestRepo,
		cooldownRepo:       cfg.CooldownRepo,
		gameData:           cfg.GameData,
		locks:              cfg.Locks,
		idGenerator:        cfg.IDGenerator,
		clock:              cfg.Clock,
		roller:             cfg.Roller,
	}, nil
}

func (o *orchestrator) Start(ctx context.Context, input *StartInput) (*StartOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}
	if input.EnemyID == "" {
		return nil, errors.InvalidArgument("enemy ID is required")
	}

	defer o.locks.Lock(input.CharacterID)()

	enemyOut, err := o.gameData.GetEnemy(ctx, gamedata.GetEnemyInput{ID: input.EnemyID})
	if err != nil {
		return nil, err
	}
	enemy := enemyOut.Enemy

	charOut, err := o.characterRepo.Get(ctx, character.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, err
	}
	char := charOut.Character

	startingHealth := enemy.Health
	if enemy.IsTraining() {
		startingHealth = dummyBaseHealth + (char.Level-1)*dummyHealthPerLevel
		if startingHealth > dummyHealthCap {
			startingHealth = dummyHealthCap
		}
	}

	now := o.clock.Now().UnixMilli()
	session := &entities.CombatSession{
		ID:                o.idGenerator.Generate(),
		CharacterID:       char.ID,
		EnemyID:           enemy.ID,
		EnemyHealth:       startingHealth,
		Turn:              "player",
		Active:            true,
		NextEnemyAttackAt: now + firstEnemyAttackDelayMs,
	}

	created, err := o.sessionRepo.Create(ctx, combatsession.CreateInput{Session: session})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "combat started",
		"character_id", char.ID,
		"enemy_id", enemy.ID,
		"enemy_health", startingHealth,
	)

	return &StartOutput{Session: created.Session}, nil
}

func (o *orchestrator) Poll(ctx context.Context, input *PollInput) (*PollOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	defer o.locks.Lock(input.CharacterID)()

	sessOut, err := o.sessionRepo.Get(ctx, combatsession.GetInput{CharacterID: input.CharacterID})
	if err != nil {
		if errors.IsNotFound(err) {
			return &PollOutput{}, nil
		}
		return nil, err
	}
	session := sessOut.Session

	enemyOut, err := o.gameData.GetEnemy(ctx, gamedata.GetEnemyInput{ID: session.EnemyID})
	if err != nil {
		// Stale session referencing removed content; surface it unchanged.
		return &PollOutput{Session: session}, nil
	}
	enemy := enemyOut.Enemy

	charOut, err := o.characterRepo.Get(ctx, character.GetInput{ID: input.CharacterID})
	if err != nil {
		return &PollOutput{Session: session}, nil
	}
	char := charOut.Character

	if enemy.IsTraining() || !session.Active || session.NextEnemyAttackAt == 0 {
		return &PollOutput{Session: session}, nil
	}

	now := o.clock.Now().UnixMilli()
	if now < session.NextEnemyAttackAt {
		return &PollOutput{Session: session}, nil
	}

	damage := o.autoAttackDamage(enemy, char)
	newHealth := char.Health - damage
	if newHealth < 0 {
		newHealth = 0
	}
	char.Health = newHealth
	if _, err := o.characterRepo.Update(ctx, character.UpdateInput{Character: char}); err != nil {
		return nil, err
	}

	session.LastEnemyAttackAt = now
	session.LastEnemyAttackDamage = damage
	session.NextEnemyAttackAt = now + enemyAttackBaseDelayMs + int64(o.roller.Intn(enemyAttackJitterMs))

	if newHealth <= 0 {
		if _, err := o.sessionRepo.Delete(ctx, combatsession.DeleteInput{CharacterID: char.ID}); err != nil {
			return nil, err
		}
		slog.InfoContext(ctx, "character defeated by auto-attack",
			"character_id", char.ID,
			"enemy_id", enemy.ID,
			"damage", damage,
		)
		return &PollOutput{Defeated: true, Message: "You have been defeated!"}, nil
	}

	updated, err := o.sessionRepo.Update(ctx, combatsession.UpdateInput{Session: session})
	if err != nil {
		return nil, err
	}

	return &PollOutput{Session: updated.Session}, nil
}

func (o *orchestrator) Act(ctx context.Context, input *ActInput) (*ActOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}
	if !input.Action.Valid() {
		return nil, errors.InvalidArgumentf("invalid combat action: %q", input.Action)
	}

	defer o.locks.Lock(input.CharacterID)()

	sessOut, err := o.sessionRepo.Get(ctx, combatsession.GetInput{CharacterID: input.CharacterID})
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotFound("no active combat session")
		}
		return nil, err
	}
	session := sessOut.Session

	charOut, err := o.characterRepo.Get(ctx, character.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, err
	}
	char := charOut.Character

	enemyOut, err := o.gameData.GetEnemy(ctx, gamedata.GetEnemyInput{ID: session.EnemyID})
	if err != nil {
		return nil, err
	}
	enemy := enemyOut.Enemy

	if input.Action == entities.ActionFlee {
		if _, err := o.sessionRepo.Delete(ctx, combatsession.DeleteInput{CharacterID: char.ID}); err != nil {
			return nil, err
		}
		return &ActOutput{Message: "You fled from combat!", Fled: true}, nil
	}

	weaponAttack := o.equipmentStat(ctx, char.Equipment.Weapon, func(s entities.ItemStats) int { return s.Attack })
	armorDefense := o.equipmentStat(ctx, char.Equipment.Armor, func(s entities.ItemStats) int { return s.Defense })

	var damage int
	var message string
	switch input.Action {
	case entities.ActionAttack:
		damage = maxInt(1, char.Strength+weaponAttack+o.roller.Intn(10)-enemy.Defense)
		message = fmt.Sprintf("You deal %d damage!", damage)
	case entities.ActionDefend:
		damage = 0
		message = "You defend and reduce incoming damage!"
	case entities.ActionMagic:
		damage = maxInt(1, char.Magic+o.roller.Intn(15)-enemy.Defense)
		message = fmt.Sprintf("Your magic deals %d damage!", damage)
	}

	newEnemyHealth := session.EnemyHealth - damage
	if newEnemyHealth < 0 {
		newEnemyHealth = 0
	}

	if newEnemyHealth <= 0 {
		return o.reconcileVictory(ctx, char, enemy, message)
	}

	session.EnemyHealth = newEnemyHealth

	if enemy.IsTraining() {
		if _, err := o.sessionRepo.Update(ctx, combatsession.UpdateInput{Session: session}); err != nil {
			return nil, err
		}
		return &ActOutput{
			Message:               message,
			EnemyDamage:           0,
			EnemyMessage:          enemy.Name + " harmlessly sways.",
			LastEnemyAttackAt:     session.LastEnemyAttackAt,
			LastEnemyAttackDamage: session.LastEnemyAttackDamage,
		}, nil
	}

	applied := o.retaliationDamage(enemy, char, armorDefense)
	if input.Action == entities.ActionDefend {
		applied = maxInt(1, applied/2)
	}
	newCharHealth := char.Health - applied
	if newCharHealth < 0 {
		newCharHealth = 0
	}
	char.Health = newCharHealth
	if _, err := o.characterRepo.Update(ctx, character.UpdateInput{Character: char}); err != nil {
		return nil, err
	}

	if _, err := o.sessionRepo.Update(ctx, combatsession.UpdateInput{Session: session}); err != nil {
		return nil, err
	}

	if newCharHealth <= 0 {
		if _, err := o.sessionRepo.Delete(ctx, combatsession.DeleteInput{CharacterID: char.ID}); err != nil {
			return nil, err
		}
		return &ActOutput{Message: "You have been defeated!", Defeated: true}, nil
	}

	return &ActOutput{
		Message:               message,
		EnemyDamage:           applied,
		EnemyMessage:          fmt.Sprintf("%s attacks for %d damage!", enemy.Name, applied),
		LastEnemyAttackAt:     session.LastEnemyAttackAt,
		LastEnemyAttackDamage: session.LastEnemyAttackDamage,
	}, nil
}

// autoAttackDamage is the reduced formula used between player turns:
// attack*0.75 + rand[0, max(4, ceil(attack*0.5))) + floor(level*0.25),
// mitigated by floor(defense*0.35), floored at 1.
func (o *orchestrator) autoAttackDamage(enemy *entities.Enemy, char *entities.Character) int {
	levelFactor := int(math.Floor(float64(char.Level) * 0.25))
	randBound := maxInt(4, int(math.Ceil(float64(enemy.Attack)*0.5)))
	raw := float64(enemy.Attack)*0.75 + float64(o.roller.Intn(randBound)) + float64(levelFactor)
	mitigation := math.Floor(float64(char.Defense) * 0.35)
	return maxInt(1, int(math.Floor(raw-mitigation)))
}

// retaliationDamage is the full-strength response to a player turn:
// attack*0.8 + rand[0, max(4, ceil(attack*0.6))) + floor(level*0.3),
// mitigated by floor((defense+armor)*0.4), floored at 1.
func (o *orchestrator) retaliationDamage(enemy *entities.Enemy, char *entities.Character, armorDefense int) int {
	levelFactor := int(math.Floor(float64(char.Level) * 0.3))
	randBound := maxInt(4, int(math.Ceil(float64(enemy.Attack)*0.6)))
	raw := float64(enemy.Attack)*0.8 + float64(o.roller.Intn(randBound)) + float64(levelFactor)
	mitigation := math.Floor(float64(char.Defense+armorDefense) * 0.4)
	return maxInt(1, int(math.Floor(raw-mitigation)))
}

// equipmentStat looks up the stat bonus granted by an equipped item ID.
// Missing or unknown items contribute nothing.
func (o *orchestrator) equipmentStat(ctx context.Context, itemID string, pick func(entities.ItemStats) int) int {
	if itemID == "" {
		return 0
	}
	out, err := o.gameData.GetItem(ctx, gamedata.GetItemInput{ID: itemID})
	if err != nil {
		return 0
	}
	return pick(out.Item.Stats)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
