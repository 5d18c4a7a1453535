// Package character implements the character lifecycle: creation with
// starter gear, reads with lazy level reconciliation, partial updates,
// travel, and stat point allocation.
package character

//go:generate mockgen -destination=mock/mock_service.go -package=charactermock github.com/questforge/questforge-api/internal/orchestrators/character Service

import (
	"context"
	"log/slog"

	"github.com/questforge/questforge-api/internal/entities"
	"github.com/questforge/questforge-api/internal/errors"
	"github.com/questforge/questforge-api/internal/leveling"
	"github.com/questforge/questforge-api/internal/pkg/idgen"
	"github.com/questforge/questforge-api/internal/pkg/lock"
	characterrepo "github.com/questforge/questforge-api/internal/repositories/character"
)

const (
	defaultStat      = 10
	minCreationStat  = 5
	maxCreationStat  = 25
	startingHealth   = 100
	startingGold     = 50
	startingLocation = "village"
)

// Service orchestrates character operations
type Service interface {
	// Create creates a new character with starter stats and gear
	Create(ctx context.Context, input *CreateInput) (*CreateOutput, error)

	// Get retrieves a character, reconciling any level drift against the
	// stored experience before returning.
	Get(ctx context.Context, input *GetInput) (*GetOutput, error)

	// Update applies a partial update to a character
	Update(ctx context.Context, input *UpdateInput) (*UpdateOutput, error)

	// Move changes the character's current location
	Move(ctx context.Context, input *MoveInput) (*MoveOutput, error)

	// AllocateStatPoint spends one unspent point on a stat.
	// Returns errors.FailedPrecondition when no points are available.
	AllocateStatPoint(ctx context.Context, input *AllocateStatPointInput) (*AllocateStatPointOutput, error)
}

// Config holds the dependencies for the character orchestrator
type Config struct {
	CharacterRepo characterrepo.Repository
	Locks         *lock.Keyed
	IDGenerator   idgen.Generator
}

// Validate ensures all required dependencies are present
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.Locks == nil {
		vb.RequiredField("Locks")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	characterRepo characterrepo.Repository
	locks         *lock.Keyed
	idGenerator   idgen.Generator
}

// NewOrchestrator creates a new character orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &orchestrator{
		characterRepo: cfg.CharacterRepo,
		locks:         cfg.Locks,
		idGenerator:   cfg.IDGenerator,
	}, nil
}

func (o *orchestrator) Create(ctx context.Context, input *CreateInput) (*CreateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}

	vb := errors.NewValidationBuilder()
	if input.Name == "" {
		vb.RequiredField("name")
	}
	if input.Class == "" {
		vb.RequiredField("class")
	}
	validateCreationStat(vb, "strength", input.Strength)
	validateCreationStat(vb, "magic", input.Magic)
	validateCreationStat(vb, "agility", input.Agility)
	validateCreationStat(vb, "defense", input.Defense)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	char := &entities.Character{
		ID:                o.idGenerator.Generate(),
		Name:              input.Name,
		Class:             input.Class,
		Level:             1,
		Experience:        0,
		Health:            startingHealth,
		MaxHealth:         startingHealth,
		Strength:          statOrDefault(input.Strength),
		Magic:             statOrDefault(input.Magic),
		Agility:           statOrDefault(input.Agility),
		Defense:           statOrDefault(input.Defense),
		Gold:              startingGold,
		CurrentLocationID: startingLocation,
		Equipment:         entities.Equipment{Weapon: "wooden_sword", Armor: "shield"},
		Inventory: []entities.InventoryItem{
			{ItemID: "wooden_sword", Name: "Wooden Sword", Type: entities.ItemTypeWeapon, Quantity: 1, Icon: "🗡️"},
			{ItemID: "shield", Name: "Wooden Shield", Type: entities.ItemTypeArmor, Quantity: 1, Icon: "🛡️"},
			{ItemID: "health_potion", Name: "Health Potion", Type: entities.ItemTypeConsumable, Quantity: 3, Icon: "💊"},
		},
	}

	created, err := o.characterRepo.Create(ctx, characterrepo.CreateInput{Character: char})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "character created",
		"character_id", created.Character.ID,
		"name", created.Character.Name,
		"class", created.Character.Class,
	)

	return &CreateOutput{Character: created.Character}, nil
}

func (o *orchestrator) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.ID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	defer o.locks.Lock(input.ID)()

	out, err := o.characterRepo.Get(ctx, characterrepo.GetInput{ID: input.ID})
	if err != nil {
		return nil, err
	}
	char := out.Character

	// Level is a cached projection of experience. Reconcile drift from
	// out-of-band experience changes before handing the record out.
	derived := leveling.LevelFromExperience(char.Experience)
	if derived != char.Level {
		slog.DebugContext(ctx, "reconciling level drift",
			"character_id", char.ID,
			"stored_level", char.Level,
			"derived_level", derived,
		)
		char.Level = derived
		updated, err := o.characterRepo.Update(ctx, characterrepo.UpdateInput{Character: char})
		if err != nil {
			return nil, err
		}
		char = updated.Character
	}

	return &GetOutput{Character: char}, nil
}

func (o *orchestrator) Update(ctx context.Context, input *UpdateInput) (*UpdateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.ID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	defer o.locks.Lock(input.ID)()

	out, err := o.characterRepo.Get(ctx, characterrepo.GetInput{ID: input.ID})
	if err != nil {
		return nil, err
	}
	char := out.Character

	if input.Name != nil {
		char.Name = *input.Name
	}
	if input.Health != nil {
		char.Health = clamp(*input.Health, 0, char.MaxHealth)
	}
	if input.Strength != nil {
		char.Strength = *input.Strength
	}
	if input.Magic != nil {
		char.Magic = *input.Magic
	}
	if input.Agility != nil {
		char.Agility = *input.Agility
	}
	if input.Defense != nil {
		char.Defense = *input.Defense
	}
	if input.Gold != nil {
		char.Gold = *input.Gold
	}
	if input.Experience != nil {
		char.Experience = *input.Experience
	}
	if input.UnspentPoints != nil {
		char.UnspentPoints = *input.UnspentPoints
	}

	updated, err := o.characterRepo.Update(ctx, characterrepo.UpdateInput{Character: char})
	if err != nil {
		return nil, err
	}

	return &UpdateOutput{Character: updated.Character}, nil
}

func (o *orchestrator) Move(ctx context.Context, input *MoveInput) (*MoveOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}
	if input.LocationID == "" {
		return nil, errors.InvalidArgument("location ID is required")
	}

	defer o.locks.Lock(input.CharacterID)()

	out, err := o.characterRepo.Get(ctx, characterrepo.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, err
	}
	char := out.Character
	char.CurrentLocationID = input.LocationID

	updated, err := o.characterRepo.Update(ctx, characterrepo.UpdateInput{Character: char})
	if err != nil {
		return nil, err
	}

	slog.DebugContext(ctx, "character moved",
		"character_id", char.ID,
		"location_id", input.LocationID,
	)

	return &MoveOutput{Character: updated.Character}, nil
}

func (o *orchestrator) AllocateStatPoint(ctx context.Context, input *AllocateStatPointInput) (*AllocateStatPointOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}
	if !input.Stat.Valid() {
		return nil, errors.InvalidArgumentf("invalid stat: %q", input.Stat)
	}

	defer o.locks.Lock(input.CharacterID)()

	out, err := o.characterRepo.Get(ctx, characterrepo.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, err
	}
	char := out.Character

	if char.UnspentPoints <= 0 {
		return nil, errors.FailedPrecondition("no unspent stat points")
	}

	char.UnspentPoints--
	switch input.Stat {
	case StatStrength:
		char.Strength++
	case StatMagic:
		char.Magic++
	case StatAgility:
		char.Agility++
	case StatDefense:
		char.Defense++
	}

	updated, err := o.characterRepo.Update(ctx, characterrepo.UpdateInput{Character: char})
	if err != nil {
		return nil, err
	}

	return &AllocateStatPointOutput{Character: updated.Character}, nil
}

func validateCreationStat(vb *errors.ValidationBuilder, field string, value int) {
	if value != 0 && (value < minCreationStat || value > maxCreationStat) {
		vb.Fieldf(field, "must be between %d and %d", minCreationStat, maxCreationStat)
	}
}

func statOrDefault(value int) int {
	if value == 0 {
		return defaultStat
	}
	return value
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
