// Package quest implements quest acceptance, abandonment, and listing.
// Progress itself advances inside combat when kills are reconciled.
package quest

//go:generate mockgen -destination=mock/mock_service.go -package=questmock github.com/questforge/questforge-api/internal/orchestrators/quest Service

import (
	"context"
	"log/slog"

	"github.com/questforge/questforge-api/internal/entities"
	"github.com/questforge/questforge-api/internal/errors"
	"github.com/questforge/questforge-api/internal/pkg/idgen"
	"github.com/questforge/questforge-api/internal/pkg/lock"
	"github.com/questforge/questforge-api/internal/repositories/character"
	"github.com/questforge/questforge-api/internal/repositories/characterquest"
	"github.com/questforge/questforge-api/internal/repositories/gamedata"
)

// Service orchestrates quest operations
type Service interface {
	// Accept attaches a quest to a character.
	// Returns errors.AlreadyExists if the quest is already active.
	Accept(ctx context.Context, input *AcceptInput) (*AcceptOutput, error)

	// Abandon removes an accepted quest record
	Abandon(ctx context.Context, input *AbandonInput) (*AbandonOutput, error)

	// List retrieves a character's quest records
	List(ctx context.Context, input *ListInput) (*ListOutput, error)
}

// AcceptInput defines the input for accepting a quest
type AcceptInput struct {
	CharacterID string
	QuestID     string
}

// AcceptOutput defines the output for accepting a quest
type AcceptOutput struct {
	CharacterQuest *entities.CharacterQuest
}

// AbandonInput defines the input for abandoning a quest
type AbandonInput struct {
	CharacterID      string
	CharacterQuestID string
}

// AbandonOutput defines the output for abandoning a quest
type AbandonOutput struct{}

// ListInput defines the input for listing a character's quests
type ListInput struct {
	CharacterID string
}

// ListOutput defines the output for listing a character's quests
type ListOutput struct {
	CharacterQuests []*entities.CharacterQuest
}

// Config holds the dependencies for the quest orchestrator
type Config struct {
	CharacterRepo      character.Repository
	CharacterQuestRepo characterquest.Repository
	GameData           gamedata.Repository
	Locks              *lock.Keyed
	IDGenerator        idgen.Generator
}

// Validate ensures all required dependencies are present
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.CharacterQuestRepo == nil {
		vb.RequiredField("CharacterQuestRepo")
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

	return vb.Build()
}

type orchestrator struct {
	characterRepo      character.Repository
	characterQuestRepo characterquest.Repository
	gameData           gamedata.Repository
	locks              *lock.Keyed
	idGenerator        idgen.Generator
}

// NewOrchestrator creates a new quest orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &orchestrator{
		characterRepo:      cfg.CharacterRepo,
		characterQuestRepo: cfg.CharacterQuestRepo,
		gameData:           cfg.GameData,
		locks:              cfg.Locks,
		idGenerator:        cfg.IDGenerator,
	}, nil
}

func (o *orchestrator) Accept(ctx context.Context, input *AcceptInput) (*AcceptOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}
	if input.QuestID == "" {
		return nil, errors.InvalidArgument("quest ID is required")
	}

	defer o.locks.Lock(input.CharacterID)()

	if _, err := o.characterRepo.Get(ctx, character.GetInput{ID: input.CharacterID}); err != nil {
		return nil, err
	}
	if _, err := o.gameData.GetQuest(ctx, gamedata.GetQuestInput{ID: input.QuestID}); err != nil {
		return nil, err
	}

	existing, err := o.characterQuestRepo.ListByCharacterID(ctx, characterquest.ListByCharacterIDInput{
		CharacterID: input.CharacterID,
	})
	if err != nil {
		return nil, err
	}
	for _, cq := range existing.CharacterQuests {
		if cq.QuestID == input.QuestID && cq.Active && !cq.Completed {
			return nil, errors.AlreadyExists("quest already accepted")
		}
	}

	created, err := o.characterQuestRepo.Create(ctx, characterquest.CreateInput{
		CharacterQuest: &entities.CharacterQuest{
			ID:          o.idGenerator.Generate(),
			CharacterID: input.CharacterID,
			QuestID:     input.QuestID,
			Progress:    0,
			Active:      true,
		},
	})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "quest accepted",
		"character_id", input.CharacterID,
		"quest_id", input.QuestID,
	)

	return &AcceptOutput{CharacterQuest: created.CharacterQuest}, nil
}

func (o *orchestrator) Abandon(ctx context.Context, input *AbandonInput) (*AbandonOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}
	if input.CharacterQuestID == "" {
		return nil, errors.InvalidArgument("character quest ID is required")
	}

	defer o.locks.Lock(input.CharacterID)()

	out, err := o.characterQuestRepo.Get(ctx, characterquest.GetInput{ID: input.CharacterQuestID})
	if err != nil {
		return nil, err
	}
	if out.CharacterQuest.CharacterID != input.CharacterID {
		return nil, errors.NotFoundf("character quest not found: %s", input.CharacterQuestID)
	}

	if _, err := o.characterQuestRepo.Delete(ctx, characterquest.DeleteInput{ID: input.CharacterQuestID}); err != nil {
		return nil, err
	}

	return &AbandonOutput{}, nil
}

func (o *orchestrator) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	out, err := o.characterQuestRepo.ListByCharacterID(ctx, characterquest.ListByCharacterIDInput{
		CharacterID: input.CharacterID,
	})
	if err != nil {
		return nil, err
	}

	return &ListOutput{CharacterQuests: out.CharacterQuests}, nil
}
