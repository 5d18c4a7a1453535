package combat

import (
	"context"
	"log/slog"

	"github.com/questforge/questforge-api/internal/entities"
	"github.com/questforge/questforge-api/internal/errors"
	"github.com/questforge/questforge-api/internal/repositories/character"
	"github.com/questforge/questforge-api/internal/repositories/cooldown"
	"github.com/questforge/questforge-api/internal/repositories/gamedata"
)

func (o *orchestrator) Explore(ctx context.Context, input *ExploreInput) (*ExploreOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}

	defer o.locks.Lock(input.CharacterID)()

	charOut, err := o.characterRepo.Get(ctx, character.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, err
	}
	char := charOut.Character

	now := o.clock.Now().UnixMilli()
	cd, err := o.cooldownRepo.Get(ctx, cooldown.GetInput{CharacterID: char.ID})
	if err != nil {
		return nil, err
	}
	if now < cd.NextAllowed {
		return nil, errors.ResourceExhausted("Explore on cooldown").
			WithMeta("retry_at", cd.NextAllowed)
	}

	pool := o.encounterPool(ctx, char.CurrentLocationID)

	// The cooldown starts even when nothing was found, so an empty
	// location cannot be spammed.
	nextAllowed := now + exploreCooldown.Milliseconds()
	if _, err := o.cooldownRepo.Set(ctx, cooldown.SetInput{
		CharacterID: char.ID,
		NextAllowed: nextAllowed,
		TTL:         exploreCooldown,
	}); err != nil {
		return nil, err
	}

	out := &ExploreOutput{
		Enemies:     []*entities.Enemy{},
		CooldownMs:  exploreCooldown.Milliseconds(),
		NextAllowed: nextAllowed,
	}
	if len(pool) == 0 {
		return out, nil
	}

	count := exploreMinEnemies + o.roller.Intn(exploreEnemySpread)
	o.roller.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if count > len(pool) {
		count = len(pool)
	}
	out.Enemies = pool[:count]

	slog.DebugContext(ctx, "explore rolled",
		"character_id", char.ID,
		"location_id", char.CurrentLocationID,
		"encounters", len(out.Enemies),
	)

	return out, nil
}

// encounterPool is the deduplicated union of the location's native enemies
// and the ever-present training dummy.
func (o *orchestrator) encounterPool(ctx context.Context, locationID string) []*entities.Enemy {
	var pool []*entities.Enemy
	seen := make(map[string]bool)

	listOut, err := o.gameData.ListEnemiesByLocation(ctx, gamedata.ListEnemiesByLocationInput{LocationID: locationID})
	if err == nil {
		for _, e := range listOut.Enemies {
			if !seen[e.ID] {
				seen[e.ID] = true
				pool = append(pool, e)
			}
		}
	}

	dummyOut, err := o.gameData.GetEnemy(ctx, gamedata.GetEnemyInput{ID: entities.TrainingEnemyID})
	if err == nil && !seen[dummyOut.Enemy.ID] {
		pool = append(pool, dummyOut.Enemy)
	}

	return pool
}
