package combat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/questforge/questforge-api/internal/entities"
	"github.com/questforge/questforge-api/internal/leveling"
	"github.com/questforge/questforge-api/internal/repositories/character"
	"github.com/questforge/questforge-api/internal/repositories/characterquest"
	"github.com/questforge/questforge-api/internal/repositories/combatsession"
	"github.com/questforge/questforge-api/internal/repositories/gamedata"
)

// reconcileVictory folds a defeated enemy back into the character: base
// rewards, level-ups, level-up bonuses, kill-quest progress, and quest
// completion rewards, persisted as one character update. The session is
// deleted first so a crash mid-reconcile can never leave a finished fight
// resumable.
func (o *orchestrator) reconcileVictory(ctx context.Context, char *entities.Character, enemy *entities.Enemy, actionMessage string) (*ActOutput, error) {
	if _, err := o.sessionRepo.Delete(ctx, combatsession.DeleteInput{CharacterID: char.ID}); err != nil {
		return nil, err
	}

	newExp := char.Experience + enemy.Experience
	newGold := char.Gold + enemy.Gold

	res := leveling.ApplyLevelUps(char.Level, newExp)
	levelsGained := res.Level - char.Level

	newMaxHealth := char.MaxHealth
	newHealth := char.Health
	if levelsGained > 0 {
		gainedMax := levelBonusHealth * levelsGained
		newMaxHealth = minInt(maxCharacterHealth, char.MaxHealth+gainedMax)
		if res.Level <= fullHealMaxLevel {
			// Early-game generosity: a level-up fully restores health.
			newHealth = newMaxHealth
		} else {
			newHealth = minInt(char.Health+gainedMax, newMaxHealth)
		}
		newGold += levelBonusGold * levelsGained
	}
	newMaxHealth = minInt(newMaxHealth, maxCharacterHealth)
	newHealth = minInt(newHealth, newMaxHealth)

	questExp, questGold, gainedItems := o.reconcileKillQuests(ctx, char, enemy)

	char.Experience = newExp + questExp
	char.Gold = newGold + questGold
	char.Level = res.Level
	char.MaxHealth = newMaxHealth
	char.Health = newHealth
	if res.StatPointsGained > 0 {
		char.UnspentPoints += res.StatPointsGained
	}
	for _, gi := range gainedItems {
		if idx := char.FindInventoryItem(gi.ItemID); idx >= 0 {
			char.Inventory[idx].Quantity += gi.Quantity
		} else {
			char.Inventory = append(char.Inventory, entities.InventoryItem{
				ItemID:   gi.ItemID,
				Name:     gi.ItemID,
				Type:     entities.ItemTypeMisc,
				Quantity: gi.Quantity,
				Icon:     "🎁",
			})
		}
	}

	updated, err := o.characterRepo.Update(ctx, character.UpdateInput{Character: char})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "combat victory",
		"character_id", char.ID,
		"enemy_id", enemy.ID,
		"experience_gained", enemy.Experience+questExp,
		"gold_gained", enemy.Gold+questGold,
		"levels_gained", levelsGained,
	)

	return &ActOutput{
		Message:   victoryMessage(enemy, res.StatPointsGained, levelsGained, questExp, questGold, len(gainedItems) > 0),
		Victory:   true,
		Character: updated.Character,
	}, nil
}

// reconcileKillQuests advances every matching accepted quest by one kill and
// collects completion rewards. Quest bookkeeping is best-effort: a failure
// here is logged and never blocks the victory itself.
func (o *orchestrator) reconcileKillQuests(ctx context.Context, char *entities.Character, enemy *entities.Enemy) (exp, gold int, items []entities.RewardItem) {
	questsOut, err := o.gameData.ListQuests(ctx, gamedata.ListQuestsInput{})
	if err != nil {
		slog.WarnContext(ctx, "listing quests for kill reconciliation failed", "error", err)
		return 0, 0, nil
	}

	cqOut, err := o.characterQuestRepo.ListByCharacterID(ctx, characterquest.ListByCharacterIDInput{CharacterID: char.ID})
	if err != nil {
		slog.WarnContext(ctx, "listing character quests for kill reconciliation failed",
			"character_id", char.ID,
			"error", err,
		)
		return 0, 0, nil
	}

	for _, quest := range questsOut.Quests {
		if quest.Type != entities.QuestTypeKill || quest.Target != enemy.ID {
			continue
		}
		for _, cq := range cqOut.CharacterQuests {
			if cq.QuestID != quest.ID || cq.Completed || !cq.Active {
				continue
			}
			cq.Progress++
			if cq.Progress >= quest.TargetAmount {
				cq.Completed = true
				cq.Active = false
				exp += quest.Reward.Experience
				gold += quest.Reward.Gold
				items = append(items, quest.Reward.Items...)
			}
			if _, err := o.characterQuestRepo.Update(ctx, characterquest.UpdateInput{CharacterQuest: cq}); err != nil {
				slog.WarnContext(ctx, "updating quest progress failed",
					"character_quest_id", cq.ID,
					"quest_id", quest.ID,
					"error", err,
				)
			}
		}
	}

	return exp, gold, items
}

func victoryMessage(enemy *entities.Enemy, statPoints, levelsGained, questExp, questGold int, questItems bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Enemy defeated! +%d EXP, +%d gold", enemy.Experience, enemy.Gold)
	if levelsGained > 0 {
		fmt.Fprintf(&b, ", LEVEL UP! (+%d stat points, +%d bonus gold, +%d max HP & fully healed)",
			statPoints, levelBonusGold*levelsGained, levelBonusHealth*levelsGained)
	}
	if questExp > 0 || questGold > 0 || questItems {
		b.WriteString(" Quest Rewards:")
		if questExp > 0 {
			fmt.Fprintf(&b, " +%d EXP", questExp)
		}
		if questGold > 0 {
			fmt.Fprintf(&b, " +%d gold", questGold)
		}
		if questItems {
			b.WriteString(" +items")
		}
	}
	return b.String()
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
