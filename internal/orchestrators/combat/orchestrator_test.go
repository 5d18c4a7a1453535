package combat_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/questforge/questforge-api/internal/entities"
	"github.com/questforge/questforge-api/internal/errors"
	"github.com/questforge/questforge-api/internal/orchestrators/combat"
	clockmock "github.com/questforge/questforge-api/internal/pkg/clock/mock"
	"github.com/questforge/questforge-api/internal/pkg/idgen"
	"github.com/questforge/questforge-api/internal/pkg/lock"
	rngmock "github.com/questforge/questforge-api/internal/pkg/rng/mock"
	"github.com/questforge/questforge-api/internal/repositories/character"
	"github.com/questforge/questforge-api/internal/repositories/characterquest"
	"github.com/questforge/questforge-api/internal/repositories/combatsession"
	"github.com/questforge/questforge-api/internal/repositories/cooldown"
	"github.com/questforge/questforge-api/internal/repositories/gamedata"
	"github.com/questforge/questforge-api/internal/testutils"
)

type CombatOrchestratorTestSuite struct {
	suite.Suite
	ctx  context.Context
	ctrl *gomock.Controller

	characterRepo character.Repository
	sessionRepo   combatsession.Repository
	questRepo     characterquest.Repository
	cooldownRepo  cooldown.Repository
	gameData      *gamedata.InMemoryRepository

	roller *rngmock.MockRoller
	now    time.Time

	svc combat.Service
}

func (s *CombatOrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.ctrl = gomock.NewController(s.T())

	client, _ := testutils.CreateTestRedisClient(s.T())

	var err error
	s.characterRepo, err = character.NewRedis(&character.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.sessionRepo, err = combatsession.NewRedis(&combatsession.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.questRepo, err = characterquest.NewRedis(&characterquest.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.cooldownRepo, err = cooldown.NewRedis(&cooldown.RedisConfig{Client: client})
	s.Require().NoError(err)
	s.gameData = gamedata.NewSeeded()

	s.now = time.UnixMilli(1_700_000_000_000)
	mockClock := clockmock.NewMockClock(s.ctrl)
	mockClock.EXPECT().Now().DoAndReturn(func() time.Time { return s.now }).AnyTimes()

	s.roller = rngmock.NewMockRoller(s.ctrl)

	s.svc, err = combat.NewOrchestrator(&combat.Config{
		CharacterRepo:      s.characterRepo,
		SessionRepo:        s.sessionRepo,
		CharacterQuestRepo: s.questRepo,
		CooldownRepo:       s.cooldownRepo,
		GameData:           s.gameData,
		Locks:              lock.NewKeyed(),
		IDGenerator:        idgen.NewSequential("session"),
		Clock:              mockClock,
		Roller:             s.roller,
	})
	s.Require().NoError(err)
}

func (s *CombatOrchestratorTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

// createCharacter stores a level-1 fighter in the forest with the starter
// gear: wooden sword (+2 ATK) and wooden shield (+3 DEF).
func (s *CombatOrchestratorTestSuite) createCharacter(id string) *entities.Character {
	char := &entities.Character{
		ID:                id,
		Name:              "Tester",
		Class:             "warrior",
		Level:             1,
		Experience:        0,
		Health:            100,
		MaxHealth:         100,
		Strength:          10,
		Magic:             10,
		Agility:           10,
		Defense:           10,
		Gold:              50,
		CurrentLocationID: "forest",
		Equipment:         entities.Equipment{Weapon: "wooden_sword", Armor: "shield"},
		Inventory: []entities.InventoryItem{
			{ItemID: "wooden_sword", Name: "Wooden Sword", Type: entities.ItemTypeWeapon, Quantity: 1, Icon: "🗡️"},
		},
	}
	_, err := s.characterRepo.Create(s.ctx, character.CreateInput{Character: char})
	s.Require().NoError(err)
	return char
}

func (s *CombatOrchestratorTestSuite) getCharacter(id string) *entities.Character {
	out, err := s.characterRepo.Get(s.ctx, character.GetInput{ID: id})
	s.Require().NoError(err)
	return out.Character
}

func (s *CombatOrchestratorTestSuite) startFight(charID, enemyID string) *entities.CombatSession {
	out, err := s.svc.Start(s.ctx, &combat.StartInput{CharacterID: charID, EnemyID: enemyID})
	s.Require().NoError(err)
	return out.Session
}

func (s *CombatOrchestratorTestSuite) TestStart() {
	s.createCharacter("char-1")

	session := s.startFight("char-1", "goblin")

	s.Equal("char-1", session.CharacterID)
	s.Equal("goblin", session.EnemyID)
	s.Equal(45, session.EnemyHealth)
	s.True(session.Active)
	s.Equal(s.now.UnixMilli()+2500, session.NextEnemyAttackAt)
}

func (s *CombatOrchestratorTestSuite) TestStartRejectsSecondSession() {
	s.createCharacter("char-1")
	s.startFight("char-1", "goblin")

	_, err := s.svc.Start(s.ctx, &combat.StartInput{CharacterID: "char-1", EnemyID: "skeleton"})
	s.Error(err)
	s.True(errors.IsAlreadyExists(err))
}

func (s *CombatOrchestratorTestSuite) TestStartUnknownEnemy() {
	s.createCharacter("char-1")

	_, err := s.svc.Start(s.ctx, &combat.StartInput{CharacterID: "char-1", EnemyID: "dragon"})
	s.Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *CombatOrchestratorTestSuite) TestStartTrainingDummyScalesWithLevel() {
	tests := []struct {
		name       string
		level      int
		wantHealth int
	}{
		{"level 1", 1, 30},
		{"level 10", 10, 120},
		{"level 21 hits cap", 21, 230},
		{"level 50 stays capped", 50, 230},
	}

	for i, tt := range tests {
		s.Run(tt.name, func() {
			id := "dummy-char-" + string(rune('a'+i))
			char := s.createCharacter(id)
			char.Level = tt.level
			_, err := s.characterRepo.Update(s.ctx, character.UpdateInput{Character: char})
			s.Require().NoError(err)

			session := s.startFight(id, entities.TrainingEnemyID)
			s.Equal(tt.wantHealth, session.EnemyHealth)
		})
	}
}

func (s *CombatOrchestratorTestSuite) TestActAttack() {
	s.createCharacter("char-1")
	s.startFight("char-1", "goblin")

	// Player roll 3: 10 STR + 2 weapon + 3 - 2 DEF = 13.
	// Goblin response roll 2: floor(8*0.8 + 2 - floor(13*0.4)) = 3.
	s.roller.EXPECT().Intn(10).Return(3)
	s.roller.EXPECT().Intn(5).Return(2)

	out, err := s.svc.Act(s.ctx, &combat.ActInput{CharacterID: "char-1", Action: entities.ActionAttack})
	s.Require().NoError(err)

	s.Equal("You deal 13 damage!", out.Message)
	s.False(out.Victory)
	s.False(out.Defeated)
	s.Equal(3, out.EnemyDamage)
	s.Equal("Forest Goblin attacks for 3 damage!", out.EnemyMessage)

	s.Equal(97, s.getCharacter("char-1").Health)

	sessOut, err := s.sessionRepo.Get(s.ctx, combatsession.GetInput{CharacterID: "char-1"})
	s.Require().NoError(err)
	s.Equal(32, sessOut.Session.EnemyHealth)
}

func (s *CombatOrchestratorTestSuite) TestActMagic() {
	s.createCharacter("char-1")
	s.startFight("char-1", "goblin")

	s.roller.EXPECT().Intn(15).Return(4)
	s.roller.EXPECT().Intn(5).Return(2)

	out, err := s.svc.Act(s.ctx, &combat.ActInput{CharacterID: "char-1", Action: entities.ActionMagic})
	s.Require().NoError(err)

	s.Equal("Your magic deals 12 damage!", out.Message)
	sessOut, err := s.sessionRepo.Get(s.ctx, combatsession.GetInput{CharacterID: "char-1"})
	s.Require().NoError(err)
	s.Equal(33, sessOut.Session.EnemyHealth)
}

func (s *CombatOrchestratorTestSuite) TestActDefendHalvesRetaliation() {
	s.createCharacter("char-1")
	s.startFight("char-1", "goblin")

	s.roller.EXPECT().Intn(5).Return(2)

	out, err := s.svc.Act(s.ctx, &combat.ActInput{CharacterID: "char-1", Action: entities.ActionDefend})
	s.Require().NoError(err)

	s.Equal("You defend and reduce incoming damage!", out.Message)
	s.Equal(1, out.EnemyDamage)
	s.Equal("Forest Goblin attacks for 1 damage!", out.EnemyMessage)
	s.Equal(99, s.getCharacter("char-1").Health)

	// Defending never scratches the enemy.
	sessOut, err := s.sessionRepo.Get(s.ctx, combatsession.GetInput{CharacterID: "char-1"})
	s.Require().NoError(err)
	s.Equal(45, sessOut.Session.EnemyHealth)
}

func (s *CombatOrchestratorTestSuite) TestActFlee() {
	s.createCharacter("char-1")
	s.startFight("char-1", "goblin")

	out, err := s.svc.Act(s.ctx, &combat.ActInput{CharacterID: "char-1", Action: entities.ActionFlee})
	s.Require().NoError(err)

	s.Equal("You fled from combat!", out.Message)
	s.True(out.Fled)

	_, err = s.sessionRepo.Get(s.ctx, combatsession.GetInput{CharacterID: "char-1"})
	s.True(errors.IsNotFound(err))
}

func (s *CombatOrchestratorTestSuite) TestActInvalidAction() {
	s.createCharacter("char-1")

	_, err := s.svc.Act(s.ctx, &combat.ActInput{CharacterID: "char-1", Action: "dance"})
	s.Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *CombatOrchestratorTestSuite) TestActWithoutSession() {
	s.createCharacter("char-1")

	_, err := s.svc.Act(s.ctx, &combat.ActInput{CharacterID: "char-1", Action: entities.ActionAttack})
	s.Error(err)
	s.True(errors.IsNotFound(err))
	s.Equal("no active combat session", errors.GetMessage(err))
}

func (s *CombatOrchestratorTestSuite) wearDownEnemy(charID string, remaining int) {
	sessOut, err := s.sessionRepo.Get(s.ctx, combatsession.GetInput{CharacterID: charID})
	s.Require().NoError(err)
	sessOut.Session.EnemyHealth = remaining
	_, err = s.sessionRepo.Update(s.ctx, combatsession.UpdateInput{Session: sessOut.Session})
	s.Require().NoError(err)
}

func (s *CombatOrchestratorTestSuite) TestActVictory() {
	s.createCharacter("char-1")
	s.startFight("char-1", "goblin")
	s.wearDownEnemy("char-1", 5)

	s.roller.EXPECT().Intn(10).Return(0)

	out, err := s.svc.Act(s.ctx, &combat.ActInput{CharacterID: "char-1", Action: entities.ActionAttack})
	s.Require().NoError(err)

	s.True(out.Victory)
	s.Equal("Enemy defeated! +25 EXP, +10 gold", out.Message)
	s.Require().NotNil(out.Character)
	s.Equal(25, out.Character.Experience)
	s.Equal(60, out.Character.Gold)
	s.Equal(1, out.Character.Level)
	s.Equal(100, out.Character.Health)

	_, err = s.sessionRepo.Get(s.ctx, combatsession.GetInput{CharacterID: "char-1"})
	s.True(errors.IsNotFound(err))
}

func (s *CombatOrchestratorTestSuite) TestActVictoryLevelUp() {
	char := s.createCharacter("char-1")
	char.Experience = 40
	char.Health = 80
	_, err := s.characterRepo.Update(s.ctx, character.UpdateInput{Character: char})
	s.Require().NoError(err)

	s.startFight("char-1", "goblin")
	s.wearDownEnemy("char-1", 5)

	s.roller.EXPECT().Intn(10).Return(0)

	out, err := s.svc.Act(s.ctx, &combat.ActInput{CharacterID: "char-1", Action: entities.ActionAttack})
	s.Require().NoError(err)

	s.True(out.Victory)
	s.Equal("Enemy defeated! +25 EXP, +10 gold, LEVEL UP! (+3 stat points, +5 bonus gold, +5 max HP & fully healed)", out.Message)

	updated := out.Character
	s.Equal(2, updated.Level)
	s.Equal(65, updated.Experience)
	s.Equal(65, updated.Gold) // 50 + 10 kill + 5 level bonus
	s.Equal(105, updated.MaxHealth)
	s.Equal(105, updated.Health) // full heal at low level
	s.Equal(3, updated.UnspentPoints)
}

func (s *CombatOrchestratorTestSuite) TestActVictoryNoFullHealPastLevelFive() {
	char := s.createCharacter("char-1")
	char.Level = 9
	char.Experience = leveling9XP - 10 // just shy of level 10
	char.Health = 40
	_, err := s.characterRepo.Update(s.ctx, character.UpdateInput{Character: char})
	s.Require().NoError(err)

	s.startFight("char-1", "goblin")
	s.wearDownEnemy("char-1", 5)

	s.roller.EXPECT().Intn(10).Return(0)

	out, err := s.svc.Act(s.ctx, &combat.ActInput{CharacterID: "char-1", Action: entities.ActionAttack})
	s.Require().NoError(err)

	updated := out.Character
	s.Equal(10, updated.Level)
	s.Equal(105, updated.MaxHealth)
	s.Equal(45, updated.Health) // +5 max HP carried over, no full heal
}

// Level 10 needs 50*4 + 100*5 = 700 cumulative XP.
const leveling9XP = 700

func (s *CombatOrchestratorTestSuite) TestActVictoryMaxHealthCap() {
	char := s.createCharacter("char-1")
	char.Experience = 40 // one goblin away from level 2
	char.Health = 248
	char.MaxHealth = 248
	_, err := s.characterRepo.Update(s.ctx, character.UpdateInput{Character: char})
	s.Require().NoError(err)

	s.startFight("char-1", "goblin")
	s.wearDownEnemy("char-1", 5)
	s.roller.EXPECT().Intn(10).Return(0)

	out, err := s.svc.Act(s.ctx, &combat.ActInput{CharacterID: "char-1", Action: entities.ActionAttack})
	s.Require().NoError(err)

	// The +5 per level would land at 253; the ceiling holds at 250 and
	// the full heal cannot exceed it either.
	updated := out.Character
	s.Equal(2, updated.Level)
	s.Equal(250, updated.MaxHealth)
	s.Equal(250, updated.Health)
}

func (s *CombatOrchestratorTestSuite) TestActVictoryMaxHealthCapWithoutFullHeal() {
	char := s.createCharacter("char-1")
	char.Level = 9
	char.Experience = leveling9XP - 10
	char.Health = 240
	char.MaxHealth = 248
	_, err := s.characterRepo.Update(s.ctx, character.UpdateInput{Character: char})
	s.Require().NoError(err)

	s.startFight("char-1", "goblin")
	s.wearDownEnemy("char-1", 5)
	s.roller.EXPECT().Intn(10).Return(0)

	out, err := s.svc.Act(s.ctx, &combat.ActInput{CharacterID: "char-1", Action: entities.ActionAttack})
	s.Require().NoError(err)

	updated := out.Character
	s.Equal(10, updated.Level)
	s.Equal(250, updated.MaxHealth) // 248+5 clamped to the ceiling
	s.Equal(245, updated.Health)    // carries the +5, no full heal
}

func (s *CombatOrchestratorTestSuite) TestActVictoryAdvancesKillQuest() {
	s.createCharacter("char-1")
	_, err := s.questRepo.Create(s.ctx, characterquest.CreateInput{
		CharacterQuest: &entities.CharacterQuest{
			ID:          "cq-1",
			CharacterID: "char-1",
			QuestID:     "goblin_problem",
			Progress:    2,
			Active:      true,
		},
	})
	s.Require().NoError(err)

	s.startFight("char-1", "goblin")
	s.wearDownEnemy("char-1", 5)
	s.roller.EXPECT().Intn(10).Return(0)

	out, err := s.svc.Act(s.ctx, &combat.ActInput{CharacterID: "char-1", Action: entities.ActionAttack})
	s.Require().NoError(err)
	s.True(out.Victory)
	s.Equal("Enemy defeated! +25 EXP, +10 gold", out.Message)

	cqOut, err := s.questRepo.Get(s.ctx, characterquest.GetInput{ID: "cq-1"})
	s.Require().NoError(err)
	s.Equal(3, cqOut.CharacterQuest.Progress)
	s.False(cqOut.CharacterQuest.Completed)
	s.True(cqOut.CharacterQuest.Active)
}

func (s *CombatOrchestratorTestSuite) TestActVictoryCompletesKillQuest() {
	s.createCharacter("char-1")
	_, err := s.questRepo.Create(s.ctx, characterquest.CreateInput{
		CharacterQuest: &entities.CharacterQuest{
			ID:          "cq-1",
			CharacterID: "char-1",
			QuestID:     "goblin_problem",
			Progress:    4,
			Active:      true,
		},
	})
	s.Require().NoError(err)

	s.startFight("char-1", "goblin")
	s.wearDownEnemy("char-1", 5)
	s.roller.EXPECT().Intn(10).Return(0)

	out, err := s.svc.Act(s.ctx, &combat.ActInput{CharacterID: "char-1", Action: entities.ActionAttack})
	s.Require().NoError(err)
	s.True(out.Victory)
	s.Contains(out.Message, "Quest Rewards: +200 EXP +50 gold")

	updated := out.Character
	s.Equal(225, updated.Experience) // 25 kill + 200 quest
	s.Equal(110, updated.Gold)       // 50 + 10 kill + 50 quest

	cqOut, err := s.questRepo.Get(s.ctx, characterquest.GetInput{ID: "cq-1"})
	s.Require().NoError(err)
	s.True(cqOut.CharacterQuest.Completed)
	s.False(cqOut.CharacterQuest.Active)

	// Completed quests never pay out twice.
	s.startFight("char-1", "goblin")
	s.wearDownEnemy("char-1", 5)
	s.roller.EXPECT().Intn(10).Return(0)

	out, err = s.svc.Act(s.ctx, &combat.ActInput{CharacterID: "char-1", Action: entities.ActionAttack})
	s.Require().NoError(err)
	s.NotContains(out.Message, "Quest Rewards")
}

func (s *CombatOrchestratorTestSuite) TestActVictoryAdvancesAllMatchingKillQuests() {
	s.createCharacter("char-1")

	// A second accepted quest targeting the same enemy.
	s.gameData.LoadQuest(&entities.Quest{
		ID:           "goblin_cull",
		Title:        "Goblin Cull",
		Type:         entities.QuestTypeKill,
		Target:       "goblin",
		TargetAmount: 10,
		Reward:       entities.QuestReward{Gold: 25},
		LocationID:   "forest",
	})

	for i, questID := range []string{"goblin_problem", "goblin_cull"} {
		_, err := s.questRepo.Create(s.ctx, characterquest.CreateInput{
			CharacterQuest: &entities.CharacterQuest{
				ID:          fmt.Sprintf("cq-%d", i+1),
				CharacterID: "char-1",
				QuestID:     questID,
				Active:      true,
			},
		})
		s.Require().NoError(err)
	}

	s.startFight("char-1", "goblin")
	s.wearDownEnemy("char-1", 5)
	s.roller.EXPECT().Intn(10).Return(0)

	out, err := s.svc.Act(s.ctx, &combat.ActInput{CharacterID: "char-1", Action: entities.ActionAttack})
	s.Require().NoError(err)
	s.True(out.Victory)

	// One kill advances every matching accepted quest.
	for _, id := range []string{"cq-1", "cq-2"} {
		cqOut, err := s.questRepo.Get(s.ctx, characterquest.GetInput{ID: id})
		s.Require().NoError(err)
		s.Equal(1, cqOut.CharacterQuest.Progress)
		s.False(cqOut.CharacterQuest.Completed)
	}
}

func (s *CombatOrchestratorTestSuite) TestActVictoryQuestRewardItems() {
	s.createCharacter("char-1")

	s.gameData.LoadQuest(&entities.Quest{
		ID:           "goblin_trophy",
		Title:        "Goblin Trophy",
		Type:         entities.QuestTypeKill,
		Target:       "goblin",
		TargetAmount: 1,
		Reward: entities.QuestReward{
			Experience: 10,
			Items:      []entities.RewardItem{{ItemID: "magic_scroll", Quantity: 1}},
		},
		LocationID: "forest",
	})
	_, err := s.questRepo.Create(s.ctx, characterquest.CreateInput{
		CharacterQuest: &entities.CharacterQuest{
			ID:          "cq-1",
			CharacterID: "char-1",
			QuestID:     "goblin_trophy",
			Active:      true,
		},
	})
	s.Require().NoError(err)

	s.startFight("char-1", "goblin")
	s.wearDownEnemy("char-1", 5)
	s.roller.EXPECT().Intn(10).Return(0)

	out, err := s.svc.Act(s.ctx, &combat.ActInput{CharacterID: "char-1", Action: entities.ActionAttack})
	s.Require().NoError(err)
	s.Contains(out.Message, "Quest Rewards: +10 EXP +items")

	// Reward items land as a fresh stack with the placeholder icon.
	idx := out.Character.FindInventoryItem("magic_scroll")
	s.Require().GreaterOrEqual(idx, 0)
	stack := out.Character.Inventory[idx]
	s.Equal(1, stack.Quantity)
	s.Equal(entities.ItemTypeMisc, stack.Type)
	s.Equal("🎁", stack.Icon)
}

func (s *CombatOrchestratorTestSuite) TestActVictoryQuestRewardItemsMergeStack() {
	char := s.createCharacter("char-1")
	char.Inventory = append(char.Inventory, entities.InventoryItem{
		ItemID: "magic_scroll", Name: "Magic Scroll", Type: entities.ItemTypeConsumable, Quantity: 2, Icon: "🔮",
	})
	_, err := s.characterRepo.Update(s.ctx, character.UpdateInput{Character: char})
	s.Require().NoError(err)

	s.gameData.LoadQuest(&entities.Quest{
		ID:           "goblin_trophy",
		Title:        "Goblin Trophy",
		Type:         entities.QuestTypeKill,
		Target:       "goblin",
		TargetAmount: 1,
		Reward: entities.QuestReward{
			Items: []entities.RewardItem{{ItemID: "magic_scroll", Quantity: 1}},
		},
		LocationID: "forest",
	})
	_, err = s.questRepo.Create(s.ctx, characterquest.CreateInput{
		CharacterQuest: &entities.CharacterQuest{
			ID:          "cq-1",
			CharacterID: "char-1",
			QuestID:     "goblin_trophy",
			Active:      true,
		},
	})
	s.Require().NoError(err)

	s.startFight("char-1", "goblin")
	s.wearDownEnemy("char-1", 5)
	s.roller.EXPECT().Intn(10).Return(0)

	out, err := s.svc.Act(s.ctx, &combat.ActInput{CharacterID: "char-1", Action: entities.ActionAttack})
	s.Require().NoError(err)

	// An existing stack absorbs the reward instead of duplicating.
	idx := out.Character.FindInventoryItem("magic_scroll")
	s.Require().GreaterOrEqual(idx, 0)
	stack := out.Character.Inventory[idx]
	s.Equal(3, stack.Quantity)
	s.Equal("Magic Scroll", stack.Name)
	count := 0
	for _, inv := range out.Character.Inventory {
		if inv.ItemID == "magic_scroll" {
			count++
		}
	}
	s.Equal(1, count)
}

func (s *CombatOrchestratorTestSuite) TestActTrainingDummyNeverRetaliates() {
	s.createCharacter("char-1")
	s.startFight("char-1", entities.TrainingEnemyID)

	s.roller.EXPECT().Intn(10).Return(0)

	out, err := s.svc.Act(s.ctx, &combat.ActInput{CharacterID: "char-1", Action: entities.ActionAttack})
	s.Require().NoError(err)

	s.Equal(0, out.EnemyDamage)
	s.Equal("Training Dummy harmlessly sways.", out.EnemyMessage)
	s.Equal(100, s.getCharacter("char-1").Health)
}

func (s *CombatOrchestratorTestSuite) TestPollNoSession() {
	s.createCharacter("char-1")

	out, err := s.svc.Poll(s.ctx, &combat.PollInput{CharacterID: "char-1"})
	s.Require().NoError(err)
	s.Nil(out.Session)
	s.False(out.Defeated)
}

func (s *CombatOrchestratorTestSuite) TestPollBeforeAttackDue() {
	s.createCharacter("char-1")
	session := s.startFight("char-1", "goblin")

	out, err := s.svc.Poll(s.ctx, &combat.PollInput{CharacterID: "char-1"})
	s.Require().NoError(err)
	s.Require().NotNil(out.Session)
	s.Equal(session.NextEnemyAttackAt, out.Session.NextEnemyAttackAt)
	s.Equal(100, s.getCharacter("char-1").Health)
}

func (s *CombatOrchestratorTestSuite) TestPollAppliesDueAutoAttack() {
	s.createCharacter("char-1")
	s.startFight("char-1", "goblin")

	s.now = s.now.Add(3 * time.Second)

	// Damage roll 2: floor(8*0.75 + 2) - floor(10*0.35) = 8 - 3 = 5.
	s.roller.EXPECT().Intn(4).Return(2)
	s.roller.EXPECT().Intn(1500).Return(500)

	out, err := s.svc.Poll(s.ctx, &combat.PollInput{CharacterID: "char-1"})
	s.Require().NoError(err)

	s.Require().NotNil(out.Session)
	s.Equal(5, out.Session.LastEnemyAttackDamage)
	s.Equal(s.now.UnixMilli(), out.Session.LastEnemyAttackAt)
	s.Equal(s.now.UnixMilli()+3000, out.Session.NextEnemyAttackAt)
	s.Equal(95, s.getCharacter("char-1").Health)
}

func (s *CombatOrchestratorTestSuite) TestPollAutoAttackCanDefeat() {
	char := s.createCharacter("char-1")
	s.startFight("char-1", "goblin")

	char.Health = 3
	_, err := s.characterRepo.Update(s.ctx, character.UpdateInput{Character: char})
	s.Require().NoError(err)

	s.now = s.now.Add(3 * time.Second)
	s.roller.EXPECT().Intn(4).Return(2)
	s.roller.EXPECT().Intn(1500).Return(500)

	out, err := s.svc.Poll(s.ctx, &combat.PollInput{CharacterID: "char-1"})
	s.Require().NoError(err)

	s.True(out.Defeated)
	s.Equal("You have been defeated!", out.Message)
	s.Equal(0, s.getCharacter("char-1").Health)

	_, err = s.sessionRepo.Get(s.ctx, combatsession.GetInput{CharacterID: "char-1"})
	s.True(errors.IsNotFound(err))
}

func (s *CombatOrchestratorTestSuite) TestPollTrainingDummyNeverAutoAttacks() {
	s.createCharacter("char-1")
	s.startFight("char-1", entities.TrainingEnemyID)

	s.now = s.now.Add(time.Minute)

	out, err := s.svc.Poll(s.ctx, &combat.PollInput{CharacterID: "char-1"})
	s.Require().NoError(err)
	s.Require().NotNil(out.Session)
	s.Equal(100, s.getCharacter("char-1").Health)
}

func (s *CombatOrchestratorTestSuite) TestExplore() {
	s.createCharacter("char-1")

	s.roller.EXPECT().Intn(6).Return(1)
	s.roller.EXPECT().Shuffle(2, gomock.Any())

	out, err := s.svc.Explore(s.ctx, &combat.ExploreInput{CharacterID: "char-1"})
	s.Require().NoError(err)

	// Forest pool is the goblin plus the ever-present training dummy.
	s.Len(out.Enemies, 2)
	ids := map[string]bool{}
	for _, e := range out.Enemies {
		ids[e.ID] = true
	}
	s.True(ids["goblin"])
	s.True(ids[entities.TrainingEnemyID])

	s.Equal(int64(5000), out.CooldownMs)
	s.Equal(s.now.UnixMilli()+5000, out.NextAllowed)
}

func (s *CombatOrchestratorTestSuite) TestExploreCooldown() {
	s.createCharacter("char-1")

	s.roller.EXPECT().Intn(6).Return(1)
	s.roller.EXPECT().Shuffle(2, gomock.Any())

	first, err := s.svc.Explore(s.ctx, &combat.ExploreInput{CharacterID: "char-1"})
	s.Require().NoError(err)

	_, err = s.svc.Explore(s.ctx, &combat.ExploreInput{CharacterID: "char-1"})
	s.Error(err)
	s.True(errors.IsResourceExhausted(err))
	s.Equal(first.NextAllowed, errors.GetMeta(err)["retry_at"])

	// Once the window passes the gate opens again.
	s.now = s.now.Add(6 * time.Second)
	s.roller.EXPECT().Intn(6).Return(0)
	s.roller.EXPECT().Shuffle(2, gomock.Any())

	out, err := s.svc.Explore(s.ctx, &combat.ExploreInput{CharacterID: "char-1"})
	s.Require().NoError(err)
	s.Len(out.Enemies, 2)
}

func (s *CombatOrchestratorTestSuite) TestExploreUnknownCharacter() {
	_, err := s.svc.Explore(s.ctx, &combat.ExploreInput{CharacterID: "ghost"})
	s.Error(err)
	s.True(errors.IsNotFound(err))
}

func TestCombatOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(CombatOrchestratorTestSuite))
}
