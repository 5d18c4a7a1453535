package shop_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/questforge/questforge-api/internal/entities"
	"github.com/questforge/questforge-api/internal/errors"
	"github.com/questforge/questforge-api/internal/orchestrators/shop"
	"github.com/questforge/questforge-api/internal/pkg/lock"
	"github.com/questforge/questforge-api/internal/repositories/character"
	"github.com/questforge/questforge-api/internal/repositories/gamedata"
	"github.com/questforge/questforge-api/internal/testutils"
)

type ShopOrchestratorTestSuite struct {
	suite.Suite
	ctx  context.Context
	repo character.Repository
	svc  shop.Service
}

func (s *ShopOrchestratorTestSuite) SetupTest() {
	s.ctx = context.Background()

	client, _ := testutils.CreateTestRedisClient(s.T())

	var err error
	s.repo, err = character.NewRedis(&character.RedisConfig{Client: client})
	s.Require().NoError(err)

	s.svc, err = shop.NewOrchestrator(&shop.Config{
		CharacterRepo: s.repo,
		GameData:      gamedata.NewSeeded(),
		Locks:         lock.NewKeyed(),
	})
	s.Require().NoError(err)
}

// createCharacter stores a shopper at the village shop with 100 gold,
// starter gear equipped, and three health potions.
func (s *ShopOrchestratorTestSuite) createCharacter(locationID string) *entities.Character {
	char := &entities.Character{
		ID:                "char-1",
		Name:              "Shopper",
		Class:             "warrior",
		Level:             1,
		Health:            100,
		MaxHealth:         100,
		Gold:              100,
		CurrentLocationID: locationID,
		Equipment:         entities.Equipment{Weapon: "wooden_sword", Armor: "shield"},
		Inventory: []entities.InventoryItem{
			{ItemID: "wooden_sword", Name: "Wooden Sword", Type: entities.ItemTypeWeapon, Quantity: 1, Icon: "🗡️"},
			{ItemID: "shield", Name: "Wooden Shield", Type: entities.ItemTypeArmor, Quantity: 1, Icon: "🛡️"},
			{ItemID: "health_potion", Name: "Health Potion", Type: entities.ItemTypeConsumable, Quantity: 3, Icon: "💊"},
		},
	}
	_, err := s.repo.Create(s.ctx, character.CreateInput{Character: char})
	s.Require().NoError(err)
	return char
}

func (s *ShopOrchestratorTestSuite) TestBuyStacksExisting() {
	s.createCharacter("village_shop")

	out, err := s.svc.Buy(s.ctx, &shop.BuyInput{CharacterID: "char-1", ItemID: "health_potion"})
	s.Require().NoError(err)

	s.Equal("health_potion", out.Purchased)
	s.Empty(out.UpgradeMessage)
	s.Equal(90, out.Character.Gold)

	idx := out.Character.FindInventoryItem("health_potion")
	s.Require().GreaterOrEqual(idx, 0)
	s.Equal(4, out.Character.Inventory[idx].Quantity)
}

func (s *ShopOrchestratorTestSuite) TestBuyAutoEquipsWeaponUpgrade() {
	s.createCharacter("village_shop")

	out, err := s.svc.Buy(s.ctx, &shop.BuyInput{CharacterID: "char-1", ItemID: "sword"})
	s.Require().NoError(err)

	s.Equal(" (auto-equipped new weapon +5 ATK)", out.UpgradeMessage)
	s.Equal("sword", out.Character.Equipment.Weapon)
	s.Equal(50, out.Character.Gold)
}

func (s *ShopOrchestratorTestSuite) TestBuyKeepsBetterWeapon() {
	char := s.createCharacter("village_shop")
	char.Equipment.Weapon = "sword"
	_, err := s.repo.Update(s.ctx, character.UpdateInput{Character: char})
	s.Require().NoError(err)

	out, err := s.svc.Buy(s.ctx, &shop.BuyInput{CharacterID: "char-1", ItemID: "wooden_sword"})
	s.Require().NoError(err)

	s.Empty(out.UpgradeMessage)
	s.Equal("sword", out.Character.Equipment.Weapon)
}

func (s *ShopOrchestratorTestSuite) TestBuyAutoEquipsArmorUpgrade() {
	s.createCharacter("forest")

	out, err := s.svc.Buy(s.ctx, &shop.BuyInput{CharacterID: "char-1", ItemID: "iron_shield"})
	s.Require().NoError(err)

	s.Equal(" (auto-equipped new shield +5 DEF)", out.UpgradeMessage)
	s.Equal("iron_shield", out.Character.Equipment.Armor)
	s.Equal(30, out.Character.Gold)
}

func (s *ShopOrchestratorTestSuite) TestBuyRestrictedToShopStock() {
	s.createCharacter("village_shop")

	_, err := s.svc.Buy(s.ctx, &shop.BuyInput{CharacterID: "char-1", ItemID: "steel_sword"})
	s.Error(err)
	s.True(errors.IsFailedPrecondition(err))
	s.Equal("item not sold here", errors.GetMessage(err))
}

func (s *ShopOrchestratorTestSuite) TestBuyAnywhereWithoutShopInventory() {
	// The village square has no shop list, so nothing is restricted.
	s.createCharacter("village")

	out, err := s.svc.Buy(s.ctx, &shop.BuyInput{CharacterID: "char-1", ItemID: "herb"})
	s.Require().NoError(err)
	s.Equal(95, out.Character.Gold)
}

func (s *ShopOrchestratorTestSuite) TestBuyInsufficientGold() {
	char := s.createCharacter("village_shop")
	char.Gold = 5
	_, err := s.repo.Update(s.ctx, character.UpdateInput{Character: char})
	s.Require().NoError(err)

	_, err = s.svc.Buy(s.ctx, &shop.BuyInput{CharacterID: "char-1", ItemID: "health_potion"})
	s.Error(err)
	s.True(errors.IsFailedPrecondition(err))
	s.Equal("not enough gold", errors.GetMessage(err))
}

func (s *ShopOrchestratorTestSuite) TestBuyUnknownItem() {
	s.createCharacter("village_shop")

	_, err := s.svc.Buy(s.ctx, &shop.BuyInput{CharacterID: "char-1", ItemID: "excalibur"})
	s.Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *ShopOrchestratorTestSuite) TestEquip() {
	char := s.createCharacter("village")
	char.Inventory = append(char.Inventory, entities.InventoryItem{
		ItemID: "iron_shield", Name: "Iron Shield", Type: entities.ItemTypeArmor, Quantity: 1, Icon: "🛡️",
	})
	_, err := s.repo.Update(s.ctx, character.UpdateInput{Character: char})
	s.Require().NoError(err)

	out, err := s.svc.Equip(s.ctx, &shop.EquipInput{
		CharacterID: "char-1",
		ItemID:      "iron_shield",
		Slot:        entities.SlotArmor,
	})
	s.Require().NoError(err)

	s.Equal("Equipped Iron Shield", out.Message)
	s.Equal("iron_shield", out.Character.Equipment.Armor)

	// Equipping never consumes the stack.
	idx := out.Character.FindInventoryItem("iron_shield")
	s.Require().GreaterOrEqual(idx, 0)
	s.Equal(1, out.Character.Inventory[idx].Quantity)
}

func (s *ShopOrchestratorTestSuite) TestEquipTypeMismatch() {
	s.createCharacter("village")

	_, err := s.svc.Equip(s.ctx, &shop.EquipInput{
		CharacterID: "char-1",
		ItemID:      "health_potion",
		Slot:        entities.SlotWeapon,
	})
	s.Error(err)
	s.True(errors.IsInvalidArgument(err))
	s.Equal("cannot equip consumable into weapon", errors.GetMessage(err))
}

func (s *ShopOrchestratorTestSuite) TestEquipInvalidSlot() {
	s.createCharacter("village")

	_, err := s.svc.Equip(s.ctx, &shop.EquipInput{
		CharacterID: "char-1",
		ItemID:      "wooden_sword",
		Slot:        "ring",
	})
	s.Error(err)
	s.True(errors.IsInvalidArgument(err))
}

func (s *ShopOrchestratorTestSuite) TestEquipItemNotOwned() {
	s.createCharacter("village")

	_, err := s.svc.Equip(s.ctx, &shop.EquipInput{
		CharacterID: "char-1",
		ItemID:      "steel_sword",
		Slot:        entities.SlotWeapon,
	})
	s.Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func (s *ShopOrchestratorTestSuite) TestUseItemHeals() {
	char := s.createCharacter("village")
	char.Health = 50
	_, err := s.repo.Update(s.ctx, character.UpdateInput{Character: char})
	s.Require().NoError(err)

	out, err := s.svc.UseItem(s.ctx, &shop.UseItemInput{CharacterID: "char-1", ItemID: "health_potion"})
	s.Require().NoError(err)

	s.Equal("Used Health Potion", out.Message)
	s.Equal(80, out.Character.Health)

	idx := out.Character.FindInventoryItem("health_potion")
	s.Require().GreaterOrEqual(idx, 0)
	s.Equal(2, out.Character.Inventory[idx].Quantity)
}

func (s *ShopOrchestratorTestSuite) TestUseItemClampsAtMaxHealth() {
	char := s.createCharacter("village")
	char.Health = 90
	_, err := s.repo.Update(s.ctx, character.UpdateInput{Character: char})
	s.Require().NoError(err)

	out, err := s.svc.UseItem(s.ctx, &shop.UseItemInput{CharacterID: "char-1", ItemID: "health_potion"})
	s.Require().NoError(err)
	s.Equal(100, out.Character.Health)
}

func (s *ShopOrchestratorTestSuite) TestUseItemRemovesEmptyStack() {
	char := s.createCharacter("village")
	char.Inventory = append(char.Inventory, entities.InventoryItem{
		ItemID: "herb", Name: "Healing Herb", Type: entities.ItemTypeConsumable, Quantity: 1, Icon: "🌿",
	})
	char.Health = 50
	_, err := s.repo.Update(s.ctx, character.UpdateInput{Character: char})
	s.Require().NoError(err)

	out, err := s.svc.UseItem(s.ctx, &shop.UseItemInput{CharacterID: "char-1", ItemID: "herb"})
	s.Require().NoError(err)

	s.Equal(60, out.Character.Health)
	s.Equal(-1, out.Character.FindInventoryItem("herb"))
}

func (s *ShopOrchestratorTestSuite) TestUseItemNotConsumable() {
	s.createCharacter("village")

	_, err := s.svc.UseItem(s.ctx, &shop.UseItemInput{CharacterID: "char-1", ItemID: "wooden_sword"})
	s.Error(err)
	s.True(errors.IsFailedPrecondition(err))
	s.Equal("item is not consumable", errors.GetMessage(err))
}

func (s *ShopOrchestratorTestSuite) TestUseItemNotInInventory() {
	s.createCharacter("village")

	_, err := s.svc.UseItem(s.ctx, &shop.UseItemInput{CharacterID: "char-1", ItemID: "magic_scroll"})
	s.Error(err)
	s.True(errors.IsFailedPrecondition(err))
}

func TestShopOrchestratorSuite(t *testing.T) {
	suite.Run(t, new(ShopOrchestratorTestSuite))
}
