// Package shop implements the item economy: purchases with auto-equip
// upgrades, manual equips, and consumable use.
package shop

//go:generate mockgen -destination=mock/mock_service.go -package=shopmock github.com/questforge/questforge-api/internal/orchestrators/shop Service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/questforge/questforge-api/internal/entities"
	"github.com/questforge/questforge-api/internal/errors"
	"github.com/questforge/questforge-api/internal/pkg/lock"
	"github.com/questforge/questforge-api/internal/repositories/character"
	"github.com/questforge/questforge-api/internal/repositories/gamedata"
)

// Service orchestrates shop and equipment operations
type Service interface {
	// Buy purchases one unit of an item at the character's location,
	// auto-equipping weapon and armor upgrades.
	// Returns errors.FailedPrecondition for insufficient gold or items
	// not sold at the location.
	Buy(ctx context.Context, input *BuyInput) (*BuyOutput, error)

	// Equip places an owned item into a matching equipment slot
	Equip(ctx context.Context, input *EquipInput) (*EquipOutput, error)

	// UseItem consumes one unit of a consumable and applies its effects
	UseItem(ctx context.Context, input *UseItemInput) (*UseItemOutput, error)
}

// BuyInput defines the input for a purchase
type BuyInput struct {
	CharacterID string
	ItemID      string
}

// BuyOutput defines the output for a purchase
type BuyOutput struct {
	Character      *entities.Character
	Purchased      string
	UpgradeMessage string
}

// EquipInput defines the input for a manual equip
type EquipInput struct {
	CharacterID string
	ItemID      string
	Slot        entities.EquipmentSlot
}

// EquipOutput defines the output for a manual equip
type EquipOutput struct {
	Character *entities.Character
	Message   string
}

// UseItemInput defines the input for consuming an item
type UseItemInput struct {
	CharacterID string
	ItemID      string
}

// UseItemOutput defines the output for consuming an item
type UseItemOutput struct {
	Character *entities.Character
	Message   string
}

// Config holds the dependencies for the shop orchestrator
type Config struct {
	CharacterRepo character.Repository
	GameData      gamedata.Repository
	Locks         *lock.Keyed
}

// Validate ensures all required dependencies are present
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.CharacterRepo == nil {
		vb.RequiredField("CharacterRepo")
	}
	if c.GameData == nil {
		vb.RequiredField("GameData")
	}
	if c.Locks == nil {
		vb.RequiredField("Locks")
	}

	return vb.Build()
}

type orchestrator struct {
	characterRepo character.Repository
	gameData      gamedata.Repository
	locks         *lock.Keyed
}

// NewOrchestrator creates a new shop orchestrator
func NewOrchestrator(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &orchestrator{
		characterRepo: cfg.CharacterRepo,
		gameData:      cfg.GameData,
		locks:         cfg.Locks,
	}, nil
}

func (o *orchestrator) Buy(ctx context.Context, input *BuyInput) (*BuyOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}
	if input.ItemID == "" {
		return nil, errors.InvalidArgument("item ID is required")
	}

	defer o.locks.Lock(input.CharacterID)()

	charOut, err := o.characterRepo.Get(ctx, character.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, err
	}
	char := charOut.Character

	itemOut, err := o.gameData.GetItem(ctx, gamedata.GetItemInput{ID: input.ItemID})
	if err != nil {
		return nil, err
	}
	item := itemOut.Item

	// A location with a defined shop inventory only sells what it stocks.
	// Locations without one sell everything.
	shopOut, err := o.gameData.ListShopItems(ctx, gamedata.ListShopItemsInput{LocationID: char.CurrentLocationID})
	if err != nil {
		return nil, err
	}
	if len(shopOut.Items) > 0 && !containsItem(shopOut.Items, item.ID) {
		return nil, errors.FailedPrecondition("item not sold here")
	}

	cost := item.SellValue
	if cost <= 0 {
		cost = 1
	}
	if char.Gold < cost {
		return nil, errors.FailedPrecondition("not enough gold")
	}

	if idx := char.FindInventoryItem(item.ID); idx >= 0 {
		char.Inventory[idx].Quantity++
	} else {
		char.Inventory = append(char.Inventory, entities.InventoryItem{
			ItemID:   item.ID,
			Name:     item.Name,
			Type:     item.Type,
			Quantity: 1,
			Icon:     item.Icon,
		})
	}

	upgradeMessage := o.autoEquip(ctx, char, item)
	char.Gold -= cost

	updated, err := o.characterRepo.Update(ctx, character.UpdateInput{Character: char})
	if err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "item purchased",
		"character_id", char.ID,
		"item_id", item.ID,
		"cost", cost,
	)

	return &BuyOutput{
		Character:      updated.Character,
		Purchased:      item.ID,
		UpgradeMessage: upgradeMessage,
	}, nil
}

// autoEquip upgrades the weapon or armor slot when the bought item beats the
// currently equipped one. Weapons compare attack, armor compares defense.
func (o *orchestrator) autoEquip(ctx context.Context, char *entities.Character, item *entities.Item) string {
	switch item.Type {
	case entities.ItemTypeWeapon:
		current := o.itemStat(ctx, char.Equipment.Weapon, func(s entities.ItemStats) int { return s.Attack })
		if char.Equipment.Weapon == "" || item.Stats.Attack > current {
			char.Equipment.Weapon = item.ID
			return fmt.Sprintf(" (auto-equipped new weapon +%d ATK)", item.Stats.Attack)
		}
	case entities.ItemTypeArmor:
		current := o.itemStat(ctx, char.Equipment.Armor, func(s entities.ItemStats) int { return s.Defense })
		if char.Equipment.Armor == "" || item.Stats.Defense > current {
			char.Equipment.Armor = item.ID
			return fmt.Sprintf(" (auto-equipped new shield +%d DEF)", item.Stats.Defense)
		}
	}
	return ""
}

func (o *orchestrator) itemStat(ctx context.Context, itemID string, pick func(entities.ItemStats) int) int {
	if itemID == "" {
		return 0
	}
	out, err := o.gameData.GetItem(ctx, gamedata.GetItemInput{ID: itemID})
	if err != nil {
		return 0
	}
	return pick(out.Item.Stats)
}

func (o *orchestrator) Equip(ctx context.Context, input *EquipInput) (*EquipOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}
	if input.ItemID == "" {
		return nil, errors.InvalidArgument("item ID is required")
	}
	if !validSlot(input.Slot) {
		return nil, errors.InvalidArgumentf("invalid slot: %q", input.Slot)
	}

	defer o.locks.Lock(input.CharacterID)()

	charOut, err := o.characterRepo.Get(ctx, character.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, err
	}
	char := charOut.Character

	itemOut, err := o.gameData.GetItem(ctx, gamedata.GetItemInput{ID: input.ItemID})
	if err != nil {
		return nil, err
	}
	item := itemOut.Item

	// Slot names and item types line up one-to-one for equippable gear.
	if string(item.Type) != string(input.Slot) {
		return nil, errors.InvalidArgumentf("cannot equip %s into %s", item.Type, input.Slot)
	}

	if char.FindInventoryItem(item.ID) < 0 {
		return nil, errors.FailedPrecondition("item not in inventory")
	}

	char.Equipment.Set(input.Slot, item.ID)

	updated, err := o.characterRepo.Update(ctx, character.UpdateInput{Character: char})
	if err != nil {
		return nil, err
	}

	return &EquipOutput{
		Character: updated.Character,
		Message:   fmt.Sprintf("Equipped %s", item.Name),
	}, nil
}

func (o *orchestrator) UseItem(ctx context.Context, input *UseItemInput) (*UseItemOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID is required")
	}
	if input.ItemID == "" {
		return nil, errors.InvalidArgument("item ID is required")
	}

	defer o.locks.Lock(input.CharacterID)()

	charOut, err := o.characterRepo.Get(ctx, character.GetInput{ID: input.CharacterID})
	if err != nil {
		return nil, err
	}
	char := charOut.Character

	itemOut, err := o.gameData.GetItem(ctx, gamedata.GetItemInput{ID: input.ItemID})
	if err != nil {
		return nil, err
	}
	item := itemOut.Item

	idx := char.FindInventoryItem(item.ID)
	if idx < 0 || char.Inventory[idx].Quantity <= 0 {
		return nil, errors.FailedPrecondition("item not in inventory")
	}
	if !item.Consumable {
		return nil, errors.FailedPrecondition("item is not consumable")
	}

	if item.Stats.Health > 0 {
		char.Health = char.Health + item.Stats.Health
		if char.Health > char.MaxHealth {
			char.Health = char.MaxHealth
		}
	}

	char.Inventory[idx].Quantity--
	if char.Inventory[idx].Quantity <= 0 {
		char.Inventory = append(char.Inventory[:idx], char.Inventory[idx+1:]...)
	}

	updated, err := o.characterRepo.Update(ctx, character.UpdateInput{Character: char})
	if err != nil {
		return nil, err
	}

	return &UseItemOutput{
		Character: updated.Character,
		Message:   fmt.Sprintf("Used %s", item.Name),
	}, nil
}

func containsItem(items []*entities.Item, id string) bool {
	for _, it := range items {
		if it.ID == id {
			return true
		}
	}
	return false
}

func validSlot(slot entities.EquipmentSlot) bool {
	for _, s := range entities.Slots {
		if s == slot {
			return true
		}
	}
	return false
}
