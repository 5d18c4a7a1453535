// Package entities defines the core game types shared across repositories
// and orchestrators.
package entities

// EquipmentSlot identifies one of the five fixed equipment slots.
type EquipmentSlot string

// Equipment slots
const (
	SlotWeapon    EquipmentSlot = "weapon"
	SlotArmor     EquipmentSlot = "armor"
	SlotHelmet    EquipmentSlot = "helmet"
	SlotBoots     EquipmentSlot = "boots"
	SlotAccessory EquipmentSlot = "accessory"
)

// Slots lists every valid equipment slot.
var Slots = []EquipmentSlot{SlotWeapon, SlotArmor, SlotHelmet, SlotBoots, SlotAccessory}

// Equipment maps each slot to the equipped item ID. An empty string means
// nothing is equipped in that slot.
type Equipment struct {
	Weapon    string `json:"weapon,omitempty"`
	Armor     string `json:"armor,omitempty"`
	Helmet    string `json:"helmet,omitempty"`
	Boots     string `json:"boots,omitempty"`
	Accessory string `json:"accessory,omitempty"`
}

// Get returns the item ID equipped in the given slot.
func (e Equipment) Get(slot EquipmentSlot) string {
	switch slot {
	case SlotWeapon:
		return e.Weapon
	case SlotArmor:
		return e.Armor
	case SlotHelmet:
		return e.Helmet
	case SlotBoots:
		return e.Boots
	case SlotAccessory:
		return e.Accessory
	}
	return ""
}

// Set equips the item ID into the given slot.
func (e *Equipment) Set(slot EquipmentSlot, itemID string) {
	switch slot {
	case SlotWeapon:
		e.Weapon = itemID
	case SlotArmor:
		e.Armor = itemID
	case SlotHelmet:
		e.Helmet = itemID
	case SlotBoots:
		e.Boots = itemID
	case SlotAccessory:
		e.Accessory = itemID
	}
}

// InventoryItem is one stack in a character's inventory, unique by ItemID.
type InventoryItem struct {
	ItemID   string   `json:"id"`
	Name     string   `json:"name"`
	Type     ItemType `json:"type"`
	Quantity int      `json:"quantity"`
	Icon     string   `json:"icon"`
}

// Character is the player-controlled protagonist. Level is a cached
// projection of Experience; the leveling calculator is the source of truth
// and any drift is corrected lazily on read.
type Character struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Class             string          `json:"class"`
	Level             int             `json:"level"`
	Experience        int             `json:"experience"`
	Health            int             `json:"health"`
	MaxHealth         int             `json:"maxHealth"`
	Strength          int             `json:"strength"`
	Magic             int             `json:"magic"`
	Agility           int             `json:"agility"`
	Defense           int             `json:"defense"`
	Gold              int             `json:"gold"`
	UnspentPoints     int             `json:"unspentPoints"`
	CurrentLocationID string          `json:"currentLocationId"`
	Equipment         Equipment       `json:"equipment"`
	Inventory         []InventoryItem `json:"inventory"`
}

// Clone returns a deep copy so repository callers can mutate freely.
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	out := *c
	out.Inventory = make([]InventoryItem, len(c.Inventory))
	copy(out.Inventory, c.Inventory)
	return &out
}

// FindInventoryItem returns the index of the stack holding itemID, or -1.
func (c *Character) FindInventoryItem(itemID string) int {
	for i, inv := range c.Inventory {
		if inv.ItemID == itemID {
			return i
		}
	}
	return -1
}
