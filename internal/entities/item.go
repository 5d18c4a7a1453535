package entities

// ItemType categorizes items and doubles as the expected type for the
// matching equipment slot during manual equips.
type ItemType string

// Item types
const (
	ItemTypeWeapon     ItemType = "weapon"
	ItemTypeArmor      ItemType = "armor"
	ItemTypeHelmet     ItemType = "helmet"
	ItemTypeBoots      ItemType = "boots"
	ItemTypeAccessory  ItemType = "accessory"
	ItemTypeConsumable ItemType = "consumable"
	ItemTypeMisc       ItemType = "misc"
)

// ItemStats holds the stat bonuses an item grants when equipped, or the
// effect magnitudes when consumed.
type ItemStats struct {
	Attack  int `json:"attack,omitempty"`
	Defense int `json:"defense,omitempty"`
	Health  int `json:"health,omitempty"`
	Magic   int `json:"magic,omitempty"`
}

// Item is an immutable content template.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        ItemType  `json:"type"`
	Icon        string    `json:"icon"`
	Description string    `json:"description"`
	Stats       ItemStats `json:"stats"`
	Consumable  bool      `json:"consumable"`
	SellValue   int       `json:"sellValue"`
}
