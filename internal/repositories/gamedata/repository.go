// Package gamedata provides read access to the immutable content templates:
// locations, enemies, items, quests, and per-location shop inventories.
package gamedata

//go:generate mockgen -destination=mock/mock_repository.go -package=gamedatamock github.com/questforge/questforge-api/internal/repositories/gamedata Repository

import (
	"context"

	"github.com/questforge/questforge-api/internal/entities"
)

// Repository defines read-only access to game content. Templates are never
// mutated at runtime; implementations return copies.
type Repository interface {
	// GetEnemy retrieves an enemy template by ID
	// Returns errors.NotFound if the enemy doesn't exist
	GetEnemy(ctx context.Context, input GetEnemyInput) (*GetEnemyOutput, error)

	// ListEnemiesByLocation retrieves the enemies native to a location
	ListEnemiesByLocation(ctx context.Context, input ListEnemiesByLocationInput) (*ListEnemiesByLocationOutput, error)

	// GetItem retrieves an item template by ID
	// Returns errors.NotFound if the item doesn't exist
	GetItem(ctx context.Context, input GetItemInput) (*GetItemOutput, error)

	// ListItems retrieves every item template
	ListItems(ctx context.Context, input ListItemsInput) (*ListItemsOutput, error)

	// ListShopItems retrieves the items sold at a location. An empty list
	// means the location has no restricted shop inventory.
	ListShopItems(ctx context.Context, input ListShopItemsInput) (*ListShopItemsOutput, error)

	// GetQuest retrieves a quest template by ID
	// Returns errors.NotFound if the quest doesn't exist
	GetQuest(ctx context.Context, input GetQuestInput) (*GetQuestOutput, error)

	// ListQuests retrieves every quest template
	ListQuests(ctx context.Context, input ListQuestsInput) (*ListQuestsOutput, error)

	// GetLocation retrieves a location by ID
	// Returns errors.NotFound if the location doesn't exist
	GetLocation(ctx context.Context, input GetLocationInput) (*GetLocationOutput, error)

	// ListLocations retrieves every location
	ListLocations(ctx context.Context, input ListLocationsInput) (*ListLocationsOutput, error)
}

// GetEnemyInput defines the input for getting an enemy
type GetEnemyInput struct {
	ID string
}

// GetEnemyOutput defines the output for getting an enemy
type GetEnemyOutput struct {
	Enemy *entities.Enemy
}

// ListEnemiesByLocationInput defines the input for listing enemies by location
type ListEnemiesByLocationInput struct {
	LocationID string
}

// ListEnemiesByLocationOutput defines the output for listing enemies by location
type ListEnemiesByLocationOutput struct {
	Enemies []*entities.Enemy
}

// GetItemInput defines the input for getting an item
type GetItemInput struct {
	ID string
}

// GetItemOutput defines the output for getting an item
type GetItemOutput struct {
	Item *entities.Item
}

// ListItemsInput defines the input for listing items
type ListItemsInput struct{}

// ListItemsOutput defines the output for listing items
type ListItemsOutput struct {
	Items []*entities.Item
}

// ListShopItemsInput defines the input for listing shop items
type ListShopItemsInput struct {
	LocationID string
}

// ListShopItemsOutput defines the output for listing shop items
type ListShopItemsOutput struct {
	Items []*entities.Item
}

// GetQuestInput defines the input for getting a quest
type GetQuestInput struct {
	ID string
}

// GetQuestOutput defines the output for getting a quest
type GetQuestOutput struct {
	Quest *entities.Quest
}

// ListQuestsInput defines the input for listing quests
type ListQuestsInput struct{}

// ListQuestsOutput defines the output for listing quests
type ListQuestsOutput struct {
	Quests []*entities.Quest
}

// GetLocationInput defines the input for getting a location
type GetLocationInput struct {
	ID string
}

// GetLocationOutput defines the output for getting a location
type GetLocationOutput struct {
	Location *entities.Location
}

// ListLocationsInput defines the input for listing locations
type ListLocationsInput struct{}

// ListLocationsOutput defines the output for listing locations
type ListLocationsOutput struct {
	Locations []*entities.Location
}
