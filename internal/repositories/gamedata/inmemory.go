package gamedata

import (
	"context"
	"sync"

	"github.com/questforge/questforge-api/internal/entities"
	"github.com/questforge/questforge-api/internal/errors"
)

// InMemoryRepository implements Repository using in-memory maps. Content is
// loaded once at construction and only read afterwards; the lock exists for
// custom content loaded through the Load* helpers in tests.
type InMemoryRepository struct {
	mu        sync.RWMutex
	enemies   map[string]*entities.Enemy
	items     map[string]*entities.Item
	quests    map[string]*entities.Quest
	locations map[string]*entities.Location
	shops     map[string][]string // locationID -> item IDs
}

// NewInMemory creates an empty in-memory content repository.
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		enemies:   make(map[string]*entities.Enemy),
		items:     make(map[string]*entities.Item),
		quests:    make(map[string]*entities.Quest),
		locations: make(map[string]*entities.Location),
		shops:     make(map[string][]string),
	}
}

// NewSeeded creates an in-memory content repository populated with the
// standard game world.
func NewSeeded() *InMemoryRepository {
	r := NewInMemory()
	r.seed()
	return r
}

// Ensure InMemoryRepository implements Repository
var _ Repository = (*InMemoryRepository)(nil)

// LoadEnemy registers an enemy template.
func (r *InMemoryRepository) LoadEnemy(enemy *entities.Enemy) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *enemy
	r.enemies[enemy.ID] = &cp
}

// LoadItem registers an item template.
func (r *InMemoryRepository) LoadItem(item *entities.Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *item
	r.items[item.ID] = &cp
}

// LoadQuest registers a quest template.
func (r *InMemoryRepository) LoadQuest(quest *entities.Quest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *quest
	r.quests[quest.ID] = &cp
}

// LoadLocation registers a location.
func (r *InMemoryRepository) LoadLocation(location *entities.Location) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *location
	r.locations[location.ID] = &cp
}

// LoadShop registers the item IDs sold at a location.
func (r *InMemoryRepository) LoadShop(locationID string, itemIDs []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shops[locationID] = append([]string(nil), itemIDs...)
}

func (r *InMemoryRepository) GetEnemy(ctx context.Context, input GetEnemyInput) (*GetEnemyOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("enemy ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	enemy, ok := r.enemies[input.ID]
	if !ok {
		return nil, errors.NotFoundf("enemy with ID %s not found", input.ID)
	}

	cp := *enemy
	return &GetEnemyOutput{Enemy: &cp}, nil
}

func (r *InMemoryRepository) ListEnemiesByLocation(
	ctx context.Context,
	input ListEnemiesByLocationInput,
) (*ListEnemiesByLocationOutput, error) {
	if input.LocationID == "" {
		return nil, errors.InvalidArgument("location ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var enemies []*entities.Enemy
	for _, enemy := range r.enemies {
		if enemy.LocationID == input.LocationID {
			cp := *enemy
			enemies = append(enemies, &cp)
		}
	}

	return &ListEnemiesByLocationOutput{Enemies: enemies}, nil
}

func (r *InMemoryRepository) GetItem(ctx context.Context, input GetItemInput) (*GetItemOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("item ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[input.ID]
	if !ok {
		return nil, errors.NotFoundf("item with ID %s not found", input.ID)
	}

	cp := *item
	return &GetItemOutput{Item: &cp}, nil
}

func (r *InMemoryRepository) ListItems(ctx context.Context, input ListItemsInput) (*ListItemsOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*entities.Item, 0, len(r.items))
	for _, item := range r.items {
		cp := *item
		items = append(items, &cp)
	}

	return &ListItemsOutput{Items: items}, nil
}

func (r *InMemoryRepository) ListShopItems(
	ctx context.Context,
	input ListShopItemsInput,
) (*ListShopItemsOutput, error) {
	if input.LocationID == "" {
		return nil, errors.InvalidArgument("location ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []*entities.Item
	for _, id := range r.shops[input.LocationID] {
		if item, ok := r.items[id]; ok {
			cp := *item
			items = append(items, &cp)
		}
	}

	return &ListShopItemsOutput{Items: items}, nil
}

func (r *InMemoryRepository) GetQuest(ctx context.Context, input GetQuestInput) (*GetQuestOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("quest ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	quest, ok := r.quests[input.ID]
	if !ok {
		return nil, errors.NotFoundf("quest with ID %s not found", input.ID)
	}

	cp := *quest
	return &GetQuestOutput{Quest: &cp}, nil
}

func (r *InMemoryRepository) ListQuests(ctx context.Context, input ListQuestsInput) (*ListQuestsOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	quests := make([]*entities.Quest, 0, len(r.quests))
	for _, quest := range r.quests {
		cp := *quest
		quests = append(quests, &cp)
	}

	return &ListQuestsOutput{Quests: quests}, nil
}

func (r *InMemoryRepository) GetLocation(ctx context.Context, input GetLocationInput) (*GetLocationOutput, error) {
	if input.ID == "" {
		return nil, errors.InvalidArgument("location ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	location, ok := r.locations[input.ID]
	if !ok {
		return nil, errors.NotFoundf("location with ID %s not found", input.ID)
	}

	cp := *location
	return &GetLocationOutput{Location: &cp}, nil
}

func (r *InMemoryRepository) ListLocations(
	ctx context.Context,
	input ListLocationsInput,
) (*ListLocationsOutput, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	locations := make([]*entities.Location, 0, len(r.locations))
	for _, location := range r.locations {
		cp := *location
		locations = append(locations, &cp)
	}

	return &ListLocationsOutput{Locations: locations}, nil
}
