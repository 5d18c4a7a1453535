package gamedata

import "github.com/questforge/questforge-api/internal/entities"

// seed loads the standard game world: the starting village and its
// surroundings, the base item catalog, three enemies, and the starter
// quests.
func (r *InMemoryRepository) seed() {
	locations := []*entities.Location{
		{
			ID:                  "village",
			Name:                "Village Center",
			Description:         "The bustling heart of the starting village",
			LevelRecommendation: 1,
			X:                   32, Y: 32,
			Icon:       "🏘️",
			Accessible: true,
		},
		{
			ID:                  "village_shop",
			Name:                "Village Shop",
			Description:         "A small shop selling basic gear and supplies",
			LevelRecommendation: 1,
			X:                   160, Y: 40,
			Icon:       "🛒",
			Accessible: true,
		},
		{
			ID:                  "training_grounds",
			Name:                "Training Grounds",
			Description:         "A safe area to practice combat against a dummy",
			LevelRecommendation: 1,
			X:                   32, Y: 176,
			Icon:       "🎯",
			Accessible: true,
		},
		{
			ID:                  "forest",
			Name:                "Dark Forest",
			Description:         "A mysterious forest filled with dangerous creatures",
			LevelRecommendation: 5,
			X:                   240, Y: 200,
			Icon:       "🌲",
			Accessible: true,
		},
		{
			ID:                  "ruins",
			Name:                "Ancient Ruins",
			Description:         "Crumbling structures hiding ancient secrets",
			LevelRecommendation: 15,
			X:                   400, Y: 120,
			Icon:       "🏛️",
			Accessible: true,
		},
	}
	for _, l := range locations {
		r.LoadLocation(l)
	}

	items := []*entities.Item{
		{
			ID: "wooden_sword", Name: "Wooden Sword", Type: entities.ItemTypeWeapon,
			Icon: "🗡️", Description: "A basic wooden practice sword",
			Stats: entities.ItemStats{Attack: 2}, SellValue: 10,
		},
		{
			ID: "sword", Name: "Iron Sword", Type: entities.ItemTypeWeapon,
			Icon: "⚔️", Description: "A sturdy iron sword",
			Stats: entities.ItemStats{Attack: 5}, SellValue: 50,
		},
		{
			ID: "steel_sword", Name: "Steel Sword", Type: entities.ItemTypeWeapon,
			Icon: "⚔️", Description: "A sharp steel sword",
			Stats: entities.ItemStats{Attack: 9}, SellValue: 120,
		},
		{
			ID: "shield", Name: "Wooden Shield", Type: entities.ItemTypeArmor,
			Icon: "🛡️", Description: "A basic wooden shield",
			Stats: entities.ItemStats{Defense: 3}, SellValue: 30,
		},
		{
			ID: "iron_shield", Name: "Iron Shield", Type: entities.ItemTypeArmor,
			Icon: "🛡️", Description: "A reinforced iron shield",
			Stats: entities.ItemStats{Defense: 5}, SellValue: 70,
		},
		{
			ID: "steel_shield", Name: "Steel Shield", Type: entities.ItemTypeArmor,
			Icon: "🛡️", Description: "A durable steel shield",
			Stats: entities.ItemStats{Defense: 9}, SellValue: 140,
		},
		{
			ID: "health_potion", Name: "Health Potion", Type: entities.ItemTypeConsumable,
			Icon: "💊", Description: "Restores 30 HP",
			Stats: entities.ItemStats{Health: 30}, Consumable: true, SellValue: 10,
		},
		{
			ID: "magic_scroll", Name: "Magic Scroll", Type: entities.ItemTypeConsumable,
			Icon: "🔮", Description: "Casts a magic spell",
			Stats: entities.ItemStats{Magic: 15}, Consumable: true, SellValue: 25,
		},
		{
			ID: "herb", Name: "Healing Herb", Type: entities.ItemTypeConsumable,
			Icon: "🌿", Description: "A natural healing herb",
			Stats: entities.ItemStats{Health: 10}, Consumable: true, SellValue: 5,
		},
	}
	for _, i := range items {
		r.LoadItem(i)
	}

	r.LoadShop("village_shop", []string{"wooden_sword", "sword", "shield", "health_potion"})
	r.LoadShop("forest", []string{"sword", "steel_sword", "iron_shield", "health_potion", "herb"})
	r.LoadShop("ruins", []string{"steel_sword", "steel_shield", "magic_scroll", "health_potion"})

	enemies := []*entities.Enemy{
		{
			ID: entities.TrainingEnemyID, Name: "Training Dummy",
			Health: 30, Attack: 3, Defense: 0,
			Experience: 10, Gold: 0,
			Icon: "🪵", LocationID: "training_grounds",
		},
		{
			ID: "goblin", Name: "Forest Goblin",
			Health: 45, Attack: 8, Defense: 2,
			Experience: 25, Gold: 10,
			Icon: "👹", LocationID: "forest",
		},
		{
			ID: "skeleton", Name: "Ancient Skeleton",
			Health: 60, Attack: 12, Defense: 5,
			Experience: 50, Gold: 25,
			Icon: "💀", LocationID: "ruins",
		},
	}
	for _, e := range enemies {
		r.LoadEnemy(e)
	}

	quests := []*entities.Quest{
		{
			ID:           "goblin_problem",
			Title:        "Goblin Problem",
			Description:  "The village elder asks you to defeat forest goblins",
			Type:         entities.QuestTypeKill,
			Target:       "goblin",
			TargetAmount: 5,
			Reward:       entities.QuestReward{Experience: 200, Gold: 50},
			LocationID:   "village",
		},
		{
			ID:           "herb_gathering",
			Title:        "Herb Gathering",
			Description:  "Collect healing herbs for the village healer",
			Type:         entities.QuestTypeCollect,
			Target:       "herb",
			TargetAmount: 10,
			Reward: entities.QuestReward{
				Experience: 100,
				Items:      []entities.RewardItem{{ItemID: "magic_scroll", Quantity: 1}},
			},
			LocationID: "village",
		},
	}
	for _, q := range quests {
		r.LoadQuest(q)
	}
}
