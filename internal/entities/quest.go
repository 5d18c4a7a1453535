package entities

// QuestType identifies what kind of progress a quest tracks.
type QuestType string

// Quest types
const (
	QuestTypeKill    QuestType = "kill"
	QuestTypeCollect QuestType = "collect"
	QuestTypeExplore QuestType = "explore"
)

// RewardItem is an item grant inside a quest reward.
type RewardItem struct {
	ItemID   string `json:"id"`
	Quantity int    `json:"quantity"`
}

// QuestReward describes what completing a quest grants.
type QuestReward struct {
	Experience int          `json:"experience,omitempty"`
	Gold       int          `json:"gold,omitempty"`
	Items      []RewardItem `json:"items,omitempty"`
}

// Quest is an immutable content template. Target is an enemy ID for kill
// quests and an item ID for collect quests.
type Quest struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Type         QuestType   `json:"type"`
	Target       string      `json:"target"`
	TargetAmount int         `json:"targetAmount"`
	Reward       QuestReward `json:"reward"`
	LocationID   string      `json:"locationId"`
}

// CharacterQuest tracks one character's progress on an accepted quest.
// The completed flag gates reward grants so a defeat event is never
// reconciled twice.
type CharacterQuest struct {
	ID          string `json:"id"`
	CharacterID string `json:"characterId"`
	QuestID     string `json:"questId"`
	Progress    int    `json:"progress"`
	Completed   bool   `json:"completed"`
	Active      bool   `json:"active"`
}
