package entities

// Location is an immutable map node. Level gating is advisory and enforced
// by the client, not the engine.
type Location struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Description         string `json:"description"`
	LevelRecommendation int    `json:"levelRecommendation"`
	X                   int    `json:"x"`
	Y                   int    `json:"y"`
	Icon                string `json:"icon"`
	Accessible          bool   `json:"accessible"`
}
