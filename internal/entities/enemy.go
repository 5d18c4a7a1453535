package entities

// TrainingEnemyID is the designated harmless enemy used for risk-free
// practice. It never attacks and its starting health scales with the
// character's level instead of using the template value.
const TrainingEnemyID = "training_dummy"

// Enemy is an immutable combat template. Per-fight health lives on the
// combat session, never here.
type Enemy struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Health     int    `json:"health"`
	Attack     int    `json:"attack"`
	Defense    int    `json:"defense"`
	Experience int    `json:"experience"`
	Gold       int    `json:"gold"`
	Icon       string `json:"icon"`
	LocationID string `json:"locationId"`
}

// IsTraining reports whether this is the training enemy.
func (e *Enemy) IsTraining() bool {
	return e.ID == TrainingEnemyID
}
