// Package leveling is the canonical authority mapping total experience to
// character level. It is pure and deterministic; any stored level field that
// disagrees with it is stale and gets corrected on read.
package leveling

// Progression constants.
const (
	// StatPointsPerLevel is granted for every level gained.
	StatPointsPerLevel = 3

	// MaxLevel is a safety bound for LevelFromExperience. The progression
	// table extends indefinitely, so the derivation loop stops here rather
	// than scanning forever on absurd experience values.
	MaxLevel = 200
)

// xpIncrement returns the XP required to go from fromLevel to fromLevel+1.
// Piecewise brackets: 1-4 cost 50 each (fast onboarding), 5-25 cost 100,
// 26-50 cost 250, 51+ cost 500.
func xpIncrement(fromLevel int) int {
	switch {
	case fromLevel < 1:
		return 0
	case fromLevel < 5:
		return 50
	case fromLevel <= 25:
		return 100
	case fromLevel <= 50:
		return 250
	default:
		return 500
	}
}

// CumulativeXPForLevel returns the total experience required to reach the
// given level from level 1. Level 1 (and below) costs nothing.
func CumulativeXPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	total := 0
	for l := 1; l < level; l++ {
		total += xpIncrement(l)
	}
	return total
}

// XPNeededForNext returns the experience between the given level and the
// next one.
func XPNeededForNext(level int) int {
	return CumulativeXPForLevel(level+1) - CumulativeXPForLevel(level)
}

// LevelFromExperience returns the largest level whose cumulative requirement
// is covered by the given experience, capped at MaxLevel.
func LevelFromExperience(experience int) int {
	level := 1
	for CumulativeXPForLevel(level+1) <= experience {
		level++
		if level > MaxLevel {
			return MaxLevel
		}
	}
	return level
}

// Result describes the outcome of applying accumulated experience to a
// character's stored level.
type Result struct {
	Level            int
	StatPointsGained int
}

// ApplyLevelUps derives the level from experience and the stat points earned
// relative to currentLevel. A stored level at or above the derived one gains
// nothing and is left as-is.
func ApplyLevelUps(currentLevel, experience int) Result {
	newLevel := LevelFromExperience(experience)
	if newLevel <= currentLevel {
		return Result{Level: currentLevel}
	}
	return Result{
		Level:            newLevel,
		StatPointsGained: (newLevel - currentLevel) * StatPointsPerLevel,
	}
}
