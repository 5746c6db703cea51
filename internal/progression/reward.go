package progression

import (
	"math"

	"github.com/lifequest/backend/internal/models"
)

// LevelBonusRate is the reward bonus per level above 1 (10% per level).
const LevelBonusRate = 0.1

var baseReward = map[models.Difficulty]float64{
	models.DifficultyEasy:   10,
	models.DifficultyMedium: 26,
	models.DifficultyHard:   51,
}

var difficultyMultiplier = map[models.Difficulty]float64{
	models.DifficultyEasy:   1,
	models.DifficultyMedium: 1.5,
	models.DifficultyHard:   2,
}

// XPReward computes the XP a mission pays out. The value is frozen on the
// mission at creation time. Unknown difficulties pay nothing.
func XPReward(d models.Difficulty, level int) int {
	base, ok := baseReward[d]
	if !ok {
		return 0
	}
	if level < 1 {
		level = 1
	}
	levelMult := 1 + float64(level-1)*LevelBonusRate
	return int(math.Floor(base * levelMult * difficultyMultiplier[d]))
}
