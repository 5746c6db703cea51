package progression

import "github.com/lifequest/backend/internal/models"

const (
	// StatLevelDivisor converts a stat total into a "stat level".
	StatLevelDivisor = 30.0

	EasyMaxLevel       = 3
	EasyMaxStatLevel   = 0.5
	MediumMaxLevel     = 7
	MediumMaxStatLevel = 1.5
)

// SelectDifficulty picks the tier for a generated mission. The two conditions
// of each tier are OR'd: a high-level profile with low stats still gets
// easy or medium missions.
func SelectDifficulty(level int, stats models.Stats) models.Difficulty {
	statLevel := float64(stats.Total()) / StatLevelDivisor

	switch {
	case level <= EasyMaxLevel || statLevel < EasyMaxStatLevel:
		return models.DifficultyEasy
	case level <= MediumMaxLevel || statLevel < MediumMaxStatLevel:
		return models.DifficultyMedium
	default:
		return models.DifficultyHard
	}
}
