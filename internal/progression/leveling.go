// Package progression holds the pure rules behind missions and leveling:
// the XP curve, rewards, difficulty selection, the generation window and
// the mission template catalog. Nothing here touches storage or the clock
// directly; time and randomness are passed in.
package progression

import (
	"math"

	"github.com/lifequest/backend/internal/models"
)

// XPPerLevelUnit scales the level curve: level = floor(sqrt(xp / XPPerLevelUnit)) + 1.
const XPPerLevelUnit = 100.0

// LevelFromXP maps accumulated XP to a level. xp=0 is level 1.
func LevelFromXP(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return int(math.Floor(math.Sqrt(float64(xp)/XPPerLevelUnit))) + 1
}

// XPForLevel returns the minimum XP at which a profile reaches the given level.
func XPForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	n := level - 1
	return int(XPPerLevelUnit) * n * n
}

// LevelChange describes the effect of granting XP to a profile.
type LevelChange struct {
	XPGained    int         `json:"xpGained"`
	XPBefore    int         `json:"xpBefore"`
	XPAfter     int         `json:"xpAfter"`
	LevelBefore int         `json:"levelBefore"`
	LevelAfter  int         `json:"levelAfter"`
	LevelUp     bool        `json:"levelUp"`
	StatRaised  models.Stat `json:"statRaised,omitempty"`
}

// ApplyXP adds gained XP to p, recomputes the level and, when the level goes
// up, raises exactly one randomly chosen stat by one (even on multi-level jumps).
// p is modified in place; the caller persists it.
func ApplyXP(p *models.Profile, gained int, rng Rand) LevelChange {
	if gained < 0 {
		gained = 0
	}
	change := LevelChange{
		XPGained:    gained,
		XPBefore:    p.XP,
		LevelBefore: LevelFromXP(p.XP),
	}

	p.XP += gained
	p.Level = LevelFromXP(p.XP)

	change.XPAfter = p.XP
	change.LevelAfter = p.Level
	change.LevelUp = change.LevelAfter > change.LevelBefore
	if change.LevelUp {
		stat := RandomStat(rng)
		p.SetStats(p.Stats().Inc(stat))
		change.StatRaised = stat
	}
	return change
}

// RandomStat picks one of the three stats uniformly.
func RandomStat(rng Rand) models.Stat {
	return models.AllStats[rng.Intn(len(models.AllStats))]
}
