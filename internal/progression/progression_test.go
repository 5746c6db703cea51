package progression

import (
	"testing"
	"time"

	"github.com/lifequest/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

// seqRand replays fixed values (mod n).
type seqRand struct {
	vals []int
	i    int
}

func (r *seqRand) Intn(n int) int {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v % n
}

func TestLevelFromXP(t *testing.T) {
	cases := []struct {
		xp    int
		level int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{102, 2},
		{399, 2},
		{400, 3},
		{900, 4},
		{-50, 1},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.level, LevelFromXP(tc.xp), "xp=%d", tc.xp)
	}
}

func TestLevelFromXP_Monotonic(t *testing.T) {
	prev := LevelFromXP(0)
	for xp := 1; xp <= 50_000; xp += 7 {
		got := LevelFromXP(xp)
		if got < prev {
			t.Fatalf("LevelFromXP(%d)=%d < previous %d", xp, got, prev)
		}
		prev = got
	}
}

func TestXPForLevel_InverseOfCurve(t *testing.T) {
	for level := 1; level <= 30; level++ {
		xp := XPForLevel(level)
		assert.Equal(t, level, LevelFromXP(xp), "level %d threshold", level)
		if xp > 0 {
			assert.Equal(t, level-1, LevelFromXP(xp-1), "just below level %d", level)
		}
	}
}

func TestXPReward(t *testing.T) {
	assert.Equal(t, 10, XPReward(models.DifficultyEasy, 1))
	assert.Equal(t, 39, XPReward(models.DifficultyMedium, 1))
	assert.Equal(t, 102, XPReward(models.DifficultyHard, 1))

	// level multiplier 1.5 at level 6
	assert.Equal(t, 15, XPReward(models.DifficultyEasy, 6))
	assert.Equal(t, 153, XPReward(models.DifficultyHard, 6))

	assert.Equal(t, 10, XPReward(models.DifficultyEasy, 0), "levels below 1 are treated as 1")
	assert.Equal(t, 0, XPReward(models.Difficulty("legendary"), 5))
}

func TestSelectDifficulty(t *testing.T) {
	assert.Equal(t, models.DifficultyEasy, SelectDifficulty(2, models.Stats{}))
	assert.Equal(t, models.DifficultyHard, SelectDifficulty(10, models.Stats{Strength: 10, Intelligence: 10, Motivation: 10}))

	// statLevel 1.0 keeps a high-level profile at medium
	assert.Equal(t, models.DifficultyMedium, SelectDifficulty(12, models.Stats{Strength: 30}))
	// low stats keep a high level profile at easy (OR rule)
	assert.Equal(t, models.DifficultyEasy, SelectDifficulty(20, models.Stats{Strength: 14}))
	// level 5 with lots of stats is still medium
	assert.Equal(t, models.DifficultyMedium, SelectDifficulty(5, models.Stats{Strength: 100}))
	// exact statLevel 1.5 at level 8 is hard
	assert.Equal(t, models.DifficultyHard, SelectDifficulty(8, models.Stats{Strength: 45}))
}

func TestApplyXP_LevelUpRaisesOneStat(t *testing.T) {
	p := &models.Profile{Level: 1}
	change := ApplyXP(p, 102, &seqRand{vals: []int{1}})

	assert.Equal(t, 102, p.XP)
	assert.Equal(t, 2, p.Level)
	assert.True(t, change.LevelUp)
	assert.Equal(t, models.StatIntelligence, change.StatRaised)
	assert.Equal(t, models.Stats{Intelligence: 1}, p.Stats())
	assert.Equal(t, 1, change.LevelBefore)
	assert.Equal(t, 2, change.LevelAfter)
}

func TestApplyXP_MultiLevelJumpStillOneStat(t *testing.T) {
	p := &models.Profile{Level: 1}
	change := ApplyXP(p, 1000, &seqRand{vals: []int{0}})

	assert.Equal(t, 4, change.LevelAfter)
	assert.Equal(t, 1, p.Stats().Total())
}

func TestApplyXP_NoLevelUp(t *testing.T) {
	p := &models.Profile{Level: 2, XP: 150, Strength: 3}
	change := ApplyXP(p, 10, &seqRand{vals: []int{2}})

	assert.False(t, change.LevelUp)
	assert.Empty(t, change.StatRaised)
	assert.Equal(t, 160, p.XP)
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, models.Stats{Strength: 3}, p.Stats())
}

func TestApplyXP_NegativeGainIgnored(t *testing.T) {
	p := &models.Profile{Level: 1, XP: 50}
	change := ApplyXP(p, -20, &seqRand{vals: []int{0}})

	assert.Equal(t, 0, change.XPGained)
	assert.Equal(t, 50, p.XP)
}

func TestRandomStat_Uniform(t *testing.T) {
	rng := NewRand(42)
	counts := map[models.Stat]int{}
	for i := 0; i < 3000; i++ {
		counts[RandomStat(rng)]++
	}
	assert.Len(t, counts, 3)
	for stat, n := range counts {
		assert.InDelta(t, 1000, n, 150, "stat %s", stat)
	}
}

func date(y int, m time.Month, d int) models.Schedule {
	return models.Schedule{IsActive: true, StartDate: models.DateOf(time.Date(y, m, d, 0, 0, 0, 0, time.UTC))}
}

func TestCanGenerateMissionsNow(t *testing.T) {
	noon := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	active := date(2025, 6, 1)
	assert.True(t, CanGenerateMissionsNow([]models.Schedule{active}, noon))

	inactive := active
	inactive.IsActive = false
	assert.False(t, CanGenerateMissionsNow([]models.Schedule{inactive, inactive}, noon))
	assert.False(t, CanGenerateMissionsNow(nil, noon))

	early := time.Date(2025, 6, 10, 7, 59, 0, 0, time.UTC)
	late := time.Date(2025, 6, 10, 21, 0, 0, 0, time.UTC)
	assert.False(t, CanGenerateMissionsNow([]models.Schedule{active}, early))
	assert.False(t, CanGenerateMissionsNow([]models.Schedule{active}, late))

	edgeStart := time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)
	edgeEnd := time.Date(2025, 6, 10, 20, 59, 0, 0, time.UTC)
	assert.True(t, CanGenerateMissionsNow([]models.Schedule{active}, edgeStart))
	assert.True(t, CanGenerateMissionsNow([]models.Schedule{active}, edgeEnd))
}

func TestCanGenerateMissionsNow_DateRange(t *testing.T) {
	noon := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	future := date(2025, 6, 11)
	assert.False(t, CanGenerateMissionsNow([]models.Schedule{future}, noon))

	ended := date(2025, 5, 1)
	end := models.DateOf(time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC))
	ended.EndDate = &end
	assert.False(t, CanGenerateMissionsNow([]models.Schedule{ended}, noon))

	endsToday := date(2025, 5, 1)
	today := models.DateOf(noon)
	endsToday.EndDate = &today
	assert.True(t, CanGenerateMissionsNow([]models.Schedule{endsToday}, noon))

	// one open schedule among closed ones is enough
	assert.True(t, CanGenerateMissionsNow([]models.Schedule{future, ended, endsToday}, noon))
}

func TestGate_OpenScheduleAndBounds(t *testing.T) {
	g, err := NewGate(6, 9)
	assert.NoError(t, err)

	s := date(2025, 1, 1)
	s.ID = "sched-1"
	at := time.Date(2025, 2, 1, 7, 0, 0, 0, time.UTC)

	open, ok := g.OpenSchedule([]models.Schedule{s}, at)
	assert.True(t, ok)
	assert.Equal(t, "sched-1", open.ID)

	_, err = NewGate(21, 8)
	assert.Error(t, err)
	_, err = NewGate(-1, 8)
	assert.Error(t, err)
}

func TestCatalog_Pick(t *testing.T) {
	for _, cat := range models.Categories {
		pool := DefaultCatalog[cat]
		assert.NotEmpty(t, pool, "category %s", cat)

		tmpl, ok := DefaultCatalog.Pick(cat, &seqRand{vals: []int{len(pool) - 1}})
		assert.True(t, ok)
		assert.Equal(t, pool[len(pool)-1], tmpl)
	}

	_, ok := Catalog{}.Pick(models.CategorySport, &seqRand{vals: []int{0}})
	assert.False(t, ok)
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.Equal(t, at, FixedClock(at).Now())
}
