package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lifequest/backend/internal/models"
	"github.com/lifequest/backend/internal/store"
	"github.com/lifequest/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestProfiles_ProgressWrittenTogether(t *testing.T) {
	db := testutil.SetupTestDB(t)
	st := store.NewGorm(db)
	ctx := context.Background()
	testutil.CreateProfile(t, db, "user_p")

	require.NoError(t, st.Profiles.ApplyProgress(ctx, "user_p", 102, 2, models.Stats{Motivation: 1}))

	p, err := st.Profiles.Get(ctx, "user_p")
	require.NoError(t, err)
	assert.Equal(t, 102, p.XP)
	assert.Equal(t, 2, p.Level)
	assert.Equal(t, 1, p.Motivation)

	require.NoError(t, st.Profiles.SetXP(ctx, "user_p", 150))
	p, err = st.Profiles.Get(ctx, "user_p")
	require.NoError(t, err)
	assert.Equal(t, 150, p.XP)
	assert.Equal(t, 2, p.Level)

	_, err = st.Profiles.Get(ctx, "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, st.Profiles.SetXP(ctx, "nobody", 1), store.ErrNotFound)
}

func TestObjectives_ScopedByUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	st := store.NewGorm(db)
	ctx := context.Background()
	testutil.CreateProfile(t, db, "owner")
	testutil.CreateProfile(t, db, "other")

	o := &models.Objective{UserID: "owner", Title: "Read 12 books", TargetValue: 12, Status: models.ObjectiveActive}
	require.NoError(t, st.Objectives.Create(ctx, o))
	assert.NotEmpty(t, o.ID)

	mine, err := st.Objectives.List(ctx, "owner")
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := st.Objectives.List(ctx, "other")
	require.NoError(t, err)
	assert.Empty(t, theirs)

	// another user cannot update or delete it
	hijack := *o
	hijack.UserID = "other"
	hijack.Title = "hijacked"
	assert.ErrorIs(t, st.Objectives.Update(ctx, &hijack), store.ErrNotFound)
	assert.ErrorIs(t, st.Objectives.Delete(ctx, "other", o.ID), store.ErrNotFound)

	o.CurrentValue = 3
	require.NoError(t, st.Objectives.Update(ctx, o))
	mine, _ = st.Objectives.List(ctx, "owner")
	assert.Equal(t, 3, mine[0].CurrentValue)
	assert.Equal(t, "Read 12 books", mine[0].Title)
}

func TestDeleteReferencedObjectiveAndSchedule_NullsMissionRefs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	st := store.NewGorm(db)
	ctx := context.Background()
	testutil.CreateProfile(t, db, "user_ref")

	obj := &models.Objective{UserID: "user_ref", Title: "Run a marathon", TargetValue: 1}
	require.NoError(t, st.Objectives.Create(ctx, obj))
	sched := &models.Schedule{
		UserID: "user_ref", Title: "Weekdays", Frequency: models.FrequencyDaily,
		StartDate: models.DateOf(time.Now()), IsActive: true,
	}
	require.NoError(t, st.Schedules.Create(ctx, sched))

	m := &models.Mission{
		UserID: "user_ref", Title: "Morning run", Category: models.CategorySport,
		Difficulty: models.DifficultyEasy, XPReward: 10,
		ObjectiveID: strPtr(obj.ID), ScheduleID: strPtr(sched.ID),
	}
	require.NoError(t, st.Missions.Create(ctx, m))
	assert.Equal(t, models.MissionPending, m.Status)

	require.NoError(t, st.Objectives.Delete(ctx, "user_ref", obj.ID))
	require.NoError(t, st.Schedules.Delete(ctx, "user_ref", sched.ID))

	got, err := st.Missions.Get(ctx, "user_ref", m.ID)
	require.NoError(t, err, "mission must survive deletion of what it references")
	assert.Nil(t, got.ObjectiveID)
	assert.Nil(t, got.ScheduleID)
}

func TestSchedules_InactiveFlagPersists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	st := store.NewGorm(db)
	ctx := context.Background()
	testutil.CreateProfile(t, db, "user_s")

	s := &models.Schedule{UserID: "user_s", Title: "Paused", Frequency: models.FrequencyWeekly, StartDate: models.DateOf(time.Now()), IsActive: false}
	require.NoError(t, st.Schedules.Create(ctx, s))

	list, err := st.Schedules.List(ctx, "user_s")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].IsActive)

	s.IsActive = true
	require.NoError(t, st.Schedules.Update(ctx, s))
	list, _ = st.Schedules.List(ctx, "user_s")
	assert.True(t, list[0].IsActive)
}

func TestMissions_TransitionIsConditional(t *testing.T) {
	db := testutil.SetupTestDB(t)
	st := store.NewGorm(db)
	ctx := context.Background()
	testutil.CreateProfile(t, db, "user_t")

	m := &models.Mission{UserID: "user_t", Title: "Plan tomorrow", Category: models.CategoryRoutine, Difficulty: models.DifficultyEasy, XPReward: 10}
	require.NoError(t, st.Missions.Create(ctx, m))

	now := time.Now()
	ok, err := st.Missions.Transition(ctx, "user_t", m.ID, models.OpenStatuses, models.MissionCompleted, now)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = st.Missions.Transition(ctx, "user_t", m.ID, models.OpenStatuses, models.MissionCompleted, now)
	require.NoError(t, err)
	assert.False(t, ok, "second completion must not match")

	got, err := st.Missions.Get(ctx, "user_t", m.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MissionCompleted, got.Status)
	assert.NotNil(t, got.CompletedAt)

	ok, err = st.Missions.Transition(ctx, "someone_else", m.ID, []models.MissionStatus{models.MissionCompleted}, models.MissionFailed, now)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMissions_UpdateLeavesRewardAndStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	st := store.NewGorm(db)
	ctx := context.Background()
	testutil.CreateProfile(t, db, "user_u")

	m := &models.Mission{UserID: "user_u", Title: "Old", Category: models.CategoryStudies, Difficulty: models.DifficultyMedium, XPReward: 39}
	require.NoError(t, st.Missions.Create(ctx, m))

	m.Title = "New"
	m.XPReward = 9999
	m.Status = models.MissionCompleted
	require.NoError(t, st.Missions.Update(ctx, m))

	got, err := st.Missions.Get(ctx, "user_u", m.ID)
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
	assert.Equal(t, 39, got.XPReward)
	assert.Equal(t, models.MissionPending, got.Status)
}

func TestMissions_ListOverdue(t *testing.T) {
	db := testutil.SetupTestDB(t)
	st := store.NewGorm(db)
	ctx := context.Background()
	testutil.CreateProfile(t, db, "user_o")

	today := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	yesterday := models.DateOf(today.AddDate(0, 0, -1))
	tomorrow := models.DateOf(today.AddDate(0, 0, 1))

	overdue := &models.Mission{UserID: "user_o", Title: "late", Category: models.CategorySport, Difficulty: models.DifficultyEasy, Deadline: &yesterday}
	upcoming := &models.Mission{UserID: "user_o", Title: "soon", Category: models.CategorySport, Difficulty: models.DifficultyEasy, Deadline: &tomorrow}
	done := &models.Mission{UserID: "user_o", Title: "done", Category: models.CategorySport, Difficulty: models.DifficultyEasy, Deadline: &yesterday, Status: models.MissionCompleted}
	noDeadline := &models.Mission{UserID: "user_o", Title: "whenever", Category: models.CategorySport, Difficulty: models.DifficultyEasy}
	for _, m := range []*models.Mission{overdue, upcoming, done, noDeadline} {
		require.NoError(t, st.Missions.Create(ctx, m))
	}

	list, err := st.Missions.ListOverdue(ctx, models.DateOf(today))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, overdue.ID, list[0].ID)
}

func TestHistory_NewestFirstWithLimit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	st := store.NewGorm(db)
	ctx := context.Background()
	testutil.CreateProfile(t, db, "user_h")

	base := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	for i, action := range []models.HistoryAction{models.ActionCreated, models.ActionStarted, models.ActionCompleted} {
		require.NoError(t, st.History.Append(ctx, &models.MissionHistory{
			MissionID: "m1", UserID: "user_h", Action: action, CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	all, err := st.History.List(ctx, "user_h", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, models.ActionCompleted, all[0].Action)

	two, err := st.History.List(ctx, "user_h", 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestTransaction_RollsBackOnError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	st := store.NewGorm(db)
	ctx := context.Background()
	testutil.CreateProfile(t, db, "user_tx")

	boom := errors.New("boom")
	err := st.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.Profiles.SetXP(ctx, "user_tx", 500); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := st.Profiles.Get(ctx, "user_tx")
	require.NoError(t, err)
	assert.Equal(t, 0, p.XP)
}

func TestStoreError_WrapsDriverFailure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	st := store.NewGorm(db)
	ctx := context.Background()

	require.NoError(t, db.Migrator().DropTable(&models.MissionHistory{}))

	err := st.History.Append(ctx, &models.MissionHistory{MissionID: "m", UserID: "u", Action: models.ActionCreated})
	var se *store.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "append history", se.Op)
}
