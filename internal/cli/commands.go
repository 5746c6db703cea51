package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lifequest/backend/internal/database"
	"github.com/lifequest/backend/internal/migrations"
	"github.com/lifequest/backend/internal/models"
	"github.com/lifequest/backend/internal/state"
	"github.com/lifequest/backend/pkg/utils"
	"github.com/spf13/cobra"
)

func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			if err := database.AutoMigrate(e.db); err != nil {
				return err
			}
			ran, err := migrations.NewMigrator(e.db).Run()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s tables up to date, %d migration(s) applied\n", ok("✓"), ran)
			return nil
		},
	}
}

func TokenCmd() *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Mint a development bearer token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(); err != nil {
				return err
			}
			token, err := utils.GenerateToken(args[0], ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}

func SeedCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "seed <user-id>",
		Short: "Create a profile with a daily schedule and one objective per category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			userID := args[0]

			if err := state.NewProfiles(e.store.Profiles, userID).Ensure(ctx, name); err != nil {
				return err
			}

			title := "Every day"
			freq := models.FrequencyDaily
			today := models.DateOf(time.Now())
			if _, err := state.NewSchedules(e.store.Schedules, userID).Create(ctx, state.ScheduleInput{
				Title: &title, Frequency: &freq, StartDate: &today,
			}); err != nil {
				return err
			}

			objectives := state.NewObjectives(e.store.Objectives, userID)
			goals := map[models.Category]string{
				models.CategorySport:   "Train 20 times",
				models.CategoryStudies: "Finish 10 study sessions",
				models.CategoryRoutine: "Keep the routine for 30 days",
			}
			targets := map[models.Category]int{
				models.CategorySport:   20,
				models.CategoryStudies: 10,
				models.CategoryRoutine: 30,
			}
			for _, cat := range models.Categories {
				goal, target, category := goals[cat], targets[cat], string(cat)
				if _, err := objectives.Create(ctx, state.ObjectiveInput{
					Title: &goal, TargetValue: &target, Category: &category,
				}); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s seeded %s with 1 schedule and %d objectives\n", ok("✓"), bold(userID), len(models.Categories))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "Adventurer", "display name for a new profile")
	return cmd
}

func GenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate <user-id>",
		Short: "Run daily mission generation for a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			res, err := e.missions.GenerateDailyMissions(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if res.Skipped {
				fmt.Fprintf(out, "%s outside the generation window or no active schedule\n", warn("skipped:"))
				return nil
			}
			for _, m := range res.Created {
				fmt.Fprintf(out, "%s %-8s %-7s %4d xp  %s\n", ok("+"), m.Category, m.Difficulty, m.XPReward, m.Title)
			}
			cats := make([]string, 0, len(res.Failed))
			for cat := range res.Failed {
				cats = append(cats, string(cat))
			}
			sort.Strings(cats)
			for _, cat := range cats {
				fmt.Fprintf(out, "%s %-8s %v\n", bad("x"), cat, res.Failed[models.Category(cat)])
			}
			if len(res.Created) == 0 && len(res.Failed) > 0 {
				return errors.New("no mission could be generated")
			}
			return nil
		},
	}
}

func ExpireCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expire",
		Short: "Fail every open mission whose deadline has passed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			n, err := e.missions.ExpireOverdue(cmd.Context(), time.Now())
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d mission(s) failed\n", ok("✓"), n)
			return err
		},
	}
}

func StatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <user-id>",
		Short: "Print a user's progression summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			sum, err := e.missions.Stats(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			p := sum.Profile
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  level %d  (%d xp, %d to next)\n", bold(p.DisplayName), p.Level, p.XP, sum.XPToNextLevel)
			fmt.Fprintf(out, "stats     STR %d  INT %d  MOT %d\n", p.Strength, p.Intelligence, p.Motivation)

			parts := make([]string, 0, 4)
			for _, s := range []models.MissionStatus{models.MissionPending, models.MissionInProgress, models.MissionCompleted, models.MissionFailed} {
				parts = append(parts, fmt.Sprintf("%s %d", s, sum.Missions[s]))
			}
			fmt.Fprintf(out, "missions  %s\n", strings.Join(parts, "  "))
			fmt.Fprintf(out, "objectives %d/%d completed\n", sum.ObjectivesCompleted, sum.ObjectivesTotal)
			return nil
		},
	}
}
