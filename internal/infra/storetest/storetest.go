// Package storetest is a conformance suite every domain.StateStore
// implementation runs from its own tests.
package storetest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lernpfad/lernpfad/internal/domain"
)

// Run exercises load, save, overwrite, delete and per-learner isolation
// against s. Callers pass a fresh store; user ids are scoped by prefix
// so a shared backend can be reused between runs.
func Run(t *testing.T, s domain.StateStore, prefix string) {
	t.Helper()
	ctx := context.Background()
	anna, ben := prefix+"anna", prefix+"ben"
	t.Cleanup(func() {
		for _, u := range []string{anna, ben} {
			for _, k := range []string{domain.KeyEngagement, domain.KeyCurriculum, domain.KeyAchievements} {
				_ = s.Delete(ctx, u, k)
			}
		}
	})

	t.Run("ping", func(t *testing.T) {
		require.NoError(t, s.Ping(ctx))
	})

	t.Run("load missing", func(t *testing.T) {
		var st domain.EngagementState
		found, err := s.Load(ctx, anna, domain.KeyEngagement, &st)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, domain.EngagementState{}, st)
	})

	t.Run("save and load", func(t *testing.T) {
		want := domain.EngagementState{
			TotalXP: 170, WeeklyXP: 70, WeekStartDate: "2026-02-16",
			CurrentStreak: 3, LongestStreak: 5, LastActiveDate: "2026-02-19",
			StreakFreezeAvailable: true, Level: 2, LevelTitle: "Reisender",
		}
		require.NoError(t, s.Save(ctx, anna, domain.KeyEngagement, want))

		var got domain.EngagementState
		found, err := s.Load(ctx, anna, domain.KeyEngagement, &got)
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, want, got)
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, anna, domain.KeyEngagement, domain.EngagementState{TotalXP: 1}))
		require.NoError(t, s.Save(ctx, anna, domain.KeyEngagement, domain.EngagementState{TotalXP: 2}))

		var got domain.EngagementState
		_, err := s.Load(ctx, anna, domain.KeyEngagement, &got)
		require.NoError(t, err)
		assert.Equal(t, 2, got.TotalXP)
	})

	t.Run("keys and learners are separate", func(t *testing.T) {
		cs := domain.CurriculumState{
			View: domain.ViewDashboard,
			Curriculum: &domain.Curriculum{ID: "c-1", Modules: []domain.Module{
				{ID: "v1", Dimension: domain.DimV, Completed: true},
			}},
			Progress: domain.DimensionProgress{V: 100},
		}
		require.NoError(t, s.Save(ctx, anna, domain.KeyCurriculum, cs))

		var got domain.CurriculumState
		found, err := s.Load(ctx, anna, domain.KeyCurriculum, &got)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, cs, got)

		found, err = s.Load(ctx, ben, domain.KeyCurriculum, &got)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, ben, domain.KeyAchievements, []domain.UnlockedAchievement{{ID: "first_steps", UnlockedOn: "2026-02-19"}}))
		require.NoError(t, s.Delete(ctx, ben, domain.KeyAchievements))

		var got []domain.UnlockedAchievement
		found, err := s.Load(ctx, ben, domain.KeyAchievements, &got)
		require.NoError(t, err)
		assert.False(t, found)

		require.NoError(t, s.Delete(ctx, ben, domain.KeyAchievements), "deleting a missing key is not an error")
	})
}
