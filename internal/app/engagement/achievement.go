package engagement

import (
	"context"
	"fmt"

	"github.com/lernpfad/lernpfad/internal/domain"
)

// AchievementService evaluates the badge catalog against a stats
// snapshot and persists unlocks per learner under KeyAchievements.
type AchievementService struct {
	store       domain.StateStore
	definitions []domain.AchievementDef
}

// NewAchievementService creates an achievement service with all definitions.
func NewAchievementService(store domain.StateStore) *AchievementService {
	return &AchievementService{
		store:       store,
		definitions: AllAchievements(),
	}
}

// CheckAndUnlock evaluates all achievements against stats and records
// newly earned ones with the given date. Already-unlocked badges are
// skipped, so repeated calls are idempotent.
func (a *AchievementService) CheckAndUnlock(ctx context.Context, userID string, stats domain.ProgressStats, today string) ([]domain.AchievementDef, error) {
	unlocked, err := a.ListUnlocked(ctx, userID)
	if err != nil {
		return nil, err
	}
	have := make(map[string]bool, len(unlocked))
	for _, u := range unlocked {
		have[u.ID] = true
	}

	newlyUnlocked := EvaluateAchievements(a.definitions, stats, have)
	if len(newlyUnlocked) == 0 {
		return nil, nil
	}

	for _, def := range newlyUnlocked {
		unlocked = append(unlocked, domain.UnlockedAchievement{ID: def.ID, UnlockedOn: today})
	}
	if err := a.store.Save(ctx, userID, domain.KeyAchievements, unlocked); err != nil {
		return nil, fmt.Errorf("save achievements: %w", err)
	}
	return newlyUnlocked, nil
}

// ListUnlocked returns the badges a learner has earned, oldest first.
func (a *AchievementService) ListUnlocked(ctx context.Context, userID string) ([]domain.UnlockedAchievement, error) {
	var unlocked []domain.UnlockedAchievement
	if _, err := a.store.Load(ctx, userID, domain.KeyAchievements, &unlocked); err != nil {
		return nil, fmt.Errorf("load achievements: %w", err)
	}
	return unlocked, nil
}

// TotalCount returns the total number of defined achievements.
func (a *AchievementService) TotalCount() int {
	return len(a.definitions)
}

// Definitions returns all achievement definitions (for display).
func (a *AchievementService) Definitions() []domain.AchievementDef {
	return a.definitions
}

// EvaluateAchievements returns the definitions whose predicate holds for
// stats and whose ID is not in have, in catalog order.
func EvaluateAchievements(defs []domain.AchievementDef, stats domain.ProgressStats, have map[string]bool) []domain.AchievementDef {
	var out []domain.AchievementDef
	for _, def := range defs {
		if have[def.ID] || def.Predicate == nil {
			continue
		}
		if def.Predicate(stats) {
			out = append(out, def)
		}
	}
	return out
}

// ─── Achievement Catalog ────────────────────────────────────────────────────

// AllAchievements returns the full badge catalog.
func AllAchievements() []domain.AchievementDef {
	return []domain.AchievementDef{
		// ── Getting Started ────────────────────────────────────────────
		{
			ID: "first_steps", Name: "Erste Schritte", Category: domain.CatGettingStarted, Icon: "👣",
			Predicate: func(s domain.ProgressStats) bool { return s.TotalXP > 0 },
		},
		{
			ID: "level_2", Name: "Unterwegs", Category: domain.CatGettingStarted, Icon: "🧭",
			Predicate: func(s domain.ProgressStats) bool { return s.Level >= 2 },
		},
		{
			ID: "level_5", Name: "Meisterhaft", Category: domain.CatGettingStarted, Icon: "🏔️",
			Predicate: func(s domain.ProgressStats) bool { return s.Level >= 5 },
		},

		// ── Streaks ────────────────────────────────────────────────────
		{
			ID: "streak_3", Name: "Dranbleiber", Category: domain.CatStreaks, Icon: "🔥",
			Predicate: func(s domain.ProgressStats) bool { return s.CurrentStreak >= 3 },
		},
		{
			ID: "streak_7", Name: "Wochenheld", Category: domain.CatStreaks, Icon: "🧊",
			Predicate: func(s domain.ProgressStats) bool { return s.CurrentStreak >= 7 },
		},
		{
			ID: "streak_longest_30", Name: "Ausdauer", Category: domain.CatStreaks, Icon: "📅",
			Predicate: func(s domain.ProgressStats) bool { return s.LongestStreak >= 30 },
		},

		// ── VUCA ───────────────────────────────────────────────────────
		{
			ID: "first_module", Name: "Losgelegt", Category: domain.CatVUCA, Icon: "🎯",
			Predicate: func(s domain.ProgressStats) bool { return s.ModulesCompleted >= 1 },
		},
		{
			ID: "all_dimensions", Name: "Rundum", Category: domain.CatVUCA, Icon: "🧩",
			Predicate: func(s domain.ProgressStats) bool {
				for _, d := range domain.Dimensions() {
					if s.Progress.Get(d) == 0 {
						return false
					}
				}
				return true
			},
		},
		{
			ID: "vuca_complete", Name: "VUCA-Navigator", Category: domain.CatVUCA, Icon: "🌐",
			Predicate: func(s domain.ProgressStats) bool { return s.CurriculumComplete },
		},
	}
}
