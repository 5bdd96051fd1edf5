package engagement

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/lernpfad/lernpfad/internal/domain"
	"github.com/lernpfad/lernpfad/internal/infra/metrics"
)

// Service is the host glue around Tracker: it loads a learner's state,
// asks the clock for today, runs the award and writes the result back.
// Two concurrent awards for the same learner race at the store; the
// last write wins.
type Service struct {
	tracker      *Tracker
	store        domain.StateStore
	clock        domain.Clock
	achievements *AchievementService
	log          *zap.Logger
}

// NewService creates an engagement service.
func NewService(tracker *Tracker, store domain.StateStore, clock domain.Clock, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		tracker:      tracker,
		store:        store,
		clock:        clock,
		achievements: NewAchievementService(store),
		log:          log.Named("engagement"),
	}
}

// Tracker returns the underlying pure tracker.
func (s *Service) Tracker() *Tracker { return s.tracker }

// Achievements returns the achievement service.
func (s *Service) Achievements() *AchievementService { return s.achievements }

// Result is what Record hands back to callers.
type Result struct {
	Award
	Unlocked []domain.AchievementDef `json:"unlocked,omitempty"`
}

// State returns the learner's current engagement state. A learner who
// never acted gets the zero state at level 1.
func (s *Service) State(ctx context.Context, userID string) (domain.EngagementState, error) {
	var state domain.EngagementState
	if _, err := s.store.Load(ctx, userID, domain.KeyEngagement, &state); err != nil {
		return state, fmt.Errorf("load engagement: %w", err)
	}
	return s.tracker.Normalize(state), nil
}

// LevelProgress returns how far the learner is toward the next level.
func (s *Service) LevelProgress(ctx context.Context, userID string) (domain.LevelProgress, error) {
	state, err := s.State(ctx, userID)
	if err != nil {
		return domain.LevelProgress{}, err
	}
	return s.tracker.XPForNextLevel(state.TotalXP), nil
}

// Record awards XP for action performed today by userID.
func (s *Service) Record(ctx context.Context, userID string, action domain.XPAction) (Result, error) {
	if !action.Valid() {
		return Result{}, fmt.Errorf("%w: %q", domain.ErrUnknownAction, action)
	}

	state, err := s.State(ctx, userID)
	if err != nil {
		return Result{}, err
	}

	today := s.clock.Today()
	award := s.tracker.Award(state, action, today)

	if err := s.store.Save(ctx, userID, domain.KeyEngagement, award.State); err != nil {
		return Result{}, fmt.Errorf("save engagement: %w", err)
	}

	s.observe(userID, action, award)

	res := Result{Award: award}
	stats, err := s.stats(ctx, userID, award.State)
	if err != nil {
		// Badges are a side channel; the award itself is already saved.
		s.log.Warn("achievement stats unavailable", zap.String("user", userID), zap.Error(err))
		return res, nil
	}
	unlocked, err := s.achievements.CheckAndUnlock(ctx, userID, stats, today.Date)
	if err != nil {
		s.log.Warn("achievement check failed", zap.String("user", userID), zap.Error(err))
		return res, nil
	}
	for _, def := range unlocked {
		metrics.AchievementsUnlocked.WithLabelValues(def.ID).Inc()
		s.log.Info("achievement unlocked", zap.String("user", userID), zap.String("achievement", def.ID))
	}
	res.Unlocked = unlocked
	return res, nil
}

func (s *Service) observe(userID string, action domain.XPAction, award Award) {
	metrics.ActionsRecorded.WithLabelValues(string(action)).Inc()
	metrics.XPAwarded.WithLabelValues(string(action)).Add(float64(award.Gained))
	metrics.StreakChanges.WithLabelValues(string(award.Streak)).Inc()
	if award.FreezeEarned {
		metrics.FreezesEarned.Inc()
	}

	s.log.Debug("xp awarded",
		zap.String("user", userID),
		zap.String("action", string(action)),
		zap.Int("gained", award.Gained),
		zap.Int("total", award.State.TotalXP),
		zap.String("streak", string(award.Streak)),
	)
	if award.LeveledUp {
		metrics.LevelUps.WithLabelValues(strconv.Itoa(award.State.Level)).Inc()
		s.log.Info("level up",
			zap.String("user", userID),
			zap.Int("level", award.State.Level),
			zap.String("title", award.State.LevelTitle),
		)
	}
	if award.FreezeUsed() {
		s.log.Info("streak freeze used", zap.String("user", userID), zap.Int("streak", award.State.CurrentStreak))
	}
}

// stats builds the achievement snapshot from the engagement state and
// whatever curriculum the learner has saved.
func (s *Service) stats(ctx context.Context, userID string, state domain.EngagementState) (domain.ProgressStats, error) {
	stats := domain.ProgressStats{
		TotalXP:       state.TotalXP,
		Level:         state.Level,
		CurrentStreak: state.CurrentStreak,
		LongestStreak: state.LongestStreak,
	}
	var cs domain.CurriculumState
	found, err := s.store.Load(ctx, userID, domain.KeyCurriculum, &cs)
	if err != nil {
		return stats, fmt.Errorf("load curriculum: %w", err)
	}
	if found {
		stats.ModulesCompleted = cs.Curriculum.CompletedCount()
		stats.Progress = cs.Progress
		stats.CurriculumComplete = cs.View == domain.ViewComplete
	}
	return stats, nil
}
