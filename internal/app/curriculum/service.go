package curriculum

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lernpfad/lernpfad/internal/app/engagement"
	"github.com/lernpfad/lernpfad/internal/domain"
	"github.com/lernpfad/lernpfad/internal/infra/metrics"
)

// Service loads and saves a learner's VUCA state around the pure
// tracker, and awards XP for completed modules.
type Service struct {
	tracker    *Tracker
	store      domain.StateStore
	engagement *engagement.Service // optional; nil disables XP on completion
	log        *zap.Logger
}

// NewService creates a curriculum service.
func NewService(tracker *Tracker, store domain.StateStore, eng *engagement.Service, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{tracker: tracker, store: store, engagement: eng, log: log.Named("curriculum")}
}

// Tracker returns the underlying pure tracker.
func (s *Service) Tracker() *Tracker { return s.tracker }

// CompleteResult is returned by Complete.
type CompleteResult struct {
	State      domain.CurriculumState `json:"state"`
	Suggestion *domain.Module         `json:"suggestion,omitempty"`
	Award      *engagement.Result     `json:"award,omitempty"`
}

// State returns the saved state, or a fresh onboarding state.
func (s *Service) State(ctx context.Context, userID string) (domain.CurriculumState, error) {
	state := NewState()
	if _, err := s.store.Load(ctx, userID, domain.KeyCurriculum, &state); err != nil {
		return state, fmt.Errorf("load curriculum: %w", err)
	}
	return state, nil
}

// Begin moves the learner to the loading view with their goal.
func (s *Service) Begin(ctx context.Context, userID, goal string) (domain.CurriculumState, error) {
	return s.update(ctx, userID, func(st domain.CurriculumState) (domain.CurriculumState, error) {
		return Begin(st, goal)
	})
}

// Load installs a generated curriculum. A curriculum without an id gets
// a fresh one so archived instances can be told apart.
func (s *Service) Load(ctx context.Context, userID string, c domain.Curriculum) (domain.CurriculumState, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	next, err := s.update(ctx, userID, func(st domain.CurriculumState) (domain.CurriculumState, error) {
		return s.tracker.Load(st, c)
	})
	if err == nil {
		s.log.Info("curriculum loaded",
			zap.String("user", userID),
			zap.String("curriculum", c.ID),
			zap.Int("modules", len(c.Modules)),
		)
	}
	return next, err
}

// Open enters the course view for a module.
func (s *Service) Open(ctx context.Context, userID, moduleID string, content json.RawMessage) (domain.CurriculumState, error) {
	return s.update(ctx, userID, func(st domain.CurriculumState) (domain.CurriculumState, error) {
		return Open(st, moduleID, content)
	})
}

// Close returns from the course view to the dashboard.
func (s *Service) Close(ctx context.Context, userID string) (domain.CurriculumState, error) {
	return s.update(ctx, userID, Close)
}

// Complete marks a module completed, awards vuca_module_complete XP the
// first time a module is completed, and returns the Gegensatz
// suggestion for what to do next.
func (s *Service) Complete(ctx context.Context, userID, moduleID string) (CompleteResult, error) {
	state, err := s.State(ctx, userID)
	if err != nil {
		return CompleteResult{}, err
	}
	if state.Curriculum == nil {
		return CompleteResult{State: state}, domain.ErrNoCurriculum
	}
	mod, ok := ModuleByID(state, moduleID)
	if !ok {
		return CompleteResult{State: state}, fmt.Errorf("%w: %s", domain.ErrModuleNotFound, moduleID)
	}

	wasComplete := state.View == domain.ViewComplete
	next := s.tracker.CompleteModule(state, moduleID)
	if err := s.store.Save(ctx, userID, domain.KeyCurriculum, next); err != nil {
		return CompleteResult{}, fmt.Errorf("save curriculum: %w", err)
	}

	res := CompleteResult{State: next}
	if !mod.Completed {
		metrics.ModulesCompleted.WithLabelValues(string(mod.Dimension)).Inc()
		if s.engagement != nil {
			award, err := s.engagement.Record(ctx, userID, domain.ActionVUCAModuleComplete)
			if err != nil {
				return res, fmt.Errorf("award module xp: %w", err)
			}
			res.Award = &award
		}
	}
	if next.View == domain.ViewComplete && !wasComplete {
		metrics.CurriculaCompleted.Inc()
		s.log.Info("curriculum complete", zap.String("user", userID), zap.String("curriculum", next.Curriculum.ID))
	}

	if sug, ok := s.suggest(next, moduleID); ok {
		res.Suggestion = &sug
	}
	return res, nil
}

// Suggestion returns the Gegensatz suggestion after lastCompletedID.
func (s *Service) Suggestion(ctx context.Context, userID, lastCompletedID string) (*domain.Module, error) {
	state, err := s.State(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sug, ok := s.suggest(state, lastCompletedID); ok {
		return &sug, nil
	}
	return nil, nil
}

// Reset discards the learner's curriculum and returns to onboarding.
func (s *Service) Reset(ctx context.Context, userID string) error {
	if err := s.store.Delete(ctx, userID, domain.KeyCurriculum); err != nil {
		return fmt.Errorf("delete curriculum: %w", err)
	}
	return nil
}

func (s *Service) suggest(state domain.CurriculumState, lastCompletedID string) (domain.Module, bool) {
	if state.Curriculum == nil {
		metrics.SuggestionsServed.WithLabelValues("none").Inc()
		return domain.Module{}, false
	}
	sug, ok := GegensatzSuggestion(state.Curriculum.Modules, lastCompletedID)
	if ok {
		metrics.SuggestionsServed.WithLabelValues("found").Inc()
	} else {
		metrics.SuggestionsServed.WithLabelValues("none").Inc()
	}
	return sug, ok
}

func (s *Service) update(ctx context.Context, userID string, fn func(domain.CurriculumState) (domain.CurriculumState, error)) (domain.CurriculumState, error) {
	state, err := s.State(ctx, userID)
	if err != nil {
		return state, err
	}
	next, err := fn(state)
	if err != nil {
		return state, err
	}
	if err := s.store.Save(ctx, userID, domain.KeyCurriculum, next); err != nil {
		return state, fmt.Errorf("save curriculum: %w", err)
	}
	return next, nil
}
