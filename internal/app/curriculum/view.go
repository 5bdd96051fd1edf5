package curriculum

import (
	"encoding/json"
	"fmt"

	"github.com/lernpfad/lernpfad/internal/domain"
)

// View transitions:
//
//	Onboarding ─Begin─▶ LoadingCurriculum ─Load─▶ Dashboard ⇄ Course
//	                                               │   CompleteModule
//	                                               ▼
//	                                           Complete (terminal)
//
// Reset starts over from Onboarding with no curriculum.

// NewState returns the state of a learner who has not started yet.
func NewState() domain.CurriculumState {
	return domain.CurriculumState{View: domain.ViewOnboarding}
}

// Begin records the learner's goal while the generator works on it.
func Begin(state domain.CurriculumState, goal string) (domain.CurriculumState, error) {
	if state.View != domain.ViewOnboarding && state.View != "" {
		return state, fmt.Errorf("%w: begin from %s", domain.ErrInvalidTransition, state.View)
	}
	next := NewState()
	next.View = domain.ViewLoadingCurriculum
	next.Goal = goal
	return next, nil
}

// Load installs a generated curriculum and opens the dashboard. Loading
// is accepted while onboarding too, for hosts that generate synchronously.
func (t *Tracker) Load(state domain.CurriculumState, c domain.Curriculum) (domain.CurriculumState, error) {
	switch state.View {
	case "", domain.ViewOnboarding, domain.ViewLoadingCurriculum:
	default:
		return state, fmt.Errorf("%w: load from %s", domain.ErrInvalidTransition, state.View)
	}
	if len(c.Modules) == 0 {
		return state, domain.ErrEmptyCurriculum
	}

	c.Modules = append([]domain.Module(nil), c.Modules...)
	if c.Goal == "" {
		c.Goal = state.Goal
	}
	next := domain.CurriculumState{
		Goal:       c.Goal,
		Curriculum: &c,
		Progress:   CalculateProgress(c.Modules),
		View:       domain.ViewDashboard,
	}
	if t.IsComplete(next.Progress) {
		next.View = domain.ViewComplete
	}
	return next, nil
}

// Open enters the course view for moduleID with its generated content.
// Switching directly from one open module to another is allowed.
func Open(state domain.CurriculumState, moduleID string, content json.RawMessage) (domain.CurriculumState, error) {
	if state.Curriculum == nil {
		return state, domain.ErrNoCurriculum
	}
	if state.View != domain.ViewDashboard && state.View != domain.ViewCourse {
		return state, fmt.Errorf("%w: open from %s", domain.ErrInvalidTransition, state.View)
	}
	if _, ok := ModuleByID(state, moduleID); !ok {
		return state, fmt.Errorf("%w: %s", domain.ErrModuleNotFound, moduleID)
	}
	next := state.Clone()
	next.View = domain.ViewCourse
	next.ActiveModuleID = moduleID
	next.ActiveContent = append(json.RawMessage(nil), content...)
	return next, nil
}

// Close leaves the course view without completing the module.
func Close(state domain.CurriculumState) (domain.CurriculumState, error) {
	if state.View != domain.ViewCourse {
		return state, fmt.Errorf("%w: close from %s", domain.ErrInvalidTransition, state.View)
	}
	next := state.Clone()
	next.View = domain.ViewDashboard
	next.ActiveModuleID = ""
	next.ActiveContent = nil
	return next, nil
}
