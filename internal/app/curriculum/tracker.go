package curriculum

import (
	"github.com/lernpfad/lernpfad/internal/domain"
)

// Tracker applies completion events using a fixed completion threshold.
type Tracker struct {
	threshold int
}

// NewTracker returns a tracker; a threshold <= 0 selects DefaultThreshold.
func NewTracker(threshold int) *Tracker {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Tracker{threshold: threshold}
}

// Threshold returns the per-dimension completion threshold.
func (t *Tracker) Threshold() int { return t.threshold }

// IsComplete reports whether p satisfies the tracker's threshold.
func (t *Tracker) IsComplete(p domain.DimensionProgress) bool {
	return IsComplete(p, t.threshold)
}

// CompleteModule marks moduleID completed and recomputes progress.
// Without a curriculum the state is returned unchanged. An unknown id
// still recomputes progress and returns to the dashboard.
// The active module and its content are always cleared.
func (t *Tracker) CompleteModule(state domain.CurriculumState, moduleID string) domain.CurriculumState {
	if state.Curriculum == nil {
		return state
	}

	next := state.Clone()
	for i := range next.Curriculum.Modules {
		if next.Curriculum.Modules[i].ID == moduleID {
			next.Curriculum.Modules[i].Completed = true
		}
	}

	next.Progress = CalculateProgress(next.Curriculum.Modules)
	next.ActiveModuleID = ""
	next.ActiveContent = nil
	if t.IsComplete(next.Progress) {
		next.View = domain.ViewComplete
	} else {
		next.View = domain.ViewDashboard
	}
	return next
}

// ModuleByID looks up a module. found is false when there is no
// curriculum or the id is unknown.
func ModuleByID(state domain.CurriculumState, moduleID string) (domain.Module, bool) {
	if state.Curriculum == nil {
		return domain.Module{}, false
	}
	return findModule(state.Curriculum.Modules, moduleID)
}

// OppositeDimension pairs V with A and U with C.
func OppositeDimension(d domain.Dimension) (domain.Dimension, bool) {
	switch d {
	case domain.DimV:
		return domain.DimA, true
	case domain.DimA:
		return domain.DimV, true
	case domain.DimU:
		return domain.DimC, true
	case domain.DimC:
		return domain.DimU, true
	}
	return "", false
}

// GegensatzSuggestion proposes the first incomplete module, in
// curriculum order, from the dimension opposite to the one
// lastCompletedID belongs to. It nudges the learner to balance the four
// axes instead of staying in one.
func GegensatzSuggestion(modules []domain.Module, lastCompletedID string) (domain.Module, bool) {
	if lastCompletedID == "" {
		return domain.Module{}, false
	}
	last, ok := findModule(modules, lastCompletedID)
	if !ok {
		return domain.Module{}, false
	}
	opposite, ok := OppositeDimension(last.Dimension)
	if !ok {
		return domain.Module{}, false
	}
	for _, m := range modules {
		if m.Dimension == opposite && !m.Completed {
			return m, true
		}
	}
	return domain.Module{}, false
}

func findModule(modules []domain.Module, id string) (domain.Module, bool) {
	for _, m := range modules {
		if m.ID == id {
			return m, true
		}
	}
	return domain.Module{}, false
}
