package domain

import "encoding/json"

// ─── VUCA Dimensions ────────────────────────────────────────────────────────

// Dimension is one of the four competency axes a module is tagged with.
type Dimension string

const (
	DimV Dimension = "V" // Volatility
	DimU Dimension = "U" // Uncertainty
	DimC Dimension = "C" // Complexity
	DimA Dimension = "A" // Ambiguity
)

// Dimensions returns the four axes in display order.
func Dimensions() []Dimension {
	return []Dimension{DimV, DimU, DimC, DimA}
}

// DimensionProgress holds a 0–100 completion percentage per dimension.
type DimensionProgress struct {
	V int `json:"V"`
	U int `json:"U"`
	C int `json:"C"`
	A int `json:"A"`
}

// Get returns the percentage for d, or 0 for an unknown dimension.
func (p DimensionProgress) Get(d Dimension) int {
	switch d {
	case DimV:
		return p.V
	case DimU:
		return p.U
	case DimC:
		return p.C
	case DimA:
		return p.A
	}
	return 0
}

// Set returns a copy of p with d set to pct.
func (p DimensionProgress) Set(d Dimension, pct int) DimensionProgress {
	switch d {
	case DimV:
		p.V = pct
	case DimU:
		p.U = pct
	case DimC:
		p.C = pct
	case DimA:
		p.A = pct
	}
	return p
}

// ─── Curriculum ─────────────────────────────────────────────────────────────

// Module is one learning unit of a generated curriculum.
type Module struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	Category         string    `json:"category,omitempty"`
	Dimension        Dimension `json:"dimension"`
	EstimatedMinutes int       `json:"estimatedMinutes,omitempty"`
	Completed        bool      `json:"completed"`
}

// Curriculum is the generator's output: a goal and its ordered modules.
type Curriculum struct {
	ID      string   `json:"id"`
	Goal    string   `json:"goal"`
	Modules []Module `json:"modules"`
}

// View is the screen the curriculum flow is currently on.
type View string

const (
	ViewOnboarding        View = "onboarding"
	ViewLoadingCurriculum View = "loading_curriculum"
	ViewDashboard         View = "dashboard"
	ViewCourse            View = "course"
	ViewComplete          View = "complete"
)

// CurriculumState is the persisted VUCA tracker state.
// Curriculum is nil until the generator has produced one.
type CurriculumState struct {
	View           View              `json:"view"`
	Goal           string            `json:"goal,omitempty"`
	Curriculum     *Curriculum       `json:"curriculum,omitempty"`
	Progress       DimensionProgress `json:"progress"`
	ActiveModuleID string            `json:"activeModuleId,omitempty"`
	ActiveContent  json.RawMessage   `json:"activeContent,omitempty"`
}

// Clone returns a deep copy so callers can derive a new state without
// aliasing the module slice of the old one.
func (s CurriculumState) Clone() CurriculumState {
	out := s
	if s.Curriculum != nil {
		c := *s.Curriculum
		c.Modules = append([]Module(nil), s.Curriculum.Modules...)
		out.Curriculum = &c
	}
	if s.ActiveContent != nil {
		out.ActiveContent = append(json.RawMessage(nil), s.ActiveContent...)
	}
	return out
}

// CompletedCount returns how many modules are marked completed.
func (c *Curriculum) CompletedCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, m := range c.Modules {
		if m.Completed {
			n++
		}
	}
	return n
}
