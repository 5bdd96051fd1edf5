package engagement

import "github.com/lernpfad/lernpfad/internal/domain"

// ComputeLevel returns the level whose threshold is the greatest one not
// above xp. Levels are never stored incrementally; this is the only
// place a level comes from.
func (t *Tracker) ComputeLevel(xp int) domain.LevelDefinition {
	return t.levels[t.levelIndex(xp)]
}

// XPForNextLevel reports the current and next thresholds and the
// fraction of the way between them. At the top level next equals current
// and progress is exactly 1.
func (t *Tracker) XPForNextLevel(xp int) domain.LevelProgress {
	i := t.levelIndex(xp)
	current := t.levels[i].XPThreshold
	if i == len(t.levels)-1 {
		return domain.LevelProgress{Current: current, Next: current, Progress: 1}
	}
	next := t.levels[i+1].XPThreshold
	progress := float64(xp-current) / float64(next-current)
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	return domain.LevelProgress{Current: current, Next: next, Progress: progress}
}

// Levels returns a copy of the level table.
func (t *Tracker) Levels() []domain.LevelDefinition {
	return append([]domain.LevelDefinition(nil), t.levels...)
}

// MaxLevel returns the highest level in the table.
func (t *Tracker) MaxLevel() domain.LevelDefinition {
	return t.levels[len(t.levels)-1]
}

// levelIndex returns the index of the highest threshold <= xp.
// The table is validated to start at 0, so negative xp maps to index 0.
func (t *Tracker) levelIndex(xp int) int {
	idx := 0
	for i, l := range t.levels {
		if l.XPThreshold > xp {
			break
		}
		idx = i
	}
	return idx
}
