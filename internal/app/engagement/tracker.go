package engagement

import (
	"github.com/lernpfad/lernpfad/internal/domain"
)

// Tracker computes engagement state transitions. It holds only the
// validated configuration and is safe for concurrent use.
type Tracker struct {
	cfg    Config
	levels []domain.LevelDefinition
}

// NewTracker validates cfg and returns a tracker for it.
func NewTracker(cfg Config) (*Tracker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rewards := make(map[domain.XPAction]int, len(cfg.Rewards))
	for k, v := range cfg.Rewards {
		rewards[k] = v
	}
	cfg.Rewards = rewards
	levels := append([]domain.LevelDefinition(nil), cfg.Levels...)
	cfg.Levels = levels
	return &Tracker{cfg: cfg, levels: levels}, nil
}

// MustTracker is NewTracker for configurations known to be valid.
func MustTracker(cfg Config) *Tracker {
	t, err := NewTracker(cfg)
	if err != nil {
		panic(err)
	}
	return t
}

// Reward returns the XP an action earns through the action path.
// daily_login earns nothing here because the daily bonus already pays
// for the first activity of a day. Unknown actions earn nothing.
func (t *Tracker) Reward(action domain.XPAction) int {
	if action == domain.ActionDailyLogin {
		return 0
	}
	return t.cfg.Rewards[action]
}

// DailyBonus returns the XP added on the first activity of a day.
func (t *Tracker) DailyBonus() int {
	return t.cfg.DailyBonus
}

// Award is the full outcome of one AwardXP call.
type Award struct {
	State        domain.EngagementState `json:"state"`
	Gained       int                    `json:"gained"`
	DailyBonus   bool                   `json:"dailyBonus"`
	LeveledUp    bool                   `json:"leveledUp"`
	Streak       StreakChange           `json:"streak"`
	FreezeEarned bool                   `json:"freezeEarned"`
}

// FreezeUsed reports whether the award consumed the streak freeze.
func (a Award) FreezeUsed() bool {
	return a.Streak == StreakFrozen
}

// AwardXP returns the state after a learner performs action on today.
func (t *Tracker) AwardXP(state domain.EngagementState, action domain.XPAction, today domain.Today) domain.EngagementState {
	return t.Award(state, action, today).State
}

// Award runs the five award steps in order: streak, weekly window,
// daily bonus, action reward, level.
func (t *Tracker) Award(prev domain.EngagementState, action domain.XPAction, today domain.Today) Award {
	next := prev

	change, earned := t.evaluateStreak(&next, today.Date)

	if next.WeekStartDate != today.WeekStart {
		next.WeeklyXP = 0
		next.WeekStartDate = today.WeekStart
	}

	gained := 0
	bonus := prev.LastActiveDate != today.Date
	if bonus {
		gained += t.cfg.DailyBonus
	}
	gained += t.Reward(action)

	next.TotalXP += gained
	next.WeeklyXP += gained

	lvl := t.ComputeLevel(next.TotalXP)
	next.Level = lvl.Level
	next.LevelTitle = lvl.Title

	return Award{
		State:        next,
		Gained:       gained,
		DailyBonus:   bonus,
		LeveledUp:    lvl.Level > t.ComputeLevel(prev.TotalXP).Level,
		Streak:       change,
		FreezeEarned: earned,
	}
}

// Normalize re-derives the level fields of a loaded state. Stored states
// from an older level table, or the zero value, come back consistent.
func (t *Tracker) Normalize(s domain.EngagementState) domain.EngagementState {
	lvl := t.ComputeLevel(s.TotalXP)
	s.Level = lvl.Level
	s.LevelTitle = lvl.Title
	if s.LongestStreak < s.CurrentStreak {
		s.LongestStreak = s.CurrentStreak
	}
	return s
}
