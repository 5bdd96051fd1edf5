package engagement

import (
	"fmt"

	"github.com/lernpfad/lernpfad/internal/domain"
)

// Config is the data the tracker consumes: level thresholds, per-action
// rewards and the two streak constants. Swapping it rebalances the game
// without touching the algorithms.
type Config struct {
	Levels       []domain.LevelDefinition `toml:"levels"`
	Rewards      map[domain.XPAction]int  `toml:"rewards"`
	DailyBonus   int                      `toml:"daily_bonus"`
	FreezeStreak int                      `toml:"freeze_streak"` // streak length that earns a freeze
}

// DefaultLevels returns the stock level table.
func DefaultLevels() []domain.LevelDefinition {
	return []domain.LevelDefinition{
		{Level: 1, Title: "Entdecker", XPThreshold: 0},
		{Level: 2, Title: "Reisender", XPThreshold: 100},
		{Level: 3, Title: "Abenteurer", XPThreshold: 300},
		{Level: 4, Title: "Pfadfinder", XPThreshold: 600},
		{Level: 5, Title: "Meister", XPThreshold: 1000},
	}
}

// DefaultRewards returns the stock XP reward per action.
func DefaultRewards() map[domain.XPAction]int {
	return map[domain.XPAction]int{
		domain.ActionOnboardingComplete: 50,
		domain.ActionStationStart:       10,
		domain.ActionStationComplete:    100,
		domain.ActionVUCAModuleComplete: 30,
		domain.ActionQuizCorrect:        10,
		domain.ActionDailyLogin:         20,
		domain.ActionProfileView:        5,
		domain.ActionIntroDemoComplete:  25,
	}
}

// DefaultConfig returns the stock tables with a 20 XP daily bonus and a
// freeze earned at a 7-day streak.
func DefaultConfig() Config {
	return Config{
		Levels:       DefaultLevels(),
		Rewards:      DefaultRewards(),
		DailyBonus:   20,
		FreezeStreak: 7,
	}
}

// Validate checks that the level table starts at level 1 / 0 XP and that
// both levels and thresholds increase strictly.
func (c Config) Validate() error {
	if len(c.Levels) == 0 {
		return fmt.Errorf("%w: empty", domain.ErrInvalidLevelTable)
	}
	if c.Levels[0].Level != 1 || c.Levels[0].XPThreshold != 0 {
		return fmt.Errorf("%w: first entry is level %d at %d XP",
			domain.ErrInvalidLevelTable, c.Levels[0].Level, c.Levels[0].XPThreshold)
	}
	for i := 1; i < len(c.Levels); i++ {
		prev, cur := c.Levels[i-1], c.Levels[i]
		if cur.Level <= prev.Level || cur.XPThreshold <= prev.XPThreshold {
			return fmt.Errorf("%w: entry %d (level %d, %d XP) does not follow level %d, %d XP",
				domain.ErrInvalidLevelTable, i, cur.Level, cur.XPThreshold, prev.Level, prev.XPThreshold)
		}
	}
	for action, xp := range c.Rewards {
		if xp < 0 {
			return fmt.Errorf("reward for %s is negative (%d)", action, xp)
		}
	}
	if c.DailyBonus < 0 {
		return fmt.Errorf("daily bonus is negative (%d)", c.DailyBonus)
	}
	if c.FreezeStreak < 1 {
		return fmt.Errorf("freeze streak must be at least 1, got %d", c.FreezeStreak)
	}
	return nil
}
