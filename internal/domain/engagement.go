// Package domain holds the value types shared by the progress engine,
// its storage adapters and the HTTP/CLI surfaces.
// Nothing in here performs I/O.
package domain

// ─── Engagement State ───────────────────────────────────────────────────────

// EngagementState is a learner's XP, level and streak record.
// It is replaced as a whole value on every award; callers never patch
// individual fields.
type EngagementState struct {
	TotalXP               int    `json:"totalXP"`
	WeeklyXP              int    `json:"weeklyXP"`
	WeekStartDate         string `json:"weekStartDate"`
	CurrentStreak         int    `json:"currentStreak"`
	LongestStreak         int    `json:"longestStreak"`
	LastActiveDate        string `json:"lastActiveDate"`
	StreakFreezeAvailable bool   `json:"streakFreezeAvailable"`
	Level                 int    `json:"level"`
	LevelTitle            string `json:"levelTitle"`
}

// ─── XP Actions ─────────────────────────────────────────────────────────────

// XPAction names something a learner did that earns experience points.
type XPAction string

const (
	ActionOnboardingComplete XPAction = "onboarding_complete"
	ActionStationStart       XPAction = "station_start"
	ActionStationComplete    XPAction = "station_complete"
	ActionVUCAModuleComplete XPAction = "vuca_module_complete"
	ActionQuizCorrect        XPAction = "quiz_correct"
	ActionDailyLogin         XPAction = "daily_login"
	ActionProfileView        XPAction = "profile_view"
	ActionIntroDemoComplete  XPAction = "intro_demo_complete"
)

// AllActions lists every known action in a stable order.
func AllActions() []XPAction {
	return []XPAction{
		ActionOnboardingComplete,
		ActionStationStart,
		ActionStationComplete,
		ActionVUCAModuleComplete,
		ActionQuizCorrect,
		ActionDailyLogin,
		ActionProfileView,
		ActionIntroDemoComplete,
	}
}

// Valid reports whether a is one of the known actions.
func (a XPAction) Valid() bool {
	for _, known := range AllActions() {
		if a == known {
			return true
		}
	}
	return false
}

// ─── Levels ─────────────────────────────────────────────────────────────────

// LevelDefinition is one row of the level table.
type LevelDefinition struct {
	Level       int    `json:"level" toml:"level"`
	Title       string `json:"title" toml:"title"`
	XPThreshold int    `json:"xpThreshold" toml:"xp_threshold"`
}

// LevelProgress describes how far a learner is between two thresholds.
type LevelProgress struct {
	Current  int     `json:"current"`
	Next     int     `json:"next"`
	Progress float64 `json:"progress"` // 0.0–1.0
}

// ─── Achievements ───────────────────────────────────────────────────────────

// AchievementCategory groups achievements by theme.
type AchievementCategory string

const (
	CatGettingStarted AchievementCategory = "getting_started"
	CatStreaks        AchievementCategory = "streaks"
	CatVUCA           AchievementCategory = "vuca"
)

// AchievementDef defines a single badge and the stats that unlock it.
type AchievementDef struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	Category  AchievementCategory     `json:"category"`
	Icon      string                  `json:"icon"`
	Predicate func(ProgressStats) bool `json:"-"`
}

// UnlockedAchievement records the calendar date a badge was earned.
type UnlockedAchievement struct {
	ID         string `json:"id"`
	UnlockedOn string `json:"unlockedOn"`
}

// ProgressStats is the snapshot fed to achievement predicates.
type ProgressStats struct {
	TotalXP            int               `json:"totalXP"`
	Level              int               `json:"level"`
	CurrentStreak      int               `json:"currentStreak"`
	LongestStreak      int               `json:"longestStreak"`
	ModulesCompleted   int               `json:"modulesCompleted"`
	Progress           DimensionProgress `json:"progress"`
	CurriculumComplete bool              `json:"curriculumComplete"`
}
