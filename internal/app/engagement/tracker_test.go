package engagement_test

import (
	"testing"
	"testing/quick"
	"time"

	"github.com/lernpfad/lernpfad/internal/app/engagement"
	"github.com/lernpfad/lernpfad/internal/domain"
	"github.com/lernpfad/lernpfad/internal/infra/clock"
)

// day returns the Today value for a YYYY-MM-DD date.
func day(t *testing.T, date string) domain.Today {
	t.Helper()
	today, err := clock.ForDate(date)
	if err != nil {
		t.Fatalf("ForDate(%q): %v", date, err)
	}
	return today
}

func newTracker() *engagement.Tracker {
	return engagement.MustTracker(engagement.DefaultConfig())
}

// ═══════════════════════════════════════════════════════════════════════════
// Award Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestAwardXP_FirstActivityOfDay(t *testing.T) {
	tr := newTracker()

	s := tr.AwardXP(domain.EngagementState{}, domain.ActionOnboardingComplete, day(t, "2026-02-19"))
	if s.TotalXP != 70 {
		t.Errorf("TotalXP = %d, want 70 (50 + 20 bonus)", s.TotalXP)
	}
	if s.WeeklyXP != 70 {
		t.Errorf("WeeklyXP = %d, want 70", s.WeeklyXP)
	}
	if s.WeekStartDate != "2026-02-16" {
		t.Errorf("WeekStartDate = %q, want 2026-02-16", s.WeekStartDate)
	}
	if s.CurrentStreak != 1 || s.LongestStreak != 1 {
		t.Errorf("streak = %d/%d, want 1/1", s.CurrentStreak, s.LongestStreak)
	}
	if s.LastActiveDate != "2026-02-19" {
		t.Errorf("LastActiveDate = %q, want 2026-02-19", s.LastActiveDate)
	}
	if s.Level != 1 || s.LevelTitle != "Entdecker" {
		t.Errorf("level = %d %q, want 1 Entdecker", s.Level, s.LevelTitle)
	}
}

func TestAwardXP_SameDayNoSecondBonus(t *testing.T) {
	tr := newTracker()
	today := day(t, "2026-02-19")

	s := tr.AwardXP(domain.EngagementState{}, domain.ActionOnboardingComplete, today)
	s = tr.AwardXP(s, domain.ActionStationStart, today)

	if s.TotalXP != 80 {
		t.Errorf("TotalXP = %d, want 80", s.TotalXP)
	}
	if s.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1 (same day)", s.CurrentStreak)
	}
}

func TestAwardXP_ConsecutiveDay(t *testing.T) {
	tr := newTracker()
	prev := domain.EngagementState{
		TotalXP: 80, WeeklyXP: 80, WeekStartDate: "2026-02-16",
		CurrentStreak: 1, LongestStreak: 1, LastActiveDate: "2026-02-19",
		Level: 1, LevelTitle: "Entdecker",
	}

	award := tr.Award(prev, domain.ActionStationStart, day(t, "2026-02-20"))
	s := award.State

	if s.CurrentStreak != 2 {
		t.Errorf("CurrentStreak = %d, want 2", s.CurrentStreak)
	}
	if !award.DailyBonus {
		t.Error("DailyBonus should be granted on a new day")
	}
	if award.Gained != 30 || s.TotalXP != 110 {
		t.Errorf("Gained = %d, TotalXP = %d, want 30 / 110", award.Gained, s.TotalXP)
	}
	if !award.LeveledUp || s.Level != 2 {
		t.Errorf("LeveledUp = %v, Level = %d, want true / 2", award.LeveledUp, s.Level)
	}
	if award.Streak != engagement.StreakExtended {
		t.Errorf("Streak = %q, want extended", award.Streak)
	}
}

func TestAwardXP_DailyLoginOnlyBonus(t *testing.T) {
	tr := newTracker()

	award := tr.Award(domain.EngagementState{}, domain.ActionDailyLogin, day(t, "2026-02-19"))
	if award.Gained != 20 {
		t.Errorf("Gained = %d, want 20 (bonus only)", award.Gained)
	}

	again := tr.Award(award.State, domain.ActionDailyLogin, day(t, "2026-02-19"))
	if again.Gained != 0 {
		t.Errorf("second daily_login Gained = %d, want 0", again.Gained)
	}
}

func TestAwardXP_UnknownActionEarnsOnlyBonus(t *testing.T) {
	tr := newTracker()
	award := tr.Award(domain.EngagementState{}, domain.XPAction("dance"), day(t, "2026-02-19"))
	if award.Gained != 20 {
		t.Errorf("Gained = %d, want 20", award.Gained)
	}
}

func TestAwardXP_StreakHalved(t *testing.T) {
	tr := newTracker()
	prev := domain.EngagementState{CurrentStreak: 6, LongestStreak: 6, LastActiveDate: "2026-02-19"}

	award := tr.Award(prev, domain.ActionStationStart, day(t, "2026-02-22"))
	if award.State.CurrentStreak != 4 {
		t.Errorf("CurrentStreak = %d, want 4 (floor(6/2)+1)", award.State.CurrentStreak)
	}
	if award.State.LongestStreak != 6 {
		t.Errorf("LongestStreak = %d, want 6", award.State.LongestStreak)
	}
	if award.Streak != engagement.StreakHalved {
		t.Errorf("Streak = %q, want halved", award.Streak)
	}
}

func TestAwardXP_StreakHalvedFromOne(t *testing.T) {
	tr := newTracker()
	prev := domain.EngagementState{CurrentStreak: 1, LongestStreak: 1, LastActiveDate: "2026-02-10"}

	s := tr.AwardXP(prev, domain.ActionStationStart, day(t, "2026-02-19"))
	if s.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1", s.CurrentStreak)
	}
}

func TestAwardXP_GapTwoWithoutFreeze(t *testing.T) {
	tr := newTracker()
	prev := domain.EngagementState{CurrentStreak: 5, LongestStreak: 5, LastActiveDate: "2026-02-19"}

	s := tr.AwardXP(prev, domain.ActionStationStart, day(t, "2026-02-21"))
	if s.CurrentStreak != 3 {
		t.Errorf("CurrentStreak = %d, want 3 (floor(5/2)+1)", s.CurrentStreak)
	}
}

func TestAwardXP_FreezeBridgesOneMissedDay(t *testing.T) {
	tr := newTracker()
	prev := domain.EngagementState{
		CurrentStreak: 7, LongestStreak: 7, LastActiveDate: "2026-02-19",
		StreakFreezeAvailable: true,
	}

	award := tr.Award(prev, domain.ActionStationStart, day(t, "2026-02-21"))
	s := award.State
	if s.CurrentStreak != 8 {
		t.Errorf("CurrentStreak = %d, want 8", s.CurrentStreak)
	}
	if s.LongestStreak != 8 {
		t.Errorf("LongestStreak = %d, want 8", s.LongestStreak)
	}
	if s.StreakFreezeAvailable {
		t.Error("freeze should be consumed")
	}
	if !award.FreezeUsed() {
		t.Error("FreezeUsed() should be true")
	}
	if s.LastActiveDate != "2026-02-21" {
		t.Errorf("LastActiveDate = %q, want 2026-02-21", s.LastActiveDate)
	}
}

func TestAwardXP_FreezeNotUsedForLargerGap(t *testing.T) {
	tr := newTracker()
	prev := domain.EngagementState{
		CurrentStreak: 7, LongestStreak: 7, LastActiveDate: "2026-02-19",
		StreakFreezeAvailable: true,
	}

	award := tr.Award(prev, domain.ActionStationStart, day(t, "2026-02-23"))
	if award.State.CurrentStreak != 4 {
		t.Errorf("CurrentStreak = %d, want 4 (floor(7/2)+1)", award.State.CurrentStreak)
	}
	if award.State.StreakFreezeAvailable {
		t.Error("freeze should be dropped after halving")
	}
	if award.FreezeUsed() {
		t.Error("FreezeUsed() should be false for gap 4")
	}
}

func TestAwardXP_FreezeGrantedAtSeven(t *testing.T) {
	tr := newTracker()
	s := domain.EngagementState{}
	base := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	var earned []int
	for i := 0; i < 10; i++ {
		award := tr.Award(s, domain.ActionStationStart, day(t, base.AddDate(0, 0, i).Format(domain.DateLayout)))
		s = award.State
		if award.FreezeEarned {
			earned = append(earned, s.CurrentStreak)
		}
		if s.CurrentStreak >= 7 && !s.StreakFreezeAvailable {
			t.Fatalf("day %d: streak %d without freeze", i, s.CurrentStreak)
		}
		if s.CurrentStreak < 7 && s.StreakFreezeAvailable {
			t.Fatalf("day %d: freeze granted at streak %d", i, s.CurrentStreak)
		}
	}
	if len(earned) != 1 || earned[0] != 7 {
		t.Errorf("freeze earned at streaks %v, want exactly [7]", earned)
	}
	if s.CurrentStreak != 10 {
		t.Errorf("CurrentStreak = %d, want 10", s.CurrentStreak)
	}
}

func TestAwardXP_FreezeRegrantedAfterUse(t *testing.T) {
	tr := newTracker()
	prev := domain.EngagementState{
		CurrentStreak: 7, LongestStreak: 7, LastActiveDate: "2026-02-19",
		StreakFreezeAvailable: true,
	}

	s := tr.AwardXP(prev, domain.ActionStationStart, day(t, "2026-02-21")) // bridge: 8
	award := tr.Award(s, domain.ActionStationStart, day(t, "2026-02-22"))  // consecutive: 9

	if !award.FreezeEarned || !award.State.StreakFreezeAvailable {
		t.Error("a consumed freeze is earned again on the next consecutive day past the threshold")
	}
}

func TestAwardXP_SameDayLeavesStreak(t *testing.T) {
	tr := newTracker()
	prev := domain.EngagementState{CurrentStreak: 3, LongestStreak: 5, LastActiveDate: "2026-02-19"}

	award := tr.Award(prev, domain.ActionQuizCorrect, day(t, "2026-02-19"))
	if award.State.CurrentStreak != 3 || award.Streak != engagement.StreakUnchanged {
		t.Errorf("streak = %d (%s), want 3 unchanged", award.State.CurrentStreak, award.Streak)
	}
	if award.DailyBonus {
		t.Error("no bonus on an already active day")
	}
}

func TestAwardXP_ClockBackwards(t *testing.T) {
	tr := newTracker()
	prev := domain.EngagementState{CurrentStreak: 3, LongestStreak: 3, LastActiveDate: "2026-02-19"}

	award := tr.Award(prev, domain.ActionQuizCorrect, day(t, "2026-02-18"))
	if award.State.CurrentStreak != 3 {
		t.Errorf("CurrentStreak = %d, want 3", award.State.CurrentStreak)
	}
	if award.State.LastActiveDate != "2026-02-19" {
		t.Errorf("LastActiveDate = %q, want unchanged", award.State.LastActiveDate)
	}
}

func TestAwardXP_WeeklyReset(t *testing.T) {
	tr := newTracker()
	prev := domain.EngagementState{
		TotalXP: 500, WeeklyXP: 120, WeekStartDate: "2026-02-16",
		CurrentStreak: 2, LongestStreak: 2, LastActiveDate: "2026-02-22",
	}

	s := tr.AwardXP(prev, domain.ActionStationStart, day(t, "2026-02-23"))
	if s.WeekStartDate != "2026-02-23" {
		t.Errorf("WeekStartDate = %q, want 2026-02-23", s.WeekStartDate)
	}
	if s.WeeklyXP != 30 {
		t.Errorf("WeeklyXP = %d, want 30 (just the new award)", s.WeeklyXP)
	}
	if s.TotalXP != 530 {
		t.Errorf("TotalXP = %d, want 530", s.TotalXP)
	}
}

func TestAwardXP_WeeklyKeptWithinWeek(t *testing.T) {
	tr := newTracker()
	prev := domain.EngagementState{
		TotalXP: 100, WeeklyXP: 100, WeekStartDate: "2026-02-16",
		CurrentStreak: 1, LongestStreak: 1, LastActiveDate: "2026-02-19",
	}

	s := tr.AwardXP(prev, domain.ActionStationStart, day(t, "2026-02-22"))
	if s.WeeklyXP != 130 {
		t.Errorf("WeeklyXP = %d, want 130", s.WeeklyXP)
	}
}

func TestAwardXP_DoesNotMutateInput(t *testing.T) {
	tr := newTracker()
	prev := domain.EngagementState{CurrentStreak: 2, LongestStreak: 2, LastActiveDate: "2026-02-19"}
	before := prev

	_ = tr.AwardXP(prev, domain.ActionStationComplete, day(t, "2026-02-20"))
	if prev != before {
		t.Errorf("input state mutated: %+v", prev)
	}
}

func TestAwardXP_RepairsStaleLevel(t *testing.T) {
	tr := newTracker()
	prev := domain.EngagementState{TotalXP: 650, Level: 1, LevelTitle: "Entdecker", LastActiveDate: "2026-02-19"}

	s := tr.AwardXP(prev, domain.ActionProfileView, day(t, "2026-02-19"))
	if s.Level != 4 || s.LevelTitle != "Pfadfinder" {
		t.Errorf("level = %d %q, want 4 Pfadfinder", s.Level, s.LevelTitle)
	}
}

func TestNormalize(t *testing.T) {
	tr := newTracker()
	s := tr.Normalize(domain.EngagementState{TotalXP: 300, CurrentStreak: 4, LongestStreak: 2})
	if s.Level != 3 || s.LevelTitle != "Abenteurer" {
		t.Errorf("level = %d %q, want 3 Abenteurer", s.Level, s.LevelTitle)
	}
	if s.LongestStreak != 4 {
		t.Errorf("LongestStreak = %d, want 4", s.LongestStreak)
	}

	zero := tr.Normalize(domain.EngagementState{})
	if zero.Level != 1 || zero.LevelTitle != "Entdecker" {
		t.Errorf("zero state level = %d %q, want 1 Entdecker", zero.Level, zero.LevelTitle)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Property Tests
// ═══════════════════════════════════════════════════════════════════════════

// replay applies a random sequence of actions, each 0..4 days after the
// previous one, and reports whether the invariants held after every step.
func replay(tr *engagement.Tracker, actions, gaps []uint8) bool {
	all := domain.AllActions()
	date := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var s domain.EngagementState

	for i, a := range actions {
		if i < len(gaps) {
			date = date.AddDate(0, 0, int(gaps[i]%5))
		}
		today, _ := clock.ForDate(date.Format(domain.DateLayout))
		prev := s
		s = tr.AwardXP(s, all[int(a)%len(all)], today)

		if s.LongestStreak < s.CurrentStreak {
			return false
		}
		if s.TotalXP < prev.TotalXP {
			return false
		}
		if s.WeeklyXP > s.TotalXP {
			return false
		}
		if lvl := tr.ComputeLevel(s.TotalXP); s.Level != lvl.Level || s.LevelTitle != lvl.Title {
			return false
		}
		if s.CurrentStreak < 1 {
			return false
		}
		if s.LastActiveDate != today.Date {
			return false
		}
	}
	return true
}

func TestAwardXP_Invariants(t *testing.T) {
	tr := newTracker()
	f := func(actions, gaps []uint8) bool { return replay(tr, actions, gaps) }
	if err := quick.Check(f, &quick.Config{MaxCount: 500}); err != nil {
		t.Error(err)
	}
}

func TestAwardXP_Deterministic(t *testing.T) {
	tr := newTracker()
	f := func(streak uint8, freeze bool, gap uint8, action uint8) bool {
		all := domain.AllActions()
		prev := domain.EngagementState{
			CurrentStreak:         int(streak),
			LongestStreak:         int(streak),
			LastActiveDate:        "2026-02-19",
			StreakFreezeAvailable: freeze,
		}
		today, _ := clock.ForDate(time.Date(2026, 2, 19+int(gap%10), 0, 0, 0, 0, time.UTC).Format(domain.DateLayout))
		a := all[int(action)%len(all)]
		return tr.AwardXP(prev, a, today) == tr.AwardXP(prev, a, today)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestComputeLevel_GreatestThreshold(t *testing.T) {
	tr := newTracker()
	levels := tr.Levels()
	f := func(xp uint16) bool {
		got := tr.ComputeLevel(int(xp))
		if got.XPThreshold > int(xp) {
			return false
		}
		for _, l := range levels {
			if l.XPThreshold <= int(xp) && l.Level > got.Level {
				return false
			}
		}
		return true
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}
