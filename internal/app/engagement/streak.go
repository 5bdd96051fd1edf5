// Package engagement implements the XP, level and streak engine.
// The Tracker is a pure function of its inputs; Service is the host glue
// that loads state, asks the clock for today and saves the result.
package engagement

import "github.com/lernpfad/lernpfad/internal/domain"

// StreakChange describes what an award did to the streak.
type StreakChange string

const (
	StreakUnchanged StreakChange = "unchanged" // already active today
	StreakStarted   StreakChange = "started"   // first activity ever
	StreakExtended  StreakChange = "extended"  // consecutive day
	StreakFrozen    StreakChange = "frozen"    // one missed day bridged by the freeze
	StreakHalved    StreakChange = "halved"    // gap too large, streak halved and restarted
)

// evaluateStreak applies the day-gap rules to s in place.
//
//	gap 0        nothing changes
//	gap 1        +1, maybe earn the freeze
//	gap 2+freeze +1, freeze consumed
//	gap >1       floor(n/2)+1 (or 1), freeze dropped
//	no history   1
//
// The freeze bridges exactly one missed day. A larger gap falls through
// to halving even when a freeze is held.
func (t *Tracker) evaluateStreak(s *domain.EngagementState, today string) (change StreakChange, freezeEarned bool) {
	gap, ok := domain.DaysBetween(s.LastActiveDate, today)

	switch {
	case !ok:
		s.CurrentStreak = 1
		s.LastActiveDate = today
		change = StreakStarted

	case gap <= 0:
		// Same day, or the clock went backwards: leave the streak alone.
		change = StreakUnchanged

	case gap == 1:
		s.CurrentStreak++
		s.LastActiveDate = today
		if s.CurrentStreak >= t.cfg.FreezeStreak && !s.StreakFreezeAvailable {
			s.StreakFreezeAvailable = true
			freezeEarned = true
		}
		change = StreakExtended

	case gap == 2 && s.StreakFreezeAvailable:
		s.StreakFreezeAvailable = false
		s.CurrentStreak++
		s.LastActiveDate = today
		change = StreakFrozen

	default:
		halved := s.CurrentStreak / 2
		if halved > 0 {
			s.CurrentStreak = halved + 1
		} else {
			s.CurrentStreak = 1
		}
		s.LastActiveDate = today
		s.StreakFreezeAvailable = false
		change = StreakHalved
	}

	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}
	return change, freezeEarned
}
