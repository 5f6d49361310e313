package stats

import (
	"slices"
	"time"

	"github.com/sadopc/studybuddy/internal/store"
)

// civilDay strips the time of day from t as seen in loc. The result is
// expressed in UTC so that subtracting two days always yields a whole
// number of 24h periods, whatever DST does in loc.
func civilDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(earlier, later time.Time) int {
	return int(later.Sub(earlier).Hours() / 24)
}

// studyDays returns the distinct calendar days with at least one session,
// newest first.
func studyDays(sessions []store.StudySession, loc *time.Location) []time.Time {
	seen := make(map[time.Time]bool, len(sessions))
	days := make([]time.Time, 0, len(sessions))
	for _, s := range sessions {
		d := civilDay(s.Date, loc)
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	slices.SortFunc(days, func(a, b time.Time) int { return b.Compare(a) })
	return days
}

// CurrentStreak counts consecutive study days ending on today or yesterday.
// A latest study day older than yesterday means the streak is broken.
func CurrentStreak(sessions []store.StudySession, today time.Time) int {
	days := studyDays(sessions, today.Location())
	if len(days) == 0 {
		return 0
	}
	if daysBetween(days[0], civilDay(today, today.Location())) > 1 {
		return 0
	}

	streak := 1
	for i := 1; i < len(days); i++ {
		if daysBetween(days[i], days[i-1]) != 1 {
			break
		}
		streak++
	}
	return streak
}

// LongestStreak is the longest run of consecutive study days anywhere in
// the ledger.
func LongestStreak(sessions []store.StudySession, loc *time.Location) int {
	days := studyDays(sessions, loc)
	if len(days) == 0 {
		return 0
	}
	longest, run := 1, 1
	for i := 1; i < len(days); i++ {
		if daysBetween(days[i], days[i-1]) == 1 {
			run++
		} else {
			run = 1
		}
		longest = max(longest, run)
	}
	return longest
}
