// Package stats derives totals, streaks and daily-goal progress from the
// session ledger. Everything here is a pure function of its inputs.
package stats

import (
	"math"
	"time"

	"github.com/sadopc/studybuddy/internal/store"
)

// Summary bundles every aggregate shown on the stats screen.
type Summary struct {
	TotalSessions         int
	TotalMinutes          int
	AverageSessionSeconds int
	TodayMinutes          int
	TodaySessions         int
	LongestSessionMinutes int
	CurrentStreak         int
	LongestStreak         int
}

func Summarize(sessions []store.StudySession, now time.Time) Summary {
	return Summary{
		TotalSessions:         TotalCount(sessions),
		TotalMinutes:          TotalMinutes(sessions),
		AverageSessionSeconds: AverageSessionSeconds(sessions),
		TodayMinutes:          TodayMinutes(sessions, now),
		TodaySessions:         TodayCount(sessions, now),
		LongestSessionMinutes: LongestSessionMinutes(sessions),
		CurrentStreak:         CurrentStreak(sessions, now),
		LongestStreak:         LongestStreak(sessions, now.Location()),
	}
}

func TotalSeconds(sessions []store.StudySession) int {
	total := 0
	for _, s := range sessions {
		total += s.Duration
	}
	return total
}

func TotalMinutes(sessions []store.StudySession) int {
	return TotalSeconds(sessions) / 60
}

func TotalCount(sessions []store.StudySession) int {
	return len(sessions)
}

func AverageSessionSeconds(sessions []store.StudySession) int {
	if len(sessions) == 0 {
		return 0
	}
	return int(math.Round(float64(TotalSeconds(sessions)) / float64(len(sessions))))
}

// TodayMinutes sums the sessions that fall on now's calendar day, in now's
// location.
func TodayMinutes(sessions []store.StudySession, now time.Time) int {
	today := civilDay(now, now.Location())
	total := 0
	for _, s := range sessions {
		if civilDay(s.Date, now.Location()).Equal(today) {
			total += s.Duration
		}
	}
	return total / 60
}

func TodayCount(sessions []store.StudySession, now time.Time) int {
	today := civilDay(now, now.Location())
	n := 0
	for _, s := range sessions {
		if civilDay(s.Date, now.Location()).Equal(today) {
			n++
		}
	}
	return n
}

func LongestSessionMinutes(sessions []store.StudySession) int {
	longest := 0
	for _, s := range sessions {
		if s.Duration > longest {
			longest = s.Duration
		}
	}
	return longest / 60
}

// DayTotal is the studied time on one calendar day.
type DayTotal struct {
	Day     time.Time // midnight, in the caller's location
	Seconds int
}

// DailyTotals returns one entry per day for the last n days ending today,
// oldest first. Days without sessions are included with zero seconds.
func DailyTotals(sessions []store.StudySession, now time.Time, n int) []DayTotal {
	if n <= 0 {
		return nil
	}
	loc := now.Location()
	byDay := make(map[time.Time]int)
	for _, s := range sessions {
		byDay[civilDay(s.Date, loc)] += s.Duration
	}

	today := civilDay(now, loc)
	totals := make([]DayTotal, 0, n)
	for i := n - 1; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		totals = append(totals, DayTotal{
			Day:     time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc),
			Seconds: byDay[d],
		})
	}
	return totals
}
