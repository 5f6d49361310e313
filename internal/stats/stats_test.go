package stats

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sadopc/studybuddy/internal/store"
)

var (
	berlin, _ = time.LoadLocation("Europe/Berlin")
	// D is "today" for the streak tests.
	D = time.Date(2026, 10, 15, 14, 30, 0, 0, time.UTC)
)

func session(dur int, at time.Time) store.StudySession {
	return store.StudySession{ID: at.String(), Duration: dur, Date: at}
}

func onDays(today time.Time, offsets ...int) []store.StudySession {
	var out []store.StudySession
	for _, off := range offsets {
		out = append(out, session(600, today.AddDate(0, 0, -off)))
	}
	return out
}

func TestTotals(t *testing.T) {
	sessions := []store.StudySession{
		session(1500, D),
		session(1800, D.Add(-time.Hour)),
		session(59, D.Add(-2*time.Hour)),
	}

	assert.Equal(t, 3359, TotalSeconds(sessions))
	assert.Equal(t, 55, TotalMinutes(sessions))
	assert.Equal(t, 3, TotalCount(sessions))
	assert.Equal(t, 1120, AverageSessionSeconds(sessions)) // 1119.67 rounds up
	assert.Equal(t, 30, LongestSessionMinutes(sessions))
}

func TestTotalsEmpty(t *testing.T) {
	assert.Equal(t, 0, TotalMinutes(nil))
	assert.Equal(t, 0, TotalCount(nil))
	assert.Equal(t, 0, AverageSessionSeconds(nil))
	assert.Equal(t, 0, LongestSessionMinutes(nil))
	assert.Equal(t, 0, TodayMinutes(nil, D))
	assert.Equal(t, 0, CurrentStreak(nil, D))
	assert.Equal(t, 0, LongestStreak(nil, time.UTC))
}

func TestTodayMinutes(t *testing.T) {
	midnight := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	sessions := []store.StudySession{
		session(1200, midnight),                   // today, first instant
		session(1230, midnight.Add(23*time.Hour)), // today, late
		session(3600, midnight.Add(-time.Second)), // yesterday, last second
		session(600, midnight.Add(24*time.Hour)),  // tomorrow
	}
	assert.Equal(t, 40, TodayMinutes(sessions, D))
	assert.Equal(t, 2, TodayCount(sessions, D))
}

func TestTodayMinutesUsesCallerLocation(t *testing.T) {
	// 23:30 UTC on the 14th is 01:30 on the 15th in Berlin.
	s := []store.StudySession{session(1800, time.Date(2026, 10, 14, 23, 30, 0, 0, time.UTC))}

	assert.Equal(t, 0, TodayMinutes(s, D))
	assert.Equal(t, 30, TodayMinutes(s, D.In(berlin)))
}

// ============================================================
// Streaks
// ============================================================

func TestCurrentStreak(t *testing.T) {
	tests := []struct {
		name    string
		offsets []int
		want    int
	}{
		{"three consecutive days ending today", []int{2, 1, 0}, 3},
		{"gap at D-2 stops the count", []int{3, 1, 0}, 2},
		{"only D-5 is broken", []int{5}, 0},
		{"yesterday keeps the streak alive", []int{3, 2, 1}, 3},
		{"two days ago is broken", []int{4, 3, 2}, 0},
		{"only today", []int{0}, 1},
		{"several sessions on the same day count once", []int{0, 0, 0, 1, 1}, 2},
		{"unordered input", []int{0, 2, 1, 6, 5}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CurrentStreak(onDays(D, tt.offsets...), D))
		})
	}
}

func TestCurrentStreakIgnoresTimeOfDay(t *testing.T) {
	today := time.Date(2026, 10, 15, 0, 5, 0, 0, time.UTC)
	sessions := []store.StudySession{
		session(600, time.Date(2026, 10, 14, 23, 59, 0, 0, time.UTC)),
		session(600, time.Date(2026, 10, 13, 0, 1, 0, 0, time.UTC)),
	}
	assert.Equal(t, 2, CurrentStreak(sessions, today))
}

func TestCurrentStreakAcrossDST(t *testing.T) {
	// Berlin leaves summer time on 2026-10-25; that day is 25h long.
	today := time.Date(2026, 10, 26, 9, 0, 0, 0, berlin)
	sessions := []store.StudySession{
		session(600, time.Date(2026, 10, 24, 22, 0, 0, 0, berlin)),
		session(600, time.Date(2026, 10, 25, 23, 30, 0, 0, berlin)),
		session(600, time.Date(2026, 10, 26, 8, 0, 0, 0, berlin)),
	}
	assert.Equal(t, 3, CurrentStreak(sessions, today))
}

// The day-set algorithm is canonical. An older counter-based policy bumped
// the streak on the first session of every new day without checking that
// the previous study day was yesterday, so after a gap it would report 3
// here where the day-set answer is 1.
func TestCurrentStreakDivergesFromCounterPolicy(t *testing.T) {
	sessions := onDays(D, 10, 9, 0)

	counter := 0
	var last time.Time
	for _, s := range sessions {
		day := civilDay(s.Date, time.UTC)
		if !day.Equal(last) {
			counter++
			last = day
		}
	}

	assert.Equal(t, 3, counter)
	assert.Equal(t, 1, CurrentStreak(sessions, D))
}

func TestLongestStreak(t *testing.T) {
	sessions := onDays(D, 0, 1, 5, 6, 7, 8, 20)
	assert.Equal(t, 4, LongestStreak(sessions, time.UTC))
	assert.Equal(t, 2, CurrentStreak(sessions, D))
}

// ============================================================
// Daily totals and summary
// ============================================================

func TestDailyTotals(t *testing.T) {
	sessions := []store.StudySession{
		session(600, D),
		session(300, D.Add(-time.Hour)),
		session(1200, D.AddDate(0, 0, -2)),
		session(999, D.AddDate(0, 0, -30)), // outside the window
	}

	totals := DailyTotals(sessions, D, 7)
	require.Len(t, totals, 7)

	assert.Equal(t, time.Date(2026, 10, 9, 0, 0, 0, 0, time.UTC), totals[0].Day)
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), totals[6].Day)
	assert.Equal(t, 900, totals[6].Seconds)
	assert.Equal(t, 0, totals[5].Seconds)
	assert.Equal(t, 1200, totals[4].Seconds)

	assert.Nil(t, DailyTotals(sessions, D, 0))
}

func TestSummarize(t *testing.T) {
	sessions := append(onDays(D, 2, 1), session(3600, D))

	sum := Summarize(sessions, D)
	assert.Equal(t, Summary{
		TotalSessions:         3,
		TotalMinutes:          80,
		AverageSessionSeconds: 1600,
		TodayMinutes:          60,
		TodaySessions:         1,
		LongestSessionMinutes: 60,
		CurrentStreak:         3,
		LongestStreak:         3,
	}, sum)
}

// ============================================================
// Daily goal
// ============================================================

func TestGoalBoundary(t *testing.T) {
	g := Goal{TodayMinutes: 60, GoalMinutes: 60}
	assert.True(t, g.IsComplete())
	assert.Equal(t, 100.0, g.ProgressPercent())
	assert.Equal(t, 0, g.Remaining())

	g = Goal{TodayMinutes: 45, GoalMinutes: 60}
	assert.False(t, g.IsComplete())
	assert.Equal(t, 75.0, g.ProgressPercent())
	assert.Equal(t, 15, g.Remaining())
}

func TestGoalCappedAt100(t *testing.T) {
	g := Goal{TodayMinutes: 200, GoalMinutes: 60}
	assert.True(t, g.IsComplete())
	assert.Equal(t, 100.0, g.ProgressPercent())
}

func TestGoalZero(t *testing.T) {
	g := Goal{TodayMinutes: 0, GoalMinutes: 0}
	assert.True(t, g.IsComplete())
	assert.Equal(t, 100.0, g.ProgressPercent())
}

func TestTodayGoal(t *testing.T) {
	sessions := []store.StudySession{session(2700, D), session(3600, D.AddDate(0, 0, -1))}
	g := TodayGoal(sessions, D, 60)
	assert.Equal(t, Goal{TodayMinutes: 45, GoalMinutes: 60}, g)
}
