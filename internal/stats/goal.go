package stats

import (
	"math"
	"time"

	"github.com/sadopc/studybuddy/internal/store"
)

// Goal compares today's studied minutes against the daily goal.
type Goal struct {
	TodayMinutes int
	GoalMinutes  int
}

// TodayGoal builds the goal for now's calendar day.
func TodayGoal(sessions []store.StudySession, now time.Time, goalMinutes int) Goal {
	return Goal{TodayMinutes: TodayMinutes(sessions, now), GoalMinutes: goalMinutes}
}

// ProgressPercent is capped at 100. A non-positive goal counts as met.
func (g Goal) ProgressPercent() float64 {
	if g.GoalMinutes <= 0 {
		return 100
	}
	return math.Min(100, 100*float64(g.TodayMinutes)/float64(g.GoalMinutes))
}

func (g Goal) IsComplete() bool {
	return g.TodayMinutes >= g.GoalMinutes
}

// Remaining is the number of minutes still needed today.
func (g Goal) Remaining() int {
	return max(0, g.GoalMinutes-g.TodayMinutes)
}
