package store

import (
	"slices"
	"time"
)

// Keys under which each record is stored.
const (
	SessionsKey     = "studybuddy_sessions"
	PreferencesKey  = "studybuddy_preferences"
	AchievementsKey = "studybuddy_achievements"
	DurationKey     = "studybuddy_duration"
)

// StudySession is one completed block of focused study time. Sessions are
// append-only; nothing in this module edits or removes one.
type StudySession struct {
	ID       string    `json:"id"`
	Duration int       `json:"duration"` // seconds
	Date     time.Time `json:"date"`
}

type Preferences struct {
	SoundEnabled         bool `json:"soundEnabled"`
	NotificationsEnabled bool `json:"notificationsEnabled"`
	DarkMode             bool `json:"darkMode"`
	DailyGoalMinutes     int  `json:"dailyGoalMinutes"`
}

// PreferencesPatch is a partial update; nil fields keep their stored value.
type PreferencesPatch struct {
	SoundEnabled         *bool
	NotificationsEnabled *bool
	DarkMode             *bool
	DailyGoalMinutes     *int
}

// UnlockRecord maps achievement ids to the time they were first unlocked.
type UnlockRecord struct {
	UnlockedIDs   []string             `json:"unlockedIds"`
	UnlockedDates map[string]time.Time `json:"unlockedDates"`
}

// Has reports whether id has been unlocked.
func (r UnlockRecord) Has(id string) bool {
	return slices.Contains(r.UnlockedIDs, id)
}
