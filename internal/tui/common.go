package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/studybuddy/internal/achievement"
	"github.com/sadopc/studybuddy/internal/timer"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTimer viewState = iota
	viewStats
	viewAchievements
	viewSettings
)

var viewNames = []string{"Timer", "Stats", "Achievements", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

// tickMsg carries the loop it was scheduled for so stale ticks die out.
type tickMsg struct {
	loop timer.Loop
}

type celebrationMsg struct {
	tag timer.Loop
}

type unlockedMsg struct {
	unlocked []achievement.Unlocked
}

// sessionsChangedMsg asks the stats and achievements views to reload.
type sessionsChangedMsg struct{}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// formatClock shows MM:SS and switches to H:MM:SS past the hour.
func formatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	if d >= time.Hour {
		return fmt.Sprintf("%d:%02d:%02d", int(d.Hours()), int(d.Minutes())%60, int(d.Seconds())%60)
	}
	return fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}

func formatMinutes(mins int) string {
	if mins < 60 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins%60 == 0 {
		return fmt.Sprintf("%dh", mins/60)
	}
	return fmt.Sprintf("%dh %dm", mins/60, mins%60)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}
