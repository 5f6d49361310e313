package tui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/studybuddy/internal/achievement"
	"github.com/sadopc/studybuddy/internal/timer"
)

// bellOut receives the terminal bell when sound is enabled.
var bellOut io.Writer = os.Stderr

// eventQueue collects engine events raised during an Update so they can be
// turned into commands afterwards. It is shared by pointer because Bubble Tea
// copies the model on every update.
type eventQueue struct {
	mu     sync.Mutex
	events []timer.Event
}

func (q *eventQueue) push(ev timer.Event) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

func (q *eventQueue) drain() []timer.Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	evs := q.events
	q.events = nil
	return evs
}

func bellCmd() tea.Cmd {
	return func() tea.Msg {
		fmt.Fprint(bellOut, "\a")
		return nil
	}
}

// handleEvents maps engine transitions to status text, sound, notifications
// and view reloads.
func (a *App) handleEvents() tea.Cmd {
	evs := a.events.drain()
	if len(evs) == 0 {
		return nil
	}
	prefs := a.prefs.Read()

	var cmds []tea.Cmd
	for _, ev := range evs {
		a.logger.Debug("timer event", "kind", ev.Kind, "mode", ev.Mode, "state", ev.State)

		switch ev.Kind {
		case timer.EventStarted:
			a.setStatus("Focus started", false)
			if ev.Mode == timer.Stopwatch {
				a.setStatus("Stopwatch started", false)
			}
		case timer.EventPaused:
			a.setStatus("Paused", false)
		case timer.EventResumed:
			a.setStatus("Resumed", false)
		case timer.EventReset:
			a.setStatus("Timer reset", false)
		case timer.EventBreakStarted:
			a.setStatus(fmt.Sprintf("Break time: %s", formatMinutes(int(timer.BreakDuration.Minutes()))), false)
		case timer.EventBreakOver:
			a.setStatus("Break over, ready to focus", false)
			if prefs.SoundEnabled {
				cmds = append(cmds, bellCmd())
			}

		case timer.EventCompleted, timer.EventFinished:
			if ev.Kind == timer.EventCompleted {
				cmds = append(cmds, celebrationCmd(a.engine.Snapshot().Celebration))
			}
			if prefs.SoundEnabled {
				cmds = append(cmds, bellCmd())
			}
			if ev.Err != nil {
				a.setStatus(fmt.Sprintf("Session could not be saved: %v", ev.Err), true)
				continue
			}
			a.setStatus(fmt.Sprintf("Session complete: %s recorded", formatClock(time.Duration(ev.Session.Duration)*time.Second)), false)
			if len(ev.Unlocked) > 0 {
				cmds = append(cmds, func() tea.Msg { return unlockedMsg{unlocked: ev.Unlocked} })
			}
			cmds = append(cmds, func() tea.Msg { return sessionsChangedMsg{} })
		}
	}
	return tea.Batch(cmds...)
}

// showUnlocked surfaces new achievements. With notifications off they only
// reach the status line.
func (a *App) showUnlocked(us []achievement.Unlocked) {
	if a.prefs.Read().NotificationsEnabled {
		a.toasts = append(a.toasts, us...)
		return
	}
	names := make([]string, 0, len(us))
	for _, u := range us {
		names = append(names, u.Icon+" "+u.Name)
	}
	a.setStatus("Unlocked: "+strings.Join(names, ", "), false)
}
