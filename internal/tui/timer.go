package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/studybuddy/internal/stats"
	"github.com/sadopc/studybuddy/internal/store"
	"github.com/sadopc/studybuddy/internal/timer"
)

// durationStep is how far +/- move the focus length.
const durationStep = 5

// timerModel is the view over the shared timer engine. The engine holds all
// timing state; this model only turns keys into engine calls and schedules
// ticks.
type timerModel struct {
	engine   *timer.Engine
	sessions *store.Sessions
	prefs    *store.PreferencesStore
	width    int
	height   int

	goal    stats.Goal
	goalBar progress.Model
}

func newTimerModel(e *timer.Engine, sessions *store.Sessions, prefs *store.PreferencesStore) timerModel {
	return timerModel{
		engine:   e,
		sessions: sessions,
		prefs:    prefs,
		goalBar:  progress.New(progress.WithSolidFill(colorSuccess.Dark), progress.WithoutPercentage()),
	}
}

func (t *timerModel) setSize(w, h int) {
	t.width = w
	t.height = h
	t.goalBar.Width = max(10, min(w-16, 50))
}

type goalDataMsg struct {
	goal stats.Goal
}

func (t timerModel) refresh() tea.Cmd {
	return func() tea.Msg {
		goal := stats.TodayGoal(t.sessions.ListAll(), time.Now(), t.prefs.Read().DailyGoalMinutes)
		return goalDataMsg{goal: goal}
	}
}

func tickCmd(loop timer.Loop) tea.Cmd {
	if loop == 0 {
		return nil
	}
	return tea.Tick(timer.TickInterval, func(time.Time) tea.Msg {
		return tickMsg{loop: loop}
	})
}

func celebrationCmd(tag timer.Loop) tea.Cmd {
	return tea.Tick(timer.CelebrationDelay, func(time.Time) tea.Msg {
		return celebrationMsg{tag: tag}
	})
}

func (t timerModel) update(msg tea.Msg) (timerModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if t.engine.Tick(msg.loop) {
			return t, tickCmd(msg.loop)
		}
		return t, nil

	case celebrationMsg:
		t.engine.EndCelebration(msg.tag)
		return t, nil

	case goalDataMsg:
		t.goal = msg.goal
		return t, nil

	case tea.KeyMsg:
		return t.handleKey(msg)
	}
	return t, nil
}

func (t timerModel) handleKey(msg tea.KeyMsg) (timerModel, tea.Cmd) {
	snap := t.engine.Snapshot()

	switch {
	case key.Matches(msg, keys.Start):
		return t, tickCmd(t.engine.Start())

	case key.Matches(msg, keys.Pause):
		switch snap.State {
		case timer.Focusing:
			t.engine.Pause()
		case timer.Paused:
			return t, tickCmd(t.engine.Resume())
		case timer.Idle, timer.Completed:
			return t, tickCmd(t.engine.Start())
		}

	case key.Matches(msg, keys.Reset):
		t.engine.Reset()

	case key.Matches(msg, keys.Break):
		if snap.Mode != timer.Countdown {
			return t, status("Breaks are only available in timer mode")
		}
		return t, tickCmd(t.engine.TakeBreak())

	case key.Matches(msg, keys.Finish):
		if !t.engine.Finish() {
			return t, status("Pause the stopwatch to finish a session")
		}

	case key.Matches(msg, keys.Mode):
		next := timer.Stopwatch
		if snap.Mode == timer.Stopwatch {
			next = timer.Countdown
		}
		if !t.engine.SetMode(next) {
			return t, status("Reset the timer to switch modes")
		}
		return t, status("Switched to " + next.String())

	case key.Matches(msg, keys.Longer):
		return t, t.setDuration(min(snap.FocusMinutes+durationStep, store.MaxFocusMinutes))

	case key.Matches(msg, keys.Shorter):
		return t, t.setDuration(max(snap.FocusMinutes-durationStep, store.MinFocusMinutes))

	default:
		for _, p := range presetMinutes {
			if key.Matches(msg, *p.binding) {
				return t, t.setDuration(p.minutes)
			}
		}
	}
	return t, nil
}

func (t timerModel) setDuration(minutes int) tea.Cmd {
	if !t.engine.SetDuration(minutes) {
		return status("Duration can only change while the timer is idle")
	}
	return status(fmt.Sprintf("Focus length set to %s", formatMinutes(minutes)))
}

func status(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func (t timerModel) view() string {
	w := t.width - 4
	snap := t.engine.Snapshot()

	title := titleStyle.Render("Focus Timer")
	if snap.Mode == timer.Stopwatch {
		title = titleStyle.Render("Stopwatch")
	}

	face := formatClock(snap.Display())
	var clock, label string
	switch snap.State {
	case timer.Idle:
		clock = clockStyle.Width(w - 6).Render(face)
		label = mutedStyle.Render("Ready")
	case timer.Focusing:
		clock = clockFocusStyle.Width(w - 6).Render(face)
		label = clockFocusStyle.Render("FOCUS")
	case timer.Paused:
		clock = clockPausedStyle.Width(w - 6).Render(face)
		label = warningStyle.Bold(true).Render("PAUSED")
	case timer.Break:
		clock = clockBreakStyle.Width(w - 6).Render(face)
		label = clockBreakStyle.Render("BREAK")
	case timer.Completed:
		clock = successStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render("Done!")
		label = successStyle.Bold(true).Render("SESSION COMPLETE")
	}

	var length string
	if snap.Mode == timer.Countdown {
		length = mutedStyle.Render(fmt.Sprintf("Focus length: %s", formatMinutes(snap.FocusMinutes)))
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title,
		"",
		clock,
		label,
		length,
		"",
		t.renderGoal(),
	)

	style := panelStyle
	if snap.State == timer.Completed {
		style = celebrationPanelStyle
	}
	return style.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Center, content, "", mutedStyle.Render(controlsFor(snap))),
	)
}

func (t timerModel) renderGoal() string {
	g := t.goal
	bar := t.goalBar.ViewAs(g.ProgressPercent() / 100)
	text := fmt.Sprintf("%s / %s today", formatMinutes(g.TodayMinutes), formatMinutes(g.GoalMinutes))
	if g.IsComplete() {
		return lipgloss.JoinVertical(lipgloss.Center, bar, successStyle.Render("Daily goal reached  "+text))
	}
	return lipgloss.JoinVertical(lipgloss.Center, bar, mutedStyle.Render(text))
}

func controlsFor(s timer.Snapshot) string {
	switch s.State {
	case timer.Idle:
		if s.Mode == timer.Stopwatch {
			return "s: start  m: timer mode"
		}
		return "s: start  +/-, 1-4: length  m: stopwatch mode"
	case timer.Focusing:
		if s.Mode == timer.Stopwatch {
			return "space: pause  r: reset"
		}
		return "space: pause  b: break  r: reset"
	case timer.Paused:
		if s.Mode == timer.Stopwatch {
			return "space: resume  f: finish  r: reset"
		}
		return "space: resume  b: break  r: reset"
	case timer.Break:
		return "s: skip break  r: reset"
	case timer.Completed:
		return "s: again  b: break"
	}
	return ""
}
