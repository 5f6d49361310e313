package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/studybuddy/internal/store"
	"github.com/sadopc/studybuddy/internal/timer"
)

type settingsModel struct {
	prefs  *store.PreferencesStore
	engine *timer.Engine
	width  int
	height int

	current    store.Preferences
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	dailyGoal     *string
	focusMinutes  *string
	sound         *bool
	notifications *bool
	darkMode      *bool
}

func newSettingsModel(prefs *store.PreferencesStore, e *timer.Engine) settingsModel {
	dg, fm := "", ""
	snd, ntf, dm := false, false, false
	return settingsModel{
		prefs:         prefs,
		engine:        e,
		dailyGoal:     &dg,
		focusMinutes:  &fm,
		sound:         &snd,
		notifications: &ntf,
		darkMode:      &dm,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	prefs store.Preferences
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return settingsDataMsg{prefs: s.prefs.Read()}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.current = msg.prefs
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter):
			return s.showForm()
		case key.Matches(msg, keys.Reset):
			if _, err := s.prefs.Reset(); err != nil {
				return s, func() tea.Msg {
					return statusMsg{text: fmt.Sprintf("Reset failed: %v", err), isError: true}
				}
			}
			return s, tea.Batch(s.refresh(), status("Preferences reset to defaults"))
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	p := s.prefs.Read()
	*s.dailyGoal = strconv.Itoa(p.DailyGoalMinutes)
	*s.focusMinutes = strconv.Itoa(s.engine.Snapshot().FocusMinutes)
	*s.sound = p.SoundEnabled
	*s.notifications = p.NotificationsEnabled
	*s.darkMode = p.DarkMode

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Daily goal (min)").
				Description(fmt.Sprintf("%d to %d", store.MinDailyGoalMinutes, store.MaxDailyGoalMinutes)).
				Value(s.dailyGoal).
				Validate(validateMinutes(store.MaxDailyGoalMinutes)),
			huh.NewInput().Title("Focus length (min)").
				Description("Applies when the timer is idle").
				Value(s.focusMinutes).
				Validate(validateMinutes(store.MaxFocusMinutes)),
		).Title("Goals"),
		huh.NewGroup(
			huh.NewConfirm().Title("Sound").Affirmative("On").Negative("Off").Value(s.sound),
			huh.NewConfirm().Title("Notifications").Affirmative("On").Negative("Off").Value(s.notifications),
			huh.NewConfirm().Title("Dark mode").Affirmative("On").Negative("Off").Value(s.darkMode),
		).Title("Preferences"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func validateMinutes(limit int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.New("enter a whole number of minutes")
		}
		if n < 1 || n > limit {
			return fmt.Errorf("must be between 1 and %d", limit)
		}
		return nil
	}
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, tea.Batch(s.saveSettings(), s.refresh())
	}

	return s, cmd
}

func (s settingsModel) saveSettings() tea.Cmd {
	var problems []string

	if goal, err := strconv.ParseFloat(strings.TrimSpace(*s.dailyGoal), 64); err == nil {
		if _, err := s.prefs.SetDailyGoalMinutes(goal); err != nil {
			problems = append(problems, "daily goal not saved")
		}
	}

	sound, notifications, dark := *s.sound, *s.notifications, *s.darkMode
	if _, err := s.prefs.Write(store.PreferencesPatch{
		SoundEnabled:         &sound,
		NotificationsEnabled: &notifications,
		DarkMode:             &dark,
	}); err != nil {
		problems = append(problems, "preferences not saved")
	}

	if n, err := strconv.Atoi(strings.TrimSpace(*s.focusMinutes)); err == nil && n != s.engine.Snapshot().FocusMinutes {
		if !s.engine.SetDuration(n) {
			problems = append(problems, "focus length can only change while the timer is idle")
		}
	}

	if len(problems) > 0 {
		text := "Settings: " + strings.Join(problems, ", ")
		return func() tea.Msg { return statusMsg{text: text, isError: true} }
	}
	return tea.Batch(status("Settings saved"), func() tea.Msg { return sessionsChangedMsg{} })
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	p := s.current
	rows := [][2]string{
		{"Daily goal", formatMinutes(p.DailyGoalMinutes)},
		{"Focus length", formatMinutes(s.engine.Snapshot().FocusMinutes)},
		{"Sound", onOff(p.SoundEnabled)},
		{"Notifications", onOff(p.NotificationsEnabled)},
		{"Dark mode", onOff(p.DarkMode)},
	}

	lines := []string{title, ""}
	for _, r := range rows {
		label := lipgloss.NewStyle().Width(24).Render(r[0])
		lines = append(lines, fmt.Sprintf("  %s %s", label, highlightStyle.Render(r[1])))
	}
	lines = append(lines, "", mutedStyle.Render("Press enter to edit settings, r to restore defaults"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
