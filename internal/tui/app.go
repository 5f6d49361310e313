package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/sadopc/studybuddy/internal/achievement"
	"github.com/sadopc/studybuddy/internal/export"
	"github.com/sadopc/studybuddy/internal/store"
	"github.com/sadopc/studybuddy/internal/timer"
)

var exportFormats = []export.Format{export.CSV, export.JSON, export.YAML}

// App is the root Bubble Tea model.
type App struct {
	sessions *store.Sessions
	prefs    *store.PreferencesStore
	engine   *timer.Engine
	logger   *log.Logger

	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	timer       timerModel
	stats       statsModel
	achieveView achievementsModel
	settings    settingsModel

	events      *eventQueue
	unsubscribe []func()
	toasts      []achievement.Unlocked

	help      help.Model
	status    string
	statusErr bool
}

// NewApp builds the views over the caller's stores. engine is expected to
// record into sessions and check ach, so every view sees the same data.
func NewApp(sessions *store.Sessions, prefs *store.PreferencesStore, ach *achievement.Engine, engine *timer.Engine, logger *log.Logger) App {
	if logger == nil {
		logger = log.Default()
	}

	h := help.New()
	h.ShowAll = false

	q := &eventQueue{}
	applyTheme(prefs.Read().DarkMode)

	return App{
		sessions:    sessions,
		prefs:       prefs,
		engine:      engine,
		logger:      logger,
		activeView:  viewTimer,
		timer:       newTimerModel(engine, sessions, prefs),
		stats:       newStatsModel(sessions, prefs),
		achieveView: newAchievementsModel(ach),
		settings:    newSettingsModel(prefs, engine),
		events:      q,
		unsubscribe: []func(){
			engine.Subscribe(q.push),
			prefs.Subscribe(func(p store.Preferences) { applyTheme(p.DarkMode) }),
		},
		help: h,
	}
}

// Close detaches the app from the engine and the preferences store.
func (a App) Close() {
	for _, fn := range a.unsubscribe {
		fn()
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.timer.refresh(),
		a.stats.refresh(),
		a.achieveView.refresh(),
		a.settings.refresh(),
	)
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	model, cmd := a.update(msg)
	app := model.(App)
	evCmd := app.handleEvents()
	return app, tea.Batch(cmd, evCmd)
}

func (a App) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.timer.setSize(a.width, contentHeight)
		a.stats.setSize(a.width, contentHeight)
		a.achieveView.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, a.stats.refresh()

	case tea.KeyMsg:
		a.toasts = nil

		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		case key.Matches(msg, keys.ShiftTab):
			a.activeView = (a.activeView + viewState(len(viewNames)) - 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	// Timer traffic goes to the timer view whatever is on screen.
	case tickMsg, celebrationMsg, goalDataMsg:
		var cmd tea.Cmd
		a.timer, cmd = a.timer.update(msg)
		return a, cmd

	case statsDataMsg:
		var cmd tea.Cmd
		a.stats, cmd = a.stats.update(msg)
		return a, cmd

	case achievementsDataMsg:
		var cmd tea.Cmd
		a.achieveView, cmd = a.achieveView.update(msg)
		return a, cmd

	case settingsDataMsg:
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd

	case sessionsChangedMsg:
		return a, tea.Batch(a.timer.refresh(), a.stats.refresh(), a.achieveView.refresh())

	case unlockedMsg:
		a.showUnlocked(msg.unlocked)
		return a, nil

	case statusMsg:
		a.setStatus(msg.text, msg.isError)
		return a, nil

	case exportDoneMsg:
		a.setStatus("Exported to "+msg.path, false)
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a *App) setStatus(text string, isError bool) {
	a.status = text
	a.statusErr = isError
	if isError {
		a.logger.Warn("status", "text", text)
	}
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewTimer:
		a.timer, cmd = a.timer.update(msg)
	case viewStats:
		a.stats, cmd = a.stats.update(msg)
	case viewAchievements:
		a.achieveView, cmd = a.achieveView.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	return a.activeView == viewSettings && a.settings.formActive
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewTimer:
		return a.timer.refresh()
	case viewStats:
		return a.stats.refresh()
	case viewAchievements:
		return a.achieveView.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewTimer:
		content = a.timer.view()
	case viewStats:
		content = a.stats.view()
	case viewAchievements:
		content = a.achieveView.view()
	case viewSettings:
		content = a.settings.view()
	}

	if len(a.toasts) > 0 {
		content = lipgloss.JoinVertical(lipgloss.Left, a.renderToasts(), content)
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(1, a.height-headerHeight-footerHeight)

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("studybuddy")
	gap := max(1, a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Running clock is visible from every view.
	timerInfo := ""
	snap := a.engine.Snapshot()
	switch snap.State {
	case timer.Focusing:
		timerInfo = successStyle.Render(" ● " + formatClock(snap.Display()))
	case timer.Paused:
		timerInfo = warningStyle.Render(" ⏸ " + formatClock(snap.Display()))
	case timer.Break:
		timerInfo = highlightStyle.Render(" ☕ " + formatClock(snap.Display()))
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(right)-2)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderToasts() string {
	lines := []string{successStyle.Bold(true).Render("Achievement unlocked!")}
	for _, u := range a.toasts {
		lines = append(lines, fmt.Sprintf("%s %s  %s", u.Icon, titleStyle.Render(u.Name), mutedStyle.Render(u.Description)))
	}
	return celebrationPanelStyle.Width(a.width - 4).Render(strings.Join(lines, "\n"))
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+strings.ToUpper(string(f))))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportFormats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format export.Format) tea.Cmd {
	return func() tea.Msg {
		home, err := os.UserHomeDir()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		now := time.Now()
		path := filepath.Join(home, export.DefaultFilename(format, now))
		if err := export.Write(format, a.sessions.ListAll(), now, path); err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
