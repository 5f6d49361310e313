package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/studybuddy/internal/achievement"
)

type achievementsModel struct {
	engine *achievement.Engine
	width  int
	height int

	progress []achievement.Progress
	cursor   int
	bar      progress.Model
}

func newAchievementsModel(e *achievement.Engine) achievementsModel {
	return achievementsModel{
		engine: e,
		bar:    progress.New(progress.WithDefaultGradient()),
	}
}

func (a *achievementsModel) setSize(w, h int) {
	a.width = w
	a.height = h
	a.bar.Width = max(10, min(w-50, 30))
}

type achievementsDataMsg struct {
	progress []achievement.Progress
}

func (a achievementsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		return achievementsDataMsg{progress: a.engine.Progress()}
	}
}

func (a achievementsModel) update(msg tea.Msg) (achievementsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case achievementsDataMsg:
		a.progress = msg.progress
		a.cursor = min(a.cursor, max(0, len(a.progress)-1))
		return a, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if a.cursor > 0 {
				a.cursor--
			}
		case key.Matches(msg, keys.Down):
			if a.cursor < len(a.progress)-1 {
				a.cursor++
			}
		}
	}
	return a, nil
}

func (a achievementsModel) unlockedCount() int {
	n := 0
	for _, p := range a.progress {
		if p.Unlocked {
			n++
		}
	}
	return n
}

// visibleRange keeps the cursor on screen when the list is taller than the
// panel.
func (a achievementsModel) visibleRange() (int, int) {
	rows := max(1, (a.height-8)/2)
	if len(a.progress) <= rows {
		return 0, len(a.progress)
	}
	start := min(max(0, a.cursor-rows/2), len(a.progress)-rows)
	return start, start + rows
}

func (a achievementsModel) view() string {
	w := a.width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Achievements"), "  ",
		mutedStyle.Render(fmt.Sprintf("%d of %d unlocked", a.unlockedCount(), len(achievement.Catalog))),
	)

	var rows []string
	start, end := a.visibleRange()
	var category achievement.Category
	for i := start; i < end; i++ {
		p := a.progress[i]
		def, ok := achievement.Lookup(p.ID)
		if !ok {
			continue
		}
		if def.Category != category {
			category = def.Category
			rows = append(rows, highlightStyle.Render(strings.ToUpper(string(category))))
		}
		rows = append(rows, a.renderRow(i, def, p))
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", strings.Join(rows, "\n"), "", mutedStyle.Render("  ↑/↓: scroll")),
	)
}

func (a achievementsModel) renderRow(i int, def achievement.Definition, p achievement.Progress) string {
	cursor := "  "
	nameStyle := normalItemStyle
	if i == a.cursor {
		cursor = "> "
		nameStyle = selectedItemStyle
	}

	icon := def.Icon
	if !p.Unlocked {
		icon = "🔒"
	}
	name := nameStyle.Render(fmt.Sprintf("%s%s %s", cursor, icon, def.Name))

	var detail string
	if p.Unlocked {
		detail = successStyle.Render("unlocked " + p.UnlockedAt.Local().Format("Jan 02, 2006"))
	} else {
		detail = a.bar.ViewAs(p.Fraction()) + mutedStyle.Render(fmt.Sprintf(" %d/%d", p.Current, p.Requirement))
	}

	return fmt.Sprintf("%s\n     %s  %s", name, mutedStyle.Render(def.Description), detail)
}
