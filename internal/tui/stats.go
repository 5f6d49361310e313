package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/studybuddy/internal/stats"
	"github.com/sadopc/studybuddy/internal/store"
)

// chartRanges are the day windows enter cycles through.
var chartRanges = []int{7, 14, 30}

type statsModel struct {
	sessions *store.Sessions
	prefs    *store.PreferencesStore
	width    int
	height   int

	rangeIdx int
	summary  stats.Summary
	days     []stats.DayTotal
	goal     stats.Goal

	chart barchart.Model
}

func newStatsModel(sessions *store.Sessions, prefs *store.PreferencesStore) statsModel {
	return statsModel{
		sessions: sessions,
		prefs:    prefs,
		chart:    barchart.New(60, 12),
	}
}

func (s *statsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type statsDataMsg struct {
	summary stats.Summary
	days    []stats.DayTotal
	goal    stats.Goal
}

func (s statsModel) refresh() tea.Cmd {
	n := chartRanges[s.rangeIdx]
	return func() tea.Msg {
		now := time.Now()
		all := s.sessions.ListAll()
		return statsDataMsg{
			summary: stats.Summarize(all, now),
			days:    stats.DailyTotals(all, now, n),
			goal:    stats.TodayGoal(all, now, s.prefs.Read().DailyGoalMinutes),
		}
	}
}

func (s statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsDataMsg:
		s.summary = msg.summary
		s.days = msg.days
		s.goal = msg.goal
		s.buildChart()
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Enter) {
			s.rangeIdx = (s.rangeIdx + 1) % len(chartRanges)
			return s, s.refresh()
		}
	}
	return s, nil
}

func (s *statsModel) buildChart() {
	chartWidth := s.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if s.height > 30 {
		chartHeight = 16
	}

	s.chart = barchart.New(chartWidth, chartHeight)

	labelFormat := "Mon 02"
	if len(s.days) > 7 {
		labelFormat = "02"
	}

	bars := make([]barchart.BarData, 0, len(s.days))
	for i, d := range s.days {
		color := colorPrimary
		if i == len(s.days)-1 {
			color = colorAccent
		}
		bars = append(bars, barchart.BarData{
			Label: d.Day.Format(labelFormat),
			Values: []barchart.BarValue{{
				Name:  "minutes",
				Value: float64(d.Seconds) / 60,
				Style: lipgloss.NewStyle().Foreground(color),
			}},
		})
	}

	s.chart.PushAll(bars)
	s.chart.Draw()
}

func (s statsModel) view() string {
	w := s.width - 4

	n := chartRanges[s.rangeIdx]
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Stats"), "  ", mutedStyle.Render(fmt.Sprintf("minutes per day, last %d days", n)),
	)

	var body string
	if s.summary.TotalSessions == 0 {
		body = mutedStyle.Render("  No sessions yet. Finish a focus session to see your stats.")
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, s.chart.View(), "", s.renderSummaryTable(w))
	}

	nav := mutedStyle.Render("  enter: change range")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", s.renderGoal(), "", nav),
	)
}

func (s statsModel) renderSummaryTable(w int) string {
	sum := s.summary
	rows := [][2]string{
		{"Total study time", formatMinutes(sum.TotalMinutes)},
		{"Sessions", fmt.Sprintf("%d", sum.TotalSessions)},
		{"Average session", formatDuration(time.Duration(sum.AverageSessionSeconds) * time.Second)},
		{"Longest session", formatMinutes(sum.LongestSessionMinutes)},
		{"Today", fmt.Sprintf("%s in %s", formatMinutes(sum.TodayMinutes), plural(sum.TodaySessions, "session"))},
		{"Current streak", plural(sum.CurrentStreak, "day")},
		{"Longest streak", plural(sum.LongestStreak, "day")},
	}

	lines := []string{mutedStyle.Render("  " + strings.Repeat("─", min(w-6, 40)))}
	for _, r := range rows {
		label := lipgloss.NewStyle().Width(20).Render(r[0])
		lines = append(lines, fmt.Sprintf("  %s %s", label, highlightStyle.Render(r[1])))
	}
	return strings.Join(lines, "\n")
}

func (s statsModel) renderGoal() string {
	g := s.goal
	pct := fmt.Sprintf("%.0f%%", g.ProgressPercent())
	if g.IsComplete() {
		return successStyle.Render(fmt.Sprintf("  Daily goal: %s of %s (%s) reached",
			formatMinutes(g.TodayMinutes), formatMinutes(g.GoalMinutes), pct))
	}
	return fmt.Sprintf("  Daily goal: %s of %s (%s), %s to go",
		formatMinutes(g.TodayMinutes), formatMinutes(g.GoalMinutes), pct, formatMinutes(g.Remaining()))
}
