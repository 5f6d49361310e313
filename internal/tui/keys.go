package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Start    key.Binding
	Pause    key.Binding
	Reset    key.Binding
	Break    key.Binding
	Finish   key.Binding
	Mode     key.Binding
	Longer   key.Binding
	Shorter  key.Binding
	Preset1  key.Binding
	Preset2  key.Binding
	Preset3  key.Binding
	Preset4  key.Binding
	Export   key.Binding
	Tab      key.Binding
	ShiftTab key.Binding
	Help     key.Binding
	Enter    key.Binding
	Back     key.Binding
	Up       key.Binding
	Down     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Start: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "start"),
	),
	Pause: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "pause/resume"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	Break: key.NewBinding(
		key.WithKeys("b"),
		key.WithHelp("b", "break"),
	),
	Finish: key.NewBinding(
		key.WithKeys("f"),
		key.WithHelp("f", "finish"),
	),
	Mode: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "timer/stopwatch"),
	),
	Longer: key.NewBinding(
		key.WithKeys("+", "="),
		key.WithHelp("+", "longer"),
	),
	Shorter: key.NewBinding(
		key.WithKeys("-", "_"),
		key.WithHelp("-", "shorter"),
	),
	Preset1: key.NewBinding(
		key.WithKeys("1"),
		key.WithHelp("1", "15 min"),
	),
	Preset2: key.NewBinding(
		key.WithKeys("2"),
		key.WithHelp("2", "30 min"),
	),
	Preset3: key.NewBinding(
		key.WithKeys("3"),
		key.WithHelp("3", "45 min"),
	),
	Preset4: key.NewBinding(
		key.WithKeys("4"),
		key.WithHelp("4", "60 min"),
	),
	Export: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "export"),
	),
	Tab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next view"),
	),
	ShiftTab: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev view"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// presetMinutes maps the preset bindings to focus lengths.
var presetMinutes = []struct {
	binding *key.Binding
	minutes int
}{
	{&keys.Preset1, 15},
	{&keys.Preset2, 30},
	{&keys.Preset3, 45},
	{&keys.Preset4, 60},
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Pause, k.Reset, k.Break, k.Tab, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Pause, k.Reset, k.Break, k.Finish},
		{k.Mode, k.Longer, k.Shorter, k.Preset1, k.Preset2, k.Preset3, k.Preset4},
		{k.Tab, k.ShiftTab, k.Export, k.Help},
		{k.Up, k.Down, k.Enter, k.Back, k.Quit},
	}
}
