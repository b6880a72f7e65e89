// Package picker implements the interactive agent selector for reinst pick.
package picker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/Dicklesworthstone/reinst/internal/registry"
	"github.com/Dicklesworthstone/reinst/internal/tui/theme"
)

// ErrCancelled is returned when the user quits without selecting an agent.
var ErrCancelled = errors.New("picker: selection cancelled")

// Model is a TUI for selecting a registered agent.
type Model struct {
	agents   []*registry.Record
	cursor   int
	selected *registry.Record
	quitting bool
	width    int
	height   int

	theme theme.Theme
}

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Quit   key.Binding
	Digit  key.Binding
}

var pickerKeys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q/esc", "quit"),
	),
	Digit: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
	),
}

// New creates a picker over the given agents.
func New(agents []*registry.Record) Model {
	return Model{
		agents: agents,
		width:  72,
		height: 20,
		theme:  theme.Current(),
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, pickerKeys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, pickerKeys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, pickerKeys.Down):
			if m.cursor < len(m.agents)-1 {
				m.cursor++
			}

		case key.Matches(msg, pickerKeys.Select):
			if len(m.agents) > 0 {
				m.selected = m.agents[m.cursor]
				return m, tea.Quit
			}

		case key.Matches(msg, pickerKeys.Digit):
			idx := int(msg.String()[0] - '1')
			if idx >= 0 && idx < len(m.agents) {
				m.cursor = idx
				m.selected = m.agents[idx]
				return m, tea.Quit
			}
		}
	}

	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	t := m.theme

	var b strings.Builder
	b.WriteString("\n")

	titleStyle := lipgloss.NewStyle().Foreground(t.Primary).Bold(true)
	b.WriteString("  " + titleStyle.Render("Select Agent") + "\n\n")

	if len(m.agents) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(t.Overlay).Italic(true)
		hintStyle := lipgloss.NewStyle().Foreground(t.Subtext)
		b.WriteString("  " + emptyStyle.Render("No agents registered") + "\n\n")
		b.WriteString("  " + hintStyle.Render("Start one with: synapse claude") + "\n\n")
		b.WriteString("  " + m.renderHelpBar() + "\n")
		return b.String()
	}

	numStyle := lipgloss.NewStyle().Foreground(t.Overlay)
	typeStyle := lipgloss.NewStyle().Foreground(t.Subtext)
	portStyle := lipgloss.NewStyle().Foreground(t.Overlay)

	for i, agent := range m.agents {
		isSelected := i == m.cursor

		var line strings.Builder
		if isSelected {
			pointer := lipgloss.NewStyle().Foreground(t.Primary).Render("❯")
			line.WriteString(pointer + " ")
		} else {
			line.WriteString("  ")
		}

		if i < 9 {
			line.WriteString(numStyle.Render(fmt.Sprintf("%d", i+1)) + " ")
		} else {
			line.WriteString("  ")
		}

		name := agent.DisplayName()
		if isSelected {
			selStyle := lipgloss.NewStyle().
				Foreground(t.SelectionFg).
				Background(t.SelectionBg).
				Bold(true)
			line.WriteString(selStyle.Render(name))
		} else {
			line.WriteString(lipgloss.NewStyle().Foreground(t.Text).Render(name))
		}

		if agent.AgentType != "" {
			line.WriteString(typeStyle.Render("  " + agent.AgentType))
		}
		if port := agent.Port.Int(); port > 0 {
			line.WriteString(portStyle.Render(fmt.Sprintf("  :%d", port)))
		}

		b.WriteString("  " + line.String() + "\n")
	}

	if detail := m.renderDetail(); detail != "" {
		b.WriteString("\n" + detail)
	}

	b.WriteString("\n  " + m.renderHelpBar() + "\n")
	return b.String()
}

// renderDetail shows the highlighted agent's role, wrapped to the window.
func (m Model) renderDetail() string {
	if m.cursor >= len(m.agents) {
		return ""
	}
	agent := m.agents[m.cursor]
	if agent.Role == "" {
		return ""
	}

	wrapWidth := m.width - 8
	if wrapWidth < 32 {
		wrapWidth = 32
	}
	wrapped := wordwrap.String("role: "+agent.Role, wrapWidth)

	detailStyle := lipgloss.NewStyle().Foreground(m.theme.Subtext)
	var b strings.Builder
	for _, line := range strings.Split(wrapped, "\n") {
		b.WriteString("  " + detailStyle.Render(line) + "\n")
	}
	return b.String()
}

func (m Model) renderHelpBar() string {
	t := m.theme

	keyStyle := lipgloss.NewStyle().
		Background(t.SelectionBg).
		Foreground(t.Text).
		Bold(true).
		Padding(0, 1)
	descStyle := lipgloss.NewStyle().Foreground(t.Overlay)

	items := []struct {
		key  string
		desc string
	}{
		{"↑/↓", "navigate"},
		{"1-9", "quick select"},
		{"Enter", "select"},
		{"Esc", "quit"},
	}

	var parts []string
	for _, item := range items {
		parts = append(parts, keyStyle.Render(item.key)+" "+descStyle.Render(item.desc))
	}
	return strings.Join(parts, "  ")
}

// Selected returns the chosen agent (nil if cancelled).
func (m Model) Selected() *registry.Record {
	return m.selected
}

// Run runs the picker and returns the chosen agent.
// A single candidate is returned directly without opening the TUI.
func Run(agents []*registry.Record) (*registry.Record, error) {
	if len(agents) == 0 {
		return nil, fmt.Errorf("no agents available")
	}
	if len(agents) == 1 {
		return agents[0], nil
	}

	model := New(agents)
	p := tea.NewProgram(model)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	result := finalModel.(Model)
	if result.Selected() == nil {
		return nil, ErrCancelled
	}
	return result.Selected(), nil
}
