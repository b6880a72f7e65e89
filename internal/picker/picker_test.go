package picker

import (
	"regexp"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Dicklesworthstone/reinst/internal/registry"
)

// stripANSI removes ANSI escape sequences from text for test comparison.
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

func testAgents() []*registry.Record {
	return []*registry.Record{
		{AgentID: "a1", AgentType: "claude", Port: 8100, Name: "Alpha", Role: "scout"},
		{AgentID: "a2", AgentType: "gemini", Port: 8200, Name: "Beta"},
		{AgentID: "a3", AgentType: "codex", Port: 8300},
	}
}

func TestNew(t *testing.T) {
	m := New(testAgents())

	if len(m.agents) != 3 {
		t.Errorf("agents = %d, want 3", len(m.agents))
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
	if m.selected != nil {
		t.Error("selected is non-nil before any input")
	}
}

func TestNavigation(t *testing.T) {
	m := New(testAgents())

	newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = newModel.(Model)
	if m.cursor != 1 {
		t.Errorf("cursor after down = %d, want 1", m.cursor)
	}

	newModel, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = newModel.(Model)
	if m.cursor != 0 {
		t.Errorf("cursor after up = %d, want 0", m.cursor)
	}

	// Up at the top stays put.
	newModel, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = newModel.(Model)
	if m.cursor != 0 {
		t.Errorf("cursor after up at top = %d, want 0", m.cursor)
	}
}

func TestNavigationDownAtBottom(t *testing.T) {
	m := New(testAgents())
	m.cursor = 2

	newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = newModel.(Model)
	if m.cursor != 2 {
		t.Errorf("cursor after down at bottom = %d, want 2", m.cursor)
	}
}

func TestVimKeys(t *testing.T) {
	m := New(testAgents())

	newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m = newModel.(Model)
	if m.cursor != 1 {
		t.Errorf("cursor after j = %d, want 1", m.cursor)
	}

	newModel, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	m = newModel.(Model)
	if m.cursor != 0 {
		t.Errorf("cursor after k = %d, want 0", m.cursor)
	}
}

func TestEnterSelects(t *testing.T) {
	m := New(testAgents())
	m.cursor = 1

	newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = newModel.(Model)

	if m.Selected() == nil || m.Selected().AgentID != "a2" {
		t.Errorf("Selected() = %+v, want a2", m.Selected())
	}
	if cmd == nil {
		t.Error("Update did not return a quit command")
	}
}

func TestDigitQuickSelect(t *testing.T) {
	m := New(testAgents())

	newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'3'}})
	m = newModel.(Model)

	if m.Selected() == nil || m.Selected().AgentID != "a3" {
		t.Errorf("Selected() = %+v, want a3", m.Selected())
	}
	if cmd == nil {
		t.Error("Update did not return a quit command")
	}
}

func TestDigitOutOfRange(t *testing.T) {
	m := New(testAgents())

	newModel, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'9'}})
	m = newModel.(Model)

	if m.Selected() != nil {
		t.Errorf("digit out of range selected %+v", m.Selected())
	}
}

func TestQuit(t *testing.T) {
	m := New(testAgents())

	newModel, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = newModel.(Model)

	if !m.quitting {
		t.Error("quitting = false after esc")
	}
	if m.Selected() != nil {
		t.Errorf("Selected() = %+v after quit, want nil", m.Selected())
	}
	if cmd == nil {
		t.Error("Update did not return a quit command")
	}
}

func TestWindowResize(t *testing.T) {
	m := New(testAgents())

	newModel, _ := m.Update(tea.WindowSizeMsg{Width: 110, Height: 40})
	m = newModel.(Model)

	if m.width != 110 || m.height != 40 {
		t.Errorf("size = %dx%d, want 110x40", m.width, m.height)
	}
}

func TestView(t *testing.T) {
	m := New(testAgents())
	view := stripANSI(m.View())

	if !strings.Contains(view, "Select Agent") {
		t.Error("view missing title")
	}
	for _, want := range []string{"Alpha", "Beta", "a3", "claude", ":8100"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
	if !strings.Contains(view, "❯") {
		t.Error("view missing cursor pointer")
	}
	// Highlighted agent's role appears in the detail pane.
	if !strings.Contains(view, "role: scout") {
		t.Errorf("view missing role detail:\n%s", view)
	}
}

func TestView_NoRoleNoDetail(t *testing.T) {
	m := New(testAgents())
	m.cursor = 1 // Beta has no role

	view := stripANSI(m.View())
	if strings.Contains(view, "role:") {
		t.Errorf("view shows role detail for agent without role:\n%s", view)
	}
}

func TestView_Empty(t *testing.T) {
	m := New(nil)
	view := stripANSI(m.View())

	if !strings.Contains(view, "No agents registered") {
		t.Errorf("empty view = %s", view)
	}
	if !strings.Contains(view, "synapse claude") {
		t.Error("empty view missing start hint")
	}
}

func TestRun_SingleAgentShortCircuits(t *testing.T) {
	agents := testAgents()[:1]

	got, err := Run(agents)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if got.AgentID != "a1" {
		t.Errorf("Run() = %+v, want a1", got)
	}
}

func TestRun_NoAgents(t *testing.T) {
	if _, err := Run(nil); err == nil {
		t.Error("Run(nil) succeeded")
	}
}
