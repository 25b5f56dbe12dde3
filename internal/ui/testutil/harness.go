package testutil

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Model is a bubbletea component whose Update returns its own type.
type Model[M any] interface {
	Update(msg tea.Msg) (M, tea.Cmd)
	View() string
}

// Harness wraps a component for testing, providing helpers to simulate
// user interactions and inspect state.
type Harness[M Model[M]] struct {
	model M
	cmds  []tea.Cmd
}

// NewHarness creates a test harness around m.
func NewHarness[M Model[M]](m M) *Harness[M] {
	return &Harness[M]{model: m}
}

// Model returns the current component value.
func (h *Harness[M]) Model() M {
	return h.model
}

// View returns the component's rendered content.
func (h *Harness[M]) View() string {
	return h.model.View()
}

// SendMsg sends any message to the component and returns the resulting command.
func (h *Harness[M]) SendMsg(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	h.model, cmd = h.model.Update(msg)
	if cmd != nil {
		h.cmds = append(h.cmds, cmd)
	}
	return cmd
}

// SendKey simulates typing key as runes.
func (h *Harness[M]) SendKey(key string) tea.Cmd {
	return h.SendMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
}

// SendSpecialKey sends a special key (enter, escape, arrows, space).
func (h *Harness[M]) SendSpecialKey(keyType tea.KeyType) tea.Cmd {
	return h.SendMsg(tea.KeyMsg{Type: keyType})
}

// SendClick sends a left-button press at column x, row y.
func (h *Harness[M]) SendClick(x, y int) tea.Cmd {
	return h.SendMsg(tea.MouseMsg{
		X:      x,
		Y:      y,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
}

// SetSize sends a window size message.
func (h *Harness[M]) SetSize(width, height int) tea.Cmd {
	return h.SendMsg(tea.WindowSizeMsg{Width: width, Height: height})
}

// Commands returns all commands collected since creation or last ClearCommands.
func (h *Harness[M]) Commands() []tea.Cmd {
	return h.cmds
}

// ClearCommands clears the collected commands.
func (h *Harness[M]) ClearCommands() {
	h.cmds = nil
}

// ExecuteCmd runs a command and returns the resulting message.
func ExecuteCmd(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

// ViewContains checks if the stripped view contains substr.
func (h *Harness[M]) ViewContains(substr string) bool {
	return ContainsLine(StripANSI(h.View()), substr)
}
