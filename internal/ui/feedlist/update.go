package feedlist

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/reel/internal/keymap"
)

// Update handles navigation keys and clicks.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		action := m.resolver.Resolve(msg.String())
		if m.cursor.HandleAction(action, len(m.stories), m.listHeight()) {
			return m, nil
		}
		switch action {
		case keymap.ActionOpen:
			return m, m.openCmd(m.Selected())
		case keymap.ActionReload:
			return m, func() tea.Msg { return ReloadMsg{} }
		case keymap.ActionQuit:
			return m, tea.Quit
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.cursor.Move(-1, len(m.stories), m.listHeight())
		case tea.MouseButtonWheelDown:
			m.cursor.Move(1, len(m.stories), m.listHeight())
		case tea.MouseButtonLeft:
			i := m.cursor.RowAt(msg.Y-headerHeight, len(m.stories), m.listHeight())
			if i < 0 {
				return m, nil
			}
			m.cursor.Jump(i, len(m.stories), m.listHeight())
			return m, m.openCmd(i)
		}
	}
	return m, nil
}
