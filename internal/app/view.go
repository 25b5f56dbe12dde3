package app

// View implements tea.Model.
func (m Model) View() string {
	if m.Screen == ScreenViewer {
		return m.Viewer.View()
	}
	return m.Feed.View()
}
