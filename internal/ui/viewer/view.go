package viewer

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/reel/internal/story"
	"github.com/llehouerou/reel/internal/ui/storyview"
)

// View renders the current frame with the key help below it.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	footer := m.help.View(m.resolver)
	bodyH := max(m.height-lipgloss.Height(footer), 1)

	snap := m.player.Snapshot()
	f := storyview.Frame{
		Snapshot: snap,
		Spinner:  m.spinner.View(),
		Now:      m.now(),
		Width:    m.width,
		Height:   bodyH,
	}
	if snap.HasSnap {
		switch snap.Snap.Kind {
		case story.Photo:
			f.Photo, f.HasPhoto = m.media.Photos().Get(m.media.Rewrite(snap.Snap.MediaRef))
		case story.Video:
			f.Buffered, _ = m.media.BytesRead()
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, storyview.Render(f), footer)
}
