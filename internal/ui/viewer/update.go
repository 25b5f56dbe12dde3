package viewer

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/reel/internal/keymap"
	"github.com/llehouerou/reel/internal/playback"
	"github.com/llehouerou/reel/internal/story"
)

// Update handles input and engine events.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.open && msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.player.TapAt(msg.X, m.width)
		}
		return m, nil

	case PositionChangedMsg:
		var cmd tea.Cmd
		if msg.Snap.Kind == story.Photo {
			cmd = fetchPhotoCmd(m.media.Photos(), m.media.Rewrite(msg.Snap.MediaRef))
		}
		return m, tea.Batch(m.WatchEvents(), cmd)

	case StateChangedMsg:
		cmds := []tea.Cmd{m.WatchEvents()}
		if msg.Current.IsActive() && !m.ticking {
			m.ticking = true
			cmds = append(cmds, FrameTickCmd())
		}
		return m, tea.Batch(cmds...)

	case MediaChangedMsg:
		return m, m.WatchEvents()

	case ExitedMsg:
		m.open = false
		return m, tea.Batch(m.WatchEvents(), closedCmd(playback.ExitEvent(msg)))

	case EngineClosedMsg:
		m.open = false
		m.watching = false
		return m, nil

	case FrameTickMsg:
		if m.open && m.player.Snapshot().State.IsActive() {
			return m, FrameTickCmd()
		}
		m.ticking = false
		return m, nil

	case PhotoLoadedMsg:
		// the next View picks the photo up from the cache
		return m, nil

	case spinner.TickMsg:
		if !m.open {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.resolver.Resolve(msg.String()) {
	case keymap.ActionPrevSnap:
		if m.open {
			m.player.TapLeft()
		}
	case keymap.ActionNextSnap:
		if m.open {
			m.player.TapRight()
		}
	case keymap.ActionTogglePause:
		if m.open {
			m.player.TapMiddle()
		}
	case keymap.ActionDismiss:
		if m.open {
			m.player.Dismiss()
		}
	case keymap.ActionHelp:
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	case keymap.ActionQuit:
		return m, tea.Quit
	}
	return m, nil
}
