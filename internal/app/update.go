package app

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/reel/internal/errmsg"
	"github.com/llehouerou/reel/internal/story"
	"github.com/llehouerou/reel/internal/ui/feedlist"
	"github.com/llehouerou/reel/internal/ui/viewer"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.Feed.SetSize(msg.Width, msg.Height)
		m.Viewer.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.updateScreen(msg)

	case tea.MouseMsg:
		return m.updateScreen(msg)

	case FeedChangedMsg:
		if msg.Err != nil {
			m.Feed.SetStatus(errmsg.Format(errmsg.OpFeedWatch, msg.Err))
			return m, nil
		}
		return m, m.loadFeedCmd()

	case FeedImportedMsg:
		if msg.Err != nil {
			m.logger.Warn("import feed", "err", msg.Err)
			m.Feed.SetStatus(errmsg.Format(errmsg.OpFeedImport, msg.Err))
			return m, nil
		}
		return m, m.loadFeedCmd()

	case FeedLoadedMsg:
		return m.handleFeedLoaded(msg)

	case feedlist.ReloadMsg:
		return m, m.importCmd()

	case feedlist.OpenMsg:
		return m.openViewer(msg.Stories, msg.Index)

	case viewer.ClosedMsg:
		m.logger.Debug("viewer closed", "reason", msg.Reason.String(), "story", msg.Position.Story)
		m.Screen = ScreenFeed
		m.Feed.Select(msg.Position.Story)
		return m, m.loadFeedCmd()

	case viewer.MediaChangedMsg:
		if msg.Err != nil {
			m.logger.Warn(errmsg.Format(errmsg.OpMediaLoad, msg.Err), "position", msg.Position.String())
		}
		return m.updateViewer(msg)

	case viewer.PhotoLoadedMsg:
		if msg.Err != nil {
			m.logger.Warn(errmsg.Format(errmsg.OpPhotoLoad, msg.Err), "locator", msg.Locator)
		}
		return m.updateViewer(msg)

	case viewer.StateChangedMsg, viewer.PositionChangedMsg,
		viewer.ExitedMsg, viewer.EngineClosedMsg, viewer.FrameTickMsg,
		spinner.TickMsg:
		return m.updateViewer(msg)
	}
	return m, nil
}

func (m Model) updateViewer(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.Viewer, cmd = m.Viewer.Update(msg)
	return m, cmd
}

func (m Model) updateScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.Screen == ScreenViewer {
		m.Viewer, cmd = m.Viewer.Update(msg)
	} else {
		m.Feed, cmd = m.Feed.Update(msg)
	}
	return m, cmd
}

func (m Model) handleFeedLoaded(msg FeedLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.logger.Error("load feed", "err", msg.Err)
		m.Feed.SetStatus(errmsg.Format(errmsg.OpStoreLoad, msg.Err))
		return m, nil
	}
	if msg.Pruned > 0 {
		m.logger.Info("pruned expired snaps", "count", msg.Pruned)
	}
	m.Feed.SetStatus("")
	m.Feed.SetStories(msg.Stories)

	if m.initialStory < 0 || len(msg.Stories) == 0 {
		return m, nil
	}
	idx := m.initialStory
	m.initialStory = -1
	m.Feed.Select(idx)
	return m.openViewer(msg.Stories, idx)
}

func (m Model) openViewer(stories story.Collection, idx int) (tea.Model, tea.Cmd) {
	v, cmd, err := m.Viewer.Open(stories, idx)
	if err != nil {
		m.logger.Warn("open viewer", "story", idx, "err", err)
		m.Feed.SetStatus(errmsg.Format(errmsg.OpViewerOpen, err))
		return m, nil
	}
	m.Viewer = v
	m.Screen = ScreenViewer
	return m, cmd
}
