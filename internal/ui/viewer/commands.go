package viewer

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/reel/internal/media"
	"github.com/llehouerou/reel/internal/playback"
	"github.com/llehouerou/reel/internal/story"
)

// FrameInterval is how often progress bars are redrawn while a story plays.
const FrameInterval = 50 * time.Millisecond

// ClosedMsg is sent when the engine exits and the viewer gives the screen back.
type ClosedMsg struct {
	Reason   playback.ExitReason
	Position story.Position
}

// FrameTickMsg redraws the progress bars.
type FrameTickMsg struct{}

// StateChangedMsg carries an engine state change.
type StateChangedMsg playback.StateChange

// PositionChangedMsg carries a move to another snap.
type PositionChangedMsg playback.PositionChange

// MediaChangedMsg carries a media readiness result.
type MediaChangedMsg playback.MediaChange

// ExitedMsg carries the engine's exit signal.
type ExitedMsg playback.ExitEvent

// EngineClosedMsg is sent once the engine closed its subscription.
type EngineClosedMsg struct{}

// PhotoLoadedMsg is sent when a photo fetch finished, successfully or not.
type PhotoLoadedMsg struct {
	Locator string
	Err     error
}

// WatchEvents returns a command that waits for the next engine event.
// It listens on all subscription channels and converts events to tea.Msg.
func (m Model) WatchEvents() tea.Cmd {
	if m.sub == nil {
		return nil
	}
	sub := m.sub
	return func() tea.Msg {
		select {
		case e := <-sub.StateChanged:
			return StateChangedMsg(e)
		case e := <-sub.PositionChanged:
			return PositionChangedMsg(e)
		case e := <-sub.MediaChanged:
			return MediaChangedMsg(e)
		case e := <-sub.Exited:
			return ExitedMsg(e)
		case <-sub.Done:
			return EngineClosedMsg{}
		}
	}
}

// FrameTickCmd returns a command that sends FrameTickMsg after FrameInterval.
func FrameTickCmd() tea.Cmd {
	return tea.Tick(FrameInterval, func(_ time.Time) tea.Msg {
		return FrameTickMsg{}
	})
}

// fetchPhotoCmd loads a photo into the cache so the next frame can draw it.
func fetchPhotoCmd(photos *media.PhotoCache, loc string) tea.Cmd {
	if photos == nil {
		return nil
	}
	if _, ok := photos.Get(loc); ok {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), media.InitTimeout)
		defer cancel()
		p := photos.Fetch(ctx, loc)
		return PhotoLoadedMsg{Locator: loc, Err: p.Err}
	}
}

func closedCmd(e playback.ExitEvent) tea.Cmd {
	return func() tea.Msg {
		return ClosedMsg{Reason: e.Reason, Position: e.Position}
	}
}
