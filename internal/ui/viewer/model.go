// Package viewer is the full-screen story player. It forwards gestures to the
// playback engine and redraws from engine snapshots.
package viewer

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/reel/internal/keymap"
	"github.com/llehouerou/reel/internal/media"
	"github.com/llehouerou/reel/internal/playback"
	"github.com/llehouerou/reel/internal/story"
	"github.com/llehouerou/reel/internal/ui/styles"
)

// Player is the engine surface the viewer drives.
type Player interface {
	Open(stories story.Collection, idx int) error
	TapLeft()
	TapRight()
	TapMiddle()
	Dismiss()
	TapAt(x, width int)
	Snapshot() playback.Snapshot
	Subscribe() *playback.Subscription
}

var _ Player = (*playback.Engine)(nil)

// MediaSource provides what the viewer draws for the current snap.
type MediaSource interface {
	Photos() *media.PhotoCache
	Rewrite(loc string) string
	BytesRead() (int64, bool)
}

var _ MediaSource = (*media.Manager)(nil)

// Model is the viewer screen.
type Model struct {
	player   Player
	media    MediaSource
	sub      *playback.Subscription
	resolver *keymap.Resolver
	spinner  spinner.Model
	help     help.Model
	now      func() time.Time

	width    int
	height   int
	open     bool
	watching bool
	ticking  bool
	showHelp bool
}

// Option configures a Model.
type Option func(*Model)

// WithNow sets the clock used for snap ages.
func WithNow(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// New creates a viewer over player and src.
func New(player Player, src MediaSource, opts ...Option) Model {
	sp := spinner.New(spinner.WithSpinner(spinner.MiniDot))
	sp.Style = styles.T().S().Muted
	m := Model{
		player:   player,
		media:    src,
		sub:      player.Subscribe(),
		resolver: keymap.NewResolver(keymap.ForScreen(keymap.ContextViewer)),
		spinner:  sp,
		help:     help.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Open starts playback of stories at idx. The returned command keeps the
// screen in sync with the engine until the viewer closes.
func (m Model) Open(stories story.Collection, idx int) (Model, tea.Cmd, error) {
	if err := m.player.Open(stories, idx); err != nil {
		return m, nil, err
	}
	m.open = true
	m.retainPhotos(stories)

	cmds := []tea.Cmd{m.spinner.Tick}
	if !m.watching {
		m.watching = true
		cmds = append(cmds, m.WatchEvents())
	}
	if !m.ticking {
		m.ticking = true
		cmds = append(cmds, FrameTickCmd())
	}
	return m, tea.Batch(cmds...), nil
}

// IsOpen reports whether a story is on screen.
func (m Model) IsOpen() bool {
	return m.open
}

// SetSize sets the screen size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width
}

// retainPhotos drops cached photos the new collection no longer shows.
func (m Model) retainPhotos(stories story.Collection) {
	photos := m.media.Photos()
	if photos == nil {
		return
	}
	var keep []string
	for _, st := range stories {
		for _, sn := range st.Snaps {
			if sn.Kind == story.Photo {
				keep = append(keep, m.media.Rewrite(sn.MediaRef))
			}
		}
	}
	photos.Retain(keep...)
}
