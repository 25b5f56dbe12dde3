// Package feedlist is the screen listing the authors with active stories.
package feedlist

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/reel/internal/keymap"
	"github.com/llehouerou/reel/internal/story"
	"github.com/llehouerou/reel/internal/ui/cursor"
)

const (
	scrollMargin = 2
	headerHeight = 2 // title + separator
	footerHeight = 1
)

// OpenMsg asks the parent to start the viewer at Index.
type OpenMsg struct {
	Stories story.Collection
	Index   int
}

// ReloadMsg asks the parent to re-import the feed.
type ReloadMsg struct{}

// Model is the feed list screen.
type Model struct {
	stories  story.Collection
	cursor   cursor.Cursor
	resolver *keymap.Resolver
	now      func() time.Time
	status   string
	width    int
	height   int
}

// New creates an empty feed list. now is used for snap ages.
func New(now func() time.Time) Model {
	if now == nil {
		now = time.Now
	}
	return Model{
		cursor:   cursor.New(scrollMargin),
		resolver: keymap.NewResolver(keymap.ForScreen(keymap.ContextFeed)),
		now:      now,
	}
}

// SetStories replaces the listed collection, keeping the cursor in range.
func (m *Model) SetStories(c story.Collection) {
	m.stories = c
	m.cursor.ClampToBounds(len(c), m.listHeight())
}

// Stories returns the listed collection.
func (m Model) Stories() story.Collection {
	return m.stories
}

// Selected returns the index under the cursor, or -1 for an empty list.
func (m Model) Selected() int {
	if len(m.stories) == 0 {
		return -1
	}
	return m.cursor.Pos()
}

// Select moves the cursor to story i, e.g. where the viewer stopped.
func (m *Model) Select(i int) {
	m.cursor.Jump(i, len(m.stories), m.listHeight())
}

// SetStatus sets the status line text, such as a load error.
func (m *Model) SetStatus(s string) {
	m.status = s
}

// SetSize sets the screen size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.cursor.ClampToBounds(len(m.stories), m.listHeight())
}

func (m Model) listHeight() int {
	return max(m.height-headerHeight-footerHeight, 1)
}

func (m Model) openCmd(i int) tea.Cmd {
	if i < 0 || i >= len(m.stories) {
		return nil
	}
	stories := m.stories
	return func() tea.Msg { return OpenMsg{Stories: stories, Index: i} }
}
