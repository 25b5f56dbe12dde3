// Package app is the root bubbletea model: it owns the feed list and the
// story viewer and moves between them.
package app

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/reel/internal/story"
	"github.com/llehouerou/reel/internal/ui/feedlist"
	"github.com/llehouerou/reel/internal/ui/viewer"
)

// Screen is the screen currently shown.
type Screen int

const (
	ScreenFeed Screen = iota
	ScreenViewer
)

// FeedStore is the persisted feed the app lists.
type FeedStore interface {
	Load(ctx context.Context, now time.Time) (story.Collection, error)
	PruneExpired(ctx context.Context, now time.Time) (int64, error)
}

// Importer refreshes the store from the feed source and returns how many
// snaps it wrote.
type Importer func(ctx context.Context) (int, error)

// Model is the root application model.
type Model struct {
	Screen Screen
	Feed   feedlist.Model
	Viewer viewer.Model

	store    FeedStore
	importer Importer
	logger   *slog.Logger
	now      func() time.Time

	// story to open once the first load lands, -1 for none
	initialStory int

	Width  int
	Height int
}

// Option configures a Model.
type Option func(*Model)

// WithImporter sets what the reload key runs before reloading the store.
func WithImporter(fn Importer) Option {
	return func(m *Model) { m.importer = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Model) { m.logger = l }
}

// WithNow sets the clock used for expiry and ages.
func WithNow(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

// WithInitialStory opens the viewer at story i after the first load.
func WithInitialStory(i int) Option {
	return func(m *Model) { m.initialStory = i }
}

// New creates the root model.
func New(store FeedStore, v viewer.Model, opts ...Option) Model {
	m := Model{
		Viewer:       v,
		store:        store,
		logger:       slog.New(slog.DiscardHandler),
		now:          time.Now,
		initialStory: -1,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.Feed = feedlist.New(m.now)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.loadFeedCmd()
}
