package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const storeTimeout = 5 * time.Second

// loadFeedCmd prunes expired snaps and reads the remaining feed.
func (m Model) loadFeedCmd() tea.Cmd {
	store, now := m.store, m.now()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		pruned, err := store.PruneExpired(ctx, now)
		if err != nil {
			return FeedLoadedMsg{Err: err}
		}
		c, err := store.Load(ctx, now)
		return FeedLoadedMsg{Stories: c, Pruned: pruned, Err: err}
	}
}

// importCmd re-imports the feed source.
func (m Model) importCmd() tea.Cmd {
	if m.importer == nil {
		return func() tea.Msg { return FeedImportedMsg{} }
	}
	importer := m.importer
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		n, err := importer(ctx)
		return FeedImportedMsg{Count: n, Err: err}
	}
}
