// Package feed supplies the story collection the viewer plays: a TOML feed
// file as the upstream source and a SQLite store the viewer reads from.
package feed

import (
	"context"
	"time"

	"github.com/llehouerou/reel/internal/story"
)

// Source returns the current story collection.
type Source interface {
	Load(ctx context.Context) (story.Collection, error)
}

// Import copies the collection of src into st.
func Import(ctx context.Context, src Source, st *Store) (int, error) {
	c, err := src.Load(ctx)
	if err != nil {
		return 0, err
	}
	if err := st.Replace(ctx, c); err != nil {
		return 0, err
	}
	return c.TotalSnaps(), nil
}

// StoreSource reads the unexpired collection from a store.
type StoreSource struct {
	Store *Store
	Now   func() time.Time
}

// Load implements Source.
func (s StoreSource) Load(ctx context.Context) (story.Collection, error) {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return s.Store.Load(ctx, now())
}
