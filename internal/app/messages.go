package app

import "github.com/llehouerou/reel/internal/story"

// FeedLoadedMsg carries the collection read back from the store.
type FeedLoadedMsg struct {
	Stories story.Collection
	Pruned  int64
	Err     error
}

// FeedImportedMsg is sent after a reload re-imported the feed source.
type FeedImportedMsg struct {
	Count int
	Err   error
}

// FeedChangedMsg is sent from outside the program when the feed source
// changed and the store has been refreshed.
type FeedChangedMsg struct {
	Err error
}
