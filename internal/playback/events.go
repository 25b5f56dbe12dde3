package playback

import "github.com/llehouerou/reel/internal/story"

// StateChange is emitted when playback state changes.
type StateChange struct {
	Previous State
	Current  State
}

// PositionChange is emitted when the viewer moves to a snap, including
// re-entering the same position from a new Open.
type PositionChange struct {
	Previous    story.Position
	Current     story.Position
	StoryChange bool
	Snap        story.Snap
}

// MediaChange is emitted when the current snap's media settles.
//
// NOT emitted for preparations that were superseded before settling.
type MediaChange struct {
	Position story.Position
	Ready    bool
	Err      error
}

// ExitEvent is emitted once per opened session.
type ExitEvent struct {
	Reason   ExitReason
	Position story.Position
}
