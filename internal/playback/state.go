package playback

// State represents the viewer's playback state.
type State int

const (
	StateIdle State = iota
	StateLoadingMedia
	StatePlaying
	StatePaused
	StateFinished
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateLoadingMedia:
		return "LoadingMedia"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// IsActive returns true while a snap is on screen (loading, playing or paused).
func (s State) IsActive() bool {
	return s == StateLoadingMedia || s == StatePlaying || s == StatePaused
}

// ExitReason tells the host why the viewer closed.
type ExitReason int

const (
	// ExitCompleted: advanced past the last snap of the last story.
	ExitCompleted ExitReason = iota
	// ExitRetreatedPastStart: tapped back on the first snap of the first story.
	ExitRetreatedPastStart
	// ExitDismissed: closed explicitly.
	ExitDismissed
)

// String returns the reason name.
func (r ExitReason) String() string {
	switch r {
	case ExitCompleted:
		return "Completed"
	case ExitRetreatedPastStart:
		return "RetreatedPastStart"
	case ExitDismissed:
		return "Dismissed"
	default:
		return "Unknown"
	}
}

// Zone is a horizontal tap region of the viewer.
type Zone int

const (
	ZoneLeft Zone = iota
	ZoneMiddle
	ZoneRight
)

// String returns the zone name.
func (z Zone) String() string {
	switch z {
	case ZoneLeft:
		return "Left"
	case ZoneMiddle:
		return "Middle"
	case ZoneRight:
		return "Right"
	default:
		return "Unknown"
	}
}

// ZoneAt maps a pointer-down x coordinate to a zone by horizontal thirds of
// width. A non-positive width maps everything to the middle.
func ZoneAt(x, width int) Zone {
	switch {
	case width <= 0:
		return ZoneMiddle
	case x*3 < width:
		return ZoneLeft
	case x*3 >= 2*width:
		return ZoneRight
	default:
		return ZoneMiddle
	}
}
