package playback

import (
	"time"

	"github.com/llehouerou/reel/internal/story"
)

// Session is the controller state. It is a value: Reduce returns a new one
// and never mutates the collection it holds.
type Session struct {
	Stories story.Collection
	Pos     story.Position
	State   State

	// Gen is bumped on every position change. Timer and media events carry
	// the generation they were issued for and are dropped once it moves on.
	Gen uint64

	// MediaFailed is set when the current snap's media could not be
	// initialized. The session stays in LoadingMedia.
	MediaFailed bool

	// Due is set when the slot timer of this generation elapsed while
	// paused. The next resume advances instead of resuming the timer.
	Due bool

	Opened bool // an Open has been applied
	Exited bool // the exit for this session has been emitted
	Reason ExitReason
}

// Snap returns the current snap.
func (s Session) Snap() (story.Snap, bool) {
	if !s.Opened {
		return story.Snap{}, false
	}
	return s.Stories.At(s.Pos)
}

// Event is an input to Reduce.
type Event interface{ event() }

type (
	// Open starts a new session on stories at the clamped story index.
	Open struct {
		Stories story.Collection
		Index   int
	}
	TapLeft   struct{}
	TapRight  struct{}
	TapMiddle struct{}
	Dismiss   struct{}

	// TimerElapsed is raised by the progress timer of generation Gen.
	TimerElapsed struct{ Gen uint64 }
	// MediaReady is raised when the media prepared for Gen is playable.
	MediaReady struct{ Gen uint64 }
	// MediaFailed is raised when the media prepared for Gen failed or timed out.
	MediaFailed struct {
		Gen uint64
		Err error
	}
)

func (Open) event()         {}
func (TapLeft) event()      {}
func (TapRight) event()     {}
func (TapMiddle) event()    {}
func (Dismiss) event()      {}
func (TimerElapsed) event() {}
func (MediaReady) event()   {}
func (MediaFailed) event()  {}

// Effect is a side effect requested by Reduce, executed by the Engine in
// order.
type Effect interface{ effect() }

type (
	CancelTimer  struct{}
	CancelMedia  struct{}
	ReleaseMedia struct{}
	PauseTimer   struct{}
	ResumeTimer  struct{}

	// SelectSlot makes Slot current. With NewStory the indicators are
	// recreated for Slots snaps first.
	SelectSlot struct {
		Slot     int
		Slots    int
		NewStory bool
	}
	// PrepareMedia readies Snap; the outcome comes back as MediaReady or
	// MediaFailed tagged with Gen.
	PrepareMedia struct {
		Gen  uint64
		Pos  story.Position
		Snap story.Snap
	}
	// StartTimer arms the slot timer; its elapse comes back as TimerElapsed.
	StartTimer struct {
		Gen      uint64
		Slot     int
		Duration time.Duration
	}
	SetMediaPaused struct{ Paused bool }
	Exit           struct{ Reason ExitReason }
)

func (CancelTimer) effect()    {}
func (CancelMedia) effect()    {}
func (ReleaseMedia) effect()   {}
func (PauseTimer) effect()     {}
func (ResumeTimer) effect()    {}
func (SelectSlot) effect()     {}
func (PrepareMedia) effect()   {}
func (StartTimer) effect()     {}
func (SetMediaPaused) effect() {}
func (Exit) effect()           {}

// Reduce applies ev to s.
//
//	Idle         -> LoadingMedia  open
//	LoadingMedia -> Playing       media ready, timer starts
//	Playing      -> Paused        middle tap
//	Paused       -> Playing       middle tap
//	Playing      -> LoadingMedia  timer elapsed or tap, neighbor exists
//	Paused       -> LoadingMedia  left/right tap, or middle tap once the slot elapsed
//	Playing      -> Finished      timer elapsed or right tap on the last snap
//	any          -> Idle          dismiss
//
// Events that do not apply to the current state are ignored.
func Reduce(s Session, ev Event) (Session, []Effect) {
	switch ev := ev.(type) {
	case Open:
		return open(s, ev)
	case TapRight:
		if !s.State.IsActive() {
			return s, nil
		}
		return advance(s)
	case TapLeft:
		if !s.State.IsActive() {
			return s, nil
		}
		return retreat(s)
	case TapMiddle:
		return toggle(s)
	case Dismiss:
		if !s.Opened || s.Exited {
			s.State = StateIdle
			return s, nil
		}
		return exit(s, StateIdle, ExitDismissed)
	case TimerElapsed:
		if ev.Gen != s.Gen {
			return s, nil
		}
		switch s.State {
		case StatePlaying:
			return advance(s)
		case StatePaused:
			s.Due = true
		}
		return s, nil
	case MediaReady:
		if ev.Gen != s.Gen || s.State != StateLoadingMedia {
			return s, nil
		}
		snap, _ := s.Snap()
		s.State = StatePlaying
		s.MediaFailed = false
		return s, []Effect{StartTimer{
			Gen:      s.Gen,
			Slot:     s.Pos.Snap,
			Duration: story.SlotDuration(snap.Kind),
		}}
	case MediaFailed:
		if ev.Gen != s.Gen || s.State != StateLoadingMedia {
			return s, nil
		}
		// No retry: the loading visual stays until the user navigates.
		s.MediaFailed = true
		return s, nil
	}
	return s, nil
}

func open(s Session, ev Open) (Session, []Effect) {
	if ev.Stories.Validate() != nil {
		return s, nil
	}
	next := Session{
		Stories: ev.Stories,
		Gen:     s.Gen,
		State:   StateIdle,
		Opened:  true,
	}
	if len(ev.Stories) == 0 {
		return exit(next, StateFinished, ExitCompleted)
	}
	pos := story.Position{Story: ev.Stories.ClampStory(ev.Index)}
	return enter(next, pos, true)
}

// enter moves to pos. The timer and the preparation of the snap being left
// are cancelled before any new work is issued.
func enter(s Session, pos story.Position, newStory bool) (Session, []Effect) {
	s.Gen++
	s.Pos = pos
	s.State = StateLoadingMedia
	s.MediaFailed = false
	s.Due = false
	snap, _ := s.Stories.At(pos)
	return s, []Effect{
		CancelTimer{},
		CancelMedia{},
		SelectSlot{Slot: pos.Snap, Slots: len(s.Stories[pos.Story].Snaps), NewStory: newStory},
		PrepareMedia{Gen: s.Gen, Pos: pos, Snap: snap},
	}
}

func advance(s Session) (Session, []Effect) {
	next, ok := s.Stories.Next(s.Pos)
	if !ok {
		return exit(s, StateFinished, ExitCompleted)
	}
	return enter(s, next, next.Story != s.Pos.Story)
}

// retreat steps back. On the very first snap it exits and keeps the position.
func retreat(s Session) (Session, []Effect) {
	prev, ok := s.Stories.Prev(s.Pos)
	if !ok {
		return exit(s, StateIdle, ExitRetreatedPastStart)
	}
	return enter(s, prev, prev.Story != s.Pos.Story)
}

func toggle(s Session) (Session, []Effect) {
	switch s.State {
	case StatePlaying:
		s.State = StatePaused
		return s, []Effect{PauseTimer{}, SetMediaPaused{Paused: true}}
	case StatePaused:
		if s.Due {
			return advance(s)
		}
		s.State = StatePlaying
		return s, []Effect{ResumeTimer{}, SetMediaPaused{Paused: false}}
	default:
		return s, nil
	}
}

func exit(s Session, state State, reason ExitReason) (Session, []Effect) {
	s.State = state
	effects := []Effect{CancelTimer{}, ReleaseMedia{}}
	if !s.Exited {
		s.Exited = true
		s.Reason = reason
		effects = append(effects, Exit{Reason: reason})
	}
	return s, effects
}
