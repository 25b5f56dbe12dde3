package playback

const eventBufferSize = 16

// Subscription provides event channels for a subscriber.
type Subscription struct {
	StateChanged    <-chan StateChange
	PositionChanged <-chan PositionChange
	MediaChanged    <-chan MediaChange
	Exited          <-chan ExitEvent
	Done            <-chan struct{}

	// Internal write channels
	stateCh    chan StateChange
	positionCh chan PositionChange
	mediaCh    chan MediaChange
	exitCh     chan ExitEvent
	doneCh     chan struct{}
}

// newSubscription creates a new subscription with buffered channels.
func newSubscription() *Subscription {
	s := &Subscription{
		stateCh:    make(chan StateChange, eventBufferSize),
		positionCh: make(chan PositionChange, eventBufferSize),
		mediaCh:    make(chan MediaChange, eventBufferSize),
		exitCh:     make(chan ExitEvent, eventBufferSize),
		doneCh:     make(chan struct{}),
	}
	s.StateChanged = s.stateCh
	s.PositionChanged = s.positionCh
	s.MediaChanged = s.mediaCh
	s.Exited = s.exitCh
	s.Done = s.doneCh
	return s
}

// close signals subscribers to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// sendState sends a state change event (non-blocking).
func (s *Subscription) sendState(e StateChange) {
	select {
	case s.stateCh <- e:
	default:
		// Drop if buffer full
	}
}

// sendPosition sends a position change event (non-blocking).
func (s *Subscription) sendPosition(e PositionChange) {
	select {
	case s.positionCh <- e:
	default:
	}
}

// sendMedia sends a media change event (non-blocking).
func (s *Subscription) sendMedia(e MediaChange) {
	select {
	case s.mediaCh <- e:
	default:
	}
}

// sendExit sends an exit event (non-blocking).
func (s *Subscription) sendExit(e ExitEvent) {
	select {
	case s.exitCh <- e:
	default:
	}
}
