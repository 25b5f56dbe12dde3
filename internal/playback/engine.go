package playback

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/llehouerou/reel/internal/media"
	"github.com/llehouerou/reel/internal/progress"
	"github.com/llehouerou/reel/internal/story"
)

// ErrClosed is returned by operations on a closed engine.
var ErrClosed = errors.New("playback engine closed")

const eventQueueSize = 64

// Media is the media session the engine drives. *media.Manager implements it.
type Media interface {
	Prepare(ctx context.Context, snap story.Snap, onSettle func(media.Result))
	Cancel()
	Release()
	SetPaused(paused bool)
}

// Verify the manager satisfies Media at compile time.
var _ Media = (*media.Manager)(nil)

// Snapshot is what the renderer needs to draw one frame.
type Snapshot struct {
	Stories     story.Collection
	Pos         story.Position
	State       State
	Snap        story.Snap
	HasSnap     bool
	MediaFailed bool
	Progress    []float64
}

// Story returns the current story.
func (s Snapshot) Story() (story.Story, bool) {
	if !s.HasSnap {
		return story.Story{}, false
	}
	return s.Stories[s.Pos.Story], true
}

// Engine runs the playback controller. Gestures and callbacks are queued and
// applied one at a time by a single loop goroutine, which also executes the
// effects against the media session and the progress table.
type Engine struct {
	media  Media
	table  *progress.Table
	clock  clockwork.Clock
	logger *slog.Logger

	events chan Event
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	session Session

	subs   []*Subscription
	subsMu sync.RWMutex

	closeOnce sync.Once
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock sets the clock driving the slot timers.
func WithClock(c clockwork.Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New creates an engine driving m and starts its loop.
func New(m Media, opts ...Option) *Engine {
	e := &Engine{
		media:  m,
		clock:  clockwork.NewRealClock(),
		logger: slog.New(slog.DiscardHandler),
		events: make(chan Event, eventQueueSize),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.table = progress.NewTable(e.clock)
	e.ctx, e.cancel = context.WithCancel(context.Background())

	e.wg.Add(1)
	go e.run()
	return e
}

// Open starts a session on stories at story index idx (clamped). An empty
// collection exits at once with ExitCompleted.
func (e *Engine) Open(stories story.Collection, idx int) error {
	if err := stories.Validate(); err != nil {
		return err
	}
	return e.post(Open{Stories: stories, Index: idx})
}

// TapLeft steps back one snap.
func (e *Engine) TapLeft() { _ = e.post(TapLeft{}) }

// TapRight steps forward one snap.
func (e *Engine) TapRight() { _ = e.post(TapRight{}) }

// TapMiddle toggles pause.
func (e *Engine) TapMiddle() { _ = e.post(TapMiddle{}) }

// Dismiss closes the viewer.
func (e *Engine) Dismiss() { _ = e.post(Dismiss{}) }

// Tap dispatches a tap by zone.
func (e *Engine) Tap(z Zone) {
	switch z {
	case ZoneLeft:
		e.TapLeft()
	case ZoneRight:
		e.TapRight()
	case ZoneMiddle:
		e.TapMiddle()
	}
}

// TapAt dispatches a pointer-down at x in a viewer width cells wide.
func (e *Engine) TapAt(x, width int) {
	e.Tap(ZoneAt(x, width))
}

// State returns the current state.
func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.session.State
}

// Snapshot returns the current session and slot progress.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	s := e.session
	e.mu.RUnlock()

	snap, ok := s.Snap()
	return Snapshot{
		Stories:     s.Stories,
		Pos:         s.Pos,
		State:       s.State,
		Snap:        snap,
		HasSnap:     ok,
		MediaFailed: s.MediaFailed,
		Progress:    e.table.Values(),
	}
}

// Subscribe returns a subscription for engine events.
func (e *Engine) Subscribe() *Subscription {
	sub := newSubscription()
	e.subsMu.Lock()
	e.subs = append(e.subs, sub)
	e.subsMu.Unlock()
	return sub
}

// Close stops the loop, cancels the timer, releases the media session and
// closes every subscription.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.cancel()
		e.wg.Wait()
		e.table.Cancel()
		e.media.Release()

		e.subsMu.Lock()
		for _, sub := range e.subs {
			sub.close()
		}
		e.subs = nil
		e.subsMu.Unlock()
	})
	return nil
}

func (e *Engine) post(ev Event) error {
	if e.ctx.Err() != nil {
		return ErrClosed
	}
	select {
	case e.events <- ev:
		return nil
	case <-e.ctx.Done():
		return ErrClosed
	}
}

// flush is a barrier: its channel is closed once every event queued before
// it has been applied.
type flush struct{ done chan struct{} }

func (flush) event() {}

// wait blocks until every event queued so far has been applied.
func (e *Engine) wait() {
	done := make(chan struct{})
	if e.post(flush{done: done}) != nil {
		return
	}
	select {
	case <-done:
	case <-e.ctx.Done():
	}
}

func (e *Engine) run() {
	defer e.wg.Done()
	for {
		select {
		case <-e.ctx.Done():
			return
		case ev := <-e.events:
			if f, ok := ev.(flush); ok {
				close(f.done)
				continue
			}
			e.dispatch(ev)
		}
	}
}

func (e *Engine) dispatch(ev Event) {
	e.mu.Lock()
	prev := e.session
	next, effects := Reduce(prev, ev)
	e.session = next
	e.mu.Unlock()

	for _, eff := range effects {
		e.apply(next, eff)
	}
	e.publish(prev, next, ev)
}

func (e *Engine) apply(s Session, eff Effect) {
	switch eff := eff.(type) {
	case CancelTimer:
		e.table.Cancel()
	case CancelMedia:
		e.media.Cancel()
	case ReleaseMedia:
		e.media.Release()
	case SelectSlot:
		if eff.NewStory {
			e.table.Reset(eff.Slots)
		}
		e.table.Select(eff.Slot)
	case PrepareMedia:
		gen := eff.Gen
		e.media.Prepare(e.ctx, eff.Snap, func(r media.Result) {
			if r.Status == media.Ready {
				_ = e.post(MediaReady{Gen: gen})
				return
			}
			e.logger.Debug("media failed", "snap", r.SnapID, "err", r.Err)
			_ = e.post(MediaFailed{Gen: gen, Err: r.Err})
		})
	case StartTimer:
		gen := eff.Gen
		e.table.Start(eff.Slot, eff.Duration, func() {
			_ = e.post(TimerElapsed{Gen: gen})
		})
	case PauseTimer:
		e.table.Pause()
	case ResumeTimer:
		e.table.Resume()
	case SetMediaPaused:
		e.media.SetPaused(eff.Paused)
	case Exit:
		e.logger.Info("viewer exit", "reason", eff.Reason.String(), "position", s.Pos.String())
		e.broadcast(func(sub *Subscription) {
			sub.sendExit(ExitEvent{Reason: eff.Reason, Position: s.Pos})
		})
	}
}

func (e *Engine) publish(prev, next Session, ev Event) {
	if prev.Gen != next.Gen {
		snap, _ := next.Snap()
		pc := PositionChange{
			Previous:    prev.Pos,
			Current:     next.Pos,
			StoryChange: !prev.Opened || prev.Pos.Story != next.Pos.Story,
			Snap:        snap,
		}
		e.broadcast(func(sub *Subscription) { sub.sendPosition(pc) })
	}
	if prev.State != next.State {
		sc := StateChange{Previous: prev.State, Current: next.State}
		e.broadcast(func(sub *Subscription) { sub.sendState(sc) })
	}

	var mc *MediaChange
	switch ev := ev.(type) {
	case MediaReady:
		if ev.Gen == next.Gen && next.State == StatePlaying && prev.State == StateLoadingMedia {
			mc = &MediaChange{Position: next.Pos, Ready: true}
		}
	case MediaFailed:
		if ev.Gen == next.Gen && next.MediaFailed && !prev.MediaFailed {
			mc = &MediaChange{Position: next.Pos, Err: ev.Err}
		}
	}
	if mc != nil {
		m := *mc
		e.broadcast(func(sub *Subscription) { sub.sendMedia(m) })
	}
}

func (e *Engine) broadcast(send func(*Subscription)) {
	e.subsMu.RLock()
	defer e.subsMu.RUnlock()
	for _, sub := range e.subs {
		send(sub)
	}
}
