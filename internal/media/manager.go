package media

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/llehouerou/reel/internal/story"
)

// Manager owns the viewer's single media session.
//
// At most one decoder handle is ever alive: the slot semaphore is taken
// before a decoder is opened and given back only after the handle it produced
// (if any) is closed, so a superseded open that is still unwinding blocks the
// next one instead of overlapping it.
type Manager struct {
	decoder Decoder
	photos  *PhotoCache
	rewrite func(string) string
	logger  *slog.Logger
	timeout time.Duration

	slot chan struct{}
	wg   sync.WaitGroup

	mu       sync.Mutex
	seq      uint64
	cancel   context.CancelFunc
	active   Handle
	activeID string
}

// Option configures a Manager.
type Option func(*Manager)

// WithPhotos sets the cache photo snaps are prefetched into.
func WithPhotos(c *PhotoCache) Option {
	return func(m *Manager) { m.photos = c }
}

// WithRewrite sets the locator rewrite applied before any access.
func WithRewrite(fn func(string) string) Option {
	return func(m *Manager) { m.rewrite = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithTimeout overrides InitTimeout.
func WithTimeout(d time.Duration) Option {
	return func(m *Manager) { m.timeout = d }
}

// NewManager creates a manager opening videos with decoder.
func NewManager(decoder Decoder, opts ...Option) *Manager {
	m := &Manager{
		decoder: decoder,
		rewrite: func(s string) string { return s },
		logger:  slog.New(slog.DiscardHandler),
		timeout: InitTimeout,
		slot:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Prepare readies snap for display and calls onSettle once with the outcome,
// unless a later Prepare, Cancel or Release supersedes it first. It never
// blocks: the previous preparation is cancelled and the live handle released
// before the new work starts in the background.
//
// Photos settle Ready at once; their prefetch runs best-effort behind it.
func (m *Manager) Prepare(ctx context.Context, snap story.Snap, onSettle func(Result)) {
	m.mu.Lock()
	m.cancelLocked()
	m.releaseLocked()
	m.seq++
	seq := m.seq
	pctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.mu.Unlock()

	loc := m.rewrite(snap.MediaRef)

	m.wg.Add(1)
	if snap.Kind == story.Video {
		go m.prepareVideo(pctx, seq, snap, loc, onSettle)
		return
	}
	go m.preparePhoto(pctx, seq, snap, loc, onSettle)
}

// Cancel abandons the in-flight preparation. Its result, if it still
// arrives, is dropped.
func (m *Manager) Cancel() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelLocked()
}

// Release cancels any preparation and disposes the live handle.
func (m *Manager) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelLocked()
	m.releaseLocked()
}

// SetPaused pauses or resumes the live handle, if any.
func (m *Manager) SetPaused(paused bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return
	}
	if paused {
		m.active.Pause()
		return
	}
	if err := m.active.Play(); err != nil {
		m.logger.Warn("resume video", "snap", m.activeID, "err", err)
	}
}

// Active returns the snap id of the live handle, or "" if none.
func (m *Manager) Active() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeID
}

// BytesRead reports how much the live handle has streamed.
func (m *Manager) BytesRead() (int64, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bc, ok := m.active.(ByteCounter)
	if !ok {
		return 0, false
	}
	return bc.BytesRead(), true
}

// Photos returns the photo cache, which may be nil.
func (m *Manager) Photos() *PhotoCache {
	return m.photos
}

// Rewrite applies the manager's locator rewrite.
func (m *Manager) Rewrite(loc string) string {
	return m.rewrite(loc)
}

// Close releases everything and waits for background work to unwind.
func (m *Manager) Close() {
	m.Release()
	m.wg.Wait()
}

func (m *Manager) preparePhoto(ctx context.Context, seq uint64, snap story.Snap, loc string, onSettle func(Result)) {
	defer m.wg.Done()

	m.settle(seq, Result{SnapID: snap.ID, Locator: loc, Status: Ready}, onSettle)

	if m.photos == nil {
		return
	}
	if p := m.photos.Fetch(ctx, loc); p.Err != nil && ctx.Err() == nil {
		m.logger.Warn("prefetch photo", "snap", snap.ID, "locator", loc, "err", p.Err)
	}
}

func (m *Manager) prepareVideo(ctx context.Context, seq uint64, snap story.Snap, loc string, onSettle func(Result)) {
	defer m.wg.Done()

	ictx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	// Wait for the previous handle, live or unwinding, to be gone.
	select {
	case m.slot <- struct{}{}:
	case <-ictx.Done():
		m.fail(seq, snap, loc, ictx.Err(), onSettle)
		return
	}

	h, err := m.decoder.Open(ictx, loc)
	if err == nil && ictx.Err() != nil {
		m.closeHandle(snap.ID, h)
		err = ictx.Err()
	}
	if err != nil {
		<-m.slot
		m.fail(seq, snap, loc, err, onSettle)
		return
	}

	m.mu.Lock()
	if seq != m.seq {
		m.mu.Unlock()
		m.closeHandle(snap.ID, h)
		<-m.slot
		return
	}
	h.SetLooping(true)
	if err := h.Play(); err != nil {
		m.mu.Unlock()
		m.closeHandle(snap.ID, h)
		<-m.slot
		m.fail(seq, snap, loc, err, onSettle)
		return
	}
	m.active = h
	m.activeID = snap.ID
	m.mu.Unlock()

	m.logger.Debug("video ready", "snap", snap.ID, "locator", loc)
	m.settle(seq, Result{SnapID: snap.ID, Locator: loc, Status: Ready}, onSettle)
}

func (m *Manager) fail(seq uint64, snap story.Snap, loc string, err error, onSettle func(Result)) {
	err = fmt.Errorf("init %s: %w", loc, err)
	if m.settle(seq, Result{SnapID: snap.ID, Locator: loc, Status: Failed, Err: err}, onSettle) {
		m.logger.Warn("video init failed", "snap", snap.ID, "err", err)
	}
}

// settle delivers res if seq is still the current preparation.
func (m *Manager) settle(seq uint64, res Result, onSettle func(Result)) bool {
	m.mu.Lock()
	current := seq == m.seq
	m.mu.Unlock()
	if !current {
		return false
	}
	if onSettle != nil {
		onSettle(res)
	}
	return true
}

func (m *Manager) cancelLocked() {
	m.seq++
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Manager) releaseLocked() {
	if m.active == nil {
		return
	}
	m.closeHandle(m.activeID, m.active)
	m.active = nil
	m.activeID = ""
	<-m.slot
}

func (m *Manager) closeHandle(id string, h Handle) {
	if err := h.Close(); err != nil {
		m.logger.Warn("close video", "snap", id, "err", err)
	}
}
