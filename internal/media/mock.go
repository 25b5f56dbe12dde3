package media

import (
	"context"
	"sync"
)

// FakeDecoder is a test double for Decoder. By default Open succeeds at once.
type FakeDecoder struct {
	mu      sync.Mutex
	openErr error
	hang    bool
	gate    chan struct{}
	opens   []string
	handles []*FakeHandle
	live    int
	maxLive int
}

// NewFakeDecoder creates a decoder whose opens succeed immediately.
func NewFakeDecoder() *FakeDecoder {
	return &FakeDecoder{}
}

func (d *FakeDecoder) Open(ctx context.Context, loc string) (Handle, error) {
	d.mu.Lock()
	d.opens = append(d.opens, loc)
	err, hang, gate := d.openErr, d.hang, d.gate
	d.mu.Unlock()

	if hang {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}

	h := &FakeHandle{dec: d, Locator: loc}
	d.mu.Lock()
	d.handles = append(d.handles, h)
	d.live++
	d.maxLive = max(d.maxLive, d.live)
	d.mu.Unlock()
	return h, nil
}

// Test helpers

// SetOpenError makes subsequent opens fail with err.
func (d *FakeDecoder) SetOpenError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.openErr = err
}

// Hang makes subsequent opens block until their context ends.
func (d *FakeDecoder) Hang(hang bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hang = hang
}

// Gate makes subsequent opens wait until the returned function is called.
func (d *FakeDecoder) Gate() (release func()) {
	ch := make(chan struct{})
	d.mu.Lock()
	d.gate = ch
	d.mu.Unlock()
	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

// Opens returns every locator passed to Open.
func (d *FakeDecoder) Opens() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.opens...)
}

// Handles returns every handle produced so far.
func (d *FakeDecoder) Handles() []*FakeHandle {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*FakeHandle(nil), d.handles...)
}

// Live returns the number of handles not yet closed.
func (d *FakeDecoder) Live() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.live
}

// MaxLive returns the highest number of simultaneously live handles.
func (d *FakeDecoder) MaxLive() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.maxLive
}

// FakeHandle records what was done to it.
type FakeHandle struct {
	dec     *FakeDecoder
	Locator string

	mu      sync.Mutex
	looping bool
	playing bool
	closed  bool
}

func (h *FakeHandle) SetLooping(loop bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.looping = loop
}

func (h *FakeHandle) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.playing = true
	return nil
}

func (h *FakeHandle) Pause() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.playing = false
}

func (h *FakeHandle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.playing = false
	h.mu.Unlock()

	h.dec.mu.Lock()
	h.dec.live--
	h.dec.mu.Unlock()
	return nil
}

// Looping reports whether looping was enabled.
func (h *FakeHandle) Looping() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.looping
}

// Playing reports whether the handle is playing.
func (h *FakeHandle) Playing() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.playing
}

// Closed reports whether the handle was closed.
func (h *FakeHandle) Closed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

// Verify FakeDecoder implements Decoder at compile time.
var _ Decoder = (*FakeDecoder)(nil)
