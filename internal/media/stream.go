package media

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

const (
	sniffLen  = 3072
	chunkSize = 32 * 1024
	loopDelay = time.Second
)

// StreamDecoder opens video locators as byte streams. A handle is ready once
// the leading bytes sniff as video; playing it pumps the stream, restarting
// from the top at EOF while looping.
type StreamDecoder struct {
	Client *http.Client
}

// NewStreamDecoder creates a decoder fetching over client (nil means
// http.DefaultClient).
func NewStreamDecoder(client *http.Client) *StreamDecoder {
	return &StreamDecoder{Client: client}
}

// Open opens loc and checks that it is a video. ctx bounds initialization
// only; the returned handle lives until Close.
func (d *StreamDecoder) Open(ctx context.Context, loc string) (Handle, error) {
	client := defaultClient(d.Client)
	hctx, cancel := context.WithCancel(context.Background())
	h := &streamHandle{
		ctx:    hctx,
		cancel: cancel,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		open: func(ctx context.Context) (io.ReadCloser, error) {
			return openLocator(ctx, client, loc)
		},
	}

	stop := context.AfterFunc(ctx, cancel)
	err := h.init()
	if !stop() {
		// ctx ended during init and already cancelled the handle.
		if err == nil {
			_ = h.Close()
		}
		return nil, ctx.Err()
	}
	if err != nil {
		cancel()
		return nil, err
	}
	return h, nil
}

type streamHandle struct {
	ctx    context.Context
	cancel context.CancelFunc
	open   func(context.Context) (io.ReadCloser, error)

	mu      sync.Mutex
	body    io.Closer
	reader  io.Reader
	started bool
	closed  bool

	paused  atomic.Bool
	looping atomic.Bool
	bytes   atomic.Int64
	wake    chan struct{}
	done    chan struct{}

	closeOnce sync.Once
}

func (h *streamHandle) init() error {
	rc, err := h.open(h.ctx)
	if err != nil {
		return err
	}
	br := bufio.NewReaderSize(rc, sniffLen)
	head, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		rc.Close()
		return err
	}
	if len(head) == 0 {
		rc.Close()
		return fmt.Errorf("%w: empty stream", ErrNotVideo)
	}
	mt := mimetype.Detect(head)
	if !strings.HasPrefix(mt.String(), "video/") {
		rc.Close()
		return fmt.Errorf("%w: %s", ErrNotVideo, mt.String())
	}

	h.mu.Lock()
	h.body = rc
	h.reader = br
	h.mu.Unlock()
	return nil
}

func (h *streamHandle) SetLooping(loop bool) {
	h.looping.Store(loop)
}

func (h *streamHandle) Play() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return errors.New("handle closed")
	}
	h.paused.Store(false)
	if h.started {
		select {
		case h.wake <- struct{}{}:
		default:
		}
		return nil
	}
	h.started = true
	go h.pump()
	return nil
}

func (h *streamHandle) Pause() {
	h.paused.Store(true)
}

func (h *streamHandle) BytesRead() int64 {
	return h.bytes.Load()
}

func (h *streamHandle) Close() error {
	h.closeOnce.Do(func() {
		h.cancel()
		h.mu.Lock()
		h.closed = true
		started := h.started
		if h.body != nil {
			h.body.Close()
		}
		h.mu.Unlock()
		if started {
			<-h.done
		}
	})
	return nil
}

func (h *streamHandle) pump() {
	defer close(h.done)
	buf := make([]byte, chunkSize)
	for {
		if !h.waitPlaying() {
			return
		}
		h.mu.Lock()
		r := h.reader
		h.mu.Unlock()

		n, err := r.Read(buf)
		h.bytes.Add(int64(n))
		switch {
		case errors.Is(err, io.EOF):
			if !h.looping.Load() || !h.restart() {
				return
			}
		case err != nil:
			return
		}
	}
}

func (h *streamHandle) waitPlaying() bool {
	for h.paused.Load() {
		select {
		case <-h.ctx.Done():
			return false
		case <-h.wake:
		}
	}
	return h.ctx.Err() == nil
}

// restart reopens the stream from the top for the next loop.
func (h *streamHandle) restart() bool {
	select {
	case <-h.ctx.Done():
		return false
	case <-time.After(loopDelay):
	}
	rc, err := h.open(h.ctx)
	if err != nil {
		return false
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		rc.Close()
		return false
	}
	h.body.Close()
	h.body = rc
	h.reader = rc
	return true
}
