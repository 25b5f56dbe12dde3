package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder for image.Decode
	_ "image/jpeg" // Register JPEG decoder for image.Decode
	_ "image/png"  // Register PNG decoder for image.Decode
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/chai2010/webp"
	"github.com/gabriel-vasile/mimetype"
	"github.com/nfnt/resize"
)

const maxPhotoBytes = 32 << 20

// Photo is a fetched, downsized photo or the error that prevented it.
type Photo struct {
	Image image.Image
	Size  int64 // bytes fetched
	Err   error
}

// PhotoCache fetches photos once per locator and keeps them downsized for
// terminal display. Failures are cached too so the display can show an error
// glyph instead of loading forever.
type PhotoCache struct {
	client    *http.Client
	maxWidth  uint
	maxHeight uint

	mu       sync.RWMutex
	entries  map[string]Photo
	inflight map[string]chan struct{}
}

// NewPhotoCache creates a cache that downsizes photos to fit maxWidth x
// maxHeight pixels (0 keeps the original size).
func NewPhotoCache(client *http.Client, maxWidth, maxHeight uint) *PhotoCache {
	return &PhotoCache{
		client:    defaultClient(client),
		maxWidth:  maxWidth,
		maxHeight: maxHeight,
		entries:   make(map[string]Photo),
		inflight:  make(map[string]chan struct{}),
	}
}

// Get returns the cached photo for loc.
func (c *PhotoCache) Get(loc string) (Photo, bool) {
	if c == nil {
		return Photo{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.entries[loc]
	return p, ok
}

// Fetch returns the photo for loc, downloading it if needed. Concurrent
// fetches of one locator share a single download. A cancelled fetch is not
// cached.
func (c *PhotoCache) Fetch(ctx context.Context, loc string) Photo {
	for {
		c.mu.Lock()
		if p, ok := c.entries[loc]; ok {
			c.mu.Unlock()
			return p
		}
		wait, busy := c.inflight[loc]
		if !busy {
			ch := make(chan struct{})
			c.inflight[loc] = ch
			c.mu.Unlock()
			return c.download(ctx, loc, ch)
		}
		c.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return Photo{Err: ctx.Err()}
		}
	}
}

// Retain drops every entry whose locator is not in keep.
func (c *PhotoCache) Retain(keep ...string) {
	set := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		set[k] = struct{}{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for loc := range c.entries {
		if _, ok := set[loc]; !ok {
			delete(c.entries, loc)
		}
	}
}

// Len returns the number of cached entries.
func (c *PhotoCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *PhotoCache) download(ctx context.Context, loc string, done chan struct{}) Photo {
	p := c.load(ctx, loc)

	c.mu.Lock()
	if ctx.Err() == nil {
		c.entries[loc] = p
	}
	delete(c.inflight, loc)
	c.mu.Unlock()
	close(done)
	return p
}

func (c *PhotoCache) load(ctx context.Context, loc string) Photo {
	rc, err := openLocator(ctx, c.client, loc)
	if err != nil {
		return Photo{Err: err}
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, maxPhotoBytes))
	if err != nil {
		return Photo{Err: err}
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return Photo{Size: int64(len(data)), Err: fmt.Errorf("%w: %s", ErrNotImage, mt.String())}
	}

	img, err := decodeImage(data, mt)
	if err != nil {
		return Photo{Size: int64(len(data)), Err: fmt.Errorf("decode %s: %w", mt.String(), err)}
	}

	if c.maxWidth > 0 || c.maxHeight > 0 {
		w, h := c.maxWidth, c.maxHeight
		b := img.Bounds()
		if w == 0 {
			w = uint(b.Dx()) //nolint:gosec // image bounds are non-negative
		}
		if h == 0 {
			h = uint(b.Dy()) //nolint:gosec // image bounds are non-negative
		}
		img = resize.Thumbnail(w, h, img, resize.Lanczos3)
	}

	return Photo{Image: img, Size: int64(len(data))}
}

func decodeImage(data []byte, mt *mimetype.MIME) (image.Image, error) {
	if mt.Is("image/webp") {
		return webp.Decode(bytes.NewReader(data))
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}
