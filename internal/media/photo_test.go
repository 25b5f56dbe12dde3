package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/chai2010/webp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := range w {
		for y := range h {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255}) //nolint:gosec // small test image
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPhotoCache_FetchDownsizes(t *testing.T) {
	var hits atomic.Int32
	data := pngBytes(t, 200, 100)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write(data)
	}))
	defer srv.Close()
	c := NewPhotoCache(srv.Client(), 40, 40)
	loc := srv.URL + "/a.png"

	p := c.Fetch(context.Background(), loc)

	require.NoError(t, p.Err)
	require.NotNil(t, p.Image)
	b := p.Image.Bounds()
	assert.LessOrEqual(t, b.Dx(), 40)
	assert.LessOrEqual(t, b.Dy(), 40)
	assert.Equal(t, int64(len(data)), p.Size)

	again := c.Fetch(context.Background(), loc)
	assert.Equal(t, p.Image, again.Image)
	assert.Equal(t, int32(1), hits.Load(), "second fetch must hit the cache")

	got, ok := c.Get(loc)
	assert.True(t, ok)
	assert.NoError(t, got.Err)
}

func TestPhotoCache_DecodesWebP(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 8))
	for x := range 16 {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, webp.Encode(&buf, img, &webp.Options{Lossless: true}))
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()

	p := NewPhotoCache(srv.Client(), 0, 0).Fetch(context.Background(), srv.URL+"/a.webp")

	require.NoError(t, p.Err)
	assert.Equal(t, 16, p.Image.Bounds().Dx())
	assert.Equal(t, 8, p.Image.Bounds().Dy())
}

func TestPhotoCache_CachesFailure(t *testing.T) {
	srv := serve(t, []byte("definitely not an image"))
	c := NewPhotoCache(srv.Client(), 0, 0)
	loc := srv.URL + "/broken.jpg"

	p := c.Fetch(context.Background(), loc)

	assert.ErrorIs(t, p.Err, ErrNotImage)
	got, ok := c.Get(loc)
	assert.True(t, ok)
	assert.ErrorIs(t, got.Err, ErrNotImage)
}

func TestPhotoCache_CancelledFetchNotCached(t *testing.T) {
	srv := serve(t, pngBytes(t, 4, 4))
	c := NewPhotoCache(srv.Client(), 0, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := c.Fetch(ctx, srv.URL+"/a.png")

	assert.Error(t, p.Err)
	assert.Equal(t, 0, c.Len())
}

func TestPhotoCache_Retain(t *testing.T) {
	srv := serve(t, pngBytes(t, 4, 4))
	c := NewPhotoCache(srv.Client(), 0, 0)
	a, b := srv.URL+"/a.png", srv.URL+"/b.png"
	c.Fetch(context.Background(), a)
	c.Fetch(context.Background(), b)

	c.Retain(b)

	_, okA := c.Get(a)
	_, okB := c.Get(b)
	assert.False(t, okA)
	assert.True(t, okB)
}

func TestPhotoCache_NilGet(t *testing.T) {
	var c *PhotoCache
	_, ok := c.Get("x")
	assert.False(t, ok)
}
