// Package media owns the single live media session of the viewer: it opens
// and initializes video decoders, prefetches photos and disposes whatever the
// previous snap left behind.
package media

import (
	"context"
	"errors"
	"time"
)

// InitTimeout bounds how long a video may take to become playable.
const InitTimeout = 10 * time.Second

var (
	ErrNotVideo    = errors.New("locator is not a video")
	ErrNotImage    = errors.New("locator is not an image")
	ErrUnsupported = errors.New("unsupported locator scheme")
)

// Status is how a preparation settled.
type Status int

const (
	Ready Status = iota
	Failed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Ready:
		return "Ready"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Result is delivered once per preparation that was not superseded.
type Result struct {
	SnapID  string
	Locator string // after rewriting
	Status  Status
	Err     error
}

// Handle is a live, initialized decoder for one video.
type Handle interface {
	SetLooping(loop bool)
	Play() error
	Pause()
	Close() error
}

// Decoder opens and initializes a video handle. Open must honor ctx
// cancellation; a handle returned after ctx is done is closed by the caller.
type Decoder interface {
	Open(ctx context.Context, locator string) (Handle, error)
}

// ByteCounter is implemented by handles that stream from the network.
type ByteCounter interface {
	BytesRead() int64
}
