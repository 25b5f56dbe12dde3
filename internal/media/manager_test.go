package media

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/reel/internal/story"
)

func videoSnap(id string) story.Snap {
	return story.Snap{ID: id, Kind: story.Video, MediaRef: "http://cdn/" + id + ".mp4"}
}

func photoSnap(id string) story.Snap {
	return story.Snap{ID: id, Kind: story.Photo, MediaRef: "http://cdn/" + id + ".jpg"}
}

func collect() (chan Result, func(Result)) {
	ch := make(chan Result, 8)
	return ch, func(r Result) { ch <- r }
}

func waitResult(t *testing.T, ch <-chan Result) Result {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for result")
		return Result{}
	}
}

func expectNoResult(t *testing.T, ch <-chan Result) {
	t.Helper()
	select {
	case r := <-ch:
		t.Fatalf("unexpected result: %+v", r)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestManager_VideoReady(t *testing.T) {
	dec := NewFakeDecoder()
	m := NewManager(dec, WithRewrite(func(s string) string { return s + "?rw" }))
	defer m.Close()
	ch, onSettle := collect()

	m.Prepare(context.Background(), videoSnap("v1"), onSettle)

	r := waitResult(t, ch)
	assert.Equal(t, Ready, r.Status)
	assert.Equal(t, "v1", r.SnapID)
	assert.Equal(t, "http://cdn/v1.mp4?rw", r.Locator)
	assert.Equal(t, []string{"http://cdn/v1.mp4?rw"}, dec.Opens())

	handles := dec.Handles()
	require.Len(t, handles, 1)
	assert.True(t, handles[0].Looping(), "video must loop")
	assert.True(t, handles[0].Playing(), "video must start playing")
	assert.Equal(t, "v1", m.Active())
}

func TestManager_PhotoSettlesWithoutDecoder(t *testing.T) {
	dec := NewFakeDecoder()
	m := NewManager(dec)
	defer m.Close()
	ch, onSettle := collect()

	m.Prepare(context.Background(), photoSnap("p1"), onSettle)

	r := waitResult(t, ch)
	assert.Equal(t, Ready, r.Status)
	assert.Empty(t, dec.Opens())
}

func TestManager_PhotoReleasesLiveVideo(t *testing.T) {
	dec := NewFakeDecoder()
	m := NewManager(dec)
	defer m.Close()
	ch, onSettle := collect()

	m.Prepare(context.Background(), videoSnap("v1"), onSettle)
	waitResult(t, ch)
	m.Prepare(context.Background(), photoSnap("p1"), onSettle)
	waitResult(t, ch)

	assert.Equal(t, 0, dec.Live())
	assert.True(t, dec.Handles()[0].Closed())
	assert.Empty(t, m.Active())
}

func TestManager_NeverTwoLiveHandles(t *testing.T) {
	dec := NewFakeDecoder()
	m := NewManager(dec)
	defer m.Close()
	ch, onSettle := collect()

	m.Prepare(context.Background(), videoSnap("v1"), onSettle)
	waitResult(t, ch)

	release := dec.Gate()
	m.Prepare(context.Background(), videoSnap("v2"), onSettle)
	m.Prepare(context.Background(), videoSnap("v3"), onSettle)
	m.Prepare(context.Background(), videoSnap("v4"), onSettle)
	release()

	r := waitResult(t, ch)
	assert.Equal(t, "v4", r.SnapID)
	assert.Equal(t, Ready, r.Status)
	expectNoResult(t, ch)

	assert.LessOrEqual(t, dec.MaxLive(), 1)
	assert.Equal(t, 1, dec.Live())
	assert.Equal(t, "v4", m.Active())
}

func TestManager_TimeoutSettlesFailed(t *testing.T) {
	dec := NewFakeDecoder()
	dec.Hang(true)
	m := NewManager(dec, WithTimeout(30*time.Millisecond))
	defer m.Close()
	ch, onSettle := collect()

	m.Prepare(context.Background(), videoSnap("slow"), onSettle)

	r := waitResult(t, ch)
	assert.Equal(t, Failed, r.Status)
	assert.ErrorIs(t, r.Err, context.DeadlineExceeded)
	assert.Equal(t, 0, dec.Live())
}

func TestManager_OpenErrorSettlesFailed(t *testing.T) {
	dec := NewFakeDecoder()
	boom := errors.New("decoder exploded")
	dec.SetOpenError(boom)
	m := NewManager(dec)
	defer m.Close()
	ch, onSettle := collect()

	m.Prepare(context.Background(), videoSnap("bad"), onSettle)

	r := waitResult(t, ch)
	assert.Equal(t, Failed, r.Status)
	assert.ErrorIs(t, r.Err, boom)
	assert.Empty(t, m.Active())
}

func TestManager_CancelDropsLateResult(t *testing.T) {
	dec := NewFakeDecoder()
	release := dec.Gate()
	m := NewManager(dec)
	defer m.Close()
	ch, onSettle := collect()

	m.Prepare(context.Background(), videoSnap("v1"), onSettle)
	m.Cancel()
	release()

	expectNoResult(t, ch)
	assert.Equal(t, 0, dec.Live())
}

func TestManager_ReleaseClosesHandle(t *testing.T) {
	dec := NewFakeDecoder()
	m := NewManager(dec)
	ch, onSettle := collect()

	m.Prepare(context.Background(), videoSnap("v1"), onSettle)
	waitResult(t, ch)
	m.Release()

	assert.Equal(t, 0, dec.Live())
	assert.True(t, dec.Handles()[0].Closed())
	m.Close()
}

func TestManager_SetPaused(t *testing.T) {
	dec := NewFakeDecoder()
	m := NewManager(dec)
	defer m.Close()
	ch, onSettle := collect()

	m.Prepare(context.Background(), videoSnap("v1"), onSettle)
	waitResult(t, ch)
	h := dec.Handles()[0]

	m.SetPaused(true)
	assert.False(t, h.Playing())
	m.SetPaused(false)
	assert.True(t, h.Playing())
}

func TestManager_HungOpenDoesNotBlockPrepare(t *testing.T) {
	dec := NewFakeDecoder()
	dec.Hang(true)
	m := NewManager(dec)
	defer m.Close()
	_, onSettle := collect()

	done := make(chan struct{})
	go func() {
		m.Prepare(context.Background(), videoSnap("v1"), onSettle)
		m.Prepare(context.Background(), photoSnap("p1"), onSettle)
		m.Release()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Prepare/Release blocked on a hung decoder")
	}
}
