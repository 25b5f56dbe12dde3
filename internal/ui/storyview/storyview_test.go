package storyview

import (
	"errors"
	"image"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/llehouerou/reel/internal/media"
	"github.com/llehouerou/reel/internal/playback"
	"github.com/llehouerou/reel/internal/story"
	"github.com/llehouerou/reel/internal/ui/testutil"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func snapshot(state playback.State, snap story.Snap) playback.Snapshot {
	return playback.Snapshot{
		Stories: story.Collection{{
			AuthorID:    "alice",
			DisplayName: "alice",
			Snaps:       []story.Snap{snap, {ID: "s2", MediaRef: "b.jpg"}},
		}},
		Pos:      story.Position{},
		State:    state,
		Snap:     snap,
		HasSnap:  true,
		Progress: []float64{0.5, 0},
	}
}

func photo(caption string) story.Snap {
	return story.Snap{ID: "s1", MediaRef: "a.jpg", Kind: story.Photo, Caption: caption, CreatedAt: now.Add(-90 * time.Minute)}
}

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestRelativeAge(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{0, "Just now"},
		{59 * time.Second, "Just now"},
		{time.Minute, "1m"},
		{59 * time.Minute, "59m"},
		{time.Hour, "1h"},
		{23*time.Hour + 59*time.Minute, "23h"},
		{24 * time.Hour, "1d"},
		{80 * time.Hour, "3d"},
		{-time.Hour, "Just now"},
	}
	for _, tt := range tests {
		if got := RelativeAge(now.Add(-tt.ago), now); got != tt.want {
			t.Errorf("RelativeAge(-%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
	if got := RelativeAge(time.Time{}, now); got != "" {
		t.Errorf("RelativeAge(zero) = %q, want empty", got)
	}
}

func TestProgress(t *testing.T) {
	got := testutil.StripANSI(Progress([]float64{1, 0.5, 0}, 32))
	if w := testutil.MeasureWidth(got); w > 32 {
		t.Errorf("width = %d, want <= 32", w)
	}
	bars := strings.Split(got, " ")
	if len(bars) != 3 {
		t.Fatalf("bars = %q, want 3", bars)
	}
	// each bar is 10 cells
	if bars[0] != strings.Repeat("━", 10) {
		t.Errorf("past bar = %q, want full", bars[0])
	}
	if bars[1] != strings.Repeat("━", 5)+strings.Repeat("─", 5) {
		t.Errorf("current bar = %q, want half", bars[1])
	}
	if bars[2] != strings.Repeat("─", 10) {
		t.Errorf("future bar = %q, want empty", bars[2])
	}
}

func TestProgressNarrow(t *testing.T) {
	got := testutil.StripANSI(Progress(make([]float64, 10), 5))
	if strings.Contains(got, " ") {
		t.Errorf("narrow row should drop gaps, got %q", got)
	}
	if Progress(nil, 10) != "" {
		t.Error("no values should render nothing")
	}
}

func TestProgressClamps(t *testing.T) {
	got := testutil.StripANSI(Progress([]float64{2, -1}, 9))
	if got != "━━━━ ────" {
		t.Errorf("Progress = %q", got)
	}
}

func TestRenderDimensions(t *testing.T) {
	f := Frame{
		Snapshot: snapshot(playback.StatePlaying, photo("a caption")),
		Photo:    media.Photo{Image: solid(16, 16, color.White)},
		HasPhoto: true,
		Now:      now,
		Width:    40,
		Height:   20,
	}
	out := Render(f)
	lines := strings.Split(out, "\n")
	if len(lines) != 20 {
		t.Errorf("lines = %d, want 20", len(lines))
	}
	for i, w := range testutil.LineWidths(out) {
		if w != 40 {
			t.Errorf("line %d width = %d, want 40", i, w)
		}
	}
}

func TestRenderHeader(t *testing.T) {
	f := Frame{Snapshot: snapshot(playback.StatePlaying, photo("")), Now: now, Width: 40, Height: 12}
	out := testutil.StripANSI(Render(f))
	header := testutil.FindLine(out, "alice")
	if header == "" {
		t.Fatalf("header missing in:\n%s", out)
	}
	if !strings.Contains(header, " A ") {
		t.Errorf("header should show the avatar initial, got %q", header)
	}
	if !strings.HasSuffix(strings.TrimRight(header, " "), "1h") {
		t.Errorf("header should end with the age, got %q", header)
	}
}

func TestRenderCaptionOnlyWhenPresent(t *testing.T) {
	with := testutil.StripANSI(Render(Frame{Snapshot: snapshot(playback.StatePlaying, photo("sunset at the pier")), Now: now, Width: 40, Height: 14}))
	if !testutil.ContainsLine(with, "sunset at the pier") {
		t.Error("caption should be shown")
	}
	if !testutil.ContainsLine(with, "╭") {
		t.Error("caption should be boxed")
	}

	without := testutil.StripANSI(Render(Frame{Snapshot: snapshot(playback.StatePlaying, photo("")), Now: now, Width: 40, Height: 14}))
	if testutil.ContainsLine(without, "╭") {
		t.Error("empty caption should not draw a box")
	}

	spaces := testutil.StripANSI(Render(Frame{Snapshot: snapshot(playback.StatePlaying, photo("   ")), Now: now, Width: 40, Height: 14}))
	if !testutil.ContainsLine(spaces, "╭") {
		t.Error("a whitespace caption is not empty and should keep its box")
	}
}

func TestRenderLongCaptionIsCapped(t *testing.T) {
	caption := strings.Repeat("word ", 60)
	out := testutil.StripANSI(Render(Frame{Snapshot: snapshot(playback.StatePlaying, photo(caption)), Now: now, Width: 30, Height: 20}))
	count := strings.Count(out, "word")
	if count == 0 || count >= 60 {
		t.Errorf("caption words shown = %d, want a capped subset", count)
	}
	if !strings.Contains(out, "…") {
		t.Error("a capped caption should end with an ellipsis")
	}
}

func TestRenderPauseGlyph(t *testing.T) {
	f := Frame{
		Snapshot: snapshot(playback.StatePaused, photo("")),
		Photo:    media.Photo{Image: solid(8, 8, color.Black)},
		HasPhoto: true,
		Now:      now,
		Width:    40,
		Height:   16,
	}
	if !strings.Contains(testutil.StripANSI(Render(f)), pauseGlyph) {
		t.Error("paused frame should show the pause glyph")
	}

	f.Snapshot.State = playback.StatePlaying
	if strings.Contains(testutil.StripANSI(Render(f)), pauseGlyph) {
		t.Error("playing frame should not show the pause glyph")
	}
}

func TestRenderLoadingShowsSpinner(t *testing.T) {
	snap := story.Snap{ID: "v", MediaRef: "v.mp4", Kind: story.Video}
	ss := snapshot(playback.StateLoadingMedia, snap)
	f := Frame{Snapshot: ss, Spinner: "◐", Now: now, Width: 30, Height: 12}
	if !strings.Contains(testutil.StripANSI(Render(f)), "◐") {
		t.Error("loading should show the spinner")
	}

	// failure keeps the same visual
	f.Snapshot.MediaFailed = true
	out := testutil.StripANSI(Render(f))
	if !strings.Contains(out, "◐") {
		t.Error("failed video should keep the spinner")
	}
	if strings.Contains(out, errorGlyph) {
		t.Error("failed video should not show an error glyph")
	}
}

func TestRenderBrokenPhoto(t *testing.T) {
	f := Frame{
		Snapshot: snapshot(playback.StatePlaying, photo("")),
		Photo:    media.Photo{Err: errors.New("404")},
		HasPhoto: true,
		Now:      now,
		Width:    40,
		Height:   12,
	}
	if !strings.Contains(testutil.StripANSI(Render(f)), errorGlyph) {
		t.Error("broken photo should show the error glyph")
	}
}

func TestRenderPhotoPending(t *testing.T) {
	f := Frame{Snapshot: snapshot(playback.StatePlaying, photo("")), Spinner: "◓", Now: now, Width: 40, Height: 12}
	if !strings.Contains(testutil.StripANSI(Render(f)), "◓") {
		t.Error("photo still fetching should show the spinner")
	}
}

func TestRenderVideoCard(t *testing.T) {
	snap := story.Snap{ID: "v", MediaRef: "http://10.0.2.2:9199/v.mp4", Kind: story.Video, Filter: story.FilterCool}
	f := Frame{Snapshot: snapshot(playback.StatePlaying, snap), Buffered: 1_500_000, Now: now, Width: 60, Height: 16}
	out := testutil.StripANSI(Render(f))
	if !strings.Contains(out, "buffered 1.5 MB") {
		t.Errorf("video card should show buffered bytes, got:\n%s", out)
	}
	if !strings.Contains(out, "▶ video") {
		t.Error("video card should be labelled")
	}
}

func TestRenderIdle(t *testing.T) {
	out := Render(Frame{Width: 20, Height: 5})
	if got := testutil.CountLines(testutil.StripANSI(out)); got != 0 {
		t.Errorf("idle frame should be blank, got %d non-empty lines", got)
	}
	if Render(Frame{}) != "" {
		t.Error("zero size should render nothing")
	}
}

func TestImage(t *testing.T) {
	out := testutil.StripANSI(Image(solid(20, 10, color.White), 10, 10, story.FilterWarm))
	lines := strings.Split(out, "\n")
	// 20x10 fits 10 wide: 10x5 pixels, 3 cell rows
	if len(lines) != 3 {
		t.Errorf("rows = %d, want 3", len(lines))
	}
	if lines[0] != strings.Repeat(halfBlock, 10) {
		t.Errorf("row = %q, want 10 half blocks", lines[0])
	}
	if Image(nil, 10, 10, story.FilterNone) != "" {
		t.Error("nil image should render nothing")
	}
}
