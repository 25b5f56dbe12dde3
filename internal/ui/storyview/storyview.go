// Package storyview renders the story viewer frame. It holds no state: every
// frame is a projection of the engine snapshot plus whatever media the caller
// has on hand.
package storyview

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/reel/internal/media"
	"github.com/llehouerou/reel/internal/playback"
	"github.com/llehouerou/reel/internal/story"
	"github.com/llehouerou/reel/internal/ui/overlay"
	"github.com/llehouerou/reel/internal/ui/render"
	"github.com/llehouerou/reel/internal/ui/styles"
)

const (
	maxCaptionLines = 3
	pauseGlyph      = "❚❚"
	errorGlyph      = "✗"
)

// Frame is everything a single render needs.
type Frame struct {
	Snapshot playback.Snapshot
	Photo    media.Photo
	HasPhoto bool
	Buffered int64 // bytes the live video has pulled so far
	Spinner  string
	Now      time.Time
	Width    int
	Height   int
}

// Render draws f at exactly Width x Height cells.
func Render(f Frame) string {
	if f.Width <= 0 || f.Height <= 0 {
		return ""
	}
	s := styles.T().S()
	snap := f.Snapshot

	var top []string
	top = append(top, Progress(snap.Progress, f.Width))
	if st, ok := snap.Story(); ok {
		top = append(top, Header(st, snap.Snap, f.Now, f.Width))
	} else {
		top = append(top, "")
	}
	top = append(top, "")

	var bottom []string
	if snap.HasSnap {
		bottom = captionLines(snap.Snap.Caption, f.Width)
	}

	bodyH := max(f.Height-len(top)-len(bottom), 1)
	body := Body(f, bodyH)
	if snap.State == playback.StatePaused {
		body = overlay.Center(body, s.Glyph.Render(pauseGlyph), f.Width, bodyH)
	}

	lines := make([]string, 0, f.Height)
	lines = append(lines, top...)
	lines = append(lines, strings.Split(body, "\n")...)
	lines = append(lines, bottom...)
	if len(lines) > f.Height {
		lines = lines[:f.Height]
	}
	return lipgloss.Place(f.Width, f.Height, lipgloss.Left, lipgloss.Top, strings.Join(lines, "\n"))
}

// Header shows the avatar initial, the author name and the snap's age.
func Header(st story.Story, snap story.Snap, now time.Time, width int) string {
	s := styles.T().S()
	name := st.DisplayName
	if name == "" {
		name = st.AuthorID
	}
	left := s.Avatar.Render(styles.Initial(name)) + " " + styles.AuthorName(render.Sanitize(name))
	return render.Row(left, s.Muted.Render(RelativeAge(snap.CreatedAt, now)), width)
}

// RelativeAge formats how long ago t was: "Just now" under a minute, then
// whole minutes, hours and days. A zero t has no age.
func RelativeAge(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "Just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d/time.Minute))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d/time.Hour))
	default:
		return fmt.Sprintf("%dd", int(d/(24*time.Hour)))
	}
}

// Progress draws one bar per value across width cells. Values are clamped
// to [0, 1].
func Progress(values []float64, width int) string {
	n := len(values)
	if n == 0 || width <= 0 {
		return ""
	}
	s := styles.T().S()
	gap := 1
	if width < 2*n-1 {
		gap = 0
	}
	barW := max((width-gap*(n-1))/n, 1)

	var b strings.Builder
	for i, v := range values {
		if i > 0 && gap > 0 {
			b.WriteString(strings.Repeat(" ", gap))
		}
		filled := int(min(max(v, 0), 1)*float64(barW) + 0.5)
		b.WriteString(s.BarFilled.Render(strings.Repeat("━", filled)))
		b.WriteString(s.BarEmpty.Render(strings.Repeat("─", barW-filled)))
	}
	return b.String()
}

// Body renders the media area for f at height lines.
func Body(f Frame, height int) string {
	s := styles.T().S()
	snap := f.Snapshot
	switch {
	case !snap.HasSnap:
		return blank(f.Width, height)
	case snap.State == playback.StateLoadingMedia:
		// a failed video keeps spinning: there is no retry and no error state
		return centered(f.Spinner, f.Width, height)
	case snap.Snap.Kind == story.Video:
		return VideoCard(snap.Snap, f.Buffered, f.Width, height)
	case !f.HasPhoto:
		return centered(f.Spinner, f.Width, height)
	case f.Photo.Err != nil || f.Photo.Image == nil:
		return centered(s.Error.Render(errorGlyph+" photo unavailable"), f.Width, height)
	default:
		return centered(Image(f.Photo.Image, f.Width, height, snap.Snap.Filter), f.Width, height)
	}
}

func captionLines(caption string, width int) []string {
	if caption == "" {
		return nil
	}
	s := styles.T().S()
	// border and padding take two cells on each side
	inner := max(width-4, 1)
	lines := render.Wrap(strings.TrimSpace(caption), inner)
	if len(lines) > maxCaptionLines {
		lines = lines[:maxCaptionLines]
		last := lines[maxCaptionLines-1]
		lines[maxCaptionLines-1] = render.TruncateEllipsis(last+" …", inner)
	}
	box := s.Caption.Width(width - 2).Render(strings.Join(lines, "\n"))
	return strings.Split(box, "\n")
}

func centered(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func blank(width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, "")
}
