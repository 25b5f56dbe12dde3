package storyview

import (
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/nfnt/resize"

	"github.com/llehouerou/reel/internal/story"
	"github.com/llehouerou/reel/internal/ui/render"
	"github.com/llehouerou/reel/internal/ui/styles"
)

const halfBlock = "▀"

// Image draws img with upper half blocks, two pixel rows per cell, scaled to
// fit width x height cells. The tint for f is blended into every pixel.
func Image(img image.Image, width, height int, f story.Filter) string {
	if img == nil || width <= 0 || height <= 0 {
		return ""
	}
	img = resize.Thumbnail(uint(width), uint(height*2), img, resize.Bilinear)
	b := img.Bounds()
	if b.Empty() {
		return ""
	}

	lines := make([]string, 0, (b.Dy()+1)/2)
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		var line strings.Builder
		for x := b.Min.X; x < b.Max.X; x++ {
			cell := lipgloss.NewStyle().Foreground(styles.Hex(img.At(x, y), f))
			if y+1 < b.Max.Y {
				cell = cell.Background(styles.Hex(img.At(x, y+1), f))
			}
			line.WriteString(cell.Render(halfBlock))
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// VideoCard stands in for a playing video: a tinted card with the snap's
// locator and how much of the stream has been buffered.
func VideoCard(snap story.Snap, buffered int64, width, height int) string {
	t := styles.T()
	bg := styles.Tinted(t.BgCard, snap.Filter)

	cardW := max(min(width-4, 40), 12)
	cardH := max(min(height-2, 7), 3)
	inner := cardW - 2

	rows := []string{
		"▶ video",
		render.Truncate(snap.MediaRef, inner),
		"buffered " + humanize.Bytes(uint64(max(buffered, 0))),
	}
	for i, r := range rows {
		rows[i] = render.Center(r, inner)
	}

	card := lipgloss.NewStyle().
		Background(bg).
		Foreground(t.FgBase).
		Width(cardW).
		Height(cardH).
		Padding(0, 1).
		AlignVertical(lipgloss.Center).
		Render(strings.Join(rows, "\n"))
	return centered(card, width, height)
}
