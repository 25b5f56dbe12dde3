package feedlist

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/reel/internal/story"
	"github.com/llehouerou/reel/internal/ui/render"
	"github.com/llehouerou/reel/internal/ui/storyview"
	"github.com/llehouerou/reel/internal/ui/styles"
)

// View renders the author list.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	s := styles.T().S()

	title := styles.ApplyBoldGradient("reel", styles.T().Primary, styles.T().Secondary)
	count := s.Muted.Render(plural(len(m.stories), "story", "stories"))
	lines := []string{
		render.Row(title, count, m.width),
		s.Subtle.Render(render.Separator(m.width)),
	}

	height := m.listHeight()
	if len(m.stories) == 0 {
		lines = append(lines, s.Muted.Render("No active stories. Press r to reload."))
	}
	start, end := m.cursor.VisibleRange(len(m.stories), height)
	now := m.now()
	for i := start; i < end; i++ {
		row := m.row(m.stories[i], now)
		if i == m.cursor.Pos() {
			row = s.Cursor.Render(render.Pad(row, m.width))
		}
		lines = append(lines, row)
	}

	body := lipgloss.Place(m.width, m.height-footerHeight, lipgloss.Left, lipgloss.Top, strings.Join(lines, "\n"))
	status := m.status
	if status != "" {
		status = s.Error.Render(render.Truncate(status, m.width))
	}
	return body + "\n" + status
}

func (m Model) row(st story.Story, now time.Time) string {
	name := st.DisplayName
	if name == "" {
		name = st.AuthorID
	}
	var newest time.Time
	for _, sn := range st.Snaps {
		if sn.CreatedAt.After(newest) {
			newest = sn.CreatedAt
		}
	}
	left := " " + styles.Initial(name) + "  " + render.Sanitize(name)
	right := plural(len(st.Snaps), "snap", "snaps")
	if age := storyview.RelativeAge(newest, now); age != "" {
		right += " · " + age
	}
	right += " "
	return render.Row(render.Truncate(left, max(m.width-lipgloss.Width(right)-1, 1)), right, m.width)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
