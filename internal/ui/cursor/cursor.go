// Package cursor tracks the selected row and scroll offset of a list.
package cursor

import "github.com/llehouerou/reel/internal/keymap"

// Cursor manages cursor position and scroll offset for a scrollable list.
// The list length and viewport height are passed to methods rather than stored,
// since they change whenever the feed reloads or the terminal resizes.
type Cursor struct {
	pos    int
	offset int // first visible row
	margin int // rows kept visible above/below the cursor
}

// New creates a Cursor with the given scroll margin.
func New(margin int) Cursor {
	return Cursor{margin: margin}
}

// Pos returns the selected row.
func (c Cursor) Pos() int {
	return c.pos
}

// Offset returns the first visible row.
func (c Cursor) Offset() int {
	return c.offset
}

// Move moves the cursor by delta rows, clamped to the list.
func (c *Cursor) Move(delta, listLen, height int) {
	c.Jump(c.pos+delta, listLen, height)
}

// Jump selects row pos, clamped to the list.
func (c *Cursor) Jump(pos, listLen, height int) {
	if listLen == 0 {
		return
	}
	c.pos = clamp(pos, listLen-1)
	c.ensureVisible(listLen, height)
}

// HandleAction applies a list navigation action and reports whether it was
// one.
func (c *Cursor) HandleAction(a keymap.Action, listLen, height int) bool {
	switch a {
	case keymap.ActionMoveDown:
		c.Move(1, listLen, height)
	case keymap.ActionMoveUp:
		c.Move(-1, listLen, height)
	case keymap.ActionJumpStart:
		c.Jump(0, listLen, height)
	case keymap.ActionJumpEnd:
		c.Jump(listLen-1, listLen, height)
	default:
		return false
	}
	return true
}

// RowAt returns the list index shown on visible line y, or -1.
func (c Cursor) RowAt(y, listLen, height int) int {
	if y < 0 || y >= height {
		return -1
	}
	i := c.offset + y
	if i >= listLen {
		return -1
	}
	return i
}

// ClampToBounds keeps the cursor inside a list that may have shrunk and
// reports whether it moved.
func (c *Cursor) ClampToBounds(listLen, height int) bool {
	old := c.pos
	if listLen == 0 {
		c.pos, c.offset = 0, 0
		return old != 0
	}
	c.pos = clamp(c.pos, listLen-1)
	c.ensureVisible(listLen, height)
	return c.pos != old
}

// VisibleRange returns the range of visible indices [start, end).
func (c Cursor) VisibleRange(listLen, height int) (start, end int) {
	if listLen == 0 || height <= 0 {
		return 0, 0
	}
	return c.offset, min(c.offset+height, listLen)
}

func (c *Cursor) ensureVisible(listLen, height int) {
	if height <= 0 || listLen == 0 {
		return
	}
	margin := min(c.margin, (height-1)/2)
	if c.pos < c.offset+margin {
		c.offset = max(c.pos-margin, 0)
	}
	if c.pos >= c.offset+height-margin {
		c.offset = c.pos - height + margin + 1
	}
	c.offset = clamp(c.offset, max(listLen-height, 0))
}

func clamp(v, maxVal int) int {
	if v < 0 {
		return 0
	}
	if v > maxVal {
		return maxVal
	}
	return v
}
