package story

import "fmt"

// Position addresses a snap inside a collection.
type Position struct {
	Story int
	Snap  int
}

// String formats the position as "(story,snap)".
func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Story, p.Snap)
}

// Next returns the position after p and false when p is the last snap of the
// last story.
func (c Collection) Next(p Position) (Position, bool) {
	if !c.Contains(p) {
		return p, false
	}
	if p.Snap < c[p.Story].LastSnap() {
		return Position{Story: p.Story, Snap: p.Snap + 1}, true
	}
	if p.Story < len(c)-1 {
		return Position{Story: p.Story + 1, Snap: 0}, true
	}
	return p, false
}

// Prev returns the position before p and false when p is the first snap of
// the first story. Stepping back into a previous story lands on its last snap.
func (c Collection) Prev(p Position) (Position, bool) {
	if !c.Contains(p) {
		return p, false
	}
	if p.Snap > 0 {
		return Position{Story: p.Story, Snap: p.Snap - 1}, true
	}
	if p.Story > 0 {
		return Position{Story: p.Story - 1, Snap: c[p.Story-1].LastSnap()}, true
	}
	return p, false
}
