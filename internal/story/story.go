// Package story defines the feed data handed to the playback engine:
// ordered stories of ephemeral snaps.
package story

import (
	"errors"
	"fmt"
	"time"
)

// Slot durations are fixed by media kind, never by the media's own length.
const (
	PhotoSlot = 5 * time.Second
	VideoSlot = 10 * time.Second
)

var (
	ErrEmptyStory  = errors.New("story has no snaps")
	ErrUnknownKind = errors.New("unknown media kind")
	ErrUnknownTint = errors.New("unknown filter")
)

// MediaKind is the kind of media a snap carries.
type MediaKind int

const (
	Photo MediaKind = iota
	Video
)

// String returns the wire name of the kind.
func (k MediaKind) String() string {
	switch k {
	case Photo:
		return "photo"
	case Video:
		return "video"
	default:
		return "unknown"
	}
}

// ParseMediaKind parses a wire name ("photo" or "video").
func ParseMediaKind(s string) (MediaKind, error) {
	switch s {
	case "photo":
		return Photo, nil
	case "video":
		return Video, nil
	}
	return Photo, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// SlotDuration returns how long a snap of this kind stays on screen.
func SlotDuration(k MediaKind) time.Duration {
	if k == Video {
		return VideoSlot
	}
	return PhotoSlot
}

// Filter is the color tint applied over a snap.
type Filter int

const (
	FilterNone Filter = iota
	FilterWarm
	FilterCool
	FilterContrast
)

// String returns the wire name of the filter.
func (f Filter) String() string {
	switch f {
	case FilterNone:
		return "none"
	case FilterWarm:
		return "warm"
	case FilterCool:
		return "cool"
	case FilterContrast:
		return "contrast"
	default:
		return "unknown"
	}
}

// ParseFilter parses a wire name. The empty string means FilterNone.
func ParseFilter(s string) (Filter, error) {
	switch s {
	case "", "none":
		return FilterNone, nil
	case "warm":
		return FilterWarm, nil
	case "cool":
		return FilterCool, nil
	case "contrast":
		return FilterContrast, nil
	}
	return FilterNone, fmt.Errorf("%w: %q", ErrUnknownTint, s)
}

// Snap is a single ephemeral media item. Snaps are immutable during playback.
type Snap struct {
	ID        string
	MediaRef  string
	Kind      MediaKind
	Caption   string
	Filter    Filter
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the snap is past its expiry at now.
// A zero ExpiresAt never expires.
func (s Snap) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Story is one author's ordered reel of snaps.
type Story struct {
	AuthorID    string
	DisplayName string
	AvatarRef   string
	Snaps       []Snap
}

// LastSnap returns the index of the final snap, or -1 for an empty story.
func (s Story) LastSnap() int {
	return len(s.Snaps) - 1
}

// Collection is the ordered feed of stories. The engine never reorders it.
type Collection []Story

// Validate checks that every story has at least one snap.
func (c Collection) Validate() error {
	for i, s := range c {
		if len(s.Snaps) == 0 {
			return fmt.Errorf("story %d (%s): %w", i, s.AuthorID, ErrEmptyStory)
		}
	}
	return nil
}

// TotalSnaps returns the number of snaps across all stories.
func (c Collection) TotalSnaps() int {
	n := 0
	for _, s := range c {
		n += len(s.Snaps)
	}
	return n
}

// Active returns a copy of the collection without expired snaps.
// Stories left without snaps are dropped; relative order is preserved.
func (c Collection) Active(now time.Time) Collection {
	out := make(Collection, 0, len(c))
	for _, s := range c {
		snaps := make([]Snap, 0, len(s.Snaps))
		for _, sn := range s.Snaps {
			if !sn.Expired(now) {
				snaps = append(snaps, sn)
			}
		}
		if len(snaps) == 0 {
			continue
		}
		s.Snaps = snaps
		out = append(out, s)
	}
	return out
}

// At returns the snap at p and true, or false when p is out of range.
func (c Collection) At(p Position) (Snap, bool) {
	if !c.Contains(p) {
		return Snap{}, false
	}
	return c[p.Story].Snaps[p.Snap], true
}

// Contains reports whether p addresses a snap of the collection.
func (c Collection) Contains(p Position) bool {
	if p.Story < 0 || p.Story >= len(c) {
		return false
	}
	return p.Snap >= 0 && p.Snap < len(c[p.Story].Snaps)
}

// ClampStory clamps a story index into [0, len(c)-1].
// For an empty collection it returns 0.
func (c Collection) ClampStory(i int) int {
	if i < 0 || len(c) == 0 {
		return 0
	}
	if i >= len(c) {
		return len(c) - 1
	}
	return i
}
