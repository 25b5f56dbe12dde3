package story

import (
	"errors"
	"testing"
	"time"
)

func photos(n int) []Snap {
	snaps := make([]Snap, n)
	for i := range snaps {
		snaps[i] = Snap{ID: string(rune('a' + i)), Kind: Photo}
	}
	return snaps
}

func collectionOf(sizes ...int) Collection {
	c := make(Collection, len(sizes))
	for i, n := range sizes {
		c[i] = Story{AuthorID: string(rune('A' + i)), Snaps: photos(n)}
	}
	return c
}

func TestParseMediaKind(t *testing.T) {
	tests := []struct {
		in      string
		want    MediaKind
		wantErr bool
	}{
		{"photo", Photo, false},
		{"video", Video, false},
		{"gif", Photo, true},
		{"", Photo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMediaKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseMediaKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnknownKind) {
				t.Errorf("error = %v, want ErrUnknownKind", err)
			}
			if got != tt.want {
				t.Errorf("ParseMediaKind(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    Filter
		wantErr bool
	}{
		{"", FilterNone, false},
		{"none", FilterNone, false},
		{"warm", FilterWarm, false},
		{"cool", FilterCool, false},
		{"contrast", FilterContrast, false},
		{"sepia", FilterNone, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFilter(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFilter(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFilter(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSlotDuration(t *testing.T) {
	if got := SlotDuration(Photo); got != 5*time.Second {
		t.Errorf("SlotDuration(Photo) = %v, want 5s", got)
	}
	if got := SlotDuration(Video); got != 10*time.Second {
		t.Errorf("SlotDuration(Video) = %v, want 10s", got)
	}
}

func TestCollection_Validate(t *testing.T) {
	if err := collectionOf(1, 3).Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
	err := collectionOf(2, 0).Validate()
	if !errors.Is(err, ErrEmptyStory) {
		t.Errorf("Validate() = %v, want ErrEmptyStory", err)
	}
}

func TestCollection_Active(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	c := Collection{
		{AuthorID: "a", Snaps: []Snap{
			{ID: "old", ExpiresAt: now.Add(-time.Minute)},
			{ID: "fresh", ExpiresAt: now.Add(time.Hour)},
		}},
		{AuthorID: "b", Snaps: []Snap{
			{ID: "gone", ExpiresAt: now},
		}},
		{AuthorID: "c", Snaps: []Snap{
			{ID: "forever"},
		}},
	}

	got := c.Active(now)

	if len(got) != 2 {
		t.Fatalf("len(Active) = %d, want 2", len(got))
	}
	if got[0].AuthorID != "a" || got[1].AuthorID != "c" {
		t.Errorf("authors = %s,%s, want a,c", got[0].AuthorID, got[1].AuthorID)
	}
	if len(got[0].Snaps) != 1 || got[0].Snaps[0].ID != "fresh" {
		t.Errorf("story a snaps = %+v, want [fresh]", got[0].Snaps)
	}
	if len(c[0].Snaps) != 2 {
		t.Error("Active mutated the source collection")
	}
}

func TestCollection_ClampStory(t *testing.T) {
	c := collectionOf(1, 1, 1)
	tests := []struct {
		in, want int
	}{
		{-4, 0},
		{0, 0},
		{2, 2},
		{3, 2},
		{99, 2},
	}
	for _, tt := range tests {
		if got := c.ClampStory(tt.in); got != tt.want {
			t.Errorf("ClampStory(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
	if got := Collection(nil).ClampStory(5); got != 0 {
		t.Errorf("empty ClampStory = %d, want 0", got)
	}
}

func TestCollection_NextWalksEverySnap(t *testing.T) {
	c := collectionOf(2, 1, 3)
	p := Position{}
	steps := 0
	for {
		next, ok := c.Next(p)
		if !ok {
			break
		}
		p = next
		steps++
	}
	if steps != c.TotalSnaps()-1 {
		t.Errorf("steps = %d, want %d", steps, c.TotalSnaps()-1)
	}
	if p != (Position{Story: 2, Snap: 2}) {
		t.Errorf("final position = %v, want (2,2)", p)
	}
}

func TestCollection_Prev(t *testing.T) {
	c := collectionOf(3, 2)
	tests := []struct {
		name   string
		from   Position
		want   Position
		wantOK bool
	}{
		{"within story", Position{1, 1}, Position{1, 0}, true},
		{"into previous story lands on last snap", Position{1, 0}, Position{0, 2}, true},
		{"first snap of first story", Position{0, 0}, Position{0, 0}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.Prev(tt.from)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Prev(%v) = %v,%v want %v,%v", tt.from, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestCollection_At(t *testing.T) {
	c := collectionOf(2)
	if s, ok := c.At(Position{0, 1}); !ok || s.ID != "b" {
		t.Errorf("At(0,1) = %+v,%v want b,true", s, ok)
	}
	if _, ok := c.At(Position{0, 2}); ok {
		t.Error("At(0,2) should be out of range")
	}
	if _, ok := c.At(Position{1, 0}); ok {
		t.Error("At(1,0) should be out of range")
	}
}
