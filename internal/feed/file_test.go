package feed

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/reel/internal/story"
)

const sampleFeed = `
[[stories]]
author_id = "ana"
display_name = "Ana"
avatar = "http://localhost:9199/avatars/ana.png"

  [[stories.snaps]]
  id = "ana-1"
  media = "http://localhost:9199/v0/b/ana-1.jpg"
  kind = "photo"
  caption = "morning"
  filter = "warm"
  created_at = "2026-10-18T09:00:00Z"
  expires_at = "2026-10-19T09:00:00Z"

  [[stories.snaps]]
  id = "ana-2"
  media = "http://localhost:9199/v0/b/ana-2.mp4"
  kind = "video"
  created_at = 2026-10-18T10:00:00Z

[[stories]]
author_id = "ben"

  [[stories.snaps]]
  id = "ben-1"
  media = "/srv/snaps/ben-1.png"
  kind = "photo"
  filter = "contrast"
`

func writeFeed(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "stories.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestFileSource_Load(t *testing.T) {
	path := writeFeed(t, t.TempDir(), sampleFeed)

	c, err := NewFileSource(path, nil).Load(context.Background())
	require.NoError(t, err)

	require.Len(t, c, 2)
	ana := c[0]
	assert.Equal(t, "ana", ana.AuthorID)
	assert.Equal(t, "Ana", ana.DisplayName)
	assert.Equal(t, "http://localhost:9199/avatars/ana.png", ana.AvatarRef)
	require.Len(t, ana.Snaps, 2)

	first := ana.Snaps[0]
	assert.Equal(t, "ana-1", first.ID)
	assert.Equal(t, story.Photo, first.Kind)
	assert.Equal(t, story.FilterWarm, first.Filter)
	assert.Equal(t, "morning", first.Caption)
	assert.Equal(t, time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC), first.CreatedAt)
	assert.Equal(t, time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC), first.ExpiresAt)

	second := ana.Snaps[1]
	assert.Equal(t, story.Video, second.Kind)
	assert.Equal(t, story.FilterNone, second.Filter)
	assert.Equal(t, time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC), second.CreatedAt)
	assert.True(t, second.ExpiresAt.IsZero())

	ben := c[1]
	assert.Equal(t, "ben", ben.DisplayName, "display name defaults to author id")
	assert.Equal(t, story.FilterContrast, ben.Snaps[0].Filter)
}

func TestFileSource_DerivesMissingIDs(t *testing.T) {
	body := `
[[stories]]
author_id = "a"
  [[stories.snaps]]
  media = "x.jpg"
  kind = "photo"
  created_at = 2026-04-01T10:00:00Z
  [[stories.snaps]]
  media = "y.jpg"
  kind = "photo"
  created_at = 2026-04-01T10:00:00Z
`
	path := writeFeed(t, t.TempDir(), body)
	src := NewFileSource(path, nil)

	first, err := src.Load(context.Background())
	require.NoError(t, err)
	second, err := src.Load(context.Background())
	require.NoError(t, err)

	snaps := first[0].Snaps
	require.Len(t, snaps, 2)
	assert.NotEmpty(t, snaps[0].ID)
	assert.NotEqual(t, snaps[0].ID, snaps[1].ID)
	assert.Equal(t, snaps[0].ID, second[0].Snaps[0].ID, "ids must be stable across loads")
}

func TestFileSource_LoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{"no stories", `title = "empty"`, ErrNoStories},
		{"unknown kind", `
[[stories]]
author_id = "a"
  [[stories.snaps]]
  id = "a1"
  media = "x"
  kind = "hologram"
`, story.ErrUnknownKind},
		{"unknown filter", `
[[stories]]
author_id = "a"
  [[stories.snaps]]
  id = "a1"
  media = "x"
  kind = "photo"
  filter = "sepia"
`, story.ErrUnknownTint},
		{"missing media", `
[[stories]]
author_id = "a"
  [[stories.snaps]]
  id = "a1"
  kind = "photo"
`, nil},
		{"missing author", `
[[stories]]
display_name = "ghost"
`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFeed(t, t.TempDir(), tt.body)
			_, err := NewFileSource(path, nil).Load(context.Background())
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestFileSource_MissingFile(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope.toml"), nil).Load(context.Background())
	assert.Error(t, err)
}

func TestFileSource_Watch(t *testing.T) {
	dir := t.TempDir()
	path := writeFeed(t, dir, sampleFeed)
	src := NewFileSource(path, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := make(chan story.Collection, 16)
	require.NoError(t, src.Watch(ctx, func(c story.Collection, err error) {
		if err == nil {
			updates <- c
		}
	}))

	writeFeed(t, dir, `
[[stories]]
author_id = "cy"
  [[stories.snaps]]
  id = "cy-1"
  media = "x.jpg"
  kind = "photo"
`)

	deadline := time.After(3 * time.Second)
	for {
		select {
		case c := <-updates:
			if len(c) == 1 && c[0].AuthorID == "cy" {
				return
			}
		case <-deadline:
			t.Fatal("no reload after the feed changed")
		}
	}
}

func TestImport(t *testing.T) {
	path := writeFeed(t, t.TempDir(), sampleFeed)
	st := openTestStore(t)

	n, err := Import(context.Background(), NewFileSource(path, nil), st)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	stories, snaps, err := st.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stories)
	assert.Equal(t, 3, snaps)
}

func TestImport_SourceErrorKeepsStore(t *testing.T) {
	st := openTestStore(t)
	require.NoError(t, st.Replace(context.Background(), story.Collection{sampleStory("a", 2)}))

	boom := errors.New("boom")
	_, err := Import(context.Background(), failingSource{boom}, st)
	require.ErrorIs(t, err, boom)

	_, snaps, err := st.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, snaps)
}

type failingSource struct{ err error }

func (f failingSource) Load(context.Context) (story.Collection, error) { return nil, f.err }
