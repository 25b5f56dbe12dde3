package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/llehouerou/reel/internal/story"
)

var ErrNoStories = errors.New("feed has no stories key")

type feedDoc struct {
	Stories []storyDoc `koanf:"stories"`
}

type storyDoc struct {
	AuthorID    string    `koanf:"author_id"`
	DisplayName string    `koanf:"display_name"`
	Avatar      string    `koanf:"avatar"`
	Snaps       []snapDoc `koanf:"snaps"`
}

type snapDoc struct {
	ID        string    `koanf:"id"`
	Media     string    `koanf:"media"`
	Kind      string    `koanf:"kind"`
	Caption   string    `koanf:"caption"`
	Filter    string    `koanf:"filter"`
	CreatedAt time.Time `koanf:"created_at"` // RFC 3339
	ExpiresAt time.Time `koanf:"expires_at"`
}

// FileSource reads a TOML feed file:
//
//	[[stories]]
//	author_id = "ana"
//	display_name = "Ana"
//
//	  [[stories.snaps]]
//	  id = "ana-1"
//	  media = "http://localhost:9199/v0/b/ana-1.jpg"
//	  kind = "photo"
//	  filter = "warm"
//	  created_at = 2026-10-18T09:00:00Z
type FileSource struct {
	path   string
	logger *slog.Logger
}

// NewFileSource creates a source reading path.
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FileSource{path: path, logger: logger}
}

// Path returns the feed file path.
func (s *FileSource) Path() string {
	return s.path
}

// Load implements Source.
func (s *FileSource) Load(_ context.Context) (story.Collection, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(s.path), toml.Parser()); err != nil {
		return nil, fmt.Errorf("read feed %s: %w", s.path, err)
	}
	if !k.Exists("stories") {
		return nil, fmt.Errorf("read feed %s: %w", s.path, ErrNoStories)
	}

	var doc feedDoc
	if err := k.Unmarshal("", &doc); err != nil {
		return nil, fmt.Errorf("decode feed %s: %w", s.path, err)
	}
	return doc.collection()
}

// Watch calls fn with the reloaded collection every time the file changes,
// until ctx is done. It returns once the watch is installed.
func (s *FileSource) Watch(ctx context.Context, fn func(story.Collection, error)) error {
	fp := file.Provider(s.path)
	err := fp.Watch(func(_ any, err error) {
		if err != nil {
			s.logger.Warn("feed watch stopped", "path", s.path, "err", err)
			fn(nil, err)
			return
		}
		c, err := s.Load(ctx)
		if err != nil {
			s.logger.Warn("reload feed", "path", s.path, "err", err)
		}
		fn(c, err)
	})
	if err != nil {
		return fmt.Errorf("watch feed %s: %w", s.path, err)
	}

	go func() {
		<-ctx.Done()
		_ = fp.Unwatch()
	}()
	return nil
}

func (d feedDoc) collection() (story.Collection, error) {
	c := make(story.Collection, 0, len(d.Stories))
	for i, sd := range d.Stories {
		if sd.AuthorID == "" {
			return nil, fmt.Errorf("story %d: missing author_id", i)
		}
		st := story.Story{
			AuthorID:    sd.AuthorID,
			DisplayName: sd.DisplayName,
			AvatarRef:   sd.Avatar,
			Snaps:       make([]story.Snap, 0, len(sd.Snaps)),
		}
		if st.DisplayName == "" {
			st.DisplayName = sd.AuthorID
		}
		for j, nd := range sd.Snaps {
			snap, err := nd.snap(sd.AuthorID)
			if err != nil {
				return nil, fmt.Errorf("story %s snap %d: %w", sd.AuthorID, j, err)
			}
			st.Snaps = append(st.Snaps, snap)
		}
		c = append(c, st)
	}
	return c, nil
}

func (nd snapDoc) snap(authorID string) (story.Snap, error) {
	if nd.Media == "" {
		return story.Snap{}, errors.New("missing media")
	}
	id := nd.ID
	if id == "" {
		id = snapID(authorID, nd.Media, nd.CreatedAt)
	}
	kind, err := story.ParseMediaKind(nd.Kind)
	if err != nil {
		return story.Snap{}, err
	}
	filter, err := story.ParseFilter(nd.Filter)
	if err != nil {
		return story.Snap{}, err
	}
	return story.Snap{
		ID:        id,
		MediaRef:  nd.Media,
		Kind:      kind,
		Caption:   nd.Caption,
		Filter:    filter,
		CreatedAt: nd.CreatedAt.UTC(),
		ExpiresAt: nd.ExpiresAt.UTC(),
	}, nil
}

// snapID derives a stable id for a snap the feed did not name, so repeated
// imports of the same file keep the same rows.
func snapID(authorID, media string, created time.Time) string {
	name := authorID + "\x00" + media + "\x00" + created.UTC().Format(time.RFC3339Nano)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name)).String()
}
