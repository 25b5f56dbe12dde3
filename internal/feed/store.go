package feed

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	dbutil "github.com/llehouerou/reel/internal/db"
	"github.com/llehouerou/reel/internal/story"
)

// Store persists the feed in SQLite, keeping the supplier's story and snap
// order.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the database at path. Use ":memory:"
// for a throwaway store.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps :memory: databases and the foreign_keys pragma
	// shared by every query.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) DB() *sql.DB {
	return s.db
}

// Replace stores c as the whole feed, in one transaction.
func (s *Store) Replace(ctx context.Context, c story.Collection) error {
	return dbutil.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		for _, q := range []string{`DELETE FROM snaps`, `DELETE FROM stories`, `DELETE FROM authors`} {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				return err
			}
		}

		authorStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO authors (id, display_name, avatar_ref) VALUES (?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer authorStmt.Close()

		storyStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO stories (author_id, position) VALUES (?, ?)
		`)
		if err != nil {
			return err
		}
		defer storyStmt.Close()

		snapStmt, err := tx.PrepareContext(ctx, `
			INSERT INTO snaps (id, author_id, position, media_ref, kind, caption, filter, created_at, expires_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer snapStmt.Close()

		for i, st := range c {
			if _, err := authorStmt.ExecContext(ctx, st.AuthorID, st.DisplayName, dbutil.NullString(st.AvatarRef)); err != nil {
				return fmt.Errorf("author %s: %w", st.AuthorID, err)
			}
			if _, err := storyStmt.ExecContext(ctx, st.AuthorID, i); err != nil {
				return fmt.Errorf("story %s: %w", st.AuthorID, err)
			}
			for j, sn := range st.Snaps {
				_, err := snapStmt.ExecContext(ctx,
					sn.ID, st.AuthorID, j, sn.MediaRef, sn.Kind.String(),
					dbutil.NullString(sn.Caption), sn.Filter.String(),
					dbutil.UnixMilli(sn.CreatedAt), dbutil.UnixMilli(sn.ExpiresAt),
				)
				if err != nil {
					return fmt.Errorf("snap %s: %w", sn.ID, err)
				}
			}
		}
		return nil
	})
}

// Load returns the feed as of now: expired snaps are left out and stories
// with nothing left are dropped.
func (s *Store) Load(ctx context.Context, now time.Time) (story.Collection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.id, a.display_name, a.avatar_ref,
		       n.id, n.media_ref, n.kind, n.caption, n.filter, n.created_at, n.expires_at
		FROM stories st
		JOIN authors a ON a.id = st.author_id
		JOIN snaps n ON n.author_id = st.author_id
		WHERE n.expires_at IS NULL OR n.expires_at > ?
		ORDER BY st.position, n.position
	`, now.UnixMilli())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var c story.Collection
	for rows.Next() {
		var (
			authorID, displayName string
			avatar                sql.NullString
			sn                    story.Snap
			kind                  string
			caption, filter       sql.NullString
			created, expires      sql.NullInt64
		)
		err := rows.Scan(&authorID, &displayName, &avatar,
			&sn.ID, &sn.MediaRef, &kind, &caption, &filter, &created, &expires)
		if err != nil {
			return nil, err
		}
		if sn.Kind, err = story.ParseMediaKind(kind); err != nil {
			return nil, fmt.Errorf("snap %s: %w", sn.ID, err)
		}
		if sn.Filter, err = story.ParseFilter(dbutil.NullStringValue(filter)); err != nil {
			return nil, fmt.Errorf("snap %s: %w", sn.ID, err)
		}
		sn.Caption = dbutil.NullStringValue(caption)
		sn.CreatedAt = dbutil.TimeValue(created)
		sn.ExpiresAt = dbutil.TimeValue(expires)

		if n := len(c); n == 0 || c[n-1].AuthorID != authorID {
			c = append(c, story.Story{
				AuthorID:    authorID,
				DisplayName: displayName,
				AvatarRef:   dbutil.NullStringValue(avatar),
			})
		}
		last := &c[len(c)-1]
		last.Snaps = append(last.Snaps, sn)
	}
	return c, rows.Err()
}

// PruneExpired deletes snaps expired at now and returns how many went.
func (s *Store) PruneExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM snaps WHERE expires_at IS NOT NULL AND expires_at <= ?
	`, now.UnixMilli())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Counts returns the number of stories and snaps stored.
func (s *Store) Counts(ctx context.Context) (stories, snaps int, err error) {
	err = s.db.QueryRowContext(ctx, `
		SELECT (SELECT COUNT(*) FROM stories), (SELECT COUNT(*) FROM snaps)
	`).Scan(&stories, &snaps)
	return stories, snaps, err
}
