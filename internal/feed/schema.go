package feed

import (
	"database/sql"
)

const currentSchemaVersion = 1

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS authors (
			id TEXT PRIMARY KEY,
			display_name TEXT NOT NULL,
			avatar_ref TEXT
		);

		CREATE TABLE IF NOT EXISTS stories (
			author_id TEXT PRIMARY KEY REFERENCES authors(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			UNIQUE(position)
		);

		CREATE TABLE IF NOT EXISTS snaps (
			id TEXT PRIMARY KEY,
			author_id TEXT NOT NULL REFERENCES stories(author_id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			media_ref TEXT NOT NULL,
			kind TEXT NOT NULL,
			caption TEXT,
			filter TEXT,
			created_at INTEGER,
			expires_at INTEGER,
			UNIQUE(author_id, position)
		);

		CREATE INDEX IF NOT EXISTS idx_snaps_expires_at ON snaps(expires_at);
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, currentSchemaVersion)
	return err
}
