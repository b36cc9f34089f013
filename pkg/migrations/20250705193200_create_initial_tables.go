package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`
			CREATE TABLE users (
				id TEXT PRIMARY KEY,
				created_at INTEGER NOT NULL,
				updated_at INTEGER NOT NULL,
				last_login_at INTEGER
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE user_settings (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL UNIQUE REFERENCES users(id),
				dark_mode INTEGER NOT NULL DEFAULT 0,
				font_size INTEGER NOT NULL DEFAULT 16,
				language TEXT NOT NULL DEFAULT 'english',
				openai_api_key TEXT,
				created_at INTEGER NOT NULL,
				updated_at INTEGER NOT NULL
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE books (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES users(id),
				title TEXT NOT NULL,
				author TEXT,
				isbn TEXT,
				cover_url TEXT,
				format TEXT NOT NULL,
				file_path TEXT NOT NULL,
				progress INTEGER NOT NULL DEFAULT 0,
				last_cfi TEXT,
				last_read_at INTEGER,
				added_at INTEGER NOT NULL,
				updated_at INTEGER NOT NULL,
				deleted_at INTEGER
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_books_user_id ON books(user_id)`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`
			CREATE TABLE annotations (
				id TEXT PRIMARY KEY,
				book_id TEXT NOT NULL REFERENCES books(id),
				user_id TEXT NOT NULL REFERENCES users(id),
				type TEXT NOT NULL,
				cfi_range TEXT NOT NULL,
				selected_text TEXT,
				color TEXT,
				note_text TEXT,
				created_at INTEGER NOT NULL,
				updated_at INTEGER NOT NULL,
				deleted_at INTEGER
			)
`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`CREATE INDEX ix_annotations_book_id ON annotations(book_id)`)
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec("DROP TABLE IF EXISTS annotations")
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec("DROP TABLE IF EXISTS books")
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec("DROP TABLE IF EXISTS user_settings")
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec("DROP TABLE IF EXISTS users")
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
