package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Android's file picker hands back a content URI and sometimes a cached copy
// path alongside the plain filesystem path, so books grew columns for all
// three plus the reported size.
func init() {
	up := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`ALTER TABLE books ADD COLUMN file_uri TEXT`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`ALTER TABLE books ADD COLUMN file_copy_uri TEXT`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`ALTER TABLE books ADD COLUMN file_size INTEGER`)
		return errors.WithStack(err)
	}

	down := func(_ context.Context, db *bun.DB) error {
		_, err := db.Exec(`ALTER TABLE books DROP COLUMN file_uri`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`ALTER TABLE books DROP COLUMN file_copy_uri`)
		if err != nil {
			return errors.WithStack(err)
		}
		_, err = db.Exec(`ALTER TABLE books DROP COLUMN file_size`)
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
