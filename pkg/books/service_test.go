package books

import (
	"context"
	"database/sql"
	"testing"

	"github.com/deepreadapp/deepread/pkg/errcodes"
	"github.com/deepreadapp/deepread/pkg/migrations"
	"github.com/deepreadapp/deepread/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqldb.Close() })

	db := bun.NewDB(sqldb, sqlitedialect.New())
	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	return db
}

func testBook(userID, title string) *models.Book {
	return &models.Book{
		UserID:   userID,
		Title:    title,
		Format:   models.BookFormatEPub,
		FilePath: title + ".epub",
	}
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestCreateBook(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	t.Run("creates and re-reads the stored row", func(t *testing.T) {
		book := testBook("user-1", "Dune")
		book.Author = strPtr("Frank Herbert")

		created, err := svc.CreateBook(ctx, book)
		require.NoError(t, err)

		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Dune", created.Title)
		require.NotNil(t, created.Author)
		assert.Equal(t, "Frank Herbert", *created.Author)
		assert.Equal(t, models.BookFormatEPub, created.Format)
		assert.Zero(t, created.Progress)
		assert.Nil(t, created.LastReadAt)
		assert.NotZero(t, created.AddedAt)
		assert.Equal(t, created.AddedAt, created.UpdatedAt)
	})

	t.Run("canonicalizes a recognizable isbn", func(t *testing.T) {
		book := testBook("user-1", "With ISBN")
		book.ISBN = strPtr("978-0-316-76948-8")

		created, err := svc.CreateBook(ctx, book)
		require.NoError(t, err)
		require.NotNil(t, created.ISBN)
		assert.Equal(t, "9780316769488", *created.ISBN)
	})

	t.Run("keeps an unrecognizable isbn verbatim", func(t *testing.T) {
		book := testBook("user-1", "Odd ISBN")
		book.ISBN = strPtr("library-copy-42")

		created, err := svc.CreateBook(ctx, book)
		require.NoError(t, err)
		require.NotNil(t, created.ISBN)
		assert.Equal(t, "library-copy-42", *created.ISBN)
	})

	t.Run("rejects a missing title", func(t *testing.T) {
		book := testBook("user-1", "No Title")
		book.Title = ""
		_, err := svc.CreateBook(ctx, book)
		require.Error(t, err)
	})

	t.Run("rejects an unknown format", func(t *testing.T) {
		book := testBook("user-1", "Bad Format")
		book.Format = "MOBI"
		_, err := svc.CreateBook(ctx, book)
		require.Error(t, err)
	})
}

func TestRetrieveBook(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	created, err := svc.CreateBook(ctx, testBook("user-1", "Hyperion"))
	require.NoError(t, err)

	t.Run("finds a book by id", func(t *testing.T) {
		book, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &created.ID})
		require.NoError(t, err)
		assert.Equal(t, created.ID, book.ID)
	})

	t.Run("scopes lookups to the owner", func(t *testing.T) {
		otherUser := "user-2"
		_, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &created.ID, UserID: &otherUser})
		assert.ErrorIs(t, err, errcodes.NotFound("Book"))
	})
}

func TestListBooks(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	userID := "user-list"

	shelf := make(map[string]*models.Book)
	for _, title := range []string{"First", "Second", "Third"} {
		created, err := svc.CreateBook(ctx, testBook(userID, title))
		require.NoError(t, err)
		shelf[title] = created
	}

	// Pin the timestamps so the ordering is deterministic: Second was read
	// most recently, Third never, and Third was added after First.
	setTimes := func(id string, addedAt int64, lastReadAt *int64) {
		q := db.NewUpdate().
			Model((*models.Book)(nil)).
			Set("added_at = ?", addedAt).
			Where("id = ?", id)
		if lastReadAt != nil {
			q = q.Set("last_read_at = ?", *lastReadAt)
		}
		_, err := q.Exec(ctx)
		require.NoError(t, err)
	}
	readAtFirst := int64(1000)
	readAtSecond := int64(2000)
	setTimes(shelf["First"].ID, 100, &readAtFirst)
	setTimes(shelf["Second"].ID, 200, &readAtSecond)
	setTimes(shelf["Third"].ID, 300, nil)

	t.Run("orders by last_read_at then added_at, never-read last", func(t *testing.T) {
		books, total, err := svc.ListBooksWithTotal(ctx, ListBooksOptions{UserID: &userID})
		require.NoError(t, err)
		require.Len(t, books, 3)
		assert.Equal(t, 3, total)

		assert.Equal(t, "Second", books[0].Title)
		assert.Equal(t, "First", books[1].Title)
		assert.Equal(t, "Third", books[2].Title)
	})

	t.Run("excludes other users' books", func(t *testing.T) {
		_, err := svc.CreateBook(ctx, testBook("someone-else", "Foreign"))
		require.NoError(t, err)

		books, err := svc.ListBooks(ctx, ListBooksOptions{UserID: &userID})
		require.NoError(t, err)
		assert.Len(t, books, 3)
	})

	t.Run("applies limit and offset", func(t *testing.T) {
		limit := 2
		offset := 1
		books, total, err := svc.ListBooksWithTotal(ctx, ListBooksOptions{
			UserID: &userID,
			Limit:  &limit,
			Offset: &offset,
		})
		require.NoError(t, err)
		require.Len(t, books, 2)
		assert.Equal(t, 3, total)
		assert.Equal(t, "First", books[0].Title)
	})
}

func TestUpdateBook(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	t.Run("patches only the named fields", func(t *testing.T) {
		created, err := svc.CreateBook(ctx, testBook("user-1", "Draft Title"))
		require.NoError(t, err)

		updated, err := svc.UpdateBook(ctx, created.ID, UpdateBookOptions{
			Title:  strPtr("Final Title"),
			Author: strPtr("Someone"),
		})
		require.NoError(t, err)

		assert.Equal(t, "Final Title", updated.Title)
		require.NotNil(t, updated.Author)
		assert.Equal(t, "Someone", *updated.Author)
		assert.Equal(t, created.FilePath, updated.FilePath)
	})

	t.Run("empty patch is a no-op without bumping updated_at", func(t *testing.T) {
		created, err := svc.CreateBook(ctx, testBook("user-1", "Untouched"))
		require.NoError(t, err)

		updated, err := svc.UpdateBook(ctx, created.ID, UpdateBookOptions{})
		require.NoError(t, err)
		assert.Equal(t, created.UpdatedAt, updated.UpdatedAt)
	})

	t.Run("clears a nullable field with an empty string", func(t *testing.T) {
		book := testBook("user-1", "With Author")
		book.Author = strPtr("To Remove")
		created, err := svc.CreateBook(ctx, book)
		require.NoError(t, err)

		updated, err := svc.UpdateBook(ctx, created.ID, UpdateBookOptions{Author: strPtr("")})
		require.NoError(t, err)
		assert.Nil(t, updated.Author)
	})

	t.Run("rejects progress outside 0-100", func(t *testing.T) {
		created, err := svc.CreateBook(ctx, testBook("user-1", "Clamped"))
		require.NoError(t, err)

		_, err = svc.UpdateBook(ctx, created.ID, UpdateBookOptions{Progress: intPtr(101)})
		require.Error(t, err)
	})
}

func TestUpdateProgress(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	t.Run("records progress, cfi, and last_read_at", func(t *testing.T) {
		created, err := svc.CreateBook(ctx, testBook("user-1", "In Progress"))
		require.NoError(t, err)

		updated, err := svc.UpdateProgress(ctx, created.ID, 42, strPtr("epubcfi(/6/4!/4/2)"))
		require.NoError(t, err)

		assert.Equal(t, 42, updated.Progress)
		require.NotNil(t, updated.LastCFI)
		assert.Equal(t, "epubcfi(/6/4!/4/2)", *updated.LastCFI)
		require.NotNil(t, updated.LastReadAt)
	})

	t.Run("an empty cfi clears the stored position", func(t *testing.T) {
		created, err := svc.CreateBook(ctx, testBook("user-1", "Reset"))
		require.NoError(t, err)

		_, err = svc.UpdateProgress(ctx, created.ID, 10, strPtr("epubcfi(/6/2)"))
		require.NoError(t, err)

		updated, err := svc.UpdateProgress(ctx, created.ID, 12, strPtr(""))
		require.NoError(t, err)
		assert.Nil(t, updated.LastCFI)
	})

	t.Run("rejects progress outside 0-100", func(t *testing.T) {
		created, err := svc.CreateBook(ctx, testBook("user-1", "Overflow"))
		require.NoError(t, err)

		_, err = svc.UpdateProgress(ctx, created.ID, 101, nil)
		require.Error(t, err)
	})

	t.Run("reports a missing book as not found", func(t *testing.T) {
		_, err := svc.UpdateProgress(ctx, "missing", 50, nil)
		assert.ErrorIs(t, err, errcodes.NotFound("Book"))
	})
}

func TestDeleteBook(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	t.Run("hides the book from reads but keeps the row", func(t *testing.T) {
		created, err := svc.CreateBook(ctx, testBook("user-1", "Doomed"))
		require.NoError(t, err)

		require.NoError(t, svc.DeleteBook(ctx, created.ID))

		_, err = svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &created.ID})
		assert.ErrorIs(t, err, errcodes.NotFound("Book"))

		// The row survives behind its deleted_at marker.
		raw := &models.Book{}
		err = db.NewSelect().Model(raw).Where("b.id = ?", created.ID).Scan(ctx)
		require.NoError(t, err)
		require.NotNil(t, raw.DeletedAt)
	})

	t.Run("deleting twice reports not found", func(t *testing.T) {
		created, err := svc.CreateBook(ctx, testBook("user-1", "Twice"))
		require.NoError(t, err)

		require.NoError(t, svc.DeleteBook(ctx, created.ID))
		err = svc.DeleteBook(ctx, created.ID)
		assert.ErrorIs(t, err, errcodes.NotFound("Book"))
	})
}
