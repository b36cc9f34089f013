package annotations

import (
	"context"
	"database/sql"
	"testing"

	"github.com/deepreadapp/deepread/pkg/books"
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

func createTestBook(t *testing.T, db *bun.DB, userID string) *models.Book {
	t.Helper()

	book, err := books.NewService(db).CreateBook(context.Background(), &models.Book{
		UserID:   userID,
		Title:    "Annotated",
		Format:   models.BookFormatEPub,
		FilePath: "annotated.epub",
	})
	require.NoError(t, err)
	return book
}

func testAnnotation(userID, bookID, cfiRange string) *models.Annotation {
	return &models.Annotation{
		UserID:   userID,
		BookID:   bookID,
		Type:     models.AnnotationTypeHighlight,
		CFIRange: cfiRange,
	}
}

func strPtr(s string) *string { return &s }

func TestCreateAnnotation(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	book := createTestBook(t, db, "user-1")

	t.Run("creates and re-reads the stored row", func(t *testing.T) {
		annotation := testAnnotation("user-1", book.ID, "epubcfi(/6/4!/4/2,/1:0,/1:20)")
		annotation.SelectedText = strPtr("a memorable passage")
		annotation.Color = strPtr("#ffd54f")

		created, err := svc.CreateAnnotation(ctx, annotation)
		require.NoError(t, err)

		assert.NotEmpty(t, created.ID)
		assert.Equal(t, book.ID, created.BookID)
		assert.Equal(t, models.AnnotationTypeHighlight, created.Type)
		require.NotNil(t, created.SelectedText)
		assert.Equal(t, "a memorable passage", *created.SelectedText)
		assert.NotZero(t, created.CreatedAt)
		assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	})

	t.Run("rejects an unknown type", func(t *testing.T) {
		annotation := testAnnotation("user-1", book.ID, "epubcfi(/6/2)")
		annotation.Type = "underline"
		_, err := svc.CreateAnnotation(ctx, annotation)
		require.Error(t, err)
	})

	t.Run("rejects a missing cfi range", func(t *testing.T) {
		annotation := testAnnotation("user-1", book.ID, "")
		_, err := svc.CreateAnnotation(ctx, annotation)
		require.Error(t, err)
	})
}

func TestListAnnotations(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	book := createTestBook(t, db, "user-1")

	var ids []string
	for _, cfi := range []string{"epubcfi(/6/2)", "epubcfi(/6/4)", "epubcfi(/6/6)"} {
		created, err := svc.CreateAnnotation(ctx, testAnnotation("user-1", book.ID, cfi))
		require.NoError(t, err)
		ids = append(ids, created.ID)
	}

	// Unix-second timestamps tie within a fast test run; pin them so the
	// newest-first ordering is observable.
	for i, id := range ids {
		_, err := db.NewUpdate().
			Model((*models.Annotation)(nil)).
			Set("created_at = ?", int64(1000+i)).
			Where("id = ?", id).
			Exec(ctx)
		require.NoError(t, err)
	}

	t.Run("returns newest first", func(t *testing.T) {
		annotations, err := svc.ListAnnotations(ctx, ListAnnotationsOptions{BookID: &book.ID})
		require.NoError(t, err)
		require.Len(t, annotations, 3)

		assert.Equal(t, ids[2], annotations[0].ID)
		assert.Equal(t, ids[1], annotations[1].ID)
		assert.Equal(t, ids[0], annotations[2].ID)
	})

	t.Run("scopes to the book", func(t *testing.T) {
		other := createTestBook(t, db, "user-1")
		_, err := svc.CreateAnnotation(ctx, testAnnotation("user-1", other.ID, "epubcfi(/8/2)"))
		require.NoError(t, err)

		annotations, err := svc.ListAnnotations(ctx, ListAnnotationsOptions{BookID: &book.ID})
		require.NoError(t, err)
		assert.Len(t, annotations, 3)
	})
}

func TestUpdateAnnotation(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	book := createTestBook(t, db, "user-1")

	t.Run("patches color and note text", func(t *testing.T) {
		created, err := svc.CreateAnnotation(ctx, testAnnotation("user-1", book.ID, "epubcfi(/6/2)"))
		require.NoError(t, err)

		updated, err := svc.UpdateAnnotation(ctx, created.ID, UpdateAnnotationOptions{
			Color:    strPtr("#80cbc4"),
			NoteText: strPtr("revisit this"),
		})
		require.NoError(t, err)

		require.NotNil(t, updated.Color)
		assert.Equal(t, "#80cbc4", *updated.Color)
		require.NotNil(t, updated.NoteText)
		assert.Equal(t, "revisit this", *updated.NoteText)
		assert.Equal(t, created.CFIRange, updated.CFIRange)
	})

	t.Run("empty patch is a no-op without bumping updated_at", func(t *testing.T) {
		created, err := svc.CreateAnnotation(ctx, testAnnotation("user-1", book.ID, "epubcfi(/6/4)"))
		require.NoError(t, err)

		updated, err := svc.UpdateAnnotation(ctx, created.ID, UpdateAnnotationOptions{})
		require.NoError(t, err)
		assert.Equal(t, created.UpdatedAt, updated.UpdatedAt)
	})

	t.Run("clears the note with an empty string", func(t *testing.T) {
		annotation := testAnnotation("user-1", book.ID, "epubcfi(/6/6)")
		annotation.NoteText = strPtr("scratch note")
		created, err := svc.CreateAnnotation(ctx, annotation)
		require.NoError(t, err)

		updated, err := svc.UpdateAnnotation(ctx, created.ID, UpdateAnnotationOptions{NoteText: strPtr("")})
		require.NoError(t, err)
		assert.Nil(t, updated.NoteText)
	})
}

func TestDeleteAnnotation(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()
	book := createTestBook(t, db, "user-1")

	t.Run("hides the annotation from reads but keeps the row", func(t *testing.T) {
		created, err := svc.CreateAnnotation(ctx, testAnnotation("user-1", book.ID, "epubcfi(/6/2)"))
		require.NoError(t, err)

		require.NoError(t, svc.DeleteAnnotation(ctx, created.ID))

		_, err = svc.RetrieveAnnotation(ctx, RetrieveAnnotationOptions{ID: &created.ID})
		assert.ErrorIs(t, err, errcodes.NotFound("Annotation"))

		raw := &models.Annotation{}
		err = db.NewSelect().Model(raw).Where("a.id = ?", created.ID).Scan(ctx)
		require.NoError(t, err)
		require.NotNil(t, raw.DeletedAt)
	})

	t.Run("deleting twice reports not found", func(t *testing.T) {
		created, err := svc.CreateAnnotation(ctx, testAnnotation("user-1", book.ID, "epubcfi(/6/4)"))
		require.NoError(t, err)

		require.NoError(t, svc.DeleteAnnotation(ctx, created.ID))
		err = svc.DeleteAnnotation(ctx, created.ID)
		assert.ErrorIs(t, err, errcodes.NotFound("Annotation"))
	})
}
