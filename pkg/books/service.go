package books

import (
	"context"
	"database/sql"
	"time"

	"github.com/deepreadapp/deepread/pkg/errcodes"
	"github.com/deepreadapp/deepread/pkg/identifiers"
	"github.com/deepreadapp/deepread/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type RetrieveBookOptions struct {
	ID     *string
	UserID *string
}

type ListBooksOptions struct {
	UserID *string
	Limit  *int
	Offset *int

	includeTotal bool
}

// UpdateBookOptions is a typed patch: nil fields are left untouched. Empty
// strings clear nullable fields. Immutable fields (id, user_id, added_at, the
// file_* columns) have no slot.
type UpdateBookOptions struct {
	Title    *string
	Author   *string
	ISBN     *string
	CoverURL *string
	Progress *int
	LastCFI  *string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func validateBook(book *models.Book) error {
	if book.UserID == "" {
		return errcodes.ValidationError("user_id is required")
	}
	if book.Title == "" {
		return errcodes.ValidationError("title is required")
	}
	if book.FilePath == "" {
		return errcodes.ValidationError("file_path is required")
	}
	if !models.IsValidBookFormat(book.Format) {
		return errcodes.ValidationError("format must be 'PDF', 'ePub', or 'TXT'")
	}
	if book.Progress < 0 || book.Progress > 100 {
		return errcodes.ValidationError("progress must be between 0 and 100")
	}
	return nil
}

// CreateBook validates and inserts a book, then re-reads the row so the
// returned entity reflects exactly what was persisted.
func (svc *Service) CreateBook(ctx context.Context, book *models.Book) (*models.Book, error) {
	if err := validateBook(book); err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	if book.AddedAt == 0 {
		book.AddedAt = now
	}
	book.UpdatedAt = book.AddedAt

	if book.ID == "" {
		book.ID = identifiers.New()
	}
	book.ISBN = canonicalISBN(book.ISBN)

	_, err := svc.db.
		NewInsert().
		Model(book).
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	created, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &book.ID})
	if err != nil {
		if errors.Is(err, errcodes.NotFound("Book")) {
			return nil, errcodes.Inconsistency("Book")
		}
		return nil, err
	}

	return created, nil
}

func (svc *Service) RetrieveBook(ctx context.Context, opts RetrieveBookOptions) (*models.Book, error) {
	book := &models.Book{}

	q := svc.db.
		NewSelect().
		Model(book).
		Where("b.deleted_at IS NULL")

	if opts.ID != nil {
		q = q.Where("b.id = ?", *opts.ID)
	}
	if opts.UserID != nil {
		q = q.Where("b.user_id = ?", *opts.UserID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	return book, nil
}

func (svc *Service) ListBooks(ctx context.Context, opts ListBooksOptions) ([]*models.Book, error) {
	b, _, err := svc.listBooksWithTotal(ctx, opts)
	return b, errors.WithStack(err)
}

func (svc *Service) ListBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	opts.includeTotal = true
	return svc.listBooksWithTotal(ctx, opts)
}

func (svc *Service) listBooksWithTotal(ctx context.Context, opts ListBooksOptions) ([]*models.Book, int, error) {
	books := []*models.Book{}
	var total int
	var err error

	// Most recently read first; never-read books fall back to most recently
	// added. SQLite sorts NULLs last on DESC, which is exactly the order the
	// library shelf wants.
	q := svc.db.
		NewSelect().
		Model(&books).
		Where("b.deleted_at IS NULL").
		Order("b.last_read_at DESC", "b.added_at DESC")

	if opts.UserID != nil {
		q = q.Where("b.user_id = ?", *opts.UserID)
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return books, total, nil
}

// UpdateBook applies a partial patch. An empty patch returns the current row
// unchanged without bumping updated_at.
func (svc *Service) UpdateBook(ctx context.Context, id string, opts UpdateBookOptions) (*models.Book, error) {
	book, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	if err != nil {
		return nil, err
	}

	columns := []string{}
	if opts.Title != nil {
		if *opts.Title == "" {
			return nil, errcodes.ValidationError("title can't be empty")
		}
		book.Title = *opts.Title
		columns = append(columns, "title")
	}
	if opts.Author != nil {
		book.Author = nilIfEmpty(opts.Author)
		columns = append(columns, "author")
	}
	if opts.ISBN != nil {
		book.ISBN = canonicalISBN(nilIfEmpty(opts.ISBN))
		columns = append(columns, "isbn")
	}
	if opts.CoverURL != nil {
		book.CoverURL = nilIfEmpty(opts.CoverURL)
		columns = append(columns, "cover_url")
	}
	if opts.Progress != nil {
		if *opts.Progress < 0 || *opts.Progress > 100 {
			return nil, errcodes.ValidationError("progress must be between 0 and 100")
		}
		book.Progress = *opts.Progress
		columns = append(columns, "progress")
	}
	if opts.LastCFI != nil {
		book.LastCFI = nilIfEmpty(opts.LastCFI)
		columns = append(columns, "last_cfi")
	}

	if len(columns) == 0 {
		return book, nil
	}

	book.UpdatedAt = time.Now().Unix()
	columns = append(columns, "updated_at")

	_, err = svc.db.
		NewUpdate().
		Model(book).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	updated, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	if err != nil {
		if errors.Is(err, errcodes.NotFound("Book")) {
			return nil, errcodes.Inconsistency("Book")
		}
		return nil, err
	}

	return updated, nil
}

// UpdateProgress is the fast path for the high-frequency reading-position
// save: it touches only progress, last_cfi, last_read_at, and updated_at. An
// empty cfi clears the stored position token.
func (svc *Service) UpdateProgress(ctx context.Context, id string, progress int, lastCFI *string) (*models.Book, error) {
	if progress < 0 || progress > 100 {
		return nil, errcodes.ValidationError("progress must be between 0 and 100")
	}

	now := time.Now().Unix()

	res, err := svc.db.
		NewUpdate().
		Model((*models.Book)(nil)).
		Set("progress = ?", progress).
		Set("last_cfi = ?", nilIfEmpty(lastCFI)).
		Set("last_read_at = ?", now).
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return nil, errcodes.NotFound("Book")
	}

	updated, err := svc.RetrieveBook(ctx, RetrieveBookOptions{ID: &id})
	if err != nil {
		if errors.Is(err, errcodes.NotFound("Book")) {
			return nil, errcodes.Inconsistency("Book")
		}
		return nil, err
	}

	return updated, nil
}

// DeleteBook soft-deletes: the row is marked, never removed, and disappears
// from every query in this package.
func (svc *Service) DeleteBook(ctx context.Context, id string) error {
	now := time.Now().Unix()

	res, err := svc.db.
		NewUpdate().
		Model((*models.Book)(nil)).
		Set("deleted_at = ?", now).
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return errcodes.NotFound("Book")
	}

	return nil
}

func nilIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// canonicalISBN stores recognizable ISBNs without hyphens or prefixes.
// Unrecognizable values are kept verbatim; the field is free-form.
func canonicalISBN(isbn *string) *string {
	if isbn == nil {
		return nil
	}
	if identifiers.ValidateISBN(*isbn) {
		normalized := identifiers.NormalizeISBN(*isbn)
		return &normalized
	}
	return isbn
}
