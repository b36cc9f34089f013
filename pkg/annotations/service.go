package annotations

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

// RetrieveAnnotationOptions are the available options for retrieving a single
// annotation. Fields with non-nil values are used to filter results.
type RetrieveAnnotationOptions struct {
	ID     *string
	BookID *string
	UserID *string
}

// ListAnnotationsOptions are the available options for listing annotations.
type ListAnnotationsOptions struct {
	BookID *string
	UserID *string
}

// UpdateAnnotationOptions are the patchable fields of an annotation. Nil
// fields are untouched. The anchor (type, cfi_range, selected_text) is
// immutable once created.
type UpdateAnnotationOptions struct {
	Color    *string
	NoteText *string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

func validateAnnotation(annotation *models.Annotation) error {
	if annotation.UserID == "" {
		return errcodes.ValidationError("user_id is required")
	}
	if annotation.BookID == "" {
		return errcodes.ValidationError("book_id is required")
	}
	if annotation.CFIRange == "" {
		return errcodes.ValidationError("cfi_range is required")
	}
	if !models.IsValidAnnotationType(annotation.Type) {
		return errcodes.ValidationError("type must be one of highlight, mark, or note")
	}
	return nil
}

// CreateAnnotation inserts the annotation and returns the stored row.
func (svc *Service) CreateAnnotation(ctx context.Context, annotation *models.Annotation) (*models.Annotation, error) {
	if err := validateAnnotation(annotation); err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	if annotation.ID == "" {
		annotation.ID = identifiers.New()
	}
	annotation.CreatedAt = now
	annotation.UpdatedAt = now

	_, err := svc.db.
		NewInsert().
		Model(annotation).
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	created, err := svc.RetrieveAnnotation(ctx, RetrieveAnnotationOptions{ID: &annotation.ID})
	if err != nil {
		if errors.Is(err, errcodes.NotFound("Annotation")) {
			return nil, errcodes.Inconsistency("Annotation")
		}
		return nil, err
	}

	return created, nil
}

func (svc *Service) RetrieveAnnotation(ctx context.Context, opts RetrieveAnnotationOptions) (*models.Annotation, error) {
	annotation := &models.Annotation{}

	q := svc.db.
		NewSelect().
		Model(annotation).
		Where("a.deleted_at IS NULL")

	if opts.ID != nil {
		q = q.Where("a.id = ?", *opts.ID)
	}
	if opts.BookID != nil {
		q = q.Where("a.book_id = ?", *opts.BookID)
	}
	if opts.UserID != nil {
		q = q.Where("a.user_id = ?", *opts.UserID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Annotation")
		}
		return nil, errors.WithStack(err)
	}

	return annotation, nil
}

// ListAnnotations returns annotations newest first.
func (svc *Service) ListAnnotations(ctx context.Context, opts ListAnnotationsOptions) ([]*models.Annotation, error) {
	annotations := []*models.Annotation{}

	q := svc.db.
		NewSelect().
		Model(&annotations).
		Where("a.deleted_at IS NULL").
		Order("a.created_at DESC")

	if opts.BookID != nil {
		q = q.Where("a.book_id = ?", *opts.BookID)
	}
	if opts.UserID != nil {
		q = q.Where("a.user_id = ?", *opts.UserID)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	return annotations, nil
}

// UpdateAnnotation applies a partial patch. An empty patch returns the current
// row unchanged without bumping updated_at. An empty color or note_text clears
// the stored value.
func (svc *Service) UpdateAnnotation(ctx context.Context, id string, opts UpdateAnnotationOptions) (*models.Annotation, error) {
	annotation, err := svc.RetrieveAnnotation(ctx, RetrieveAnnotationOptions{ID: &id})
	if err != nil {
		return nil, err
	}

	columns := []string{}

	if opts.Color != nil {
		annotation.Color = nilIfEmpty(opts.Color)
		columns = append(columns, "color")
	}
	if opts.NoteText != nil {
		annotation.NoteText = nilIfEmpty(opts.NoteText)
		columns = append(columns, "note_text")
	}

	if len(columns) == 0 {
		return annotation, nil
	}

	annotation.UpdatedAt = time.Now().Unix()
	columns = append(columns, "updated_at")

	_, err = svc.db.
		NewUpdate().
		Model(annotation).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	updated, err := svc.RetrieveAnnotation(ctx, RetrieveAnnotationOptions{ID: &id})
	if err != nil {
		if errors.Is(err, errcodes.NotFound("Annotation")) {
			return nil, errcodes.Inconsistency("Annotation")
		}
		return nil, err
	}

	return updated, nil
}

// DeleteAnnotation soft-deletes the annotation. The row stays behind its
// deleted_at marker and every read path filters it out.
func (svc *Service) DeleteAnnotation(ctx context.Context, id string) error {
	now := time.Now().Unix()

	res, err := svc.db.
		NewUpdate().
		Model((*models.Annotation)(nil)).
		Set("deleted_at = ?", now).
		Set("updated_at = ?", now).
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.WithStack(err)
	}
	if affected == 0 {
		return errcodes.NotFound("Annotation")
	}

	return nil
}

func nilIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
