package backup

import (
	"context"
	"time"

	"github.com/deepreadapp/deepread/pkg/annotations"
	"github.com/deepreadapp/deepread/pkg/books"
	"github.com/deepreadapp/deepread/pkg/models"
	"github.com/deepreadapp/deepread/pkg/settings"
	"github.com/deepreadapp/deepread/pkg/version"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Export is a full snapshot of one user's library, suitable for moving to
// another device. Soft-deleted rows are not included.
type Export struct {
	Version     string               `json:"version"`
	ExportedAt  int64                `json:"exported_at"`
	UserID      string               `json:"user_id"`
	Settings    *models.UserSettings `json:"settings"`
	Books       []*models.Book       `json:"books"`
	Annotations []*models.Annotation `json:"annotations"`
}

type Service struct {
	db                *bun.DB
	bookService       *books.Service
	annotationService *annotations.Service
	settingsService   *settings.Service
}

func NewService(db *bun.DB) *Service {
	return &Service{
		db:                db,
		bookService:       books.NewService(db),
		annotationService: annotations.NewService(db),
		settingsService:   settings.NewService(db),
	}
}

// ExportUser gathers everything the user owns into a single snapshot.
func (svc *Service) ExportUser(ctx context.Context, userID string) (*Export, error) {
	userSettings, err := svc.settingsService.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	userBooks, err := svc.bookService.ListBooks(ctx, books.ListBooksOptions{UserID: &userID})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	userAnnotations, err := svc.annotationService.ListAnnotations(ctx, annotations.ListAnnotationsOptions{UserID: &userID})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &Export{
		Version:     version.Version,
		ExportedAt:  time.Now().Unix(),
		UserID:      userID,
		Settings:    userSettings,
		Books:       userBooks,
		Annotations: userAnnotations,
	}, nil
}
