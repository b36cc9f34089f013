package settings

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

// UpdateSettingsOptions is a typed patch: nil fields are left untouched.
// Immutable fields (id, user_id, created_at) have no slot on purpose.
type UpdateSettingsOptions struct {
	DarkMode     *bool
	FontSize     *int
	Language     *string
	OpenAIAPIKey *string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) retrieveByUserID(ctx context.Context, userID string) (*models.UserSettings, error) {
	settings := &models.UserSettings{}

	err := svc.db.
		NewSelect().
		Model(settings).
		Where("us.user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Settings")
		}
		return nil, errors.WithStack(err)
	}

	return settings, nil
}

// GetOrCreate returns the user's settings, inserting a row with defaults
// (dark_mode off, font size 16, english) on first access. Safe to call
// repeatedly; at most one row ever exists per user.
func (svc *Service) GetOrCreate(ctx context.Context, userID string) (*models.UserSettings, error) {
	settings, err := svc.retrieveByUserID(ctx, userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, errcodes.NotFound("Settings")) {
		return nil, err
	}

	now := time.Now().Unix()
	created := models.DefaultUserSettings(userID)
	created.ID = identifiers.New()
	created.CreatedAt = now
	created.UpdatedAt = now

	_, err = svc.db.
		NewInsert().
		Model(created).
		On("CONFLICT (user_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	settings, err = svc.retrieveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, errcodes.NotFound("Settings")) {
			return nil, errcodes.Inconsistency("Settings")
		}
		return nil, err
	}

	return settings, nil
}

// UpdateSettings applies a partial patch. An empty patch returns the current
// row unchanged without bumping updated_at. An empty api key clears the stored
// value.
func (svc *Service) UpdateSettings(ctx context.Context, userID string, opts UpdateSettingsOptions) (*models.UserSettings, error) {
	settings, err := svc.retrieveByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	columns := []string{}
	if opts.DarkMode != nil {
		settings.DarkMode = *opts.DarkMode
		columns = append(columns, "dark_mode")
	}
	if opts.FontSize != nil {
		if *opts.FontSize < 1 {
			return nil, errcodes.ValidationError("font_size must be greater than 0")
		}
		settings.FontSize = *opts.FontSize
		columns = append(columns, "font_size")
	}
	if opts.Language != nil {
		if !models.IsValidLanguage(*opts.Language) {
			return nil, errcodes.ValidationError("language must be 'english' or 'vietnamese'")
		}
		settings.Language = *opts.Language
		columns = append(columns, "language")
	}
	if opts.OpenAIAPIKey != nil {
		if *opts.OpenAIAPIKey == "" {
			settings.OpenAIAPIKey = nil
		} else {
			settings.OpenAIAPIKey = opts.OpenAIAPIKey
		}
		columns = append(columns, "openai_api_key")
	}

	if len(columns) == 0 {
		return settings, nil
	}

	settings.UpdatedAt = time.Now().Unix()
	columns = append(columns, "updated_at")

	_, err = svc.db.
		NewUpdate().
		Model(settings).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	updated, err := svc.retrieveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, errcodes.NotFound("Settings")) {
			return nil, errcodes.Inconsistency("Settings")
		}
		return nil, err
	}

	return updated, nil
}
