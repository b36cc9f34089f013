package users

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

type RetrieveUserOptions struct {
	ID *string
}

// Service handles user identity operations. Users have no delete operation;
// once a row exists it stays forever.
type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) RetrieveUser(ctx context.Context, opts RetrieveUserOptions) (*models.User, error) {
	user := &models.User{}

	q := svc.db.
		NewSelect().
		Model(user)

	if opts.ID != nil {
		q = q.Where("u.id = ?", *opts.ID)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("User")
		}
		return nil, errors.WithStack(err)
	}

	return user, nil
}

// CreateOrGet returns the user with the given id, refreshing last_login_at on
// every hit. A missing row is created with the supplied id, or a generated one
// when the caller passes an empty string.
func (svc *Service) CreateOrGet(ctx context.Context, id string) (*models.User, error) {
	now := time.Now().Unix()

	if id != "" {
		user, err := svc.RetrieveUser(ctx, RetrieveUserOptions{ID: &id})
		if err == nil {
			user.LastLoginAt = &now
			user.UpdatedAt = now
			_, err = svc.db.
				NewUpdate().
				Model(user).
				Column("last_login_at", "updated_at").
				WherePK().
				Exec(ctx)
			if err != nil {
				return nil, errors.WithStack(err)
			}
			return user, nil
		}
		if !errors.Is(err, errcodes.NotFound("User")) {
			return nil, err
		}
	}

	if id == "" {
		id = identifiers.New()
	}

	user := &models.User{
		ID:          id,
		CreatedAt:   now,
		UpdatedAt:   now,
		LastLoginAt: &now,
	}

	// DO NOTHING keeps this safe against a concurrent first-launch race on the
	// same identifier.
	_, err := svc.db.
		NewInsert().
		Model(user).
		On("CONFLICT (id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	created, err := svc.RetrieveUser(ctx, RetrieveUserOptions{ID: &id})
	if err != nil {
		if errors.Is(err, errcodes.NotFound("User")) {
			return nil, errcodes.Inconsistency("User")
		}
		return nil, err
	}

	return created, nil
}
