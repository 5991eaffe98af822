package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/cardverse/cardverse/cardverse/database/models"
)

type SessionRepository interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, username string) error
	Clear(ctx context.Context) error
}

type sessionRepository struct {
	db *bun.DB
}

func NewSessionRepository(db *bun.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Get returns the current session's username, or "" when logged out.
func (r *sessionRepository) Get(ctx context.Context) (string, error) {
	session := new(models.Session)
	err := r.db.NewSelect().
		Model(session).
		Where("id = ?", models.CurrentSessionID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return session.Username, nil
}

func (r *sessionRepository) Set(ctx context.Context, username string) error {
	session := &models.Session{
		ID:        models.CurrentSessionID,
		Username:  username,
		UpdatedAt: time.Now(),
	}
	_, err := r.db.NewInsert().
		Model(session).
		On("CONFLICT (id) DO UPDATE").
		Set("username = EXCLUDED.username").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	return err
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	_, err := r.db.NewDelete().
		Model((*models.Session)(nil)).
		Where("id = ?", models.CurrentSessionID).
		Exec(ctx)
	return err
}
