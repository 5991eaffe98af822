package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/cardverse/cardverse/cardverse/database/models"
	"github.com/cardverse/cardverse/cardverse/database/repositories"
)

// SessionService keeps the single persisted session pointer and restores
// the logged-in user on restart.
type SessionService struct {
	sessions repositories.SessionRepository
	accounts *AccountService
}

func NewSessionService(sessions repositories.SessionRepository, accounts *AccountService) *SessionService {
	return &SessionService{
		sessions: sessions,
		accounts: accounts,
	}
}

// Restore returns the user from the persisted session pointer, or nil when
// logged out. A pointer to a user that no longer exists is cleared.
func (s *SessionService) Restore(ctx context.Context) (*models.User, error) {
	username, err := s.sessions.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}
	if username == "" {
		return nil, nil
	}

	user, err := s.accounts.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			_ = s.sessions.Clear(ctx)
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// Remember records the logged-in username.
func (s *SessionService) Remember(ctx context.Context, username string) error {
	return s.sessions.Set(ctx, username)
}

// Forget clears the session pointer.
func (s *SessionService) Forget(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}
