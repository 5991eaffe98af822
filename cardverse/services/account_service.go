package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/cardverse/cardverse/cardverse/database/models"
	"github.com/cardverse/cardverse/cardverse/database/repositories"
)

// StartingBalance is the currency granted to every new account.
const StartingBalance int64 = 1000

// AccountService handles registration, login and the social graph.
// Credentials are bcrypt-hashed at this boundary; the hash never appears in
// returned users.
type AccountService struct {
	users  repositories.UserRepository
	trades repositories.TradeRepository
}

func NewAccountService(users repositories.UserRepository, trades repositories.TradeRepository) *AccountService {
	return &AccountService{
		users:  users,
		trades: trades,
	}
}

// Register creates a new account with fixed defaults and persists it.
func (s *AccountService) Register(ctx context.Context, username, password, email string) (*models.User, error) {
	start := time.Now()

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, ErrDuplicateUser
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:          username,
		PasswordHash:      string(hash),
		Email:             email,
		Balance:           StartingBalance,
		Exp:               0,
		Level:             1,
		AvatarURL:         avatarURL(username),
		BackgroundURL:     backgroundURL(username),
		Collection:        models.StringList{},
		Achievements:      models.StringList{},
		CompletedChapters: models.StringList{},
		Friends:           models.StringList{},
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("User registered",
		slog.String("type", "op"),
		slog.String("name", "register"),
		slog.String("username", username),
		slog.Duration("took", time.Since(start)))

	return user.Sanitized(), nil
}

// Login returns the stored user only on an exact credential match. Any
// failure surfaces as ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	slog.Info("User logged in",
		slog.String("type", "op"),
		slog.String("name", "login"),
		slog.String("username", username))

	return user.Sanitized(), nil
}

// GetUser is the credential-stripped lookup used for session restoration.
func (s *AccountService) GetUser(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user.Sanitized(), nil
}

// ResetPassword reports whether an account with the given email exists.
func (s *AccountService) ResetPassword(ctx context.Context, email string) (bool, error) {
	_, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up email: %w", err)
	}
	return true, nil
}

// AddFriend links two users symmetrically. It is a silent no-op unless both
// users exist, they are distinct, and they are not already linked.
func (s *AccountService) AddFriend(ctx context.Context, a, b string) error {
	if a == b {
		return nil
	}

	userA, err := s.users.GetByUsername(ctx, a)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("failed to get user %q: %w", a, err)
	}
	userB, err := s.users.GetByUsername(ctx, b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("failed to get user %q: %w", b, err)
	}

	if userA.Friends.Contains(b) {
		return nil
	}

	userA.Friends = append(userA.Friends, b)
	userB.Friends = append(userB.Friends, a)

	if err := s.users.Update(ctx, userA); err != nil {
		return fmt.Errorf("failed to update user %q: %w", a, err)
	}
	if err := s.users.Update(ctx, userB); err != nil {
		return fmt.Errorf("failed to update user %q: %w", b, err)
	}
	return nil
}

// RemoveFriend removes b from a's friend list only. The reverse link stays;
// unfriending is deliberately one-directional.
func (s *AccountService) RemoveFriend(ctx context.Context, a, b string) error {
	userA, err := s.users.GetByUsername(ctx, a)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("failed to get user %q: %w", a, err)
	}

	if !userA.Friends.Contains(b) {
		return nil
	}

	userA.Friends = userA.Friends.Without(b)
	if err := s.users.Update(ctx, userA); err != nil {
		return fmt.Errorf("failed to update user %q: %w", a, err)
	}
	return nil
}

// ListUsers returns every account, credentials stripped. Restricting this
// to admins is the caller's concern.
func (s *AccountService) ListUsers(ctx context.Context) ([]*models.User, error) {
	users, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	out := make([]*models.User, len(users))
	for i, u := range users {
		out[i] = u.Sanitized()
	}
	return out, nil
}

// DeleteUser removes the account and purges every trade referencing it as
// either party.
func (s *AccountService) DeleteUser(ctx context.Context, username string) error {
	if err := s.users.Delete(ctx, username); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if err := s.trades.DeleteByUser(ctx, username); err != nil {
		return fmt.Errorf("failed to purge trades: %w", err)
	}

	slog.Info("User deleted",
		slog.String("type", "op"),
		slog.String("name", "delete_user"),
		slog.String("username", username))
	return nil
}

func avatarURL(username string) string {
	return fmt.Sprintf("https://image.pollinations.ai/prompt/anime%%20avatar%%20%s?width=200&height=200&nologo=true",
		url.QueryEscape(username))
}

func backgroundURL(username string) string {
	return fmt.Sprintf("https://image.pollinations.ai/prompt/anime%%20city%%20background%%20%s?width=800&height=300&nologo=true",
		url.QueryEscape(username))
}
