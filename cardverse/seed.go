package cardverse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/cardverse/cardverse/cardverse/database/models"
	"github.com/cardverse/cardverse/cardverse/database/repositories"
)

// EnsureSeed creates the administrator account if it does not exist. It
// runs once at startup and persists the admin immediately, so clearing the
// store mid-session cannot silently reset the admin credential on a later
// read.
func EnsureSeed(ctx context.Context, users repositories.UserRepository, cfg SeedConfig) error {
	_, err := users.GetByUsername(ctx, cfg.AdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to check seed admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed credential: %w", err)
	}

	admin := &models.User{
		Username:          cfg.AdminUsername,
		PasswordHash:      string(hash),
		Email:             cfg.AdminEmail,
		IsAdmin:           true,
		Balance:           cfg.AdminBalance,
		Level:             99,
		TwoFactor:         true,
		CompletedTraining: true,
		AvatarURL:         "https://image.pollinations.ai/prompt/anime%20cyberpunk%20admin%20hacker?nologo=true",
		BackgroundURL:     "https://image.pollinations.ai/prompt/matrix%20code%20rain%20green?nologo=true",
		Collection:        models.StringList{},
		Achievements:      models.StringList{},
		CompletedChapters: models.StringList{},
		Friends:           models.StringList{},
	}
	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create seed admin: %w", err)
	}

	slog.Info("Seed admin created",
		slog.String("type", "sys"),
		slog.String("username", cfg.AdminUsername))
	return nil
}
