// Package economy implements balance, progression and pack-opening rules.
package economy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/cardverse/cardverse/cardverse/catalog"
	"github.com/cardverse/cardverse/cardverse/database/models"
	"github.com/cardverse/cardverse/cardverse/database/repositories"
)

// ErrInsufficientFunds is returned when a purchase costs more than the
// buyer's balance. Balance debits themselves never re-validate.
var ErrInsufficientFunds = errors.New("insufficient funds")

const (
	// ExpPerCard is the experience granted per card added to a collection.
	ExpPerCard int64 = 10

	// AchievementCollector unlocks at ten distinct cards.
	AchievementCollector = "a1"
	collectorThreshold   = 10

	// AchievementSaver unlocks when the balance reaches saverThreshold.
	AchievementSaver = "a2"
	saverThreshold   = 2000

	// AchievementLucky unlocks when a Legendary card enters the collection.
	AchievementLucky = "a3"
)

// ContentProvider is the merged card/pack view the engine draws from.
type ContentProvider interface {
	GetCards(ctx context.Context) ([]catalog.Card, error)
	GetPacks(ctx context.Context) ([]catalog.Pack, error)
}

// ProfilePatch is a partial profile update. Nil fields are left unchanged.
type ProfilePatch struct {
	AvatarURL         *string
	BackgroundURL     *string
	CompletedTraining *bool
}

// Engine mutates user progression state. All operations load the user,
// apply the change, run the achievement pass and write the user back.
type Engine struct {
	users   repositories.UserRepository
	content ContentProvider
	catalog *catalog.Catalog

	mu  sync.Mutex
	rng *rand.Rand
}

func NewEngine(users repositories.UserRepository, content ContentProvider, cat *catalog.Catalog) *Engine {
	return &Engine{
		users:   users,
		content: content,
		catalog: cat,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Seed reseeds the draw source. Tests use it for deterministic draws.
func (e *Engine) Seed(seed int64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rng = rand.New(rand.NewSource(seed))
}

// UpdateBalance adds delta (signed) to the user's balance. It does not
// clamp at zero; callers must pre-validate sufficient funds.
func (e *Engine) UpdateBalance(ctx context.Context, username string, delta int64) (*models.User, error) {
	user, err := e.loadUser(ctx, username)
	if err != nil || user == nil {
		return nil, err
	}

	user.Balance += delta
	if err := e.saveUser(ctx, user); err != nil {
		return nil, err
	}

	slog.Debug("Balance updated",
		slog.String("type", "op"),
		slog.String("name", "update_balance"),
		slog.String("username", username),
		slog.Int64("delta", delta),
		slog.Int64("balance", user.Balance))

	return user.Sanitized(), nil
}

// AddCards appends card ids to the collection, grants experience and
// recomputes the derived level.
func (e *Engine) AddCards(ctx context.Context, username string, ids []string) (*models.User, error) {
	user, err := e.loadUser(ctx, username)
	if err != nil || user == nil {
		return nil, err
	}

	user.Collection = append(user.Collection, ids...)
	user.Exp += ExpPerCard * int64(len(ids))
	user.Level = models.LevelForExp(user.Exp)

	if err := e.saveUser(ctx, user); err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

// CompleteChapter records a chapter as completed and credits its reward in
// one combined update. Completing an already-completed chapter is a no-op.
func (e *Engine) CompleteChapter(ctx context.Context, username, chapterID string, reward int64) (*models.User, error) {
	user, err := e.loadUser(ctx, username)
	if err != nil || user == nil {
		return nil, err
	}

	if user.CompletedChapters.Contains(chapterID) {
		return user.Sanitized(), nil
	}

	user.CompletedChapters = append(user.CompletedChapters, chapterID)
	user.Balance += reward

	if err := e.saveUser(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("Chapter completed",
		slog.String("type", "op"),
		slog.String("name", "complete_chapter"),
		slog.String("username", username),
		slog.String("chapter", chapterID),
		slog.Int64("reward", reward))

	return user.Sanitized(), nil
}

// UpdateProfile shallow-merges allowed profile fields.
func (e *Engine) UpdateProfile(ctx context.Context, username string, patch ProfilePatch) (*models.User, error) {
	user, err := e.loadUser(ctx, username)
	if err != nil || user == nil {
		return nil, err
	}

	if patch.AvatarURL != nil {
		user.AvatarURL = *patch.AvatarURL
	}
	if patch.BackgroundURL != nil {
		user.BackgroundURL = *patch.BackgroundURL
	}
	if patch.CompletedTraining != nil {
		user.CompletedTraining = *patch.CompletedTraining
	}

	if err := e.saveUser(ctx, user); err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

// CollectionStats summarizes a user's collection against the merged card
// view.
type CollectionStats struct {
	Total         int
	Unique        int
	CompletionPct int
	Legendaries   int
}

func (e *Engine) CollectionStats(ctx context.Context, username string) (CollectionStats, error) {
	user, err := e.loadUser(ctx, username)
	if err != nil {
		return CollectionStats{}, err
	}
	if user == nil {
		return CollectionStats{}, fmt.Errorf("user %q not found", username)
	}

	cards, err := e.content.GetCards(ctx)
	if err != nil {
		return CollectionStats{}, err
	}
	rarityByID := make(map[string]catalog.Rarity, len(cards))
	for _, c := range cards {
		rarityByID[c.ID] = c.Rarity
	}

	stats := CollectionStats{
		Total:  len(user.Collection),
		Unique: user.Collection.Unique(),
	}
	total := len(cards)
	if total == 0 {
		total = 1
	}
	stats.CompletionPct = stats.Unique * 100 / total
	for _, id := range user.Collection {
		if rarityByID[id] == catalog.RarityLegendary {
			stats.Legendaries++
		}
	}
	return stats, nil
}

// loadUser returns nil, nil for an unknown username; most economy
// operations silently no-op on missing users.
func (e *Engine) loadUser(ctx context.Context, username string) (*models.User, error) {
	user, err := e.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// saveUser runs the achievement pass and persists the user.
func (e *Engine) saveUser(ctx context.Context, user *models.User) error {
	e.evaluateAchievements(ctx, user)
	if err := e.users.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to save user: %w", err)
	}
	return nil
}

// evaluateAchievements runs after every balance or collection mutation and
// unlocks any not-yet-held achievement whose condition holds. The set only
// grows.
func (e *Engine) evaluateAchievements(ctx context.Context, user *models.User) {
	unlock := func(id string) {
		if !user.Achievements.Contains(id) {
			user.Achievements = append(user.Achievements, id)
			slog.Info("Achievement unlocked",
				slog.String("type", "op"),
				slog.String("name", "achievement"),
				slog.String("username", user.Username),
				slog.String("achievement", id))
		}
	}

	if user.Balance >= saverThreshold {
		unlock(AchievementSaver)
	}
	if user.Collection.Unique() >= collectorThreshold {
		unlock(AchievementCollector)
	}
	if !user.Achievements.Contains(AchievementLucky) && e.hasLegendary(ctx, user) {
		unlock(AchievementLucky)
	}
}

func (e *Engine) hasLegendary(ctx context.Context, user *models.User) bool {
	if len(user.Collection) == 0 {
		return false
	}
	cards, err := e.content.GetCards(ctx)
	if err != nil {
		slog.Warn("Achievement pass skipped legendary check",
			slog.String("type", "op"),
			slog.String("error", err.Error()))
		return false
	}
	legendary := make(map[string]bool)
	for _, c := range cards {
		if c.Rarity == catalog.RarityLegendary {
			legendary[c.ID] = true
		}
	}
	for _, id := range user.Collection {
		if legendary[id] {
			return true
		}
	}
	return false
}
