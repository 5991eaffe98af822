// Package cardverse wires the persistence and economy engine together.
package cardverse

import (
	"context"
	"fmt"
	"time"

	"github.com/cardverse/cardverse/cardverse/catalog"
	"github.com/cardverse/cardverse/cardverse/database"
	"github.com/cardverse/cardverse/cardverse/database/repositories"
	"github.com/cardverse/cardverse/cardverse/economy"
	"github.com/cardverse/cardverse/cardverse/services"
)

func New(cfg *Config, version string, commit string) *App {
	return &App{
		Cfg:     cfg,
		Version: version,
		Commit:  commit,
	}
}

type App struct {
	Cfg     *Config
	Version string
	Commit  string

	DB      *database.DB
	Catalog *catalog.Catalog

	UserRepository    repositories.UserRepository
	CardRepository    repositories.CardRepository
	TradeRepository   repositories.TradeRepository
	PackRepository    repositories.PackRepository
	SessionRepository repositories.SessionRepository

	AccountService *services.AccountService
	ContentService *services.ContentService
	SessionService *services.SessionService
	TradeService   *services.TradeService

	Engine  *economy.Engine
	Rewards *economy.RewardScheduler
}

// Setup opens the store, loads the catalog, constructs the service graph
// and runs the one-time seed.
func (a *App) Setup(ctx context.Context) error {
	cat, err := catalog.Load(a.Cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	a.Catalog = cat

	db, err := database.New(ctx, a.Cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	a.DB = db

	if err := db.InitializeSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	a.UserRepository = repositories.NewUserRepository(db.BunDB())
	a.CardRepository = repositories.NewCardRepository(db.BunDB())
	a.TradeRepository = repositories.NewTradeRepository(db.BunDB())
	a.PackRepository = repositories.NewPackRepository(db.BunDB())
	a.SessionRepository = repositories.NewSessionRepository(db.BunDB())

	a.AccountService = services.NewAccountService(a.UserRepository, a.TradeRepository)
	a.ContentService = services.NewContentService(cat, a.CardRepository, a.PackRepository)
	a.SessionService = services.NewSessionService(a.SessionRepository, a.AccountService)
	a.TradeService = services.NewTradeService(a.TradeRepository, a.UserRepository)

	a.Engine = economy.NewEngine(a.UserRepository, a.ContentService, cat)
	a.Rewards = economy.NewRewardScheduler(a.Engine,
		time.Duration(a.Cfg.Rewards.TaskDelaySeconds)*time.Second)

	if err := EnsureSeed(ctx, a.UserRepository, a.Cfg.Seed); err != nil {
		return err
	}
	return nil
}

// Close drains pending reward payouts and closes the store.
func (a *App) Close() error {
	if a.Rewards != nil {
		a.Rewards.Wait()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
