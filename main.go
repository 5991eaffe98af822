package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/cardverse/cardverse/cardverse"
	"github.com/cardverse/cardverse/cardverse/logger"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	path := flag.String("config", "config.toml", "path to config")
	exportPath := flag.String("export", "", "write a JSON snapshot of the store and exit")
	importPath := flag.String("import", "", "load a JSON snapshot into the store and exit")
	flag.Parse()

	cfg, err := cardverse.LoadConfig(*path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Error("Failed to load configuration", slog.Any("error", err))
			os.Exit(1)
		}
		cfg = cardverse.Default()
	}

	slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))
	slog.Info("Starting CardVerse engine",
		slog.String("version", version),
		slog.String("commit", commit))

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	app := cardverse.New(cfg, version, commit)
	if err := app.Setup(ctx); err != nil {
		logger.LogError("Engine setup failed", err)
		os.Exit(1)
	}
	defer app.Close()

	switch {
	case *exportPath != "":
		if err := app.DB.ExportFile(ctx, *exportPath); err != nil {
			logger.LogError("Snapshot export failed", err)
			os.Exit(1)
		}
		logger.LogSystem("Snapshot written", slog.String("path", *exportPath))

	case *importPath != "":
		if err := app.DB.ImportFile(ctx, *importPath); err != nil {
			logger.LogError("Snapshot import failed", err)
			os.Exit(1)
		}
		logger.LogSystem("Snapshot loaded", slog.String("path", *importPath))

	default:
		users, err := app.AccountService.ListUsers(ctx)
		if err != nil {
			logger.LogError("Store check failed", err)
			os.Exit(1)
		}
		cards, err := app.ContentService.GetCards(ctx)
		if err != nil {
			logger.LogError("Store check failed", err)
			os.Exit(1)
		}
		logger.LogSystem("Store ready",
			slog.String("path", cfg.Storage.Path),
			slog.Int("users", len(users)),
			slog.Int("cards", len(cards)),
			slog.Int("packs", len(app.Catalog.Packs)),
			slog.Int("chapters", len(app.Catalog.Chapters)))
	}
}
