// Package database owns the persistent store: an embedded SQLite file
// accessed through bun, with one keyed table per entity.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	"github.com/cardverse/cardverse/cardverse/database/models"
)

const defaultBusyTimeout = 5 * time.Second

type Config struct {
	Path string `toml:"path"`
}

type DB struct {
	sqlDB *sql.DB
	bunDB *bun.DB
}

// New opens (or creates) the SQLite store at cfg.Path.
func New(ctx context.Context, cfg Config) (*DB, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(cfg.Path) +
		"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	// SQLite allows a single writer; the engine targets a single session.
	sqlDB.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, defaultBusyTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("store unreachable: %w", err)
	}

	db := &DB{
		sqlDB: sqlDB,
		bunDB: bun.NewDB(sqlDB, sqlitedialect.New()),
	}
	return db, nil
}

// InitializeSchema creates all required tables.
func (db *DB) InitializeSchema(ctx context.Context) error {
	tables := []interface{}{
		(*models.User)(nil),
		(*models.CustomCard)(nil),
		(*models.CardEdit)(nil),
		(*models.CustomPack)(nil),
		(*models.Trade)(nil),
		(*models.Session)(nil),
	}

	for _, table := range tables {
		start := time.Now()
		_, err := db.bunDB.NewCreateTable().
			Model(table).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create table for %T: %w", table, err)
		}
		slog.Debug("Table ensured",
			slog.String("type", "db"),
			slog.String("model", fmt.Sprintf("%T", table)),
			slog.Duration("took", time.Since(start)))
	}

	return nil
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

func (db *DB) Close() error {
	return db.sqlDB.Close()
}
