package database

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/uptrace/bun"
	"golang.org/x/sync/errgroup"

	"github.com/cardverse/cardverse/cardverse/database/models"
)

// Document is the legacy single-aggregate layout the original web build
// persisted under one storage key. It remains the backup and import format.
type Document struct {
	Users       map[string]*UserRecord      `json:"users"`
	Trades      []*models.Trade             `json:"trades"`
	CustomCards []*models.CustomCard        `json:"customCards"`
	CardEdits   map[string]*models.CardEdit `json:"cardEdits"`
	CustomPacks []*models.CustomPack        `json:"customPacks"`
}

// UserRecord carries the credential hash, unlike API-facing users. A
// snapshot is a full backup.
type UserRecord struct {
	*models.User
	PasswordHash string `json:"passwordHash"`
}

// Export assembles a snapshot of the whole store. The per-entity reads run
// concurrently.
func (db *DB) Export(ctx context.Context) (*Document, error) {
	doc := &Document{
		Users:     make(map[string]*UserRecord),
		CardEdits: make(map[string]*models.CardEdit),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var users []*models.User
		if err := db.bunDB.NewSelect().Model(&users).Scan(gctx); err != nil {
			return fmt.Errorf("failed to export users: %w", err)
		}
		for _, u := range users {
			doc.Users[u.Username] = &UserRecord{User: u, PasswordHash: u.PasswordHash}
		}
		return nil
	})

	g.Go(func() error {
		var trades []*models.Trade
		if err := db.bunDB.NewSelect().Model(&trades).Scan(gctx); err != nil {
			return fmt.Errorf("failed to export trades: %w", err)
		}
		doc.Trades = trades
		return nil
	})

	g.Go(func() error {
		var cards []*models.CustomCard
		if err := db.bunDB.NewSelect().Model(&cards).Scan(gctx); err != nil {
			return fmt.Errorf("failed to export custom cards: %w", err)
		}
		doc.CustomCards = cards
		return nil
	})

	g.Go(func() error {
		var edits []*models.CardEdit
		if err := db.bunDB.NewSelect().Model(&edits).Scan(gctx); err != nil {
			return fmt.Errorf("failed to export card edits: %w", err)
		}
		for _, e := range edits {
			doc.CardEdits[e.CardID] = e
		}
		return nil
	})

	g.Go(func() error {
		var packs []*models.CustomPack
		if err := db.bunDB.NewSelect().Model(&packs).Scan(gctx); err != nil {
			return fmt.Errorf("failed to export custom packs: %w", err)
		}
		doc.CustomPacks = packs
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if doc.Trades == nil {
		doc.Trades = []*models.Trade{}
	}
	if doc.CustomCards == nil {
		doc.CustomCards = []*models.CustomCard{}
	}
	if doc.CustomPacks == nil {
		doc.CustomPacks = []*models.CustomPack{}
	}
	return doc, nil
}

// ExportFile writes a snapshot as indented JSON.
func (db *DB) ExportFile(ctx context.Context, path string) error {
	doc, err := db.Export(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Import replaces the store's contents with the document. Runs in one
// transaction; a failed import leaves the store unchanged.
func (db *DB) Import(ctx context.Context, doc *Document) error {
	return db.bunDB.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, model := range []interface{}{
			(*models.User)(nil),
			(*models.Trade)(nil),
			(*models.CustomCard)(nil),
			(*models.CardEdit)(nil),
			(*models.CustomPack)(nil),
		} {
			if _, err := tx.NewDelete().Model(model).Where("1 = 1").Exec(ctx); err != nil {
				return fmt.Errorf("failed to clear table for %T: %w", model, err)
			}
		}

		for _, rec := range doc.Users {
			user := rec.User
			user.PasswordHash = rec.PasswordHash
			if _, err := tx.NewInsert().Model(user).Exec(ctx); err != nil {
				return fmt.Errorf("failed to import user %q: %w", user.Username, err)
			}
		}
		for _, trade := range doc.Trades {
			if _, err := tx.NewInsert().Model(trade).Exec(ctx); err != nil {
				return fmt.Errorf("failed to import trade %q: %w", trade.TradeID, err)
			}
		}
		for _, card := range doc.CustomCards {
			if _, err := tx.NewInsert().Model(card).Exec(ctx); err != nil {
				return fmt.Errorf("failed to import custom card %q: %w", card.ID, err)
			}
		}
		for id, edit := range doc.CardEdits {
			edit.CardID = id
			if _, err := tx.NewInsert().Model(edit).Exec(ctx); err != nil {
				return fmt.Errorf("failed to import card edit %q: %w", id, err)
			}
		}
		for _, pack := range doc.CustomPacks {
			if _, err := tx.NewInsert().Model(pack).Exec(ctx); err != nil {
				return fmt.Errorf("failed to import custom pack %q: %w", pack.ID, err)
			}
		}
		return nil
	})
}

// ImportFile reads a JSON snapshot and loads it into the store.
func (db *DB) ImportFile(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return db.Import(ctx, &doc)
}
