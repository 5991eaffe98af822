package models

import (
	"time"

	"github.com/uptrace/bun"
)

// CustomPack is an admin-defined pack persisted alongside the catalog packs.
type CustomPack struct {
	bun.BaseModel `bun:"table:custom_packs,alias:cp"`

	ID         string    `bun:"id,pk"`
	MerchantID string    `bun:"merchant_id"`
	Name       string    `bun:"name,notnull"`
	Cost       int64     `bun:"cost,notnull"`
	CardCount  int       `bun:"card_count,notnull"`
	Common     float64   `bun:"prob_common,notnull"`
	Rare       float64   `bun:"prob_rare,notnull"`
	Epic       float64   `bun:"prob_epic,notnull"`
	Legendary  float64   `bun:"prob_legendary,notnull"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
