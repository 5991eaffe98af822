package models

import (
	"time"

	"github.com/uptrace/bun"
)

// CustomCard is an admin-created card appended after the base catalog.
type CustomCard struct {
	bun.BaseModel `bun:"table:custom_cards,alias:cc"`

	ID          string    `bun:"id,pk"`
	Name        string    `bun:"name,notnull"`
	Description string    `bun:"description"`
	Rarity      string    `bun:"rarity,notnull"`
	ImageURL    string    `bun:"image_url"`
	Source      string    `bun:"source"`
	PowerLevel  int       `bun:"power_level"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}

// CardEdit is a partial-field override applied over a base catalog card at
// read time. Nil fields are left untouched; the base catalog is never
// mutated.
type CardEdit struct {
	bun.BaseModel `bun:"table:card_edits,alias:ce"`

	CardID      string    `bun:"card_id,pk"`
	Name        *string   `bun:"name"`
	Description *string   `bun:"description"`
	Rarity      *string   `bun:"rarity"`
	ImageURL    *string   `bun:"image_url"`
	Source      *string   `bun:"source"`
	PowerLevel  *int      `bun:"power_level"`
	UpdatedAt   time.Time `bun:"updated_at,notnull"`
}
