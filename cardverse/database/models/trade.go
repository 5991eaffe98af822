package models

import (
	"time"

	"github.com/uptrace/bun"
)

type TradeStatus string

const (
	TradePending   TradeStatus = "pending"
	TradeAccepted  TradeStatus = "accepted"
	TradeRejected  TradeStatus = "rejected"
	TradeCancelled TradeStatus = "cancelled"
)

// Trade is an offer of one card for another between two users.
type Trade struct {
	bun.BaseModel `bun:"table:trades,alias:t"`

	ID            int64       `bun:"id,pk,autoincrement"`
	TradeID       string      `bun:"trade_id,notnull,unique"`
	FromUser      string      `bun:"from_user,notnull"`
	ToUser        string      `bun:"to_user,notnull"`
	OfferCardID   string      `bun:"offer_card_id,notnull"`
	RequestCardID string      `bun:"request_card_id,notnull"`
	Status        TradeStatus `bun:"status,notnull"`
	CreatedAt     time.Time   `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt     time.Time   `bun:"updated_at,notnull"`
}
