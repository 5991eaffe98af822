package repositories

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"github.com/cardverse/cardverse/cardverse/database/models"
)

type TradeRepository interface {
	Create(ctx context.Context, trade *models.Trade) error
	GetByTradeID(ctx context.Context, tradeID string) (*models.Trade, error)
	GetAll(ctx context.Context) ([]*models.Trade, error)
	GetByUser(ctx context.Context, username string) ([]*models.Trade, error)
	UpdateStatus(ctx context.Context, tradeID string, status models.TradeStatus) error
	DeleteByUser(ctx context.Context, username string) error
}

type tradeRepository struct {
	db *bun.DB
}

func NewTradeRepository(db *bun.DB) TradeRepository {
	return &tradeRepository{db: db}
}

func (r *tradeRepository) Create(ctx context.Context, trade *models.Trade) error {
	trade.CreatedAt = time.Now()
	trade.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(trade).Exec(ctx)
	return err
}

func (r *tradeRepository) GetByTradeID(ctx context.Context, tradeID string) (*models.Trade, error) {
	trade := new(models.Trade)
	err := r.db.NewSelect().
		Model(trade).
		Where("trade_id = ?", tradeID).
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return trade, nil
}

func (r *tradeRepository) GetAll(ctx context.Context) ([]*models.Trade, error) {
	var trades []*models.Trade
	err := r.db.NewSelect().
		Model(&trades).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return trades, nil
}

func (r *tradeRepository) GetByUser(ctx context.Context, username string) ([]*models.Trade, error) {
	var trades []*models.Trade
	err := r.db.NewSelect().
		Model(&trades).
		Where("from_user = ? OR to_user = ?", username, username).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return trades, nil
}

func (r *tradeRepository) UpdateStatus(ctx context.Context, tradeID string, status models.TradeStatus) error {
	_, err := r.db.NewUpdate().
		Model((*models.Trade)(nil)).
		Set("status = ?", status).
		Set("updated_at = ?", time.Now()).
		Where("trade_id = ?", tradeID).
		Exec(ctx)
	return err
}

// DeleteByUser purges every trade referencing the username as either party.
// Called when an admin deletes a user.
func (r *tradeRepository) DeleteByUser(ctx context.Context, username string) error {
	_, err := r.db.NewDelete().
		Model((*models.Trade)(nil)).
		Where("from_user = ? OR to_user = ?", username, username).
		Exec(ctx)
	return err
}
