package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/cardverse/cardverse/cardverse/database/models"
	"github.com/cardverse/cardverse/cardverse/database/repositories"
)

// TradeService records card trade offers between users. Accepting a trade
// changes its status only; card ownership is not transferred.
type TradeService struct {
	trades repositories.TradeRepository
	users  repositories.UserRepository
}

func NewTradeService(trades repositories.TradeRepository, users repositories.UserRepository) *TradeService {
	return &TradeService{
		trades: trades,
		users:  users,
	}
}

// Offer creates a pending trade between two existing users.
func (s *TradeService) Offer(ctx context.Context, from, to, offerCardID, requestCardID string) (*models.Trade, error) {
	for _, username := range []string{from, to} {
		if _, err := s.users.GetByUsername(ctx, username); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrUserNotFound
			}
			return nil, fmt.Errorf("failed to check user %q: %w", username, err)
		}
	}

	trade := &models.Trade{
		TradeID:       uuid.NewString(),
		FromUser:      from,
		ToUser:        to,
		OfferCardID:   offerCardID,
		RequestCardID: requestCardID,
		Status:        models.TradePending,
	}
	if err := s.trades.Create(ctx, trade); err != nil {
		return nil, fmt.Errorf("failed to create trade: %w", err)
	}
	return trade, nil
}

// Respond moves a pending trade to accepted, rejected or cancelled.
func (s *TradeService) Respond(ctx context.Context, tradeID string, status models.TradeStatus) error {
	trade, err := s.trades.GetByTradeID(ctx, tradeID)
	if err != nil {
		return fmt.Errorf("failed to get trade: %w", err)
	}
	if trade.Status != models.TradePending {
		return fmt.Errorf("trade %q is already %s", tradeID, trade.Status)
	}
	switch status {
	case models.TradeAccepted, models.TradeRejected, models.TradeCancelled:
	default:
		return fmt.Errorf("invalid trade response %q", status)
	}
	return s.trades.UpdateStatus(ctx, tradeID, status)
}

// ListForUser returns every trade where the user is either party.
func (s *TradeService) ListForUser(ctx context.Context, username string) ([]*models.Trade, error) {
	return s.trades.GetByUser(ctx, username)
}
