package ports

import (
	"context"

	"smcTickBot/internal/domain"
)

// TradeRepository defines the interface for journaling placed contracts.
type TradeRepository interface {
	// CreateTrade saves a new trade record and returns its assigned ID.
	CreateTrade(ctx context.Context, trade *domain.Trade) (int64, error)
	// UpdateTrade stores the settlement fields (status, profit, settle time, error) of a trade.
	UpdateTrade(ctx context.Context, trade *domain.Trade) error
	// FindBySymbol retrieves the most recent trades for a given symbol, up to a limit.
	FindBySymbol(ctx context.Context, symbol string, limit int) ([]*domain.Trade, error)
	// FindBySession retrieves all trades of a session ordered by entry time.
	FindBySession(ctx context.Context, sessionID string) ([]*domain.Trade, error)
}
