package ports

import (
	"context"

	"smcTickBot/internal/domain"
)

// TradeRequest carries the parameters of a single binary contract purchase.
type TradeRequest struct {
	Symbol    string
	Direction domain.Direction
	Barrier   float64 // Signed offset from spot, e.g. +0.7777
	Stake     float64
}

// ExecutionPort places contracts on the venue and reports their outcome.
type ExecutionPort interface {
	// PlaceTrade requests a proposal and buys it.
	// Returns the venue contract id of the purchased contract.
	// Returns an error wrapping ErrSettlementUnknown when the buy was sent but
	// its reply never arrived, so the contract may exist.
	PlaceTrade(ctx context.Context, req TradeRequest) (int64, error)

	// AwaitSettlement blocks until the contract is sold and returns the realized profit.
	// Returns an error wrapping ErrSettlementUnknown when the outcome cannot be observed.
	AwaitSettlement(ctx context.Context, contractID int64) (float64, error)
}
