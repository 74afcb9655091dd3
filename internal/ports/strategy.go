package ports

import (
	"context"

	"smcTickBot/internal/domain"
)

// SignalEngine turns the tick stream into confirmed break-and-retest signals.
// Implementations are not safe for concurrent use; ticks must be fed in order.
type SignalEngine interface {
	// OnTick ingests one price and returns what was detected on it.
	OnTick(ctx context.Context, price float64) domain.TickAnalysis
	// RequiredDataPoints returns the warm-up length in ticks.
	RequiredDataPoints() int
	// Name identifies the engine in logs.
	Name() string
}
