package ports

import (
	"context"

	"smcTickBot/internal/domain"
)

// TickStream delivers live quotes for one instrument.
type TickStream interface {
	// StreamTicks starts streaming ticks for symbol. Connection management
	// (authorization, keepalive, reconnection) is the implementation's concern.
	// doneCh is closed once the stream stops for good; sending on stopCh stops it.
	StreamTicks(ctx context.Context, symbol string, handler func(tick *domain.Tick), errHandler func(err error)) (doneCh chan struct{}, stopCh chan struct{}, err error)
}
