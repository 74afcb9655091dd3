package domain

// Direction represents the side of a trade (BUY or SELL).
type Direction string

const (
	Buy  Direction = "BUY"
	Sell Direction = "SELL"
)

// Opposite returns the other direction.
func (d Direction) Opposite() Direction {
	if d == Buy {
		return Sell
	}
	return Buy
}

// ContractType maps a direction onto the venue's binary contract kind.
func (d Direction) ContractType() string {
	if d == Buy {
		return "CALL"
	}
	return "PUT"
}

// BreakKind identifies which side of a zone was broken.
type BreakKind string

const (
	BreakHigh BreakKind = "BOS High" // Price closed above a supply zone top
	BreakLow  BreakKind = "BOS Low"  // Price closed below a demand zone bottom
)

// Direction returns the trade direction a confirmed break of this kind signals.
func (k BreakKind) Direction() Direction {
	if k == BreakHigh {
		return Buy
	}
	return Sell
}

// TradeStatus represents the lifecycle state of a journaled trade.
type TradeStatus string

const (
	TradePending TradeStatus = "pending" // Bought, awaiting settlement
	TradeWon     TradeStatus = "won"
	TradeLost    TradeStatus = "lost"
	TradeUnknown TradeStatus = "unknown" // Settlement could not be observed
	TradeFailed  TradeStatus = "failed"  // Proposal or buy rejected, nothing bought
)

// IsTerminal reports whether no further status change is expected.
func (s TradeStatus) IsTerminal() bool {
	return s != TradePending
}
