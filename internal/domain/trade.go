package domain

import "time"

// Trade represents a binary contract placed by the bot.
type Trade struct {
	ID           int64       // Unique identifier (usually from DB)
	SessionID    string      // Process session that placed the trade
	Symbol       string      // Instrument symbol
	Direction    Direction   // BUY or SELL
	ContractType string      // Venue contract kind (CALL/PUT)
	ContractID   int64       // Venue contract id (0 if the buy failed)
	Stake        float64     // Amount staked
	Barrier      float64     // Signed barrier offset from spot
	EntryPrice   float64     // Last tick price when the signal fired
	Profit       float64     // Realized profit, negative on loss
	Status       TradeStatus // Current lifecycle state
	EntryTime    time.Time   // Time the trade was requested
	SettleTime   time.Time   // Time the outcome was observed (zero while pending)
	Error        string      // Failure description for failed/unknown trades
}

// IsWin reports whether the trade settled without a loss.
func (t *Trade) IsWin() bool {
	return t.Status == TradeWon
}
