package domain

import "time"

// Tick represents a single quote received from the market data stream.
type Tick struct {
	Symbol string    // Instrument symbol (e.g., "R_75")
	Quote  float64   // Quoted price
	Epoch  time.Time // Venue timestamp of the quote
}
