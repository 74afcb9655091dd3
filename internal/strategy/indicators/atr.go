package indicators

import (
	"fmt"
	"math"

	"smcTickBot/internal/ports"
)

// ATRConfig holds configuration for the tick ATR indicator
type ATRConfig struct {
	IndicatorConfig
}

// ATR is a simplified Average True Range for tick data: the mean absolute
// tick-to-tick change over the trailing Period deltas.
type ATR struct {
	BaseIndicator
}

// NewATR creates a new tick ATR indicator instance
func NewATR(config ATRConfig) *ATR {
	return &ATR{BaseIndicator: BaseIndicator{Config: config.IndicatorConfig}}
}

// Name returns the name of the indicator
func (a *ATR) Name() string {
	return "ATR"
}

// RequiredDataPoints returns 2: a single delta is enough, shorter series are averaged whole.
func (a *ATR) RequiredDataPoints() int {
	return 2
}

// Calculate computes the mean absolute delta over the last Period deltas.
// With fewer than Period deltas available, all of them are averaged.
func (a *ATR) Calculate(prices []float64) (float64, error) {
	if len(prices) < 2 {
		return 0, fmt.Errorf("ATR needs 2 prices, got %d: %w", len(prices), ports.ErrInsufficientData)
	}

	deltas := len(prices) - 1
	start := 1
	if a.Config.Period > 0 && deltas > a.Config.Period {
		start = len(prices) - a.Config.Period
	}

	total := 0.0
	for i := start; i < len(prices); i++ {
		total += math.Abs(prices[i] - prices[i-1])
	}
	return total / float64(len(prices)-start), nil
}
