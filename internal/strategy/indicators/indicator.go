package indicators

// Indicator represents a technical indicator that can be calculated from a price series
type Indicator interface {
	// Calculate computes the indicator value for the given prices (oldest first).
	// Returns an error wrapping ports.ErrInsufficientData when prices are too few.
	Calculate(prices []float64) (float64, error)

	// RequiredDataPoints returns the minimum number of prices needed for calculation
	RequiredDataPoints() int

	// Name returns the name of the indicator
	Name() string
}

// IndicatorConfig holds common configuration for indicators
type IndicatorConfig struct {
	Period int
}

// BaseIndicator provides common functionality for indicators
type BaseIndicator struct {
	Config IndicatorConfig
}

// RequiredDataPoints returns the minimum number of prices needed for calculation
func (b *BaseIndicator) RequiredDataPoints() int {
	return b.Config.Period
}
