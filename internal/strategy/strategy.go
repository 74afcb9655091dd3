package strategy

import (
	"context"
	"fmt"

	"smcTickBot/internal/domain"
	"smcTickBot/internal/ports"
	"smcTickBot/internal/strategy/indicators"
	"smcTickBot/internal/strategy/structure"
)

// Config holds parameters for the market-structure engine.
type Config struct {
	HistoryCapacity       int                          // Prices kept in memory, e.g., 4000
	StructureWindow       int                          // Trailing prices scanned for swings, e.g., 120
	SwingHalfWidth        int                          // Look-around on each side of a swing candidate, e.g., 10
	ZoneKeep              int                          // Most recent swings of each kind turned into zones, e.g., 40
	BoxWidth              float64                      // Zone height is ATR * BoxWidth / 10, e.g., 2.5
	ATRPeriod             int                          // e.g., 14
	TrendMAPeriod         int                          // e.g., 6
	TrendMAType           indicators.MovingAverageType // SMA or EMA
	ToleranceFactor       float64                      // e.g., 0.20
	ConfirmationFactor    float64                      // e.g., 0.15
	ConfirmationLookahead int                          // e.g., 3
	RetestDeadline        int64                        // Ticks after a break, e.g., 300
}

// DefaultConfig returns the parameters the bot trades with out of the box.
func DefaultConfig() Config {
	return Config{
		HistoryCapacity:       4000,
		StructureWindow:       120,
		SwingHalfWidth:        10,
		ZoneKeep:              40,
		BoxWidth:              2.5,
		ATRPeriod:             14,
		TrendMAPeriod:         6,
		TrendMAType:           indicators.SimpleMovingAverage,
		ToleranceFactor:       0.20,
		ConfirmationFactor:    0.15,
		ConfirmationLookahead: 3,
		RetestDeadline:        300,
	}
}

// Validate checks the parameters for consistency.
func (c Config) Validate() error {
	if c.StructureWindow <= 0 || c.SwingHalfWidth <= 0 || c.ZoneKeep <= 0 || c.ATRPeriod <= 0 || c.TrendMAPeriod <= 0 {
		return fmt.Errorf("strategy windows and periods must be positive: %w", ports.ErrConfigurationError)
	}
	if c.TrendMAType != indicators.SimpleMovingAverage && c.TrendMAType != indicators.ExponentialMovingAverage {
		return fmt.Errorf("unsupported trend MA type %q: %w", c.TrendMAType, ports.ErrConfigurationError)
	}
	if c.StructureWindow < 2*c.SwingHalfWidth+1 {
		return fmt.Errorf("structure window %d is too short for swing half-width %d: %w", c.StructureWindow, c.SwingHalfWidth, ports.ErrConfigurationError)
	}
	if c.HistoryCapacity < c.StructureWindow || c.HistoryCapacity < c.TrendMAPeriod {
		return fmt.Errorf("history capacity %d must cover the structure window and MA period: %w", c.HistoryCapacity, ports.ErrConfigurationError)
	}
	if c.BoxWidth <= 0 || c.ToleranceFactor <= 0 || c.ConfirmationFactor < 0 {
		return fmt.Errorf("zone and tolerance factors must be positive: %w", ports.ErrConfigurationError)
	}
	if c.ConfirmationLookahead <= 0 || c.RetestDeadline <= 0 {
		return fmt.Errorf("confirmation lookahead and retest deadline must be positive: %w", ports.ErrConfigurationError)
	}
	return nil
}

// Strategy is the market-structure signal engine. It owns the price history
// and the live retest trackers; it is driven by a single goroutine.
type Strategy struct {
	cfg      Config
	logger   ports.Logger
	window   *indicators.PriceWindow
	atr      *indicators.ATR
	trendMA  *indicators.MovingAverage
	zoneCfg  structure.ZoneConfig
	trackers *structure.TrackerSet
}

// New creates a new Strategy instance.
func New(cfg Config, logger ports.Logger) (*Strategy, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger is required for strategy")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	retestCfg := structure.RetestConfig{
		ToleranceFactor:       cfg.ToleranceFactor,
		ConfirmationFactor:    cfg.ConfirmationFactor,
		ConfirmationLookahead: cfg.ConfirmationLookahead,
		RetestDeadline:        cfg.RetestDeadline,
	}
	return &Strategy{
		cfg:      cfg,
		logger:   logger,
		window:   indicators.NewPriceWindow(cfg.HistoryCapacity),
		atr:      indicators.NewATR(indicators.ATRConfig{IndicatorConfig: indicators.IndicatorConfig{Period: cfg.ATRPeriod}}),
		trendMA:  indicators.NewMovingAverage(indicators.MovingAverageConfig{IndicatorConfig: indicators.IndicatorConfig{Period: cfg.TrendMAPeriod}, Type: cfg.TrendMAType}),
		zoneCfg:  structure.ZoneConfig{WidthFactor: cfg.BoxWidth / 10, Keep: cfg.ZoneKeep},
		trackers: structure.NewTrackerSet(retestCfg),
	}, nil
}

// Name identifies the engine in logs.
func (s *Strategy) Name() string {
	return fmt.Sprintf("SMC(L=%d,W=%d,%s)", s.cfg.SwingHalfWidth, s.cfg.StructureWindow, s.trendMA.Name())
}

// RequiredDataPoints returns the number of ticks observed before any
// structure detection happens.
func (s *Strategy) RequiredDataPoints() int {
	if s.cfg.TrendMAPeriod > s.cfg.StructureWindow {
		return s.cfg.TrendMAPeriod
	}
	return s.cfg.StructureWindow
}

// LiveTrackers returns the number of breaks still being followed.
func (s *Strategy) LiveTrackers() int {
	return s.trackers.Len()
}

// OnTick appends price to the history and runs one detection pass: indicators,
// swings, zones, breaks, then tracker advancement. Confirmed signals in the
// result are consumed; they will not be reported again.
func (s *Strategy) OnTick(ctx context.Context, price float64) domain.TickAnalysis {
	index := s.window.Append(price)
	res := domain.TickAnalysis{Index: index, Price: price}

	if s.window.Len() < s.RequiredDataPoints() {
		return res
	}
	res.Warm = true

	history, _ := s.window.Tail(s.window.Len())
	if atr, err := s.atr.Calculate(history); err == nil {
		res.ATR = atr
	}
	if ma, err := s.trendMA.Calculate(history); err == nil {
		res.TrendMA = ma
		res.HasTrendMA = true
	}

	recent, start := s.window.Tail(s.cfg.StructureWindow)
	highs, lows := structure.FindSwingPoints(recent, start, s.cfg.SwingHalfWidth)
	res.Supply, res.Demand = structure.BuildZones(history, highs, lows, res.ATR, s.zoneCfg)

	res.Breaks = structure.DetectBOS(index, price, res.Supply, res.Demand)
	for _, ev := range res.Breaks {
		if s.trackers.Register(ev) == nil {
			continue
		}
		res.Registered = append(res.Registered, ev)
		s.logger.Info(ctx, "Break of structure registered", map[string]interface{}{
			"kind":   string(ev.Kind),
			"index":  ev.Index,
			"price":  ev.Price,
			"poi":    ev.Zone.POI,
			"top":    ev.Zone.Top,
			"bottom": ev.Zone.Bottom,
		})
	}

	pass := s.trackers.Advance(s.window, index, price)
	res.Signals = pass.Confirmed
	res.Mitigated = pass.Mitigated
	res.Expired = pass.Expired
	res.LiveTrackers = s.trackers.Len()

	for _, sig := range res.Signals {
		s.logger.Info(ctx, "Retest confirmed", map[string]interface{}{
			"kind":              string(sig.Kind),
			"direction":         string(sig.Direction()),
			"poi":               sig.Zone.POI,
			"bosIndex":          sig.BOSIndex,
			"retestIndex":       sig.RetestIndex,
			"confirmationIndex": sig.ConfirmationIndex,
			"price":             sig.Price,
		})
	}
	if res.Mitigated > 0 || res.Expired > 0 {
		s.logger.Debug(ctx, "Trackers dropped", map[string]interface{}{
			"index":     index,
			"mitigated": res.Mitigated,
			"expired":   res.Expired,
			"live":      res.LiveTrackers,
		})
	}
	return res
}
