package risk

import (
	"fmt"
	"sync"
	"time"

	"smcTickBot/internal/domain"
	"smcTickBot/internal/ports"
)

// MoneyConfig holds configuration for stake sizing and session pauses
type MoneyConfig struct {
	BaseStake            float64       // Stake after a win and at start, e.g., 100
	MartingaleMultiplier float64       // Stake multiplier after a loss, e.g., 2.0
	ProfitTarget         float64       // Session profit that triggers the long cooldown, e.g., 10000
	LongCooldown         time.Duration // Pause after the profit target is reached, e.g., 5h
	MinTradeSpacing      time.Duration // Minimum time between two trades, e.g., 600ms
}

// DefaultMoneyConfig returns the stake policy the bot trades with out of the box.
func DefaultMoneyConfig() MoneyConfig {
	return MoneyConfig{
		BaseStake:            100,
		MartingaleMultiplier: 2.0,
		ProfitTarget:         10000,
		LongCooldown:         5 * time.Hour,
		MinTradeSpacing:      600 * time.Millisecond,
	}
}

// Validate checks the stake policy for consistency.
func (c MoneyConfig) Validate() error {
	if c.BaseStake <= 0 {
		return fmt.Errorf("base stake must be positive, got %f: %w", c.BaseStake, ports.ErrConfigurationError)
	}
	if c.MartingaleMultiplier < 1 {
		return fmt.Errorf("martingale multiplier must be at least 1, got %f: %w", c.MartingaleMultiplier, ports.ErrConfigurationError)
	}
	if c.ProfitTarget <= 0 {
		return fmt.Errorf("profit target must be positive, got %f: %w", c.ProfitTarget, ports.ErrConfigurationError)
	}
	if c.LongCooldown < 0 || c.MinTradeSpacing < 0 {
		return fmt.Errorf("cooldown durations must not be negative: %w", ports.ErrConfigurationError)
	}
	return nil
}

// MoneyState is the process-wide stake and session record.
type MoneyState struct {
	Stake         float64
	BaseStake     float64
	TotalProfit   float64
	CooldownUntil time.Time
	LastDirection domain.Direction // Empty until the first settled trade
	LastTradeTime time.Time
}

// Outcome describes what a settled trade did to the money state.
type Outcome struct {
	Profit        float64
	Won           bool
	PreviousStake float64
	NextStake     float64
	TotalProfit   float64 // After the target reset, if any
	TargetReached bool
	CooldownUntil time.Time
}

// MoneyManager owns the MoneyState. Writes come from one goroutine (the
// trade outcome handler); reads may come from anywhere.
type MoneyManager struct {
	mu    sync.RWMutex
	cfg   MoneyConfig
	state MoneyState
	now   func() time.Time
}

// NewMoneyManager creates a money manager. now is the clock used for every
// cooldown and spacing decision; nil means time.Now.
func NewMoneyManager(cfg MoneyConfig, now func() time.Time) (*MoneyManager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if now == nil {
		now = time.Now
	}
	return &MoneyManager{
		cfg: cfg,
		state: MoneyState{
			Stake:     cfg.BaseStake,
			BaseStake: cfg.BaseStake,
		},
		now: now,
	}, nil
}

// Now returns the manager's clock reading.
func (m *MoneyManager) Now() time.Time {
	return m.now()
}

// Config returns the stake policy.
func (m *MoneyManager) Config() MoneyConfig {
	return m.cfg
}

// Stake returns the stake for the next trade.
func (m *MoneyManager) Stake() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Stake
}

// Snapshot returns a copy of the current state.
func (m *MoneyManager) Snapshot() MoneyState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// RecordOutcome applies a settled trade: martingale on a loss, reset on a win,
// and the profit-target pause. It also records the direction and time of the
// trade for the alternation rule. Failed and unresolved trades must not be
// recorded here.
func (m *MoneyManager) RecordOutcome(direction domain.Direction, profit float64) Outcome {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	out := Outcome{Profit: profit, PreviousStake: m.state.Stake}

	m.state.TotalProfit += profit
	if profit < 0 {
		m.state.Stake *= m.cfg.MartingaleMultiplier
	} else {
		out.Won = true
		m.state.Stake = m.state.BaseStake
	}

	if m.state.TotalProfit >= m.cfg.ProfitTarget {
		out.TargetReached = true
		m.state.CooldownUntil = now.Add(m.cfg.LongCooldown)
		m.state.TotalProfit = 0
	}

	m.state.LastDirection = direction
	m.state.LastTradeTime = now

	out.NextStake = m.state.Stake
	out.TotalProfit = m.state.TotalProfit
	out.CooldownUntil = m.state.CooldownUntil
	return out
}
