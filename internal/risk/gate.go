package risk

import (
	"time"

	"smcTickBot/internal/domain"
)

// Verdict is the outcome of a TradeGate evaluation.
type Verdict string

const (
	Admitted            Verdict = "admitted"
	RejectTrend         Verdict = "trend_filter"   // Price on the wrong side of the trend MA
	RejectCooldown      Verdict = "cooldown"       // Profit-target pause active
	RejectSameDirection Verdict = "same_direction" // Same direction as the last trade
	RejectSpacing       Verdict = "spacing"        // Too soon after the last trade
	RejectInFlight      Verdict = "in_flight"      // A trade is still settling
)

// GateInput is everything TradeGate needs to judge one confirmed signal.
type GateInput struct {
	Signal     domain.Signal
	TrendMA    float64
	HasTrendMA bool
	InFlight   bool
}

// Decision is the TradeGate result. Stake is only set when admitted.
type Decision struct {
	Verdict   Verdict
	Direction domain.Direction
	Stake     float64
	Reason    string
}

// Admitted reports whether the signal may be traded.
func (d Decision) Admitted() bool {
	return d.Verdict == Admitted
}

// TradeGate decides whether a confirmed signal becomes a trade.
type TradeGate struct {
	money *MoneyManager
}

// NewTradeGate creates a gate reading the given money manager.
func NewTradeGate(money *MoneyManager) *TradeGate {
	return &TradeGate{money: money}
}

// Evaluate runs the admission checks in order: trend filter, profit-target
// cooldown, direction alternation, trade spacing, one trade in flight.
func (g *TradeGate) Evaluate(in GateInput) Decision {
	dir := in.Signal.Direction()
	d := Decision{Direction: dir}
	price := in.Signal.Price

	if in.HasTrendMA {
		if dir == domain.Buy && price < in.TrendMA {
			d.Verdict = RejectTrend
			d.Reason = "price below trend MA"
			return d
		}
		if dir == domain.Sell && price > in.TrendMA {
			d.Verdict = RejectTrend
			d.Reason = "price above trend MA"
			return d
		}
	}

	state := g.money.Snapshot()
	now := g.money.Now()

	if now.Before(state.CooldownUntil) {
		d.Verdict = RejectCooldown
		d.Reason = "profit target cooldown until " + state.CooldownUntil.Format(time.RFC3339)
		return d
	}
	if dir == state.LastDirection {
		d.Verdict = RejectSameDirection
		d.Reason = "last trade was " + string(dir)
		return d
	}
	if now.Sub(state.LastTradeTime) < g.money.Config().MinTradeSpacing {
		d.Verdict = RejectSpacing
		d.Reason = "minimum spacing not elapsed"
		return d
	}
	if in.InFlight {
		d.Verdict = RejectInFlight
		d.Reason = "a trade is still settling"
		return d
	}

	d.Verdict = Admitted
	d.Stake = state.Stake
	return d
}
