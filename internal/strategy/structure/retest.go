package structure

import (
	"math"

	"smcTickBot/internal/domain"
)

// TrackerState is the lifecycle state of a RetestTracker.
type TrackerState string

const (
	AwaitingRetest       TrackerState = "awaiting_retest"
	AwaitingConfirmation TrackerState = "awaiting_confirmation"
	Confirmed            TrackerState = "confirmed" // terminal, reported once
	Mitigated            TrackerState = "mitigated" // terminal
	Expired              TrackerState = "expired"   // terminal
)

// minZoneWidth keeps the tolerance band non-empty for degenerate zones.
const minZoneWidth = 1e-9

// RetestConfig parameterizes the retest/confirmation state machine.
type RetestConfig struct {
	ToleranceFactor       float64 // Retest band half-width as a fraction of zone height (e.g., 0.20)
	ConfirmationFactor    float64 // Confirmation offset from POI as a fraction of tolerance (e.g., 0.15)
	ConfirmationLookahead int     // Ticks scanned for confirmation starting at the retest tick
	RetestDeadline        int64   // Ticks after the break within which a retest must happen
}

// PriceSeries resolves absolute tick indexes to prices.
type PriceSeries interface {
	At(index int64) (float64, bool)
}

// RetestTracker follows one break of structure until it is confirmed,
// mitigated or expires. It holds a copy of the zone taken at break time.
type RetestTracker struct {
	kind          domain.BreakKind
	zone          domain.Zone
	bosIndex      int64
	deadlineIndex int64

	retestIndex       int64
	hasRetest         bool
	confirmationIndex int64
	hasConfirmation   bool
	mitigated         bool
	expired           bool
}

// NewRetestTracker starts tracking a BOS event.
func NewRetestTracker(ev domain.BOSEvent, deadline int64) *RetestTracker {
	return &RetestTracker{
		kind:          ev.Kind,
		zone:          ev.Zone,
		bosIndex:      ev.Index,
		deadlineIndex: ev.Index + deadline,
	}
}

// Kind returns the break kind being tracked.
func (t *RetestTracker) Kind() domain.BreakKind { return t.kind }

// Zone returns the zone copy captured at break time.
func (t *RetestTracker) Zone() domain.Zone { return t.zone }

// BOSIndex returns the absolute index of the breaking tick.
func (t *RetestTracker) BOSIndex() int64 { return t.bosIndex }

// DeadlineIndex returns the last index at which a retest is still accepted.
func (t *RetestTracker) DeadlineIndex() int64 { return t.deadlineIndex }

// RetestIndex returns the retest tick index, if one was seen.
func (t *RetestTracker) RetestIndex() (int64, bool) { return t.retestIndex, t.hasRetest }

// ConfirmationIndex returns the confirmation tick index, if one was seen.
func (t *RetestTracker) ConfirmationIndex() (int64, bool) {
	return t.confirmationIndex, t.hasConfirmation
}

// State returns the current lifecycle state.
func (t *RetestTracker) State() TrackerState {
	switch {
	case t.mitigated:
		return Mitigated
	case t.hasConfirmation:
		return Confirmed
	case t.expired:
		return Expired
	case t.hasRetest:
		return AwaitingConfirmation
	default:
		return AwaitingRetest
	}
}

// Tolerance returns the half-width of the retest band around the POI.
func (t *RetestTracker) Tolerance(cfg RetestConfig) float64 {
	return math.Max(t.zone.Width(), minZoneWidth) * cfg.ToleranceFactor
}

// Advance evaluates the tracker against the tick at index. It returns true
// exactly once, on the pass where confirmation is found; terminal trackers
// never fire again. Mitigation is checked first and overrides everything.
func (t *RetestTracker) Advance(prices PriceSeries, index int64, price float64, cfg RetestConfig) bool {
	if t.mitigated || t.expired || t.hasConfirmation {
		return false
	}

	if t.kind == domain.BreakHigh && price < t.zone.Bottom {
		t.mitigated = true
	} else if t.kind == domain.BreakLow && price > t.zone.Top {
		t.mitigated = true
	}
	if t.mitigated {
		return false
	}

	poi := t.zone.POI
	tol := t.Tolerance(cfg)

	if !t.hasRetest {
		if index > t.deadlineIndex {
			t.expired = true
			return false
		}
		for i := t.bosIndex + 1; i <= index; i++ {
			p, ok := prices.At(i)
			if !ok {
				continue
			}
			if poi-tol <= p && p <= poi+tol {
				t.retestIndex = i
				t.hasRetest = true
				break
			}
		}
	}

	if t.hasRetest {
		offset := tol * cfg.ConfirmationFactor
		end := t.retestIndex + int64(cfg.ConfirmationLookahead)
		if end > index+1 {
			end = index + 1
		}
		for j := t.retestIndex; j < end; j++ {
			p, ok := prices.At(j)
			if !ok {
				continue
			}
			if (t.kind == domain.BreakHigh && p > poi+offset) || (t.kind == domain.BreakLow && p < poi-offset) {
				t.confirmationIndex = j
				t.hasConfirmation = true
				return true
			}
		}
	}
	return false
}

// Signal describes the confirmed tracker as a trade signal.
func (t *RetestTracker) Signal(price float64) domain.Signal {
	return domain.Signal{
		Kind:              t.kind,
		Zone:              t.zone,
		BOSIndex:          t.bosIndex,
		RetestIndex:       t.retestIndex,
		ConfirmationIndex: t.confirmationIndex,
		Price:             price,
	}
}
