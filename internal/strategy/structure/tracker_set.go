package structure

import "smcTickBot/internal/domain"

// PassResult summarizes one advance of the live tracker set.
type PassResult struct {
	Confirmed []domain.Signal
	Mitigated int
	Expired   int
}

// TrackerSet holds the live RetestTrackers, at most one per (POI, kind).
type TrackerSet struct {
	cfg  RetestConfig
	live []*RetestTracker
}

// NewTrackerSet creates an empty tracker set.
func NewTrackerSet(cfg RetestConfig) *TrackerSet {
	return &TrackerSet{cfg: cfg}
}

// Register starts tracking ev unless a live tracker already follows the same
// POI and break kind. It returns the new tracker, or nil if deduplicated.
func (s *TrackerSet) Register(ev domain.BOSEvent) *RetestTracker {
	for _, t := range s.live {
		if t.zone.POI == ev.Zone.POI && t.kind == ev.Kind {
			return nil
		}
	}
	t := NewRetestTracker(ev, s.cfg.RetestDeadline)
	s.live = append(s.live, t)
	return t
}

// Advance moves every live tracker forward by the tick at index and drops the
// ones that reached a terminal state. Confirmed trackers are consumed here
// whether or not the resulting signal is traded.
func (s *TrackerSet) Advance(prices PriceSeries, index int64, price float64) PassResult {
	var res PassResult
	active := s.live[:0]
	for _, t := range s.live {
		if t.Advance(prices, index, price, s.cfg) {
			res.Confirmed = append(res.Confirmed, t.Signal(price))
			continue
		}
		switch t.State() {
		case Mitigated:
			res.Mitigated++
		case Expired:
			res.Expired++
		default:
			active = append(active, t)
		}
	}
	for i := len(active); i < len(s.live); i++ {
		s.live[i] = nil
	}
	s.live = active
	return res
}

// Len returns the number of live trackers.
func (s *TrackerSet) Len() int {
	return len(s.live)
}

// Live returns a snapshot of the live trackers.
func (s *TrackerSet) Live() []*RetestTracker {
	out := make([]*RetestTracker, len(s.live))
	copy(out, s.live)
	return out
}
