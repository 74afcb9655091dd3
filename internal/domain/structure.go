package domain

// SwingKind tells a swing high from a swing low.
type SwingKind string

const (
	SwingHigh SwingKind = "high"
	SwingLow  SwingKind = "low"
)

// SwingPoint is a local extreme of the price series.
type SwingPoint struct {
	Index int64 // Absolute tick index
	Value float64
	Kind  SwingKind
}

// ZoneKind tells supply (resistance) from demand (support).
type ZoneKind string

const (
	Supply ZoneKind = "supply"
	Demand ZoneKind = "demand"
)

// Zone is a price band derived from a swing point. Zones are rebuilt on every
// tick, so holders must keep a copy rather than a reference.
type Zone struct {
	AnchorIndex int64 // Absolute index of the swing point the zone was built from
	Top         float64
	Bottom      float64
	POI         float64 // Midpoint of Top and Bottom
	Kind        ZoneKind
}

// Width returns Top - Bottom.
func (z Zone) Width() float64 {
	return z.Top - z.Bottom
}

// BOSEvent is emitted when price closes beyond a zone's far boundary.
type BOSEvent struct {
	Kind  BreakKind
	Zone  Zone
	Index int64 // Absolute index of the breaking tick
	Price float64
}

// Signal is a confirmed retest of a broken zone, ready for trade gating.
type Signal struct {
	Kind              BreakKind
	Zone              Zone
	BOSIndex          int64
	RetestIndex       int64
	ConfirmationIndex int64
	Price             float64 // Price of the tick on which the signal fired
}

// Direction returns the trade direction of the signal.
func (s Signal) Direction() Direction {
	return s.Kind.Direction()
}
