package domain

// TickAnalysis is the signal engine's view of one tick.
type TickAnalysis struct {
	Index int64 // Absolute tick index
	Price float64

	// Warm is false until enough prices have been observed for structure
	// detection; all fields below are zero while it is false.
	Warm bool

	ATR        float64
	TrendMA    float64
	HasTrendMA bool

	Supply []Zone
	Demand []Zone

	Breaks     []BOSEvent // Every break detected on this tick
	Registered []BOSEvent // Breaks that started a new tracker
	Signals    []Signal   // Confirmations, already consumed by the engine

	Mitigated    int
	Expired      int
	LiveTrackers int
}
