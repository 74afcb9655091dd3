package structure

import "smcTickBot/internal/domain"

// ZoneConfig sizes zones from volatility.
type ZoneConfig struct {
	WidthFactor float64 // Zone height as a fraction of ATR (e.g., 0.25)
	Keep        int     // Number of most recent swings of each kind turned into zones
}

// BuildZones turns the most recent swing highs into supply zones and the most
// recent swing lows into demand zones. history is the full observed price
// series; it only feeds the fallback magnitude used when atr is not positive.
func BuildZones(history []float64, highs, lows []domain.SwingPoint, atr float64, cfg ZoneConfig) (supply, demand []domain.Zone) {
	magnitude := atr
	if magnitude <= 0 {
		magnitude = fallbackMagnitude(history)
	}
	buffer := magnitude * cfg.WidthFactor

	for _, sh := range mostRecent(highs, cfg.Keep) {
		top := sh.Value
		bottom := top - buffer
		supply = append(supply, domain.Zone{
			AnchorIndex: sh.Index,
			Top:         top,
			Bottom:      bottom,
			POI:         (top + bottom) / 2,
			Kind:        domain.Supply,
		})
	}
	for _, sl := range mostRecent(lows, cfg.Keep) {
		bottom := sl.Value
		top := bottom + buffer
		demand = append(demand, domain.Zone{
			AnchorIndex: sl.Index,
			Top:         top,
			Bottom:      bottom,
			POI:         (top + bottom) / 2,
			Kind:        domain.Demand,
		})
	}
	return supply, demand
}

// fallbackMagnitude keeps the exact expression the strategy was tuned with:
// max - min*0.01, which is not a percentage of the range.
func fallbackMagnitude(history []float64) float64 {
	if len(history) == 0 {
		return 0
	}
	hi, lo := history[0], history[0]
	for _, p := range history[1:] {
		if p > hi {
			hi = p
		}
		if p < lo {
			lo = p
		}
	}
	return hi - lo*0.01
}

func mostRecent(points []domain.SwingPoint, keep int) []domain.SwingPoint {
	if keep >= 0 && len(points) > keep {
		return points[len(points)-keep:]
	}
	return points
}
