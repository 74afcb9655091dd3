// Package structure implements market-structure detection on tick prices:
// swing points, supply/demand zones, breaks of structure and the retest
// state machine that confirms them.
package structure

import "smcTickBot/internal/domain"

// FindSwingPoints scans prices for local extremes. A price at position i is a
// swing high if it equals the maximum of prices[i-halfWidth : i+halfWidth+1],
// and a swing low if it equals the minimum; on flat segments both fire.
// startIndex is the absolute index of prices[0]. Fewer than 2*halfWidth+1
// prices yield no swings.
func FindSwingPoints(prices []float64, startIndex int64, halfWidth int) (highs, lows []domain.SwingPoint) {
	n := len(prices)
	if halfWidth < 0 || n < 2*halfWidth+1 {
		return nil, nil
	}

	for i := halfWidth; i < n-halfWidth; i++ {
		hi, lo := prices[i-halfWidth], prices[i-halfWidth]
		for _, p := range prices[i-halfWidth : i+halfWidth+1] {
			if p > hi {
				hi = p
			}
			if p < lo {
				lo = p
			}
		}
		if prices[i] == hi {
			highs = append(highs, domain.SwingPoint{Index: startIndex + int64(i), Value: prices[i], Kind: domain.SwingHigh})
		}
		if prices[i] == lo {
			lows = append(lows, domain.SwingPoint{Index: startIndex + int64(i), Value: prices[i], Kind: domain.SwingLow})
		}
	}
	return highs, lows
}
