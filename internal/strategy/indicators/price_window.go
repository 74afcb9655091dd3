package indicators

// PriceWindow is a bounded, ordered sequence of observed prices addressed by
// absolute tick index. When full, appending evicts the oldest price; indexes of
// the remaining prices do not change.
type PriceWindow struct {
	capacity int
	prices   []float64
	first    int64 // Absolute index of prices[0]
}

// NewPriceWindow creates a window holding at most capacity prices.
func NewPriceWindow(capacity int) *PriceWindow {
	if capacity <= 0 {
		capacity = 1
	}
	return &PriceWindow{
		capacity: capacity,
		prices:   make([]float64, 0, capacity),
	}
}

// Append adds a price and returns its absolute index.
func (w *PriceWindow) Append(price float64) int64 {
	if len(w.prices) == w.capacity {
		copy(w.prices, w.prices[1:])
		w.prices = w.prices[:len(w.prices)-1]
		w.first++
	}
	w.prices = append(w.prices, price)
	return w.LastIndex()
}

// Len returns the number of prices held.
func (w *PriceWindow) Len() int {
	return len(w.prices)
}

// Cap returns the capacity of the window.
func (w *PriceWindow) Cap() int {
	return w.capacity
}

// First returns the absolute index of the oldest held price.
func (w *PriceWindow) First() int64 {
	return w.first
}

// LastIndex returns the absolute index of the newest price, or First()-1 when empty.
func (w *PriceWindow) LastIndex() int64 {
	return w.first + int64(len(w.prices)) - 1
}

// At returns the price at an absolute index; ok is false if it was evicted or not yet seen.
func (w *PriceWindow) At(index int64) (float64, bool) {
	i := index - w.first
	if i < 0 || i >= int64(len(w.prices)) {
		return 0, false
	}
	return w.prices[i], true
}

// Last returns the newest price.
func (w *PriceWindow) Last() (float64, bool) {
	if len(w.prices) == 0 {
		return 0, false
	}
	return w.prices[len(w.prices)-1], true
}

// Tail returns the newest n prices (fewer if not available) and the absolute
// index of the first returned price. The slice aliases the window and is only
// valid until the next Append.
func (w *PriceWindow) Tail(n int) ([]float64, int64) {
	if n > len(w.prices) {
		n = len(w.prices)
	}
	if n < 0 {
		n = 0
	}
	start := len(w.prices) - n
	return w.prices[start:], w.first + int64(start)
}

// Values returns a copy of all held prices, oldest first.
func (w *PriceWindow) Values() []float64 {
	out := make([]float64, len(w.prices))
	copy(out, w.prices)
	return out
}
