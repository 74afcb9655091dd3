package ports

// Metrics records engine and trading counters.
type Metrics interface {
	RecordTick(symbol string, price float64)
	RecordBOS(kind string)
	RecordSignal(direction, verdict string)
	RecordTrade(direction, status string)
	ObserveSettlement(seconds float64)
	SetStake(stake float64)
	SetSessionProfit(profit float64)
	SetLiveTrackers(n int)
}
