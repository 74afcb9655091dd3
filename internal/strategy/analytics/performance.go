package analytics

import (
	"math"
	"sort"
	"time"

	"smcTickBot/internal/domain"
)

// PerformanceMetrics holds performance metrics for a set of journaled contracts
type PerformanceMetrics struct {
	// Basic Metrics
	TotalTrades        int // Settled (won or lost) contracts only
	WinningTrades      int
	LosingTrades       int
	FailedTrades       int // Proposal or buy rejected
	UnknownTrades      int // Outcome never observed
	WinRate            float64
	TotalProfit        float64
	TotalStaked        float64
	MaxDrawdown        float64
	ProfitFactor       float64
	AverageWin         float64
	AverageLoss        float64
	FinalBalance       float64
	ReturnOnInvestment float64

	// Advanced Metrics
	MaxConsecutiveWins   int
	MaxConsecutiveLosses int // Deepest martingale run
	MaxStake             float64
	AverageTradeDuration time.Duration
	RecoveryFactor       float64
	Expectancy           float64
	DailyReturns         map[string]float64
	Drawdowns            []Drawdown
	EquityCurve          []EquityPoint
}

// Drawdown represents a drawdown period
type Drawdown struct {
	StartTime  time.Time
	EndTime    time.Time
	StartValue float64
	EndValue   float64
	Depth      float64
	Duration   time.Duration
}

// EquityPoint represents a point on the equity curve
type EquityPoint struct {
	Time     time.Time
	Value    float64
	Drawdown float64
}

// AnalyzePerformance calculates performance metrics from journaled trades.
// Failed and unknown trades are counted but do not move the balance.
func AnalyzePerformance(trades []*domain.Trade, initialBalance float64) *PerformanceMetrics {
	metrics := &PerformanceMetrics{
		FinalBalance: initialBalance,
		DailyReturns: make(map[string]float64),
		Drawdowns:    make([]Drawdown, 0),
		EquityCurve:  make([]EquityPoint, 0),
	}

	settled := make([]*domain.Trade, 0, len(trades))
	for _, trade := range trades {
		switch trade.Status {
		case domain.TradeWon, domain.TradeLost:
			settled = append(settled, trade)
		case domain.TradeFailed:
			metrics.FailedTrades++
		case domain.TradeUnknown:
			metrics.UnknownTrades++
		}
	}
	if len(settled) == 0 {
		return metrics
	}

	// Sort trades by entry time
	sort.SliceStable(settled, func(i, j int) bool {
		return settled[i].EntryTime.Before(settled[j].EntryTime)
	})

	var currentBalance = initialBalance
	var peakBalance = initialBalance
	var currentDrawdown *Drawdown
	var consecutiveWins, consecutiveLosses int
	var totalDuration time.Duration

	for _, trade := range settled {
		metrics.TotalTrades++
		metrics.TotalStaked += trade.Stake
		metrics.MaxStake = math.Max(metrics.MaxStake, trade.Stake)
		totalDuration += trade.SettleTime.Sub(trade.EntryTime)

		if trade.IsWin() {
			metrics.WinningTrades++
			consecutiveWins++
			consecutiveLosses = 0
			metrics.AverageWin = (metrics.AverageWin*float64(metrics.WinningTrades-1) + trade.Profit) / float64(metrics.WinningTrades)
		} else {
			metrics.LosingTrades++
			consecutiveLosses++
			consecutiveWins = 0
			metrics.AverageLoss = (metrics.AverageLoss*float64(metrics.LosingTrades-1) + trade.Profit) / float64(metrics.LosingTrades)
		}
		if consecutiveWins > metrics.MaxConsecutiveWins {
			metrics.MaxConsecutiveWins = consecutiveWins
		}
		if consecutiveLosses > metrics.MaxConsecutiveLosses {
			metrics.MaxConsecutiveLosses = consecutiveLosses
		}

		currentBalance += trade.Profit
		metrics.TotalProfit += trade.Profit
		metrics.FinalBalance = currentBalance
		metrics.DailyReturns[trade.SettleTime.Format("2006-01-02")] += trade.Profit

		// Update drawdown tracking
		if currentBalance > peakBalance {
			peakBalance = currentBalance
			if currentDrawdown != nil {
				currentDrawdown.EndTime = trade.SettleTime
				currentDrawdown.EndValue = currentBalance
				currentDrawdown.Duration = currentDrawdown.EndTime.Sub(currentDrawdown.StartTime)
				metrics.Drawdowns = append(metrics.Drawdowns, *currentDrawdown)
				currentDrawdown = nil
			}
		} else if peakBalance > 0 {
			drawdown := (peakBalance - currentBalance) / peakBalance
			if currentDrawdown == nil {
				currentDrawdown = &Drawdown{
					StartTime:  trade.SettleTime,
					StartValue: peakBalance,
					Depth:      drawdown,
				}
			} else {
				currentDrawdown.Depth = math.Max(currentDrawdown.Depth, drawdown)
			}
			if drawdown > metrics.MaxDrawdown {
				metrics.MaxDrawdown = drawdown
			}
		}

		point := EquityPoint{Time: trade.SettleTime, Value: currentBalance}
		if peakBalance > 0 {
			point.Drawdown = (peakBalance - currentBalance) / peakBalance
		}
		metrics.EquityCurve = append(metrics.EquityCurve, point)
	}

	// Close any open drawdown
	if currentDrawdown != nil {
		currentDrawdown.EndTime = settled[len(settled)-1].SettleTime
		currentDrawdown.EndValue = currentBalance
		currentDrawdown.Duration = currentDrawdown.EndTime.Sub(currentDrawdown.StartTime)
		metrics.Drawdowns = append(metrics.Drawdowns, *currentDrawdown)
	}

	metrics.WinRate = float64(metrics.WinningTrades) / float64(metrics.TotalTrades)
	if metrics.AverageLoss != 0 {
		metrics.ProfitFactor = (metrics.AverageWin * float64(metrics.WinningTrades)) / (-metrics.AverageLoss * float64(metrics.LosingTrades))
	}
	if initialBalance > 0 {
		metrics.ReturnOnInvestment = (metrics.FinalBalance - initialBalance) / initialBalance
		if metrics.MaxDrawdown > 0 {
			metrics.RecoveryFactor = metrics.TotalProfit / (initialBalance * metrics.MaxDrawdown)
		}
	}
	metrics.AverageTradeDuration = totalDuration / time.Duration(metrics.TotalTrades)
	metrics.Expectancy = (metrics.WinRate * metrics.AverageWin) + ((1 - metrics.WinRate) * metrics.AverageLoss)

	return metrics
}

// GetDailyReturns returns the daily returns as a sorted slice
func (m *PerformanceMetrics) GetDailyReturns() []DailyReturn {
	returns := make([]DailyReturn, 0, len(m.DailyReturns))
	for day, profit := range m.DailyReturns {
		date, _ := time.Parse("2006-01-02", day)
		returns = append(returns, DailyReturn{
			Day:    date,
			Return: profit,
		})
	}
	sort.Slice(returns, func(i, j int) bool {
		return returns[i].Day.Before(returns[j].Day)
	})
	return returns
}

// DailyReturn represents a daily return value
type DailyReturn struct {
	Day    time.Time
	Return float64
}
