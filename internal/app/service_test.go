package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smcTickBot/config"
	"smcTickBot/internal/domain"
	"smcTickBot/internal/ports"
	"smcTickBot/internal/risk"
)

// Mock implementations
type mockLogger struct {
	mu        sync.Mutex
	infoMsgs  []string
	warnMsgs  []string
	errorMsgs []string
}

func (m *mockLogger) Debug(ctx context.Context, msg string, fields ...map[string]interface{}) {}

func (m *mockLogger) Info(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infoMsgs = append(m.infoMsgs, msg)
}

func (m *mockLogger) Warn(ctx context.Context, msg string, fields ...map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warnMsgs = append(m.warnMsgs, msg)
}

func (m *mockLogger) Error(ctx context.Context, err error, msg string, fields ...map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorMsgs = append(m.errorMsgs, msg)
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// scriptedEngine returns results in order, then warm ticks without signals.
type scriptedEngine struct {
	mu      sync.Mutex
	results []domain.TickAnalysis
	calls   int
}

func (e *scriptedEngine) OnTick(ctx context.Context, price float64) domain.TickAnalysis {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx := e.calls
	e.calls++
	res := domain.TickAnalysis{Warm: true}
	if idx < len(e.results) {
		res = e.results[idx]
	}
	res.Index = int64(idx)
	res.Price = price
	return res
}

func (e *scriptedEngine) RequiredDataPoints() int { return 1 }
func (e *scriptedEngine) Name() string            { return "scripted" }

func (e *scriptedEngine) Calls() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls
}

type mockExecution struct {
	mu         sync.Mutex
	requests   []ports.TradeRequest
	settled    int
	placeErr   error
	settleErr  error
	profits    []float64
	block      chan struct{} // AwaitSettlement waits on it when set
	contractID int64
}

func (m *mockExecution) PlaceTrade(ctx context.Context, req ports.TradeRequest) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.placeErr != nil {
		return 0, m.placeErr
	}
	m.contractID++
	return 1000 + m.contractID, nil
}

func (m *mockExecution) AwaitSettlement(ctx context.Context, contractID int64) (float64, error) {
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return 0, fmt.Errorf("contract %d: %w: %w", contractID, ports.ErrSettlementUnknown, ctx.Err())
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settleErr != nil {
		return 0, m.settleErr
	}
	profit := m.profits[m.settled%len(m.profits)]
	m.settled++
	return profit, nil
}

func (m *mockExecution) Requests() []ports.TradeRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.TradeRequest(nil), m.requests...)
}

type mockTradeRepo struct {
	mu        sync.Mutex
	trades    map[int64]domain.Trade
	nextID    int64
	createErr error
}

func newMockTradeRepo() *mockTradeRepo {
	return &mockTradeRepo{trades: make(map[int64]domain.Trade)}
}

func (m *mockTradeRepo) CreateTrade(ctx context.Context, trade *domain.Trade) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return 0, m.createErr
	}
	m.nextID++
	trade.ID = m.nextID
	m.trades[trade.ID] = *trade
	return trade.ID, nil
}

func (m *mockTradeRepo) UpdateTrade(ctx context.Context, trade *domain.Trade) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.trades[trade.ID]; !ok {
		return ports.ErrNotFound
	}
	m.trades[trade.ID] = *trade
	return nil
}

func (m *mockTradeRepo) FindBySymbol(ctx context.Context, symbol string, limit int) ([]*domain.Trade, error) {
	return m.all(), nil
}

func (m *mockTradeRepo) FindBySession(ctx context.Context, sessionID string) ([]*domain.Trade, error) {
	return m.all(), nil
}

func (m *mockTradeRepo) all() []*domain.Trade {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Trade, 0, len(m.trades))
	for id := int64(1); id <= m.nextID; id++ {
		if t, ok := m.trades[id]; ok {
			out = append(out, &t)
		}
	}
	return out
}

func (m *mockTradeRepo) withStatus(status domain.TradeStatus) []*domain.Trade {
	var out []*domain.Trade
	for _, t := range m.all() {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

type mockMetrics struct {
	mu      sync.Mutex
	signals []string
	trades  []string
	bos     int
	stake   float64
}

func (m *mockMetrics) RecordTick(symbol string, price float64) {}
func (m *mockMetrics) RecordBOS(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bos++
}
func (m *mockMetrics) RecordSignal(direction, verdict string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.signals = append(m.signals, direction+":"+verdict)
}
func (m *mockMetrics) RecordTrade(direction, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trades = append(m.trades, direction+":"+status)
}
func (m *mockMetrics) ObserveSettlement(seconds float64) {}
func (m *mockMetrics) SetStake(stake float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stake = stake
}
func (m *mockMetrics) SetSessionProfit(profit float64) {}
func (m *mockMetrics) SetLiveTrackers(n int)           {}

func (m *mockMetrics) Signals() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.signals...)
}

func (m *mockMetrics) Trades() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.trades...)
}

type mockStream struct {
	mu      sync.Mutex
	handler func(*domain.Tick)
	doneCh  chan struct{}
	stopCh  chan struct{}
	err     error
}

func (m *mockStream) StreamTicks(ctx context.Context, symbol string, handler func(tick *domain.Tick), errHandler func(err error)) (chan struct{}, chan struct{}, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handler = handler
	m.doneCh = make(chan struct{})
	m.stopCh = make(chan struct{}, 1)
	doneCh, stopCh := m.doneCh, m.stopCh
	go func() {
		select {
		case <-stopCh:
			close(doneCh)
		case <-doneCh:
		}
	}()
	return doneCh, stopCh, nil
}

func (m *mockStream) Handler() func(*domain.Tick) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.handler
}

// Test helpers

type fixture struct {
	svc     *TradingService
	engine  *scriptedEngine
	exec    *mockExecution
	repo    *mockTradeRepo
	metrics *mockMetrics
	money   *risk.MoneyManager
	clock   *testClock
	logger  *mockLogger
	stream  *mockStream
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	params, err := config.DefaultParams()
	require.NoError(t, err)
	return &config.Config{
		Symbol:            "R_75",
		Params:            *params,
		TickBuffer:        16,
		RequestTimeout:    time.Second,
		SettlementTimeout: 2 * time.Second,
	}
}

func newFixture(t *testing.T, results ...domain.TickAnalysis) *fixture {
	t.Helper()
	f := &fixture{
		engine:  &scriptedEngine{results: results},
		exec:    &mockExecution{profits: []float64{95}},
		repo:    newMockTradeRepo(),
		metrics: &mockMetrics{},
		clock:   &testClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
		logger:  &mockLogger{},
		stream:  &mockStream{},
	}
	money, err := risk.NewMoneyManager(risk.DefaultMoneyConfig(), f.clock.Now)
	require.NoError(t, err)
	f.money = money

	svc, err := NewTradingService(testConfig(t), f.logger, f.stream, f.exec, f.repo, f.engine, money, f.metrics)
	require.NoError(t, err)
	f.svc = svc
	return f
}

// run starts the run loop and returns a feed function for ticks.
func (f *fixture) run(t *testing.T) (feed func(price float64), stop func()) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		f.svc.Run(ctx)
	}()
	var once sync.Once
	stop = func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
	t.Cleanup(stop)
	feed = func(price float64) {
		f.svc.enqueueTick(ctx, &domain.Tick{Symbol: "R_75", Quote: price})
	}
	return feed, stop
}

func signalTick(kind domain.BreakKind, price, trendMA float64) domain.TickAnalysis {
	return domain.TickAnalysis{
		Warm:       true,
		TrendMA:    trendMA,
		HasTrendMA: true,
		Registered: []domain.BOSEvent{{Kind: kind, Price: price}},
		Signals: []domain.Signal{{
			Kind:              kind,
			Zone:              domain.Zone{Top: 100.5, Bottom: 99.5, POI: 100},
			BOSIndex:          1,
			RetestIndex:       2,
			ConfirmationIndex: 3,
			Price:             price,
		}},
	}
}

func quietTick() domain.TickAnalysis {
	return domain.TickAnalysis{Warm: true}
}

// Tests

func TestNewTradingService(t *testing.T) {
	money, err := risk.NewMoneyManager(risk.DefaultMoneyConfig(), nil)
	require.NoError(t, err)

	tests := []struct {
		name    string
		mutate  func(cfg *config.Config)
		stream  ports.TickStream
		wantErr bool
	}{
		{name: "valid", mutate: func(*config.Config) {}, stream: &mockStream{}},
		{name: "missing stream", mutate: func(*config.Config) {}, stream: nil, wantErr: true},
		{name: "missing symbol", mutate: func(c *config.Config) { c.Symbol = "" }, stream: &mockStream{}, wantErr: true},
		{name: "zero tick buffer", mutate: func(c *config.Config) { c.TickBuffer = 0 }, stream: &mockStream{}, wantErr: true},
		{name: "zero settlement timeout", mutate: func(c *config.Config) { c.SettlementTimeout = 0 }, stream: &mockStream{}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(cfg)
			svc, err := NewTradingService(cfg, &mockLogger{}, tt.stream, &mockExecution{}, newMockTradeRepo(), &scriptedEngine{}, money, &mockMetrics{})
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, svc.SessionID())
		})
	}
}

func TestRun_NoTradingDuringWarmUp(t *testing.T) {
	f := newFixture(t, domain.TickAnalysis{}, domain.TickAnalysis{})
	feed, stop := f.run(t)

	feed(100)
	feed(100.1)
	require.Eventually(t, func() bool { return f.engine.Calls() == 2 }, time.Second, 5*time.Millisecond)
	stop()

	assert.Empty(t, f.exec.Requests())
	assert.Empty(t, f.metrics.Signals())
}

func TestRun_WinningTradeIsJournaled(t *testing.T) {
	f := newFixture(t, signalTick(domain.BreakHigh, 101, 100))
	feed, stop := f.run(t)

	feed(101)
	require.Eventually(t, func() bool { return len(f.repo.withStatus(domain.TradeWon)) == 1 }, time.Second, 5*time.Millisecond)
	stop()

	reqs := f.exec.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, ports.TradeRequest{Symbol: "R_75", Direction: domain.Buy, Barrier: 0.7777, Stake: 100}, reqs[0])

	trade := f.repo.withStatus(domain.TradeWon)[0]
	assert.Equal(t, f.svc.SessionID(), trade.SessionID)
	assert.Equal(t, "CALL", trade.ContractType)
	assert.Equal(t, int64(1001), trade.ContractID)
	assert.Equal(t, 95.0, trade.Profit)
	assert.Equal(t, 101.0, trade.EntryPrice)
	assert.False(t, trade.SettleTime.IsZero())

	state := f.money.Snapshot()
	assert.Equal(t, 100.0, state.Stake)
	assert.Equal(t, 95.0, state.TotalProfit)
	assert.Equal(t, domain.Buy, state.LastDirection)

	assert.Equal(t, []string{"BUY:admitted"}, f.metrics.Signals())
	assert.Equal(t, []string{"BUY:won"}, f.metrics.Trades())
	assert.Equal(t, 1, f.metrics.bos)
}

func TestRun_LosingTradeDoublesStake(t *testing.T) {
	f := newFixture(t, signalTick(domain.BreakLow, 99, 100))
	f.exec.profits = []float64{-100}
	feed, stop := f.run(t)

	feed(99)
	require.Eventually(t, func() bool { return len(f.repo.withStatus(domain.TradeLost)) == 1 }, time.Second, 5*time.Millisecond)
	stop()

	assert.Equal(t, domain.Sell, f.exec.Requests()[0].Direction)
	assert.Equal(t, 200.0, f.money.Stake())
	assert.Equal(t, -100.0, f.money.Snapshot().TotalProfit)
	assert.Equal(t, []string{"SELL:lost"}, f.metrics.Trades())
}

func TestRun_TrendFilterSkipsSignal(t *testing.T) {
	f := newFixture(t, signalTick(domain.BreakHigh, 99, 100))
	feed, stop := f.run(t)

	feed(99)
	require.Eventually(t, func() bool { return len(f.metrics.Signals()) == 1 }, time.Second, 5*time.Millisecond)
	stop()

	assert.Equal(t, []string{"BUY:trend_filter"}, f.metrics.Signals())
	assert.Empty(t, f.exec.Requests())
	assert.Empty(t, f.repo.all())
}

func TestRun_SecondSignalRejectedWhileInFlight(t *testing.T) {
	f := newFixture(t, signalTick(domain.BreakHigh, 101, 100), signalTick(domain.BreakLow, 99, 100))
	f.exec.block = make(chan struct{})
	feed, stop := f.run(t)

	feed(101)
	require.Eventually(t, func() bool { return len(f.exec.Requests()) == 1 }, time.Second, 5*time.Millisecond)

	// Ticks keep flowing while the first contract settles.
	feed(99)
	require.Eventually(t, func() bool { return len(f.metrics.Signals()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"BUY:admitted", "SELL:in_flight"}, f.metrics.Signals())
	assert.Len(t, f.repo.withStatus(domain.TradePending), 1)

	close(f.exec.block)
	require.Eventually(t, func() bool { return len(f.repo.withStatus(domain.TradeWon)) == 1 }, time.Second, 5*time.Millisecond)
	stop()

	assert.Len(t, f.exec.Requests(), 1)
}

func TestRun_DirectionAlternation(t *testing.T) {
	f := newFixture(t,
		signalTick(domain.BreakHigh, 101, 100),
		signalTick(domain.BreakHigh, 101, 100),
		signalTick(domain.BreakLow, 99, 100),
	)
	feed, stop := f.run(t)

	feed(101)
	require.Eventually(t, func() bool { return len(f.repo.withStatus(domain.TradeWon)) == 1 }, time.Second, 5*time.Millisecond)
	f.clock.Advance(time.Second)

	feed(101)
	feed(99)
	require.Eventually(t, func() bool { return len(f.repo.withStatus(domain.TradeWon)) == 2 }, time.Second, 5*time.Millisecond)
	stop()

	assert.Equal(t, []string{"BUY:admitted", "BUY:same_direction", "SELL:admitted"}, f.metrics.Signals())
	reqs := f.exec.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, domain.Sell, reqs[1].Direction)
	assert.Equal(t, domain.Sell, f.money.Snapshot().LastDirection)
}

func TestRun_PlacementFailureLeavesMoneyUntouched(t *testing.T) {
	f := newFixture(t, signalTick(domain.BreakHigh, 101, 100))
	f.exec.placeErr = fmt.Errorf("PlaceTrade proposal failed: %w", ports.ErrProposalRejected)
	feed, stop := f.run(t)

	feed(101)
	require.Eventually(t, func() bool { return len(f.repo.withStatus(domain.TradeFailed)) == 1 }, time.Second, 5*time.Millisecond)
	stop()

	trade := f.repo.withStatus(domain.TradeFailed)[0]
	assert.Contains(t, trade.Error, "contract proposal rejected")
	assert.Zero(t, trade.ContractID)

	state := f.money.Snapshot()
	assert.Equal(t, 100.0, state.Stake)
	assert.Empty(t, state.LastDirection)
	assert.True(t, state.LastTradeTime.IsZero())
	assert.Equal(t, []string{"BUY:failed"}, f.metrics.Trades())
}

func TestRun_LostBuyReplyIsUnknown(t *testing.T) {
	f := newFixture(t, signalTick(domain.BreakHigh, 101, 100))
	f.exec.placeErr = fmt.Errorf("PlaceTrade buy failed: buy reply lost: %w: %w", ports.ErrSettlementUnknown, ports.ErrConnectionFailed)
	feed, stop := f.run(t)

	feed(101)
	require.Eventually(t, func() bool { return len(f.repo.withStatus(domain.TradeUnknown)) == 1 }, time.Second, 5*time.Millisecond)
	stop()

	assert.Empty(t, f.repo.withStatus(domain.TradeFailed))
	trade := f.repo.withStatus(domain.TradeUnknown)[0]
	assert.Contains(t, trade.Error, "buy reply lost")
	assert.Equal(t, 100.0, f.money.Stake())
	assert.Empty(t, f.money.Snapshot().LastDirection)
	assert.Equal(t, []string{"BUY:unknown"}, f.metrics.Trades())
}

func TestPlacementStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.TradeStatus
	}{
		{"proposal rejected", fmt.Errorf("proposal: %w", ports.ErrProposalRejected), domain.TradeFailed},
		{"buy rejected", fmt.Errorf("buy: %w", ports.ErrBuyRejected), domain.TradeFailed},
		{"not connected", fmt.Errorf("PlaceTrade: %w", ports.ErrNotConnected), domain.TradeFailed},
		{"invalid request", fmt.Errorf("PlaceTrade: %w", ports.ErrInvalidRequest), domain.TradeFailed},
		{"buy reply lost", fmt.Errorf("buy: %w: %w", ports.ErrSettlementUnknown, ports.ErrConnectionFailed), domain.TradeUnknown},
		{"bare connection failure", ports.ErrConnectionFailed, domain.TradeUnknown},
		{"timeout", fmt.Errorf("buy: %w", ports.ErrTimeout), domain.TradeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, placementStatus(tt.err))
		})
	}
}

func TestRun_UnknownSettlementLeavesMoneyUntouched(t *testing.T) {
	f := newFixture(t, signalTick(domain.BreakLow, 99, 100), signalTick(domain.BreakLow, 99, 100))
	f.exec.settleErr = fmt.Errorf("AwaitSettlement: %w: %w", ports.ErrSettlementUnknown, ports.ErrConnectionFailed)
	feed, stop := f.run(t)

	feed(99)
	require.Eventually(t, func() bool { return len(f.repo.withStatus(domain.TradeUnknown)) == 1 }, time.Second, 5*time.Millisecond)

	// Nothing was recorded, so the same direction is still allowed.
	f.exec.mu.Lock()
	f.exec.settleErr = nil
	f.exec.mu.Unlock()
	feed(99)
	require.Eventually(t, func() bool { return len(f.repo.withStatus(domain.TradeWon)) == 1 }, time.Second, 5*time.Millisecond)
	stop()

	unknown := f.repo.withStatus(domain.TradeUnknown)[0]
	assert.Equal(t, int64(1001), unknown.ContractID)
	assert.Contains(t, unknown.Error, "contract outcome could not be determined")
	assert.Equal(t, []string{"SELL:unknown", "SELL:won"}, f.metrics.Trades())
	assert.Equal(t, 95.0, f.money.Snapshot().TotalProfit)
}

func TestRun_JournalFailureDoesNotStopTrading(t *testing.T) {
	f := newFixture(t, signalTick(domain.BreakHigh, 101, 100))
	f.repo.createErr = errors.New("disk full")
	feed, stop := f.run(t)

	feed(101)
	require.Eventually(t, func() bool { return len(f.metrics.Trades()) == 1 }, time.Second, 5*time.Millisecond)
	stop()

	assert.Equal(t, []string{"BUY:won"}, f.metrics.Trades())
	f.logger.mu.Lock()
	defer f.logger.mu.Unlock()
	assert.Contains(t, f.logger.errorMsgs, "dispatch: Failed to journal trade")
	assert.Contains(t, f.logger.errorMsgs, "applySettlement: Failed to journal trade outcome")
}

func TestRun_ShutdownJournalsInFlightTradeAsUnknown(t *testing.T) {
	f := newFixture(t, signalTick(domain.BreakHigh, 101, 100))
	f.exec.block = make(chan struct{})
	feed, stop := f.run(t)

	feed(101)
	require.Eventually(t, func() bool { return len(f.exec.Requests()) == 1 }, time.Second, 5*time.Millisecond)
	stop()

	unknown := f.repo.withStatus(domain.TradeUnknown)
	require.Len(t, unknown, 1)
	assert.Equal(t, 100.0, f.money.Stake())
	assert.Empty(t, f.money.Snapshot().LastDirection)
}

func TestStart_StopsOnContextCancel(t *testing.T) {
	f := newFixture(t, quietTick())
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- f.svc.Start(ctx) }()

	require.Eventually(t, func() bool { return f.stream.Handler() != nil }, time.Second, 5*time.Millisecond)
	f.stream.Handler()(&domain.Tick{Symbol: "R_75", Quote: 100})
	require.Eventually(t, func() bool { return f.engine.Calls() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("service did not stop")
	}

	f.logger.mu.Lock()
	defer f.logger.mu.Unlock()
	assert.Contains(t, f.logger.infoMsgs, "WebSocket stream shut down gracefully")
	assert.Contains(t, f.logger.infoMsgs, "Session summary")
}

func TestStart_ReturnsWhenStreamGivesUp(t *testing.T) {
	f := newFixture(t)

	errCh := make(chan error, 1)
	go func() { errCh <- f.svc.Start(context.Background()) }()

	require.Eventually(t, func() bool { return f.stream.Handler() != nil }, time.Second, 5*time.Millisecond)
	f.stream.mu.Lock()
	close(f.stream.doneCh)
	f.stream.mu.Unlock()

	select {
	case err := <-errCh:
		assert.Error(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("service did not stop")
	}
}

func TestStart_StreamError(t *testing.T) {
	f := newFixture(t)
	f.stream.err = fmt.Errorf("dial failed: %w", ports.ErrConnectionFailed)

	err := f.svc.Start(context.Background())
	assert.True(t, errors.Is(err, ports.ErrConnectionFailed))
}
