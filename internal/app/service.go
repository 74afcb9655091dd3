package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smcTickBot/config"
	"smcTickBot/internal/domain"
	"smcTickBot/internal/ports"
	"smcTickBot/internal/risk"
	"smcTickBot/internal/strategy/analytics"

	"github.com/google/uuid"
)

const (
	wsShutdownTimeout = 5 * time.Second
)

// settlement is what the executor reports back to the run loop for one trade.
type settlement struct {
	trade      *domain.Trade
	contractID int64
	profit     float64
	status     domain.TradeStatus
	err        error
	elapsed    time.Duration
}

// TradingService orchestrates the bot: ticks feed the signal engine, confirmed
// signals pass the trade gate, and admitted trades run on the executor.
//
// The run loop is the only goroutine touching the engine, the in-flight flag
// and MoneyManager writes. The executor handles one trade at a time.
type TradingService struct {
	cfg       *config.Config
	logger    ports.Logger
	stream    ports.TickStream
	exec      ports.ExecutionPort
	tradeRepo ports.TradeRepository
	engine    ports.SignalEngine
	money     *risk.MoneyManager
	gate      *risk.TradeGate
	metrics   ports.Metrics
	sessionID string

	ticks    chan *domain.Tick
	jobs     chan *domain.Trade
	outcomes chan settlement

	// Run loop state
	inFlight bool
	warm     bool
}

// NewTradingService creates a new application service instance.
func NewTradingService(
	cfg *config.Config,
	logger ports.Logger,
	stream ports.TickStream,
	exec ports.ExecutionPort,
	tradeRepo ports.TradeRepository,
	engine ports.SignalEngine,
	money *risk.MoneyManager,
	metrics ports.Metrics,
) (*TradingService, error) {

	// Validate dependencies
	if cfg == nil || logger == nil || stream == nil || exec == nil || tradeRepo == nil || engine == nil || money == nil || metrics == nil {
		return nil, fmt.Errorf("missing required dependencies for TradingService")
	}

	// Validate config values needed by service
	if cfg.Symbol == "" {
		return nil, fmt.Errorf("configuration Symbol must be set")
	}
	if cfg.TickBuffer <= 0 {
		return nil, fmt.Errorf("configuration TickBuffer must be positive")
	}
	if cfg.RequestTimeout <= 0 || cfg.SettlementTimeout <= 0 {
		return nil, fmt.Errorf("configuration RequestTimeout and SettlementTimeout must be positive")
	}

	return &TradingService{
		cfg:       cfg,
		logger:    logger,
		stream:    stream,
		exec:      exec,
		tradeRepo: tradeRepo,
		engine:    engine,
		money:     money,
		gate:      risk.NewTradeGate(money),
		metrics:   metrics,
		sessionID: uuid.NewString(),
		ticks:     make(chan *domain.Tick, cfg.TickBuffer),
		jobs:      make(chan *domain.Trade, 1),
		outcomes:  make(chan settlement, 1),
	}, nil
}

// SessionID identifies this process run in the trade journal.
func (s *TradingService) SessionID() string {
	return s.sessionID
}

// Start connects the tick stream and runs until the context is cancelled,
// a shutdown signal arrives, or the stream gives up.
func (s *TradingService) Start(ctx context.Context) error {
	s.logger.Info(ctx, "Starting Trading Service...", map[string]interface{}{
		"sessionID": s.sessionID,
		"symbol":    s.cfg.Symbol,
		"engine":    s.engine.Name(),
		"warmUp":    s.engine.RequiredDataPoints(),
	})

	// Create a context that can be canceled by signals
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			s.logger.Info(ctx, "Received shutdown signal", map[string]interface{}{"signal": sig.String()})
			cancel() // Cancel the main context
		case <-ctx.Done():
		}
	}()

	s.metrics.SetStake(s.money.Stake())

	// --- Start WebSocket Stream ---
	wsDoneCh, wsStopCh, err := s.stream.StreamTicks(ctx, s.cfg.Symbol, func(tick *domain.Tick) { s.enqueueTick(ctx, tick) }, s.handleWsError)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to start WebSocket stream")
		return fmt.Errorf("failed to start WebSocket stream: %w", err)
	}
	s.logger.Info(ctx, "WebSocket stream started", map[string]interface{}{"symbol": s.cfg.Symbol})

	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		s.Run(ctx)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		s.logger.Info(ctx, "Main context cancelled, initiating shutdown...")
		// Signal WebSocket to stop
		select {
		case wsStopCh <- struct{}{}:
			s.logger.Info(ctx, "Stop signal sent to WebSocket stream")
		default:
			s.logger.Warn(ctx, "Failed to send stop signal to WebSocket (already closed?)")
		}
		select {
		case <-wsDoneCh:
			s.logger.Info(ctx, "WebSocket stream shut down gracefully")
		case <-time.After(wsShutdownTimeout):
			s.logger.Warn(ctx, "Timeout waiting for WebSocket stream to shut down")
		}
	case <-wsDoneCh:
		// WebSocket closed for good (e.g., max reconnect attempts or rejected token)
		runErr = fmt.Errorf("websocket stream stopped unexpectedly")
		s.logger.Error(ctx, runErr, "WebSocket stream stopped")
		cancel()
	}

	<-runDone
	s.logSessionSummary(context.Background())
	s.logger.Info(context.Background(), "Trading Service stopped.")
	return runErr
}

// Run is the single-actor loop. It returns once ctx is cancelled and any
// trade still executing has been journaled.
func (s *TradingService) Run(ctx context.Context) {
	executorDone := make(chan struct{})
	go func() {
		defer close(executorDone)
		s.executor(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			<-executorDone
			// The executor reports an aborted trade before exiting.
			select {
			case res := <-s.outcomes:
				s.applySettlement(context.Background(), res)
			case trade := <-s.jobs:
				s.applySettlement(context.Background(), settlement{
					trade:  trade,
					status: domain.TradeFailed,
					err:    fmt.Errorf("trade not placed before shutdown: %w", ctx.Err()),
				})
			default:
			}
			return
		case tick := <-s.ticks:
			s.processTick(ctx, tick)
		case res := <-s.outcomes:
			s.applySettlement(ctx, res)
		}
	}
}

// enqueueTick hands a tick to the run loop. It blocks rather than drop a
// tick when the loop falls behind.
func (s *TradingService) enqueueTick(ctx context.Context, tick *domain.Tick) {
	select {
	case s.ticks <- tick:
	case <-ctx.Done():
	}
}

// handleWsError handles errors reported by the WebSocket stream.
func (s *TradingService) handleWsError(err error) {
	ctx := context.Background()
	if errors.Is(err, ports.ErrAuthenticationFailed) {
		s.logger.Error(ctx, err, "WebSocket authorization failed")
		return
	}
	// Reconnection is handled within the adapter.
	s.logger.Warn(ctx, "WebSocket stream error reported", map[string]interface{}{"error": err.Error()})
}

func (s *TradingService) processTick(ctx context.Context, tick *domain.Tick) {
	s.metrics.RecordTick(tick.Symbol, tick.Quote)

	res := s.engine.OnTick(ctx, tick.Quote)
	if !res.Warm {
		return
	}
	if !s.warm {
		s.warm = true
		s.logger.Info(ctx, "Warm-up complete, structure detection active", map[string]interface{}{"index": res.Index, "price": res.Price})
	}

	for _, ev := range res.Registered {
		s.metrics.RecordBOS(string(ev.Kind))
	}
	s.metrics.SetLiveTrackers(res.LiveTrackers)

	for _, sig := range res.Signals {
		s.handleSignal(ctx, sig, res)
	}
}

// handleSignal gates one confirmed signal and dispatches it when admitted.
func (s *TradingService) handleSignal(ctx context.Context, sig domain.Signal, res domain.TickAnalysis) {
	dec := s.gate.Evaluate(risk.GateInput{
		Signal:     sig,
		TrendMA:    res.TrendMA,
		HasTrendMA: res.HasTrendMA,
		InFlight:   s.inFlight,
	})
	s.metrics.RecordSignal(string(dec.Direction), string(dec.Verdict))

	if !dec.Admitted() {
		s.logger.Info(ctx, "Skipping signal", map[string]interface{}{
			"direction": string(dec.Direction),
			"verdict":   string(dec.Verdict),
			"reason":    dec.Reason,
			"price":     sig.Price,
			"trendMA":   res.TrendMA,
		})
		return
	}
	s.dispatch(ctx, sig, dec)
}

func (s *TradingService) dispatch(ctx context.Context, sig domain.Signal, dec risk.Decision) {
	op := "dispatch"
	barrier := s.cfg.Params.Contract.BarrierBuy
	if dec.Direction == domain.Sell {
		barrier = s.cfg.Params.Contract.BarrierSell
	}

	trade := &domain.Trade{
		SessionID:    s.sessionID,
		Symbol:       s.cfg.Symbol,
		Direction:    dec.Direction,
		ContractType: dec.Direction.ContractType(),
		Stake:        dec.Stake,
		Barrier:      barrier,
		EntryPrice:   sig.Price,
		Status:       domain.TradePending,
		EntryTime:    s.money.Now(),
	}
	if _, err := s.tradeRepo.CreateTrade(ctx, trade); err != nil {
		// Trading goes on; the outcome handler retries the insert.
		s.logger.Error(ctx, err, op+": Failed to journal trade", map[string]interface{}{"direction": string(trade.Direction)})
	}

	s.inFlight = true
	s.logger.Info(ctx, op+": Placing trade", map[string]interface{}{
		"tradeID":      trade.ID,
		"direction":    string(trade.Direction),
		"contractType": trade.ContractType,
		"stake":        trade.Stake,
		"barrier":      trade.Barrier,
		"price":        trade.EntryPrice,
		"bosIndex":     sig.BOSIndex,
	})
	s.jobs <- trade
}

// executor places and settles trades one at a time.
func (s *TradingService) executor(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case trade := <-s.jobs:
			s.outcomes <- s.execute(ctx, trade)
		}
	}
}

func (s *TradingService) execute(ctx context.Context, trade *domain.Trade) settlement {
	res := settlement{trade: trade}

	placeCtx, cancelPlace := context.WithTimeout(ctx, s.cfg.RequestTimeout)
	contractID, err := s.exec.PlaceTrade(placeCtx, ports.TradeRequest{
		Symbol:    trade.Symbol,
		Direction: trade.Direction,
		Barrier:   trade.Barrier,
		Stake:     trade.Stake,
	})
	cancelPlace()
	if err != nil {
		res.status = placementStatus(err)
		res.err = err
		return res
	}
	res.contractID = contractID

	started := time.Now()
	settleCtx, cancelSettle := context.WithTimeout(ctx, s.cfg.SettlementTimeout)
	defer cancelSettle()
	profit, err := s.exec.AwaitSettlement(settleCtx, contractID)
	res.elapsed = time.Since(started)
	if err != nil {
		res.status = domain.TradeUnknown
		res.err = err
		return res
	}

	res.profit = profit
	res.status = domain.TradeWon
	if profit < 0 {
		res.status = domain.TradeLost
	}
	return res
}

// placementStatus classifies a PlaceTrade error. Only errors proving nothing
// was bought count as failed; anything else may have left a live contract.
func placementStatus(err error) domain.TradeStatus {
	switch {
	case errors.Is(err, ports.ErrSettlementUnknown):
		return domain.TradeUnknown
	case errors.Is(err, ports.ErrProposalRejected),
		errors.Is(err, ports.ErrBuyRejected),
		errors.Is(err, ports.ErrNotConnected),
		errors.Is(err, ports.ErrInvalidRequest):
		return domain.TradeFailed
	default:
		return domain.TradeUnknown
	}
}

// applySettlement runs on the run loop: it updates MoneyManager for settled
// trades only, journals the outcome and frees the executor slot.
func (s *TradingService) applySettlement(ctx context.Context, res settlement) {
	op := "applySettlement"
	s.inFlight = false

	trade := res.trade
	trade.ContractID = res.contractID
	trade.Status = res.status
	trade.SettleTime = s.money.Now()

	fields := map[string]interface{}{
		"tradeID":    trade.ID,
		"contractID": trade.ContractID,
		"direction":  string(trade.Direction),
		"stake":      trade.Stake,
	}

	switch res.status {
	case domain.TradeFailed:
		trade.Error = res.err.Error()
		s.logger.Error(ctx, res.err, op+": Trade placement failed, stake unchanged", fields)
	case domain.TradeUnknown:
		trade.Error = res.err.Error()
		s.logger.Error(ctx, res.err, op+": Trade outcome unknown, stake unchanged", fields)
	default:
		out := s.money.RecordOutcome(trade.Direction, res.profit)
		trade.Profit = res.profit
		fields["profit"] = res.profit
		fields["nextStake"] = out.NextStake
		fields["sessionProfit"] = out.TotalProfit
		if out.Won {
			s.logger.Info(ctx, op+": Trade won, stake reset", fields)
		} else {
			s.logger.Info(ctx, op+": Trade lost, martingale step", fields)
		}
		if out.TargetReached {
			s.logger.Info(ctx, op+": Profit target reached, pausing", map[string]interface{}{"until": out.CooldownUntil.Format(time.RFC3339)})
		}
		s.metrics.ObserveSettlement(res.elapsed.Seconds())
		s.metrics.SetStake(out.NextStake)
		s.metrics.SetSessionProfit(out.TotalProfit)
	}
	s.metrics.RecordTrade(string(trade.Direction), string(trade.Status))

	if trade.ID == 0 {
		if _, err := s.tradeRepo.CreateTrade(ctx, trade); err != nil {
			s.logger.Error(ctx, err, op+": Failed to journal trade outcome", fields)
		}
		return
	}
	if err := s.tradeRepo.UpdateTrade(ctx, trade); err != nil {
		s.logger.Error(ctx, err, op+": Failed to update journaled trade", fields)
	}
}

// logSessionSummary logs the performance of the trades placed by this session.
func (s *TradingService) logSessionSummary(ctx context.Context) {
	trades, err := s.tradeRepo.FindBySession(ctx, s.sessionID)
	if err != nil {
		s.logger.Error(ctx, err, "Failed to load session trades for summary")
		return
	}
	perf := analytics.AnalyzePerformance(trades, 0)
	s.logger.Info(ctx, "Session summary", map[string]interface{}{
		"sessionID":            s.sessionID,
		"settled":              perf.TotalTrades,
		"won":                  perf.WinningTrades,
		"lost":                 perf.LosingTrades,
		"failed":               perf.FailedTrades,
		"unknown":              perf.UnknownTrades,
		"winRate":              perf.WinRate,
		"profit":               perf.TotalProfit,
		"maxConsecutiveLosses": perf.MaxConsecutiveLosses,
		"maxStake":             perf.MaxStake,
	})
}
