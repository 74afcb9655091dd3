package main

import (
	"context"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"os"
	"time"

	"smcTickBot/config"
	"smcTickBot/internal/adapters/deriv"
	"smcTickBot/internal/adapters/logger"
	"smcTickBot/internal/adapters/metrics"
	"smcTickBot/internal/adapters/sqlite"
	"smcTickBot/internal/app"
	"smcTickBot/internal/risk"
	"smcTickBot/internal/strategy"
	"smcTickBot/internal/strategy/indicators"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger := logger.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	appLogger.Info(context.Background(), "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String(), "format": string(cfg.LogFormat)})

	// 3. Initialize Repository (Database Adapter)
	repo, err := sqlite.NewRepository(sqlite.Config{
		DBPath: cfg.DBPath,
		Logger: appLogger,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize database repository")
		log.Fatalf("FATAL: Failed to initialize database repository: %v", err) // Also log to stderr
	}
	defer func() {
		if err := repo.Close(); err != nil {
			appLogger.Error(context.Background(), err, "Error closing database repository")
		}
	}()
	appLogger.Info(context.Background(), "Database repository initialized")

	// 4. Initialize Metrics
	recorder := metrics.New()
	if cfg.MetricsAddr != "" {
		srv := recorder.Serve(cfg.MetricsAddr)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctx)
		}()
		appLogger.Info(context.Background(), "Metrics endpoint listening", map[string]interface{}{"addr": cfg.MetricsAddr})
	}

	// 5. Initialize Venue Client (Deriv Adapter)
	contract := cfg.Params.Contract
	derivClient, err := deriv.New(deriv.Config{
		AppID:                cfg.AppID,
		APIToken:             cfg.APIToken,
		WSURL:                cfg.WSURL,
		Logger:               appLogger,
		PingInterval:         cfg.PingInterval,
		ReconnectDelay:       cfg.ReconnectDelay,
		MaxReconnectAttempts: cfg.MaxReconnectAttempts,
		RequestTimeout:       cfg.RequestTimeout,
		Duration:             contract.Duration,
		DurationUnit:         contract.DurationUnit,
		Currency:             contract.Currency,
	})
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize Deriv client")
		log.Fatalf("FATAL: Failed to initialize Deriv client: %v", err)
	}
	appLogger.Info(context.Background(), "Deriv client initialized")

	// 6. Initialize Strategy
	sp := cfg.Params.Structure
	engine, err := strategy.New(strategy.Config{
		HistoryCapacity:       sp.HistoryCapacity,
		StructureWindow:       sp.StructureWindow,
		SwingHalfWidth:        sp.SwingHalfWidth,
		ZoneKeep:              sp.ZoneKeep,
		BoxWidth:              sp.BoxWidth,
		ATRPeriod:             sp.ATRPeriod,
		TrendMAPeriod:         sp.TrendMAPeriod,
		TrendMAType:           indicators.MovingAverageType(sp.TrendMAType),
		ToleranceFactor:       sp.ToleranceFactor,
		ConfirmationFactor:    sp.ConfirmationFactor,
		ConfirmationLookahead: sp.ConfirmationLookahead,
		RetestDeadline:        sp.RetestDeadline,
	}, appLogger)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize trading strategy")
		log.Fatalf("FATAL: Failed to initialize trading strategy: %v", err)
	}
	appLogger.Info(context.Background(), "Trading strategy initialized", map[string]interface{}{"name": engine.Name()})

	// 7. Initialize Money Management
	mp := cfg.Params.Money
	money, err := risk.NewMoneyManager(risk.MoneyConfig{
		BaseStake:            mp.BaseStake,
		MartingaleMultiplier: mp.MartingaleMultiplier,
		ProfitTarget:         mp.ProfitTarget,
		LongCooldown:         mp.ProfitCooldown,
		MinTradeSpacing:      mp.TradeSpacing,
	}, time.Now)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize money manager")
		log.Fatalf("FATAL: Failed to initialize money manager: %v", err)
	}

	// 8. Initialize Application Service
	tradingService, err := app.NewTradingService(
		cfg,
		appLogger,
		derivClient, // Tick stream
		derivClient, // Execution port
		repo,
		engine,
		money,
		recorder,
	)
	if err != nil {
		appLogger.Error(context.Background(), err, "FATAL: Failed to initialize trading service")
		log.Fatalf("FATAL: Failed to initialize trading service: %v", err)
	}
	appLogger.Info(context.Background(), "Trading service initialized")

	// 9. Start the Service
	ctx := logger.WithFields(context.Background(), map[string]interface{}{"session": tradingService.SessionID()})
	if err := tradingService.Start(ctx); err != nil {
		appLogger.Error(ctx, err, "Trading service exited with error")
		log.Fatalf("FATAL: Trading service exited with error: %v", err)
	}

	appLogger.Info(ctx, "Application finished gracefully.")
}
