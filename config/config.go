package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"smcTickBot/internal/adapters/logger" // Import the logger package for LogLevel
)

// Config holds all application configuration.
type Config struct {
	// Deriv API
	AppID    string
	APIToken string
	WSURL    string

	// Instrument
	Symbol string

	// Trading parameters (file-backed, env overrides)
	Params Params

	// Database
	DBPath string

	// Logging
	LogLevel  logger.LogLevel // Use the LogLevel type from the logger adapter
	LogFormat logger.Format

	// Metrics
	MetricsAddr string // Empty disables the /metrics listener

	// Connection Settings
	PingInterval         time.Duration
	ReconnectDelay       time.Duration
	MaxReconnectAttempts int
	RequestTimeout       time.Duration // Proposal and buy round trips
	SettlementTimeout    time.Duration // Upper bound on waiting for a contract to be sold

	// Ingestion
	TickBuffer int
}

// LoadConfig loads configuration from environment variables (.env file) and,
// when STRATEGY_CONFIG is set, from a YAML parameter file. Environment
// variables override file values.
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	// Deriv API
	cfg.AppID = getEnv("DERIV_APP_ID", "")
	cfg.APIToken = getEnv("DERIV_API_TOKEN", "")
	cfg.WSURL = getEnv("DERIV_WS_URL", "wss://ws.derivws.com/websockets/v3")

	if cfg.AppID == "" {
		errs = append(errs, "DERIV_APP_ID must be set")
	}
	if cfg.APIToken == "" {
		errs = append(errs, "DERIV_API_TOKEN must be set")
	}

	cfg.Symbol = getEnv("SYMBOL", "R_75")

	// Trading parameters
	params, err := LoadParams(getEnv("STRATEGY_CONFIG", ""))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid STRATEGY_CONFIG: %v", err))
		params, _ = DefaultParams()
	}
	if params != nil {
		cfg.Params = *params
	}
	errs = append(errs, applyParamOverrides(&cfg.Params)...)

	// Database
	cfg.DBPath = getEnv("DB_PATH", "./data/smc_tick_bot.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	// Logging
	logLevelStr := getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr) // Use the parser from the logger package
	format, ok := logger.ParseFormat(getEnv("LOG_FORMAT", "std"))
	if !ok {
		errs = append(errs, "LOG_FORMAT must be one of std, json, console")
	}
	cfg.LogFormat = format

	cfg.MetricsAddr = getEnv("METRICS_ADDR", "")

	// Connection Settings
	cfg.PingInterval = parseSeconds("PING_INTERVAL_SECONDS", 20, &errs)
	cfg.ReconnectDelay = parseSeconds("RECONNECT_DELAY_SECONDS", 3, &errs)
	cfg.RequestTimeout = parseSeconds("REQUEST_TIMEOUT_SECONDS", 10, &errs)
	cfg.SettlementTimeout = parseSeconds("SETTLEMENT_TIMEOUT_SECONDS", 120, &errs)

	cfg.MaxReconnectAttempts, err = getEnvAsIntRequired("MAX_RECONNECT_ATTEMPTS", 10)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid MAX_RECONNECT_ATTEMPTS: %v", err))
	} else if cfg.MaxReconnectAttempts < 0 {
		errs = append(errs, "MAX_RECONNECT_ATTEMPTS cannot be negative")
	}

	cfg.TickBuffer, err = getEnvAsIntRequired("TICK_BUFFER", 1024)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid TICK_BUFFER: %v", err))
	} else if cfg.TickBuffer <= 0 {
		errs = append(errs, "TICK_BUFFER must be positive")
	}

	// Combine validation errors
	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// applyParamOverrides applies environment overrides on top of file or default
// parameters and re-validates the result.
func applyParamOverrides(p *Params) []string {
	var errs []string
	var err error

	intOverrides := []struct {
		key string
		dst *int
	}{
		{"SWING_LENGTH", &p.Structure.SwingHalfWidth},
		{"LTF_WINDOW", &p.Structure.StructureWindow},
		{"HISTORY_TO_KEEP", &p.Structure.ZoneKeep},
		{"ATR_WINDOW", &p.Structure.ATRPeriod},
		{"TREND_MA_PERIOD", &p.Structure.TrendMAPeriod},
		{"MAX_PRICE_HISTORY", &p.Structure.HistoryCapacity},
		{"CONFIRMATION_LOOKAHEAD", &p.Structure.ConfirmationLookahead},
		{"DURATION", &p.Contract.Duration},
	}
	for _, o := range intOverrides {
		if *o.dst, err = getEnvAsIntRequired(o.key, *o.dst); err != nil {
			errs = append(errs, fmt.Sprintf("invalid %s: %v", o.key, err))
		}
	}
	retestDeadline, err := getEnvAsIntRequired("RETEST_LOOKAHEAD", int(p.Structure.RetestDeadline))
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid RETEST_LOOKAHEAD: %v", err))
	} else {
		p.Structure.RetestDeadline = int64(retestDeadline)
	}
	p.Structure.TrendMAType = strings.ToUpper(getEnv("TREND_MA_TYPE", p.Structure.TrendMAType))

	if p.Structure.BoxWidth, err = getEnvAsFloatRequired("BOX_WIDTH", p.Structure.BoxWidth); err != nil {
		errs = append(errs, fmt.Sprintf("invalid BOX_WIDTH: %v", err))
	}
	if p.Structure.ToleranceFactor, err = getEnvAsFloatRequired("POI_TOLERANCE_FACTOR", p.Structure.ToleranceFactor); err != nil {
		errs = append(errs, fmt.Sprintf("invalid POI_TOLERANCE_FACTOR: %v", err))
	}
	if p.Structure.ConfirmationFactor, err = getEnvAsFloatRequired("CONFIRMATION_FACTOR", p.Structure.ConfirmationFactor); err != nil {
		errs = append(errs, fmt.Sprintf("invalid CONFIRMATION_FACTOR: %v", err))
	}

	if p.Money.BaseStake, err = getEnvAsFloatRequired("BASE_STAKE", p.Money.BaseStake); err != nil {
		errs = append(errs, fmt.Sprintf("invalid BASE_STAKE: %v", err))
	}
	if p.Money.MartingaleMultiplier, err = getEnvAsFloatRequired("MARTINGALE_MULTIPLIER", p.Money.MartingaleMultiplier); err != nil {
		errs = append(errs, fmt.Sprintf("invalid MARTINGALE_MULTIPLIER: %v", err))
	}
	if p.Money.ProfitTarget, err = getEnvAsFloatRequired("PROFIT_TARGET", p.Money.ProfitTarget); err != nil {
		errs = append(errs, fmt.Sprintf("invalid PROFIT_TARGET: %v", err))
	}
	if p.Money.ProfitCooldown, err = getEnvAsDurationRequired("PROFIT_COOLDOWN", p.Money.ProfitCooldown); err != nil {
		errs = append(errs, fmt.Sprintf("invalid PROFIT_COOLDOWN: %v", err))
	}
	if p.Money.TradeSpacing, err = getEnvAsDurationRequired("COOLDOWN_BETWEEN_TRADES", p.Money.TradeSpacing); err != nil {
		errs = append(errs, fmt.Sprintf("invalid COOLDOWN_BETWEEN_TRADES: %v", err))
	}

	if p.Contract.BarrierBuy, err = getEnvAsFloatRequired("BARRIER_BUY", p.Contract.BarrierBuy); err != nil {
		errs = append(errs, fmt.Sprintf("invalid BARRIER_BUY: %v", err))
	}
	if p.Contract.BarrierSell, err = getEnvAsFloatRequired("BARRIER_SELL", p.Contract.BarrierSell); err != nil {
		errs = append(errs, fmt.Sprintf("invalid BARRIER_SELL: %v", err))
	}
	p.Contract.Currency = getEnv("CURRENCY", p.Contract.Currency)

	if err := p.Validate(); err != nil {
		errs = append(errs, fmt.Sprintf("invalid trading parameters: %v", err))
	}
	return errs
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// parseSeconds reads a positive whole number of seconds, recording a
// validation error for malformed or non-positive values.
func parseSeconds(key string, defaultValue int, errs *[]string) time.Duration {
	secs, err := getEnvAsIntRequired(key, defaultValue)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid %s: %v", key, err))
		return time.Duration(defaultValue) * time.Second
	}
	if secs <= 0 {
		*errs = append(*errs, fmt.Sprintf("%s must be positive", key))
	}
	return time.Duration(secs) * time.Second
}

func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		// Use default if env var is not set at all
		return defaultValue, nil
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		// Return error if env var is set but invalid
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsFloatRequired(key string, defaultValue float64) (float64, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid float value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

// getEnvAsDurationRequired accepts Go durations ("5h", "600ms") or plain
// seconds ("0.6").
func getEnvAsDurationRequired(key string, defaultValue time.Duration) (time.Duration, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue, nil
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d, nil
	}
	secs, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration value '%s' for key %s: %w", valueStr, key, err)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
