package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"smcTickBot/internal/adapters/logger"
	"smcTickBot/internal/adapters/sqlite"
	"smcTickBot/internal/domain"
	"smcTickBot/internal/strategy/analytics"
	"smcTickBot/internal/utils"
)

var (
	dbPath         = flag.String("db", "./data/smc_tick_bot.db", "path to the trade journal")
	symbol         = flag.String("symbol", "R_75", "symbol to report on when -session is empty")
	session        = flag.String("session", "", "report on a single session")
	limit          = flag.Int("limit", 1000, "most recent trades to load for -symbol")
	csvOut         = flag.String("csv", "", "also export the loaded trades to this CSV file")
	initialBalance = flag.Float64("balance", 10000, "starting balance for the equity curve")
)

func main() {
	flag.Parse()

	appLogger := logger.NewStdLogger(logger.LevelWarn)
	repo, err := sqlite.NewRepository(sqlite.Config{DBPath: *dbPath, Logger: appLogger})
	if err != nil {
		log.Fatalf("FATAL: Failed to open trade journal: %v", err)
	}
	defer repo.Close()

	trades, err := loadTrades(context.Background(), repo)
	if err != nil {
		log.Fatalf("FATAL: Failed to load trades: %v", err)
	}
	if len(trades) == 0 {
		log.Println("No trades found.")
		return
	}

	// FindBySymbol returns newest first; the equity curve wants oldest first
	if *session == "" {
		for i, j := 0, len(trades)-1; i < j; i, j = i+1, j-1 {
			trades[i], trades[j] = trades[j], trades[i]
		}
	}

	metrics := analytics.AnalyzePerformance(trades, *initialBalance)
	printSummary(metrics)
	printDailyReturns(metrics)

	if *csvOut != "" {
		if err := utils.WriteTradesToCSV(trades, *csvOut); err != nil {
			log.Fatalf("FATAL: Failed to export trades: %v", err)
		}
		fmt.Printf("\nExported %d trades to %s\n", len(trades), *csvOut)
	}
}

func loadTrades(ctx context.Context, repo *sqlite.Repository) ([]*domain.Trade, error) {
	if *session != "" {
		return repo.FindBySession(ctx, *session)
	}
	return repo.FindBySymbol(ctx, *symbol, *limit)
}

func printSummary(m *analytics.PerformanceMetrics) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "## Journal Summary")
	fmt.Fprintf(w, "Settled trades\t%d\n", m.TotalTrades)
	fmt.Fprintf(w, "Won / Lost\t%d / %d\n", m.WinningTrades, m.LosingTrades)
	fmt.Fprintf(w, "Failed / Unknown\t%d / %d\n", m.FailedTrades, m.UnknownTrades)
	fmt.Fprintf(w, "Win rate\t%.2f%%\n", m.WinRate*100)
	fmt.Fprintf(w, "Total profit\t%.2f\n", m.TotalProfit)
	fmt.Fprintf(w, "Total staked\t%.2f\n", m.TotalStaked)
	fmt.Fprintf(w, "Max stake\t%.2f\n", m.MaxStake)
	fmt.Fprintf(w, "Max consecutive losses\t%d\n", m.MaxConsecutiveLosses)
	fmt.Fprintf(w, "Max drawdown\t%.2f%%\n", m.MaxDrawdown*100)
	fmt.Fprintf(w, "Profit factor\t%.2f\n", m.ProfitFactor)
	fmt.Fprintf(w, "Expectancy\t%.2f\n", m.Expectancy)
	fmt.Fprintf(w, "Final balance\t%.2f\n", m.FinalBalance)
	fmt.Fprintf(w, "Avg settlement time\t%s\n", m.AverageTradeDuration)
	w.Flush()
}

func printDailyReturns(m *analytics.PerformanceMetrics) {
	returns := m.GetDailyReturns()
	if len(returns) == 0 {
		return
	}
	fmt.Println("\n## Daily Profit")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
	for _, r := range returns {
		fmt.Fprintf(w, "%s\t%.2f\t\n", r.Day.Format("2006-01-02"), r.Return)
	}
	w.Flush()
}
