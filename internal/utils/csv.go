package utils

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"time"

	"smcTickBot/internal/domain"
)

var tradeHeader = []string{
	"id", "session_id", "symbol", "direction", "contract_type", "contract_id", "stake", "barrier",
	"entry_price", "profit", "status", "entry_time", "settle_time", "error",
}

// WriteTradesToCSV writes journaled trades to filename, one row per trade.
func WriteTradesToCSV(trades []*domain.Trade, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteTrades(file, trades)
}

// WriteTrades writes a header and one CSV row per trade to w.
func WriteTrades(w io.Writer, trades []*domain.Trade) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(tradeHeader); err != nil {
		return err
	}

	for _, t := range trades {
		settle := ""
		if !t.SettleTime.IsZero() {
			settle = t.SettleTime.Format(time.RFC3339)
		}
		writer.Write([]string{
			strconv.FormatInt(t.ID, 10),
			t.SessionID,
			t.Symbol,
			string(t.Direction),
			t.ContractType,
			strconv.FormatInt(t.ContractID, 10),
			strconv.FormatFloat(t.Stake, 'f', -1, 64),
			strconv.FormatFloat(t.Barrier, 'f', -1, 64),
			strconv.FormatFloat(t.EntryPrice, 'f', -1, 64),
			strconv.FormatFloat(t.Profit, 'f', -1, 64),
			string(t.Status),
			t.EntryTime.Format(time.RFC3339),
			settle,
			t.Error,
		})
	}
	writer.Flush()
	return writer.Error()
}
