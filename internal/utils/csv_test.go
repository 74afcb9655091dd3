package utils

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"smcTickBot/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTrades() []*domain.Trade {
	entry := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []*domain.Trade{
		{
			ID: 1, SessionID: "s1", Symbol: "R_75", Direction: domain.Buy, ContractType: "CALL",
			ContractID: 555, Stake: 100, Barrier: 0.7777, EntryPrice: 41234.5, Profit: 95.4,
			Status: domain.TradeWon, EntryTime: entry, SettleTime: entry.Add(6 * time.Second),
		},
		{
			ID: 2, SessionID: "s1", Symbol: "R_75", Direction: domain.Sell, ContractType: "PUT",
			Stake: 100, Barrier: 0.7777, EntryPrice: 41230, Status: domain.TradeFailed,
			EntryTime: entry.Add(time.Minute), Error: "proposal rejected, barrier out of range",
		},
	}
}

func TestWriteTrades(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTrades(&buf, sampleTrades()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, tradeHeader, rows[0])
	assert.Equal(t, []string{
		"1", "s1", "R_75", "BUY", "CALL", "555", "100", "0.7777", "41234.5", "95.4", "won",
		"2024-03-01T12:00:00Z", "2024-03-01T12:00:06Z", "",
	}, rows[1])
	assert.Equal(t, "", rows[2][12])
	assert.Equal(t, "proposal rejected, barrier out of range", rows[2][13])
}

func TestWriteTradesToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")
	require.NoError(t, WriteTradesToCSV(sampleTrades(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "session_id")
	assert.Contains(t, string(data), "2024-03-01T12:01:00Z")
}
