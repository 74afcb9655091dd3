package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counters(t *testing.T) {
	r := New()

	r.RecordTick("R_75", 1234.5)
	r.RecordTick("R_75", 1234.7)
	r.RecordBOS("BOS High")
	r.RecordSignal("BUY", "admitted")
	r.RecordSignal("SELL", "trend_filter")
	r.RecordTrade("BUY", "won")
	r.SetStake(200)
	r.SetSessionProfit(-100)
	r.SetLiveTrackers(3)
	r.ObserveSettlement(6)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.ticksTotal.WithLabelValues("R_75")))
	assert.Equal(t, 1234.7, testutil.ToFloat64(r.lastPrice.WithLabelValues("R_75")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.bosTotal.WithLabelValues("BOS High")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.signalsTotal.WithLabelValues("SELL", "trend_filter")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.tradesTotal.WithLabelValues("BUY", "won")))
	assert.Equal(t, 200.0, testutil.ToFloat64(r.stake))
	assert.Equal(t, -100.0, testutil.ToFloat64(r.profit))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.liveTrackers))
}

func TestRecorder_SeparateRegistries(t *testing.T) {
	a, b := New(), New()
	a.RecordBOS("BOS Low")
	assert.Equal(t, 0.0, testutil.ToFloat64(b.bosTotal.WithLabelValues("BOS Low")))
}

func TestRecorder_Handler(t *testing.T) {
	r := New()
	r.RecordTick("R_75", 1)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `smcbot_ticks_total{symbol="R_75"} 1`)
}
