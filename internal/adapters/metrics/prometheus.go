package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder implements ports.Metrics using Prometheus.
type Recorder struct {
	registry *prometheus.Registry

	ticksTotal   *prometheus.CounterVec
	lastPrice    *prometheus.GaugeVec
	bosTotal     *prometheus.CounterVec
	signalsTotal *prometheus.CounterVec
	tradesTotal  *prometheus.CounterVec
	settlement   prometheus.Histogram
	stake        prometheus.Gauge
	profit       prometheus.Gauge
	liveTrackers prometheus.Gauge
}

// New creates a recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		registry: reg,
		ticksTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smcbot_ticks_total",
				Help: "Count of market ticks ingested",
			},
			[]string{"symbol"},
		),
		lastPrice: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "smcbot_last_price",
				Help: "Last observed quote for a symbol",
			},
			[]string{"symbol"},
		),
		bosTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smcbot_bos_registered_total",
				Help: "Breaks of structure that started a retest tracker",
			},
			[]string{"kind"},
		),
		signalsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smcbot_signals_total",
				Help: "Confirmed retest signals by trade gate verdict",
			},
			[]string{"direction", "verdict"},
		),
		tradesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smcbot_trades_total",
				Help: "Trades by final status",
			},
			[]string{"direction", "status"},
		),
		settlement: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "smcbot_settlement_duration_seconds",
				Help:    "Time from placement to settlement",
				Buckets: []float64{1, 2, 5, 10, 15, 30, 60, 120},
			},
		),
		stake: f.NewGauge(prometheus.GaugeOpts{
			Name: "smcbot_stake",
			Help: "Stake for the next trade",
		}),
		profit: f.NewGauge(prometheus.GaugeOpts{
			Name: "smcbot_session_profit",
			Help: "Cumulative profit since the last profit-target reset",
		}),
		liveTrackers: f.NewGauge(prometheus.GaugeOpts{
			Name: "smcbot_live_trackers",
			Help: "Retest trackers currently followed",
		}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) RecordTick(symbol string, price float64) {
	r.ticksTotal.WithLabelValues(symbol).Inc()
	r.lastPrice.WithLabelValues(symbol).Set(price)
}

func (r *Recorder) RecordBOS(kind string) {
	r.bosTotal.WithLabelValues(kind).Inc()
}

func (r *Recorder) RecordSignal(direction, verdict string) {
	r.signalsTotal.WithLabelValues(direction, verdict).Inc()
}

func (r *Recorder) RecordTrade(direction, status string) {
	r.tradesTotal.WithLabelValues(direction, status).Inc()
}

func (r *Recorder) ObserveSettlement(seconds float64) {
	r.settlement.Observe(seconds)
}

func (r *Recorder) SetStake(stake float64) {
	r.stake.Set(stake)
}

func (r *Recorder) SetSessionProfit(profit float64) {
	r.profit.Set(profit)
}

func (r *Recorder) SetLiveTrackers(n int) {
	r.liveTrackers.Set(float64(n))
}

// Handler serves the recorder's registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Serve starts a /metrics listener on addr in the background.
func (r *Recorder) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", r.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}
