package engine

import "github.com/prometheus/client_golang/prometheus"

// Loop metrics, registered in init() and served at /metrics by the run
// command.

var (
	mtxDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxbot_decisions_total",
			Help: "Gatekeeping decisions by strategy and verdict",
		},
		[]string{"strategy", "verdict"}, // verdict: approved|rejected
	)

	mtxRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxbot_rejections_total",
			Help: "Risk pipeline rejections by stage",
		},
		[]string{"stage"},
	)

	mtxOrders = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fxbot_orders_total",
			Help: "Order submissions by final result",
		},
		[]string{"result"}, // filled|terminal|max_retries|error
	)

	mtxTrailing = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fxbot_trailing_updates_total",
			Help: "Trailing stop modifications applied",
		},
	)

	mtxForcedCloses = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fxbot_forced_closes_total",
			Help: "Positions force-closed after exceeding max duration",
		},
	)

	mtxEquity = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fxbot_equity",
			Help: "Account equity in account currency",
		},
	)

	mtxTotalMargin = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fxbot_total_margin",
			Help: "Sum of margin across open positions (diagnostic)",
		},
	)

	mtxOpenPositions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fxbot_open_positions",
			Help: "Open positions across all instruments",
		},
	)

	mtxIdle = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fxbot_idle_wait",
			Help: "1 while the scheduler is parked at the open-position cap",
		},
	)
)

func init() {
	prometheus.MustRegister(mtxDecisions, mtxRejections, mtxOrders)
	prometheus.MustRegister(mtxTrailing, mtxForcedCloses)
	prometheus.MustRegister(mtxEquity, mtxTotalMargin, mtxOpenPositions, mtxIdle)
}
