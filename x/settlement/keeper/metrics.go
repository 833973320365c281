package keeper

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SettlementMetrics holds all Prometheus metrics for the settlement module
type SettlementMetrics struct {
	// Session metrics
	SessionsCreated   *prometheus.CounterVec
	SessionsCompleted *prometheus.CounterVec
	SessionsTimedOut  *prometheus.CounterVec
	SessionsActive    prometheus.Gauge

	// Proof metrics
	ProofsAccepted  *prometheus.CounterVec
	ProofsRejected  *prometheus.CounterVec
	TokensProven    *prometheus.CounterVec
	ReplaysDetected prometheus.Counter

	// Fund movement metrics
	Deposits           *prometheus.CounterVec
	Withdrawals        *prometheus.CounterVec
	EarningsCredited   *prometheus.CounterVec
	EarningsWithdrawn  *prometheus.CounterVec
	RefundsPaid        *prometheus.CounterVec
	ProtocolFeeAccrued *prometheus.CounterVec

	// Maintenance metrics
	ExpiredSessionSweeps prometheus.Counter
	FeeSweeps            prometheus.Counter
}

var (
	settlementMetricsOnce sync.Once
	settlementMetrics     *SettlementMetrics
)

// NewSettlementMetrics creates and registers settlement metrics (singleton pattern)
func NewSettlementMetrics() *SettlementMetrics {
	settlementMetricsOnce.Do(func() {
		settlementMetrics = &SettlementMetrics{
			SessionsCreated: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "meterd",
					Subsystem: "settlement",
					Name:      "sessions_created_total",
					Help:      "Total metered sessions created",
				},
				[]string{"denom"},
			),
			SessionsCompleted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "meterd",
					Subsystem: "settlement",
					Name:      "sessions_completed_total",
					Help:      "Total sessions settled cooperatively",
				},
				[]string{"denom"},
			),
			SessionsTimedOut: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "meterd",
					Subsystem: "settlement",
					Name:      "sessions_timed_out_total",
					Help:      "Total sessions settled by timeout",
				},
				[]string{"denom"},
			),
			SessionsActive: promauto.NewGauge(
				prometheus.GaugeOpts{
					Namespace: "meterd",
					Subsystem: "settlement",
					Name:      "sessions_active",
					Help:      "Currently active sessions",
				},
			),
			ProofsAccepted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "meterd",
					Subsystem: "settlement",
					Name:      "proofs_accepted_total",
					Help:      "Total work proofs accepted",
				},
				[]string{"denom"},
			),
			ProofsRejected: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "meterd",
					Subsystem: "settlement",
					Name:      "proofs_rejected_total",
					Help:      "Total work proofs rejected",
				},
				[]string{"reason"},
			),
			TokensProven: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "meterd",
					Subsystem: "settlement",
					Name:      "tokens_proven_total",
					Help:      "Total tokens accepted into proven totals",
				},
				[]string{"denom"},
			),
			ReplaysDetected: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "meterd",
					Subsystem: "settlement",
					Name:      "proof_replays_detected_total",
					Help:      "Total proof submissions rejected as replays",
				},
			),
			Deposits: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "meterd",
					Subsystem: "settlement",
					Name:      "deposits_total",
					Help:      "Total ledger deposits",
				},
				[]string{"denom"},
			),
			Withdrawals: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "meterd",
					Subsystem: "settlement",
					Name:      "withdrawals_total",
					Help:      "Total ledger withdrawals",
				},
				[]string{"denom"},
			),
			EarningsCredited: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "meterd",
					Subsystem: "settlement",
					Name:      "earnings_credited_total",
					Help:      "Total host earnings credited at settlement",
				},
				[]string{"denom"},
			),
			EarningsWithdrawn: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "meterd",
					Subsystem: "settlement",
					Name:      "earnings_withdrawn_total",
					Help:      "Total host earnings paid out",
				},
				[]string{"denom"},
			),
			RefundsPaid: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "meterd",
					Subsystem: "settlement",
					Name:      "refunds_paid_total",
					Help:      "Total unspent deposits refunded",
				},
				[]string{"denom"},
			),
			ProtocolFeeAccrued: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Namespace: "meterd",
					Subsystem: "settlement",
					Name:      "protocol_fees_accrued_total",
					Help:      "Total protocol fees accrued at settlement",
				},
				[]string{"denom"},
			),
			ExpiredSessionSweeps: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "meterd",
					Subsystem: "settlement",
					Name:      "expired_session_sweeps_total",
					Help:      "Total end-block expired session sweep runs",
				},
			),
			FeeSweeps: promauto.NewCounter(
				prometheus.CounterOpts{
					Namespace: "meterd",
					Subsystem: "settlement",
					Name:      "fee_sweeps_total",
					Help:      "Total begin-block protocol fee sweep runs",
				},
			),
		}
	})
	return settlementMetrics
}
