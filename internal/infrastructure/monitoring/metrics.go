package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	PaymentsTotal         *prometheus.CounterVec
	LoanApplicationsTotal *prometheus.CounterVec
	BorrowersRegistered   prometheus.Counter
	CreditScores          prometheus.Histogram
	ScoringTasksTotal     *prometheus.CounterVec
	ScoringDeliveries     *prometheus.CounterVec
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loan_engine_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		PaymentsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_engine_payments_total",
				Help: "Total number of payment attempts by outcome.",
			},
			[]string{"status"},
		),
		LoanApplicationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_engine_loan_applications_total",
				Help: "Total number of loan applications by outcome (approved or rejection reason).",
			},
			[]string{"outcome"},
		),
		BorrowersRegistered: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "loan_engine_borrowers_registered_total",
				Help: "Total number of borrowers registered.",
			},
		),
		CreditScores: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "loan_engine_credit_score",
				Help:    "Distribution of computed credit scores.",
				Buckets: prometheus.LinearBuckets(300, 100, 7),
			},
		),
		ScoringTasksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_engine_scoring_tasks_total",
				Help: "Total number of credit scoring tasks by outcome.",
			},
			[]string{"status"},
		),
		ScoringDeliveries: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_engine_scoring_deliveries_total",
				Help: "Total number of scoring task deliveries consumed, by acknowledgement.",
			},
			[]string{"ack"},
		),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordPayment(status string) {
	Business.PaymentsTotal.WithLabelValues(status).Inc()
}

func RecordLoanApplication(outcome string) {
	Business.LoanApplicationsTotal.WithLabelValues(outcome).Inc()
}

func RecordBorrowerRegistered() {
	Business.BorrowersRegistered.Inc()
}

func RecordCreditScore(score int) {
	Business.CreditScores.Observe(float64(score))
}

func RecordScoringTask(status string) {
	Business.ScoringTasksTotal.WithLabelValues(status).Inc()
}

func RecordScoringDelivery(ack string) {
	Business.ScoringDeliveries.WithLabelValues(ack).Inc()
}
