package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("booking-service/service")

var ledgerDecisions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "booking_decisions_total",
		Help: "Ledger decisions by operation and outcome",
	},
	[]string{"operation", "outcome"},
)

const (
	outcomeAdmitted   = "ADMITTED"
	outcomeStoreError = "STORE_ERROR"
)

func recordDecision(operation, outcome string) {
	ledgerDecisions.WithLabelValues(operation, outcome).Inc()
}
