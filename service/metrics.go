package service

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"finance-coach/engine"
)

// Metrics counts engine operations by outcome. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	operations *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "finance_engine_operations_total",
			Help: "Engine operations by name and outcome.",
		}, []string{"operation", "outcome"}),
	}
	reg.MustRegister(m.operations)
	return m
}

func (m *Metrics) observe(operation string, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcomeOf(err)).Inc()
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, engine.ErrInfeasiblePayment):
		return "infeasible"
	case errors.Is(err, engine.ErrInvalidAmount),
		errors.Is(err, engine.ErrInvalidMonthCount),
		errors.Is(err, engine.ErrUnknownScenario),
		errors.Is(err, ErrGrowthTooLong):
		return "invalid"
	default:
		return "error"
	}
}
