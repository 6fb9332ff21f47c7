package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"finance-coach/domain"
	"finance-coach/engine"
	"finance-coach/repository"
)

type FinanceService struct {
	cache       repository.CacheRepository
	log         *logrus.Logger
	metrics     *Metrics
	policy      engine.ScorePolicy
	defaultRate decimal.Decimal
	group       singleflight.Group
	now         func() time.Time
}

// NewFinanceService wraps the projection engine with caching, logging and
// metrics. metrics may be nil.
func NewFinanceService(
	cache repository.CacheRepository,
	logger *logrus.Logger,
	metrics *Metrics,
	policy engine.ScorePolicy,
	defaultRate decimal.Decimal,
) *FinanceService {
	return &FinanceService{
		cache:       cache,
		log:         logger,
		metrics:     metrics,
		policy:      policy,
		defaultRate: defaultRate,
		now:         time.Now,
	}
}

func (s *FinanceService) DefaultRate() decimal.Decimal {
	return s.defaultRate
}

func (s *FinanceService) Rates() []domain.ReferenceRate {
	return engine.ReferenceRates()
}

// today is the default projection start: midnight UTC, so repeated requests
// on the same day share a cache entry.
func (s *FinanceService) today() time.Time {
	return s.now().UTC().Truncate(24 * time.Hour)
}

// rateOr resolves an optional request rate against the configured default.
func (s *FinanceService) rateOr(rate *decimal.Decimal) decimal.Decimal {
	if rate != nil {
		return *rate
	}
	return s.defaultRate
}

func payoffKey(in domain.PayoffInput, rate decimal.Decimal, start time.Time) string {
	return fmt.Sprintf("payoff:%s:%s:%s:%s",
		in.DebtTotal.String(), in.MonthlyPayment.String(), rate.String(),
		start.UTC().Format(time.RFC3339))
}

// Payoff projects a debt to zero. Results are cached by their inputs and
// concurrent identical requests share one computation.
func (s *FinanceService) Payoff(ctx context.Context, in domain.PayoffInput) (domain.DebtProjection, error) {
	start := s.today()
	if in.StartDate != nil {
		start = *in.StartDate
	}
	rate := s.rateOr(in.MonthlyRate)
	key := payoffKey(in, rate, start)

	if cached, ok := s.cache.Get(ctx, key); ok {
		var p domain.DebtProjection
		if err := json.Unmarshal([]byte(cached), &p); err == nil {
			s.metrics.observe("payoff", nil)
			return p, nil
		}
		s.log.WithField("key", key).Warn("discarding unreadable cached projection")
	}

	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		p, err := engine.ComputePayoffProjection(in.DebtTotal, in.MonthlyPayment, rate, start)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(p); err == nil {
			if err := s.cache.Set(ctx, key, string(data)); err != nil {
				s.log.WithError(err).WithField("key", key).Warn("failed to cache payoff projection")
			}
		}
		return p, nil
	})
	s.metrics.observe("payoff", err)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"operation": "payoff",
			"debt":      in.DebtTotal.String(),
			"payment":   in.MonthlyPayment.String(),
		}).WithError(err).Debug("projection rejected")
		return domain.DebtProjection{}, err
	}
	if shared {
		s.log.WithField("key", key).Debug("payoff projection shared")
	}
	return v.(domain.DebtProjection), nil
}

func (s *FinanceService) Freedom(ctx context.Context, in domain.FreedomInput) (domain.FreedomTimeline, error) {
	now := s.now()
	if in.StartDate != nil {
		now = *in.StartDate
	}
	tl, err := engine.FreedomTimeline(in.DebtTotal, in.MonthlyPayment, s.rateOr(in.MonthlyRate), in.OriginalDebt, now)
	s.metrics.observe("freedom", err)
	return tl, err
}

func (s *FinanceService) Growth(ctx context.Context, in domain.GrowthInput) (domain.GrowthTrajectory, error) {
	if in.Months > MaxGrowthMonths {
		err := fmt.Errorf("%w: %d months exceeds the maximum of %d", ErrGrowthTooLong, in.Months, MaxGrowthMonths)
		s.metrics.observe("growth", err)
		return domain.GrowthTrajectory{}, err
	}
	g, err := engine.ProjectGrowth(in.Principal, in.MonthlyRate, in.Months, in.MonthlyContribution)
	s.metrics.observe("growth", err)
	return g, err
}

// Impact measures an expense against an active debt. With no debt there is
// nothing to measure and it returns nil; a debt without a positive payment
// is rejected by the engine.
func (s *FinanceService) Impact(ctx context.Context, in domain.ImpactInput) (*domain.ImpactReport, error) {
	if !in.CurrentDebt.IsPositive() {
		return nil, nil
	}
	r, err := engine.AnalyzeExpenseImpact(in.CurrentDebt, in.MonthlyPayment, s.rateOr(in.MonthlyRate), in.NewExpense, s.today())
	s.metrics.observe("impact", err)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *FinanceService) Scenario(ctx context.Context, in domain.ScenarioInput) (domain.ScenarioResult, error) {
	r, err := engine.SimulateScenario(in.CurrentDebt, in.CurrentPayment, s.rateOr(in.MonthlyRate), in.Scenario, s.today())
	s.metrics.observe("scenario", err)
	if err == nil {
		s.log.WithFields(logrus.Fields{
			"operation":    "scenario",
			"kind":         in.Scenario.Kind,
			"months_saved": r.MonthsSaved,
		}).Debug("scenario simulated")
	}
	return r, err
}

func (s *FinanceService) Score(ctx context.Context, history []domain.Transaction) domain.ScoreReport {
	r := s.policy.Score(history)
	s.metrics.observe("score", nil)
	return r
}

func (s *FinanceService) CashFlow(ctx context.Context, history []domain.Transaction) domain.CashFlowSummary {
	summary := engine.SummarizeCashFlow(history)
	s.metrics.observe("cashflow", nil)
	return summary
}

// AnalyzeTransaction prepares the financial context of a single transaction
// for the coach, at the default monthly rate.
func (s *FinanceService) AnalyzeTransaction(
	ctx context.Context,
	amount decimal.Decimal,
	kind domain.TransactionKind,
	fc domain.FinancialContext,
) domain.TransactionAnalysis {
	a := engine.AnalyzeTransaction(amount, kind, fc.CurrentBalance, fc.TotalDebt, fc.MonthlyPayment, s.defaultRate, s.today())
	s.metrics.observe("analyze_transaction", nil)
	return a
}
