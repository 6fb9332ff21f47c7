package engine

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"finance-coach/domain"
)

// scenarioPolicy maps a what-if variant to its input transform and message.
type scenarioPolicy struct {
	apply   func(debt, payment, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal)
	message func(amount decimal.Decimal, monthsSaved int) string
}

func reduceDebt(debt, payment, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	return decimal.Max(decimal.Zero, debt.Sub(amount)), payment
}

var scenarioPolicies = map[domain.ScenarioKind]scenarioPolicy{
	domain.ScenarioSellAsset: {
		apply: reduceDebt,
		message: func(amount decimal.Decimal, months int) string {
			return fmt.Sprintf("Selling that for %s saves you %d months of debt!", FormatMoney(amount), months)
		},
	},
	domain.ScenarioIncreasePayment: {
		apply: func(debt, payment, amount decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
			return debt, payment.Add(amount)
		},
		message: func(amount decimal.Decimal, months int) string {
			return fmt.Sprintf("Paying %s more per month gets you out %d months earlier!", FormatMoney(amount), months)
		},
	},
	domain.ScenarioExtraIncome: {
		apply: reduceDebt,
		message: func(amount decimal.Decimal, months int) string {
			return fmt.Sprintf("With that extra %s you bring your freedom %d months closer!", FormatMoney(amount), months)
		},
	},
}

// SimulateScenario re-runs the payoff solver on perturbed inputs and
// reports what the perturbation saves against the baseline.
func SimulateScenario(
	currentDebt, currentPayment, monthlyRate decimal.Decimal,
	scenario domain.Scenario,
	startDate time.Time,
) (domain.ScenarioResult, error) {
	policy, ok := scenarioPolicies[scenario.Kind]
	if !ok {
		return domain.ScenarioResult{}, &ScenarioError{Kind: scenario.Kind}
	}
	if err := mustNotBeNegative("scenario.amount", scenario.Amount); err != nil {
		return domain.ScenarioResult{}, err
	}

	baseline, err := solvePayoff(currentDebt, currentPayment, monthlyRate)
	if err != nil {
		return domain.ScenarioResult{}, err
	}

	result := domain.ScenarioResult{
		Scenario: scenario,
		Baseline: baseline.projection(currentDebt, currentPayment, monthlyRate, startDate),
	}

	debt, payment := policy.apply(currentDebt, currentPayment, scenario.Amount)
	if debt.IsZero() {
		result.MonthsSaved = baseline.months
		result.InterestSaved = RoundMoney(baseline.interest)
	} else {
		simulated, err := solvePayoff(debt, payment, monthlyRate)
		if err != nil {
			return domain.ScenarioResult{}, err
		}
		projection := simulated.projection(debt, payment, monthlyRate, startDate)
		result.Simulated = &projection
		result.MonthsSaved = baseline.months - simulated.months
		result.InterestSaved = RoundMoney(baseline.interest.Sub(simulated.interest))
	}

	result.Message = policy.message(scenario.Amount, result.MonthsSaved)
	return result, nil
}
