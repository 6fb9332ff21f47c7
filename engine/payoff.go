package engine

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"finance-coach/domain"
)

// MaxSimulatedMonths bounds the month-by-month simulation (100 years).
const MaxSimulatedMonths = 1200

// payoffRun is an unrounded solver result; rounding happens at presentation.
type payoffRun struct {
	months   int
	interest decimal.Decimal
	paid     decimal.Decimal
}

// ComputePayoffProjection forecasts when a fixed monthly payment clears a
// debt under monthly compound interest, and what it costs in total.
//
// The month count is first estimated with the fixed-payment identity
//
//	n = -ln(1 - D*r/P) / ln(1 + r)
//
// and then the schedule is re-simulated in decimal so that interest and
// total paid are exact to the cent. A rate of zero or less is linear.
func ComputePayoffProjection(
	debtTotal, monthlyPayment, monthlyRate decimal.Decimal,
	startDate time.Time,
) (domain.DebtProjection, error) {
	run, err := solvePayoff(debtTotal, monthlyPayment, monthlyRate)
	if err != nil {
		return domain.DebtProjection{}, err
	}
	return run.projection(debtTotal, monthlyPayment, monthlyRate, startDate), nil
}

func (r payoffRun) projection(debt, payment, rate decimal.Decimal, start time.Time) domain.DebtProjection {
	return domain.DebtProjection{
		DebtTotal:         RoundMoney(debt),
		MonthlyPayment:    RoundMoney(payment),
		InterestRate:      rate,
		MonthsToPayoff:    r.months,
		PayoffDate:        AddMonths(start, r.months),
		TotalInterestPaid: RoundMoney(r.interest),
		TotalAmountPaid:   RoundMoney(r.paid),
	}
}

func solvePayoff(debt, payment, rate decimal.Decimal) (payoffRun, error) {
	if err := mustBePositive("debt_total", debt); err != nil {
		return payoffRun{}, err
	}
	if err := mustBePositive("monthly_payment", payment); err != nil {
		return payoffRun{}, err
	}

	if !rate.IsPositive() {
		months := debt.Div(payment).Ceil()
		if months.GreaterThan(decimal.NewFromInt(MaxSimulatedMonths)) {
			return payoffRun{}, &InfeasiblePaymentError{
				Payment:         payment,
				MinimumInterest: decimal.Zero,
				HorizonMonths:   MaxSimulatedMonths,
			}
		}
		return payoffRun{
			months:   int(months.IntPart()),
			interest: decimal.Zero,
			paid:     debt,
		}, nil
	}

	firstInterest := debt.Mul(rate)
	if payment.LessThanOrEqual(firstInterest) {
		return payoffRun{}, &InfeasiblePaymentError{
			Payment:         payment,
			MinimumInterest: firstInterest,
		}
	}

	return amortize(debt, payment, rate, estimatePayoffMonths(debt, payment, rate))
}

// estimatePayoffMonths evaluates the closed form in float64; the result is
// only a loop bound, the money math stays in decimal.
func estimatePayoffMonths(debt, payment, rate decimal.Decimal) int {
	ratio := debt.Mul(rate).Div(payment).InexactFloat64()
	raw := -math.Log(1-ratio) / math.Log1p(rate.InexactFloat64())
	if math.IsNaN(raw) || math.IsInf(raw, 0) || raw > MaxSimulatedMonths {
		return MaxSimulatedMonths
	}
	return int(math.Ceil(raw))
}

func amortize(debt, payment, rate decimal.Decimal, estimate int) (payoffRun, error) {
	balance := debt
	run := payoffRun{interest: decimal.Zero, paid: decimal.Zero}

	step := func() {
		interest := balance.Mul(rate)
		principal := decimal.Min(payment.Sub(interest), balance)
		balance = decimal.Max(decimal.Zero, balance.Sub(principal))
		run.interest = run.interest.Add(interest)
		if balance.IsPositive() {
			run.paid = run.paid.Add(payment)
		} else {
			// last month only pays what is still owed
			run.paid = run.paid.Add(principal).Add(interest)
		}
		run.months++
	}

	for run.months < estimate && balance.IsPositive() {
		step()
	}
	// The float estimate can fall a month short on exact boundaries.
	for balance.IsPositive() {
		if run.months >= MaxSimulatedMonths {
			return payoffRun{}, &InfeasiblePaymentError{
				Payment:         payment,
				MinimumInterest: debt.Mul(rate),
				HorizonMonths:   MaxSimulatedMonths,
			}
		}
		step()
	}
	return run, nil
}
