package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"finance-coach/domain"
)

// impactMessage renders the coach line for impacts up to maxDays extra days.
type impactMessage struct {
	maxDays int
	render  func(expense, realCost decimal.Decimal, days int) string
}

// impactMessages is evaluated in order; the first row whose maxDays is not
// exceeded wins.
var impactMessages = []impactMessage{
	{0, func(expense, _ decimal.Decimal, _ int) string {
		return fmt.Sprintf("This %s expense barely changes your situation. You're safe!", FormatMoney(expense))
	}},
	{3, func(expense, _ decimal.Decimal, days int) string {
		return fmt.Sprintf("Oh no! This %s expense just cost you %d more days of debt.", FormatMoney(expense), days)
	}},
	{7, func(expense, realCost decimal.Decimal, _ int) string {
		return fmt.Sprintf("Look: %s turned into %s with interest. That's another week paying the bank!",
			FormatMoney(expense), FormatMoney(realCost))
	}},
	{30, func(_, realCost decimal.Decimal, days int) string {
		return fmt.Sprintf("Whoa! This expense set you back almost %d days. Real cost: %s. Time to rethink?",
			days, FormatMoney(realCost))
	}},
	{math.MaxInt, func(expense, realCost decimal.Decimal, days int) string {
		return fmt.Sprintf("This is serious. %s became %d extra days of debt. Total cost: %s!",
			FormatMoney(expense), days, FormatMoney(realCost))
	}},
}

func impactCoachMessage(expense, realCost decimal.Decimal, days int) string {
	for _, m := range impactMessages {
		if days <= m.maxDays {
			return m.render(expense, realCost, days)
		}
	}
	return ""
}

// AnalyzeExpenseImpact prices a new expense against an active debt: it
// solves the payoff twice, with and without the expense added to the debt,
// holding payment and rate fixed.
func AnalyzeExpenseImpact(
	currentDebt, monthlyPayment, monthlyRate, newExpense decimal.Decimal,
	startDate time.Time,
) (domain.ImpactReport, error) {
	if err := mustNotBeNegative("new_expense", newExpense); err != nil {
		return domain.ImpactReport{}, err
	}

	before, err := solvePayoff(currentDebt, monthlyPayment, monthlyRate)
	if err != nil {
		return domain.ImpactReport{}, err
	}
	after, err := solvePayoff(currentDebt.Add(newExpense), monthlyPayment, monthlyRate)
	if err != nil {
		return domain.ImpactReport{}, err
	}

	monthsDelta := after.months - before.months
	daysDelta := monthsDelta * DaysPerMonth
	interestDelta := after.interest.Sub(before.interest)
	realCost := newExpense.Add(interestDelta)

	return domain.ImpactReport{
		OriginalExpense:    RoundMoney(newExpense),
		RealCost:           RoundMoney(realCost),
		AdditionalInterest: RoundMoney(interestDelta),
		AdditionalDays:     daysDelta,
		AdditionalMonths:   monthsDelta,
		OldPayoffDate:      AddMonths(startDate, before.months),
		NewPayoffDate:      AddMonths(startDate, after.months),
		CoachMessage:       impactCoachMessage(newExpense, realCost, daysDelta),
	}, nil
}
