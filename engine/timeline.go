package engine

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"finance-coach/domain"
)

// Monthly reference rates (Brazil, 2024 averages).
var (
	SelicMonthlyRate      = decimal.RequireFromString("0.0087")
	CreditCardMonthlyRate = decimal.RequireFromString("0.14")
	OverdraftMonthlyRate  = decimal.RequireFromString("0.08")
	PayrollLoanRate       = decimal.RequireFromString("0.018")
)

// ReferenceRates lists the rates above in a stable order.
func ReferenceRates() []domain.ReferenceRate {
	return []domain.ReferenceRate{
		{Name: "selic", MonthlyRate: SelicMonthlyRate, Description: "base rate, about 10.75% a year"},
		{Name: "credit_card", MonthlyRate: CreditCardMonthlyRate, Description: "revolving credit card, about 400% a year"},
		{Name: "overdraft", MonthlyRate: OverdraftMonthlyRate, Description: "overdraft, about 150% a year"},
		{Name: "payroll_loan", MonthlyRate: PayrollLoanRate, Description: "payroll-deducted loan, about 24% a year"},
	}
}

// FreedomTimeline projects the payoff starting at now and adds the days
// left and, when originalDebt is positive, the share already paid off.
func FreedomTimeline(
	debt, payment, monthlyRate, originalDebt decimal.Decimal,
	now time.Time,
) (domain.FreedomTimeline, error) {
	projection, err := ComputePayoffProjection(debt, payment, monthlyRate, now)
	if err != nil {
		return domain.FreedomTimeline{}, err
	}

	days := int(math.Round(projection.PayoffDate.Sub(now).Hours() / 24))
	if days < 0 {
		days = 0
	}

	timeline := domain.FreedomTimeline{Projection: projection, DaysRemaining: days}
	if originalDebt.IsPositive() {
		progress := originalDebt.Sub(debt).Div(originalDebt).Mul(hundred).Round(1)
		timeline.ProgressPercent = &progress
	}
	return timeline, nil
}

// SummarizeCashFlow totals a history by kind and by expense category.
func SummarizeCashFlow(history []domain.Transaction) domain.CashFlowSummary {
	summary := domain.CashFlowSummary{
		TotalIncome:  decimal.Zero,
		TotalExpense: decimal.Zero,
		ByCategory:   map[string]decimal.Decimal{},
	}
	for _, t := range history {
		amount := t.Amount.Abs()
		switch t.Kind {
		case domain.TransactionIncome:
			summary.TotalIncome = summary.TotalIncome.Add(amount)
		case domain.TransactionExpense:
			summary.TotalExpense = summary.TotalExpense.Add(amount)
			summary.ByCategory[t.Category] = summary.ByCategory[t.Category].Add(amount)
		}
	}

	summary.Net = RoundMoney(summary.TotalIncome.Sub(summary.TotalExpense))
	summary.TotalIncome = RoundMoney(summary.TotalIncome)
	summary.TotalExpense = RoundMoney(summary.TotalExpense)
	for k, v := range summary.ByCategory {
		summary.ByCategory[k] = RoundMoney(v)
	}
	summary.Status = statusFor(summary.Net)
	return summary
}

func statusFor(balance decimal.Decimal) string {
	if balance.IsNegative() {
		return "red"
	}
	return "green"
}

// AnalyzeTransaction builds the context the chat path needs for a single
// transaction. The impact is attached only for expenses against an active
// debt with a positive payment; an unsolvable impact is left out.
func AnalyzeTransaction(
	amount decimal.Decimal,
	kind domain.TransactionKind,
	balance, debt, payment, monthlyRate decimal.Decimal,
	now time.Time,
) domain.TransactionAnalysis {
	analysis := domain.TransactionAnalysis{
		Amount:         amount,
		Kind:           kind,
		CurrentBalance: balance,
		Status:         statusFor(balance),
		HasDebt:        debt.IsPositive(),
	}
	if kind != domain.TransactionExpense || !debt.IsPositive() || !payment.IsPositive() {
		return analysis
	}
	impact, err := AnalyzeExpenseImpact(debt, payment, monthlyRate, amount.Abs(), now)
	if err == nil {
		analysis.Impact = &impact
	}
	return analysis
}
