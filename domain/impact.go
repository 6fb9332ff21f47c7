package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ImpactInput struct {
	CurrentDebt    decimal.Decimal  `json:"current_debt"`
	MonthlyPayment decimal.Decimal  `json:"monthly_payment"`
	MonthlyRate    *decimal.Decimal `json:"monthly_rate,omitempty"`
	NewExpense     decimal.Decimal  `json:"new_expense"`
}

// ImpactReport quantifies what an extra expense costs against an active debt.
type ImpactReport struct {
	OriginalExpense    decimal.Decimal `json:"original_expense"`
	RealCost           decimal.Decimal `json:"real_cost"`
	AdditionalInterest decimal.Decimal `json:"additional_interest"`
	AdditionalDays     int             `json:"additional_days"`
	AdditionalMonths   int             `json:"additional_months"`
	OldPayoffDate      time.Time       `json:"old_payoff_date"`
	NewPayoffDate      time.Time       `json:"new_payoff_date"`
	CoachMessage       string          `json:"coach_message"`
}

// TransactionAnalysis is the financial context handed to the chat pipeline.
type TransactionAnalysis struct {
	Amount         decimal.Decimal `json:"amount"`
	Kind           TransactionKind `json:"kind"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	Status         string          `json:"status"`
	HasDebt        bool            `json:"has_debt"`
	Impact         *ImpactReport   `json:"impact,omitempty"`
}
