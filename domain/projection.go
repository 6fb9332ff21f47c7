package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtProjection is the payoff forecast for a fixed-payment debt.
type DebtProjection struct {
	DebtTotal         decimal.Decimal `json:"debt_total"`
	MonthlyPayment    decimal.Decimal `json:"monthly_payment"`
	InterestRate      decimal.Decimal `json:"interest_rate"`
	MonthsToPayoff    int             `json:"months_to_payoff"`
	PayoffDate        time.Time       `json:"payoff_date"`
	TotalInterestPaid decimal.Decimal `json:"total_interest_paid"`
	TotalAmountPaid   decimal.Decimal `json:"total_amount_paid"`
}

// PayoffInput describes a fixed-payment debt. A nil MonthlyRate means the
// configured default rate.
type PayoffInput struct {
	DebtTotal      decimal.Decimal  `json:"debt_total"`
	MonthlyPayment decimal.Decimal  `json:"monthly_payment"`
	MonthlyRate    *decimal.Decimal `json:"monthly_rate,omitempty"`
	StartDate      *time.Time       `json:"start_date,omitempty"`
}

type GrowthInput struct {
	Principal           decimal.Decimal `json:"principal"`
	MonthlyRate         decimal.Decimal `json:"monthly_rate"`
	Months              int             `json:"months"`
	MonthlyContribution decimal.Decimal `json:"monthly_contribution"`
}

// GrowthPoint is one month of a growth simulation.
type GrowthPoint struct {
	MonthIndex         int             `json:"month_index"`
	Balance            decimal.Decimal `json:"balance"`
	InterestThisMonth  decimal.Decimal `json:"interest_this_month"`
	CumulativeInterest decimal.Decimal `json:"cumulative_interest"`
}

// GrowthTrajectory holds the full month-by-month path; callers plot it.
type GrowthTrajectory struct {
	Principal           decimal.Decimal `json:"principal"`
	MonthlyRate         decimal.Decimal `json:"monthly_rate"`
	Months              int             `json:"months"`
	MonthlyContribution decimal.Decimal `json:"monthly_contribution"`
	FinalBalance        decimal.Decimal `json:"final_balance"`
	TotalInterest       decimal.Decimal `json:"total_interest"`
	Points              []GrowthPoint   `json:"points"`
}

// FreedomTimeline is a payoff projection seen from "now".
type FreedomTimeline struct {
	Projection      DebtProjection   `json:"projection"`
	DaysRemaining   int              `json:"days_remaining"`
	ProgressPercent *decimal.Decimal `json:"progress_percent,omitempty"`
}

type FreedomInput struct {
	PayoffInput
	OriginalDebt decimal.Decimal `json:"original_debt"`
}

// ReferenceRate is a named monthly interest rate used as a default hint.
type ReferenceRate struct {
	Name        string          `json:"name"`
	MonthlyRate decimal.Decimal `json:"monthly_rate"`
	Description string          `json:"description"`
}
