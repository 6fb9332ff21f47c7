package engine

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"finance-coach/domain"
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrInfeasiblePayment = errors.New("payment does not cover interest")
	ErrInvalidMonthCount = errors.New("invalid month count")
	ErrUnknownScenario   = errors.New("unknown scenario variant")
)

// AmountError reports a money value that breaks a positivity requirement.
type AmountError struct {
	Field       string
	Value       decimal.Decimal
	Requirement string
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("invalid amount: %s must be %s, got %s", e.Field, e.Requirement, e.Value.String())
}

func (e *AmountError) Unwrap() error { return ErrInvalidAmount }

func mustBePositive(field string, v decimal.Decimal) error {
	if v.IsPositive() {
		return nil
	}
	return &AmountError{Field: field, Value: v, Requirement: "greater than zero"}
}

func mustNotBeNegative(field string, v decimal.Decimal) error {
	if !v.IsNegative() {
		return nil
	}
	return &AmountError{Field: field, Value: v, Requirement: "zero or greater"}
}

// InfeasiblePaymentError means the debt can never be paid off: the payment
// does not exceed the interest accrued on the starting balance.
type InfeasiblePaymentError struct {
	Payment         decimal.Decimal
	MinimumInterest decimal.Decimal
	HorizonMonths   int
}

func (e *InfeasiblePaymentError) Error() string {
	if e.HorizonMonths > 0 {
		return fmt.Sprintf("payment of %s does not pay the debt off within %d months",
			FormatMoney(e.Payment), e.HorizonMonths)
	}
	return fmt.Sprintf("payment of %s does not cover the monthly interest of %s; it must be greater than that",
		FormatMoney(e.Payment), FormatMoney(e.MinimumInterest))
}

func (e *InfeasiblePaymentError) Unwrap() error { return ErrInfeasiblePayment }

type MonthCountError struct {
	Months int
}

func (e *MonthCountError) Error() string {
	return fmt.Sprintf("invalid month count %d: must be zero or greater", e.Months)
}

func (e *MonthCountError) Unwrap() error { return ErrInvalidMonthCount }

type ScenarioError struct {
	Kind domain.ScenarioKind
}

func (e *ScenarioError) Error() string {
	return fmt.Sprintf("unknown scenario variant %q: must be one of %q, %q, %q", e.Kind,
		domain.ScenarioSellAsset, domain.ScenarioIncreasePayment, domain.ScenarioExtraIncome)
}

func (e *ScenarioError) Unwrap() error { return ErrUnknownScenario }
