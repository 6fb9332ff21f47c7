package domain

import "github.com/shopspring/decimal"

type ScenarioKind string

const (
	ScenarioSellAsset       ScenarioKind = "sell_asset"
	ScenarioIncreasePayment ScenarioKind = "increase_payment"
	ScenarioExtraIncome     ScenarioKind = "extra_income"
)

// Scenario is a what-if perturbation applied to the debt or the payment.
type Scenario struct {
	Kind   ScenarioKind    `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

type ScenarioInput struct {
	CurrentDebt    decimal.Decimal  `json:"current_debt"`
	CurrentPayment decimal.Decimal  `json:"current_payment"`
	MonthlyRate    *decimal.Decimal `json:"monthly_rate,omitempty"`
	Scenario       Scenario         `json:"scenario"`
}

// ScenarioResult compares the baseline with the perturbed projection.
// Simulated is nil when the scenario pays the debt off entirely.
type ScenarioResult struct {
	Scenario      Scenario        `json:"scenario"`
	Baseline      DebtProjection  `json:"baseline"`
	Simulated     *DebtProjection `json:"simulated"`
	MonthsSaved   int             `json:"months_saved"`
	InterestSaved decimal.Decimal `json:"interest_saved"`
	Message       string          `json:"message"`
}
