package domain

type Tier string

const (
	TierBeginner  Tier = "Beginner"
	TierExcellent Tier = "Excellent"
	TierGood      Tier = "Good"
	TierRegular   Tier = "Regular"
	TierAttention Tier = "Attention"
	TierCritical  Tier = "Critical"
)

type FactorBreakdown struct {
	Consistency        int `json:"consistency"`
	IncomeExpenseRatio int `json:"income_expense_ratio"`
	BalanceTrend       int `json:"balance_trend"`
	SpendingDiscipline int `json:"spending_discipline"`
}

// ScoreReport is the 0-1000 behavioral score with its breakdown and tips.
type ScoreReport struct {
	Score   int             `json:"score"`
	Tier    Tier            `json:"tier"`
	Factors FactorBreakdown `json:"factors"`
	Tips    []string        `json:"tips"`
}
