package engine

import (
	"strings"

	"github.com/shopspring/decimal"

	"finance-coach/domain"
)

// FactorSignal produces one 0-100 score factor from a transaction history.
type FactorSignal interface {
	Score(history []domain.Transaction) decimal.Decimal
}

// BaselineSignal is a factor that ignores the history and returns a fixed
// value. Consistency and balance trend use it until late-payment tracking
// and time-series data exist.
type BaselineSignal struct {
	Value decimal.Decimal
}

func (b BaselineSignal) Score([]domain.Transaction) decimal.Decimal { return b.Value }

type ScoreWeights struct {
	Consistency        decimal.Decimal
	IncomeExpenseRatio decimal.Decimal
	BalanceTrend       decimal.Decimal
	SpendingDiscipline decimal.Decimal
}

// ScorePolicy holds every tunable of the behavior score. The zero value is
// not usable; start from DefaultScorePolicy.
type ScorePolicy struct {
	Weights                 ScoreWeights
	Consistency             FactorSignal
	BalanceTrend            FactorSignal
	DiscretionaryCategories []string
}

var DefaultDiscretionaryCategories = []string{"delivery", "streaming", "games", "luxury", "leisure"}

const (
	MaxScore     = 1000
	NeutralScore = 500
)

const neutralFactor = 50

var (
	scoreScale          = decimal.NewFromInt(10)
	noIncomeRatio       = decimal.NewFromInt(30)
	noExpenseDiscipline = decimal.NewFromInt(70)
	disciplinePenalty   = decimal.NewFromInt(200)
	fifty               = decimal.NewFromInt(50)
)

func DefaultScorePolicy() ScorePolicy {
	return ScorePolicy{
		Weights: ScoreWeights{
			Consistency:        decimal.RequireFromString("0.4"),
			IncomeExpenseRatio: decimal.RequireFromString("0.3"),
			BalanceTrend:       decimal.RequireFromString("0.2"),
			SpendingDiscipline: decimal.RequireFromString("0.1"),
		},
		Consistency:             BaselineSignal{Value: decimal.NewFromInt(100)},
		BalanceTrend:            BaselineSignal{Value: decimal.NewFromInt(60)},
		DiscretionaryCategories: DefaultDiscretionaryCategories,
	}
}

// WithDiscretionaryCategories returns a copy of p using cats; an empty list
// keeps the current one.
func (p ScorePolicy) WithDiscretionaryCategories(cats []string) ScorePolicy {
	if len(cats) == 0 {
		return p
	}
	normalized := make([]string, 0, len(cats))
	for _, c := range cats {
		if c = strings.ToLower(strings.TrimSpace(c)); c != "" {
			normalized = append(normalized, c)
		}
	}
	if len(normalized) > 0 {
		p.DiscretionaryCategories = normalized
	}
	return p
}

// ComputeBehaviorScore scores a history with the default policy.
func ComputeBehaviorScore(history []domain.Transaction) domain.ScoreReport {
	return DefaultScorePolicy().Score(history)
}

type scoreInputs struct {
	score      int
	ratio      decimal.Decimal
	discipline decimal.Decimal
}

type tipRule struct {
	applies func(in scoreInputs) bool
	tip     string
}

// Rules fire independently; several tips can be returned together.
var tipRules = []tipRule{
	{func(in scoreInputs) bool { return in.score < 500 }, "Focus on paying off your debts! Cut non-essential spending."},
	{func(in scoreInputs) bool { return in.ratio.LessThan(fifty) }, "Your expenses are higher than your income. Time to adjust!"},
	{func(in scoreInputs) bool { return in.discipline.LessThan(fifty) }, "Lots of leisure spending. How about a monthly limit of R$100?"},
	{func(in scoreInputs) bool { return in.score >= 700 }, "Nice work! Keep it up and grow your emergency fund."},
}

const (
	onboardingTip    = "Start logging your transactions to get a more accurate score!"
	encouragementTip = "You're on the right track! Keep it consistent."
)

// Score computes the 0-1000 behavior score for history under p.
func (p ScorePolicy) Score(history []domain.Transaction) domain.ScoreReport {
	if len(history) == 0 {
		return domain.ScoreReport{
			Score: NeutralScore,
			Tier:  domain.TierBeginner,
			Factors: domain.FactorBreakdown{
				Consistency:        neutralFactor,
				IncomeExpenseRatio: neutralFactor,
				BalanceTrend:       neutralFactor,
				SpendingDiscipline: neutralFactor,
			},
			Tips: []string{onboardingTip},
		}
	}

	discretionary := make(map[string]struct{}, len(p.DiscretionaryCategories))
	for _, c := range p.DiscretionaryCategories {
		discretionary[c] = struct{}{}
	}

	income, expense, discretionarySpend := decimal.Zero, decimal.Zero, decimal.Zero
	for _, t := range history {
		amount := t.Amount.Abs()
		switch t.Kind {
		case domain.TransactionIncome:
			income = income.Add(amount)
		case domain.TransactionExpense:
			expense = expense.Add(amount)
			if _, ok := discretionary[strings.ToLower(strings.TrimSpace(t.Category))]; ok {
				discretionarySpend = discretionarySpend.Add(amount)
			}
		}
	}

	consistency := clamp(p.Consistency.Score(history), decimal.Zero, hundred)
	trend := clamp(p.BalanceTrend.Score(history), decimal.Zero, hundred)

	ratio := noIncomeRatio
	if income.IsPositive() {
		r := income.Sub(expense).Div(income)
		ratio = clamp(fifty.Add(r.Mul(fifty)), decimal.Zero, hundred)
	}

	discipline := noExpenseDiscipline
	if expense.IsPositive() {
		fraction := discretionarySpend.Div(expense)
		discipline = clamp(hundred.Sub(fraction.Mul(disciplinePenalty)), decimal.Zero, hundred)
	}

	weighted := consistency.Mul(p.Weights.Consistency).
		Add(ratio.Mul(p.Weights.IncomeExpenseRatio)).
		Add(trend.Mul(p.Weights.BalanceTrend)).
		Add(discipline.Mul(p.Weights.SpendingDiscipline))
	score := int(clamp(weighted.Mul(scoreScale).Round(0), decimal.Zero, decimal.NewFromInt(MaxScore)).IntPart())

	return domain.ScoreReport{
		Score: score,
		Tier:  tierFor(score),
		Factors: domain.FactorBreakdown{
			Consistency:        int(consistency.Round(0).IntPart()),
			IncomeExpenseRatio: int(ratio.Round(0).IntPart()),
			BalanceTrend:       int(trend.Round(0).IntPart()),
			SpendingDiscipline: int(discipline.Round(0).IntPart()),
		},
		Tips: tipsFor(scoreInputs{score: score, ratio: ratio, discipline: discipline}),
	}
}

func tierFor(score int) domain.Tier {
	switch {
	case score >= 800:
		return domain.TierExcellent
	case score >= 650:
		return domain.TierGood
	case score >= 500:
		return domain.TierRegular
	case score >= 350:
		return domain.TierAttention
	default:
		return domain.TierCritical
	}
}

func tipsFor(in scoreInputs) []string {
	var tips []string
	for _, r := range tipRules {
		if r.applies(in) {
			tips = append(tips, r.tip)
		}
	}
	if len(tips) == 0 {
		tips = append(tips, encouragementTip)
	}
	return tips
}
