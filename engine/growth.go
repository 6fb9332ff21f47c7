package engine

import (
	"github.com/shopspring/decimal"

	"finance-coach/domain"
)

// ProjectGrowth simulates compound interest with an optional monthly
// contribution and returns every month of the path, not only the endpoint.
// Each month: interest = balance*rate, balance += interest + contribution.
func ProjectGrowth(
	principal, monthlyRate decimal.Decimal,
	months int,
	monthlyContribution decimal.Decimal,
) (domain.GrowthTrajectory, error) {
	if months < 0 {
		return domain.GrowthTrajectory{}, &MonthCountError{Months: months}
	}

	balance := principal
	cumulative := decimal.Zero
	points := make([]domain.GrowthPoint, 0, months)

	for month := 1; month <= months; month++ {
		interest := balance.Mul(monthlyRate)
		balance = balance.Add(interest).Add(monthlyContribution)
		cumulative = cumulative.Add(interest)

		points = append(points, domain.GrowthPoint{
			MonthIndex:         month,
			Balance:            RoundMoney(balance),
			InterestThisMonth:  RoundMoney(interest),
			CumulativeInterest: RoundMoney(cumulative),
		})
	}

	return domain.GrowthTrajectory{
		Principal:           RoundMoney(principal),
		MonthlyRate:         monthlyRate,
		Months:              months,
		MonthlyContribution: RoundMoney(monthlyContribution),
		FinalBalance:        RoundMoney(balance),
		TotalInterest:       RoundMoney(cumulative),
		Points:              points,
	}, nil
}
