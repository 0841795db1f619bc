package metrics

import (
	"fmt"

	"github.com/Dan9191/cashcompass/internal/models"
	"github.com/Dan9191/cashcompass/internal/money"
	"github.com/shopspring/decimal"
)

// NoDataDetail is the only score detail of a user without any records
const NoDataDetail = "No financial data recorded yet. Add some data to see your score!"

// Score component names
const (
	ComponentSavingsRate   = "savings_rate"
	ComponentDebtRatio     = "debt_to_asset_ratio"
	ComponentEmergencyFund = "emergency_fund"
)

// score fills the health score, its components and details on s.
// Details are ordered: savings rate, debt ratio, emergency fund, net worth.
func score(s *models.FinancialSnapshot, p Policy) {
	s.ScoreComponents = []models.ScoreComponent{}
	if !s.HasData {
		s.HealthScore = 0
		s.ScoreDetails = []string{NoDataDetail}
		return
	}

	components := []models.ScoreComponent{
		savingsRate(s, p),
		debtRatio(s, p),
		emergencyFund(s, p),
	}

	total := 0
	s.ScoreDetails = make([]string, 0, len(components)+1)
	for _, c := range components {
		total += c.Points
		s.ScoreDetails = append(s.ScoreDetails, c.Detail)
	}
	s.ScoreDetails = append(s.ScoreDetails, fmt.Sprintf("Net Worth: %s", money.Format(s.NetWorth)))

	if total > p.MaxScore {
		total = p.MaxScore
	}
	if total < 0 {
		total = 0
	}
	s.HealthScore = total
	s.ScoreComponents = components
}

func savingsRate(s *models.FinancialSnapshot, p Policy) models.ScoreComponent {
	hasIncome := s.TotalIncome.IsPositive()
	exact := decimal.Zero
	if hasIncome {
		exact = s.TotalAssets.Mul(hundred).Div(s.TotalIncome)
	}
	points := p.SavingsPoints(exact, hasIncome)
	rate := exact.Round(2).InexactFloat64()
	return models.ScoreComponent{
		Name:      ComponentSavingsRate,
		Value:     rate,
		Points:    points,
		MaxPoints: p.SavingsPointsStrong,
		Detail:    fmt.Sprintf("Savings Rate: %.2f%% (%d points)", rate, points),
	}
}

func debtRatio(s *models.FinancialSnapshot, p Policy) models.ScoreComponent {
	c := models.ScoreComponent{Name: ComponentDebtRatio, MaxPoints: p.DebtPointsLow}
	debt := money.Format(s.TotalLiabilities)

	switch {
	case s.TotalLiabilities.IsZero() && s.TotalAssets.IsZero():
		c.Points = p.DebtPointsNoRecords
	case !s.TotalAssets.IsPositive():
		// no assets to weigh the debt against
		c.Points = p.DebtPointsHigh
		c.Unbounded = true
		c.Detail = fmt.Sprintf("Debt-to-Asset Ratio: Infinite%% (%d points) - Total Debt: %s", c.Points, debt)
		return c
	default:
		ratio := s.TotalLiabilities.Mul(hundred).Div(s.TotalAssets)
		c.Points = p.DebtPoints(ratio)
		c.Value = ratio.Round(2).InexactFloat64()
	}
	c.Detail = fmt.Sprintf("Debt-to-Asset Ratio: %.2f%% (%d points) - Total Debt: %s", c.Value, c.Points, debt)
	return c
}

func emergencyFund(s *models.FinancialSnapshot, p Policy) models.ScoreComponent {
	c := models.ScoreComponent{
		Name:      ComponentEmergencyFund,
		Value:     s.EmergencyFundCoverage,
		MaxPoints: p.EmergencyPointsFull,
	}
	if s.EmergencyFundTarget.IsPositive() {
		c.Points = p.EmergencyPoints(s.TotalAssets, s.EmergencyFundTarget)
	}
	c.Detail = fmt.Sprintf("Emergency Fund Coverage (vs %d months avg expenses %s): Current Savings: %s (%d points)",
		p.EmergencyFundMonths, money.Format(s.AverageMonthlyExpenses), money.Format(s.TotalAssets), c.Points)
	return c
}
