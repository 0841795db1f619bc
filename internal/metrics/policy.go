package metrics

import "github.com/shopspring/decimal"

// Policy holds every threshold and point value of the financial health score.
// Percentages are expressed on a 0-100 scale.
type Policy struct {
	// Savings rate component.
	SavingsRateStrong     float64
	SavingsRateModerate   float64
	SavingsPointsStrong   int
	SavingsPointsModerate int
	SavingsPointsLow      int

	// Debt-to-asset component.
	DebtRatioLow        float64
	DebtRatioModerate   float64
	DebtPointsLow       int
	DebtPointsModerate  int
	DebtPointsHigh      int
	DebtPointsNoRecords int

	// Emergency fund component.
	EmergencyFundMonths   int64
	EmergencyFundPartial  float64
	EmergencyPointsFull   int
	EmergencyPointsHalf   int
	EmergencyPointsLow    int
	MaxScore              int
	TopSpendingCategories int
}

// DefaultPolicy is the scoring policy used by the application.
var DefaultPolicy = Policy{
	SavingsRateStrong:     20,
	SavingsRateModerate:   10,
	SavingsPointsStrong:   40,
	SavingsPointsModerate: 25,
	SavingsPointsLow:      10,

	DebtRatioLow:        30,
	DebtRatioModerate:   60,
	DebtPointsLow:       30,
	DebtPointsModerate:  15,
	DebtPointsHigh:      5,
	DebtPointsNoRecords: 30,

	EmergencyFundMonths:   3,
	EmergencyFundPartial:  0.5,
	EmergencyPointsFull:   30,
	EmergencyPointsHalf:   15,
	EmergencyPointsLow:    5,
	MaxScore:              100,
	TopSpendingCategories: 5,
}

// SavingsPoints returns the points for an unrounded savings rate in percent.
// hasIncome is false when no income was ever recorded and the rate is undefined.
func (p Policy) SavingsPoints(rate decimal.Decimal, hasIncome bool) int {
	switch {
	case !hasIncome:
		return 0
	case rate.GreaterThanOrEqual(decimal.NewFromFloat(p.SavingsRateStrong)):
		return p.SavingsPointsStrong
	case rate.GreaterThanOrEqual(decimal.NewFromFloat(p.SavingsRateModerate)):
		return p.SavingsPointsModerate
	default:
		return p.SavingsPointsLow
	}
}

// DebtPoints returns the points for an unrounded debt-to-asset ratio in percent.
func (p Policy) DebtPoints(ratio decimal.Decimal) int {
	switch {
	case ratio.LessThanOrEqual(decimal.NewFromFloat(p.DebtRatioLow)):
		return p.DebtPointsLow
	case ratio.LessThanOrEqual(decimal.NewFromFloat(p.DebtRatioModerate)):
		return p.DebtPointsModerate
	default:
		return p.DebtPointsHigh
	}
}

// EmergencyPoints returns the points for savings measured against the
// emergency fund target.
func (p Policy) EmergencyPoints(savings, target decimal.Decimal) int {
	switch {
	case savings.GreaterThanOrEqual(target):
		return p.EmergencyPointsFull
	case savings.GreaterThanOrEqual(p.PartialTarget(target)):
		return p.EmergencyPointsHalf
	default:
		return p.EmergencyPointsLow
	}
}

// PartialTarget returns the part of the emergency fund target that counts as
// a growing fund.
func (p Policy) PartialTarget(target decimal.Decimal) decimal.Decimal {
	return target.Mul(decimal.NewFromFloat(p.EmergencyFundPartial))
}
