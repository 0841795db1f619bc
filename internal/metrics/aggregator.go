// Package metrics derives the financial snapshot of a user from the stored
// records: totals, budget vs actual, savings progress and the health score.
package metrics

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/Dan9191/cashcompass/internal/models"
	"github.com/shopspring/decimal"
)

// MonthLayout is the layout of FinancialSnapshot.Month
const MonthLayout = "2006-01"

var hundred = decimal.NewFromInt(100)

// Store is the record store read by the aggregator
type Store interface {
	ListSavingsGoals(ctx context.Context, userID int64) ([]models.SavingsGoal, error)
	ListDebts(ctx context.Context, userID int64) ([]models.Debt, error)
	TotalIncome(ctx context.Context, userID int64) (decimal.Decimal, error)
	TotalExpenses(ctx context.Context, userID int64) (decimal.Decimal, error)
	BudgetByCategory(ctx context.Context, userID int64, month time.Time) (map[string]decimal.Decimal, error)
	SpendingByCategory(ctx context.Context, userID int64, month time.Time) (map[string]decimal.Decimal, error)
	CountExpenseMonths(ctx context.Context, userID int64) (int, error)
}

// Ledger is the raw data a snapshot is computed from
type Ledger struct {
	Month         time.Time
	Goals         []models.SavingsGoal
	Debts         []models.Debt
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Budgeted      map[string]decimal.Decimal
	Spent         map[string]decimal.Decimal
	ExpenseMonths int
}

// Aggregator computes financial snapshots
type Aggregator struct {
	store  Store
	policy Policy
	now    func() time.Time
}

// NewAggregator initializes a new aggregator
func NewAggregator(store Store, policy Policy, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{store: store, policy: policy, now: now}
}

// Snapshot reads the user's records and computes the current snapshot.
// Store errors are returned unchanged.
func (a *Aggregator) Snapshot(ctx context.Context, userID int64) (*models.FinancialSnapshot, error) {
	ledger, err := a.Load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Compute(ledger, a.policy), nil
}

// Load fetches everything Compute needs for the user
func (a *Aggregator) Load(ctx context.Context, userID int64) (Ledger, error) {
	l := Ledger{Month: StartOfMonth(a.now())}

	var err error
	if l.Goals, err = a.store.ListSavingsGoals(ctx, userID); err != nil {
		return Ledger{}, err
	}
	if l.TotalIncome, err = a.store.TotalIncome(ctx, userID); err != nil {
		return Ledger{}, err
	}
	if l.TotalExpenses, err = a.store.TotalExpenses(ctx, userID); err != nil {
		return Ledger{}, err
	}
	if l.Debts, err = a.store.ListDebts(ctx, userID); err != nil {
		return Ledger{}, err
	}
	if l.Budgeted, err = a.store.BudgetByCategory(ctx, userID, l.Month); err != nil {
		return Ledger{}, err
	}
	if l.Spent, err = a.store.SpendingByCategory(ctx, userID, l.Month); err != nil {
		return Ledger{}, err
	}
	if l.ExpenseMonths, err = a.store.CountExpenseMonths(ctx, userID); err != nil {
		return Ledger{}, err
	}
	return l, nil
}

// Compute derives the snapshot from a ledger. It has no side effects.
func Compute(l Ledger, p Policy) *models.FinancialSnapshot {
	s := &models.FinancialSnapshot{
		Month:         l.Month.Format(MonthLayout),
		TotalIncome:   l.TotalIncome,
		TotalExpenses: l.TotalExpenses,
		CashFlow:      l.TotalIncome.Sub(l.TotalExpenses),
		Debts:         l.Debts,
	}
	if s.Debts == nil {
		s.Debts = []models.Debt{}
	}

	s.SavingsGoals = make([]models.SavingsProgress, 0, len(l.Goals))
	for _, g := range l.Goals {
		target := decimal.Zero
		if g.TargetAmount.Valid {
			target = g.TargetAmount.Decimal
		}
		s.SavingsGoals = append(s.SavingsGoals, models.SavingsProgress{
			ID:                 g.ID,
			Goal:               g.Goal,
			CurrentAmount:      g.CurrentAmount,
			TargetAmount:       target,
			ProgressPercentage: Progress(g.CurrentAmount, target),
		})
		s.TotalAssets = s.TotalAssets.Add(g.CurrentAmount)
	}

	for _, d := range l.Debts {
		s.TotalLiabilities = s.TotalLiabilities.Add(d.CurrentBalance)
	}
	s.NetWorth = s.TotalAssets.Sub(s.TotalLiabilities)

	s.BudgetVsActual = budgetVsActual(l.Budgeted, l.Spent)
	s.OverBudgetCategories = []string{}
	for _, c := range s.BudgetVsActual {
		if c.Remaining.IsNegative() {
			s.OverBudgetCategories = append(s.OverBudgetCategories, c.Category)
		}
	}
	s.TopSpendingCategories = topSpending(s.BudgetVsActual, p.TopSpendingCategories)
	s.TopSpendingCategoriesStr = strings.Join(s.TopSpendingCategories, ", ")

	// The average is rounded for display only; target and coverage use the
	// exact totals so tier boundaries are not shifted by rounding.
	if l.ExpenseMonths > 0 && l.TotalExpenses.IsPositive() {
		months := decimal.NewFromInt(int64(l.ExpenseMonths))
		s.AverageMonthlyExpenses = l.TotalExpenses.Div(months).Round(2)
		s.EmergencyFundTarget = l.TotalExpenses.Mul(decimal.NewFromInt(p.EmergencyFundMonths)).Div(months)
		s.EmergencyFundCoverage = s.TotalAssets.Mul(months).Div(l.TotalExpenses).Round(2).InexactFloat64()
	}

	s.HasData = !s.TotalIncome.IsZero() || !s.TotalExpenses.IsZero() ||
		!s.TotalAssets.IsZero() || !s.TotalLiabilities.IsZero() ||
		len(l.Goals) > 0 || len(l.Debts) > 0

	score(s, p)
	return s
}

// Progress returns current/target as a percentage capped at 100 and rounded
// to two decimals. A missing or non-positive target yields 0.
func Progress(current, target decimal.Decimal) float64 {
	if !target.IsPositive() {
		return 0
	}
	pct := current.Div(target).Mul(hundred)
	if pct.GreaterThan(hundred) {
		pct = hundred
	}
	return pct.Round(2).InexactFloat64()
}

// StartOfMonth returns midnight of the first day of t's month
func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// budgetVsActual merges budgeted and spent amounts over the union of their
// categories, ordered by category name.
func budgetVsActual(budgeted, spent map[string]decimal.Decimal) []models.CategoryBudget {
	categories := make(map[string]struct{}, len(budgeted)+len(spent))
	for c := range budgeted {
		categories[c] = struct{}{}
	}
	for c := range spent {
		categories[c] = struct{}{}
	}

	out := make([]models.CategoryBudget, 0, len(categories))
	for c := range categories {
		b, sp := budgeted[c], spent[c]
		out = append(out, models.CategoryBudget{
			Category:  c,
			Budgeted:  b,
			Spent:     sp,
			Remaining: b.Sub(sp),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// topSpending returns up to limit categories with spending, largest first.
// Ties keep category name order.
func topSpending(lines []models.CategoryBudget, limit int) []string {
	spending := make([]models.CategoryBudget, 0, len(lines))
	for _, l := range lines {
		if l.Spent.IsPositive() {
			spending = append(spending, l)
		}
	}
	sort.SliceStable(spending, func(i, j int) bool {
		return spending[i].Spent.GreaterThan(spending[j].Spent)
	})

	out := make([]string, 0, limit)
	for i := 0; i < len(spending) && i < limit; i++ {
		out = append(out, spending[i].Category)
	}
	return out
}
