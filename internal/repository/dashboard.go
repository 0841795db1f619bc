package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Dan9191/cashcompass/internal/models"
	"github.com/shopspring/decimal"
)

const (
	dayLayout     = "2006-01-02"
	topNamedLimit = 3
)

// MonthlySummary collects the dashboard figures of the month starting at month.
// AvailableMonths is left for the caller.
func (r *Repository) MonthlySummary(ctx context.Context, userID int64, month time.Time) (*models.MonthlySummary, error) {
	next := month.AddDate(0, 1, 0)
	prev := month.AddDate(0, -1, 0)
	s := &models.MonthlySummary{Month: month.Format("2006-01")}

	const (
		sumIncome   = `SELECT COALESCE(SUM(amount), 0) FROM income WHERE user_id = $1 AND date >= $2 AND date < $3`
		sumExpenses = `SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE user_id = $1 AND date >= $2 AND date < $3`
		sumBudget   = `SELECT COALESCE(SUM(amount), 0) FROM budget WHERE user_id = $1 AND month >= $2 AND month < $3`
		sumSavings  = `SELECT COALESCE(SUM(current_amount), 0) FROM savings WHERE user_id = $1`
	)
	sums := []struct {
		dst   *decimal.Decimal
		what  string
		query string
		args  []any
	}{
		{&s.TotalIncome, "income", sumIncome, []any{userID, month, next}},
		{&s.TotalExpenses, "expenses", sumExpenses, []any{userID, month, next}},
		{&s.TotalBudget, "budget", sumBudget, []any{userID, month, next}},
		{&s.TotalSavings, "savings", sumSavings, []any{userID}},
		{&s.LastMonthIncome, "last month income", sumIncome, []any{userID, prev, month}},
		{&s.LastMonthExpenses, "last month expenses", sumExpenses, []any{userID, prev, month}},
	}
	for _, q := range sums {
		if err := r.db.QueryRowContext(ctx, q.query, q.args...).Scan(q.dst); err != nil {
			return nil, fmt.Errorf("failed to sum %s: %w", q.what, err)
		}
	}
	s.NetBalance = s.TotalIncome.Sub(s.TotalExpenses)
	s.LastMonthNetBalance = s.LastMonthIncome.Sub(s.LastMonthExpenses)

	var err error
	if s.TopIncomeSources, err = r.topNamed(ctx, "source", "income", userID, month, next); err != nil {
		return nil, err
	}
	if s.TopExpenseCategories, err = r.topNamed(ctx, "category", "expenses", userID, month, next); err != nil {
		return nil, err
	}
	if s.Daily, err = r.daily(ctx, userID, month, next); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *Repository) topNamed(ctx context.Context, column, table string, userID int64, from, to time.Time) ([]models.NamedAmount, error) {
	query := `
		SELECT ` + column + `, SUM(amount) AS total
		FROM ` + table + `
		WHERE user_id = $1 AND date >= $2 AND date < $3
		GROUP BY ` + column + `
		ORDER BY total DESC, ` + column + `
		LIMIT $4`
	rows, err := r.db.QueryContext(ctx, query, userID, from, to, topNamedLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list top %s: %w", table, err)
	}
	defer rows.Close()

	out := []models.NamedAmount{}
	for rows.Next() {
		var n models.NamedAmount
		if err := rows.Scan(&n.Name, &n.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan top %s: %w", table, err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list top %s: %w", table, err)
	}
	return out, nil
}

// daily returns income and expense totals for every day in [from, to)
func (r *Repository) daily(ctx context.Context, userID int64, from, to time.Time) ([]models.DailyTotals, error) {
	income, err := r.sumByDay(ctx, "income", userID, from, to)
	if err != nil {
		return nil, err
	}
	expenses, err := r.sumByDay(ctx, "expenses", userID, from, to)
	if err != nil {
		return nil, err
	}

	var out []models.DailyTotals
	for day := from; day.Before(to); day = day.AddDate(0, 0, 1) {
		key := day.Format(dayLayout)
		out = append(out, models.DailyTotals{Date: key, Income: income[key], Expenses: expenses[key]})
	}
	return out, nil
}

func (r *Repository) sumByDay(ctx context.Context, table string, userID int64, from, to time.Time) (map[string]decimal.Decimal, error) {
	query := `
		SELECT TO_CHAR(date, 'YYYY-MM-DD') AS day, SUM(amount)
		FROM ` + table + `
		WHERE user_id = $1 AND date >= $2 AND date < $3
		GROUP BY day`
	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum daily %s: %w", table, err)
	}
	defer rows.Close()

	out := map[string]decimal.Decimal{}
	for rows.Next() {
		var (
			day    string
			amount decimal.Decimal
		)
		if err := rows.Scan(&day, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan daily %s: %w", table, err)
		}
		out[day] = amount
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to sum daily %s: %w", table, err)
	}
	return out, nil
}
