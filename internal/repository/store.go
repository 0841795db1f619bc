package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Dan9191/cashcompass/internal/models"
	"github.com/shopspring/decimal"
)

// ListSavingsGoals returns the user's savings goals
func (r *Repository) ListSavingsGoals(ctx context.Context, userID int64) ([]models.SavingsGoal, error) {
	query := `
		SELECT id, user_id, goal, current_amount, target_amount
		FROM savings
		WHERE user_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list savings goals: %w", err)
	}
	defer rows.Close()

	goals := []models.SavingsGoal{}
	for rows.Next() {
		var g models.SavingsGoal
		if err := rows.Scan(&g.ID, &g.UserID, &g.Goal, &g.CurrentAmount, &g.TargetAmount); err != nil {
			return nil, fmt.Errorf("failed to scan savings goal: %w", err)
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list savings goals: %w", err)
	}
	return goals, nil
}

// ListDebts returns the user's debts
func (r *Repository) ListDebts(ctx context.Context, userID int64) ([]models.Debt, error) {
	query := `
		SELECT id, user_id, debt_name, debt_type, current_balance, due_date, interest_rate, lender, notes
		FROM debt
		WHERE user_id = $1
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	defer rows.Close()

	debts := []models.Debt{}
	for rows.Next() {
		var (
			d   models.Debt
			due sql.NullTime
		)
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &d.Type, &d.CurrentBalance, &due,
			&d.InterestRate, &d.Lender, &d.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan debt: %w", err)
		}
		if due.Valid {
			d.DueDate = due.Time.Format(models.DueDateLayout)
		}
		debts = append(debts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list debts: %w", err)
	}
	return debts, nil
}

// TotalIncome sums all income ever recorded by the user
func (r *Repository) TotalIncome(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(amount), 0) FROM income WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum income: %w", err)
	}
	return total, nil
}

// TotalExpenses sums all expenses ever recorded by the user
func (r *Repository) TotalExpenses(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(amount), 0) FROM expenses WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum expenses: %w", err)
	}
	return total, nil
}

// BudgetByCategory sums the budgets of the month starting at month, per category
func (r *Repository) BudgetByCategory(ctx context.Context, userID int64, month time.Time) (map[string]decimal.Decimal, error) {
	query := `
		SELECT category, SUM(amount)
		FROM budget
		WHERE user_id = $1 AND month >= $2 AND month < $3
		GROUP BY category`
	return r.sumByCategory(ctx, query, userID, month, "budgets")
}

// SpendingByCategory sums the expenses of the month starting at month, per category
func (r *Repository) SpendingByCategory(ctx context.Context, userID int64, month time.Time) (map[string]decimal.Decimal, error) {
	query := `
		SELECT category, SUM(amount)
		FROM expenses
		WHERE user_id = $1 AND date >= $2 AND date < $3
		GROUP BY category`
	return r.sumByCategory(ctx, query, userID, month, "expenses")
}

func (r *Repository) sumByCategory(ctx context.Context, query string, userID int64, month time.Time, what string) (map[string]decimal.Decimal, error) {
	rows, err := r.db.QueryContext(ctx, query, userID, month, month.AddDate(0, 1, 0))
	if err != nil {
		return nil, fmt.Errorf("failed to sum %s by category: %w", what, err)
	}
	defer rows.Close()

	out := map[string]decimal.Decimal{}
	for rows.Next() {
		var (
			category string
			amount   decimal.Decimal
		)
		if err := rows.Scan(&category, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan %s by category: %w", what, err)
		}
		out[category] = amount
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to sum %s by category: %w", what, err)
	}
	return out, nil
}

// CountExpenseMonths counts the distinct calendar months with at least one expense
func (r *Repository) CountExpenseMonths(ctx context.Context, userID int64) (int, error) {
	var n int
	query := `SELECT COUNT(DISTINCT date_trunc('month', date)) FROM expenses WHERE user_id = $1`
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count expense months: %w", err)
	}
	return n, nil
}
