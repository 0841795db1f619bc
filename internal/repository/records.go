package repository

import (
	"context"
	"fmt"

	"github.com/Dan9191/cashcompass/internal/models"
)

// ListIncome returns the user's income records, newest first
func (r *Repository) ListIncome(ctx context.Context, userID int64) ([]models.Income, error) {
	query := `
		SELECT id, user_id, source, amount, date
		FROM income
		WHERE user_id = $1
		ORDER BY date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list income: %w", err)
	}
	defer rows.Close()

	items := []models.Income{}
	for rows.Next() {
		var i models.Income
		if err := rows.Scan(&i.ID, &i.UserID, &i.Source, &i.Amount, &i.Date); err != nil {
			return nil, fmt.Errorf("failed to scan income: %w", err)
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list income: %w", err)
	}
	return items, nil
}

// CreateIncome creates a new income record
func (r *Repository) CreateIncome(ctx context.Context, i *models.Income) error {
	query := `
		INSERT INTO income (user_id, source, amount, date)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, i.UserID, i.Source, i.Amount, i.Date).Scan(&i.ID); err != nil {
		return fmt.Errorf("failed to create income: %w", err)
	}
	return nil
}

// UpdateIncome updates an income record owned by i.UserID
func (r *Repository) UpdateIncome(ctx context.Context, i *models.Income) error {
	query := `
		UPDATE income SET source = $1, amount = $2, date = $3
		WHERE id = $4 AND user_id = $5`
	res, err := r.db.ExecContext(ctx, query, i.Source, i.Amount, i.Date, i.ID, i.UserID)
	if err != nil {
		return fmt.Errorf("failed to update income: %w", err)
	}
	return affectedOne(res)
}

// DeleteIncome deletes an income record owned by the user
func (r *Repository) DeleteIncome(ctx context.Context, userID, id int64) error {
	return r.deleteOwned(ctx, "income", userID, id)
}

// ListExpenses returns the user's expenses, newest first
func (r *Repository) ListExpenses(ctx context.Context, userID int64) ([]models.Expense, error) {
	query := `
		SELECT id, user_id, category, amount, date
		FROM expenses
		WHERE user_id = $1
		ORDER BY date DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	items := []models.Expense{}
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.UserID, &e.Category, &e.Amount, &e.Date); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return items, nil
}

// CreateExpense creates a new expense
func (r *Repository) CreateExpense(ctx context.Context, e *models.Expense) error {
	query := `
		INSERT INTO expenses (user_id, category, amount, date)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, e.UserID, e.Category, e.Amount, e.Date).Scan(&e.ID); err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}
	return nil
}

// UpdateExpense updates an expense owned by e.UserID
func (r *Repository) UpdateExpense(ctx context.Context, e *models.Expense) error {
	query := `
		UPDATE expenses SET category = $1, amount = $2, date = $3
		WHERE id = $4 AND user_id = $5`
	res, err := r.db.ExecContext(ctx, query, e.Category, e.Amount, e.Date, e.ID, e.UserID)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	return affectedOne(res)
}

// DeleteExpense deletes an expense owned by the user
func (r *Repository) DeleteExpense(ctx context.Context, userID, id int64) error {
	return r.deleteOwned(ctx, "expenses", userID, id)
}

// ListBudgets returns the user's budgets, latest month first
func (r *Repository) ListBudgets(ctx context.Context, userID int64) ([]models.Budget, error) {
	query := `
		SELECT id, user_id, category, amount, month
		FROM budget
		WHERE user_id = $1
		ORDER BY month DESC, category`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	defer rows.Close()

	items := []models.Budget{}
	for rows.Next() {
		var b models.Budget
		if err := rows.Scan(&b.ID, &b.UserID, &b.Category, &b.Amount, &b.Month); err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return items, nil
}

// CreateBudget creates a new budget
func (r *Repository) CreateBudget(ctx context.Context, b *models.Budget) error {
	query := `
		INSERT INTO budget (user_id, category, amount, month)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, b.UserID, b.Category, b.Amount, b.Month).Scan(&b.ID); err != nil {
		return fmt.Errorf("failed to create budget: %w", err)
	}
	return nil
}

// UpdateBudget updates a budget owned by b.UserID
func (r *Repository) UpdateBudget(ctx context.Context, b *models.Budget) error {
	query := `
		UPDATE budget SET category = $1, amount = $2, month = $3
		WHERE id = $4 AND user_id = $5`
	res, err := r.db.ExecContext(ctx, query, b.Category, b.Amount, b.Month, b.ID, b.UserID)
	if err != nil {
		return fmt.Errorf("failed to update budget: %w", err)
	}
	return affectedOne(res)
}

// DeleteBudget deletes a budget owned by the user
func (r *Repository) DeleteBudget(ctx context.Context, userID, id int64) error {
	return r.deleteOwned(ctx, "budget", userID, id)
}

// CreateSavingsGoal creates a new savings goal
func (r *Repository) CreateSavingsGoal(ctx context.Context, g *models.SavingsGoal) error {
	query := `
		INSERT INTO savings (user_id, goal, current_amount, target_amount)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, g.UserID, g.Goal, g.CurrentAmount, g.TargetAmount).Scan(&g.ID)
	if err != nil {
		return fmt.Errorf("failed to create savings goal: %w", err)
	}
	return nil
}

// UpdateSavingsGoal updates a savings goal owned by g.UserID
func (r *Repository) UpdateSavingsGoal(ctx context.Context, g *models.SavingsGoal) error {
	query := `
		UPDATE savings SET goal = $1, current_amount = $2, target_amount = $3
		WHERE id = $4 AND user_id = $5`
	res, err := r.db.ExecContext(ctx, query, g.Goal, g.CurrentAmount, g.TargetAmount, g.ID, g.UserID)
	if err != nil {
		return fmt.Errorf("failed to update savings goal: %w", err)
	}
	return affectedOne(res)
}

// DeleteSavingsGoal deletes a savings goal owned by the user
func (r *Repository) DeleteSavingsGoal(ctx context.Context, userID, id int64) error {
	return r.deleteOwned(ctx, "savings", userID, id)
}

// CreateDebt creates a new debt
func (r *Repository) CreateDebt(ctx context.Context, d *models.Debt) error {
	query := `
		INSERT INTO debt (user_id, debt_name, debt_type, current_balance, due_date, interest_rate, lender, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, d.UserID, d.Name, d.Type, d.CurrentBalance,
		nullDate(d.DueDate), d.InterestRate, d.Lender, d.Notes).Scan(&d.ID)
	if err != nil {
		return fmt.Errorf("failed to create debt: %w", err)
	}
	return nil
}

// UpdateDebt updates a debt owned by d.UserID
func (r *Repository) UpdateDebt(ctx context.Context, d *models.Debt) error {
	query := `
		UPDATE debt SET debt_name = $1, debt_type = $2, current_balance = $3, due_date = $4,
			interest_rate = $5, lender = $6, notes = $7
		WHERE id = $8 AND user_id = $9`
	res, err := r.db.ExecContext(ctx, query, d.Name, d.Type, d.CurrentBalance, nullDate(d.DueDate),
		d.InterestRate, d.Lender, d.Notes, d.ID, d.UserID)
	if err != nil {
		return fmt.Errorf("failed to update debt: %w", err)
	}
	return affectedOne(res)
}

// DeleteDebt deletes a debt owned by the user
func (r *Repository) DeleteDebt(ctx context.Context, userID, id int64) error {
	return r.deleteOwned(ctx, "debt", userID, id)
}

func (r *Repository) deleteOwned(ctx context.Context, table string, userID, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	return affectedOne(res)
}

// nullDate stores an empty due date as NULL
func nullDate(s string) any {
	if s == "" {
		return nil
	}
	return s
}
