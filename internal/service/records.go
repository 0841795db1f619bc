package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dan9191/cashcompass/internal/metrics"
	"github.com/Dan9191/cashcompass/internal/models"
	"github.com/shopspring/decimal"
)

// IncomeInput is the editable part of an income record
type IncomeInput struct {
	Source string          `json:"source"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"` // Format: YYYY-MM-DD
}

// ExpenseInput is the editable part of an expense
type ExpenseInput struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Date     string          `json:"date"` // Format: YYYY-MM-DD
}

// BudgetInput is the editable part of a budget
type BudgetInput struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Month    string          `json:"month"` // Format: YYYY-MM or YYYY-MM-DD
}

// SavingsInput is the editable part of a savings goal
type SavingsInput struct {
	Goal          string              `json:"goal"`
	CurrentAmount decimal.Decimal     `json:"current_amount"`
	TargetAmount  decimal.NullDecimal `json:"target_amount"`
}

// DebtInput is the editable part of a debt
type DebtInput struct {
	Name           string              `json:"debt_name"`
	Type           string              `json:"debt_type"`
	CurrentBalance decimal.Decimal     `json:"current_balance"`
	DueDate        string              `json:"due_date"` // Format: YYYY-MM-DD, optional
	InterestRate   decimal.NullDecimal `json:"interest_rate"`
	Lender         string              `json:"lender"`
	Notes          string              `json:"notes"`
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

func required(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalid("%s is required", field)
	}
	return value, nil
}

// maxAmount is the first value that no longer fits a NUMERIC(14,2) column
var maxAmount = decimal.New(1, 12)

// checkAmount validates a money field against the storage column: sign, at
// most two decimal places and the column's range.
func checkAmount(field string, amount decimal.Decimal, allowZero bool) error {
	switch {
	case amount.IsNegative():
		return invalid("%s must not be negative", field)
	case amount.IsZero() && !allowZero:
		return invalid("%s must be positive", field)
	case !amount.Equal(amount.Round(2)):
		return invalid("%s must have at most 2 decimal places", field)
	case amount.GreaterThanOrEqual(maxAmount):
		return invalid("%s is too large", field)
	}
	return nil
}

func parseDay(field, value string) (time.Time, error) {
	t, err := time.Parse(models.DueDateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, invalid("%s must be YYYY-MM-DD", field)
	}
	return t, nil
}

func parseMonth(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(metrics.MonthLayout, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(models.DueDateLayout, value)
	if err != nil {
		return time.Time{}, invalid("month must be YYYY-MM")
	}
	return metrics.StartOfMonth(t), nil
}

func (in IncomeInput) toModel(userID, id int64) (*models.Income, error) {
	source, err := required("source", in.Source)
	if err != nil {
		return nil, err
	}
	if err := checkAmount("amount", in.Amount, true); err != nil {
		return nil, err
	}
	date, err := parseDay("date", in.Date)
	if err != nil {
		return nil, err
	}
	return &models.Income{ID: id, UserID: userID, Source: source, Amount: in.Amount, Date: date}, nil
}

func (in ExpenseInput) toModel(userID, id int64) (*models.Expense, error) {
	category, err := required("category", in.Category)
	if err != nil {
		return nil, err
	}
	if err := checkAmount("amount", in.Amount, false); err != nil {
		return nil, err
	}
	date, err := parseDay("date", in.Date)
	if err != nil {
		return nil, err
	}
	return &models.Expense{ID: id, UserID: userID, Category: category, Amount: in.Amount, Date: date}, nil
}

func (in BudgetInput) toModel(userID, id int64) (*models.Budget, error) {
	category, err := required("category", in.Category)
	if err != nil {
		return nil, err
	}
	if err := checkAmount("amount", in.Amount, false); err != nil {
		return nil, err
	}
	month, err := parseMonth(in.Month)
	if err != nil {
		return nil, err
	}
	return &models.Budget{ID: id, UserID: userID, Category: category, Amount: in.Amount, Month: month}, nil
}

func (in SavingsInput) toModel(userID, id int64) (*models.SavingsGoal, error) {
	goal, err := required("goal", in.Goal)
	if err != nil {
		return nil, err
	}
	if err := checkAmount("current_amount", in.CurrentAmount, true); err != nil {
		return nil, err
	}
	if in.TargetAmount.Valid {
		if err := checkAmount("target_amount", in.TargetAmount.Decimal, false); err != nil {
			return nil, err
		}
	}
	return &models.SavingsGoal{
		ID:            id,
		UserID:        userID,
		Goal:          goal,
		CurrentAmount: in.CurrentAmount,
		TargetAmount:  in.TargetAmount,
	}, nil
}

func (in DebtInput) toModel(userID, id int64) (*models.Debt, error) {
	name, err := required("debt_name", in.Name)
	if err != nil {
		return nil, err
	}
	debtType, err := required("debt_type", in.Type)
	if err != nil {
		return nil, err
	}
	if err := checkAmount("current_balance", in.CurrentBalance, true); err != nil {
		return nil, err
	}
	if in.InterestRate.Valid {
		rate := in.InterestRate.Decimal
		if rate.IsNegative() || !rate.Equal(rate.Round(3)) || rate.GreaterThanOrEqual(decimal.NewFromInt(1000)) {
			return nil, invalid("interest_rate must be between 0 and 999.999 with at most 3 decimal places")
		}
	}
	due := strings.TrimSpace(in.DueDate)
	if due != "" {
		if _, err := parseDay("due_date", due); err != nil {
			return nil, err
		}
	}
	return &models.Debt{
		ID:             id,
		UserID:         userID,
		Name:           name,
		Type:           debtType,
		CurrentBalance: in.CurrentBalance,
		DueDate:        due,
		InterestRate:   in.InterestRate,
		Lender:         strings.TrimSpace(in.Lender),
		Notes:          in.Notes,
	}, nil
}

// ListIncome returns the user's income records
func (s *Service) ListIncome(ctx context.Context, userID int64) ([]models.Income, error) {
	return s.repo.ListIncome(ctx, userID)
}

// CreateIncome validates and stores a new income record
func (s *Service) CreateIncome(ctx context.Context, userID int64, in IncomeInput) (*models.Income, error) {
	i, err := in.toModel(userID, 0)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateIncome(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

// UpdateIncome validates and replaces an income record
func (s *Service) UpdateIncome(ctx context.Context, userID, id int64, in IncomeInput) (*models.Income, error) {
	i, err := in.toModel(userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateIncome(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

// DeleteIncome deletes an income record
func (s *Service) DeleteIncome(ctx context.Context, userID, id int64) error {
	return s.repo.DeleteIncome(ctx, userID, id)
}

// ListExpenses returns the user's expenses
func (s *Service) ListExpenses(ctx context.Context, userID int64) ([]models.Expense, error) {
	return s.repo.ListExpenses(ctx, userID)
}

// CreateExpense validates and stores a new expense
func (s *Service) CreateExpense(ctx context.Context, userID int64, in ExpenseInput) (*models.Expense, error) {
	e, err := in.toModel(userID, 0)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateExpense(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateExpense validates and replaces an expense
func (s *Service) UpdateExpense(ctx context.Context, userID, id int64, in ExpenseInput) (*models.Expense, error) {
	e, err := in.toModel(userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateExpense(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// DeleteExpense deletes an expense
func (s *Service) DeleteExpense(ctx context.Context, userID, id int64) error {
	return s.repo.DeleteExpense(ctx, userID, id)
}

// ListBudgets returns the user's budgets
func (s *Service) ListBudgets(ctx context.Context, userID int64) ([]models.Budget, error) {
	return s.repo.ListBudgets(ctx, userID)
}

// CreateBudget validates and stores a new budget
func (s *Service) CreateBudget(ctx context.Context, userID int64, in BudgetInput) (*models.Budget, error) {
	b, err := in.toModel(userID, 0)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateBudget(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateBudget validates and replaces a budget
func (s *Service) UpdateBudget(ctx context.Context, userID, id int64, in BudgetInput) (*models.Budget, error) {
	b, err := in.toModel(userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateBudget(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBudget deletes a budget
func (s *Service) DeleteBudget(ctx context.Context, userID, id int64) error {
	return s.repo.DeleteBudget(ctx, userID, id)
}

// ListSavingsGoals returns the user's savings goals with their progress
func (s *Service) ListSavingsGoals(ctx context.Context, userID int64) ([]models.SavingsProgress, error) {
	goals, err := s.repo.ListSavingsGoals(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]models.SavingsProgress, 0, len(goals))
	for _, g := range goals {
		p := models.SavingsProgress{ID: g.ID, Goal: g.Goal, CurrentAmount: g.CurrentAmount}
		if g.TargetAmount.Valid {
			p.TargetAmount = g.TargetAmount.Decimal
		}
		p.ProgressPercentage = metrics.Progress(p.CurrentAmount, p.TargetAmount)
		out = append(out, p)
	}
	return out, nil
}

// CreateSavingsGoal validates and stores a new savings goal
func (s *Service) CreateSavingsGoal(ctx context.Context, userID int64, in SavingsInput) (*models.SavingsGoal, error) {
	g, err := in.toModel(userID, 0)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateSavingsGoal(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// UpdateSavingsGoal validates and replaces a savings goal
func (s *Service) UpdateSavingsGoal(ctx context.Context, userID, id int64, in SavingsInput) (*models.SavingsGoal, error) {
	g, err := in.toModel(userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateSavingsGoal(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

// DeleteSavingsGoal deletes a savings goal
func (s *Service) DeleteSavingsGoal(ctx context.Context, userID, id int64) error {
	return s.repo.DeleteSavingsGoal(ctx, userID, id)
}

// ListDebts returns the user's debts
func (s *Service) ListDebts(ctx context.Context, userID int64) ([]models.Debt, error) {
	return s.repo.ListDebts(ctx, userID)
}

// CreateDebt validates and stores a new debt
func (s *Service) CreateDebt(ctx context.Context, userID int64, in DebtInput) (*models.Debt, error) {
	d, err := in.toModel(userID, 0)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateDebt(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// UpdateDebt validates and replaces a debt
func (s *Service) UpdateDebt(ctx context.Context, userID, id int64, in DebtInput) (*models.Debt, error) {
	d, err := in.toModel(userID, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateDebt(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// DeleteDebt deletes a debt
func (s *Service) DeleteDebt(ctx context.Context, userID, id int64) error {
	return s.repo.DeleteDebt(ctx, userID, id)
}
