package service

import (
	"context"
	"sort"
	"time"

	"github.com/Dan9191/cashcompass/internal/models"
	"github.com/Dan9191/cashcompass/internal/repository"
	"github.com/shopspring/decimal"
)

// fakeRepo keeps records in memory. Methods a test does not need fall through
// to the nil embedded interface and panic.
type fakeRepo struct {
	Repository

	nextID    int64
	users     map[int64]*models.User
	income    []models.Income
	expenses  []models.Expense
	budgets   []models.Budget
	goals     []models.SavingsGoal
	debts     []models.Debt
	dismissed map[int64]map[string]time.Time
	settings  map[int64]map[string]string

	storeErr      error
	createUserErr error
	summaryMonth  time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:     map[int64]*models.User{},
		dismissed: map[int64]map[string]time.Time{},
		settings:  map[int64]map[string]string{},
	}
}

func (f *fakeRepo) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeRepo) ListSavingsGoals(_ context.Context, userID int64) ([]models.SavingsGoal, error) {
	if f.storeErr != nil {
		return nil, f.storeErr
	}
	var out []models.SavingsGoal
	for _, g := range f.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListDebts(_ context.Context, userID int64) ([]models.Debt, error) {
	var out []models.Debt
	for _, d := range f.debts {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeRepo) TotalIncome(_ context.Context, userID int64) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, i := range f.income {
		if i.UserID == userID {
			total = total.Add(i.Amount)
		}
	}
	return total, nil
}

func (f *fakeRepo) TotalExpenses(_ context.Context, userID int64) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, e := range f.expenses {
		if e.UserID == userID {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}

func (f *fakeRepo) BudgetByCategory(_ context.Context, userID int64, month time.Time) (map[string]decimal.Decimal, error) {
	out := map[string]decimal.Decimal{}
	for _, b := range f.budgets {
		if b.UserID == userID && b.Month.Format("2006-01") == month.Format("2006-01") {
			out[b.Category] = out[b.Category].Add(b.Amount)
		}
	}
	return out, nil
}

func (f *fakeRepo) SpendingByCategory(_ context.Context, userID int64, month time.Time) (map[string]decimal.Decimal, error) {
	out := map[string]decimal.Decimal{}
	for _, e := range f.expenses {
		if e.UserID == userID && e.Date.Format("2006-01") == month.Format("2006-01") {
			out[e.Category] = out[e.Category].Add(e.Amount)
		}
	}
	return out, nil
}

func (f *fakeRepo) CountExpenseMonths(_ context.Context, userID int64) (int, error) {
	months := map[string]struct{}{}
	for _, e := range f.expenses {
		if e.UserID == userID {
			months[e.Date.Format("2006-01")] = struct{}{}
		}
	}
	return len(months), nil
}

func (f *fakeRepo) DismissedAlerts(_ context.Context, userID int64) ([]models.DismissedAlert, error) {
	var out []models.DismissedAlert
	for hash, at := range f.dismissed[userID] {
		out = append(out, models.DismissedAlert{UserID: userID, AlertHash: hash, DismissedAt: at})
	}
	return out, nil
}

func (f *fakeRepo) DismissAlert(_ context.Context, userID int64, alertHash string) error {
	if f.dismissed[userID] == nil {
		f.dismissed[userID] = map[string]time.Time{}
	}
	if _, ok := f.dismissed[userID][alertHash]; !ok {
		f.dismissed[userID][alertHash] = time.Now()
	}
	return nil
}

func (f *fakeRepo) ResetAlerts(_ context.Context, userID int64) error {
	delete(f.dismissed, userID)
	delete(f.settings, userID)
	return nil
}

func (f *fakeRepo) CreateUser(_ context.Context, user *models.User) error {
	if f.createUserErr != nil {
		return f.createUserErr
	}
	user.ID = f.id()
	user.CreatedAt = time.Now()
	u := *user
	f.users[u.ID] = &u
	return nil
}

func (f *fakeRepo) findUser(match func(*models.User) bool) (*models.User, error) {
	for _, u := range f.users {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeRepo) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	return f.findUser(func(u *models.User) bool { return u.Email == email })
}

func (f *fakeRepo) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	return f.findUser(func(u *models.User) bool { return u.Username == username })
}

func (f *fakeRepo) FindUserByID(_ context.Context, id int64) (*models.User, error) {
	return f.findUser(func(u *models.User) bool { return u.ID == id })
}

func (f *fakeRepo) UpdatePassword(_ context.Context, userID int64, hash string) error {
	u, ok := f.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (f *fakeRepo) UpdateProfile(_ context.Context, userID int64, username, email string) error {
	u, ok := f.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	for _, other := range f.users {
		if other.ID != userID && (other.Username == username || other.Email == email) {
			return repository.ErrDuplicate
		}
	}
	u.Username, u.Email = username, email
	return nil
}

func (f *fakeRepo) ListSettings(_ context.Context, userID int64) ([]models.Setting, error) {
	out := []models.Setting{}
	for k, v := range f.settings[userID] {
		out = append(out, models.Setting{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (f *fakeRepo) UpsertSettings(_ context.Context, userID int64, settings []models.Setting) error {
	if f.storeErr != nil {
		return f.storeErr
	}
	if f.settings[userID] == nil {
		f.settings[userID] = map[string]string{}
	}
	for _, s := range settings {
		f.settings[userID][s.Key] = s.Value
	}
	return nil
}

func (f *fakeRepo) DeleteUser(_ context.Context, userID int64) error {
	if _, ok := f.users[userID]; !ok {
		return repository.ErrNotFound
	}
	delete(f.users, userID)
	delete(f.dismissed, userID)
	return nil
}

func (f *fakeRepo) CreateIncome(_ context.Context, i *models.Income) error {
	i.ID = f.id()
	f.income = append(f.income, *i)
	return nil
}

func (f *fakeRepo) CreateExpense(_ context.Context, e *models.Expense) error {
	e.ID = f.id()
	f.expenses = append(f.expenses, *e)
	return nil
}

func (f *fakeRepo) UpdateExpense(_ context.Context, e *models.Expense) error {
	for i := range f.expenses {
		if f.expenses[i].ID == e.ID && f.expenses[i].UserID == e.UserID {
			f.expenses[i] = *e
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeRepo) CreateBudget(_ context.Context, b *models.Budget) error {
	b.ID = f.id()
	f.budgets = append(f.budgets, *b)
	return nil
}

func (f *fakeRepo) CreateSavingsGoal(_ context.Context, g *models.SavingsGoal) error {
	g.ID = f.id()
	f.goals = append(f.goals, *g)
	return nil
}

func (f *fakeRepo) CreateDebt(_ context.Context, d *models.Debt) error {
	d.ID = f.id()
	f.debts = append(f.debts, *d)
	return nil
}

func (f *fakeRepo) MonthlySummary(_ context.Context, _ int64, month time.Time) (*models.MonthlySummary, error) {
	f.summaryMonth = month
	return &models.MonthlySummary{Month: month.Format("2006-01")}, nil
}

func (f *fakeRepo) ListUsersWithDueDebts(_ context.Context, from, to time.Time) ([]models.User, error) {
	seen := map[int64]bool{}
	var out []models.User
	for _, d := range f.debts {
		due, err := time.Parse(models.DueDateLayout, d.DueDate)
		if err != nil || due.Before(from) || due.After(to) || seen[d.UserID] {
			continue
		}
		if u, ok := f.users[d.UserID]; ok {
			seen[d.UserID] = true
			out = append(out, *u)
		}
	}
	return out, nil
}
