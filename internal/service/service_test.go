package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Dan9191/cashcompass/internal/config"
	"github.com/Dan9191/cashcompass/internal/models"
	"github.com/Dan9191/cashcompass/internal/repository"
	"github.com/Dan9191/cashcompass/internal/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, time.October, 18, 15, 4, 5, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeMailer struct {
	to, username, link string
	calls              int
	reminders          map[string][]string
	reminderErr        error
}

func (m *fakeMailer) SendDebtReminder(to, _ string, reminders []string) error {
	if m.reminderErr != nil {
		return m.reminderErr
	}
	if m.reminders == nil {
		m.reminders = map[string][]string{}
	}
	m.reminders[to] = reminders
	return nil
}

func (m *fakeMailer) SendPasswordReset(to, username, link string, _ time.Duration) error {
	m.to, m.username, m.link = to, username, link
	m.calls++
	return nil
}

type fakeAdvisor struct {
	prompt string
	advice string
	err    error
}

func (a *fakeAdvisor) GenerateAdvice(_ context.Context, prompt string) (string, error) {
	a.prompt = prompt
	return a.advice, a.err
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret",
		TokenTTL:      time.Hour,
		ResetTokenTTL: 30 * time.Minute,
		AppBaseURL:    "http://app.local/",
	}
}

func newTestService(t *testing.T) (*Service, *fakeRepo, *fakeMailer) {
	t.Helper()
	repo := newFakeRepo()
	mailer := &fakeMailer{}
	log, _ := test.NewNullLogger()
	svc := NewService(repo, log, testConfig(), nil, mailer)
	svc.now = func() time.Time { return testNow }
	return svc, repo, mailer
}

func TestAlerts_NoData(t *testing.T) {
	svc, _, _ := newTestService(t)

	got, err := svc.Alerts(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.SeverityInfo, got[0].Severity)
	assert.Equal(t, "You have no alerts for now.", got[0].Message)
}

func TestAlerts_StoreErrorPropagates(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.storeErr = errors.New("failed to list savings goals: connection refused")

	_, err := svc.Alerts(context.Background(), 1)
	assert.ErrorIs(t, err, repo.storeErr)

	_, err = svc.FinancialSnapshot(context.Background(), 1)
	assert.ErrorIs(t, err, repo.storeErr)
}

func TestHealthyFinances(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateIncome(ctx, 1, IncomeInput{Source: "Salary", Amount: d("5000"), Date: "2026-10-01"})
	require.NoError(t, err)
	for _, day := range []string{"2026-08-03", "2026-09-03", "2026-10-03"} {
		_, err := svc.CreateExpense(ctx, 1, ExpenseInput{Category: "Rent", Amount: d("1000"), Date: day})
		require.NoError(t, err)
	}
	_, err = svc.CreateSavingsGoal(ctx, 1, SavingsInput{Goal: "Cushion", CurrentAmount: d("2000")})
	require.NoError(t, err)

	snap, err := svc.FinancialSnapshot(ctx, 1)
	require.NoError(t, err)
	require.Len(t, snap.ScoreComponents, 3)
	assert.Equal(t, 40, snap.ScoreComponents[0].Points)
	assert.Equal(t, 0.0, snap.ScoreComponents[1].Value)
	assert.Equal(t, 30, snap.ScoreComponents[1].Points)
	assert.True(t, snap.NetWorth.Equal(d("2000")))

	alerts, err := svc.Alerts(ctx, 1)
	require.NoError(t, err)
	var healthy *models.Alert
	for i := range alerts {
		if alerts[i].Severity == models.SeveritySuccess && strings.Contains(alerts[i].Message, "Excellent cash flow") {
			healthy = &alerts[i]
		}
	}
	require.NotNil(t, healthy)
}

func TestDismissAndReset(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateBudget(ctx, 1, BudgetInput{Category: "Groceries", Amount: d("200"), Month: "2026-10"})
	require.NoError(t, err)
	_, err = svc.CreateExpense(ctx, 1, ExpenseInput{Category: "Groceries", Amount: d("250"), Date: "2026-10-10"})
	require.NoError(t, err)

	before, err := svc.Alerts(ctx, 1)
	require.NoError(t, err)
	target := before[len(before)-1]

	require.NoError(t, svc.DismissAlert(ctx, 1, target.Fingerprint))
	require.NoError(t, svc.DismissAlert(ctx, 1, target.Fingerprint))

	after, err := svc.Alerts(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, after, len(before)-1)
	for _, a := range after {
		assert.NotEqual(t, target.Fingerprint, a.Fingerprint)
	}

	require.NoError(t, svc.ResetAlerts(ctx, 1))
	restored, err := svc.Alerts(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, before, restored)
}

func TestDismissAlert_RequiresHash(t *testing.T) {
	svc, _, _ := newTestService(t)
	assert.ErrorIs(t, svc.DismissAlert(context.Background(), 1, "  "), ErrAlertHashRequired)
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newTestService(t)
	svc.now = time.Now
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "secret1", "secret1")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "secret1", user.PasswordHash)

	_, err = svc.Register(ctx, "alice", "other@example.com", "secret1", "secret1")
	assert.ErrorIs(t, err, ErrUserExists)
	_, err = svc.Register(ctx, "bob", "alice@example.com", "secret1", "secret1")
	assert.ErrorIs(t, err, ErrUserExists)

	token, got, err := svc.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	id, err := utils.ParseToken("test-secret", token, utils.AudienceAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)

	_, _, err = svc.Login(ctx, "alice", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)
	tests := []struct {
		name                            string
		username, email, password, conf string
	}{
		{"no username", "", "a@b.c", "secret1", "secret1"},
		{"no email", "alice", "", "secret1", "secret1"},
		{"bad email", "alice", "not-an-email", "secret1", "secret1"},
		{"mismatch", "alice", "a@b.c", "secret1", "secret2"},
		{"short", "alice", "a@b.c", "abc", "abc"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.username, tc.email, tc.password, tc.conf)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestRegister_LostRaceReportsUserExists(t *testing.T) {
	svc, repo, _ := newTestService(t)
	repo.createUserErr = repository.ErrDuplicate

	_, err := svc.Register(context.Background(), "alice", "alice@example.com", "secret1", "secret1")
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestForgotAndResetPassword(t *testing.T) {
	svc, _, mailer := newTestService(t)
	svc.now = time.Now
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "secret1", "secret1")
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "ghost@example.com"))
	assert.Equal(t, 0, mailer.calls)

	require.NoError(t, svc.ForgotPassword(ctx, "alice@example.com"))
	require.Equal(t, 1, mailer.calls)
	assert.Equal(t, "alice@example.com", mailer.to)

	link, err := url.Parse(mailer.link)
	require.NoError(t, err)
	assert.Equal(t, "/reset_password", link.Path)
	token := link.Query().Get("token")

	// an access token cannot reset a password
	access, _, err := svc.Login(ctx, "alice", "secret1")
	require.NoError(t, err)
	assert.ErrorIs(t, svc.ResetPassword(ctx, access, "newpass", "newpass"), ErrInvalidToken)

	require.NoError(t, svc.ResetPassword(ctx, token, "newpass", "newpass"))
	_, _, err = svc.Login(ctx, "alice", "newpass")
	require.NoError(t, err)
}

func TestChangePasswordAndDeleteAccount(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "alice", "alice@example.com", "secret1", "secret1")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(ctx, user.ID, "wrong", "newpass", "newpass"), ErrInvalidCredentials)
	assert.ErrorIs(t, svc.ChangePassword(ctx, user.ID, "secret1", "newpass", "other"), ErrValidation)
	require.NoError(t, svc.ChangePassword(ctx, user.ID, "secret1", "newpass", "newpass"))

	assert.ErrorIs(t, svc.DeleteAccount(ctx, user.ID, "secret1"), ErrInvalidCredentials)
	require.NoError(t, svc.DeleteAccount(ctx, user.ID, "newpass"))
	_, err = repo.FindUserByID(ctx, user.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestRecordValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateExpense(ctx, 1, ExpenseInput{Category: "Fun", Amount: decimal.Zero, Date: "2026-10-01"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.CreateExpense(ctx, 1, ExpenseInput{Category: "Fun", Amount: d("5"), Date: "10/01/2026"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.CreateIncome(ctx, 1, IncomeInput{Source: " ", Amount: d("5"), Date: "2026-10-01"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.CreateIncome(ctx, 1, IncomeInput{Source: "Gift", Amount: d("-1"), Date: "2026-10-01"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.CreateSavingsGoal(ctx, 1, SavingsInput{Goal: "Car", TargetAmount: decimal.NullDecimal{Valid: true}})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.CreateDebt(ctx, 1, DebtInput{Name: "Visa", Type: "card", CurrentBalance: d("10"), DueDate: "soon"})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.CreateDebt(ctx, 1, DebtInput{Name: "Visa", CurrentBalance: d("10")})
	assert.ErrorIs(t, err, ErrValidation)

	debt, err := svc.CreateDebt(ctx, 1, DebtInput{Name: " Visa ", Type: "card", CurrentBalance: d("10")})
	require.NoError(t, err)
	assert.Equal(t, "Visa", debt.Name)
	assert.Equal(t, "", debt.DueDate)

	b, err := svc.CreateBudget(ctx, 1, BudgetInput{Category: "Rent", Amount: d("900"), Month: "2026-10-15"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC), b.Month)
}

func TestRecordValidation_AmountScale(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		call func() error
	}{
		{"expense rounds to zero", func() error {
			_, err := svc.CreateExpense(ctx, 1, ExpenseInput{Category: "Fun", Amount: d("0.001"), Date: "2026-10-01"})
			return err
		}},
		{"income with three decimals", func() error {
			_, err := svc.CreateIncome(ctx, 1, IncomeInput{Source: "Gift", Amount: d("10.005"), Date: "2026-10-01"})
			return err
		}},
		{"budget too large", func() error {
			_, err := svc.CreateBudget(ctx, 1, BudgetInput{Category: "Rent", Amount: d("1000000000000"), Month: "2026-10"})
			return err
		}},
		{"savings target with three decimals", func() error {
			_, err := svc.CreateSavingsGoal(ctx, 1, SavingsInput{Goal: "Car",
				TargetAmount: decimal.NewNullDecimal(d("100.125"))})
			return err
		}},
		{"debt interest rate out of range", func() error {
			_, err := svc.CreateDebt(ctx, 1, DebtInput{Name: "Visa", Type: "card", CurrentBalance: d("10"),
				InterestRate: decimal.NewNullDecimal(d("1000"))})
			return err
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.call()
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
	assert.Empty(t, repo.expenses)
	assert.Empty(t, repo.income)

	e, err := svc.CreateExpense(ctx, 1, ExpenseInput{Category: "Fun", Amount: d("12.50"), Date: "2026-10-01"})
	require.NoError(t, err)
	assert.True(t, e.Amount.Equal(d("12.5")))
	_, err = svc.CreateExpense(ctx, 1, ExpenseInput{Category: "Fun", Amount: d("12.500"), Date: "2026-10-01"})
	require.NoError(t, err)
}

func TestUpdateExpense_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.UpdateExpense(context.Background(), 1, 99, ExpenseInput{Category: "Fun", Amount: d("5"), Date: "2026-10-01"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListSavingsGoals_Progress(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateSavingsGoal(ctx, 1, SavingsInput{
		Goal: "Car", CurrentAmount: d("120"), TargetAmount: decimal.NullDecimal{Decimal: d("100"), Valid: true},
	})
	require.NoError(t, err)

	goals, err := svc.ListSavingsGoals(ctx, 1)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, 100.0, goals[0].ProgressPercentage)
}

func TestDashboard(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	s, err := svc.Dashboard(ctx, 1, "")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC), repo.summaryMonth)
	require.Len(t, s.AvailableMonths, 12)
	assert.Equal(t, "2025-11", s.AvailableMonths[0])
	assert.Equal(t, "2026-10", s.AvailableMonths[11])

	_, err = svc.Dashboard(ctx, 1, "2026-03")
	require.NoError(t, err)
	assert.Equal(t, time.March, repo.summaryMonth.Month())

	_, err = svc.Dashboard(ctx, 1, "March")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAdvice(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Advice(ctx, 1)
	assert.ErrorIs(t, err, ErrAdvisorNotConfigured)

	adv := &fakeAdvisor{advice: "## Build an emergency fund"}
	svc.advisor = adv
	svc.config.GeminiAPIKey = "key"

	got, err := svc.Advice(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "## Build an emergency fund", got)
	assert.Contains(t, adv.prompt, "**Financial Summary:**")

	adv.err = errors.New("quota exceeded")
	_, err = svc.Advice(ctx, 1)
	assert.ErrorIs(t, err, adv.err)
}

func TestSendDebtReminders(t *testing.T) {
	svc, repo, mailer := newTestService(t)
	ctx := context.Background()
	for _, u := range []models.User{
		{Username: "alice", Email: "alice@example.com"},
		{Username: "bob", Email: "bob@example.com"},
		{Username: "carol", Email: "carol@example.com"},
	} {
		require.NoError(t, repo.CreateUser(ctx, &u))
	}
	day := func(offset int) string { return testNow.AddDate(0, 0, offset).Format(models.DueDateLayout) }
	repo.debts = []models.Debt{
		{ID: 10, UserID: 1, Name: "Visa", CurrentBalance: d("120"), DueDate: day(2)},
		{ID: 11, UserID: 2, Name: "Car", CurrentBalance: d("900"), DueDate: day(-5)},
		{ID: 12, UserID: 3, Name: "Mortgage", CurrentBalance: d("9000"), DueDate: day(40)},
	}
	require.NoError(t, repo.DismissAlert(ctx, 2, alertsFingerprint(t, svc, 2)))

	sent, err := svc.SendDebtReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, mailer.reminders, 1)
	got := mailer.reminders["alice@example.com"]
	require.Len(t, got, 1)
	assert.Equal(t, "Action Required: Your Visa payment of $120.00 is due in 2 day(s)! Don't miss it!", got[0])
}

func TestSendDebtReminders_MailerError(t *testing.T) {
	svc, repo, mailer := newTestService(t)
	ctx := context.Background()
	u := &models.User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, repo.CreateUser(ctx, u))
	repo.debts = []models.Debt{{ID: 1, UserID: u.ID, Name: "Visa", CurrentBalance: d("10"),
		DueDate: testNow.Format(models.DueDateLayout)}}
	mailer.reminderErr = errors.New("smtp down")

	sent, err := svc.SendDebtReminders(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "smtp down")
	assert.Zero(t, sent)
}

// alertsFingerprint returns the fingerprint of the first debt alert of a user
func alertsFingerprint(t *testing.T, svc *Service, userID int64) string {
	t.Helper()
	got, err := svc.Alerts(context.Background(), userID)
	require.NoError(t, err)
	for _, a := range got {
		if strings.Contains(a.Message, "** payment") {
			return a.Fingerprint
		}
	}
	t.Fatalf("no debt alert for user %d", userID)
	return ""
}
