package service

import (
	"context"
	"errors"
	"time"

	"github.com/Dan9191/cashcompass/internal/alerts"
	"github.com/Dan9191/cashcompass/internal/config"
	"github.com/Dan9191/cashcompass/internal/metrics"
	"github.com/Dan9191/cashcompass/internal/models"
	"github.com/Dan9191/cashcompass/internal/utils"
	"github.com/sirupsen/logrus"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidToken         = utils.ErrInvalidToken
	ErrUserExists           = errors.New("username or email already exists")
	ErrAlertHashRequired    = errors.New("alert hash is required")
	ErrAdvisorNotConfigured = errors.New("AI financial advisor is not configured")
)

// Repository is the storage the service works on
type Repository interface {
	metrics.Store

	DismissedAlerts(ctx context.Context, userID int64) ([]models.DismissedAlert, error)
	DismissAlert(ctx context.Context, userID int64, alertHash string) error
	ResetAlerts(ctx context.Context, userID int64) error

	CreateUser(ctx context.Context, user *models.User) error
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByUsername(ctx context.Context, username string) (*models.User, error)
	FindUserByID(ctx context.Context, id int64) (*models.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	UpdateProfile(ctx context.Context, userID int64, username, email string) error
	DeleteUser(ctx context.Context, userID int64) error
	ListUsersWithDueDebts(ctx context.Context, from, to time.Time) ([]models.User, error)

	ListSettings(ctx context.Context, userID int64) ([]models.Setting, error)
	UpsertSettings(ctx context.Context, userID int64, settings []models.Setting) error

	ListIncome(ctx context.Context, userID int64) ([]models.Income, error)
	CreateIncome(ctx context.Context, i *models.Income) error
	UpdateIncome(ctx context.Context, i *models.Income) error
	DeleteIncome(ctx context.Context, userID, id int64) error

	ListExpenses(ctx context.Context, userID int64) ([]models.Expense, error)
	CreateExpense(ctx context.Context, e *models.Expense) error
	UpdateExpense(ctx context.Context, e *models.Expense) error
	DeleteExpense(ctx context.Context, userID, id int64) error

	ListBudgets(ctx context.Context, userID int64) ([]models.Budget, error)
	CreateBudget(ctx context.Context, b *models.Budget) error
	UpdateBudget(ctx context.Context, b *models.Budget) error
	DeleteBudget(ctx context.Context, userID, id int64) error

	CreateSavingsGoal(ctx context.Context, g *models.SavingsGoal) error
	UpdateSavingsGoal(ctx context.Context, g *models.SavingsGoal) error
	DeleteSavingsGoal(ctx context.Context, userID, id int64) error

	CreateDebt(ctx context.Context, d *models.Debt) error
	UpdateDebt(ctx context.Context, d *models.Debt) error
	DeleteDebt(ctx context.Context, userID, id int64) error

	MonthlySummary(ctx context.Context, userID int64, month time.Time) (*models.MonthlySummary, error)
}

// Advisor generates financial advice from a prompt
type Advisor interface {
	GenerateAdvice(ctx context.Context, prompt string) (string, error)
}

// Mailer delivers password reset links and debt reminders
type Mailer interface {
	SendPasswordReset(to, username, link string, ttl time.Duration) error
	SendDebtReminder(to, username string, reminders []string) error
}

// Service handles business logic
type Service struct {
	repo       Repository
	log        *logrus.Logger
	config     *config.Config
	aggregator *metrics.Aggregator
	generator  *alerts.Generator
	advisor    Advisor
	mailer     Mailer
	now        func() time.Time
}

// NewService initializes a new service
func NewService(repo Repository, log *logrus.Logger, cfg *config.Config, advisor Advisor, mailer Mailer) *Service {
	s := &Service{
		repo:    repo,
		log:     log,
		config:  cfg,
		advisor: advisor,
		mailer:  mailer,
		now:     time.Now,
	}
	clock := func() time.Time { return s.now() }
	s.aggregator = metrics.NewAggregator(repo, metrics.DefaultPolicy, clock)
	s.generator = alerts.NewGenerator(log, metrics.DefaultPolicy, clock)
	return s
}
