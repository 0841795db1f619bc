package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Dan9191/cashcompass/internal/config"
	"github.com/Dan9191/cashcompass/internal/models"
	"github.com/Dan9191/cashcompass/internal/repository"
	"github.com/Dan9191/cashcompass/internal/service"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepo serves the handful of repository calls the routes below reach.
// Anything else panics through the nil embedded interface.
type memRepo struct {
	service.Repository

	users      []models.User
	income     []models.Income
	dismissed  map[string]struct{}
	settings   map[string]string
	profileErr error
}

func (m *memRepo) CreateUser(_ context.Context, u *models.User) error {
	u.ID = int64(len(m.users) + 1)
	m.users = append(m.users, *u)
	return nil
}

func (m *memRepo) find(match func(models.User) bool) (*models.User, error) {
	for _, u := range m.users {
		if match(u) {
			c := u
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memRepo) FindUserByUsername(_ context.Context, name string) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.Username == name })
}

func (m *memRepo) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	return m.find(func(u models.User) bool { return u.Email == email })
}

func (m *memRepo) ListIncome(_ context.Context, userID int64) ([]models.Income, error) {
	var out []models.Income
	for _, i := range m.income {
		if i.UserID == userID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (m *memRepo) CreateIncome(_ context.Context, i *models.Income) error {
	i.ID = int64(len(m.income) + 1)
	m.income = append(m.income, *i)
	return nil
}

func (m *memRepo) DeleteIncome(_ context.Context, userID, id int64) error {
	for n, i := range m.income {
		if i.ID == id && i.UserID == userID {
			m.income = append(m.income[:n], m.income[n+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *memRepo) ListSavingsGoals(context.Context, int64) ([]models.SavingsGoal, error) {
	return nil, nil
}

func (m *memRepo) ListDebts(context.Context, int64) ([]models.Debt, error) { return nil, nil }

func (m *memRepo) TotalIncome(ctx context.Context, userID int64) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, i := range m.income {
		if i.UserID == userID {
			total = total.Add(i.Amount)
		}
	}
	return total, nil
}

func (m *memRepo) TotalExpenses(context.Context, int64) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (m *memRepo) BudgetByCategory(context.Context, int64, time.Time) (map[string]decimal.Decimal, error) {
	return map[string]decimal.Decimal{}, nil
}

func (m *memRepo) SpendingByCategory(context.Context, int64, time.Time) (map[string]decimal.Decimal, error) {
	return map[string]decimal.Decimal{}, nil
}

func (m *memRepo) CountExpenseMonths(context.Context, int64) (int, error) { return 0, nil }

func (m *memRepo) DismissedAlerts(_ context.Context, userID int64) ([]models.DismissedAlert, error) {
	var out []models.DismissedAlert
	for hash := range m.dismissed {
		out = append(out, models.DismissedAlert{UserID: userID, AlertHash: hash})
	}
	return out, nil
}

func (m *memRepo) DismissAlert(_ context.Context, _ int64, hash string) error {
	m.dismissed[hash] = struct{}{}
	return nil
}

func (m *memRepo) ResetAlerts(context.Context, int64) error {
	m.dismissed = map[string]struct{}{}
	return nil
}

type testServer struct {
	router *mux.Router
	repo   *memRepo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	log, _ := test.NewNullLogger()
	cfg := &config.Config{
		JWTSecret:     "handler-secret",
		TokenTTL:      time.Hour,
		ResetTokenTTL: time.Hour,
	}
	repo := &memRepo{dismissed: map[string]struct{}{}}
	svc := service.NewService(repo, log, cfg, nil, nil)
	return &testServer{router: NewRouter(NewHandler(svc, log), cfg), repo: repo}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/register", "",
		`{"username":"alice","email":"alice@example.com","password":"secret1","confirmation":"secret1"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/login", "", `{"username":"alice","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
	return resp.Token
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	rec := s.do(t, http.MethodPost, "/api/register", "",
		`{"username":"alice","email":"other@example.com","password":"secret1","confirmation":"secret1"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/login", "", `{"username":"alice","password":"wrong-pass"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid credentials", errorOf(t, rec))

	rec = s.do(t, http.MethodPost, "/api/register", "", `{"username":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/register", "",
		`{"username":"bob","email":"bob@example.com","password":"123","confirmation":"123"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, errorOf(t, rec), "validation failed")
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/forgot_password", "", `{"email":"nobody@example.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp messageResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/api/financial_health", "/api/financial_alerts_data", "/api/income", "/api/dashboard"} {
		rec := s.do(t, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestAlertsLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	rec := s.do(t, http.MethodGet, "/api/financial_alerts_data", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var alerts []models.Alert
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &alerts))
	require.Len(t, alerts, 1)
	assert.Equal(t, "You have no alerts for now.", alerts[0].Message)

	rec = s.do(t, http.MethodPost, "/api/delete_alert", token, `{"alert_hash":"  "}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/delete_alert", token, `{"alert_hash":"`+alerts[0].Fingerprint+`"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, s.repo.dismissed, alerts[0].Fingerprint)

	rec = s.do(t, http.MethodPost, "/api/reset_alerts", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, s.repo.dismissed)
}

func TestIncomeCRUD(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	rec := s.do(t, http.MethodGet, "/api/income", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/income", token, `{"source":"Salary","amount":"2500.00","date":"2026-10-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created models.Income
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Salary", created.Source)
	assert.True(t, created.Amount.Equal(decimal.NewFromInt(2500)))

	rec = s.do(t, http.MethodPost, "/api/income", token, `{"source":"","amount":"10","date":"2026-10-01"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/financial_health", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `"has_data":true`), rec.Body.String())

	rec = s.do(t, http.MethodDelete, "/api/income/99", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/income/1", token, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, s.repo.income)
}

func TestDashboard_InvalidMonth(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	rec := s.do(t, http.MethodGet, "/api/dashboard?month=october", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdvisor_NotConfigured(t *testing.T) {
	s := newTestServer(t)
	token := s.login(t)

	rec := s.do(t, http.MethodPost, "/api/ai_advisor", token, "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, service.ErrAdvisorNotConfigured.Error(), errorOf(t, rec))
}
