// Package alerts turns a financial snapshot into prioritized, dismissible
// alerts.
package alerts

import (
	"sort"
	"time"

	"github.com/Dan9191/cashcompass/internal/metrics"
	"github.com/Dan9191/cashcompass/internal/models"
	"github.com/sirupsen/logrus"
)

// Generator builds alerts from snapshots
type Generator struct {
	log    *logrus.Logger
	policy metrics.Policy
	now    func() time.Time
}

// NewGenerator initializes a new alert generator
func NewGenerator(log *logrus.Logger, policy metrics.Policy, now func() time.Time) *Generator {
	if now == nil {
		now = time.Now
	}
	return &Generator{log: log, policy: policy, now: now}
}

// Generate returns the alerts for a snapshot, without those whose fingerprint
// is in dismissed, most severe first. It never returns an empty list.
func (g *Generator) Generate(snap *models.FinancialSnapshot, dismissed map[string]struct{}) []models.Alert {
	today := g.today()
	candidates := budgetAlerts(snap.BudgetVsActual, today)
	candidates = append(candidates, g.debtAlerts(snap.Debts, today)...)

	for _, goal := range snap.SavingsGoals {
		if a, ok := savingsAlert(goal); ok {
			candidates = append(candidates, a)
		}
	}

	if snap.HasData {
		candidates = append(candidates,
			cashFlowAlert(snap.CashFlow, today),
			emergencyFundAlert(snap, g.policy.EmergencyFundMonths, g.policy.PartialTarget(snap.EmergencyFundTarget)),
		)
		if a, ok := debtStatusAlert(snap.TotalLiabilities, snap.TotalIncome); ok {
			candidates = append(candidates, a)
		}
		if snap.HealthScore > 0 {
			candidates = append(candidates, healthSummaryAlert(snap.HealthScore))
		}
	}

	out := make([]models.Alert, 0, len(candidates))
	for _, a := range candidates {
		if _, ok := dismissed[a.Fingerprint]; ok {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.Priority() < out[j].Severity.Priority()
	})

	if len(out) == 0 {
		out = append(out, noAlertsAlert())
	}
	return out
}

// DueDebts returns the due-soon and overdue alerts of the snapshot's debts
// that are not dismissed. Unlike Generate it may return an empty list.
func (g *Generator) DueDebts(snap *models.FinancialSnapshot, dismissed map[string]struct{}) []models.Alert {
	var out []models.Alert
	for _, a := range g.debtAlerts(snap.Debts, g.today()) {
		if _, ok := dismissed[a.Fingerprint]; !ok {
			out = append(out, a)
		}
	}
	return out
}

func (g *Generator) today() time.Time {
	now := g.now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

func (g *Generator) debtAlerts(debts []models.Debt, today time.Time) []models.Alert {
	var out []models.Alert
	for _, d := range debts {
		if d.DueDate == "" {
			continue
		}
		due, err := time.ParseInLocation(models.DueDateLayout, d.DueDate, today.Location())
		if err != nil {
			g.log.WithFields(logrus.Fields{"debt_id": d.ID, "due_date": d.DueDate}).
				Warnf("Skipping debt with malformed due date: %v", err)
			continue
		}
		if a, ok := debtDueAlert(d, due, today); ok {
			out = append(out, a)
		}
	}
	return out
}
