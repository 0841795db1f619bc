package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Dan9191/cashcompass/internal/advisor"
	"github.com/Dan9191/cashcompass/internal/metrics"
	"github.com/Dan9191/cashcompass/internal/models"
)

// availableMonths is how many months the dashboard offers, current included
const availableMonths = 12

// FinancialSnapshot computes the user's current financial metrics
func (s *Service) FinancialSnapshot(ctx context.Context, userID int64) (*models.FinancialSnapshot, error) {
	return s.aggregator.Snapshot(ctx, userID)
}

// Alerts returns the user's active alerts, most severe first
func (s *Service) Alerts(ctx context.Context, userID int64) ([]models.Alert, error) {
	snap, err := s.aggregator.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	dismissed, err := s.dismissedSet(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.generator.Generate(snap, dismissed), nil
}

func (s *Service) dismissedSet(ctx context.Context, userID int64) (map[string]struct{}, error) {
	rows, err := s.repo.DismissedAlerts(ctx, userID)
	if err != nil {
		return nil, err
	}
	dismissed := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		dismissed[r.AlertHash] = struct{}{}
	}
	return dismissed, nil
}

// DismissAlert hides the alert with the given fingerprint for the user
func (s *Service) DismissAlert(ctx context.Context, userID int64, alertHash string) error {
	alertHash = strings.TrimSpace(alertHash)
	if alertHash == "" {
		return ErrAlertHashRequired
	}
	if err := s.repo.DismissAlert(ctx, userID, alertHash); err != nil {
		return err
	}
	s.log.Debugf("Alert %s dismissed by user %d", alertHash, userID)
	return nil
}

// ResetAlerts brings back every dismissed alert of the user
func (s *Service) ResetAlerts(ctx context.Context, userID int64) error {
	if err := s.repo.ResetAlerts(ctx, userID); err != nil {
		return err
	}
	s.log.Infof("Alerts reset for user %d", userID)
	return nil
}

// Dashboard returns the monthly summary for month (YYYY-MM). An empty month
// selects the current one.
func (s *Service) Dashboard(ctx context.Context, userID int64, month string) (*models.MonthlySummary, error) {
	current := metrics.StartOfMonth(s.now())
	selected := current
	if month != "" {
		t, err := time.ParseInLocation(metrics.MonthLayout, month, current.Location())
		if err != nil {
			return nil, fmt.Errorf("%w: month must be YYYY-MM", ErrValidation)
		}
		selected = t
	}

	summary, err := s.repo.MonthlySummary(ctx, userID, selected)
	if err != nil {
		return nil, err
	}
	summary.AvailableMonths = make([]string, 0, availableMonths)
	for i := availableMonths - 1; i >= 0; i-- {
		summary.AvailableMonths = append(summary.AvailableMonths, current.AddDate(0, -i, 0).Format(metrics.MonthLayout))
	}
	return summary, nil
}

// Advice asks the AI advisor for recommendations on the user's finances
func (s *Service) Advice(ctx context.Context, userID int64) (string, error) {
	if s.advisor == nil || s.config.GeminiAPIKey == "" {
		return "", ErrAdvisorNotConfigured
	}
	snap, err := s.aggregator.Snapshot(ctx, userID)
	if err != nil {
		return "", err
	}
	prompt, err := advisor.BuildPrompt(snap, metrics.DefaultPolicy.EmergencyFundMonths)
	if err != nil {
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}

	advice, err := s.advisor.GenerateAdvice(ctx, prompt)
	if err != nil {
		s.log.WithError(err).Warnf("AI advice failed for user %d", userID)
		return "", fmt.Errorf("failed to get AI advice: %w", err)
	}
	return advice, nil
}
