package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Dan9191/cashcompass/internal/alerts"
)

// SendDebtReminders emails every user with a debt due soon or recently
// overdue. Dismissed debt alerts are not mailed. A failure for one user does
// not stop the others; the number of emails sent is returned with the joined
// errors.
func (s *Service) SendDebtReminders(ctx context.Context) (int, error) {
	if s.mailer == nil {
		return 0, nil
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	from := today.AddDate(0, 0, -(alerts.OverdueWindowDays - 1))
	to := today.AddDate(0, 0, alerts.DueSoonDays)

	users, err := s.repo.ListUsersWithDueDebts(ctx, from, to)
	if err != nil {
		return 0, err
	}

	var (
		sent int
		errs []error
	)
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		ok, err := s.remindUser(ctx, u.ID, u.Email, u.Username)
		if err != nil {
			s.log.WithField("user_id", u.ID).Errorf("Failed to send debt reminder: %v", err)
			errs = append(errs, fmt.Errorf("user %d: %w", u.ID, err))
			continue
		}
		if ok {
			sent++
		}
	}
	s.log.Infof("Debt reminders sent: %d of %d users", sent, len(users))
	return sent, errors.Join(errs...)
}

func (s *Service) remindUser(ctx context.Context, userID int64, email, username string) (bool, error) {
	snap, err := s.aggregator.Snapshot(ctx, userID)
	if err != nil {
		return false, err
	}
	dismissed, err := s.dismissedSet(ctx, userID)
	if err != nil {
		return false, err
	}

	due := s.generator.DueDebts(snap, dismissed)
	if len(due) == 0 {
		return false, nil
	}
	reminders := make([]string, 0, len(due))
	for _, a := range due {
		reminders = append(reminders, strings.ReplaceAll(a.Message, "**", ""))
	}
	if err := s.mailer.SendDebtReminder(email, username, reminders); err != nil {
		return false, err
	}
	return true, nil
}
