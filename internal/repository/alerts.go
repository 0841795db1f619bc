package repository

import (
	"context"
	"fmt"

	"github.com/Dan9191/cashcompass/internal/models"
)

// DismissedAlerts returns the alerts the user has dismissed
func (r *Repository) DismissedAlerts(ctx context.Context, userID int64) ([]models.DismissedAlert, error) {
	query := `
		SELECT user_id, alert_hash, read_at
		FROM read_user_alerts
		WHERE user_id = $1`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list dismissed alerts: %w", err)
	}
	defer rows.Close()

	var out []models.DismissedAlert
	for rows.Next() {
		var a models.DismissedAlert
		if err := rows.Scan(&a.UserID, &a.AlertHash, &a.DismissedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dismissed alert: %w", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list dismissed alerts: %w", err)
	}
	return out, nil
}

// DismissAlert records a dismissal. Dismissing twice is a no-op.
func (r *Repository) DismissAlert(ctx context.Context, userID int64, alertHash string) error {
	query := `
		INSERT INTO read_user_alerts (user_id, alert_hash, read_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id, alert_hash) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, query, userID, alertHash); err != nil {
		return fmt.Errorf("failed to dismiss alert: %w", err)
	}
	return nil
}

// ResetAlerts deletes every dismissal of the user
func (r *Repository) ResetAlerts(ctx context.Context, userID int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM read_user_alerts WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to reset alerts: %w", err)
	}
	return nil
}
