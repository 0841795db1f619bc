package repository

import (
	"context"
	"fmt"

	"github.com/Dan9191/cashcompass/internal/models"
)

const upsertSettingQuery = `
	INSERT INTO user_settings (user_id, key, value)
	VALUES ($1, $2, $3)
	ON CONFLICT (user_id, key) DO UPDATE SET value = EXCLUDED.value`

// ListSettings returns the settings of a user ordered by key
func (r *Repository) ListSettings(ctx context.Context, userID int64) ([]models.Setting, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM user_settings WHERE user_id = $1 ORDER BY key`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer rows.Close()

	settings := []models.Setting{}
	for rows.Next() {
		var s models.Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings = append(settings, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	return settings, nil
}

// UpsertSetting stores a single setting, replacing any previous value
func (r *Repository) UpsertSetting(ctx context.Context, userID int64, key, value string) error {
	return upsertSetting(ctx, r.db, userID, key, value)
}

// UpsertSettings stores every setting in one transaction
func (r *Repository) UpsertSettings(ctx context.Context, userID int64, settings []models.Setting) error {
	return WithTx(ctx, r.db, nil, func(ctx context.Context, tx DBTX) error {
		for _, s := range settings {
			if err := upsertSetting(ctx, tx, userID, s.Key, s.Value); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsertSetting(ctx context.Context, db DBTX, userID int64, key, value string) error {
	if _, err := db.ExecContext(ctx, upsertSettingQuery, userID, key, value); err != nil {
		return fmt.Errorf("failed to save setting %q: %w", key, err)
	}
	return nil
}
