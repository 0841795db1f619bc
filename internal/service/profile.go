package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strings"

	"github.com/Dan9191/cashcompass/internal/models"
	"github.com/Dan9191/cashcompass/internal/repository"
)

// MaxSettingKeyLength bounds the length of a settings key
const MaxSettingKeyLength = 64

// Profile returns the account of the user
func (s *Service) Profile(ctx context.Context, userID int64) (*models.User, error) {
	return s.repo.FindUserByID(ctx, userID)
}

// UpdateProfile changes the username and email of the user
func (s *Service) UpdateProfile(ctx context.Context, userID int64, username, email string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" {
		return nil, fmt.Errorf("%w: username and email are required", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}

	if err := s.ensureAvailableFor(ctx, userID, username, email); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateProfile(ctx, userID, username, email); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	s.log.Infof("Profile updated for user %d", userID)
	return s.repo.FindUserByID(ctx, userID)
}

// ensureAvailableFor reports ErrUserExists when another user holds the username or email
func (s *Service) ensureAvailableFor(ctx context.Context, userID int64, username, email string) error {
	lookups := []func(context.Context, string) (*models.User, error){
		s.repo.FindUserByUsername,
		s.repo.FindUserByEmail,
	}
	for i, value := range []string{username, email} {
		other, err := lookups[i](ctx, value)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if other.ID != userID {
			return ErrUserExists
		}
	}
	return nil
}

// Settings returns the stored preferences of the user
func (s *Service) Settings(ctx context.Context, userID int64) ([]models.Setting, error) {
	return s.repo.ListSettings(ctx, userID)
}

// UpdateSettings upserts every key-value pair. Keys not present are left untouched.
func (s *Service) UpdateSettings(ctx context.Context, userID int64, values map[string]string) error {
	settings := make([]models.Setting, 0, len(values))
	for key, value := range values {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("%w: setting key must not be empty", ErrValidation)
		}
		if len(key) > MaxSettingKeyLength {
			return fmt.Errorf("%w: setting key %q is too long", ErrValidation, key)
		}
		settings = append(settings, models.Setting{Key: key, Value: value})
	}
	if len(settings) == 0 {
		return nil
	}
	sort.Slice(settings, func(i, j int) bool { return settings[i].Key < settings[j].Key })

	return s.repo.UpsertSettings(ctx, userID, settings)
}
