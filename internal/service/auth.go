package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"strings"

	"github.com/Dan9191/cashcompass/internal/models"
	"github.com/Dan9191/cashcompass/internal/repository"
	"github.com/Dan9191/cashcompass/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 6

// Register creates a new user with hashed password
func (s *Service) Register(ctx context.Context, username, email, password, confirmation string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	switch {
	case username == "":
		return nil, fmt.Errorf("%w: must provide username", ErrValidation)
	case email == "":
		return nil, fmt.Errorf("%w: must provide email", ErrValidation)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email", ErrValidation)
	}
	if err := checkNewPassword(password, confirmation); err != nil {
		return nil, err
	}

	if err := s.ensureAvailable(ctx, username, email); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		// a concurrent registration took the name after ensureAvailable
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	s.log.Infof("User registered: %s", user.Username)
	return user, nil
}

func (s *Service) ensureAvailable(ctx context.Context, username, email string) error {
	_, err := s.repo.FindUserByUsername(ctx, username)
	if err == nil {
		return ErrUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	_, err = s.repo.FindUserByEmail(ctx, email)
	if err == nil {
		return ErrUserExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return nil
}

// Login authenticates a user and returns a JWT token
func (s *Service) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	if username == "" || password == "" {
		return "", nil, fmt.Errorf("%w: must provide username and password", ErrValidation)
	}
	user, err := s.repo.FindUserByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := utils.IssueToken(s.config.JWTSecret, user.ID, utils.AudienceAccess, s.config.TokenTTL, s.now())
	if err != nil {
		return "", nil, err
	}

	s.log.Infof("User logged in: %s", user.Username)
	return token, user, nil
}

// ForgotPassword emails a reset link when the address belongs to a user.
// Unknown addresses are not reported to the caller.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("%w: must provide email", ErrValidation)
	}
	user, err := s.repo.FindUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		s.log.Infof("Password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}

	token, err := utils.IssueToken(s.config.JWTSecret, user.ID, utils.AudiencePasswordReset, s.config.ResetTokenTTL, s.now())
	if err != nil {
		return err
	}
	link := strings.TrimRight(s.config.AppBaseURL, "/") + "/reset_password?token=" + url.QueryEscape(token)
	if s.mailer == nil {
		s.log.Warnf("No mailer configured, password reset link for user %d not sent", user.ID)
		return nil
	}
	return s.mailer.SendPasswordReset(user.Email, user.Username, link, s.config.ResetTokenTTL)
}

// ResetPassword sets a new password using a token from ForgotPassword
func (s *Service) ResetPassword(ctx context.Context, token, password, confirmation string) error {
	userID, err := utils.ParseToken(s.config.JWTSecret, token, utils.AudiencePasswordReset)
	if err != nil {
		return err
	}
	if err := checkNewPassword(password, confirmation); err != nil {
		return err
	}
	if err := s.setPassword(ctx, userID, password); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	s.log.Infof("Password reset for user %d", userID)
	return nil
}

// ChangePassword replaces the password after checking the current one
func (s *Service) ChangePassword(ctx context.Context, userID int64, current, password, confirmation string) error {
	if err := s.verifyPassword(ctx, userID, current); err != nil {
		return err
	}
	if err := checkNewPassword(password, confirmation); err != nil {
		return err
	}
	if err := s.setPassword(ctx, userID, password); err != nil {
		return err
	}
	s.log.Infof("Password changed for user %d", userID)
	return nil
}

// DeleteAccount removes the user and all their records after checking the password
func (s *Service) DeleteAccount(ctx context.Context, userID int64, password string) error {
	if err := s.verifyPassword(ctx, userID, password); err != nil {
		return err
	}
	if err := s.repo.DeleteUser(ctx, userID); err != nil {
		return err
	}
	s.log.Infof("Account deleted: user %d", userID)
	return nil
}

func (s *Service) verifyPassword(ctx context.Context, userID int64, password string) error {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func (s *Service) setPassword(ctx context.Context, userID int64, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.repo.UpdatePassword(ctx, userID, string(hashed))
}

func checkNewPassword(password, confirmation string) error {
	switch {
	case password == "":
		return fmt.Errorf("%w: must provide password", ErrValidation)
	case password != confirmation:
		return fmt.Errorf("%w: passwords do not match", ErrValidation)
	case len(password) < MinPasswordLength:
		return fmt.Errorf("%w: password must be at least %d characters long", ErrValidation, MinPasswordLength)
	}
	return nil
}
