package email

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/Dan9191/cashcompass/internal/config"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

const signature = "\nBest regards,\nCashCompass"

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   func(e *email.Email, addr string, auth smtp.Auth) error
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// SendPasswordReset emails a password reset link valid for ttl
func (s *Sender) SendPasswordReset(to, username, link string, ttl time.Duration) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Password Reset Request for CashCompass"

	body := fmt.Sprintf(
		"Dear %s,\n\n"+
			"To reset your password, visit the following link:\n%s\n\n"+
			"The link expires in %s.\n"+
			"If you did not make this request, simply ignore this email and no changes will be made.\n",
		username, link, ttl,
	)
	body += signature
	e.Text = []byte(body)

	return s.deliver(e)
}

// SendDebtReminder emails the list of upcoming and overdue debt payments
func (s *Sender) SendDebtReminder(to, username string, reminders []string) error {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Upcoming debt payments - CashCompass"

	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\nThe following payments need your attention:\n\n", username)
	for _, r := range reminders {
		fmt.Fprintf(&b, "- %s\n", r)
	}
	b.WriteString("\nYou can dismiss these reminders from your alerts page.\n")
	b.WriteString(signature)
	e.Text = []byte(b.String())

	return s.deliver(e)
}

func (s *Sender) deliver(e *email.Email) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	to := strings.Join(e.To, ",")
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}
