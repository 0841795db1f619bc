package models

import "time"

// Severity is the alert level, also used as the sort priority
type Severity string

const (
	SeverityDanger  Severity = "danger"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
)

// Priority returns the sort order of the severity, lower comes first
func (s Severity) Priority() int {
	switch s {
	case SeverityDanger:
		return 1
	case SeverityWarning:
		return 2
	case SeverityInfo:
		return 3
	case SeveritySuccess:
		return 4
	}
	return 99
}

// Alert is a human-readable financial alert
type Alert struct {
	Severity    Severity `json:"type"`
	Message     string   `json:"message"`
	Icon        string   `json:"icon"`
	Fingerprint string   `json:"alert_hash"`
	IsRead      bool     `json:"is_read"`
}

// DismissedAlert is a persisted dismissal of an alert fingerprint
type DismissedAlert struct {
	UserID      int64     `json:"user_id"`
	AlertHash   string    `json:"alert_hash"`
	DismissedAt time.Time `json:"dismissed_at"`
}
