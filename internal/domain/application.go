package domain

import "time"

// ApplicationStatus represents processing states for a contact request.
type ApplicationStatus string

const (
	ApplicationStatusNew       ApplicationStatus = "new"
	ApplicationStatusProcessed ApplicationStatus = "processed"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
)

// ValidApplicationStatus reports whether s is a known status value.
func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case ApplicationStatusNew, ApplicationStatusProcessed, ApplicationStatusRejected:
		return true
	}
	return false
}

// Application is a contact request submitted by a site visitor. The request is
// persisted before any notification attempt; delivery problems are recorded on
// the row, never surfaced to the visitor.
type Application struct {
	ID               string
	Name             string
	Phone            string
	Message          string
	Status           ApplicationStatus
	IsSentToTelegram bool
	TelegramError    string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
