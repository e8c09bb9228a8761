package domain

import "time"

// Role enumerates profile roles.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// Profile is the per-staff record stored in the users collection, keyed by identity id.
type Profile struct {
	ID                string
	Email             string
	DisplayName       string
	EmployeeID        string
	Position          string
	Role              Role
	AccountEnabled    bool
	IsCheckedIn       bool
	NotificationToken *string
	LastSeen          *time.Time
	CreatedAt         time.Time
}

// IsAdmin reports whether the profile may provision accounts.
func (p *Profile) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// HasNotificationToken reports whether a push address is registered.
func (p *Profile) HasNotificationToken() bool {
	return p.NotificationToken != nil && *p.NotificationToken != ""
}
