package domain

import "time"

// Identity is an authentication account. Its ID keys the matching Profile.
type Identity struct {
	ID           string
	Email        string
	PasswordHash string
	DisplayName  string
	Disabled     bool
	CreatedAt    time.Time
}
