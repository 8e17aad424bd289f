package domain

import "time"

// Session is the outcome of a successful login or registration.
type Session struct {
	User      *User
	Token     string
	ExpiresAt time.Time
}
