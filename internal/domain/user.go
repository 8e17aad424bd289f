package domain

import "time"

// User is a registered EventHub member.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProfileUpdate carries the editable profile fields.
type ProfileUpdate struct {
	Email     string
	FirstName string
	LastName  string
}

// Apply copies the profile fields onto u.
func (p ProfileUpdate) Apply(u *User) {
	u.Email = p.Email
	u.FirstName = p.FirstName
	u.LastName = p.LastName
}

// Registration carries the fields of a new account.
type Registration struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}
