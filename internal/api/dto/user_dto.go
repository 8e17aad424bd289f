package dto

import (
	"time"

	"github.com/eventhub-dev/eventhub/internal/auth"
	"github.com/eventhub-dev/eventhub/internal/domain"
	"github.com/eventhub-dev/eventhub/internal/flows"
	"github.com/eventhub-dev/eventhub/internal/form"
	"github.com/eventhub-dev/eventhub/internal/repository"
)

// Empty fields are left to the form so that it reports its own message.

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Email     string `json:"email" validate:"omitempty,email,max=254"`
	Password  string `json:"password" validate:"max=128"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
}

// Fields returns the payload as form fields.
func (r RegisterRequest) Fields() form.FieldSet {
	return form.FieldSet{
		flows.FieldEmail:     r.Email,
		flows.FieldPassword:  r.Password,
		flows.FieldFirstName: r.FirstName,
		flows.FieldLastName:  r.LastName,
	}
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"max=254"`
	Password string `json:"password" validate:"max=128"`
}

// Fields returns the payload as form fields.
func (r LoginRequest) Fields() form.FieldSet {
	return form.FieldSet{
		flows.FieldEmail:    r.Email,
		flows.FieldPassword: r.Password,
	}
}

// ProfileRequest payload for profile edits.
type ProfileRequest struct {
	Email     string `json:"email" validate:"omitempty,email,max=254"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
}

// Fields returns the payload as form fields.
func (r ProfileRequest) Fields() form.FieldSet {
	return form.FieldSet{
		flows.FieldEmail:     r.Email,
		flows.FieldFirstName: r.FirstName,
		flows.FieldLastName:  r.LastName,
	}
}

// PasswordCheckRequest payload for the live password check.
type PasswordCheckRequest struct {
	Password string `json:"password" validate:"max=128"`
}

// PasswordCheckResponse reports every rule and the violated ones.
type PasswordCheckResponse struct {
	Valid    bool                  `json:"valid"`
	Errors   []string              `json:"errors"`
	Criteria auth.PasswordCriteria `json:"criteria"`
}

// NewPasswordCheckResponse evaluates pw.
func NewPasswordCheckResponse(pw string) PasswordCheckResponse {
	v := auth.ValidatePassword(pw)
	return PasswordCheckResponse{Valid: v.Valid, Errors: v.Errors, Criteria: auth.CheckCriteria(pw)}
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FormStatus renders a form status. A missing error is null.
type FormStatus struct {
	Loading        bool     `json:"loading"`
	Error          *string  `json:"error"`
	Success        bool     `json:"success"`
	PasswordErrors []string `json:"password_errors,omitempty"`
}

// NewFormStatus maps a controller status, flattening known extensions.
func NewFormStatus[S any](st form.Status[S]) FormStatus {
	out := FormStatus{Loading: st.Loading, Success: st.Success}
	if st.HasError() {
		msg := st.Error
		out.Error = &msg
	}
	if ext, ok := any(st.Ext).(flows.RegisterExt); ok {
		out.PasswordErrors = ext.PasswordErrors
	}
	return out
}

// ActivityResponse is one activity log entry.
type ActivityResponse struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Details   map[string]any `json:"details,omitempty"`
}

// NewActivityResponses maps activity entries.
func NewActivityResponses(entries []repository.Activity) []ActivityResponse {
	out := make([]ActivityResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ActivityResponse{ID: e.ID, Type: e.Type, Timestamp: e.Timestamp, Details: e.Details})
	}
	return out
}
