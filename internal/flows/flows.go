// Package flows wires the EventHub login, registration and profile forms
// onto form.Controller.
package flows

import (
	"context"
	"errors"
	"net/http"

	"github.com/eventhub-dev/eventhub/internal/auth"
	"github.com/eventhub-dev/eventhub/internal/domain"
	"github.com/eventhub-dev/eventhub/internal/form"
	apperrors "github.com/eventhub-dev/eventhub/pkg/util/errorutil"
)

// Field names.
const (
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldFirstName = "firstName"
	FieldLastName  = "lastName"
)

// Validation and failure messages.
const (
	MsgFillAllFields       = "please fill in all fields"
	MsgPasswordCriteria    = "password does not meet the required criteria"
	MsgNoCurrentUser       = "no user logged in"
	MsgProfileUpdateFailed = "profile update failed"
)

// None is the status extension of forms without domain feedback.
type None struct{}

// RegisterExt carries live password feedback for the register form.
type RegisterExt struct {
	PasswordErrors []string `json:"password_errors"`
}

// Authenticator checks credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*domain.Session, error)
}

// Registrar creates accounts.
type Registrar interface {
	Register(ctx context.Context, reg domain.Registration) (*domain.Session, error)
}

// ProfileUpdater persists profile edits.
type ProfileUpdater interface {
	UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (*domain.User, error)
}

func filled(f form.FieldSet, fields ...string) bool {
	for _, name := range fields {
		if f[name] == "" {
			return false
		}
	}
	return true
}

// LoginReady reports whether the login form may be submitted.
func LoginReady(f form.FieldSet) bool {
	return filled(f, FieldEmail, FieldPassword)
}

// RegisterReady reports whether the register form may be submitted.
func RegisterReady(f form.FieldSet) bool {
	return filled(f, FieldEmail, FieldPassword, FieldFirstName, FieldLastName) &&
		auth.ValidatePassword(f[FieldPassword]).Valid
}

// ProfileReady reports whether the profile form may be submitted.
func ProfileReady(f form.FieldSet) bool {
	return filled(f, FieldEmail, FieldFirstName, FieldLastName)
}

// NewLogin builds the login form. onLogin receives the session before
// the form reports success.
func NewLogin(authn Authenticator, onLogin func(*domain.Session)) *form.Controller[None] {
	return form.New(form.Options[None]{
		InitialState: form.FieldSet{FieldEmail: "", FieldPassword: ""},
		Validate: func(f form.FieldSet) string {
			if !LoginReady(f) {
				return MsgFillAllFields
			}
			return ""
		},
		OnSubmit: func(ctx context.Context, f form.FieldSet) error {
			session, err := authn.Authenticate(ctx, f[FieldEmail], f[FieldPassword])
			if err != nil {
				return err
			}
			if onLogin != nil {
				onLogin(session)
			}
			return nil
		},
		ResetOnSuccess: true,
	})
}

// NewRegister builds the registration form. Password changes refresh the
// list of violated password rules.
func NewRegister(reg Registrar, onRegistered func(*domain.Session)) *form.Controller[RegisterExt] {
	return form.New(form.Options[RegisterExt]{
		InitialState: form.FieldSet{FieldEmail: "", FieldPassword: "", FieldFirstName: "", FieldLastName: ""},
		InitialExt:   RegisterExt{PasswordErrors: []string{}},
		Validate: func(f form.FieldSet) string {
			if !filled(f, FieldEmail, FieldPassword, FieldFirstName, FieldLastName) {
				return MsgFillAllFields
			}
			if !auth.ValidatePassword(f[FieldPassword]).Valid {
				return MsgPasswordCriteria
			}
			return ""
		},
		OnSubmit: func(ctx context.Context, f form.FieldSet) error {
			session, err := reg.Register(ctx, domain.Registration{
				Email:     f[FieldEmail],
				Password:  f[FieldPassword],
				FirstName: f[FieldFirstName],
				LastName:  f[FieldLastName],
			})
			if err != nil {
				return err
			}
			if onRegistered != nil {
				onRegistered(session)
			}
			return nil
		},
		ResetOnSuccess: true,
		OnFieldChange: func(ch form.FieldChange) form.StatusPatch[RegisterExt] {
			if ch.Field != FieldPassword {
				return nil
			}
			violations := auth.ValidatePassword(ch.Value).Errors
			return func(ext RegisterExt) RegisterExt {
				ext.PasswordErrors = violations
				return ext
			}
		},
	})
}

// NewProfile builds the profile form seeded from current, which may be
// nil when nobody is signed in.
func NewProfile(current *domain.User, upd ProfileUpdater, onUpdated func(*domain.User)) *form.Controller[None] {
	initial := form.FieldSet{FieldEmail: "", FieldFirstName: "", FieldLastName: ""}
	if current != nil {
		initial = form.FieldSet{
			FieldEmail:     current.Email,
			FieldFirstName: current.FirstName,
			FieldLastName:  current.LastName,
		}
	}

	return form.New(form.Options[None]{
		InitialState: initial,
		Validate: func(f form.FieldSet) string {
			if current == nil {
				return MsgNoCurrentUser
			}
			if !ProfileReady(f) {
				return MsgFillAllFields
			}
			return ""
		},
		OnSubmit: func(ctx context.Context, f form.FieldSet) error {
			if current == nil {
				return errors.New(MsgNoCurrentUser)
			}
			user, err := upd.UpdateProfile(ctx, current.ID, domain.ProfileUpdate{
				Email:     f[FieldEmail],
				FirstName: f[FieldFirstName],
				LastName:  f[FieldLastName],
			})
			if err != nil {
				var de *apperrors.DomainError
				if errors.As(err, &de) && de.HTTPStatus == http.StatusNotFound {
					return apperrors.NewDomainError("PROFILE_UPDATE_FAILED", MsgProfileUpdateFailed, http.StatusNotFound, nil)
				}
				return err
			}
			if user == nil {
				return errors.New(MsgProfileUpdateFailed)
			}
			if onUpdated != nil {
				onUpdated(user)
			}
			return nil
		},
	})
}
