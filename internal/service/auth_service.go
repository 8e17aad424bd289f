package service

import (
	"context"
	"errors"

	"github.com/eventhub-dev/eventhub/internal/auth"
	"github.com/eventhub-dev/eventhub/internal/config"
	"github.com/eventhub-dev/eventhub/internal/domain"
	"github.com/eventhub-dev/eventhub/internal/events"
	"github.com/eventhub-dev/eventhub/internal/repository"
	apperrors "github.com/eventhub-dev/eventhub/pkg/util/errorutil"
)

// User-facing failure messages.
const (
	MsgEmailInUse         = "email already in use"
	MsgInvalidCredentials = "incorrect email or password"
)

// AuthService coordinates registration, login and profile flows.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	dispatcher events.Dispatcher
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		dispatcher: deps.Dispatcher,
	}
}

// Register creates a new account and opens a session for it.
func (s *AuthService) Register(ctx context.Context, reg domain.Registration) (*domain.Session, error) {
	exists, err := s.users.EmailExists(ctx, reg.Email)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if exists {
		return nil, apperrors.NewConflict(MsgEmailInUse, map[string]any{"field": "email"})
	}

	hash, err := auth.HashPassword(reg.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Email:        reg.Email,
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, apperrors.NewConflict(MsgEmailInUse, map[string]any{"field": "email"})
		}
		return nil, apperrors.NewInternalError(err)
	}

	session, err := s.openSession(user)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.New(events.EventUserRegistered, user.ID, events.UserRegisteredPayload{Email: user.Email}))
	return session, nil
}

// Authenticate checks credentials and opens a session.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*domain.Session, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized(MsgInvalidCredentials)
		}
		return nil, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized(MsgInvalidCredentials)
	}

	session, err := s.openSession(user)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.New(events.EventUserLoggedIn, user.ID, nil))
	return session, nil
}

// UpdateProfile replaces the profile fields of a user.
func (s *AuthService) UpdateProfile(ctx context.Context, userID string, upd domain.ProfileUpdate) (*domain.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	oldEmail := user.Email
	upd.Apply(user)
	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, apperrors.NewConflict(MsgEmailInUse, map[string]any{"field": "email"})
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.New(events.EventProfileUpdated, user.ID, events.ProfileUpdatedPayload{
		OldEmail: oldEmail,
		NewEmail: user.Email,
	}))
	return user, nil
}

// GetUser loads a user by id.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) openSession(user *domain.User) (*domain.Session, error) {
	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &domain.Session{User: user, Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
