package flows

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/eventhub-dev/eventhub/internal/auth"
	"github.com/eventhub-dev/eventhub/internal/config"
	"github.com/eventhub-dev/eventhub/internal/domain"
	"github.com/eventhub-dev/eventhub/internal/events"
	"github.com/eventhub-dev/eventhub/internal/form"
	"github.com/eventhub-dev/eventhub/internal/repository"
	"github.com/eventhub-dev/eventhub/internal/service"
)

const validPassword = "ValidPassword123!"

func newAuthService(t *testing.T) (*service.AuthService, repository.UserRepository) {
	t.Helper()
	users := repository.NewMemoryUserRepository()
	cfg := config.Config{Auth: config.AuthConfig{JWTSecret: "test", AccessTokenTTLMinutes: 5, BcryptCost: 4}}
	return service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:   users,
		Dispatcher: events.NewInMemoryDispatcher(zap.NewNop()),
	}), users
}

func fill[S any](c *form.Controller[S], values map[string]string) {
	for _, k := range []string{FieldFirstName, FieldLastName, FieldEmail, FieldPassword} {
		if v, ok := values[k]; ok {
			c.HandleChange(k, v)
		}
	}
}

func TestLoginFlow(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, domain.Registration{Email: "john@example.com", Password: validPassword, FirstName: "John", LastName: "Doe"})
	require.NoError(t, err)

	var session *domain.Session
	c := NewLogin(svc, func(s *domain.Session) { session = s })

	st, err := c.HandleSubmit(ctx)
	require.NoError(t, err)
	assert.Equal(t, MsgFillAllFields, st.Error)

	fill(c, map[string]string{FieldEmail: "john@example.com", FieldPassword: "wrong"})
	st, err = c.HandleSubmit(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.MsgInvalidCredentials, st.Error)
	assert.False(t, st.Loading)
	assert.Nil(t, session)

	c.HandleChange(FieldPassword, validPassword)
	st, err = c.HandleSubmit(ctx)
	require.NoError(t, err)
	assert.True(t, st.Success)
	require.NotNil(t, session)
	assert.Equal(t, "john@example.com", session.User.Email)
	assert.Equal(t, form.FieldSet{FieldEmail: "", FieldPassword: ""}, c.Fields())
}

func TestRegisterFlowLivePasswordFeedback(t *testing.T) {
	svc, _ := newAuthService(t)
	c := NewRegister(svc, nil)

	assert.Equal(t, []string{}, c.Status().Ext.PasswordErrors)

	c.HandleChange(FieldPassword, "short")
	assert.Equal(t, auth.ValidatePassword("short").Errors, c.Status().Ext.PasswordErrors)

	c.HandleChange(FieldPassword, validPassword)
	assert.Empty(t, c.Status().Ext.PasswordErrors)

	c.HandleChange(FieldFirstName, "John")
	assert.Empty(t, c.Status().Ext.PasswordErrors)
}

func TestRegisterFlowValidation(t *testing.T) {
	svc, users := newAuthService(t)
	ctx := context.Background()
	c := NewRegister(svc, nil)

	fill(c, map[string]string{FieldFirstName: "John"})
	st, err := c.HandleSubmit(ctx)
	require.NoError(t, err)
	assert.Equal(t, MsgFillAllFields, st.Error)

	fill(c, map[string]string{FieldLastName: "Doe", FieldEmail: "test@example.com", FieldPassword: "short"})
	st, err = c.HandleSubmit(ctx)
	require.NoError(t, err)
	assert.Equal(t, MsgPasswordCriteria, st.Error)
	assert.NotEmpty(t, st.Ext.PasswordErrors)

	exists, err := users.EmailExists(ctx, "test@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRegisterFlowDuplicateEmail(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	_, err := svc.Register(ctx, domain.Registration{Email: "existing@example.com", Password: validPassword, FirstName: "E", LastName: "U"})
	require.NoError(t, err)

	c := NewRegister(svc, nil)
	fill(c, map[string]string{FieldFirstName: "John", FieldLastName: "Doe", FieldEmail: "existing@example.com", FieldPassword: validPassword})

	st, err := c.HandleSubmit(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.MsgEmailInUse, st.Error)
}

func TestRegisterFlowSuccess(t *testing.T) {
	svc, users := newAuthService(t)
	ctx := context.Background()
	var session *domain.Session
	c := NewRegister(svc, func(s *domain.Session) { session = s })

	fill(c, map[string]string{FieldFirstName: "John", FieldLastName: "Doe", FieldEmail: "new@example.com", FieldPassword: validPassword})
	require.True(t, RegisterReady(c.Fields()))

	st, err := c.HandleSubmit(ctx)
	require.NoError(t, err)
	assert.True(t, st.Success)
	require.NotNil(t, session)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "", c.Fields()[FieldEmail])

	exists, err := users.EmailExists(ctx, "new@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestProfileFlow(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()
	john, err := svc.Register(ctx, domain.Registration{Email: "john@example.com", Password: validPassword, FirstName: "John", LastName: "Doe"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, domain.Registration{Email: "jane@example.com", Password: validPassword, FirstName: "Jane", LastName: "Doe"})
	require.NoError(t, err)

	var updated *domain.User
	c := NewProfile(john.User, svc, func(u *domain.User) { updated = u })
	assert.Equal(t, form.FieldSet{FieldEmail: "john@example.com", FieldFirstName: "John", FieldLastName: "Doe"}, c.Fields())

	c.HandleChange(FieldFirstName, "")
	st, err := c.HandleSubmit(ctx)
	require.NoError(t, err)
	assert.Equal(t, MsgFillAllFields, st.Error)

	c.HandleChange(FieldFirstName, "Johnny")
	c.HandleChange(FieldEmail, "jane@example.com")
	st, err = c.HandleSubmit(ctx)
	require.NoError(t, err)
	assert.Equal(t, service.MsgEmailInUse, st.Error)

	c.HandleChange(FieldEmail, "john@example.com")
	st, err = c.HandleSubmit(ctx)
	require.NoError(t, err)
	assert.True(t, st.Success)
	require.NotNil(t, updated)
	assert.Equal(t, "Johnny", updated.FirstName)
	assert.Equal(t, "Johnny", c.Fields()[FieldFirstName])
}

func TestProfileFlowWithoutUser(t *testing.T) {
	svc, _ := newAuthService(t)
	c := NewProfile(nil, svc, nil)
	fill(c, map[string]string{FieldEmail: "a@b.c", FieldFirstName: "A", FieldLastName: "B"})

	st, err := c.HandleSubmit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, MsgNoCurrentUser, st.Error)
}

func TestProfileFlowDeletedUser(t *testing.T) {
	svc, _ := newAuthService(t)
	c := NewProfile(&domain.User{ID: "gone", Email: "gone@example.com", FirstName: "G", LastName: "One"}, svc, nil)

	st, err := c.HandleSubmit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, MsgProfileUpdateFailed, st.Error)
}

func TestReadiness(t *testing.T) {
	assert.False(t, LoginReady(form.FieldSet{FieldEmail: "a@b.c"}))
	assert.True(t, LoginReady(form.FieldSet{FieldEmail: "a@b.c", FieldPassword: "x"}))

	reg := form.FieldSet{FieldEmail: "a@b.c", FieldPassword: "short", FieldFirstName: "A", FieldLastName: "B"}
	assert.False(t, RegisterReady(reg))
	assert.True(t, RegisterReady(reg.With(FieldPassword, validPassword)))

	assert.False(t, ProfileReady(form.FieldSet{FieldEmail: "a@b.c", FieldFirstName: "A"}))
	assert.True(t, ProfileReady(form.FieldSet{FieldEmail: "a@b.c", FieldFirstName: "A", FieldLastName: "B"}))
}
