package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/eventhub-dev/eventhub/internal/api/dto"
	"github.com/eventhub-dev/eventhub/internal/auth"
	"github.com/eventhub-dev/eventhub/internal/domain"
	"github.com/eventhub-dev/eventhub/internal/flows"
	"github.com/eventhub-dev/eventhub/internal/form"
	"github.com/eventhub-dev/eventhub/internal/observability"
	"github.com/eventhub-dev/eventhub/internal/service"
	apperrors "github.com/eventhub-dev/eventhub/pkg/util/errorutil"
)

// Form names used in metrics.
const (
	formLogin    = "login"
	formRegister = "register"
	formProfile  = "profile"
)

// Edits are replayed in this order, password last so that the register
// form's live feedback reflects the submitted password.
var fieldOrder = []string{flows.FieldFirstName, flows.FieldLastName, flows.FieldEmail, flows.FieldPassword}

// UsersHandler exposes the account endpoints. Each request drives a fresh
// form controller through its edits and one submit.
type UsersHandler struct {
	auth     *service.AuthService
	activity *service.ActivityService
	metrics  *observability.Metrics
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, activity *service.ActivityService, metrics *observability.Metrics) *UsersHandler {
	return &UsersHandler{auth: authService, activity: activity, metrics: metrics}
}

// Register handles POST /auth/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	var session *domain.Session
	ctrl := flows.NewRegister(h.auth, func(s *domain.Session) { session = s })
	st, err := submitForm(c.UserContext(), ctrl, req.Fields())
	if err != nil {
		return err
	}
	if st.HasError() {
		return formFailure(h.metrics, formRegister, ctrl, st)
	}
	h.metrics.RecordFormOutcome(formRegister, "success")

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user":   dto.NewUserResponse(session.User),
			"auth":   dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
			"status": dto.NewFormStatus(st),
		},
	})
}

// Login handles POST /auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	var session *domain.Session
	ctrl := flows.NewLogin(h.auth, func(s *domain.Session) { session = s })
	st, err := submitForm(c.UserContext(), ctrl, req.Fields())
	if err != nil {
		return err
	}
	if st.HasError() {
		return formFailure(h.metrics, formLogin, ctrl, st)
	}
	h.metrics.RecordFormOutcome(formLogin, "success")

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user":   dto.NewUserResponse(session.User),
			"auth":   dto.AuthResponse{Token: session.Token, ExpiresAt: session.ExpiresAt},
			"status": dto.NewFormStatus(st),
		},
	})
}

// CheckPassword handles POST /auth/password/check.
func (h *UsersHandler) CheckPassword(c *fiber.Ctx) error {
	var req dto.PasswordCheckRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewPasswordCheckResponse(req.Password)})
}

// Me handles GET /users/me.
func (h *UsersHandler) Me(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized(flows.MsgNoCurrentUser)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"user": dto.NewUserResponse(user)}})
}

// UpdateMe handles PUT /users/me.
func (h *UsersHandler) UpdateMe(c *fiber.Ctx) error {
	var req dto.ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	current, _ := auth.UserFromContext(c)
	var updated *domain.User
	ctrl := flows.NewProfile(current, h.auth, func(u *domain.User) { updated = u })
	st, err := submitForm(c.UserContext(), ctrl, req.Fields())
	if err != nil {
		return err
	}
	if st.HasError() {
		return formFailure(h.metrics, formProfile, ctrl, st)
	}
	h.metrics.RecordFormOutcome(formProfile, "success")

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user":   dto.NewUserResponse(updated),
			"status": dto.NewFormStatus(st),
		},
	})
}

// Activity handles GET /users/me/activity.
func (h *UsersHandler) Activity(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized(flows.MsgNoCurrentUser)
	}
	entries, err := h.activity.Recent(c.UserContext(), user.ID, c.QueryInt("limit", service.DefaultActivityLimit))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewActivityResponses(entries)})
}

// submitForm replays the submitted values as edits, then submits once.
func submitForm[S any](ctx context.Context, ctrl *form.Controller[S], fields form.FieldSet) (form.Status[S], error) {
	for _, name := range fieldOrder {
		if value, ok := fields[name]; ok {
			ctrl.HandleChange(name, value)
		}
	}
	return ctrl.HandleSubmit(ctx)
}

// formFailure maps a failed submit onto the error envelope. Validation
// failures carry the form status so clients can render field feedback.
func formFailure[S any](metrics *observability.Metrics, name string, ctrl *form.Controller[S], st form.Status[S]) error {
	cause := ctrl.Err()
	var verr *form.ValidationError
	if errors.As(cause, &verr) {
		metrics.RecordFormOutcome(name, "invalid")
		return apperrors.NewValidationError(verr.Message, map[string]any{"status": dto.NewFormStatus(st)})
	}
	metrics.RecordFormOutcome(name, "failed")
	return apperrors.MapError(cause)
}
