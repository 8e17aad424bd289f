package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eventhub-dev/eventhub/internal/api/http/handlers"
	"github.com/eventhub-dev/eventhub/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Status         *handlers.StatusHandler
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Polls          *handlers.PollsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/", cfg.Status.Root)

	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Users.Register)
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/password/check", cfg.Users.CheckPassword)

	me := app.Group("/users/me", cfg.AuthMiddleware.Handle)
	me.Get("/", cfg.Users.Me)
	me.Put("/", cfg.Users.UpdateMe)
	me.Get("/activity", cfg.Users.Activity)

	polls := app.Group("/polls")
	polls.Post("/drafts", cfg.Polls.CreateDraft)
	polls.Get("/drafts/:id", cfg.Polls.GetDraft)
	polls.Put("/drafts/:id/title", cfg.Polls.SetTitle)
	polls.Post("/drafts/:id/questions", cfg.Polls.AddQuestion)
	polls.Put("/drafts/:id/questions/:qid", cfg.Polls.UpdateQuestion)
	polls.Delete("/drafts/:id/questions/:qid", cfg.Polls.RemoveQuestion)
	polls.Post("/drafts/:id/questions/:qid/answers", cfg.Polls.AddAnswer)
	polls.Put("/drafts/:id/questions/:qid/answers/:aid", cfg.Polls.UpdateAnswer)
	polls.Delete("/drafts/:id/questions/:qid/answers/:aid", cfg.Polls.RemoveAnswer)
	polls.Post("/drafts/:id/publish", cfg.Polls.Publish)
	polls.Get("/:id", cfg.Polls.GetPoll)
}
