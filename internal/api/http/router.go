package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/titan-observatory/internal/api/http/handlers"
	"github.com/spec-kit/titan-observatory/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Register       *handlers.RegisterHandler
	Session        *handlers.SessionHandler
	Posts          *handlers.PostsHandler
	Newsletter     *handlers.NewsletterHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/register", cfg.Register.Register)
	api.Post("/brevo", cfg.Newsletter.Subscribe)

	authGroup := api.Group("/auth")
	authGroup.Post("/signin", cfg.Session.SignIn)
	authGroup.Get("/session", cfg.AuthMiddleware.Handle, cfg.Session.Session)
	authGroup.Post("/refresh", cfg.AuthMiddleware.Handle, cfg.Session.Refresh)

	api.Get("/posts", cfg.Posts.ListPosts)
	api.Get("/posts/:slug", cfg.Posts.GetPost)

	requireAdmin := auth.RequireAdmin()
	api.Post("/posts", cfg.AuthMiddleware.Handle, requireAdmin, cfg.Posts.CreatePost)
	api.Put("/posts/:id", cfg.AuthMiddleware.Handle, requireAdmin, cfg.Posts.UpdatePost)
	api.Delete("/posts/:id", cfg.AuthMiddleware.Handle, requireAdmin, cfg.Posts.DeletePost)
}
