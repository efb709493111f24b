package routes

import (
	"github.com/foliohq/folio-api/internal/auth"
	"github.com/foliohq/folio-api/internal/handlers"
	"github.com/foliohq/folio-api/internal/middleware"
	"github.com/go-chi/chi/v5"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	contentHandler *handlers.ContentHandler,
	tokenManager *auth.TokenManager,
	admins auth.AdminLoader,
) {
	authRateLimit := middleware.RateLimitByIP(middleware.DefaultAuthRateLimit())
	contactRateLimit := middleware.RateLimitByIP(middleware.DefaultContactRateLimit())

	router.Route("/api", func(r chi.Router) {
		// Public auth routes
		r.With(authRateLimit).Post("/auth/login", authHandler.Login)
		r.With(authRateLimit).Post("/auth/refresh", authHandler.Refresh)

		// Public portfolio content. OptionalAuth attaches the principal when a
		// valid token is present but never rejects anonymous readers.
		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth(tokenManager, admins))

			r.Get("/projects", contentHandler.ListProjects)
			r.Get("/projects/{id}", contentHandler.GetProject)
			r.Get("/technologies", contentHandler.ListTechnologies)
			r.Get("/experience", contentHandler.ListExperience)
			r.Get("/education", contentHandler.ListEducation)
		})

		r.With(contactRateLimit).Post("/contact", contentHandler.SubmitContact)

		// Protected routes - valid access token plus admin role required
		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate(tokenManager, admins))
			r.Use(auth.RequireAdmin())

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/verify", authHandler.Verify)
			r.Get("/auth/profile", authHandler.GetProfile)
			r.Put("/auth/profile", authHandler.UpdateProfile)
			r.Put("/auth/change-password", authHandler.ChangePassword)

			r.Post("/projects", contentHandler.CreateProject)
			r.Put("/projects/{id}", contentHandler.UpdateProject)
			r.Delete("/projects/{id}", contentHandler.DeleteProject)

			r.Post("/technologies", contentHandler.CreateTechnology)
			r.Put("/technologies/{id}", contentHandler.UpdateTechnology)
			r.Delete("/technologies/{id}", contentHandler.DeleteTechnology)

			r.Post("/experience", contentHandler.CreateExperience)
			r.Put("/experience/{id}", contentHandler.UpdateExperience)
			r.Delete("/experience/{id}", contentHandler.DeleteExperience)

			r.Post("/education", contentHandler.CreateEducation)
			r.Put("/education/{id}", contentHandler.UpdateEducation)
			r.Delete("/education/{id}", contentHandler.DeleteEducation)

			r.Get("/messages", contentHandler.ListMessages)
			r.Put("/messages/{id}/read", contentHandler.MarkMessageRead)
			r.Delete("/messages/{id}", contentHandler.DeleteMessage)
		})
	})
}
