// internal/profile/routes.go

package profile

import (
	"github.com/go-chi/chi/v5"

	"github.com/fittrackr/fittrackr-backend/internal/auth"
)

// RegisterRoutes registers all profile routes
func RegisterRoutes(r chi.Router, handler *Handler, middleware *auth.Middleware) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate)

		r.Post("/api/v1/profile/setup", handler.SetupProfile)
		r.Get("/api/v1/profile", handler.GetMyProfile)
		r.Put("/api/v1/profile", handler.UpdateProfile)
		r.Put("/api/v1/profile/location", handler.UpdateLocation)
		r.Post("/api/v1/profile/avatar", handler.UploadAvatar)
		r.Get("/api/v1/profile/completion", handler.GetCompletion)

		r.Get("/api/v1/users/{id}/profile", handler.GetUserProfile)
	})
}
