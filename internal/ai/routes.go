// internal/ai/routes.go

package ai

import (
	"github.com/gorilla/mux"

	"github.com/fittrackr/fittrackr-backend/internal/auth"
)

// RegisterRoutes mounts the AI advice endpoints
func RegisterRoutes(router *mux.Router, handler *Handler, middleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/ai").Subrouter()
	api.Use(middleware.Authenticate)

	api.HandleFunc("/coach", handler.AskCoach).Methods("POST")
	api.HandleFunc("/coach/weekly-plan", handler.WeeklyPlan).Methods("POST")
	api.HandleFunc("/nutrition", handler.AskNutritionist).Methods("POST")
}
