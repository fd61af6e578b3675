// internal/workouts/routes.go

package workouts

import (
	"github.com/gorilla/mux"

	"github.com/fittrackr/fittrackr-backend/internal/auth"
)

// RegisterRoutes mounts the workout endpoints
func RegisterRoutes(router *mux.Router, handler *Handler, middleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/workouts").Subrouter()
	api.Use(middleware.Authenticate)

	api.HandleFunc("/plans/public", handler.BrowsePublicPlans).Methods("GET")
	api.HandleFunc("/plans", handler.CreatePlan).Methods("POST")
	api.HandleFunc("/plans", handler.ListMyPlans).Methods("GET")
	api.HandleFunc("/plans/{planId:[0-9]+}", handler.GetPlan).Methods("GET")
	api.HandleFunc("/plans/{planId:[0-9]+}", handler.UpdatePlan).Methods("PUT")
	api.HandleFunc("/plans/{planId:[0-9]+}", handler.DeletePlan).Methods("DELETE")

	api.HandleFunc("/sessions", handler.LogSession).Methods("POST")
	api.HandleFunc("/sessions", handler.ListSessions).Methods("GET")
	api.HandleFunc("/stats", handler.GetStats).Methods("GET")
}
