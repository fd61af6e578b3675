// internal/bmi/routes.go

package bmi

import (
	"github.com/gorilla/mux"

	"github.com/fittrackr/fittrackr-backend/internal/auth"
)

// RegisterRoutes mounts the BMI endpoints. The stateless calculator is
// public; stored records require authentication.
func RegisterRoutes(router *mux.Router, handler *Handler, middleware *auth.Middleware) {
	router.HandleFunc("/api/v1/bmi/calculate", handler.Calculate).Methods("POST")

	api := router.PathPrefix("/api/v1/bmi").Subrouter()
	api.Use(middleware.Authenticate)
	api.HandleFunc("/records", handler.RecordMeasurement).Methods("POST")
	api.HandleFunc("/records", handler.History).Methods("GET")
	api.HandleFunc("/trend", handler.GetTrend).Methods("GET")
}
