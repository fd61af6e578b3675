// internal/buddies/routes.go

package buddies

import (
	"github.com/gorilla/mux"

	"github.com/fittrackr/fittrackr-backend/internal/auth"
)

// RegisterRoutes mounts the buddy matching endpoints. All routes require
// authentication.
func RegisterRoutes(router *mux.Router, handler *Handler, middleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/buddies").Subrouter()
	api.Use(middleware.Authenticate)

	// Discovery
	api.HandleFunc("/recommendations", handler.GetRecommendations).Methods("GET")
	api.HandleFunc("/nearby", handler.GetNearby).Methods("GET")
	api.HandleFunc("/similar", handler.GetSimilar).Methods("GET")
	api.HandleFunc("/match-info/{userId:[0-9]+}", handler.GetMatchInfo).Methods("GET")
	api.HandleFunc("/stats", handler.GetStats).Methods("GET")

	// Requests
	api.HandleFunc("/requests", handler.SendRequest).Methods("POST")
	api.HandleFunc("/requests/sent", handler.ListSentRequests).Methods("GET")
	api.HandleFunc("/requests/received", handler.ListReceivedRequests).Methods("GET")
	api.HandleFunc("/requests/{requestId:[0-9]+}/respond", handler.RespondToRequest).Methods("POST")
	api.HandleFunc("/requests/{requestId:[0-9]+}", handler.CancelRequest).Methods("DELETE")

	// Relationships
	api.HandleFunc("", handler.ListBuddies).Methods("GET")
	api.HandleFunc("/{relationshipId:[0-9]+}", handler.UpdateRelationship).Methods("PATCH")
	api.HandleFunc("/{relationshipId:[0-9]+}/workouts", handler.RecordWorkout).Methods("POST")
	api.HandleFunc("/{relationshipId:[0-9]+}/rate", handler.RateBuddy).Methods("POST")
}
