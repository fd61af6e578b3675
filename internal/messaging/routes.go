// internal/messaging/routes.go

package messaging

import (
	"github.com/gorilla/mux"

	"github.com/fittrackr/fittrackr-backend/internal/auth"
)

// RegisterRoutes mounts the messaging endpoints
func RegisterRoutes(router *mux.Router, handler *Handler, middleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/messages").Subrouter()
	api.Use(middleware.Authenticate)

	api.HandleFunc("", handler.SendMessage).Methods("POST")
	api.HandleFunc("/conversations", handler.ListConversations).Methods("GET")
	api.HandleFunc("/conversations/{conversationId:[0-9]+}", handler.GetMessages).Methods("GET")
	api.HandleFunc("/conversations/{conversationId:[0-9]+}/read", handler.MarkRead).Methods("POST")
	api.HandleFunc("/ws", handler.ServeWS).Methods("GET")
}
