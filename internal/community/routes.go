// internal/community/routes.go

package community

import (
	"github.com/gorilla/mux"

	"github.com/fittrackr/fittrackr-backend/internal/auth"
)

// RegisterRoutes mounts the community endpoints
func RegisterRoutes(router *mux.Router, handler *Handler, middleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/community").Subrouter()
	api.Use(middleware.Authenticate)

	api.HandleFunc("/feed", handler.GetFeed).Methods("GET")
	api.HandleFunc("/posts", handler.CreatePost).Methods("POST")
	api.HandleFunc("/posts/{postId:[0-9]+}", handler.GetPost).Methods("GET")
	api.HandleFunc("/posts/{postId:[0-9]+}", handler.DeletePost).Methods("DELETE")
	api.HandleFunc("/posts/{postId:[0-9]+}/like", handler.LikePost).Methods("POST")
	api.HandleFunc("/posts/{postId:[0-9]+}/like", handler.UnlikePost).Methods("DELETE")
	api.HandleFunc("/posts/{postId:[0-9]+}/comments", handler.AddComment).Methods("POST")
	api.HandleFunc("/posts/{postId:[0-9]+}/comments", handler.GetComments).Methods("GET")
	api.HandleFunc("/comments/{commentId:[0-9]+}", handler.DeleteComment).Methods("DELETE")
	api.HandleFunc("/users/{userId:[0-9]+}/posts", handler.GetUserPosts).Methods("GET")
	api.HandleFunc("/media", handler.UploadMedia).Methods("POST")
}
