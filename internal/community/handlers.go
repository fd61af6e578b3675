// internal/community/handlers.go

package community

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/fittrackr/fittrackr-backend/internal/auth"
	"github.com/fittrackr/fittrackr-backend/internal/common/utils"
)

const maxMediaSize = 20 << 20 // 20 MB

// Handler handles community HTTP requests
type Handler struct {
	service Service
}

// NewHandler creates a community handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreatePost handles POST /community/posts
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var input CreatePostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	post, err := h.service.CreatePost(r.Context(), userID, &input)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusCreated, post)
}

// GetFeed handles GET /community/feed
func (h *Handler) GetFeed(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	q := r.URL.Query()
	skip, _ := strconv.Atoi(q.Get("skip"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	feed, err := h.service.GetFeed(r.Context(), userID, q.Get("tag"), skip, limit)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, feed)
}

// GetPost handles GET /community/posts/{postId}
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	postID, err := pathID(r, "postId")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	post, err := h.service.GetPost(r.Context(), postID, userID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, post)
}

// GetUserPosts handles GET /community/users/{userId}/posts
func (h *Handler) GetUserPosts(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	userID, err := pathID(r, "userId")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	posts, err := h.service.GetUserPosts(r.Context(), userID, viewerID, limit)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]interface{}{
		"posts": posts,
		"total": len(posts),
	})
}

// DeletePost handles DELETE /community/posts/{postId}
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	postID, err := pathID(r, "postId")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	if err := h.service.DeletePost(r.Context(), postID, userID); err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Post deleted")
}

// LikePost handles POST /community/posts/{postId}/like
func (h *Handler) LikePost(w http.ResponseWriter, r *http.Request) {
	h.toggleLike(w, r, true)
}

// UnlikePost handles DELETE /community/posts/{postId}/like
func (h *Handler) UnlikePost(w http.ResponseWriter, r *http.Request) {
	h.toggleLike(w, r, false)
}

func (h *Handler) toggleLike(w http.ResponseWriter, r *http.Request, like bool) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	postID, err := pathID(r, "postId")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	if like {
		err = h.service.LikePost(r.Context(), postID, userID)
	} else {
		err = h.service.UnlikePost(r.Context(), postID, userID)
	}
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "OK")
}

// AddComment handles POST /community/posts/{postId}/comments
func (h *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	postID, err := pathID(r, "postId")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}

	var input CreateCommentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	comment, err := h.service.AddComment(r.Context(), postID, userID, &input)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusCreated, comment)
}

// GetComments handles GET /community/posts/{postId}/comments
func (h *Handler) GetComments(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r, "postId")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid post ID")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	comments, err := h.service.GetComments(r.Context(), postID, limit)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]interface{}{
		"comments": comments,
		"total":    len(comments),
	})
}

// DeleteComment handles DELETE /community/comments/{commentId}
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	commentID, err := pathID(r, "commentId")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid comment ID")
		return
	}

	if err := h.service.DeleteComment(r.Context(), commentID, userID); err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Comment deleted")
}

// UploadMedia handles POST /community/media
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.GetUserIDFromContext(r.Context()); !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxMediaSize); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "File too large or malformed")
		return
	}
	file, header, err := r.FormFile("media")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing media file")
		return
	}
	defer file.Close()

	url, err := h.service.UploadMedia(r.Context(), file, header)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]string{"media_url": url})
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrPostNotFound), errors.Is(err, ErrCommentNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}
