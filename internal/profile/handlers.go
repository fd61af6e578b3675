// internal/profile/handlers.go

package profile

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fittrackr/fittrackr-backend/internal/auth"
	"github.com/fittrackr/fittrackr-backend/internal/common/utils"
)

const maxAvatarSize = 5 << 20 // 5 MB

// Handler handles profile HTTP requests
type Handler struct {
	service Service
}

// NewHandler creates a profile handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// SetupProfile handles POST /profile/setup
func (h *Handler) SetupProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var input SetupProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.service.SetupProfile(r.Context(), userID, &input)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusCreated, p)
}

// GetMyProfile handles GET /profile
func (h *Handler) GetMyProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	p, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, p)
}

// GetUserProfile handles GET /users/{id}/profile
func (h *Handler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	p, err := h.service.GetProfile(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, p)
}

// UpdateProfile handles PUT /profile
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var input UpdateProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, err := h.service.UpdateProfile(r.Context(), userID, &input)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, p)
}

// UpdateLocation handles PUT /profile/location
func (h *Handler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var input UpdateLocationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.UpdateLocation(r.Context(), userID, &input); err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Location updated")
}

// UploadAvatar handles POST /profile/avatar
func (h *Handler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "File too large or malformed")
		return
	}
	file, header, err := r.FormFile("avatar")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Missing avatar file")
		return
	}
	defer file.Close()

	url, err := h.service.UploadAvatar(r.Context(), userID, file, header)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]string{"avatar_url": url})
}

// GetCompletion handles GET /profile/completion
func (h *Handler) GetCompletion(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	completion, err := h.service.GetCompletion(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, completion)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrProfileAlreadyExists):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
