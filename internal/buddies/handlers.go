// internal/buddies/handlers.go

package buddies

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/fittrackr/fittrackr-backend/internal/auth"
	"github.com/fittrackr/fittrackr-backend/internal/common/utils"
)

// Handler handles buddy matching HTTP requests
type Handler struct {
	service Service
}

// NewHandler creates a buddies handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// GetRecommendations handles GET /buddies/recommendations
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	params := searchParamsFromQuery(r)
	if err := utils.ValidateStruct(params); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.GetRecommendations(r.Context(), userID, params)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, resp)
}

// GetNearby handles GET /buddies/nearby
func (h *Handler) GetNearby(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	radius, _ := strconv.ParseFloat(r.URL.Query().Get("radius"), 64)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	matches, err := h.service.GetNearby(r.Context(), userID, radius, limit)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
		"total":   len(matches),
	})
}

// GetSimilar handles GET /buddies/similar
func (h *Handler) GetSimilar(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	matches, err := h.service.GetSimilar(r.Context(), userID, limit)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]interface{}{
		"matches": matches,
		"total":   len(matches),
	})
}

// GetMatchInfo handles GET /buddies/match-info/{userId}
func (h *Handler) GetMatchInfo(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	otherID, err := pathID(r, "userId")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	info, err := h.service.GetMatchInfo(r.Context(), userID, otherID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, info)
}

// SendRequest handles POST /buddies/requests
func (h *Handler) SendRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var input SendRequestInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	req, err := h.service.SendRequest(r.Context(), userID, &input)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusCreated, req)
}

// RespondToRequest handles POST /buddies/requests/{requestId}/respond
func (h *Handler) RespondToRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	requestID, err := pathID(r, "requestId")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request ID")
		return
	}

	var input RespondInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	req, err := h.service.RespondToRequest(r.Context(), userID, requestID, &input)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, req)
}

// CancelRequest handles DELETE /buddies/requests/{requestId}
func (h *Handler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	requestID, err := pathID(r, "requestId")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request ID")
		return
	}

	if err := h.service.CancelRequest(r.Context(), userID, requestID); err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Buddy request cancelled")
}

// ListSentRequests handles GET /buddies/requests/sent
func (h *Handler) ListSentRequests(w http.ResponseWriter, r *http.Request) {
	h.listRequests(w, r, true)
}

// ListReceivedRequests handles GET /buddies/requests/received
func (h *Handler) ListReceivedRequests(w http.ResponseWriter, r *http.Request) {
	h.listRequests(w, r, false)
}

func (h *Handler) listRequests(w http.ResponseWriter, r *http.Request, sent bool) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	status := r.URL.Query().Get("status")

	var (
		requests []*BuddyRequest
		err      error
	)
	if sent {
		requests, err = h.service.ListSentRequests(r.Context(), userID, status)
	} else {
		requests, err = h.service.ListReceivedRequests(r.Context(), userID, status)
	}
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, RequestListResponse{
		Requests: requests,
		Total:    len(requests),
	})
}

// ListBuddies handles GET /buddies
func (h *Handler) ListBuddies(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	status := r.URL.Query().Get("status")

	buddies, err := h.service.ListBuddies(r.Context(), userID, status)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, RelationshipListResponse{
		Buddies: buddies,
		Total:   len(buddies),
	})
}

// UpdateRelationship handles PATCH /buddies/{relationshipId}
func (h *Handler) UpdateRelationship(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	relationshipID, err := pathID(r, "relationshipId")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid relationship ID")
		return
	}

	var input UpdateRelationshipInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	rel, err := h.service.UpdateRelationship(r.Context(), userID, relationshipID, &input)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, rel)
}

// RecordWorkout handles POST /buddies/{relationshipId}/workouts
func (h *Handler) RecordWorkout(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	relationshipID, err := pathID(r, "relationshipId")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid relationship ID")
		return
	}

	rel, err := h.service.RecordWorkout(r.Context(), userID, relationshipID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, rel)
}

// RateBuddy handles POST /buddies/{relationshipId}/rate
func (h *Handler) RateBuddy(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	relationshipID, err := pathID(r, "relationshipId")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid relationship ID")
		return
	}

	var input RateBuddyInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.service.RateBuddy(r.Context(), userID, relationshipID, input.Rating); err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Buddy rated")
}

// GetStats handles GET /buddies/stats
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	stats, err := h.service.GetStats(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, stats)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrProfileNotFound),
		errors.Is(err, ErrRequestNotFound),
		errors.Is(err, ErrRelationshipNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrCannotRequestSelf),
		errors.Is(err, ErrRequestAlreadyPending),
		errors.Is(err, ErrAlreadyBuddies):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrRequestNotPending):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotRequestTarget),
		errors.Is(err, ErrNotRelationshipMember):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}

func searchParamsFromQuery(r *http.Request) SearchParams {
	q := r.URL.Query()
	params := SearchParams{
		FitnessLevel: q.Get("fitness_level"),
		FitnessGoal:  q.Get("fitness_goal"),
	}
	if tags, ok := q["fitness_tags"]; ok {
		params.FitnessTags = tags
	}
	params.AgeMin, _ = strconv.Atoi(q.Get("age_min"))
	params.AgeMax, _ = strconv.Atoi(q.Get("age_max"))
	params.MaxDistance, _ = strconv.ParseFloat(q.Get("max_distance"), 64)
	params.Skip, _ = strconv.Atoi(q.Get("skip"))
	params.Limit, _ = strconv.Atoi(q.Get("limit"))
	return params
}
