// internal/workouts/handlers.go

package workouts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/fittrackr/fittrackr-backend/internal/auth"
	"github.com/fittrackr/fittrackr-backend/internal/common/utils"
)

// Handler handles workout HTTP requests
type Handler struct {
	service Service
}

// NewHandler creates a workouts handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// CreatePlan handles POST /workouts/plans
func (h *Handler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var input CreatePlanInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.service.CreatePlan(r.Context(), userID, &input)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusCreated, plan)
}

// GetPlan handles GET /workouts/plans/{planId}
func (h *Handler) GetPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	planID, err := strconv.ParseInt(mux.Vars(r)["planId"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid plan ID")
		return
	}

	plan, err := h.service.GetPlan(r.Context(), userID, planID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, plan)
}

// ListMyPlans handles GET /workouts/plans
func (h *Handler) ListMyPlans(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	plans, err := h.service.ListMyPlans(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]interface{}{
		"plans": plans,
		"total": len(plans),
	})
}

// BrowsePublicPlans handles GET /workouts/plans/public
func (h *Handler) BrowsePublicPlans(w http.ResponseWriter, r *http.Request) {
	difficulty := r.URL.Query().Get("difficulty")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	plans, err := h.service.BrowsePublicPlans(r.Context(), difficulty, limit)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]interface{}{
		"plans": plans,
		"total": len(plans),
	})
}

// UpdatePlan handles PUT /workouts/plans/{planId}
func (h *Handler) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	planID, err := strconv.ParseInt(mux.Vars(r)["planId"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid plan ID")
		return
	}

	var input UpdatePlanInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.service.UpdatePlan(r.Context(), userID, planID, &input)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, plan)
}

// DeletePlan handles DELETE /workouts/plans/{planId}
func (h *Handler) DeletePlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	planID, err := strconv.ParseInt(mux.Vars(r)["planId"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid plan ID")
		return
	}

	if err := h.service.DeletePlan(r.Context(), userID, planID); err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Workout plan deleted")
}

// LogSession handles POST /workouts/sessions
func (h *Handler) LogSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var input LogSessionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	session, err := h.service.LogSession(r.Context(), userID, &input)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusCreated, session)
}

// ListSessions handles GET /workouts/sessions
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	sessions, err := h.service.ListSessions(r.Context(), userID, limit)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"total":    len(sessions),
	})
}

// GetStats handles GET /workouts/stats
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
	case errors.Is(err, ErrPlanNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotPlanOwner):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
