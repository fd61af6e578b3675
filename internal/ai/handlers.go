// internal/ai/handlers.go

package ai

import (
	"encoding/json"
	"net/http"

	"github.com/fittrackr/fittrackr-backend/internal/auth"
	"github.com/fittrackr/fittrackr-backend/internal/common/utils"
)

// Handler handles AI advice HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates an AI handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// AskCoach handles POST /ai/coach
func (h *Handler) AskCoach(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CoachRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	completion, err := h.service.AskCoach(r.Context(), userID, req.Question)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Set up your profile before asking the coach")
		return
	}
	utils.RespondWithData(w, http.StatusOK, completion)
}

// WeeklyPlan handles POST /ai/coach/weekly-plan
func (h *Handler) WeeklyPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	completion, err := h.service.WeeklyPlan(r.Context(), userID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Set up your profile before requesting a plan")
		return
	}
	utils.RespondWithData(w, http.StatusOK, completion)
}

// AskNutritionist handles POST /ai/nutrition
func (h *Handler) AskNutritionist(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req NutritionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	completion, err := h.service.AskNutritionist(r.Context(), userID, &req)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "Set up your profile before asking the nutritionist")
		return
	}
	utils.RespondWithData(w, http.StatusOK, completion)
}
