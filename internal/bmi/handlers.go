// internal/bmi/handlers.go

package bmi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fittrackr/fittrackr-backend/internal/auth"
	"github.com/fittrackr/fittrackr-backend/internal/common/utils"
)

// Handler handles BMI HTTP requests
type Handler struct {
	service Service
}

// NewHandler creates a BMI handler
func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// Calculate handles POST /bmi/calculate. The result is not stored.
func (h *Handler) Calculate(w http.ResponseWriter, r *http.Request) {
	var input CalculateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondWithData(w, http.StatusOK, h.service.Calculate(r.Context(), &input))
}

// RecordMeasurement handles POST /bmi/records
func (h *Handler) RecordMeasurement(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var input CalculateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	record, result, err := h.service.Record(r.Context(), userID, &input)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithData(w, http.StatusCreated, map[string]interface{}{
		"record": record,
		"result": result,
	})
}

// History handles GET /bmi/records
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	records, err := h.service.History(r.Context(), userID, limit)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"total":   len(records),
	})
}

// GetTrend handles GET /bmi/trend
func (h *Handler) GetTrend(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	trend, err := h.service.GetTrend(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNoRecords) {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	utils.RespondWithData(w, http.StatusOK, trend)
}
