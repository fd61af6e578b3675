// internal/messaging/handlers.go

package messaging

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/fittrackr/fittrackr-backend/internal/auth"
	"github.com/fittrackr/fittrackr-backend/internal/common/utils"
)

// Handler handles messaging HTTP requests
type Handler struct {
	service Service
	hub     *Hub
}

// NewHandler creates a messaging handler
func NewHandler(service Service, hub *Hub) *Handler {
	return &Handler{service: service, hub: hub}
}

// SendMessage handles POST /messages
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var input SendMessageInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	msg, err := h.service.SendMessage(r.Context(), userID, &input)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusCreated, msg)
}

// ListConversations handles GET /messages/conversations
func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	conversations, err := h.service.ListConversations(r.Context(), userID)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]interface{}{
		"conversations": conversations,
		"total":         len(conversations),
	})
}

// GetMessages handles GET /messages/conversations/{conversationId}
func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	conversationID, err := strconv.ParseInt(mux.Vars(r)["conversationId"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	var before *time.Time
	if raw := q.Get("before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.RespondWithError(w, http.StatusBadRequest, "Invalid before timestamp")
			return
		}
		before = &t
	}

	messages, err := h.service.GetMessages(r.Context(), userID, conversationID, before, limit)
	if err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, map[string]interface{}{
		"messages": messages,
		"total":    len(messages),
	})
}

// MarkRead handles POST /messages/conversations/{conversationId}/read
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	conversationID, err := strconv.ParseInt(mux.Vars(r)["conversationId"], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	if err := h.service.MarkConversationRead(r.Context(), userID, conversationID); err != nil {
		h.respondServiceError(w, err)
		return
	}
	utils.RespondWithMessage(w, http.StatusOK, "Conversation marked read")
}

// ServeWS handles GET /messages/ws
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}
	h.hub.ServeWS(w, r, userID)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrConversationNotFound):
		utils.RespondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrNotConversationMember):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrCannotMessageSelf):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
