package messages

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/knownet-app/knownet-backend/internal/common/utils"
	"github.com/knownet-app/knownet-backend/internal/connections"
	"github.com/knownet-app/knownet-backend/internal/sessions"
)

// Handler holds dependencies for message endpoints
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// SendToSession posts a message into a session chat
func (h *Handler) SendToSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sessionID, err := parseID(r)
	if err != nil {
		utils.ErrorResponse(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	req, ok := decodeSendRequest(w, r)
	if !ok {
		return
	}

	message, err := h.service.SendToSession(r.Context(), sessionID, userID, req.Content)
	if err != nil {
		respondSendError(w, err, "session")
		return
	}

	utils.RespondWithData(w, http.StatusCreated, message)
}

// ListForSession returns a session's chat history, oldest first
func (h *Handler) ListForSession(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	sessionID, err := parseID(r)
	if err != nil {
		utils.ErrorResponse(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	msgs, err := h.service.ListForSession(r.Context(), sessionID, userID)
	if err != nil {
		respondSendError(w, err, "session")
		return
	}

	utils.RespondWithData(w, http.StatusOK, msgs)
}

// SendToConnection posts a message into a direct chat
func (h *Handler) SendToConnection(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	connectionID, err := parseID(r)
	if err != nil {
		utils.ErrorResponse(w, "Invalid connection ID", http.StatusBadRequest)
		return
	}

	req, ok := decodeSendRequest(w, r)
	if !ok {
		return
	}

	message, err := h.service.SendToConnection(r.Context(), connectionID, userID, req.Content)
	if err != nil {
		respondSendError(w, err, "connection")
		return
	}

	utils.RespondWithData(w, http.StatusCreated, message)
}

// ListForConnection returns a direct chat's history, oldest first
func (h *Handler) ListForConnection(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	connectionID, err := parseID(r)
	if err != nil {
		utils.ErrorResponse(w, "Invalid connection ID", http.StatusBadRequest)
		return
	}

	msgs, err := h.service.ListForConnection(r.Context(), connectionID, userID)
	if err != nil {
		respondSendError(w, err, "connection")
		return
	}

	utils.RespondWithData(w, http.StatusOK, msgs)
}

// Delete removes one of the caller's own messages
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	messageID, err := parseID(r)
	if err != nil {
		utils.ErrorResponse(w, "Invalid message ID", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(r.Context(), messageID, userID); err != nil {
		switch {
		case errors.Is(err, ErrMessageNotFound):
			utils.ErrorResponse(w, "Message not found", http.StatusNotFound)
		case errors.Is(err, ErrNotSender):
			utils.ErrorResponse(w, "Only the sender can delete a message", http.StatusForbidden)
		default:
			utils.ErrorResponse(w, "Failed to delete message", http.StatusInternalServerError)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func decodeSendRequest(w http.ResponseWriter, r *http.Request) (*SendMessageRequest, bool) {
	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return nil, false
	}

	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}

	return &req, true
}

func respondSendError(w http.ResponseWriter, err error, scope string) {
	switch {
	case errors.Is(err, sessions.ErrSessionNotFound):
		utils.ErrorResponse(w, "Session not found", http.StatusNotFound)
	case errors.Is(err, sessions.ErrNoAccess):
		utils.ErrorResponse(w, "You have no access to this session", http.StatusForbidden)
	case errors.Is(err, connections.ErrConnectionNotFound):
		utils.ErrorResponse(w, "Connection not found", http.StatusNotFound)
	case errors.Is(err, connections.ErrNotParticipant):
		utils.ErrorResponse(w, "You are not a participant of this connection", http.StatusForbidden)
	case errors.Is(err, ErrEmptyContent):
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
	default:
		utils.ErrorResponse(w, "Failed to handle "+scope+" message", http.StatusInternalServerError)
	}
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}
