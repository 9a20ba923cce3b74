package connections

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/knownet-app/knownet-backend/internal/common/utils"
)

// Handler holds dependencies for connection endpoints
type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// Create sends a connection request to another user
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateConnectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	conn, err := h.service.CreateRequest(r.Context(), userID, req.ReceiverID)
	if err != nil {
		switch {
		case errors.Is(err, ErrSelfConnection):
			utils.ErrorResponse(w, "Cannot connect with yourself", http.StatusBadRequest)
		case errors.Is(err, ErrReceiverNotFound):
			utils.ErrorResponse(w, "Receiver not found", http.StatusNotFound)
		case errors.Is(err, ErrAlreadyConnected), errors.Is(err, ErrRequestPending):
			utils.ErrorResponse(w, err.Error(), http.StatusConflict)
		default:
			utils.ErrorResponse(w, "Failed to create connection request", http.StatusInternalServerError)
		}
		return
	}

	utils.RespondWithData(w, http.StatusCreated, conn)
}

// Accept approves a pending request addressed to the caller
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
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

	conn, err := h.service.Accept(r.Context(), connectionID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrConnectionNotFound):
			utils.ErrorResponse(w, "Connection not found", http.StatusNotFound)
		case errors.Is(err, ErrNotReceiver):
			utils.ErrorResponse(w, "Only the receiver can accept a request", http.StatusForbidden)
		default:
			utils.ErrorResponse(w, "Failed to accept connection", http.StatusInternalServerError)
		}
		return
	}

	utils.RespondWithData(w, http.StatusOK, conn)
}

// Reject declines a pending request addressed to the caller
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.Reject(r.Context(), connectionID, userID); err != nil {
		switch {
		case errors.Is(err, ErrConnectionNotFound):
			utils.ErrorResponse(w, "Connection not found", http.StatusNotFound)
		case errors.Is(err, ErrNotReceiver):
			utils.ErrorResponse(w, "Only the receiver can reject a request", http.StatusForbidden)
		case errors.Is(err, ErrNotPending):
			utils.ErrorResponse(w, "Request is no longer pending", http.StatusConflict)
		default:
			utils.ErrorResponse(w, "Failed to reject connection", http.StatusInternalServerError)
		}
		return
	}

	utils.MessageResponse(w, "Connection request rejected", http.StatusOK)
}

// ListPending returns requests waiting on the caller, oldest first
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conns, err := h.service.ListPending(r.Context(), userID)
	if err != nil {
		utils.ErrorResponse(w, "Failed to list pending requests", http.StatusInternalServerError)
		return
	}

	utils.RespondWithData(w, http.StatusOK, conns)
}

// ListAccepted returns the caller's accepted connections, most recent first
func (h *Handler) ListAccepted(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conns, err := h.service.ListAccepted(r.Context(), userID)
	if err != nil {
		utils.ErrorResponse(w, "Failed to list connections", http.StatusInternalServerError)
		return
	}

	utils.RespondWithData(w, http.StatusOK, conns)
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}
