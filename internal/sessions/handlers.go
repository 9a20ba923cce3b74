package sessions

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/knownet-app/knownet-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
	}
}

// Create publishes a new mentoring session
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	session, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrBadDate), errors.Is(err, ErrBadTime), errors.Is(err, ErrDateInPast):
			utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		default:
			utils.ErrorResponse(w, "Failed to create session", http.StatusInternalServerError)
		}
		return
	}

	utils.RespondWithData(w, http.StatusCreated, session)
}

// List returns upcoming sessions, optionally filtered by ?location=
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), r.URL.Query().Get("location"))
	if err != nil {
		utils.ErrorResponse(w, "Failed to list sessions", http.StatusInternalServerError)
		return
	}

	utils.RespondWithData(w, http.StatusOK, list)
}

// Get returns one session by ID
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID, err := parseID(r)
	if err != nil {
		utils.ErrorResponse(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	session, err := h.service.Get(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			utils.ErrorResponse(w, "Session not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, "Failed to fetch session", http.StatusInternalServerError)
		return
	}

	utils.RespondWithData(w, http.StatusOK, session)
}

// Join registers the caller as an attendee
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
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

	if err := h.service.Join(r.Context(), sessionID, userID); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			utils.ErrorResponse(w, "Session not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, "Failed to join session", http.StatusInternalServerError)
		return
	}

	utils.MessageResponse(w, "Joined session", http.StatusOK)
}

// Attendees returns the attendee list for a session
func (h *Handler) Attendees(w http.ResponseWriter, r *http.Request) {
	sessionID, err := parseID(r)
	if err != nil {
		utils.ErrorResponse(w, "Invalid session ID", http.StatusBadRequest)
		return
	}

	attendees, err := h.service.Attendees(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			utils.ErrorResponse(w, "Session not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, "Failed to list attendees", http.StatusInternalServerError)
		return
	}

	utils.RespondWithData(w, http.StatusOK, attendees)
}

// MySessions returns the caller's created and joined sessions
func (h *Handler) MySessions(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	created, err := h.service.ListCreatedBy(r.Context(), userID)
	if err != nil {
		utils.ErrorResponse(w, "Failed to list sessions", http.StatusInternalServerError)
		return
	}

	joined, err := h.service.ListJoinedBy(r.Context(), userID)
	if err != nil {
		utils.ErrorResponse(w, "Failed to list sessions", http.StatusInternalServerError)
		return
	}

	utils.RespondWithData(w, http.StatusOK, map[string]interface{}{
		"created": created,
		"joined":  joined,
	})
}

func parseID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}
