package skills

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

// Add records a new skill for the caller
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req AddSkillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ErrorResponse(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	skill, err := h.service.Add(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrSkillExists):
			utils.ErrorResponse(w, "Skill already added", http.StatusConflict)
		case errors.Is(err, ErrSkillTooShort):
			utils.ErrorResponse(w, err.Error(), http.StatusBadRequest)
		default:
			utils.ErrorResponse(w, "Failed to add skill", http.StatusInternalServerError)
		}
		return
	}

	utils.RespondWithData(w, http.StatusCreated, skill)
}

// List returns the caller's skills, oldest first
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	list, err := h.service.List(r.Context(), userID)
	if err != nil {
		utils.ErrorResponse(w, "Failed to list skills", http.StatusInternalServerError)
		return
	}

	utils.RespondWithData(w, http.StatusOK, list)
}

// Remove deletes one of the caller's skills
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	skillID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.ErrorResponse(w, "Invalid skill ID", http.StatusBadRequest)
		return
	}

	if err := h.service.Remove(r.Context(), userID, skillID); err != nil {
		switch {
		case errors.Is(err, ErrSkillNotFound):
			utils.ErrorResponse(w, "Skill not found", http.StatusNotFound)
		case errors.Is(err, ErrNotOwner):
			utils.ErrorResponse(w, "Skill belongs to another user", http.StatusForbidden)
		default:
			utils.ErrorResponse(w, "Failed to remove skill", http.StatusInternalServerError)
		}
		return
	}

	utils.MessageResponse(w, "Skill removed", http.StatusOK)
}
