package dashboard

import (
	"errors"
	"net/http"

	"github.com/knownet-app/knownet-backend/internal/auth"
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

// GetOverview returns the aggregated dashboard payload
func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(int64)
	if !ok {
		utils.ErrorResponse(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	overview, err := h.service.Overview(r.Context(), userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			utils.ErrorResponse(w, "User not found", http.StatusNotFound)
			return
		}
		utils.ErrorResponse(w, "Failed to build overview", http.StatusInternalServerError)
		return
	}

	utils.RespondWithData(w, http.StatusOK, overview)
}

// Search runs the cross-entity search behind ?q=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	results, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		utils.ErrorResponse(w, "Search failed", http.StatusInternalServerError)
		return
	}

	utils.RespondWithData(w, http.StatusOK, results)
}
