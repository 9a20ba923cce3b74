package recommend

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/knownet-app/knownet-backend/internal/auth"
	"github.com/knownet-app/knownet-backend/internal/common/utils"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) GetLocationRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.GetUserIDFromContext(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	ranked, err := h.service.LocationRecommendations(r.Context(), userID)
	if err != nil {
		if err == ErrUserNotFound {
			utils.RespondWithError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to build recommendations")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, ranked)
}

func (h *Handler) GetSessionRecommendations(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	location := vars["location"]

	scored, err := h.service.SessionRecommendations(r.Context(), location)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to build recommendations")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, scored)
}
