package recommend

import (
	"github.com/gorilla/mux"
	"github.com/knownet-app/knownet-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/recommendations/location", handler.GetLocationRecommendations).Methods("GET")
	api.HandleFunc("/recommend/{location}", handler.GetSessionRecommendations).Methods("GET")
}
