package dashboard

import (
	"github.com/gorilla/mux"
	"github.com/knownet-app/knownet-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/dashboard/overview", handler.GetOverview).Methods("GET")
	api.HandleFunc("/search", handler.Search).Methods("GET")
}
