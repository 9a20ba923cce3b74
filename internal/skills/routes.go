package skills

import (
	"github.com/gorilla/mux"
	"github.com/knownet-app/knownet-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/skills").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("", handler.Add).Methods("POST")
	api.HandleFunc("", handler.List).Methods("GET")
	api.HandleFunc("/{id:[0-9]+}", handler.Remove).Methods("DELETE")
}
