package connections

import (
	"github.com/gorilla/mux"
	"github.com/knownet-app/knownet-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/connections").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("", handler.Create).Methods("POST")
	api.HandleFunc("/pending", handler.ListPending).Methods("GET")
	api.HandleFunc("/accepted", handler.ListAccepted).Methods("GET")
	api.HandleFunc("/{id:[0-9]+}/accept", handler.Accept).Methods("POST")
	api.HandleFunc("/{id:[0-9]+}/reject", handler.Reject).Methods("POST")
}
