package messages

import (
	"github.com/gorilla/mux"
	"github.com/knownet-app/knownet-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)

	api.HandleFunc("/sessions/{id:[0-9]+}/messages", handler.ListForSession).Methods("GET")
	api.HandleFunc("/sessions/{id:[0-9]+}/messages", handler.SendToSession).Methods("POST")
	api.HandleFunc("/connections/{id:[0-9]+}/messages", handler.ListForConnection).Methods("GET")
	api.HandleFunc("/connections/{id:[0-9]+}/messages", handler.SendToConnection).Methods("POST")
	api.HandleFunc("/messages/{id:[0-9]+}", handler.Delete).Methods("DELETE")
}
